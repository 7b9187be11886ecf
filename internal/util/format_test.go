package util

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		comma bool
		want  string
	}{
		{name: "dot convention", value: 19.99, comma: false, want: "19.99"},
		{name: "comma convention", value: 19.99, comma: true, want: "19,99"},
		{name: "padded to two decimals", value: 5, comma: true, want: "5,00"},
		{name: "rounded to cents", value: 1.006, comma: false, want: "1.01"},
		{name: "large value keeps no grouping", value: 1234.56, comma: true, want: "1234,56"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatAmount(tc.value, tc.comma); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestYesNo(t *testing.T) {
	if YesNo(true) != "Y" || YesNo(false) != "N" {
		t.Fatal("Y/N mapping broken")
	}
}
