package fileio

import (
	"strings"
	"testing"
)

func TestReadCSVCommaDelimited(t *testing.T) {
	in := "sku,price,qty\n\"123N\",\"24,99\",3\n456G,12.50,\n"
	tbl, err := ReadCSV(strings.NewReader(in), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows=%d", len(tbl.Rows))
	}
	if tbl.Rows[0]["price"] != "24,99" {
		t.Fatalf("price=%q", tbl.Rows[0]["price"])
	}
	if tbl.Rows[1]["sku"] != "456G" || tbl.Rows[1]["qty"] != "" {
		t.Fatalf("row=%v", tbl.Rows[1])
	}
}

func TestReadCSVSemicolonDelimited(t *testing.T) {
	in := "titel;ean;laagsteprijs\nMario Kart;55500;39,99\n"
	tbl, err := ReadCSV(strings.NewReader(in), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows=%d", len(tbl.Rows))
	}
	if tbl.Rows[0]["laagsteprijs"] != "39,99" {
		t.Fatalf("price split on the wrong delimiter: %v", tbl.Rows[0])
	}
}

func TestReadCSVSkipsEmptyRowsAndNamesBlankHeaders(t *testing.T) {
	in := "a;;c\n1;2;3\n;;\n4;5;6\n"
	tbl, err := ReadCSV(strings.NewReader(in), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows=%d", len(tbl.Rows))
	}
	if tbl.Rows[0]["Column 2"] != "2" {
		t.Fatalf("blank header not substituted: %v", tbl.Rows[0])
	}
}

func TestReadCSVHeaderOnlyKeepsHeaders(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("titel;ean;laagsteprijs\n"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 0 {
		t.Fatalf("rows=%d", len(tbl.Rows))
	}
	if len(tbl.Headers) != 3 || tbl.Headers[1] != "ean" {
		t.Fatalf("headers=%v", tbl.Headers)
	}
}

func TestReadTableUnsupportedExtension(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), "export.pdf", 1)
	if err == nil || !strings.Contains(err.Error(), "export.pdf") {
		t.Fatalf("want unsupported-file error, got %v", err)
	}
}

func TestRequireColumns(t *testing.T) {
	tbl := Table{
		Headers: []string{"ean", "titel"},
		Rows:    []map[string]string{{"ean": "1", "titel": "x"}},
	}
	if err := RequireColumns(tbl, "feed.csv", "ean", "titel"); err != nil {
		t.Fatal(err)
	}
	err := RequireColumns(tbl, "feed.csv", "laagsteprijs")
	if err == nil || !strings.Contains(err.Error(), "laagsteprijs") || !strings.Contains(err.Error(), "feed.csv") {
		t.Fatalf("error must name file and column, got %v", err)
	}
}

// A header-only file missing a required column is a structural failure,
// not an empty result.
func TestRequireColumnsHeaderOnly(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("titel;ean\n"), 1)
	if err != nil {
		t.Fatal(err)
	}
	err = RequireColumns(tbl, "feed.csv", "titel", "ean", "laagsteprijs")
	if err == nil || !strings.Contains(err.Error(), "laagsteprijs") {
		t.Fatalf("want missing-column error, got %v", err)
	}
}
