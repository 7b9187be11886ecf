package util

import (
	"math"
	"strconv"
	"strings"
)

// Round2 rounds to two decimal places. Reports round only at the
// comparison/presentation boundary; intermediate values stay unrounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a monetary value with two decimals. With
// decimalComma the Dutch convention is used ("24,99" instead of "24.99").
func FormatAmount(v float64, decimalComma bool) string {
	s := strconv.FormatFloat(Round2(v), 'f', 2, 64)
	if decimalComma {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

func YesNo(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}
