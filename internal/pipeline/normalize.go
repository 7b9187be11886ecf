package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// NormalizeEAN canonicalizes a raw barcode: every non-digit character is
// dropped and leading zeros are stripped. Reports ok=false when nothing
// remains; callers must treat such rows as unmatchable and count them.
// Normalizing an already-canonical EAN returns it unchanged.
func NormalizeEAN(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimLeft(b.String(), "0")
	return s, s != ""
}

var (
	reDotGrouped   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	reCommaGrouped = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// ParsePrice turns a locale-formatted price string ("19,99", "1.234,56",
// "€ 24.99") into a value. Grouped-digit forms are read as thousands;
// otherwise the last separator is the decimal point and earlier ones are
// grouping. Unparseable or negative input yields nil, never zero. A
// trailing hyphen ("19,-") is Dutch shorthand for zero cents, not a sign.
//
// With inCents the source encodes amounts in minor units and the parsed
// value is divided by 100. That is a per-source flag, never inferred.
func ParsePrice(raw string, inCents bool) *float64 {
	for _, r := range raw {
		if r == '-' {
			return nil
		}
		if r >= '0' && r <= '9' {
			break
		}
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	compact := strings.TrimRight(b.String(), ",.")
	if compact == "" {
		return nil
	}

	switch {
	case reDotGrouped.MatchString(compact):
		compact = strings.ReplaceAll(compact, ".", "")
	case reCommaGrouped.MatchString(compact):
		compact = strings.ReplaceAll(compact, ",", "")
	default:
		if last := strings.LastIndexAny(compact, ",."); last >= 0 {
			head := strings.NewReplacer(",", "", ".", "").Replace(compact[:last])
			compact = head + "." + compact[last+1:]
		}
	}

	f, err := strconv.ParseFloat(compact, 64)
	if err != nil {
		return nil
	}
	if inCents {
		f /= 100
	}
	return &f
}
