package pipeline

import (
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
)

// Deduplicate collapses offers sharing an EAN to a single row. Within a
// group the row whose cheapest present price (new or used) is lowest
// wins; ties keep the first occurrence, and a group where every price is
// absent keeps its first row. Output preserves first-seen input order,
// so identical input always produces identical output.
func Deduplicate(offers []internal.MarketOffer) []internal.MarketOffer {
	type slot struct {
		offer internal.MarketOffer
		min   *float64
	}

	byEAN := make(map[string]int, len(offers))
	kept := make([]slot, 0, len(offers))

	for _, o := range offers {
		m := minPresent(o.PriceNew, o.PriceUsed)
		i, seen := byEAN[o.EAN]
		if !seen {
			byEAN[o.EAN] = len(kept)
			kept = append(kept, slot{offer: o, min: m})
			continue
		}
		if m != nil && (kept[i].min == nil || *m < *kept[i].min) {
			kept[i] = slot{offer: o, min: m}
		}
	}

	out := make([]internal.MarketOffer, len(kept))
	for i, s := range kept {
		out[i] = s.offer
	}
	return out
}

func minPresent(values ...*float64) *float64 {
	var min *float64
	for _, v := range values {
		if v == nil {
			continue
		}
		if min == nil || *v < *min {
			min = v
		}
	}
	return min
}
