package pipeline

import (
	"fmt"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/util"
)

// JoinMode selects what happens to catalog rows without a comparable
// market price: JoinLeft keeps them (full audit export), JoinInner drops
// them (price-drop-only reporting).
type JoinMode string

const (
	JoinLeft  JoinMode = "left"
	JoinInner JoinMode = "inner"
)

func ParseJoinMode(s string) (JoinMode, error) {
	switch JoinMode(s) {
	case JoinLeft, JoinInner:
		return JoinMode(s), nil
	default:
		return "", fmt.Errorf("unsupported join mode: %q (want left or inner)", s)
	}
}

// Reconcile joins catalog items to the deduplicated market table by EAN.
// The condition-appropriate market price is selected per item; when it
// is absent (no match, or the matched offer lacks that price) the row is
// treated as having nothing to compare against: no difference, cheapest
// by definition. Offers must already be deduplicated; on duplicate EANs
// the first occurrence wins. Output preserves catalog input order.
func Reconcile(items []internal.CatalogItem, offers []internal.MarketOffer, join JoinMode) []internal.ReconciledRow {
	index := make(map[string]internal.MarketOffer, len(offers))
	for _, o := range offers {
		if _, ok := index[o.EAN]; !ok {
			index[o.EAN] = o
		}
	}

	rows := make([]internal.ReconciledRow, 0, len(items))
	for _, item := range items {
		row := internal.ReconciledRow{
			EAN:          item.EAN,
			SKU:          item.SKU,
			Title:        item.Title,
			Type:         item.Type,
			Quantity:     item.Quantity,
			CatalogPrice: item.Price,
		}

		if offer, matched := index[item.EAN]; matched {
			row.Console = offer.Console
			row.Link = offer.Link
			if row.Title == "" {
				row.Title = offer.Title
			}
			if item.Type == internal.CondNew {
				row.MarketPrice = offer.PriceNew
			} else {
				row.MarketPrice = offer.PriceUsed
			}
		}

		if row.MarketPrice == nil {
			row.IsCheapest = true
			if join == JoinInner {
				continue
			}
			rows = append(rows, row)
			continue
		}

		row.Difference = util.FloatPtr(util.Round2(item.Price - *row.MarketPrice))
		row.IsCheapest = item.Price <= *row.MarketPrice
		rows = append(rows, row)
	}
	return rows
}
