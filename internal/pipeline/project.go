package pipeline

import (
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/util"
)

// PriceDropRows keeps the rows where the retailer is beaten on price: a
// market price exists and the catalog price sits strictly above it.
// Input order is preserved.
func PriceDropRows(rows []internal.ReconciledRow) []internal.PriceDropRow {
	out := make([]internal.PriceDropRow, 0)
	for _, r := range rows {
		if r.MarketPrice == nil || r.Difference == nil || *r.Difference <= 0 {
			continue
		}
		out = append(out, internal.PriceDropRow{
			SKU:          r.SKU,
			Title:        r.Title,
			MarketPrice:  util.Round2(*r.MarketPrice),
			Console:      r.Console,
			CatalogPrice: r.CatalogPrice,
		})
	}
	return out
}

// AuditRows shapes every reconciled row for the manual-review export.
// Reviewer, approval, date and note stay empty placeholders.
func AuditRows(rows []internal.ReconciledRow) []internal.AuditRow {
	out := make([]internal.AuditRow, 0, len(rows))
	for _, r := range rows {
		link := ""
		if r.Link != nil {
			link = *r.Link
		}
		out = append(out, internal.AuditRow{
			Link:         link,
			EAN:          r.EAN,
			Title:        r.Title,
			Quantity:     r.Quantity,
			CatalogPrice: r.CatalogPrice,
			MarketPrice:  r.MarketPrice,
			Difference:   r.Difference,
			IsCheapest:   r.IsCheapest,
			SKU:          r.SKU,
		})
	}
	return out
}
