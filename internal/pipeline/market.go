package pipeline

import (
	"strings"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/config"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/fileio"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/util"
)

// MarketMapping names the columns of the price feed. ConsoleKey and
// LinkKey are optional; the rest must exist in the table.
type MarketMapping struct {
	EANKey     string
	TitleKey   string
	NewKey     string
	UsedKey    string
	ConsoleKey string
	LinkKey    string
}

func MarketMappingFromConfig(cfg config.Config) MarketMapping {
	return MarketMapping{
		EANKey:     cfg.MarketEANColumn,
		TitleKey:   cfg.MarketTitleColumn,
		NewKey:     cfg.MarketNewColumn,
		UsedKey:    cfg.MarketUsedColumn,
		ConsoleKey: "console",
		LinkKey:    cfg.MarketLinkColumn,
	}
}

type MarketParseResult struct {
	Offers  []internal.MarketOffer
	Defects []internal.RowDefect
}

// ParseMarketRows converts a raw feed table into MarketOffers. Rows
// whose EAN normalizes to nothing are excluded and counted; absent
// prices stay absent. console tags every offer unless the table carries
// its own console column.
func ParseMarketRows(tbl fileio.Table, console string, m MarketMapping, source string, pricesInCents bool) (MarketParseResult, error) {
	if err := fileio.RequireColumns(tbl, source, m.TitleKey, m.EANKey, m.NewKey, m.UsedKey); err != nil {
		return MarketParseResult{}, err
	}

	res := MarketParseResult{Offers: make([]internal.MarketOffer, 0, len(tbl.Rows))}
	for i, row := range tbl.Rows {
		line := i + 2 // 1-based, after the header row

		rawEAN := strings.TrimSpace(row[m.EANKey])
		ean, ok := NormalizeEAN(rawEAN)
		if !ok {
			res.Defects = append(res.Defects, internal.RowDefect{
				Line: line, Field: m.EANKey, Raw: rawEAN, Reason: "ean missing or not numeric",
			})
			continue
		}

		offer := internal.MarketOffer{
			EAN:       ean,
			Title:     strings.TrimSpace(row[m.TitleKey]),
			Console:   console,
			PriceNew:  ParsePrice(row[m.NewKey], pricesInCents),
			PriceUsed: ParsePrice(row[m.UsedKey], pricesInCents),
		}
		if c := strings.TrimSpace(row[m.ConsoleKey]); c != "" {
			offer.Console = c
		}
		if l := strings.TrimSpace(row[m.LinkKey]); l != "" {
			offer.Link = util.StringPtr(l)
		}
		res.Offers = append(res.Offers, offer)
	}
	return res, nil
}
