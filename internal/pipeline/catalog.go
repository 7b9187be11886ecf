package pipeline

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/config"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/fileio"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/util"
)

// CatalogMapping names the columns of the Magento export. TitleKey and
// QtyKey are optional.
type CatalogMapping struct {
	SKUKey   string
	PriceKey string
	TitleKey string
	QtyKey   string
}

func CatalogMappingFromConfig(cfg config.Config) CatalogMapping {
	return CatalogMapping{
		SKUKey:   cfg.CatalogSKUColumn,
		PriceKey: cfg.CatalogPriceColumn,
		TitleKey: cfg.CatalogTitleColumn,
		QtyKey:   cfg.CatalogQtyColumn,
	}
}

type CatalogParseResult struct {
	Items   []internal.CatalogItem
	Defects []internal.RowDefect
}

// ParseCatalogRows converts a raw export table into CatalogItems. The
// SKU's trailing character encodes the condition (N new, G used);
// everything before it is the EAN. A malformed row becomes a RowDefect
// and the batch continues; it never aborts the run.
func ParseCatalogRows(tbl fileio.Table, m CatalogMapping, source string) (CatalogParseResult, error) {
	if err := fileio.RequireColumns(tbl, source, m.SKUKey, m.PriceKey); err != nil {
		return CatalogParseResult{}, err
	}

	res := CatalogParseResult{Items: make([]internal.CatalogItem, 0, len(tbl.Rows))}
	for i, row := range tbl.Rows {
		line := i + 2

		sku := strings.TrimSpace(strings.Trim(row[m.SKUKey], `"`))
		if sku == "" {
			res.Defects = append(res.Defects, defect(line, m.SKUKey, sku, "blank sku"))
			continue
		}
		// Malformed exports sometimes repeat the column header as data.
		if strings.EqualFold(sku, m.SKUKey) {
			res.Defects = append(res.Defects, defect(line, m.SKUKey, sku, "header echoed as data"))
			continue
		}

		runes := []rune(sku)
		if len(runes) < 2 {
			res.Defects = append(res.Defects, defect(line, m.SKUKey, sku, "sku too short to carry a condition character"))
			continue
		}

		var cond internal.CondType
		switch unicode.ToUpper(runes[len(runes)-1]) {
		case 'N':
			cond = internal.CondNew
		case 'G':
			cond = internal.CondUsed
		default:
			res.Defects = append(res.Defects, defect(line, m.SKUKey, sku,
				fmt.Sprintf("unrecognized condition character %q", string(runes[len(runes)-1]))))
			continue
		}

		ean, ok := NormalizeEAN(string(runes[:len(runes)-1]))
		if !ok {
			res.Defects = append(res.Defects, defect(line, m.SKUKey, sku, "ean missing or not numeric"))
			continue
		}

		price := ParsePrice(row[m.PriceKey], false)
		if price == nil {
			res.Defects = append(res.Defects, defect(line, m.PriceKey, row[m.PriceKey], "unparseable price"))
			continue
		}

		item := internal.CatalogItem{
			SKU:   sku,
			EAN:   ean,
			Type:  cond,
			Title: strings.TrimSpace(row[m.TitleKey]),
			Price: *price,
		}
		if q := ParsePrice(row[m.QtyKey], false); q != nil {
			item.Quantity = util.IntPtr(int(math.Round(*q)))
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}

func defect(line int, field, raw, reason string) internal.RowDefect {
	return internal.RowDefect{Line: line, Field: field, Raw: raw, Reason: reason}
}
