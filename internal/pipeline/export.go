package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/util"
)

var auditHeaders = []string{
	"link", "ean", "titel", "aantal",
	"huidige_prijs", "laagste_prijs", "prijsverschil", "goedkoopste",
	"reviewer", "akkoord", "datum", "notitie", "sku",
}

// WritePriceDropCSV writes the price-drop report as ;-separated text
// with the column names the shop's follow-up tooling expects.
func WritePriceDropCSV(rows []internal.PriceDropRow, path string, decimalComma bool) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"catalog_product_attribute.sku", "titel", "min_laagste", "console", "huidige_prijs_magento"}); err != nil {
			return err
		}
		for _, r := range rows {
			rec := []string{
				r.SKU,
				r.Title,
				util.FormatAmount(r.MarketPrice, decimalComma),
				r.Console,
				util.FormatAmount(r.CatalogPrice, decimalComma),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAuditCSV writes the full reconciliation, matched or not, with
// empty review placeholder columns. decimalComma controls how numeric
// fields are rendered, independent of how the inputs were formatted.
func WriteAuditCSV(rows []internal.AuditRow, path string, decimalComma bool) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write(auditHeaders); err != nil {
			return err
		}
		for _, r := range rows {
			if err := w.Write(auditRecord(r, decimalComma)); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteOffersCSV writes a fetched market snapshot in the same column
// layout the feed delivers, so it can be fed back in as --market input.
func WriteOffersCSV(offers []internal.MarketOffer, path string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"titel", "console", "ean", "laagsteprijs", "laagsteprijstweedehands", "link"}); err != nil {
			return err
		}
		for _, o := range offers {
			rec := []string{o.Title, o.Console, o.EAN, amountOrEmpty(o.PriceNew, false), amountOrEmpty(o.PriceUsed, false), ""}
			if o.Link != nil {
				rec[5] = *o.Link
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAuditXLSX writes the audit export as a spreadsheet for reviewers
// who annotate it directly in Excel.
func WriteAuditXLSX(rows []internal.AuditRow, path string, decimalComma bool) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range auditHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		rec := auditRecord(row, decimalComma)
		for c, v := range rec {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func auditRecord(r internal.AuditRow, decimalComma bool) []string {
	qty := ""
	if r.Quantity != nil {
		qty = strconv.Itoa(*r.Quantity)
	}
	return []string{
		r.Link,
		r.EAN,
		r.Title,
		qty,
		util.FormatAmount(r.CatalogPrice, decimalComma),
		amountOrEmpty(r.MarketPrice, decimalComma),
		amountOrEmpty(r.Difference, decimalComma),
		util.YesNo(r.IsCheapest),
		r.Reviewer,
		r.Approved,
		r.Date,
		r.Note,
		r.SKU,
	}
}

func amountOrEmpty(v *float64, decimalComma bool) string {
	if v == nil {
		return ""
	}
	return util.FormatAmount(*v, decimalComma)
}

func writeCSV(path string, body func(w *csv.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := body(w); err != nil {
		_ = f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
