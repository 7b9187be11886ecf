package pipeline

import (
	"strings"
	"testing"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/fileio"
)

func testMarketMapping() MarketMapping {
	return MarketMapping{
		EANKey: "ean", TitleKey: "titel", NewKey: "laagsteprijs", UsedKey: "laagsteprijstweedehands",
		ConsoleKey: "console", LinkKey: "link",
	}
}

func marketTable(rows ...map[string]string) fileio.Table {
	return fileio.Table{
		Headers: []string{"titel", "ean", "laagsteprijs", "laagsteprijstweedehands"},
		Rows:    rows,
	}
}

func marketRow(ean, priceNew, priceUsed string) map[string]string {
	return map[string]string{"titel": "spel", "ean": ean, "laagsteprijs": priceNew, "laagsteprijstweedehands": priceUsed}
}

func TestParseMarketRows(t *testing.T) {
	tbl := marketTable(
		marketRow("123456789", "19.99", ""),
		marketRow(" 0087125690 ", "", "7,50"),
	)
	res, err := ParseMarketRows(tbl, "ps5", testMarketMapping(), "feed", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Offers) != 2 || len(res.Defects) != 0 {
		t.Fatalf("offers=%d defects=%d", len(res.Offers), len(res.Defects))
	}
	if res.Offers[0].Console != "ps5" {
		t.Fatalf("console tag missing: %+v", res.Offers[0])
	}
	if res.Offers[0].PriceUsed != nil {
		t.Fatal("absent used price must stay absent")
	}
	if res.Offers[1].EAN != "87125690" {
		t.Fatalf("ean=%q", res.Offers[1].EAN)
	}
	if res.Offers[1].PriceUsed == nil || *res.Offers[1].PriceUsed != 7.50 {
		t.Fatalf("used price: %+v", res.Offers[1])
	}
}

func TestParseMarketRowsCountsBadEANs(t *testing.T) {
	tbl := marketTable(
		marketRow("", "10.00", ""),
		marketRow("geen", "10.00", ""),
		marketRow("555", "10.00", ""),
	)
	res, err := ParseMarketRows(tbl, "ps5", testMarketMapping(), "feed", false)
	if err != nil {
		t.Fatal(err)
	}
	// exclusions are observable, not silent
	if len(res.Offers) != 1 || len(res.Defects) != 2 {
		t.Fatalf("offers=%d defects=%d", len(res.Offers), len(res.Defects))
	}
	if res.Defects[0].Line != 2 || res.Defects[1].Line != 3 {
		t.Fatalf("defect lines: %+v", res.Defects)
	}
}

func TestParseMarketRowsMissingColumn(t *testing.T) {
	tbl := fileio.Table{
		Headers: []string{"titel", "ean"},
		Rows:    []map[string]string{{"titel": "spel", "ean": "123"}},
	}
	_, err := ParseMarketRows(tbl, "ps5", testMarketMapping(), "feed.csv", false)
	if err == nil || !strings.Contains(err.Error(), "laagsteprijs") {
		t.Fatalf("want structural error naming the column, got %v", err)
	}

	// a header-only table is checked the same way
	tbl.Rows = nil
	_, err = ParseMarketRows(tbl, "ps5", testMarketMapping(), "feed.csv", false)
	if err == nil || !strings.Contains(err.Error(), "laagsteprijs") {
		t.Fatalf("want structural error for header-only table, got %v", err)
	}
}
