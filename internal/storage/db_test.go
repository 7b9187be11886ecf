package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/util"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReplaceAndListOffers(t *testing.T) {
	db := openTestDB(t)

	first := []internal.MarketOffer{
		{EAN: "123", Title: "Zelda", Console: "switch", PriceNew: util.FloatPtr(19.99)},
		{EAN: "456", Title: "Halo", Console: "xbox", PriceUsed: util.FloatPtr(9.50), Link: util.StringPtr("https://example.test/456")},
	}
	if err := db.ReplaceOffers(first); err != nil {
		t.Fatal(err)
	}

	offers, err := db.ListOffers()
	if err != nil {
		t.Fatal(err)
	}
	if len(offers) != 2 {
		t.Fatalf("len=%d", len(offers))
	}
	if offers[0].PriceNew == nil || *offers[0].PriceNew != 19.99 || offers[0].PriceUsed != nil {
		t.Fatalf("absence not preserved: %+v", offers[0])
	}
	if offers[1].Link == nil || *offers[1].Link != "https://example.test/456" {
		t.Fatalf("link lost: %+v", offers[1])
	}

	// a new snapshot fully replaces the old one
	if err := db.ReplaceOffers([]internal.MarketOffer{{EAN: "789", Title: "Mario", Console: "switch"}}); err != nil {
		t.Fatal(err)
	}
	n, err := db.CountOffers()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("count=%d", n)
	}
}

func TestRunAndMetadata(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertRun("run-1", time.Now(), 120*time.Millisecond, map[string]int{"drops": 3}); err != nil {
		t.Fatal(err)
	}

	if err := db.SetMetadata("feed.last_fetch", "2026-08-29T10:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("feed.last_fetch", "2026-08-29T11:00:00Z"); err != nil {
		t.Fatal(err)
	}
	value, err := db.GetMetadata("feed.last_fetch")
	if err != nil {
		t.Fatal(err)
	}
	if value == nil || *value != "2026-08-29T11:00:00Z" {
		t.Fatalf("value=%v", value)
	}

	missing, err := db.GetMetadata("nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("missing=%v", missing)
	}
}
