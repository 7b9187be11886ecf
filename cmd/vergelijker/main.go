package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/config"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/feed"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/pipeline"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	logger := config.SetupLogger(cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "feed:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		consoles := fs.String("consoles", "", "comma-separated console names (default: CONSOLES env or consoles file)")
		out := fs.String("out", "", "also write the merged snapshot as ;-separated CSV")
		_ = fs.Parse(os.Args[2:])

		names, err := resolveConsoles(cfg, *consoles)
		must(err)

		svc := feed.NewFetchService(db, cfg, logger)
		result, err := svc.FetchAll(context.Background(), names)
		must(err)
		if *out != "" {
			offers, err := svc.Offers()
			must(err)
			must(pipeline.WriteOffersCSV(offers, *out))
		}
		fmt.Printf("feed fetch done consoles=%d skipped=%d offers=%d rejected=%d\n",
			result.Consoles, result.Skipped, result.Offers, result.Dropped)

	case "reconcile":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		params, join := reconcileFlags(fs, cfg)
		_ = fs.Parse(os.Args[2:])
		finishParams(params, *join)
		runReconcile(db, cfg, logger, *params)

	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		consoles := fs.String("consoles", "", "comma-separated console names")
		params, join := reconcileFlags(fs, cfg)
		_ = fs.Parse(os.Args[2:])
		finishParams(params, *join)

		names, err := resolveConsoles(cfg, *consoles)
		must(err)
		svc := feed.NewFetchService(db, cfg, logger)
		result, err := svc.FetchAll(context.Background(), names)
		must(err)
		fmt.Printf("feed fetch done consoles=%d skipped=%d offers=%d\n", result.Consoles, result.Skipped, result.Offers)

		params.MarketPath = "" // reconcile against the fresh snapshot
		runReconcile(db, cfg, logger, *params)

	default:
		usage()
		os.Exit(1)
	}
}

func reconcileFlags(fs *flag.FlagSet, cfg config.Config) (*pipeline.ReconcileParams, *string) {
	datum := time.Now().Format("02-01-2006")
	p := &pipeline.ReconcileParams{}
	fs.StringVar(&p.CatalogPath, "catalog", "", "Magento export (csv/xls/xlsx)")
	fs.StringVar(&p.MarketPath, "market", "", "market price table (default: stored snapshot)")
	fs.StringVar(&p.DropsPath, "out-drops", filepath.Join(cfg.OutputDir, "prijsdalingen_"+datum+".csv"), "price-drop report path")
	fs.StringVar(&p.AuditPath, "out-audit", filepath.Join(cfg.OutputDir, "audit_"+datum+".csv"), "audit report path")
	fs.StringVar(&p.AuditXLSXPath, "audit-xlsx", "", "optional audit xlsx path")
	fs.BoolVar(&p.PricesInCents, "cents", cfg.FeedPricesInCents, "market prices are in cents")
	join := fs.String("join", cfg.JoinMode, "left|inner: keep or drop catalog rows without a market price")
	return p, join
}

func finishParams(p *pipeline.ReconcileParams, join string) {
	if strings.TrimSpace(p.CatalogPath) == "" {
		must(fmt.Errorf("--catalog is required"))
	}
	mode, err := pipeline.ParseJoinMode(join)
	must(err)
	p.Join = mode
}

func runReconcile(db *storage.DB, cfg config.Config, logger zerolog.Logger, p pipeline.ReconcileParams) {
	svc := pipeline.NewReconcileService(db, cfg, logger)
	summary, err := svc.Run(p)
	must(err)
	if summary.Drops == 0 {
		fmt.Println("geen prijsdalingen gevonden")
	} else {
		fmt.Printf("%d prijsdalingen gevonden: %s\n", summary.Drops, p.DropsPath)
	}
	fmt.Printf("reconcile done run=%s items=%d offers=%d drops=%d defects=%d\n",
		summary.RunID, summary.Items, summary.Offers, summary.Drops, summary.Defects)
}

func resolveConsoles(cfg config.Config, flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		parts := strings.Split(flagValue, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}
	if len(cfg.Consoles) > 0 {
		return cfg.Consoles, nil
	}
	return feed.LoadConsolesFile(cfg.ConsolesFile)
}

func usage() {
	fmt.Println("usage: vergelijker <command>")
	fmt.Println("commands:")
	fmt.Println("  feed:fetch [--consoles=ps5,switch] [--out=snapshot.csv]")
	fmt.Println("  reconcile --catalog=export.csv [--market=prices.csv] [--join=left|inner] [--cents]")
	fmt.Println("            [--out-drops=...] [--out-audit=...] [--audit-xlsx=...]")
	fmt.Println("  run --catalog=export.csv [--consoles=...]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
