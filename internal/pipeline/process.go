package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/config"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/fileio"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/storage"
)

// ReconcileService wires one reconciliation batch together: read the
// two tables, normalize, deduplicate, match, project, export, and
// record the run.
type ReconcileService struct {
	db  *storage.DB
	cfg config.Config
	log zerolog.Logger
}

func NewReconcileService(db *storage.DB, cfg config.Config, log zerolog.Logger) *ReconcileService {
	return &ReconcileService{db: db, cfg: cfg, log: log}
}

type ReconcileParams struct {
	CatalogPath   string
	MarketPath    string // empty: use the stored snapshot
	Join          JoinMode
	PricesInCents bool
	DropsPath     string
	AuditPath     string
	AuditXLSXPath string // optional
}

type ReconcileSummary struct {
	RunID   string
	Offers  int
	Items   int
	Rows    int
	Drops   int
	Defects int
}

func (s *ReconcileService) Run(p ReconcileParams) (ReconcileSummary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()

	offers, marketDefects, err := s.loadMarket(p)
	if err != nil {
		return ReconcileSummary{}, err
	}

	catalogTbl, err := readTableFile(p.CatalogPath)
	if err != nil {
		return ReconcileSummary{}, fmt.Errorf("read catalog export: %w", err)
	}
	parsed, err := ParseCatalogRows(catalogTbl, CatalogMappingFromConfig(s.cfg), p.CatalogPath)
	if err != nil {
		return ReconcileSummary{}, err
	}
	for _, d := range parsed.Defects {
		log.Debug().Int("line", d.Line).Str("field", d.Field).Str("raw", d.Raw).Str("reason", d.Reason).Msg("catalog row rejected")
	}

	reconciled := Reconcile(parsed.Items, offers, p.Join)
	drops := PriceDropRows(reconciled)
	audit := AuditRows(reconciled)

	if p.DropsPath != "" {
		if err := WritePriceDropCSV(drops, p.DropsPath, s.cfg.ExportDecimalComma); err != nil {
			return ReconcileSummary{}, fmt.Errorf("write price-drop report: %w", err)
		}
	}
	if p.AuditPath != "" {
		if err := WriteAuditCSV(audit, p.AuditPath, s.cfg.ExportDecimalComma); err != nil {
			return ReconcileSummary{}, fmt.Errorf("write audit report: %w", err)
		}
	}
	if p.AuditXLSXPath != "" {
		if err := WriteAuditXLSX(audit, p.AuditXLSXPath, s.cfg.ExportDecimalComma); err != nil {
			return ReconcileSummary{}, fmt.Errorf("write audit xlsx: %w", err)
		}
	}

	summary := ReconcileSummary{
		RunID:   runID,
		Offers:  len(offers),
		Items:   len(parsed.Items),
		Rows:    len(reconciled),
		Drops:   len(drops),
		Defects: len(parsed.Defects) + marketDefects,
	}

	if s.db != nil {
		counts := map[string]int{
			"offers":  summary.Offers,
			"items":   summary.Items,
			"rows":    summary.Rows,
			"drops":   summary.Drops,
			"defects": summary.Defects,
		}
		if err := s.db.InsertRun(runID, start, time.Since(start), counts); err != nil {
			log.Warn().Err(err).Msg("failed to record run")
		}
	}

	log.Info().
		Int("offers", summary.Offers).
		Int("items", summary.Items).
		Int("drops", summary.Drops).
		Int("defects", summary.Defects).
		Dur("took", time.Since(start)).
		Msg("reconciliation complete")

	return summary, nil
}

func (s *ReconcileService) loadMarket(p ReconcileParams) ([]internal.MarketOffer, int, error) {
	if p.MarketPath == "" {
		if s.db == nil {
			return nil, 0, fmt.Errorf("no market file given and no snapshot store available")
		}
		offers, err := s.db.ListOffers()
		if err != nil {
			return nil, 0, fmt.Errorf("load market snapshot: %w", err)
		}
		return offers, 0, nil
	}

	tbl, err := readTableFile(p.MarketPath)
	if err != nil {
		return nil, 0, fmt.Errorf("read market table: %w", err)
	}
	res, err := ParseMarketRows(tbl, "", MarketMappingFromConfig(s.cfg), p.MarketPath, p.PricesInCents)
	if err != nil {
		return nil, 0, err
	}
	for _, d := range res.Defects {
		s.log.Debug().Int("line", d.Line).Str("raw", d.Raw).Str("reason", d.Reason).Msg("market row rejected")
	}
	return Deduplicate(res.Offers), len(res.Defects), nil
}

// readTableFile opens, reads and closes one input table; the handle is
// released on every path, including parse failures.
func readTableFile(path string) (fileio.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileio.Table{}, err
	}
	defer f.Close()
	return fileio.ReadTable(f, path, 1)
}
