package feed

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/config"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/pipeline"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/storage"
)

// FetchService pulls the feed for a set of consoles, normalizes and
// deduplicates the merged batch, and replaces the stored snapshot.
type FetchService struct {
	db     *storage.DB
	client *Client
	cfg    config.Config
	log    zerolog.Logger
}

func NewFetchService(db *storage.DB, cfg config.Config, log zerolog.Logger) *FetchService {
	return &FetchService{db: db, client: NewClient(cfg), cfg: cfg, log: log}
}

type FetchResult struct {
	Consoles int
	Skipped  int
	Offers   int
	Dropped  int
}

// FetchAll fetches every console in turn. A console that fails is
// logged and skipped; one broken feed must not lose the rest of the
// batch. The merged result replaces the previous snapshot.
func (s *FetchService) FetchAll(ctx context.Context, consoles []string) (FetchResult, error) {
	if len(consoles) == 0 {
		return FetchResult{}, errors.New("no consoles selected")
	}

	mapping := pipeline.MarketMappingFromConfig(s.cfg)
	all := make([]internal.MarketOffer, 0)
	result := FetchResult{Consoles: len(consoles)}

	for _, console := range consoles {
		tbl, err := s.client.FetchConsole(ctx, console)
		if err != nil {
			s.log.Warn().Err(err).Str("console", console).Msg("console skipped")
			result.Skipped++
			continue
		}

		parsed, err := pipeline.ParseMarketRows(tbl, console, mapping, console, s.cfg.FeedPricesInCents)
		if err != nil {
			s.log.Warn().Err(err).Str("console", console).Msg("console skipped")
			result.Skipped++
			continue
		}

		all = append(all, parsed.Offers...)
		result.Dropped += len(parsed.Defects)
		s.log.Info().Str("console", console).Int("offers", len(parsed.Offers)).Int("rejected", len(parsed.Defects)).Msg("console fetched")
	}

	deduped := pipeline.Deduplicate(all)
	result.Offers = len(deduped)

	if s.db != nil {
		if err := s.db.ReplaceOffers(deduped); err != nil {
			return result, err
		}
		_ = s.db.SetMetadata("feed.last_fetch", time.Now().UTC().Format(time.RFC3339))
		_ = s.db.SetMetadata("feed.last_consoles", strings.Join(consoles, ","))
	}

	return result, nil
}

// Offers returns the deduplicated snapshot currently stored.
func (s *FetchService) Offers() ([]internal.MarketOffer, error) {
	return s.db.ListOffers()
}

// LoadConsolesFile reads one console name per line, blanks skipped.
func LoadConsolesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}
