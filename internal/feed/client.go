package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/config"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/fileio"
)

// ErrHTMLResponse marks a console whose feed answered with an HTML page
// (login wall, maintenance notice) instead of CSV. The console is
// skipped, not fatal to the batch.
var ErrHTMLResponse = errors.New("feed returned HTML instead of CSV")

// Client fetches the BudgetGaming per-console price feed.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.FeedTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.FeedRateRPS),
	}
}

// FetchConsole retrieves the feed for one console and returns its rows
// as a table, headers included in the payload.
func (c *Client) FetchConsole(ctx context.Context, console string) (fileio.Table, error) {
	if err := c.cfg.Require("BUDGETGAMING_API_KEY", c.cfg.FeedAPIKey); err != nil {
		return fileio.Table{}, err
	}
	if err := c.cfg.Require("BUDGETGAMING_STORE_ID", c.cfg.FeedStoreID); err != nil {
		return fileio.Table{}, err
	}

	u, err := url.Parse(c.cfg.FeedBaseURL)
	if err != nil {
		return fileio.Table{}, err
	}
	q := u.Query()
	q.Set("page", "budgetgamingfeed")
	q.Set("winkel", c.cfg.FeedStoreID)
	q.Set("code", c.cfg.FeedAPIKey)
	q.Set("console", console)
	u.RawQuery = q.Encode()

	body, err := c.fetch(ctx, u.String())
	if err != nil {
		return fileio.Table{}, err
	}

	text := string(body)
	if strings.Contains(strings.ToLower(text), "<html") {
		if title := htmlTitle(text); title != "" {
			return fileio.Table{}, fmt.Errorf("%w: %s", ErrHTMLResponse, title)
		}
		return fileio.Table{}, ErrHTMLResponse
	}

	// The feed embeds stray HTML entities and uses <br> as row breaks.
	text = strings.ReplaceAll(text, "&nbsp", "")
	text = strings.ReplaceAll(text, "<br>", "\n")

	return fileio.ReadCSV(strings.NewReader(text), 1)
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.cfg.FeedUserAgent)
		req.Header.Set("Content-Type", c.cfg.FeedContentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				lastErr = fmt.Errorf("feed status %d", resp.StatusCode)
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				if err := sleepCtx(ctx, backoff); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("feed error: status=%d", resp.StatusCode)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("feed request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// htmlTitle pulls the <title> out of an HTML error page so the log says
// what the feed actually served.
func htmlTitle(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
