package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	cfg, _ := config.Load()
	cfg.FeedBaseURL = "https://example.test/index.php"
	cfg.FeedStoreID = "42"
	cfg.FeedAPIKey = "secret"
	cfg.FeedRateRPS = 1000
	return cfg
}

func TestFetchConsoleRetriesAndCleansPayload(t *testing.T) {
	attempt := 0
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			q := r.URL.Query()
			if q.Get("console") != "switch" || q.Get("winkel") != "42" || q.Get("code") != "secret" {
				t.Fatalf("unexpected query: %s", r.URL.RawQuery)
			}
			attempt++
			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusServiceUnavailable,
					Body:       io.NopCloser(strings.NewReader("busy")),
					Header:     make(http.Header),
				}, nil
			}
			body := "titel;ean;laagsteprijs;laagsteprijstweedehands<br>Zelda&nbspTOTK;0123456789;19.99;14.50<br>"
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	tbl, err := client.FetchConsole(context.Background(), "switch")
	if err != nil {
		t.Fatal(err)
	}
	if attempt != 2 {
		t.Fatalf("attempts=%d", attempt)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows=%d", len(tbl.Rows))
	}
	if tbl.Rows[0]["titel"] != "ZeldaTOTK" {
		t.Fatalf("titel=%q", tbl.Rows[0]["titel"])
	}
	if tbl.Rows[0]["ean"] != "0123456789" {
		t.Fatalf("ean=%q", tbl.Rows[0]["ean"])
	}
}

func TestFetchConsoleHTMLResponse(t *testing.T) {
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			page := "<html><head><title>Onderhoud</title></head><body>offline</body></html>"
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(page)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	_, err := client.FetchConsole(context.Background(), "ps5")
	if !errors.Is(err, ErrHTMLResponse) {
		t.Fatalf("want ErrHTMLResponse, got %v", err)
	}
	if !strings.Contains(err.Error(), "Onderhoud") {
		t.Fatalf("error should carry the page title: %v", err)
	}
}

func TestFetchConsoleRequiresCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.FeedAPIKey = ""
	client := NewClient(cfg)
	_, err := client.FetchConsole(context.Background(), "ps5")
	if err == nil || !strings.Contains(err.Error(), "BUDGETGAMING_API_KEY") {
		t.Fatalf("error must name the missing env var, got %v", err)
	}
}

// Cancelling mid-retry must abort the backoff, not sleep it out.
func TestFetchConsoleCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			attempts++
			cancel()
			return &http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Body:       io.NopCloser(strings.NewReader("busy")),
				Header:     make(http.Header),
			}, nil
		}),
	}

	_, err := client.FetchConsole(ctx, "switch")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts=%d, cancelled fetch must not retry", attempts)
	}
}
