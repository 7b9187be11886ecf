package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	FeedBaseURL       string
	FeedStoreID       string
	FeedAPIKey        string
	FeedUserAgent     string
	FeedContentType   string
	FeedRateRPS       int
	FeedTimeoutMs     int
	FeedPricesInCents bool
	Consoles          []string
	ConsolesFile      string

	JoinMode           string
	ExportDecimalComma bool

	CatalogSKUColumn   string
	CatalogPriceColumn string
	CatalogTitleColumn string
	CatalogQtyColumn   string

	MarketEANColumn   string
	MarketTitleColumn string
	MarketNewColumn   string
	MarketUsedColumn  string
	MarketLinkColumn  string

	LogLevel string
	LogFile  string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		FeedBaseURL:       getEnv("BUDGETGAMING_STORE_URL", ""),
		FeedStoreID:       getEnv("BUDGETGAMING_STORE_ID", ""),
		FeedAPIKey:        getEnv("BUDGETGAMING_API_KEY", ""),
		FeedUserAgent:     getEnv("HEADERS_USER_AGENT", "Mozilla/5.0"),
		FeedContentType:   getEnv("HEADERS_CONTENT_TYPE", "text/html"),
		FeedRateRPS:       getEnvInt("FEED_RATE_LIMIT_RPS", 2),
		FeedTimeoutMs:     getEnvInt("FEED_TIMEOUT_MS", 10000),
		FeedPricesInCents: getEnvBool("FEED_PRICES_IN_CENTS", false),
		Consoles:          splitList(getEnv("CONSOLES", "")),
		ConsolesFile:      getEnv("CONSOLES_FILE", filepath.Join(cwd, "consoles.txt")),

		JoinMode:           getEnv("JOIN_MODE", "left"),
		ExportDecimalComma: getEnvBool("EXPORT_DECIMAL_COMMA", true),

		CatalogSKUColumn:   getEnv("CATALOG_SKU_COLUMN", "catalog_product_attribute.sku"),
		CatalogPriceColumn: getEnv("CATALOG_PRICE_COLUMN", "price"),
		CatalogTitleColumn: getEnv("CATALOG_TITLE_COLUMN", "name"),
		CatalogQtyColumn:   getEnv("CATALOG_QTY_COLUMN", "qty"),

		MarketEANColumn:   getEnv("MARKET_EAN_COLUMN", "ean"),
		MarketTitleColumn: getEnv("MARKET_TITLE_COLUMN", "titel"),
		MarketNewColumn:   getEnv("MARKET_NEW_COLUMN", "laagsteprijs"),
		MarketUsedColumn:  getEnv("MARKET_USED_COLUMN", "laagsteprijstweedehands"),
		MarketLinkColumn:  getEnv("MARKET_LINK_COLUMN", "link"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", filepath.Join(cwd, "logs", "vergelijker.log")),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
