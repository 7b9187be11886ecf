package internal

// CondType classifies a catalog SKU as new or second-hand stock. The
// Magento export encodes it as the trailing character of the SKU.
type CondType string

const (
	CondNew  CondType = "N"
	CondUsed CondType = "G"
)

// MarketOffer is one row of the BudgetGaming price feed after
// normalization. Absent prices stay nil; they are never coerced to zero.
type MarketOffer struct {
	EAN       string
	Title     string
	Console   string
	Link      *string
	PriceNew  *float64
	PriceUsed *float64
}

// CatalogItem is one valid row of the Magento export. EAN is the SKU
// minus its trailing condition character, canonicalized.
type CatalogItem struct {
	SKU      string
	EAN      string
	Type     CondType
	Title    string
	Price    float64
	Quantity *int
}

// ReconciledRow is the result of matching one CatalogItem against the
// deduplicated market table. MarketPrice and Difference are nil when no
// offer matched or the condition-appropriate price is missing.
type ReconciledRow struct {
	EAN          string
	SKU          string
	Title        string
	Type         CondType
	Console      string
	Link         *string
	Quantity     *int
	CatalogPrice float64
	MarketPrice  *float64
	Difference   *float64
	IsCheapest   bool
}

// RowDefect records a rejected input row so a batch can finish while
// still reporting what it skipped.
type RowDefect struct {
	Line   int
	Field  string
	Raw    string
	Reason string
}

// PriceDropRow is one line of the price-drop report: a SKU currently
// priced above the cheapest comparable market offer.
type PriceDropRow struct {
	SKU          string
	Title        string
	MarketPrice  float64
	Console      string
	CatalogPrice float64
}

// AuditRow is one line of the full audit export. Reviewer, Approved,
// Date and Note are written empty and filled in by hand afterwards.
type AuditRow struct {
	Link         string
	EAN          string
	Title        string
	Quantity     *int
	CatalogPrice float64
	MarketPrice  *float64
	Difference   *float64
	IsCheapest   bool
	Reviewer     string
	Approved     string
	Date         string
	Note         string
	SKU          string
}
