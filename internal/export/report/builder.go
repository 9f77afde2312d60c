// Package report builds paginated tabular report documents (PDF or XLSX)
// from uniform records and a column schema.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrExportGeneration is returned when document assembly fails after the
// input data was valid. Callers must not offer a partial artifact.
var ErrExportGeneration = errors.New("failed to generate export document")

// Format selects the output document type
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Column describes one table column. Key selects the record field, Header
// is the printed heading, Width is in PDF layout units (mm) and ignored by
// the XLSX writer when zero. At most one column carries Numeric, which
// designates it for the total line.
type Column struct {
	Key     string
	Header  string
	Width   float64
	Numeric bool
}

// Record is one table row; cell values are looked up by column key and
// render blank when absent. Numeric cells may hold a number or a
// pre-formatted string.
type Record map[string]interface{}

// Document is the full input to the builder
type Document struct {
	Title       string
	Description string
	GeneratedAt time.Time
	Columns     []Column
	Records     []Record
}

// Builder renders Documents into downloadable artifacts
type Builder struct {
	currency  string
	watermark *Watermark
	fontPath  string
	logger    *zap.Logger
}

// NewBuilder creates a report builder. watermark may be nil.
func NewBuilder(currency string, watermark *Watermark, logger *zap.Logger) *Builder {
	if currency == "" {
		currency = "₹"
	}
	return &Builder{currency: currency, watermark: watermark, logger: logger}
}

// WithFont sets a UTF-8 TTF font for PDF output. Without one the PDF
// writer falls back to the core Helvetica font, which cannot render
// symbols outside cp1252 (the rupee sign among them).
func (b *Builder) WithFont(path string) *Builder {
	b.fontPath = path
	return b
}

// Build renders the document in the requested format
func (b *Builder) Build(doc Document, format Format) ([]byte, error) {
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}

	switch format {
	case FormatXLSX:
		return b.buildXLSX(doc)
	case FormatPDF, "":
		return b.buildPDF(doc)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrExportGeneration, format)
	}
}

// FormatAmount renders a decimal with the currency symbol and two decimals
func (b *Builder) FormatAmount(amount decimal.Decimal) string {
	return b.currency + amount.StringFixed(2)
}

// Total sums the designated numeric column across all records
func (doc *Document) Total() decimal.Decimal {
	var key string
	for _, col := range doc.Columns {
		if col.Numeric {
			key = col.Key
			break
		}
	}
	if key == "" {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, rec := range doc.Records {
		if amount, ok := ParseAmount(rec[key]); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// ParseAmount converts a cell value to a decimal amount. Strings are parsed
// after stripping everything but digits, the decimal point and a minus sign,
// so pre-formatted values like "₹1,500.50" sum correctly.
func ParseAmount(v interface{}) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return val, true
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, val)
		if cleaned == "" {
			return decimal.Zero, false
		}
		parsed, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.Zero, false
		}
		return parsed, true
	default:
		return decimal.Zero, false
	}
}

// cellText renders a record value for display
func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case decimal.Decimal:
		return val.StringFixed(2)
	case float64:
		return decimal.NewFromFloat(val).StringFixed(2)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}
