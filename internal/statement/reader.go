package statement

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/gen2brain/go-fitz"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrTotalsNotFound is returned when a document lacks one of the total labels
var ErrTotalsNotFound = errors.New("statement totals not found")

// Totals are the three amounts printed at the bottom of a statement
type Totals struct {
	TotalHT  decimal.Decimal `json:"total_ht"`
	TotalTVA decimal.Decimal `json:"total_tva"`
	TotalTTC decimal.Decimal `json:"total_ttc"`
}

// Matches reports whether the totals equal the summary's, compared at two decimals
func (t *Totals) Matches(summary *models.ClientSummary) bool {
	return models.FormatAmount(t.TotalHT) == models.FormatAmount(summary.TotalHT) &&
		models.FormatAmount(t.TotalTVA) == models.FormatAmount(summary.TotalTVA) &&
		models.FormatAmount(t.TotalTTC) == models.FormatAmount(summary.TotalTTC)
}

var totalPatterns = map[string]*regexp.Regexp{
	LabelTotalHT:  totalPattern(LabelTotalHT),
	LabelTotalTVA: totalPattern(LabelTotalTVA),
	LabelTotalTTC: totalPattern(LabelTotalTTC),
}

func totalPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(label) + `\s*(-?[0-9]+\.[0-9]{2})`)
}

// TextExtractor pulls the text layer out of rendered statements using MuPDF
type TextExtractor struct {
	logger *zap.Logger
}

// NewTextExtractor creates a new TextExtractor
func NewTextExtractor(logger *zap.Logger) *TextExtractor {
	return &TextExtractor{logger: logger}
}

// Text returns the concatenated text of every page
func (e *TextExtractor) Text(pdf []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", n+1, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	e.logger.Debug("Extracted statement text",
		zap.Int("pages", doc.NumPage()),
		zap.Int("chars", sb.Len()))

	return sb.String(), nil
}

// ReadTotals extracts the totals block of a rendered statement
func (e *TextExtractor) ReadTotals(pdf []byte) (*Totals, error) {
	text, err := e.Text(pdf)
	if err != nil {
		return nil, err
	}
	return ParseTotals(text)
}

// ParseTotals finds the last value printed after each total label in text
func ParseTotals(text string) (*Totals, error) {
	values := make(map[string]decimal.Decimal, len(totalPatterns))
	for label, re := range totalPatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrTotalsNotFound, label)
		}
		d, err := decimal.NewFromString(matches[len(matches)-1][1])
		if err != nil {
			return nil, fmt.Errorf("invalid value after %s: %w", label, err)
		}
		values[label] = d
	}

	return &Totals{
		TotalHT:  values[LabelTotalHT],
		TotalTVA: values[LabelTotalTVA],
		TotalTTC: values[LabelTotalTTC],
	}, nil
}
