package invoice

import (
	"strings"

	"github.com/garyjia/invoice-bundler/internal/workbook"
)

// Validator checks a workbook table against the invoice schema.
// It only inspects the table and never modifies it.
type Validator struct {
	required []string
	amounts  []string
}

// NewValidator creates a Validator for the standard invoice columns
func NewValidator() *Validator {
	return &Validator{
		required: RequiredColumns,
		amounts:  AmountColumns,
	}
}

// Validate returns nil when the table can be processed, otherwise a *ValidationError.
// Checks run in order: required columns, non-empty body, numeric amounts.
func (v *Validator) Validate(table *workbook.Table) error {
	if missing := v.missingColumns(table); len(missing) > 0 {
		return &ValidationError{Kind: ErrMissingColumns, Columns: missing}
	}

	if len(table.Rows) == 0 {
		return &ValidationError{Kind: ErrEmptyInput}
	}

	for _, col := range v.amounts {
		idx := table.ColumnIndex(col)
		for _, row := range table.Rows {
			value := row.Value(idx)
			// Blank cells are tolerated here and become 0.00 during normalization
			if strings.TrimSpace(value) == "" {
				continue
			}
			if !IsNumeric(value) {
				return &ValidationError{
					Kind:    ErrNonNumericAmount,
					Columns: []string{col},
					Row:     row.Number,
					Value:   value,
				}
			}
		}
	}

	return nil
}

func (v *Validator) missingColumns(table *workbook.Table) []string {
	var missing []string
	for _, col := range v.required {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
