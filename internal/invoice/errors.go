package invoice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Validation errors
	ErrMissingColumns   = errors.New("missing columns")
	ErrEmptyInput       = errors.New("empty input")
	ErrNonNumericAmount = errors.New("non-numeric amount")

	// Processing errors
	ErrProcessing = errors.New("processing error")
)

// ValidationError describes why a table was rejected before processing
type ValidationError struct {
	Kind    error    // one of ErrMissingColumns, ErrEmptyInput, ErrNonNumericAmount
	Columns []string // offending columns, if any
	Row     int      // offending sheet row, 0 when not row specific
	Value   string   // offending cell value, if any
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrMissingColumns:
		return fmt.Sprintf("missing columns: %s", strings.Join(e.Columns, ", "))
	case ErrEmptyInput:
		return "the workbook contains no invoice rows"
	case ErrNonNumericAmount:
		return fmt.Sprintf("column %q must contain only numbers (row %d: %q)", firstOrEmpty(e.Columns), e.Row, e.Value)
	default:
		return "invalid workbook"
	}
}

// Unwrap lets errors.Is match the Kind sentinel
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ProcessingError wraps an unexpected failure during normalization or aggregation
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed during %s: %v", e.Stage, e.Err)
}

// Unwrap exposes both ErrProcessing and the underlying cause
func (e *ProcessingError) Unwrap() []error {
	return []error{ErrProcessing, e.Err}
}

// IsValidationError reports whether err was produced by the schema validator
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
