package invoice

import (
	"context"
	"fmt"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/workbook"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is the outcome of one successful processing run
type Result struct {
	RunID     string                 `json:"run_id"`
	Summaries []models.ClientSummary `json:"summaries"`
	Overview  Overview               `json:"overview"`
	Dropped   []DroppedRow           `json:"dropped,omitempty"`
	Message   string                 `json:"message"`
}

// Processor runs validation, normalization and aggregation over one table
type Processor struct {
	validator  *Validator
	normalizer *Normalizer
	logger     *zap.Logger
}

// NewProcessor creates a new Processor
func NewProcessor(logger *zap.Logger) *Processor {
	return &Processor{
		validator:  NewValidator(),
		normalizer: NewNormalizer(logger),
		logger:     logger,
	}
}

// Process validates table and groups its rows into client summaries.
// Validation failures come back as *ValidationError, anything unexpected
// as *ProcessingError.
func (p *Processor) Process(ctx context.Context, table *workbook.Table) (result *Result, err error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))

	logger.Info("Starting invoice processing",
		zap.Int("columns", len(table.Headers)),
		zap.Int("rows", len(table.Rows)))

	// Step 1: Validate structure
	if err := p.validator.Validate(table); err != nil {
		logger.Warn("Workbook rejected", zap.Error(err))
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage := "normalization"
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Invoice processing panicked",
				zap.String("stage", stage),
				zap.Any("panic", r))
			result = nil
			err = &ProcessingError{Stage: stage, Err: fmt.Errorf("%v", r)}
		}
	}()

	// Step 2: Map rows to line items
	items, dropped := p.normalizer.Normalize(table)
	for _, d := range dropped {
		logger.Debug("Row dropped", zap.Int("row", d.Row), zap.String("reason", d.Reason))
	}
	if len(items) == 0 {
		logger.Warn("No valid rows after cleanup", zap.Int("dropped_count", len(dropped)))
		return nil, &ValidationError{Kind: ErrEmptyInput}
	}

	// Step 3: Group by client
	stage = "aggregation"
	summaries := Aggregate(items)

	result = &Result{
		RunID:     runID,
		Summaries: summaries,
		Overview:  BuildOverview(summaries),
		Dropped:   dropped,
		Message:   fmt.Sprintf("processed %d client(s)", len(summaries)),
	}

	logger.Info("Invoice processing complete",
		zap.Int("client_count", result.Overview.ClientCount),
		zap.Int("invoice_count", result.Overview.InvoiceCount),
		zap.Int("dropped_count", len(dropped)),
		zap.String("grand_total_ttc", result.Overview.GrandTotalTTC))

	return result, nil
}

// Warnings renders dropped rows as human readable messages
func (r *Result) Warnings() []string {
	warnings := make([]string, 0, len(r.Dropped))
	for _, d := range r.Dropped {
		warnings = append(warnings, fmt.Sprintf("row %d skipped: %s", d.Row, d.Reason))
	}
	return warnings
}

// FindClient returns the summary whose client number matches clientNumber
// ignoring case, or nil
func (r *Result) FindClient(clientNumber string) *models.ClientSummary {
	key := ClientKey(clientNumber)
	for i := range r.Summaries {
		if ClientKey(r.Summaries[i].ClientNumber) == key {
			return &r.Summaries[i]
		}
	}
	return nil
}
