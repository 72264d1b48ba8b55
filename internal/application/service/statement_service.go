package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/garyjia/invoice-bundler/internal/application/port"
	"github.com/garyjia/invoice-bundler/internal/bundle"
	"github.com/garyjia/invoice-bundler/internal/invoice"
	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/statement"
	"github.com/garyjia/invoice-bundler/internal/workbook"
)

const (
	ContentTypePDF = "application/pdf"
	ContentTypeZip = "application/zip"
)

// Logger is the key/value logger used by application services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Upload is a workbook received from a caller
type Upload struct {
	FileName string
	Content  []byte
}

// GenerateOptions selects what Generate and Export produce
type GenerateOptions struct {
	// Client restricts output to one client, matched ignoring case
	Client string
	// Archive forces a zip even when a single statement is produced
	Archive bool
	// Company fields override the configured profile when non-empty
	Company models.CompanyProfile
}

// Artifact is a downloadable output of Generate
type Artifact struct {
	FileName    string
	ContentType string
	Content     []byte
	Result      *invoice.Result
}

// ExportResult lists the files written by Export
type ExportResult struct {
	Result *invoice.Result
	Folder string
	Files  []string
}

// StatementService turns uploaded workbooks into client statements
type StatementService interface {
	Preview(ctx context.Context, upload Upload) (*invoice.Result, error)
	Generate(ctx context.Context, upload Upload, opts GenerateOptions) (*Artifact, error)
	Export(ctx context.Context, upload Upload, opts GenerateOptions) (*ExportResult, error)
	Verify(ctx context.Context, pdf []byte) (*statement.Totals, error)
}

type statementServiceImpl struct {
	reader     port.WorkbookReader
	processor  *invoice.Processor
	renderer   port.StatementRenderer
	totals     port.TotalsReader
	bundler    *bundle.Bundler
	storage    port.FileStorage
	runFolders port.RunFolders
	company    models.CompanyProfile
	allowed    []string
	now        func() time.Time
	logger     Logger
}

// Dependencies groups the collaborators of the statement service
type Dependencies struct {
	Reader     port.WorkbookReader
	Processor  *invoice.Processor
	Renderer   port.StatementRenderer
	Totals     port.TotalsReader
	Bundler    *bundle.Bundler
	Storage    port.FileStorage
	RunFolders port.RunFolders
	Company    models.CompanyProfile
	// AllowedExtensions restricts uploads; empty means the workbook defaults
	AllowedExtensions []string
	Now               func() time.Time
}

// NewStatementService creates a new StatementService
func NewStatementService(deps Dependencies, logger Logger) StatementService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &statementServiceImpl{
		reader:     deps.Reader,
		processor:  deps.Processor,
		renderer:   deps.Renderer,
		totals:     deps.Totals,
		bundler:    deps.Bundler,
		storage:    deps.Storage,
		runFolders: deps.RunFolders,
		company:    deps.Company,
		allowed:    deps.AllowedExtensions,
		now:        now,
		logger:     logger,
	}
}

// Preview validates and aggregates the workbook without rendering anything
func (s *statementServiceImpl) Preview(ctx context.Context, upload Upload) (*invoice.Result, error) {
	s.logger.Info("Previewing workbook", "filename", upload.FileName, "size", len(upload.Content))
	return s.process(ctx, upload)
}

// Generate renders the statements and packs them as one downloadable artifact
func (s *statementServiceImpl) Generate(ctx context.Context, upload Upload, opts GenerateOptions) (*Artifact, error) {
	s.logger.Info("Generating statements",
		"filename", upload.FileName,
		"client", opts.Client,
		"archive", opts.Archive)

	// Step 1: Read and aggregate
	result, err := s.process(ctx, upload)
	if err != nil {
		return nil, err
	}

	// Step 2: Render
	docs, err := s.render(ctx, result, opts)
	if err != nil {
		return nil, err
	}

	// Step 3: Single PDF unless several documents or an archive was asked for
	if len(docs) == 1 && !opts.Archive {
		return &Artifact{
			FileName:    docs[0].FileName,
			ContentType: ContentTypePDF,
			Content:     docs[0].Content,
			Result:      result,
		}, nil
	}

	archive, err := s.bundler.Archive(docs)
	if err != nil {
		s.logger.Error("Failed to build archive", "error", err, "run_id", result.RunID)
		return nil, fmt.Errorf("failed to build archive: %w", err)
	}

	s.logger.Info("Statements generated", "run_id", result.RunID, "documents", len(docs))

	return &Artifact{
		FileName:    s.bundler.ArchiveName(),
		ContentType: ContentTypeZip,
		Content:     archive,
		Result:      result,
	}, nil
}

// Export renders the statements into <output>/<run id>/, one PDF per client,
// or a single zip when opts.Archive is set
func (s *statementServiceImpl) Export(ctx context.Context, upload Upload, opts GenerateOptions) (*ExportResult, error) {
	if s.storage == nil || s.runFolders == nil {
		return nil, fmt.Errorf("export requires file storage")
	}

	result, err := s.process(ctx, upload)
	if err != nil {
		return nil, err
	}

	docs, err := s.render(ctx, result, opts)
	if err != nil {
		return nil, err
	}

	folder, err := s.runFolders.Create(result.RunID)
	if err != nil {
		return nil, fmt.Errorf("failed to create run folder: %w", err)
	}

	export := &ExportResult{Result: result, Folder: folder}

	if opts.Archive {
		archive, err := s.bundler.Archive(docs)
		if err != nil {
			return nil, fmt.Errorf("failed to build archive: %w", err)
		}
		docs = []bundle.Document{{FileName: s.bundler.ArchiveName(), Content: archive}}
	}

	for _, doc := range docs {
		fullPath := filepath.Join(folder, doc.FileName)
		if err := s.storage.SaveFile(fullPath, doc.Content); err != nil {
			s.logger.Error("Failed to save output", "error", err, "path", fullPath)
			return nil, fmt.Errorf("failed to save %s: %w", doc.FileName, err)
		}
		export.Files = append(export.Files, fullPath)
	}

	s.logger.Info("Statements exported",
		"run_id", result.RunID,
		"folder", folder,
		"files", len(export.Files))

	return export, nil
}

// Verify reads the totals printed on a rendered statement
func (s *statementServiceImpl) Verify(ctx context.Context, pdf []byte) (*statement.Totals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	totals, err := s.totals.ReadTotals(pdf)
	if err != nil {
		s.logger.Error("Failed to read statement totals", "error", err)
		return nil, err
	}
	return totals, nil
}

// process reads the upload and runs the invoice pipeline over it
func (s *statementServiceImpl) process(ctx context.Context, upload Upload) (*invoice.Result, error) {
	if err := workbook.ValidateUpload(upload.FileName, s.allowed...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}

	table, err := s.reader.Read(upload.Content, upload.FileName)
	if err != nil {
		s.logger.Error("Failed to read workbook", "error", err, "filename", upload.FileName)
		return nil, fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}

	result, err := s.processor.Process(ctx, table)
	if err != nil {
		return nil, err
	}

	for _, w := range result.Warnings() {
		s.logger.Info("Row skipped", "run_id", result.RunID, "warning", w)
	}
	return result, nil
}

// render produces the documents selected by opts
func (s *statementServiceImpl) render(ctx context.Context, result *invoice.Result, opts GenerateOptions) ([]bundle.Document, error) {
	company := s.company.Merge(opts.Company)
	issuedAt := s.now()

	renderFn := func(summary *models.ClientSummary) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return s.renderer.Render(summary, company, issuedAt)
	}

	summaries := result.Summaries
	if opts.Client != "" {
		summary := result.FindClient(opts.Client)
		if summary == nil {
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, opts.Client)
		}
		summaries = []models.ClientSummary{*summary}
	}

	out, err := s.bundler.Bundle(summaries, renderFn)
	if err != nil {
		s.logger.Error("Failed to render statements", "error", err, "run_id", result.RunID)
		return nil, err
	}
	return out.All(), nil
}
