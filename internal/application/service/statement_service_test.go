package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garyjia/invoice-bundler/internal/bundle"
	"github.com/garyjia/invoice-bundler/internal/invoice"
	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/statement"
	"github.com/garyjia/invoice-bundler/internal/storage"
	"github.com/garyjia/invoice-bundler/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockRenderer records the company it was called with
type mockRenderer struct {
	renderFunc func(summary *models.ClientSummary) ([]byte, error)
	company    models.CompanyProfile
	calls      int
}

func (m *mockRenderer) Render(summary *models.ClientSummary, company models.CompanyProfile, issuedAt time.Time) ([]byte, error) {
	m.calls++
	m.company = company
	if m.renderFunc != nil {
		return m.renderFunc(summary)
	}
	return []byte("%PDF-1.3 " + summary.ClientNumber), nil
}

type mockTotals struct {
	totals *statement.Totals
	err    error
}

func (m *mockTotals) ReadTotals(pdf []byte) (*statement.Totals, error) {
	return m.totals, m.err
}

func sampleUpload(t *testing.T) Upload {
	t.Helper()
	data, err := workbook.WriteXLSX(invoice.SampleRows())
	require.NoError(t, err)
	return Upload{FileName: "factures.xlsx", Content: data}
}

func newTestService(t *testing.T, renderer *mockRenderer) (StatementService, string) {
	t.Helper()
	logger := zap.NewNop()
	outDir := t.TempDir()

	svc := NewStatementService(Dependencies{
		Reader:     workbook.NewReader(logger),
		Processor:  invoice.NewProcessor(logger),
		Renderer:   renderer,
		Totals:     &mockTotals{},
		Bundler:    bundle.NewBundler(bundle.DefaultConfig(), logger),
		Storage:    storage.NewLocalFileStorage(outDir, logger),
		RunFolders: storage.NewRunFolders(outDir, logger),
		Company:    models.DefaultCompanyProfile(),
		Now:        func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) },
	}, nopLogger{})
	return svc, outDir
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestStatementService_Preview(t *testing.T) {
	svc, _ := newTestService(t, &mockRenderer{})

	t.Run("returns overview", func(t *testing.T) {
		result, err := svc.Preview(context.Background(), sampleUpload(t))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Overview.ClientCount)
		assert.Equal(t, 3, result.Overview.InvoiceCount)
		assert.Equal(t, "540.00", result.Overview.GrandTotalTTC)
		assert.Equal(t, "processed 2 client(s)", result.Message)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		upload := sampleUpload(t)
		upload.FileName = "factures.csv"

		_, err := svc.Preview(context.Background(), upload)
		assert.ErrorIs(t, err, ErrInvalidUpload)
		assert.ErrorIs(t, err, workbook.ErrUnsupportedFormat)
	})

	t.Run("rejects corrupted workbook", func(t *testing.T) {
		_, err := svc.Preview(context.Background(), Upload{FileName: "broken.xlsx", Content: []byte("garbage")})
		assert.ErrorIs(t, err, ErrInvalidUpload)
	})

	t.Run("passes validation errors through", func(t *testing.T) {
		data, err := workbook.WriteXLSX([][]interface{}{{"Numéro_client", "montant_ht"}, {"C1", 1}})
		require.NoError(t, err)

		_, err = svc.Preview(context.Background(), Upload{FileName: "x.xlsx", Content: data})
		require.Error(t, err)
		assert.True(t, invoice.IsValidationError(err))
		assert.ErrorIs(t, err, invoice.ErrMissingColumns)
	})
}

func TestStatementService_Generate(t *testing.T) {
	t.Run("several clients produce an archive", func(t *testing.T) {
		svc, _ := newTestService(t, &mockRenderer{})

		artifact, err := svc.Generate(context.Background(), sampleUpload(t), GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, bundle.DefaultArchiveName, artifact.FileName)
		assert.Equal(t, ContentTypeZip, artifact.ContentType)
		assert.Equal(t, []string{"facture_globale_C001.pdf", "facture_globale_C002.pdf"}, zipNames(t, artifact.Content))
	})

	t.Run("single client returns a pdf", func(t *testing.T) {
		svc, _ := newTestService(t, &mockRenderer{})

		artifact, err := svc.Generate(context.Background(), sampleUpload(t), GenerateOptions{Client: "c002"})
		require.NoError(t, err)
		assert.Equal(t, "facture_globale_C002.pdf", artifact.FileName)
		assert.Equal(t, ContentTypePDF, artifact.ContentType)
		assert.Equal(t, []byte("%PDF-1.3 C002"), artifact.Content)
	})

	t.Run("archive forced for one client", func(t *testing.T) {
		svc, _ := newTestService(t, &mockRenderer{})

		artifact, err := svc.Generate(context.Background(), sampleUpload(t), GenerateOptions{Client: "C001", Archive: true})
		require.NoError(t, err)
		assert.Equal(t, ContentTypeZip, artifact.ContentType)
		assert.Equal(t, []string{"facture_globale_C001.pdf"}, zipNames(t, artifact.Content))
	})

	t.Run("unknown client", func(t *testing.T) {
		svc, _ := newTestService(t, &mockRenderer{})

		_, err := svc.Generate(context.Background(), sampleUpload(t), GenerateOptions{Client: "C999"})
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("company override merges over defaults", func(t *testing.T) {
		renderer := &mockRenderer{}
		svc, _ := newTestService(t, renderer)

		_, err := svc.Generate(context.Background(), sampleUpload(t), GenerateOptions{
			Company: models.CompanyProfile{Name: "ACME"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ACME", renderer.company.Name)
		assert.Equal(t, models.DefaultCompanyProfile().Email, renderer.company.Email)
	})

	t.Run("render failure aborts", func(t *testing.T) {
		boom := errors.New("boom")
		svc, _ := newTestService(t, &mockRenderer{renderFunc: func(*models.ClientSummary) ([]byte, error) {
			return nil, boom
		}})

		_, err := svc.Generate(context.Background(), sampleUpload(t), GenerateOptions{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context stops rendering", func(t *testing.T) {
		renderer := &mockRenderer{}
		svc, _ := newTestService(t, renderer)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.Generate(ctx, sampleUpload(t), GenerateOptions{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, renderer.calls)
	})
}

func TestStatementService_Export(t *testing.T) {
	t.Run("writes one pdf per client into the run folder", func(t *testing.T) {
		svc, outDir := newTestService(t, &mockRenderer{})

		export, err := svc.Export(context.Background(), sampleUpload(t), GenerateOptions{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outDir, export.Result.RunID), export.Folder)
		require.Len(t, export.Files, 2)
		for _, f := range export.Files {
			assert.FileExists(t, f)
		}
	})

	t.Run("archive mode writes a single zip", func(t *testing.T) {
		svc, _ := newTestService(t, &mockRenderer{})

		export, err := svc.Export(context.Background(), sampleUpload(t), GenerateOptions{Archive: true})
		require.NoError(t, err)
		require.Len(t, export.Files, 1)
		assert.Equal(t, bundle.DefaultArchiveName, filepath.Base(export.Files[0]))

		data, err := os.ReadFile(export.Files[0])
		require.NoError(t, err)
		assert.Len(t, zipNames(t, data), 2)
	})
}

func TestStatementService_Verify(t *testing.T) {
	logger := zap.NewNop()
	want := &statement.Totals{}

	svc := NewStatementService(Dependencies{Totals: &mockTotals{totals: want}}, nopLogger{})
	got, err := svc.Verify(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Same(t, want, got)

	svc = NewStatementService(Dependencies{Totals: statement.NewTextExtractor(logger)}, nopLogger{})
	_, err = svc.Verify(context.Background(), []byte("not a pdf"))
	assert.Error(t, err)
}

func TestStatementService_RealRenderer(t *testing.T) {
	logger := zap.NewNop()
	company := models.DefaultCompanyProfile()
	company.LogoPath = ""
	extractor := statement.NewTextExtractor(logger)

	svc := NewStatementService(Dependencies{
		Reader:    workbook.NewReader(logger),
		Processor: invoice.NewProcessor(logger),
		Renderer:  statement.NewRenderer(logger),
		Totals:    extractor,
		Bundler:   bundle.NewBundler(bundle.DefaultConfig(), logger),
		Company:   company,
	}, nopLogger{})

	artifact, err := svc.Generate(context.Background(), sampleUpload(t), GenerateOptions{Client: "C001"})
	require.NoError(t, err)

	totals, err := svc.Verify(context.Background(), artifact.Content)
	require.NoError(t, err)
	assert.True(t, totals.Matches(artifact.Result.FindClient("C001")))
}
