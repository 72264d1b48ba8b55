// Package bundle names rendered statements and packs them into a zip archive.
package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/garyjia/invoice-bundler/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultPrefix      = "facture_globale"
	DefaultExtension   = "pdf"
	DefaultArchiveName = "factures_globales.zip"
)

// Document is one rendered statement ready for download or archiving
type Document struct {
	ClientID string
	FileName string
	Content  []byte
}

// RenderFunc produces the document bytes for one client summary
type RenderFunc func(summary *models.ClientSummary) ([]byte, error)

// Output holds either a single document or the set to archive
type Output struct {
	Single    *Document
	Documents []Document
}

// Config controls document and archive naming
type Config struct {
	Prefix      string
	Extension   string
	ArchiveName string
}

// DefaultConfig returns the naming used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Prefix:      DefaultPrefix,
		Extension:   DefaultExtension,
		ArchiveName: DefaultArchiveName,
	}
}

// Bundler renders every client summary and assembles the outputs
type Bundler struct {
	config Config
	logger *zap.Logger
}

// NewBundler creates a Bundler; empty config fields fall back to the defaults
func NewBundler(config Config, logger *zap.Logger) *Bundler {
	defaults := DefaultConfig()
	if config.Prefix == "" {
		config.Prefix = defaults.Prefix
	}
	if config.Extension == "" {
		config.Extension = defaults.Extension
	}
	if config.ArchiveName == "" {
		config.ArchiveName = defaults.ArchiveName
	}
	return &Bundler{config: config, logger: logger}
}

// ArchiveName returns the file name used for the zip archive
func (b *Bundler) ArchiveName() string {
	return b.config.ArchiveName
}

// FileName builds "<prefix>_<clientID>.<ext>" with spaces in the id replaced by underscores
func FileName(prefix, clientID, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, strings.ReplaceAll(clientID, " ", "_"), strings.TrimPrefix(ext, "."))
}

// FileName names the document for clientID using the configured prefix and extension
func (b *Bundler) FileName(clientID string) string {
	return FileName(b.config.Prefix, clientID, b.config.Extension)
}

// RenderAll renders each summary in order; the first failure aborts the run
func (b *Bundler) RenderAll(summaries []models.ClientSummary, render RenderFunc) ([]Document, error) {
	if len(summaries) == 0 {
		return nil, ErrNothingToBundle
	}

	docs := make([]Document, 0, len(summaries))
	used := make(map[string]bool, len(summaries))
	for i := range summaries {
		summary := &summaries[i]
		content, err := render(summary)
		if err != nil {
			b.logger.Error("Failed to render client statement",
				zap.String("client", summary.ClientNumber),
				zap.Error(err))
			return nil, fmt.Errorf("failed to render statement for client %s: %w", summary.ClientNumber, err)
		}
		docs = append(docs, Document{
			ClientID: summary.ClientNumber,
			FileName: uniqueName(b.FileName(summary.ClientNumber), used),
			Content:  content,
		})
	}

	b.logger.Info("Rendered client statements", zap.Int("count", len(docs)))
	return docs, nil
}

// Bundle renders all summaries; one client yields Single, several yield Documents
func (b *Bundler) Bundle(summaries []models.ClientSummary, render RenderFunc) (*Output, error) {
	docs, err := b.RenderAll(summaries, render)
	if err != nil {
		return nil, err
	}
	if len(docs) == 1 {
		return &Output{Single: &docs[0]}, nil
	}
	return &Output{Documents: docs}, nil
}

// All returns every document held by the output
func (o *Output) All() []Document {
	if o.Single != nil {
		return []Document{*o.Single}
	}
	return o.Documents
}

// Archive writes docs into a deflate-compressed zip, entries in document order
func (b *Bundler) Archive(docs []Document) ([]byte, error) {
	if len(docs) == 0 {
		return nil, ErrNothingToBundle
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]bool, len(docs))

	for _, doc := range docs {
		if seen[doc.FileName] {
			zw.Close()
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, doc.FileName)
		}
		seen[doc.FileName] = true

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   doc.FileName,
			Method: zip.Deflate,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to create archive entry %s: %w", doc.FileName, err)
		}
		if _, err := w.Write(doc.Content); err != nil {
			zw.Close()
			return nil, fmt.Errorf("failed to write archive entry %s: %w", doc.FileName, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	b.logger.Debug("Archive built",
		zap.Int("entries", len(docs)),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

// uniqueName suffixes name when distinct ids map to the same file, e.g. "A B" and "A_B".
// The suffix is bumped until the name is free, so "A_B_2" cannot collide with a suffixed "A_B".
func uniqueName(name string, used map[string]bool) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d%s", base, n, ext)
	}
	used[candidate] = true
	return candidate
}
