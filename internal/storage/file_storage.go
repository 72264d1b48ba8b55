// Package storage writes generated statements under the configured output directory.
package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileType represents the kind of output being stored
type FileType int

const (
	FileTypeGeneric FileType = iota
	FileTypePDF
	FileTypeArchive
	FileTypeWorkbook
)

func (t FileType) String() string {
	switch t {
	case FileTypePDF:
		return "pdf"
	case FileTypeArchive:
		return "archive"
	case FileTypeWorkbook:
		return "workbook"
	default:
		return "generic"
	}
}

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04")
)

// FileTypeFor guesses the file type from the extension of name
func FileTypeFor(name string) FileType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FileTypePDF
	case ".zip":
		return FileTypeArchive
	case ".xlsx":
		return FileTypeWorkbook
	default:
		return FileTypeGeneric
	}
}

// FileStorage defines the interface for output storage operations
type FileStorage interface {
	// SaveFile writes content to the specified full path
	// Creates parent directories if needed
	SaveFile(fullPath string, content []byte) error

	// SaveFileWithType checks content against fileType before writing
	SaveFileWithType(fullPath string, content []byte, fileType FileType) error

	// ValidatePath checks path security (no traversal, within base)
	ValidatePath(fullPath string) error
}

// LocalFileStorage implements FileStorage for the local filesystem
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a new LocalFileStorage rooted at baseDir
func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// SaveFile writes content, picking the file type from the extension
func (s *LocalFileStorage) SaveFile(fullPath string, content []byte) error {
	return s.SaveFileWithType(fullPath, content, FileTypeFor(fullPath))
}

// SaveFileWithType writes content after checking it carries the signature of fileType
func (s *LocalFileStorage) SaveFileWithType(fullPath string, content []byte, fileType FileType) error {
	if err := s.ValidatePath(fullPath); err != nil {
		return err
	}
	if err := checkSignature(content, fileType); err != nil {
		return fmt.Errorf("%w: %s", err, filepath.Base(fullPath))
	}

	parentDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", parentDir),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)),
		zap.Stringer("file_type", fileType))

	return nil
}

// ValidatePath checks that the path resolves inside baseDir
func (s *LocalFileStorage) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	// base + separator, so "/out_evil" does not pass for base "/out"
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("%w: %s", ErrPathEscapesBase, fullPath)
	}

	return nil
}

func checkSignature(content []byte, fileType FileType) error {
	switch fileType {
	case FileTypePDF:
		if !bytes.HasPrefix(content, pdfMagic) {
			return ErrContentMismatch
		}
	case FileTypeArchive, FileTypeWorkbook:
		if !bytes.HasPrefix(content, zipMagic) {
			return ErrContentMismatch
		}
	}
	return nil
}
