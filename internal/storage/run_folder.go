package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var unsafeFolderChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// RunFolders manages the per-run output folders <baseDir>/<runID>
type RunFolders struct {
	baseDir string
	logger  *zap.Logger
}

// NewRunFolders creates a new RunFolders rooted at baseDir
func NewRunFolders(baseDir string, logger *zap.Logger) *RunFolders {
	return &RunFolders{
		baseDir: baseDir,
		logger:  logger,
	}
}

// BaseDir returns the output root
func (m *RunFolders) BaseDir() string {
	return m.baseDir
}

// Create makes the folder for runID and returns its path; an existing folder is reused
func (m *RunFolders) Create(runID string) (string, error) {
	safeName := SanitizeFolderName(runID)
	if safeName == "" {
		return "", fmt.Errorf("cannot create run folder for %q: %w", runID, ErrEmptyRunID)
	}

	folderPath := filepath.Join(m.baseDir, safeName)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		m.logger.Error("Failed to create run folder",
			zap.String("run_id", runID),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	m.logger.Debug("Created run folder",
		zap.String("run_id", runID),
		zap.String("folder_path", folderPath))

	return folderPath, nil
}

// Path returns the folder path for runID without creating it
func (m *RunFolders) Path(runID string) string {
	return filepath.Join(m.baseDir, SanitizeFolderName(runID))
}

// Exists reports whether the folder for runID is present
func (m *RunFolders) Exists(runID string) bool {
	if SanitizeFolderName(runID) == "" {
		return false
	}
	info, err := os.Stat(m.Path(runID))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Remove deletes the folder for runID and its contents; a missing folder is not an error
func (m *RunFolders) Remove(runID string) error {
	if SanitizeFolderName(runID) == "" {
		return fmt.Errorf("cannot remove run folder: %w", ErrEmptyRunID)
	}
	folderPath := m.Path(runID)

	if _, err := os.Stat(folderPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(folderPath); err != nil {
		m.logger.Error("Failed to remove run folder",
			zap.String("run_id", runID),
			zap.String("folder_path", folderPath),
			zap.Error(err))
		return fmt.Errorf("failed to remove folder: %w", err)
	}

	m.logger.Debug("Removed run folder",
		zap.String("run_id", runID),
		zap.String("folder_path", folderPath))

	return nil
}

// SanitizeFolderName keeps only letters, digits, hyphens and underscores
func SanitizeFolderName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	return unsafeFolderChars.ReplaceAllString(name, "")
}
