package port

// FileStorage writes generated outputs under the output directory
type FileStorage interface {
	SaveFile(fullPath string, content []byte) error
	ValidatePath(fullPath string) error
}

// RunFolders creates the per-run output folders
type RunFolders interface {
	Create(runID string) (string, error)
	Path(runID string) string
}
