package storage

import "errors"

var (
	// ErrPathEscapesBase is returned for paths resolving outside the output directory
	ErrPathEscapesBase = errors.New("path escapes base directory")
	// ErrContentMismatch is returned when content does not look like its declared file type
	ErrContentMismatch = errors.New("content does not match file type")
	// ErrEmptyRunID is returned when a run folder is requested without an id
	ErrEmptyRunID = errors.New("empty run id")
)
