package bundle

import "errors"

var (
	// ErrNothingToBundle is returned when there are no summaries to render
	ErrNothingToBundle = errors.New("no client statements to bundle")
	// ErrDuplicateName is returned when two documents would share an archive entry name
	ErrDuplicateName = errors.New("duplicate document name")
)
