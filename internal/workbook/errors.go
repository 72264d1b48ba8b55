package workbook

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .xls")
	ErrNoSheets          = errors.New("workbook has no sheets")
	ErrEmptyFile         = errors.New("uploaded file is empty")
)
