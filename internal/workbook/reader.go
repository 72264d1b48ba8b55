package workbook

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// AllowedExtensions lists the upload extensions accepted by ValidateUpload
var AllowedExtensions = []string{".xlsx", ".xls"}

// Reader opens xlsx and legacy xls workbooks
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new workbook Reader
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// SupportedExtensions lists every extension Read can decode
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xls"}

// ValidateUpload checks the file name carries an accepted spreadsheet extension.
// allowed overrides AllowedExtensions when given.
func ValidateUpload(filename string, allowed ...string) error {
	if len(allowed) == 0 {
		allowed = AllowedExtensions
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// Read parses the first sheet of the workbook held in data.
// The extension of filename picks the decoder; without one both are tried.
func (r *Reader) Read(data []byte, filename string) (*Table, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	ext := strings.ToLower(filepath.Ext(filename))
	r.logger.Debug("Reading workbook",
		zap.String("filename", filename),
		zap.String("ext", ext),
		zap.Int("size", len(data)))

	var (
		raw [][]string
		err error
	)
	switch ext {
	case ".xlsx", ".xlsm":
		raw, err = readXLSX(data)
	case ".xls":
		raw, err = readXLS(data)
	case "":
		raw, err = readXLSX(data)
		if err != nil {
			r.logger.Debug("Not an xlsx workbook, trying xls", zap.Error(err))
			raw, err = readXLS(data)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		r.logger.Warn("Failed to read workbook",
			zap.String("filename", filename),
			zap.Error(err))
		return nil, err
	}

	table := NewTable(raw)
	r.logger.Debug("Workbook read",
		zap.String("filename", filename),
		zap.Int("columns", len(table.Headers)),
		zap.Int("rows", len(table.Rows)))
	return table, nil
}

// readXLSX reads the first sheet with excelize.
// Raw cell values are requested so number formats do not leak into amounts.
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// readXLS reads the first sheet of a legacy BIFF workbook
func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	if len(wb.GetSheets()) == 0 {
		return nil, ErrNoSheets
	}

	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to get xls sheet: %w", err)
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var values []string
		for _, col := range row.GetCols() {
			values = append(values, col.GetString())
		}
		rows = append(rows, values)
	}
	return rows, nil
}
