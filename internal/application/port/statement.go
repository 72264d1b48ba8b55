package port

import (
	"time"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/statement"
	"github.com/garyjia/invoice-bundler/internal/workbook"
)

// WorkbookReader decodes an uploaded spreadsheet into a table
type WorkbookReader interface {
	Read(data []byte, filename string) (*workbook.Table, error)
}

// StatementRenderer renders one client summary as a PDF
type StatementRenderer interface {
	Render(summary *models.ClientSummary, company models.CompanyProfile, issuedAt time.Time) ([]byte, error)
}

// TotalsReader reads the totals block back from a rendered statement
type TotalsReader interface {
	ReadTotals(pdf []byte) (*statement.Totals, error)
}
