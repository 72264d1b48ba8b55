package invoice

import (
	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/shopspring/decimal"
)

// Overview is the at-a-glance summary shown before downloading statements
type Overview struct {
	ClientCount   int           `json:"client_count"`
	InvoiceCount  int           `json:"invoice_count"`
	GrandTotalTTC string        `json:"grand_total_ttc"`
	Clients       []OverviewRow `json:"clients"`
}

// OverviewRow is one client line of the overview table
type OverviewRow struct {
	Client       string `json:"client"`
	InvoiceCount int    `json:"invoice_count"`
	TotalHT      string `json:"total_ht"`
	TotalTVA     string `json:"total_tva"`
	TotalTTC     string `json:"total_ttc"`
}

// BuildOverview computes counts and formatted totals for summaries
func BuildOverview(summaries []models.ClientSummary) Overview {
	overview := Overview{
		ClientCount: len(summaries),
		Clients:     make([]OverviewRow, 0, len(summaries)),
	}

	grand := decimal.Zero
	for i := range summaries {
		s := &summaries[i]
		overview.InvoiceCount += s.InvoiceCount()
		grand = grand.Add(s.TotalTTC)
		overview.Clients = append(overview.Clients, OverviewRow{
			Client:       s.ClientNumber,
			InvoiceCount: s.InvoiceCount(),
			TotalHT:      models.FormatAmount(s.TotalHT),
			TotalTVA:     models.FormatAmount(s.TotalTVA),
			TotalTTC:     models.FormatAmount(s.TotalTTC),
		})
	}
	overview.GrandTotalTTC = models.FormatAmount(grand)

	return overview
}
