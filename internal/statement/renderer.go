// Package statement renders client summaries as PDF "facture globale"
// documents and reads totals back from them.
package statement

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Labels printed in the totals block, also used when reading totals back
const (
	LabelTotalHT  = "TOTAL HT:"
	LabelTotalTVA = "TOTAL TVA:"
	LabelTotalTTC = "TOTAL TTC:"
)

const (
	title      = "FACTURE GLOBALE"
	footerNote = "Cette facture globale regroupe toutes les factures émises pour ce client."

	margin    = 20.0 // mm
	rowHeight = 7.0
	logoSize  = 40.0
)

var (
	tableHeaders = []string{"N° client", "N° Facture", "N° contrat", "Montant HT", "TVA", "TTC"}
	columnWidths = []float64{30, 30, 30, 30, 25, 25}

	brandColor  = [3]int{0x1f, 0x4e, 0x79}
	greyColor   = [3]int{0x66, 0x66, 0x66}
	stripeColor = [3]int{0xf8, 0xf9, 0xfa}
)

// Renderer turns one ClientSummary into a paginated A4 PDF
type Renderer struct {
	logger *zap.Logger
}

// NewRenderer creates a new Renderer
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render builds the statement for summary issued by company on issuedAt
func (r *Renderer) Render(summary *models.ClientSummary, company models.CompanyProfile, issuedAt time.Time) ([]byte, error) {
	if summary == nil || len(summary.Invoices) == 0 {
		return nil, fmt.Errorf("cannot render statement: client has no invoices")
	}

	r.logger.Debug("Rendering statement",
		zap.String("client", summary.ClientNumber),
		zap.Int("invoice_count", summary.InvoiceCount()))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreationDate(issuedAt)
	pdf.AliasNbPages("")

	doc := &document{
		pdf: pdf,
		tr:  newTranslator(),
	}
	pdf.SetTitle(doc.tr(title+" "+summary.ClientNumber), false)
	pdf.SetAuthor(doc.tr(company.Name), false)
	pdf.SetCreator("invoice-bundler", false)
	pdf.SetFooterFunc(doc.pageFooter)

	pdf.AddPage()
	r.addHeader(doc, company)
	doc.addTitle()
	doc.addClientInfo(summary, issuedAt)
	doc.addInvoiceTable(summary)
	doc.addTotals(summary)
	doc.addFooterNote()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("Failed to render statement",
			zap.String("client", summary.ClientNumber),
			zap.Error(err))
		return nil, fmt.Errorf("failed to render statement for %s: %w", summary.ClientNumber, err)
	}

	r.logger.Debug("Statement rendered",
		zap.String("client", summary.ClientNumber),
		zap.Int("pages", pdf.PageCount()),
		zap.Int("size", buf.Len()))

	return buf.Bytes(), nil
}

// addHeader draws the optional logo on the left and the company block on the right
func (r *Renderer) addHeader(doc *document, company models.CompanyProfile) {
	pdf := doc.pdf
	top := pdf.GetY()

	if r.registerLogo(pdf, company.LogoPath) {
		pdf.ImageOptions(company.LogoPath, margin, top, logoSize, 0, false,
			gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	pageWidth, _ := pdf.GetPageSize()
	blockWidth := pageWidth - 2*margin - 60
	x := margin + 60

	pdf.SetTextColor(greyColor[0], greyColor[1], greyColor[2])
	pdf.SetXY(x, top)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(blockWidth, 5, doc.tr(company.Name), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	lines := append(splitLines(company.Address),
		"Tél: "+company.Phone,
		"Email: "+company.Email,
	)
	for _, line := range lines {
		pdf.SetX(x)
		pdf.CellFormat(blockWidth, 5, doc.tr(line), "", 1, "R", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	// Leave room for the logo even when the text block is shorter
	if bottom := top + logoSize; pdf.GetY() < bottom {
		pdf.SetY(bottom)
	}
	pdf.Ln(8)
}

// registerLogo loads the logo once; a missing or unreadable file is skipped
func (r *Renderer) registerLogo(pdf *gofpdf.Fpdf, path string) bool {
	if path == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		r.logger.Debug("Unsupported logo format, skipping", zap.String("logo_path", path))
		return false
	}
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("Logo not found, skipping", zap.String("logo_path", path))
		return false
	}

	info := pdf.RegisterImageOptions(path, gofpdf.ImageOptions{ReadDpi: true})
	if info == nil || pdf.Err() {
		r.logger.Warn("Failed to load logo, skipping",
			zap.String("logo_path", path),
			zap.Error(pdf.Error()))
		pdf.ClearError()
		return false
	}
	return true
}

// document carries the pdf being built and its text translator
type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (d *document) addTitle() {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.CellFormat(0, 12, d.tr(title), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(8)
}

func (d *document) addClientInfo(summary *models.ClientSummary, issuedAt time.Time) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, d.tr("FACTURÉ À:"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, d.tr(summary.ClientNumber), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range splitLines(summary.ClientAddress) {
		pdf.CellFormat(0, 6, d.tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, d.tr("Date: "+issuedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, d.tr(fmt.Sprintf("Facture globale pour: %d facture(s)", summary.InvoiceCount())), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (d *document) tableHeader() {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	for i, h := range tableHeaders {
		pdf.CellFormat(columnWidths[i], rowHeight+1, d.tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

// addInvoiceTable writes one row per line item and repeats the header after page breaks
func (d *document) addInvoiceTable(summary *models.ClientSummary) {
	pdf := d.pdf
	_, pageHeight := pdf.GetPageSize()

	d.tableHeader()
	pdf.SetFont("Helvetica", "", 9)

	for i, inv := range summary.Invoices {
		if pdf.GetY()+rowHeight > pageHeight-margin {
			pdf.AddPage()
			d.tableHeader()
			pdf.SetFont("Helvetica", "", 9)
		}

		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		cells := []string{
			summary.ClientNumber,
			inv.InvoiceNumber,
			inv.ContractNumber,
			models.FormatAmount(inv.AmountHT),
			models.FormatAmount(inv.AmountTVA),
			models.FormatAmount(inv.AmountTTC),
		}
		for j, value := range cells {
			align := "C"
			if j >= 3 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[j], rowHeight, d.tr(value), "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func (d *document) addTotals(summary *models.ClientSummary) {
	pdf := d.pdf
	pageWidth, _ := pdf.GetPageSize()
	const labelWidth, valueWidth = 35.0, 35.0
	x := pageWidth - margin - labelWidth - valueWidth

	totals := []struct {
		label string
		value string
	}{
		{LabelTotalHT, models.FormatAmount(summary.TotalHT)},
		{LabelTotalTVA, models.FormatAmount(summary.TotalTVA)},
		{LabelTotalTTC, models.FormatAmount(summary.TotalTTC)},
	}

	for i, t := range totals {
		pdf.SetX(x)
		if i == len(totals)-1 {
			pdf.SetDrawColor(brandColor[0], brandColor[1], brandColor[2])
			pdf.SetLineWidth(0.7)
			pdf.Line(x, pdf.GetY(), pageWidth-margin, pdf.GetY())
			pdf.SetFont("Helvetica", "B", 14)
			pdf.SetTextColor(brandColor[0], brandColor[1], brandColor[2])
		} else {
			pdf.SetFont("Helvetica", "B", 12)
		}
		// Label and value share one text run so the text layer keeps them together
		pdf.CellFormat(labelWidth+valueWidth, 8, d.tr(t.label+" "+t.value), "", 1, "R", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.Ln(10)
}

func (d *document) addFooterNote() {
	d.pdf.SetFont("Helvetica", "I", 10)
	d.pdf.MultiCell(0, 5, d.tr(footerNote), "", "L", false)
}

func (d *document) pageFooter() {
	pdf := d.pdf
	pdf.SetY(-15)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(greyColor[0], greyColor[1], greyColor[2])
	pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// newTranslator converts UTF-8 text to Windows-1252 for the core PDF fonts.
// Characters outside the code page are replaced rather than failing the page.
func newTranslator() func(string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	return func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
