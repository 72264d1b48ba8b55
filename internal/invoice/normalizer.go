package invoice

import (
	"strconv"
	"strings"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/workbook"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Reasons recorded for rows excluded during normalization
const (
	DropMissingClient   = "missing client number"
	DropMissingInvoice  = "missing invoice number"
	DropMissingContract = "missing contract number"
)

// DroppedRow records a sheet row that did not produce a LineItem
type DroppedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Normalizer maps loosely typed sheet rows to LineItems
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a new Normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts every usable row of table into a LineItem.
// Rows without client, invoice or contract number are skipped and reported
// in the second return value; amounts that cannot be parsed become 0.00.
func (n *Normalizer) Normalize(table *workbook.Table) ([]models.LineItem, []DroppedRow) {
	idx := func(name string) int { return table.ColumnIndex(name) }
	var (
		clientIdx   = idx(ColumnClientNumber)
		addressIdx  = idx(ColumnClientAddress)
		contractIdx = idx(ColumnContractNumber)
		invoiceIdx  = idx(ColumnInvoiceNumber)
		htIdx       = idx(ColumnAmountHT)
		tvaIdx      = idx(ColumnAmountTVA)
		dateIdx     = idx(ColumnDate)
	)

	items := make([]models.LineItem, 0, len(table.Rows))
	var dropped []DroppedRow

	for _, row := range table.Rows {
		client := strings.TrimSpace(row.Value(clientIdx))
		invoiceNumber := strings.TrimSpace(row.Value(invoiceIdx))
		contract := strings.TrimSpace(row.Value(contractIdx))

		if reason := dropReason(client, invoiceNumber, contract); reason != "" {
			dropped = append(dropped, DroppedRow{Row: row.Number, Reason: reason})
			continue
		}

		item := models.NewLineItem(
			invoiceNumber,
			client,
			strings.TrimSpace(row.Value(addressIdx)),
			contract,
			CleanAmount(row.Value(htIdx)),
			CleanAmount(row.Value(tvaIdx)),
			normalizeDate(row.Value(dateIdx)),
			row.Number,
		)
		items = append(items, item)
	}

	if len(dropped) > 0 {
		n.logger.Warn("Rows dropped during normalization",
			zap.Int("dropped_count", len(dropped)),
			zap.Int("kept_count", len(items)))
	}

	return items, dropped
}

func dropReason(client, invoiceNumber, contract string) string {
	switch {
	case client == "":
		return DropMissingClient
	case invoiceNumber == "":
		return DropMissingInvoice
	case contract == "":
		return DropMissingContract
	}
	return ""
}

// Excel serials between 1970-01-01 and 9999-12-31. Numbers outside the range,
// like a bare year, are kept as typed.
const (
	minDateSerial = 25569.0
	maxDateSerial = 2958465.0
)

// normalizeDate turns an Excel serial date into YYYY-MM-DD and keeps any
// other text as is
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < minDateSerial || serial > maxDateSerial {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}
