package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LineItem is one normalized invoice row (une facture).
// Values are built once by the normalizer and never mutated afterwards.
type LineItem struct {
	InvoiceNumber  string          `json:"invoice_number"`  // Numéro_facture
	ClientNumber   string          `json:"client_number"`   // Numéro_client
	ClientAddress  string          `json:"client_address"`  // addresse_client
	ContractNumber string          `json:"contract_number"` // Numéro_contrat
	AmountHT       decimal.Decimal `json:"amount_ht"`       // montant_ht
	AmountTVA      decimal.Decimal `json:"amount_tva"`      // montant_tva
	AmountTTC      decimal.Decimal `json:"amount_ttc"`      // HT + TVA
	Date           string          `json:"date,omitempty"`
	SourceRow      int             `json:"source_row"` // 1-based row in the sheet
}

// NewLineItem builds a LineItem and derives the tax-inclusive amount.
func NewLineItem(invoiceNumber, clientNumber, clientAddress, contractNumber string, ht, tva decimal.Decimal, date string, sourceRow int) LineItem {
	return LineItem{
		InvoiceNumber:  invoiceNumber,
		ClientNumber:   clientNumber,
		ClientAddress:  clientAddress,
		ContractNumber: contractNumber,
		AmountHT:       ht,
		AmountTVA:      tva,
		AmountTTC:      ht.Add(tva),
		Date:           date,
		SourceRow:      sourceRow,
	}
}

// ClientSummary groups every line item of one client with its totals.
type ClientSummary struct {
	ClientNumber  string          `json:"client_number"`
	ClientAddress string          `json:"client_address"`
	Invoices      []LineItem      `json:"invoices"`
	TotalHT       decimal.Decimal `json:"total_ht"`
	TotalTVA      decimal.Decimal `json:"total_tva"`
	TotalTTC      decimal.Decimal `json:"total_ttc"`
}

// InvoiceCount returns the number of line items for the client
func (s *ClientSummary) InvoiceCount() int {
	return len(s.Invoices)
}

// FormatAmount renders an amount with exactly two decimals
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// MarshalJSON writes amounts with exactly two decimals
func (l LineItem) MarshalJSON() ([]byte, error) {
	type plain LineItem
	return json.Marshal(struct {
		plain
		AmountHT  string `json:"amount_ht"`
		AmountTVA string `json:"amount_tva"`
		AmountTTC string `json:"amount_ttc"`
	}{
		plain:     plain(l),
		AmountHT:  FormatAmount(l.AmountHT),
		AmountTVA: FormatAmount(l.AmountTVA),
		AmountTTC: FormatAmount(l.AmountTTC),
	})
}

// MarshalJSON writes totals with exactly two decimals
func (s ClientSummary) MarshalJSON() ([]byte, error) {
	type plain ClientSummary
	return json.Marshal(struct {
		plain
		TotalHT  string `json:"total_ht"`
		TotalTVA string `json:"total_tva"`
		TotalTTC string `json:"total_ttc"`
	}{
		plain:    plain(s),
		TotalHT:  FormatAmount(s.TotalHT),
		TotalTVA: FormatAmount(s.TotalTVA),
		TotalTTC: FormatAmount(s.TotalTTC),
	})
}
