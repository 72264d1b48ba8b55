package invoice

import (
	"sort"
	"strings"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/shopspring/decimal"
)

// ClientKey is the case-insensitive identity used to group line items
func ClientKey(clientNumber string) string {
	return strings.ToLower(strings.TrimSpace(clientNumber))
}

// Aggregate groups line items by client and returns one summary per client,
// ordered by client number ignoring case. Input order only decides which
// line item provides the client's displayed number and address.
func Aggregate(items []models.LineItem) []models.ClientSummary {
	groups := make(map[string]*models.ClientSummary)
	var keys []string

	for _, item := range items {
		key := ClientKey(item.ClientNumber)
		summary, ok := groups[key]
		if !ok {
			summary = &models.ClientSummary{
				ClientNumber:  item.ClientNumber,
				ClientAddress: item.ClientAddress,
				TotalHT:       decimal.Zero,
				TotalTVA:      decimal.Zero,
			}
			groups[key] = summary
			keys = append(keys, key)
		}
		summary.Invoices = append(summary.Invoices, item)
		summary.TotalHT = summary.TotalHT.Add(item.AmountHT)
		summary.TotalTVA = summary.TotalTVA.Add(item.AmountTVA)
	}

	sort.Strings(keys)

	summaries := make([]models.ClientSummary, 0, len(keys))
	for _, key := range keys {
		summary := groups[key]
		summary.TotalTTC = summary.TotalHT.Add(summary.TotalTVA)
		summaries = append(summaries, *summary)
	}
	return summaries
}
