package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineItem(t *testing.T) {
	item := NewLineItem("F1", "C1", "1 Rue A", "K1", decimal.RequireFromString("10.50"), decimal.RequireFromString("2.10"), "", 2)

	assert.Equal(t, "12.60", FormatAmount(item.AmountTTC))
}

func TestClientSummary_MarshalJSON(t *testing.T) {
	item := NewLineItem("F1", "C1", "1 Rue A", "K1", decimal.NewFromInt(100), decimal.NewFromInt(20), "2024-01-15", 2)
	summary := ClientSummary{
		ClientNumber:  "C1",
		ClientAddress: "1 Rue A",
		Invoices:      []LineItem{item},
		TotalHT:       item.AmountHT,
		TotalTVA:      item.AmountTVA,
		TotalTTC:      item.AmountTTC,
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "C1", got["client_number"])
	assert.Equal(t, "100.00", got["total_ht"])
	assert.Equal(t, "20.00", got["total_tva"])
	assert.Equal(t, "120.00", got["total_ttc"])

	invoices, ok := got["invoices"].([]interface{})
	require.True(t, ok)
	require.Len(t, invoices, 1)
	first := invoices[0].(map[string]interface{})
	assert.Equal(t, "F1", first["invoice_number"])
	assert.Equal(t, "100.00", first["amount_ht"])
	assert.Equal(t, "120.00", first["amount_ttc"])
	assert.Equal(t, "2024-01-15", first["date"])
	assert.EqualValues(t, 2, first["source_row"])
}
