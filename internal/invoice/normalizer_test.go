package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	t.Run("trims text and derives TTC", func(t *testing.T) {
		table := newTestTable(
			[]string{"  C001 ", " 12 Rue X  ", " K-1 ", " F001 ", "1,234.5", "246,9", " 2024-01-15 "},
		)

		items, dropped := n.Normalize(table)

		require.Len(t, items, 1)
		assert.Empty(t, dropped)
		item := items[0]
		assert.Equal(t, "C001", item.ClientNumber)
		assert.Equal(t, "12 Rue X", item.ClientAddress)
		assert.Equal(t, "K-1", item.ContractNumber)
		assert.Equal(t, "F001", item.InvoiceNumber)
		assert.Equal(t, "1234.50", item.AmountHT.StringFixed(2))
		assert.Equal(t, "246.90", item.AmountTVA.StringFixed(2))
		assert.Equal(t, "1481.40", item.AmountTTC.StringFixed(2))
		assert.Equal(t, "2024-01-15", item.Date)
		assert.Equal(t, 2, item.SourceRow)
	})

	t.Run("drops rows missing identifiers", func(t *testing.T) {
		table := newTestTable(
			[]string{"", "addr", "K1", "F1", "10", "2", ""},
			[]string{"C1", "addr", "K1", "  ", "10", "2", ""},
			[]string{"C1", "addr", "", "F2", "10", "2", ""},
			[]string{"C1", "", "K1", "F3", "10", "2", ""},
		)

		items, dropped := n.Normalize(table)

		require.Len(t, items, 1)
		assert.Equal(t, "F3", items[0].InvoiceNumber)
		assert.Equal(t, "", items[0].ClientAddress)
		assert.Equal(t, []DroppedRow{
			{Row: 2, Reason: DropMissingClient},
			{Row: 3, Reason: DropMissingInvoice},
			{Row: 4, Reason: DropMissingContract},
		}, dropped)
	})

	t.Run("unparseable amounts degrade to zero", func(t *testing.T) {
		table := newTestTable(
			[]string{"C1", "addr", "K1", "F1", "", "n/a", ""},
		)

		items, _ := n.Normalize(table)

		require.Len(t, items, 1)
		assert.True(t, items[0].AmountHT.IsZero())
		assert.True(t, items[0].AmountTVA.IsZero())
		assert.True(t, items[0].AmountTTC.IsZero())
	})

	t.Run("excel serial dates are formatted", func(t *testing.T) {
		table := newTestTable(
			[]string{"C1", "addr", "K1", "F1", "1", "1", "45306"},
		)

		items, _ := n.Normalize(table)

		require.Len(t, items, 1)
		assert.Equal(t, "2024-01-15", items[0].Date)
	})

	t.Run("numbers outside the serial range are kept verbatim", func(t *testing.T) {
		table := newTestTable(
			[]string{"C1", "addr", "K1", "F1", "1", "1", "2024"},
			[]string{"C1", "addr", "K1", "F2", "1", "1", " 20240115 "},
			[]string{"C1", "addr", "K1", "F3", "1", "1", "15/01/2024"},
		)

		items, _ := n.Normalize(table)

		require.Len(t, items, 3)
		assert.Equal(t, "2024", items[0].Date)
		assert.Equal(t, "20240115", items[1].Date)
		assert.Equal(t, "15/01/2024", items[2].Date)
	})

	t.Run("TTC always equals HT plus TVA", func(t *testing.T) {
		table := newTestTable(
			[]string{"C1", "a", "K1", "F1", "10.005", "2.004", ""},
			[]string{"C1", "a", "K1", "F2", "0,125", "0,135", ""},
			[]string{"C1", "a", "K1", "F3", "-5.555", "1.115", ""},
		)

		items, _ := n.Normalize(table)

		require.Len(t, items, 3)
		for _, item := range items {
			assert.True(t, item.AmountTTC.Equal(item.AmountHT.Add(item.AmountTVA)), item.InvoiceNumber)
			assert.LessOrEqual(t, -item.AmountHT.Exponent(), int32(2))
		}
	})
}
