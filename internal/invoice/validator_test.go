package invoice

import (
	"errors"
	"testing"

	"github.com/garyjia/invoice-bundler/internal/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHeader = []string{
	ColumnClientNumber, ColumnClientAddress, ColumnContractNumber,
	ColumnInvoiceNumber, ColumnAmountHT, ColumnAmountTVA, ColumnDate,
}

// newTestTable builds a table with the full header and the given rows
func newTestTable(rows ...[]string) *workbook.Table {
	raw := [][]string{testHeader}
	raw = append(raw, rows...)
	return workbook.NewTable(raw)
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	t.Run("valid table", func(t *testing.T) {
		table := newTestTable(
			[]string{"C1", "1 Rue A", "K1", "F1", "100", "20", ""},
			[]string{"C2", "2 Rue B", "K2", "F2", "1234,50", "", "2024-01-01"},
		)

		assert.NoError(t, v.Validate(table))
	})

	t.Run("missing amount column is named", func(t *testing.T) {
		table := workbook.NewTable([][]string{
			{ColumnClientNumber, ColumnClientAddress, ColumnContractNumber, ColumnInvoiceNumber, ColumnAmountTVA},
			{"C1", "1 Rue A", "K1", "F1", "20"},
		})

		err := v.Validate(table)

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingColumns))
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{ColumnAmountHT}, ve.Columns)
		assert.Contains(t, err.Error(), ColumnAmountHT)
	})

	t.Run("all missing columns enumerated in order", func(t *testing.T) {
		table := workbook.NewTable([][]string{{ColumnClientNumber, "other"}, {"C1", "x"}})

		err := v.Validate(table)

		assert.EqualError(t, err, "missing columns: addresse_client, Numéro_contrat, Numéro_facture, montant_ht, montant_tva")
	})

	t.Run("header without rows is empty input", func(t *testing.T) {
		err := v.Validate(newTestTable())

		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("empty sheet reports missing columns first", func(t *testing.T) {
		err := v.Validate(workbook.NewTable(nil))

		assert.ErrorIs(t, err, ErrMissingColumns)
	})

	t.Run("non numeric amount", func(t *testing.T) {
		table := newTestTable(
			[]string{"C1", "1 Rue A", "K1", "F1", "100", "20", ""},
			[]string{"C1", "1 Rue A", "K1", "F2", "100", "vingt", ""},
		)

		err := v.Validate(table)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonNumericAmount)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{ColumnAmountTVA}, ve.Columns)
		assert.Equal(t, 3, ve.Row)
		assert.Contains(t, err.Error(), "montant_tva")
		assert.True(t, IsValidationError(err))
	})

	t.Run("out of range exponent is rejected", func(t *testing.T) {
		table := newTestTable([]string{"C1", "1 Rue A", "K1", "F1", "1e60000000", "20", ""})

		err := v.Validate(table)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonNumericAmount)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{ColumnAmountHT}, ve.Columns)
	})
}
