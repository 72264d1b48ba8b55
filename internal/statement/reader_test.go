package statement

import (
	"errors"
	"testing"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseTotals(t *testing.T) {
	t.Run("takes the last occurrence of each label", func(t *testing.T) {
		text := "TOTAL HT: 1.00\nTOTAL TVA: 2.00\nTOTAL TTC: 3.00\n" +
			"TOTAL HT: 300.00\nTOTAL TVA: 60.00\nTOTAL TTC: 360.00\n"

		totals, err := ParseTotals(text)
		require.NoError(t, err)
		assert.Equal(t, "300.00", models.FormatAmount(totals.TotalHT))
		assert.Equal(t, "60.00", models.FormatAmount(totals.TotalTVA))
		assert.Equal(t, "360.00", models.FormatAmount(totals.TotalTTC))
	})

	t.Run("negative totals", func(t *testing.T) {
		totals, err := ParseTotals("TOTAL HT: -10.00 TOTAL TVA: -2.00 TOTAL TTC: -12.00")
		require.NoError(t, err)
		assert.Equal(t, "-12.00", models.FormatAmount(totals.TotalTTC))
	})

	t.Run("missing label", func(t *testing.T) {
		_, err := ParseTotals("TOTAL HT: 1.00\nTOTAL TTC: 1.00")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTotalsNotFound))
		assert.Contains(t, err.Error(), LabelTotalTVA)
	})
}

func TestTextExtractor_RoundTrip(t *testing.T) {
	renderer := NewRenderer(zap.NewNop())
	extractor := NewTextExtractor(zap.NewNop())

	summary := newSummary("C001",
		[2]string{"100.00", "20.00"},
		[2]string{"200.00", "40.00"},
		[2]string{"0.50", "0.10"})

	out, err := renderer.Render(summary, testCompany(), issuedAt)
	require.NoError(t, err)

	totals, err := extractor.ReadTotals(out)
	require.NoError(t, err)
	assert.True(t, totals.Matches(summary), "totals read back: %+v", totals)

	text, err := extractor.Text(out)
	require.NoError(t, err)
	assert.Contains(t, text, "FACTURE GLOBALE")
	assert.Contains(t, text, "C001")
	assert.Contains(t, text, "15/03/2024")
	assert.Contains(t, text, "Facture globale pour: 3 facture(s)")
}

func TestTextExtractor_InvalidPDF(t *testing.T) {
	extractor := NewTextExtractor(zap.NewNop())

	_, err := extractor.ReadTotals([]byte("not a pdf"))
	assert.Error(t, err)
}
