package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTariffBands(t *testing.T) {
	text := "F1 1200 kWh F2: 900 F3 300kWh periodo 01/03/2024 - 31/03/2024"

	b := TariffBands(text)
	require.True(t, b.OK)
	assert.Equal(t, 1200.0, *b.F1)
	assert.Equal(t, 900.0, *b.F2)
	assert.Equal(t, 300.0, *b.F3)
}

func TestTariffBands_ReversedAndFormatted(t *testing.T) {
	text := "consumo 1.234,5 kWh F1, 900 kwh F2, F3 = 300"

	b := TariffBands(text)
	require.True(t, b.OK)
	assert.InDelta(t, 1234.5, *b.F1, 1e-9)
	assert.InDelta(t, 900, *b.F2, 1e-9)
	assert.InDelta(t, 300, *b.F3, 1e-9)
}

func TestTariffBands_Partial(t *testing.T) {
	b := TariffBands("F1: 100 kWh F2: 50 kWh")
	assert.False(t, b.OK)
	require.NotNil(t, b.F1)
	assert.Equal(t, 100.0, *b.F1)
	assert.Nil(t, b.F3)

	b = TariffBands("testo senza valori")
	assert.False(t, b.OK)
	assert.Nil(t, b.F1)
}

func TestTariffBands_MultilineOCR(t *testing.T) {
	// OCR output splits labels and numbers across lines
	text := "Fascia oraria\nF1\n1.200\nkWh\nF2 :\n900\nF3 -\n300"
	b := TariffBands(text)
	require.True(t, b.OK)
	assert.Equal(t, 1200.0, *b.F1)
}

func TestPeriod(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback int
		want     string
		ok       bool
	}{
		{"date range picks start", "periodo 01/03/2024 - 31/03/2024", 0, "2024-03", true},
		{"single-digit date", "dal 1/7/2024", 0, "2024-07", true},
		{"italian month name", "Bolletta di Marzo 2024", 0, "2024-03", true},
		{"month-year token", "competenza 03/2024", 0, "2024-03", true},
		{"month-year dash", "11-2023", 0, "2023-11", true},
		{"lone month with fallback", "mese 7", 2024, "2024-07", true},
		{"lone month without fallback", "mese 7", 0, "", false},
		{"nothing", "nessuna data qui", 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Period(tt.text, tt.fallback)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_DateBeatsMonthName(t *testing.T) {
	got, ok := Period("Gennaio 2024 fattura del 15/03/2024", 0)
	require.True(t, ok)
	assert.Equal(t, "2024-03", got)
}

func TestConfidence(t *testing.T) {
	full := TariffBands("F1 1200 kWh F2: 900 F3 300 kWh periodo 01/03/2024 - 31/03/2024 altre informazioni di fatturazione che allungano il testo oltre la soglia minima")
	empty := TariffBands("")

	high := Confidence("F1 1200 kWh F2: 900 F3 300 kWh periodo 01/03/2024 - 31/03/2024 altre informazioni di fatturazione che allungano il testo oltre la soglia minima", full, true)
	low := Confidence("", empty, false)

	assert.Greater(t, high, low)
	assert.GreaterOrEqual(t, high, float32(0.7))
	assert.Equal(t, "high", ConfidenceLabel(high))
	assert.Equal(t, "low", ConfidenceLabel(low))
	assert.LessOrEqual(t, high, float32(1.0))
}
