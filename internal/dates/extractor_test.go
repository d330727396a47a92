package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// All tests pin the clock to 2025-10-01 so window math is deterministic.
var testNow = time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewExtractor(540).WithClock(fixedClock(testNow))
}

func TestExtract_NumericFormats(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "full numeric date",
			text:     "Función 14/11/2025 a las 21hs",
			expected: []string{"14/11/2025"},
		},
		{
			name:     "dash separators",
			text:     "Sábado 14-11-2025",
			expected: []string{"14/11/2025"},
		},
		{
			name:     "two digit year expanded",
			text:     "Próxima función: 05/12/25",
			expected: []string{"05/12/2025"},
		},
		{
			name:     "yearless resolves to nearest future occurrence",
			text:     "Viernes 14/11 - últimas entradas",
			expected: []string{"14/11/2025"},
		},
		{
			name:     "yearless already past this year rolls forward",
			text:     "Gran estreno 15/03",
			expected: []string{"15/03/2026"},
		},
		{
			name:     "multiple dates sorted ascending by calendar order",
			text:     "15/12/2025 y también 01/12/2025",
			expected: []string{"01/12/2025", "15/12/2025"},
		},
		{
			name:     "duplicates collapse",
			text:     "14/11/2025 ... otra vez 14/11/2025 y 14-11-2025",
			expected: []string{"14/11/2025"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newTestExtractor().Extract(tt.text))
		})
	}
}

func TestExtract_SpanishMonthNames(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "long month with year",
			text:     "14 de noviembre de 2025",
			expected: []string{"14/11/2025"},
		},
		{
			name:     "long month without de before year",
			text:     "14 de Noviembre 2025",
			expected: []string{"14/11/2025"},
		},
		{
			name:     "long month without year",
			text:     "Sábado 20 de diciembre, 21hs",
			expected: []string{"20/12/2025"},
		},
		{
			name:     "setiembre spelling",
			text:     "5 de setiembre de 2026",
			expected: []string{"05/09/2026"},
		},
		{
			name:     "abbreviated month",
			text:     "14-nov-2025",
			expected: []string{"14/11/2025"},
		},
		{
			name:     "abbreviated month with spaces and short year",
			text:     "14 nov 25",
			expected: []string{"14/11/2025"},
		},
		{
			name:     "mixed families union",
			text:     "14/11/2025 y el 20 de diciembre de 2025",
			expected: []string{"14/11/2025", "20/12/2025"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newTestExtractor().Extract(tt.text))
		})
	}
}

func TestExtract_RejectsImpossibleDates(t *testing.T) {
	e := newTestExtractor()

	assert.Empty(t, e.Extract("32/11/2025"))
	assert.Empty(t, e.Extract("14/13/2025"))
	assert.Empty(t, e.Extract("0/5/2025"))

	// Day/month in range but nonexistent on the calendar. time.Date would
	// normalize these into real neighbors (31/04 -> 01/05), which must not
	// surface as show dates.
	assert.Empty(t, e.Extract("Función 31/04/2026"))
	assert.Empty(t, e.Extract("31/11/2025"))
	assert.Empty(t, e.Extract("29/02/2026"))
	assert.Empty(t, e.Extract("31 de abril de 2026"))

	// Yearless nonexistent day gets no future occurrence invented for it.
	assert.Empty(t, e.Extract("próxima función 29/02"))

	// Valid date next to an invalid one still comes through.
	got := e.Extract("32/11/2025 pero sí 14/11/2025")
	assert.Equal(t, []string{"14/11/2025"}, got)
	assert.Equal(t, []string{"30/04/2026"}, e.Extract("30/04/2026 y 31/04/2026"))
}

func TestExtract_WindowFilter(t *testing.T) {
	e := newTestExtractor()

	// Past dates never come back.
	assert.Empty(t, e.Extract("01/01/2020"))
	assert.Empty(t, e.Extract("30/09/2025"))

	// Beyond the horizon is noise.
	tight := NewExtractor(1).WithClock(fixedClock(testNow))
	assert.Empty(t, tight.Extract("05/11/2026")) // 400 days out, horizon 1 day
	assert.Equal(t, []string{"02/10/2025"}, tight.Extract("02/10/2025"))
}

func TestExtract_LogisticsSuppression(t *testing.T) {
	e := newTestExtractor()

	// Dates inside the window around pickup/exchange wording are excluded.
	assert.Empty(t, e.Extract("14/11/2025 retiro en punto de entrega"))
	assert.Empty(t, e.Extract("canje de entradas: 14/11/2025"))
	assert.Empty(t, e.Extract("pick up your tickets on 14/11/2025"))

	// The same date in show context is kept.
	assert.Equal(t, []string{"14/11/2025"}, e.Extract("Función 14/11/2025"))

	// Far enough away from the keyword, the date survives.
	padding := make([]byte, 200)
	for i := range padding {
		padding[i] = 'x'
	}
	text := "retiro " + string(padding) + " Función 14/11/2025"
	assert.Equal(t, []string{"14/11/2025"}, e.Extract(text))
}

func TestExtract_Idempotent(t *testing.T) {
	e := newTestExtractor()
	text := "Funciones: 14/11/2025, 20 de diciembre de 2025 y 05/12/25"

	first := e.Extract(text)
	second := e.Extract(text)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestExtract_EmptyAndNoise(t *testing.T) {
	e := newTestExtractor()
	assert.Empty(t, e.Extract(""))
	assert.Empty(t, e.Extract("   \n\t "))
	assert.Empty(t, e.Extract("sin fechas por ahora, consultá más adelante"))
}

func TestParseToken(t *testing.T) {
	parsed := ParseToken("14/11/2025")
	assert.Equal(t, 2025, parsed.Year())
	assert.Equal(t, time.November, parsed.Month())
	assert.Equal(t, 14, parsed.Day())

	assert.True(t, ParseToken("garbage").IsZero())
}
