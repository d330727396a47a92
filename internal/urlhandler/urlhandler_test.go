package urlhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "already normalized",
			input:    "https://www.vendor.com/evento/show-2025",
			expected: "https://www.vendor.com/evento/show-2025",
		},
		{
			name:     "missing scheme",
			input:    "vendor.com/evento/show",
			expected: "https://vendor.com/evento/show",
		},
		{
			name:     "strips fragment",
			input:    "https://vendor.com/evento#funciones",
			expected: "https://vendor.com/evento",
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractHostname(t *testing.T) {
	host, err := ExtractHostname("https://www.Ticketera.COM.ar/evento/obra")
	require.NoError(t, err)
	assert.Equal(t, "ticketera.com.ar", host)

	_, err = ExtractHostname("not a url at all ://")
	assert.Error(t, err)
}

func TestPrettifyFromSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "hyphenated slug",
			input:    "https://vendor.com/evento/la-obra-del-ano",
			expected: "La Obra Del Ano",
		},
		{
			name:     "trailing numeric id dropped",
			input:    "https://vendor.com/show/recital-acustico-48123",
			expected: "Recital Acustico",
		},
		{
			name:     "underscores and extension",
			input:    "https://vendor.com/e/gran_concierto.html",
			expected: "Gran Concierto",
		},
		{
			name:     "no path falls back to hostname",
			input:    "https://vendor.com/",
			expected: "vendor.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrettifyFromSlug(tt.input))
		})
	}
}
