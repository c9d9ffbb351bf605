package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mode string

const (
	modeOff  mode = "off"
	modePage mode = "page"
	modeHome mode = "home"
)

func newModeNormalizer() *Normalizer[mode] {
	return NewNormalizer("news mode", map[string]mode{
		"off":  modeOff,
		"page": modePage,
		"Home": modeHome,
	}, modeOff)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newModeNormalizer()

	tests := []struct {
		input    string
		expected mode
	}{
		{"page", modePage},
		{"  HOME ", modeHome},
		{"home", modeHome},
		{"", modeOff},
		{"sideways", modeOff},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_Parse(t *testing.T) {
	n := newModeNormalizer()

	got, err := n.Parse(" Page")
	require.NoError(t, err)
	assert.Equal(t, modePage, got)

	got, err = n.Parse("")
	require.NoError(t, err)
	assert.Equal(t, modeOff, got)

	_, err = n.Parse("sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid news mode")
	assert.Contains(t, err.Error(), "[home off page]")
}
