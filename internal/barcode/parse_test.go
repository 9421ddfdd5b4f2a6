package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBinarizer(t *testing.T) {
	b, err := ParseBinarizer("globalhistogram")
	require.NoError(t, err)
	assert.Equal(t, BinarizerGlobalHistogram, b)

	_, err = ParseBinarizer("otsu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LocalAverage")
}

func TestParseTextMode(t *testing.T) {
	m, err := ParseTextMode("HEX")
	require.NoError(t, err)
	assert.Equal(t, TextHex, m)

	_, err = ParseTextMode("base64")
	assert.Error(t, err)
}

func TestParseEanAddOnSymbol(t *testing.T) {
	e, err := ParseEanAddOnSymbol("require")
	require.NoError(t, err)
	assert.Equal(t, EanAddOnRequire, e)

	_, err = ParseEanAddOnSymbol("maybe")
	assert.Error(t, err)
}
