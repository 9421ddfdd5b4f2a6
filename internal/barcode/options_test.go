package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.True(t, opts.Formats.Empty(), "all formats considered by default")
	assert.False(t, opts.TryHarder)
	assert.False(t, opts.TryRotate)
	assert.False(t, opts.TryInvert)
	assert.False(t, opts.TryDownscale)
	assert.False(t, opts.IsPure)
	assert.Equal(t, 3, opts.DownscaleFactor)
	assert.Equal(t, 2, opts.MinLineCount)
	assert.Equal(t, 255, opts.MaxNumberOfSymbols)
	assert.Equal(t, 500, opts.DownscaleThreshold)
	assert.Equal(t, EanAddOnIgnore, opts.EanAddOnSymbol)
	assert.Equal(t, BinarizerLocalAverage, opts.Binarizer)
	assert.Equal(t, TextPlain, opts.TextMode)
}

// Options must stay a comparable plain value so callers can diff them with ==.
func TestOptionsComparable(t *testing.T) {
	a := DefaultOptions()
	b := DefaultOptions()
	assert.True(t, a == b)

	b.TryHarder = true
	assert.False(t, a == b)

	b = DefaultOptions()
	b.Formats = NewFormatSet(FormatQRCode)
	assert.False(t, a == b)
}
