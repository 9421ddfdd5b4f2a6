package barcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentContract(t *testing.T) {
	c := CurrentContract()
	assert.Equal(t, 20, c.Formats)
	assert.Equal(t, 6, c.ContentTypes)
	assert.Equal(t, 4, c.Binarizers)
	assert.Equal(t, 3, c.EanAddOnModes)
	assert.Equal(t, 5, c.TextModes)
}

func TestVerify(t *testing.T) {
	require.NoError(t, Verify(CurrentContract()))

	drifted := CurrentContract()
	drifted.TextModes++
	err := Verify(drifted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract mismatch")
}
