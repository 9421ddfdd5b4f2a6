package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"", nil},
		{"3", []int{3}},
		{"1-4", []int{1, 2, 3, 4}},
		{"1,3,7", []int{1, 3, 7}},
		{"1-3,7", []int{1, 2, 3, 7}},
		{" 2 , 4-5 ", []int{2, 4, 5}},
	}
	for _, tt := range tests {
		got, err := parsePageRange(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParsePageRangeErrors(t *testing.T) {
	for _, in := range []string{"abc", "1-x", "x-3", "5-2", "1,,2"} {
		_, err := parsePageRange(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestPageFromFilename(t *testing.T) {
	page, err := pageFromFilename("page_3_image_1.png")
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	page, err = pageFromFilename("page_12_Im0.jpg")
	require.NoError(t, err)
	assert.Equal(t, 12, page)

	_, err = pageFromFilename("thumbnail.png")
	assert.Error(t, err)

	_, err = pageFromFilename("page_x_image_1.png")
	assert.Error(t, err)
}

func TestExtractImagesInvalidRange(t *testing.T) {
	_, err := ExtractImages("whatever.pdf", "5-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid page range")
}

func TestExtractImagesMissingFile(t *testing.T) {
	_, err := ExtractImages("does-not-exist.pdf", "")
	assert.Error(t, err)
}
