package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportedFrameFormats(t *testing.T) {
	assert.Equal(t,
		[]FrameFormat{FrameFormatYUV420},
		SupportedFrameFormats(CapabilityBaseline))
	assert.Equal(t,
		[]FrameFormat{FrameFormatYUV420, FrameFormatYUV422, FrameFormatYUV444},
		SupportedFrameFormats(CapabilityFull))
}

func TestFrameFormatString(t *testing.T) {
	assert.Equal(t, "Unknown", FrameFormatUnknown.String())
	assert.Equal(t, "YUV420", FrameFormatYUV420.String())
	assert.Equal(t, "YUV444", FrameFormatYUV444.String())
	assert.Equal(t, "FrameFormat(9)", FrameFormat(9).String())
}

func TestFrameFormatListing(t *testing.T) {
	assert.Equal(t, "YUV420, YUV422, YUV444", frameFormatList(SupportedFrameFormats(CapabilityFull)))
}
