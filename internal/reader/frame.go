package reader

import (
	"fmt"
	"image"
	"strings"
)

// FrameFormat identifies the pixel layout of a streamed camera frame. Only
// formats with a standalone luma plane are decodable on the streaming path.
type FrameFormat int

const (
	FrameFormatUnknown FrameFormat = iota
	FrameFormatYUV420
	FrameFormatYUV422
	FrameFormatYUV444
)

var frameFormatNames = [...]string{"Unknown", "YUV420", "YUV422", "YUV444"}

func (f FrameFormat) String() string {
	if f < 0 || int(f) >= len(frameFormatNames) {
		return fmt.Sprintf("FrameFormat(%d)", int(f))
	}
	return frameFormatNames[f]
}

// Capability is the host pipeline's capability level, queried once at
// construction. It decides the frame-format allow-list so validation never
// needs to branch on the platform.
type Capability int

const (
	// CapabilityBaseline supports only 4:2:0 subsampled frames.
	CapabilityBaseline Capability = iota
	// CapabilityFull additionally supports 4:2:2 and 4:4:4 frames.
	CapabilityFull
)

// SupportedFrameFormats returns the allow-list for a capability level.
func SupportedFrameFormats(c Capability) []FrameFormat {
	if c >= CapabilityFull {
		return []FrameFormat{FrameFormatYUV420, FrameFormatYUV422, FrameFormatYUV444}
	}
	return []FrameFormat{FrameFormatYUV420}
}

func frameFormatList(formats []FrameFormat) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// Frame is a streamed single-channel luma buffer from a camera pipeline.
// Cropping and rotation are geometric metadata interpreted by the decode
// engine; this layer never touches the pixels.
type Frame struct {
	// Y is the luma plane. It stays owned by the caller and is treated as
	// read-only for the duration of the read.
	Y []byte
	// Format is the declared frame pixel format.
	Format FrameFormat
	// Width and Height are the frame dimensions in pixels.
	Width, Height int
	// RowStride is the luma plane's bytes per row; may exceed Width.
	RowStride int
	// Crop restricts decoding to a sub-rectangle in frame coordinates.
	// The zero rectangle means the full frame.
	Crop image.Rectangle
	// Rotation is the quarter-turn (0, 90, 180, 270) the frame must be
	// rotated clockwise before its content is upright.
	Rotation int
}
