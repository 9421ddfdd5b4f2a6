package barcode

import "fmt"

// The enumerations in this file are exchanged with the decode engine as
// small integer tags. Their ordinal positions are part of the boundary
// contract; see contract.go for the startup self-check.

// ContentType classifies a decoded payload.
type ContentType int

const (
	ContentText ContentType = iota
	ContentBinary
	ContentMixed
	ContentGS1
	ContentISO15434
	ContentUnknownECI
)

var contentTypeNames = [...]string{"Text", "Binary", "Mixed", "GS1", "ISO15434", "UnknownECI"}

func (c ContentType) String() string {
	if c < 0 || int(c) >= len(contentTypeNames) {
		return fmt.Sprintf("ContentType(%d)", int(c))
	}
	return contentTypeNames[c]
}

// Binarizer selects the luminance thresholding algorithm.
type Binarizer int

const (
	BinarizerLocalAverage Binarizer = iota
	BinarizerGlobalHistogram
	BinarizerFixedThreshold
	BinarizerBoolCast
)

var binarizerNames = [...]string{"LocalAverage", "GlobalHistogram", "FixedThreshold", "BoolCast"}

func (b Binarizer) String() string {
	if b < 0 || int(b) >= len(binarizerNames) {
		return fmt.Sprintf("Binarizer(%d)", int(b))
	}
	return binarizerNames[b]
}

// EanAddOnSymbol controls handling of EAN-2/EAN-5 add-on symbols.
type EanAddOnSymbol int

const (
	EanAddOnIgnore EanAddOnSymbol = iota
	EanAddOnRead
	EanAddOnRequire
)

var eanAddOnNames = [...]string{"Ignore", "Read", "Require"}

func (e EanAddOnSymbol) String() string {
	if e < 0 || int(e) >= len(eanAddOnNames) {
		return fmt.Sprintf("EanAddOnSymbol(%d)", int(e))
	}
	return eanAddOnNames[e]
}

// TextMode controls how the raw payload is rendered into Result.Text.
type TextMode int

const (
	TextPlain TextMode = iota
	TextECI
	TextHRI
	TextHex
	TextEscaped
)

var textModeNames = [...]string{"Plain", "ECI", "HRI", "Hex", "Escaped"}

func (t TextMode) String() string {
	if t < 0 || int(t) >= len(textModeNames) {
		return fmt.Sprintf("TextMode(%d)", int(t))
	}
	return textModeNames[t]
}

// ImageFormat describes the byte layout of an ImageView buffer. The values
// encode channel count and RGB byte offsets in the same scheme the engine
// uses, so they can cross the boundary as-is.
type ImageFormat uint32

const (
	ImageFormatNone ImageFormat = 0
	ImageFormatLum  ImageFormat = 0x01000000
	ImageFormatLumA ImageFormat = 0x02000000
	ImageFormatRGB  ImageFormat = 0x03000102
	ImageFormatBGR  ImageFormat = 0x03020100
	ImageFormatRGBA ImageFormat = 0x04000102
	ImageFormatARGB ImageFormat = 0x04010203
	ImageFormatBGRA ImageFormat = 0x04020100
	ImageFormatABGR ImageFormat = 0x04030201
)

// Channels returns the number of bytes per pixel for the format.
func (f ImageFormat) Channels() int { return int(f >> 24) }

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatNone:
		return "None"
	case ImageFormatLum:
		return "Lum"
	case ImageFormatLumA:
		return "LumA"
	case ImageFormatRGB:
		return "RGB"
	case ImageFormatBGR:
		return "BGR"
	case ImageFormatRGBA:
		return "RGBA"
	case ImageFormatARGB:
		return "ARGB"
	case ImageFormatBGRA:
		return "BGRA"
	case ImageFormatABGR:
		return "ABGR"
	default:
		return fmt.Sprintf("ImageFormat(0x%08x)", uint32(f))
	}
}
