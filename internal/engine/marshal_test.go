package engine

import (
	"image"
	"testing"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/makiuchi-d/gozxing"
	"github.com/stretchr/testify/assert"
)

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name   string
		format barcode.Format
		text   string
		want   barcode.ContentType
	}{
		{"plain ascii", barcode.FormatQRCode, "hello world", barcode.ContentText},
		{"empty payload", barcode.FormatQRCode, "", barcode.ContentText},
		{"utf8 text", barcode.FormatQRCode, "grüße", barcode.ContentText},
		{"invalid utf8", barcode.FormatQRCode, string([]byte{0xff, 0xfe, 0x01}), barcode.ContentBinary},
		{"mixed control and text", barcode.FormatQRCode, "abc\x01def", barcode.ContentMixed},
		{"databar is gs1", barcode.FormatDataBar, "0112345678901231", barcode.ContentGS1},
		{"databar expanded is gs1", barcode.FormatDataBarExpanded, "x", barcode.ContentGS1},
		{"iso 15434 envelope", barcode.FormatDataMatrix, "[)>\x1e06\x1dT123", barcode.ContentISO15434},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyContent(tt.format, tt.text))
		})
	}
}

func TestRenderText(t *testing.T) {
	assert.Equal(t, "hello", renderText("hello", nil, barcode.TextPlain))
	assert.Equal(t, "hello", renderText("hello", nil, barcode.TextECI), "ECI falls back to plain")
	assert.Equal(t, "hello", renderText("hello", nil, barcode.TextHRI), "HRI falls back to plain")

	assert.Equal(t, "010203", renderText("ignored", []byte{1, 2, 3}, barcode.TextHex))
	assert.Equal(t, "6869", renderText("hi", nil, barcode.TextHex), "hex without raw bytes uses the text")

	assert.Equal(t, `a\nb`, renderText("a\nb", nil, barcode.TextEscaped))
	assert.Equal(t, "plain", renderText("plain", nil, barcode.TextEscaped))
}

func TestSymbologyIdentifier(t *testing.T) {
	tests := []struct {
		format barcode.Format
		want   string
	}{
		{barcode.FormatQRCode, "]Q1"},
		{barcode.FormatMicroQRCode, "]Q1"},
		{barcode.FormatDataMatrix, "]d1"},
		{barcode.FormatAztec, "]z0"},
		{barcode.FormatPDF417, "]L2"},
		{barcode.FormatCode128, "]C0"},
		{barcode.FormatCode39, "]A0"},
		{barcode.FormatCode93, "]G0"},
		{barcode.FormatCodabar, "]F0"},
		{barcode.FormatITF, "]I0"},
		{barcode.FormatEAN13, "]E0"},
		{barcode.FormatUPCA, "]E0"},
		{barcode.FormatDataBar, "]e0"},
		{barcode.FormatMaxiCode, "]U0"},
		{barcode.FormatNone, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, symbologyIdentifier(tt.format), tt.format.String())
	}
}

func TestFormatFromZXing(t *testing.T) {
	tests := []struct {
		in   gozxing.BarcodeFormat
		want barcode.Format
	}{
		{gozxing.BarcodeFormat_QR_CODE, barcode.FormatQRCode},
		{gozxing.BarcodeFormat_DATA_MATRIX, barcode.FormatDataMatrix},
		{gozxing.BarcodeFormat_AZTEC, barcode.FormatAztec},
		{gozxing.BarcodeFormat_PDF_417, barcode.FormatPDF417},
		{gozxing.BarcodeFormat_CODE_39, barcode.FormatCode39},
		{gozxing.BarcodeFormat_CODE_93, barcode.FormatCode93},
		{gozxing.BarcodeFormat_CODE_128, barcode.FormatCode128},
		{gozxing.BarcodeFormat_CODABAR, barcode.FormatCodabar},
		{gozxing.BarcodeFormat_ITF, barcode.FormatITF},
		{gozxing.BarcodeFormat_EAN_8, barcode.FormatEAN8},
		{gozxing.BarcodeFormat_EAN_13, barcode.FormatEAN13},
		{gozxing.BarcodeFormat_UPC_A, barcode.FormatUPCA},
		{gozxing.BarcodeFormat_UPC_E, barcode.FormatUPCE},
		{gozxing.BarcodeFormat_RSS_14, barcode.FormatDataBar},
		{gozxing.BarcodeFormat_RSS_EXPANDED, barcode.FormatDataBarExpanded},
		{gozxing.BarcodeFormat_MAXICODE, barcode.FormatMaxiCode},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFromZXing(tt.in))
	}
}

func TestPositionFromPoints(t *testing.T) {
	assert.Nil(t, positionFromPoints(nil, transform{scale: 1}))

	tf := transform{crop: image.Rect(10, 10, 110, 110), rotation: 0, scale: 1}
	points := []gozxing.ResultPoint{
		gozxing.NewResultPoint(0, 0),
		gozxing.NewResultPoint(49, 0),
		gozxing.NewResultPoint(49, 49),
		gozxing.NewResultPoint(0, 49),
	}
	pos := positionFromPoints(points, tf)
	if assert.NotNil(t, pos) {
		assert.Equal(t, image.Rect(10, 10, 60, 60), pos.Bounds())
		assert.Equal(t, image.Pt(10, 10), pos.TopLeft)
		assert.Equal(t, image.Pt(59, 59), pos.BottomRight)
		assert.InDelta(t, 0.0, pos.Orientation, 1e-9, "first two points are horizontal")
	}
}
