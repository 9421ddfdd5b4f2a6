package engine

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"unicode"
	"unicode/utf8"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/makiuchi-d/gozxing"
)

// marshalResults converts gozxing results into the caller-facing model,
// mapping geometry back into source coordinates via the attempt transform.
func marshalResults(in []*gozxing.Result, tf transform, opts barcode.Options) []barcode.Result {
	out := make([]barcode.Result, 0, len(in))
	for _, r := range in {
		out = append(out, marshalResult(r, tf, opts))
	}
	return out
}

func marshalResult(r *gozxing.Result, tf transform, opts barcode.Options) barcode.Result {
	format := formatFromZXing(r.GetBarcodeFormat())
	raw := r.GetRawBytes()
	text := r.GetText()

	res := barcode.Result{
		Format:              format,
		Bytes:               raw,
		Text:                renderText(text, raw, opts.TextMode),
		ContentType:         classifyContent(format, text),
		Position:            positionFromPoints(r.GetResultPoints(), tf),
		Orientation:         tf.rotation,
		SymbologyIdentifier: symbologyIdentifier(format),
	}

	if meta := r.GetResultMetadata(); meta != nil {
		if ec, ok := meta[gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL].(string); ok {
			res.ECLevel = ec
		}
		if res.Position != nil {
			if deg, ok := meta[gozxing.ResultMetadataType_ORIENTATION].(int); ok {
				res.Position.Orientation = float64(deg)
			}
		}
	}
	return res
}

// positionFromPoints derives the corner quad from the detector's key points.
// ZXing reports finder patterns or scan-line endpoints rather than corners,
// so the quad is the axis-aligned bounding quad of the points in source
// coordinates; the orientation estimate comes from the first two points.
// Nil points mean the symbology reports no geometry.
func positionFromPoints(points []gozxing.ResultPoint, tf transform) *barcode.Position {
	if len(points) == 0 {
		return nil
	}
	mapped := make([]image.Point, 0, len(points))
	for _, p := range points {
		mapped = append(mapped, tf.toSource(p.GetX(), p.GetY()))
	}
	rect := image.Rectangle{Min: mapped[0], Max: mapped[0].Add(image.Pt(1, 1))}
	for _, p := range mapped[1:] {
		rect = rect.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	var orientation float64
	if len(mapped) > 1 {
		orientation = barcode.AngleDegrees(mapped[0], mapped[1])
	}
	pos := barcode.PositionFromBounds(rect, orientation)
	return &pos
}

// renderText renders the payload per the requested text mode. ECI and HRI
// rendering need decoder-side metadata this engine does not expose and fall
// back to plain text.
func renderText(text string, raw []byte, mode barcode.TextMode) string {
	switch mode {
	case barcode.TextHex:
		if len(raw) > 0 {
			return hex.EncodeToString(raw)
		}
		return hex.EncodeToString([]byte(text))
	case barcode.TextEscaped:
		q := fmt.Sprintf("%q", text)
		return q[1 : len(q)-1]
	default:
		return text
	}
}

// iso15434Prefix is the ISO/IEC 15434 message envelope header.
var iso15434Prefix = []byte("[)>\x1e")

// classifyContent classifies the decoded payload. DataBar symbologies carry
// GS1 element strings by definition; everything else is classified by byte
// content.
func classifyContent(format barcode.Format, text string) barcode.ContentType {
	if format == barcode.FormatDataBar || format == barcode.FormatDataBarExpanded || format == barcode.FormatDataBarLimited {
		return barcode.ContentGS1
	}
	if bytes.HasPrefix([]byte(text), iso15434Prefix) {
		return barcode.ContentISO15434
	}
	if text == "" {
		return barcode.ContentText
	}
	if !utf8.ValidString(text) {
		return barcode.ContentBinary
	}
	printable, binary := 0, 0
	for _, r := range text {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		} else {
			binary++
		}
	}
	switch {
	case binary == 0:
		return barcode.ContentText
	case printable == 0:
		return barcode.ContentBinary
	default:
		return barcode.ContentMixed
	}
}

// symbologyIdentifier returns the AIM symbology identifier for a format
// with default modifier values.
func symbologyIdentifier(f barcode.Format) string {
	switch f {
	case barcode.FormatAztec:
		return "]z0"
	case barcode.FormatCodabar:
		return "]F0"
	case barcode.FormatCode39:
		return "]A0"
	case barcode.FormatCode93:
		return "]G0"
	case barcode.FormatCode128:
		return "]C0"
	case barcode.FormatDataBar, barcode.FormatDataBarExpanded, barcode.FormatDataBarLimited:
		return "]e0"
	case barcode.FormatDataMatrix:
		return "]d1"
	case barcode.FormatEAN8, barcode.FormatEAN13, barcode.FormatUPCA, barcode.FormatUPCE:
		return "]E0"
	case barcode.FormatITF:
		return "]I0"
	case barcode.FormatMaxiCode:
		return "]U0"
	case barcode.FormatPDF417:
		return "]L2"
	case barcode.FormatQRCode, barcode.FormatMicroQRCode, barcode.FormatRMQRCode:
		return "]Q1"
	default:
		return ""
	}
}

func formatFromZXing(bf gozxing.BarcodeFormat) barcode.Format {
	switch bf {
	case gozxing.BarcodeFormat_AZTEC:
		return barcode.FormatAztec
	case gozxing.BarcodeFormat_CODABAR:
		return barcode.FormatCodabar
	case gozxing.BarcodeFormat_CODE_39:
		return barcode.FormatCode39
	case gozxing.BarcodeFormat_CODE_93:
		return barcode.FormatCode93
	case gozxing.BarcodeFormat_CODE_128:
		return barcode.FormatCode128
	case gozxing.BarcodeFormat_RSS_14:
		return barcode.FormatDataBar
	case gozxing.BarcodeFormat_RSS_EXPANDED:
		return barcode.FormatDataBarExpanded
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return barcode.FormatDataMatrix
	case gozxing.BarcodeFormat_EAN_8:
		return barcode.FormatEAN8
	case gozxing.BarcodeFormat_EAN_13:
		return barcode.FormatEAN13
	case gozxing.BarcodeFormat_ITF:
		return barcode.FormatITF
	case gozxing.BarcodeFormat_MAXICODE:
		return barcode.FormatMaxiCode
	case gozxing.BarcodeFormat_PDF_417:
		return barcode.FormatPDF417
	case gozxing.BarcodeFormat_QR_CODE:
		return barcode.FormatQRCode
	case gozxing.BarcodeFormat_UPC_A:
		return barcode.FormatUPCA
	case gozxing.BarcodeFormat_UPC_E:
		return barcode.FormatUPCE
	default:
		return barcode.FormatNone
	}
}
