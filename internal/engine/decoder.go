package engine

import (
	"image"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/multi"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/pdf417"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// decoder binds one Options value to an assembled gozxing reader chain.
//
// Format filtering happens through reader selection rather than hints:
// only readers for requested symbologies are constructed. MinLineCount,
// TryDenoise and ReturnErrors have no gozxing equivalent and are accepted
// but inert here; the ITF checksum flag likewise (gozxing validates ITF
// lengths internally).
type decoder struct {
	opts   barcode.Options
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

func newDecoder(opts barcode.Options) *decoder {
	d := &decoder{
		opts:   opts,
		reader: newCompositeReader(opts.Formats),
		hints:  make(map[gozxing.DecodeHintType]interface{}),
	}
	if opts.TryHarder {
		d.hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if opts.IsPure {
		d.hints[gozxing.DecodeHintType_PURE_BARCODE] = true
	}
	if opts.ValidateCode39CheckSum {
		d.hints[gozxing.DecodeHintType_ASSUME_CODE_39_CHECK_DIGIT] = true
	}
	if opts.ReturnCodabarStartEnd {
		d.hints[gozxing.DecodeHintType_RETURN_CODABAR_START_END] = true
	}
	if opts.EanAddOnSymbol == barcode.EanAddOnRequire {
		d.hints[gozxing.DecodeHintType_ALLOWED_EAN_EXTENSIONS] = []int{2, 5}
	}
	return d
}

// run binarizes the image and decodes it, in multi-symbol mode when the
// options allow more than one result.
func (d *decoder) run(img image.Image) ([]*gozxing.Result, error) {
	source := gozxing.NewLuminanceSourceFromImage(img)
	bmp, err := gozxing.NewBinaryBitmap(d.binarize(source))
	if err != nil {
		return nil, err
	}

	maxSymbols := d.opts.MaxNumberOfSymbols
	if maxSymbols <= 0 {
		maxSymbols = barcode.DefaultOptions().MaxNumberOfSymbols
	}
	if maxSymbols == 1 {
		res, err := d.reader.Decode(bmp, d.hints)
		if err != nil {
			return nil, err
		}
		return []*gozxing.Result{res}, nil
	}

	mr := multi.NewGenericMultipleBarcodeReader(d.reader)
	results, err := mr.DecodeMultiple(bmp, d.hints)
	if err != nil {
		return nil, err
	}
	if len(results) > maxSymbols {
		results = results[:maxSymbols]
	}
	return results, nil
}

// binarize maps the Binarizer selection onto gozxing's implementations.
// FixedThreshold and BoolCast have no direct counterpart and use the global
// histogram binarizer.
func (d *decoder) binarize(source gozxing.LuminanceSource) gozxing.Binarizer {
	switch d.opts.Binarizer {
	case barcode.BinarizerGlobalHistogram, barcode.BinarizerFixedThreshold, barcode.BinarizerBoolCast:
		return gozxing.NewGlobalHistgramBinarizer(source)
	default:
		return gozxing.NewHybridBinarizer(source)
	}
}

// compositeReader tries each symbology reader in turn, like the upstream
// multi-format reader, but with the format filter baked into the reader set.
type compositeReader struct {
	readers []gozxing.Reader
}

func newCompositeReader(formats barcode.FormatSet) *compositeReader {
	type entry struct {
		format barcode.Format
		build  func() gozxing.Reader
	}
	// 2D readers first: they are cheaper to reject and more common in
	// camera workloads.
	table := []entry{
		{barcode.FormatQRCode, func() gozxing.Reader { return qrcode.NewQRCodeReader() }},
		{barcode.FormatDataMatrix, func() gozxing.Reader { return datamatrix.NewDataMatrixReader() }},
		{barcode.FormatAztec, func() gozxing.Reader { return aztec.NewAztecReader() }},
		{barcode.FormatPDF417, func() gozxing.Reader { return pdf417.NewPDF417Reader() }},
		{barcode.FormatCode128, func() gozxing.Reader { return oned.NewCode128Reader() }},
		{barcode.FormatCode39, func() gozxing.Reader { return oned.NewCode39Reader() }},
		{barcode.FormatCode93, func() gozxing.Reader { return oned.NewCode93Reader() }},
		{barcode.FormatCodabar, func() gozxing.Reader { return oned.NewCodaBarReader() }},
		{barcode.FormatITF, func() gozxing.Reader { return oned.NewITFReader() }},
		{barcode.FormatEAN8, func() gozxing.Reader { return oned.NewEAN8Reader() }},
		{barcode.FormatEAN13, func() gozxing.Reader { return oned.NewEAN13Reader() }},
		{barcode.FormatUPCA, func() gozxing.Reader { return oned.NewUPCAReader() }},
		{barcode.FormatUPCE, func() gozxing.Reader { return oned.NewUPCEReader() }},
	}
	c := &compositeReader{}
	for _, e := range table {
		if formats.Has(e.format) {
			c.readers = append(c.readers, e.build())
		}
	}
	return c
}

func (c *compositeReader) Decode(img *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (*gozxing.Result, error) {
	for _, r := range c.readers {
		if res, err := r.Decode(img, hints); err == nil {
			return res, nil
		}
	}
	return nil, gozxing.NewNotFoundException()
}

func (c *compositeReader) DecodeWithoutHints(img *gozxing.BinaryBitmap) (*gozxing.Result, error) {
	return c.Decode(img, nil)
}

func (c *compositeReader) Reset() {
	for _, r := range c.readers {
		r.Reset()
	}
}
