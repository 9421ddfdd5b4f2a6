package barcode

// Options bundles format filters and decode-tuning knobs for a single read.
// It is a plain value: copy it freely, compare it with ==. Nothing is
// validated at construction; the decode engine may clamp or reject
// nonsensical values at decode time.
type Options struct {
	// Formats restricts the symbologies considered. The empty set means
	// every supported symbology.
	Formats FormatSet

	// TryHarder spends more time searching (slower, more robust).
	TryHarder bool
	// TryRotate also searches the image rotated by 90 degrees.
	TryRotate bool
	// TryInvert also searches a light-on-dark rendition of the image.
	TryInvert bool
	// TryDownscale decodes a scaled-down image first when the input exceeds
	// DownscaleThreshold in either dimension.
	TryDownscale bool
	// TryDenoise applies a denoising pass before binarization.
	TryDenoise bool
	// IsPure hints that the image contains nothing but a single,
	// perfectly aligned symbol.
	IsPure bool
	// TryCode39ExtendedMode decodes Code 39 in its extended (full ASCII) mode.
	TryCode39ExtendedMode bool
	// ValidateCode39CheckSum requires a valid Code 39 check digit.
	ValidateCode39CheckSum bool
	// ValidateITFCheckSum requires a valid ITF check digit.
	ValidateITFCheckSum bool
	// ReturnCodabarStartEnd keeps the Codabar start/stop characters in the text.
	ReturnCodabarStartEnd bool
	// ReturnErrors includes symbols that were located but failed to decode.
	ReturnErrors bool

	// DownscaleFactor is the scale divisor used when TryDownscale applies.
	DownscaleFactor int
	// MinLineCount is the minimum number of scan lines a linear symbol must
	// cover to be accepted.
	MinLineCount int
	// MaxNumberOfSymbols caps how many symbols a single read may return.
	MaxNumberOfSymbols int
	// DownscaleThreshold is the edge length above which TryDownscale kicks in.
	DownscaleThreshold int

	EanAddOnSymbol EanAddOnSymbol
	Binarizer      Binarizer
	TextMode       TextMode
}

// DefaultOptions returns the documented defaults: all flags off, all formats
// considered, LocalAverage binarization and plain text rendering.
func DefaultOptions() Options {
	return Options{
		DownscaleFactor:    3,
		MinLineCount:       2,
		MaxNumberOfSymbols: 255,
		DownscaleThreshold: 500,
	}
}
