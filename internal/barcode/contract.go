package barcode

import "fmt"

// Contract pins the tag counts of the enumerations exchanged with a decode
// engine. Engines report theirs; Verify catches a drifted enum table before
// the first decode instead of at result-marshalling time.
type Contract struct {
	Formats        int
	ContentTypes   int
	Binarizers     int
	EanAddOnModes  int
	TextModes      int
}

// CurrentContract returns the tag counts of this package's enumerations.
func CurrentContract() Contract {
	return Contract{
		Formats:       len(formatNames),
		ContentTypes:  len(contentTypeNames),
		Binarizers:    len(binarizerNames),
		EanAddOnModes: len(eanAddOnNames),
		TextModes:     len(textModeNames),
	}
}

// Verify compares an engine-reported contract against ours.
func Verify(engine Contract) error {
	local := CurrentContract()
	if engine != local {
		return fmt.Errorf("enum tag contract mismatch: engine reports %+v, this layer has %+v", engine, local)
	}
	return nil
}
