package barcode

import (
	"fmt"
	"strings"
)

// ParseBinarizer resolves a Binarizer by name, case-insensitively.
func ParseBinarizer(s string) (Binarizer, error) {
	for i, name := range binarizerNames {
		if strings.EqualFold(s, name) {
			return Binarizer(i), nil
		}
	}
	return 0, fmt.Errorf("unknown binarizer %q (known: %s)", s, strings.Join(binarizerNames[:], ", "))
}

// ParseTextMode resolves a TextMode by name, case-insensitively.
func ParseTextMode(s string) (TextMode, error) {
	for i, name := range textModeNames {
		if strings.EqualFold(s, name) {
			return TextMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown text mode %q (known: %s)", s, strings.Join(textModeNames[:], ", "))
}

// ParseEanAddOnSymbol resolves an EanAddOnSymbol by name, case-insensitively.
func ParseEanAddOnSymbol(s string) (EanAddOnSymbol, error) {
	for i, name := range eanAddOnNames {
		if strings.EqualFold(s, name) {
			return EanAddOnSymbol(i), nil
		}
	}
	return 0, fmt.Errorf("unknown EAN add-on mode %q (known: %s)", s, strings.Join(eanAddOnNames[:], ", "))
}
