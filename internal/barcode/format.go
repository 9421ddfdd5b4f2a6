package barcode

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// Format identifies a barcode symbology as a single bit flag. The bit
// positions are a wire contract shared with the decode engine and must not
// be reordered.
type Format uint32

const (
	FormatNone            Format = 0
	FormatAztec           Format = 1 << 0
	FormatCodabar         Format = 1 << 1
	FormatCode39          Format = 1 << 2
	FormatCode93          Format = 1 << 3
	FormatCode128         Format = 1 << 4
	FormatDataBar         Format = 1 << 5
	FormatDataBarExpanded Format = 1 << 6
	FormatDataMatrix      Format = 1 << 7
	FormatEAN8            Format = 1 << 8
	FormatEAN13           Format = 1 << 9
	FormatITF             Format = 1 << 10
	FormatMaxiCode        Format = 1 << 11
	FormatPDF417          Format = 1 << 12
	FormatQRCode          Format = 1 << 13
	FormatUPCA            Format = 1 << 14
	FormatUPCE            Format = 1 << 15
	FormatMicroQRCode     Format = 1 << 16
	FormatRMQRCode        Format = 1 << 17
	FormatDXFilmEdge      Format = 1 << 18
	FormatDataBarLimited  Format = 1 << 19
)

// formatNames maps each defined flag to its canonical name.
var formatNames = map[Format]string{
	FormatAztec:           "Aztec",
	FormatCodabar:         "Codabar",
	FormatCode39:          "Code39",
	FormatCode93:          "Code93",
	FormatCode128:         "Code128",
	FormatDataBar:         "DataBar",
	FormatDataBarExpanded: "DataBarExpanded",
	FormatDataMatrix:      "DataMatrix",
	FormatEAN8:            "EAN-8",
	FormatEAN13:           "EAN-13",
	FormatITF:             "ITF",
	FormatMaxiCode:        "MaxiCode",
	FormatPDF417:          "PDF417",
	FormatQRCode:          "QRCode",
	FormatUPCA:            "UPC-A",
	FormatUPCE:            "UPC-E",
	FormatMicroQRCode:     "MicroQRCode",
	FormatRMQRCode:        "rMQRCode",
	FormatDXFilmEdge:      "DXFilmEdge",
	FormatDataBarLimited:  "DataBarLimited",
}

// String returns the canonical format name, or "None" for the zero value.
func (f Format) String() string {
	if f == FormatNone {
		return "None"
	}
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(0x%x)", uint32(f))
}

// ParseFormat resolves a format by its canonical name. Matching is
// case-insensitive and ignores hyphens so "ean13" and "EAN-13" both work.
func ParseFormat(s string) (Format, error) {
	key := normalizeFormatName(s)
	if key == "none" {
		return FormatNone, nil
	}
	for f, name := range formatNames {
		if normalizeFormatName(name) == key {
			return f, nil
		}
	}
	return FormatNone, fmt.Errorf("unknown barcode format %q (known: %s)", s, strings.Join(FormatNames(), ", "))
}

func normalizeFormatName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "-", ""), "_", ""))
}

// FormatNames returns the canonical names of all defined formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(formatNames))
	for _, n := range formatNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FormatSet is a bit mask of Formats. The zero value means "no restriction":
// the engine considers every symbology it supports.
type FormatSet uint32

// Aggregate sets mirroring the engine's grouping.
const (
	LinearFormats FormatSet = FormatSet(FormatCodabar | FormatCode39 | FormatCode93 | FormatCode128 |
		FormatEAN8 | FormatEAN13 | FormatITF | FormatDataBar | FormatDataBarExpanded |
		FormatDataBarLimited | FormatDXFilmEdge | FormatUPCA | FormatUPCE)
	MatrixFormats FormatSet = FormatSet(FormatAztec | FormatDataMatrix | FormatMaxiCode | FormatPDF417 |
		FormatQRCode | FormatMicroQRCode | FormatRMQRCode)
)

// NewFormatSet builds a set from individual formats.
func NewFormatSet(formats ...Format) FormatSet {
	var s FormatSet
	for _, f := range formats {
		s |= FormatSet(f)
	}
	return s
}

// Has reports whether the set contains f. An empty set contains everything.
func (s FormatSet) Has(f Format) bool {
	return s == 0 || s&FormatSet(f) != 0
}

// Empty reports whether no explicit formats are selected.
func (s FormatSet) Empty() bool { return s == 0 }

// Count returns the number of explicitly selected formats.
func (s FormatSet) Count() int { return bits.OnesCount32(uint32(s)) }

// Formats expands the set into its individual flags in ascending bit order.
func (s FormatSet) Formats() []Format {
	out := make([]Format, 0, s.Count())
	for bit := 0; bit < 32; bit++ {
		f := Format(1 << bit)
		if s&FormatSet(f) != 0 {
			if _, ok := formatNames[f]; ok {
				out = append(out, f)
			}
		}
	}
	return out
}

// String renders the set as a "|"-joined list of names, or "None" when empty.
func (s FormatSet) String() string {
	if s.Empty() {
		return "None"
	}
	parts := make([]string, 0, s.Count())
	for _, f := range s.Formats() {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "|")
}

// ParseFormatSet parses a "|", ","-or space-separated list of format names.
func ParseFormatSet(s string) (FormatSet, error) {
	var set FormatSet
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ' '
	})
	for _, field := range fields {
		f, err := ParseFormat(field)
		if err != nil {
			return 0, err
		}
		set |= FormatSet(f)
	}
	return set, nil
}
