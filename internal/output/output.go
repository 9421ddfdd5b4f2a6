// Package output renders decoded results for the CLI and server surfaces.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/betarho/zxscan/internal/barcode"
	"gopkg.in/yaml.v3"
)

// Output format names accepted by the CLI and the scan endpoint.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)

// ValidFormats lists the accepted output format names.
var ValidFormats = []string{FormatText, FormatJSON, FormatCSV, FormatYAML}

// IsValidFormat reports whether name is an accepted output format.
func IsValidFormat(name string) bool {
	for _, f := range ValidFormats {
		if name == f {
			return true
		}
	}
	return false
}

// Record is the serializable view of a Result, with enums as names.
type Record struct {
	Format              string            `json:"format" yaml:"format"`
	Text                string            `json:"text" yaml:"text"`
	Bytes               []byte            `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	ContentType         string            `json:"content_type" yaml:"content_type"`
	Position            *barcode.Position `json:"position,omitempty" yaml:"position,omitempty"`
	Orientation         int               `json:"orientation" yaml:"orientation"`
	ECLevel             string            `json:"ec_level,omitempty" yaml:"ec_level,omitempty"`
	SymbologyIdentifier string            `json:"symbology_identifier,omitempty" yaml:"symbology_identifier,omitempty"`
}

// Document groups the records decoded from one input.
type Document struct {
	Source  string   `json:"source,omitempty" yaml:"source,omitempty"`
	Count   int      `json:"count" yaml:"count"`
	Symbols []Record `json:"symbols" yaml:"symbols"`
}

// NewDocument builds a Document from decoded results.
func NewDocument(source string, results []barcode.Result) Document {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, Record{
			Format:              r.Format.String(),
			Text:                r.Text,
			Bytes:               r.Bytes,
			ContentType:         r.ContentType.String(),
			Position:            r.Position,
			Orientation:         r.Orientation,
			ECLevel:             r.ECLevel,
			SymbologyIdentifier: r.SymbologyIdentifier,
		})
	}
	return Document{Source: source, Count: len(records), Symbols: records}
}

// Render serializes the document in the named format.
func Render(doc Document, format string) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("output: marshal json: %w", err)
		}
		return string(b) + "\n", nil
	case FormatYAML:
		b, err := yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("output: marshal yaml: %w", err)
		}
		return string(b), nil
	case FormatCSV:
		return renderCSV(doc)
	case FormatText, "":
		return renderText(doc), nil
	default:
		return "", fmt.Errorf("output: invalid format %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
}

func renderCSV(doc Document) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"source", "format", "text", "content_type", "ec_level", "symbology_identifier"}); err != nil {
		return "", fmt.Errorf("output: write csv: %w", err)
	}
	for _, rec := range doc.Symbols {
		row := []string{doc.Source, rec.Format, rec.Text, rec.ContentType, rec.ECLevel, rec.SymbologyIdentifier}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("output: write csv: %w", err)
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func renderText(doc Document) string {
	if len(doc.Symbols) == 0 {
		return fmt.Sprintf("%s: no barcode found\n", doc.Source)
	}
	var sb strings.Builder
	for _, rec := range doc.Symbols {
		fmt.Fprintf(&sb, "%s: %s %q", doc.Source, rec.Format, rec.Text)
		if rec.Position != nil {
			fmt.Fprintf(&sb, " at %v", rec.Position.TopLeft)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
