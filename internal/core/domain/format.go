package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Format is a serialization format for resolved configuration.
type Format string

const (
	// FormatYAML serializes as YAML.
	FormatYAML Format = "yaml"
	// FormatJSON serializes as indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. The empty string selects YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnsupportedFormat, s), "format", s)
	}
}

// OutputFileName returns the default output file name for the format.
func OutputFileName(f Format) string {
	if f == FormatJSON {
		return "rig.resolved.json"
	}
	return DefaultOutputFile
}
