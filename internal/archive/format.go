package archive

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Format names a package variant
type Format string

const (
	// FormatZen is the JSON-based package (content.json)
	FormatZen Format = "zen"
	// FormatLegacy is the XML-based package (content.xml)
	FormatLegacy Format = "legacy"
)

// Marker entries that identify each variant
const (
	ZenContentEntry    = "content.json"
	LegacyContentEntry = "content.xml"
)

// ErrFormatUnrecognized matches any *FormatUnrecognizedError via errors.Is
var ErrFormatUnrecognized = errors.New("unrecognized package format")

// FormatUnrecognizedError carries the entries that were found instead
// of a known content entry.
type FormatUnrecognizedError struct {
	Path    string
	Entries []string
}

func (e *FormatUnrecognizedError) Error() string {
	return fmt.Sprintf("unrecognized package format: %s has neither %s nor %s (entries: [%s])",
		e.Path, ZenContentEntry, LegacyContentEntry, strings.Join(e.Entries, ", "))
}

func (e *FormatUnrecognizedError) Is(target error) bool {
	return target == ErrFormatUnrecognized
}

// ParseFormat validates a user-supplied variant name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatZen, FormatLegacy:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: zen, legacy", s)
	}
}

// Detect opens the archive at path and reports its variant from entry
// names alone. content.json wins over content.xml when both exist.
func Detect(path string) (Format, error) {
	names, err := Names(path)
	if err != nil {
		return "", err
	}
	return DetectNames(path, names)
}

// DetectNames applies the detection rule to an already listed archive
func DetectNames(path string, names []string) (Format, error) {
	switch {
	case slices.Contains(names, ZenContentEntry):
		return FormatZen, nil
	case slices.Contains(names, LegacyContentEntry):
		return FormatLegacy, nil
	default:
		return "", &FormatUnrecognizedError{Path: path, Entries: names}
	}
}
