// Package diff compares two versions of outline text.
package diff

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatRendered renders the diff for a terminal (default)
	FormatRendered Format = iota
	// FormatPlain returns the raw unified diff
	FormatPlain
)

// Unified returns a unified diff from oldText to newText. The result is
// empty when the texts are equal.
func Unified(oldName, newName, oldText, newText string) string {
	if oldText == newText {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(oldName), oldText, newText)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, oldText, edits))
}

// Generate diffs the two texts and formats the result. Equal texts
// produce an empty string in every format.
func Generate(oldName, newName, oldText, newText string, format Format) (string, error) {
	unified := Unified(oldName, newName, oldText, newText)
	if unified == "" {
		return "", nil
	}

	switch format {
	case FormatPlain:
		return unified, nil
	case FormatRendered:
		return render(unified), nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}
}

// render wraps the diff in a markdown code fence and renders it with
// Glamour, falling back to the fenced text.
func render(unified string) string {
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fenced
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		return fenced
	}
	return rendered
}
