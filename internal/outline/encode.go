// Package outline converts mind map documents to and from the editable
// plain-text outline: one block per sheet, a "## " heading for the root
// topic and a nested "- " bullet list for everything below it.
package outline

import (
	"strings"

	"github.com/gerunddev/xmindtool/internal/mindmap"
)

const (
	sheetPrefix     = "# Sheet:"
	rootPrefix      = "##"
	sheetSeparator  = "---"
	indentUnit      = "  "
	quotePrefix     = ">"
	labelsMetaKey   = "Labels:"
	linkMetaKey     = "Link:"
	markersMetaKey  = "Markers:"
	listSeparator   = ", "
	inlineSeparator = "  "
)

// Encode renders doc as outline text. Sheets are separated by a "---"
// line with a blank line on each side.
func Encode(doc *mindmap.Document) string {
	blocks := make([]string, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		blocks = append(blocks, encodeSheet(s))
	}
	return strings.Join(blocks, "\n"+sheetSeparator+"\n\n")
}

func encodeSheet(s *mindmap.Sheet) string {
	lines := []string{heading(sheetPrefix, s.Title)}

	if root := s.Root; root != nil {
		lines = append(lines, "", heading(rootPrefix, root.Title))
		lines = append(lines, rootMeta(root)...)

		if len(root.Children) > 0 {
			lines = append(lines, "")
			for _, c := range root.Children {
				lines = encodeItem(lines, c, 0)
			}
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// heading joins prefix and title with a space, leaving no trailing
// whitespace when title is empty.
func heading(prefix, title string) string {
	if title == "" {
		return prefix
	}
	return prefix + " " + title
}

// rootMeta renders the quoted block under the root heading
func rootMeta(t *mindmap.Topic) []string {
	var lines []string
	if len(t.Labels) > 0 {
		lines = append(lines, quote("", labelsMetaKey+" "+strings.Join(t.Labels, listSeparator)))
	}
	if t.Link != "" {
		lines = append(lines, quote("", linkMetaKey+" "+t.Link))
	}
	if len(t.Markers) > 0 {
		lines = append(lines, quote("", markersMetaKey+" "+strings.Join(t.Markers, listSeparator)))
	}
	return append(lines, noteLines("", t.Notes)...)
}

func encodeItem(lines []string, t *mindmap.Topic, depth int) []string {
	indent := strings.Repeat(indentUnit, depth)

	line := heading(indent+"-", t.Title)
	if tags := inlineTags(t); len(tags) > 0 {
		if t.Title == "" {
			line += " "
		}
		line += inlineSeparator + strings.Join(tags, inlineSeparator)
	}
	lines = append(lines, line)

	lines = append(lines, noteLines(indent+indentUnit, t.Notes)...)

	for _, c := range t.Children {
		lines = encodeItem(lines, c, depth+1)
	}
	return lines
}

func inlineTags(t *mindmap.Topic) []string {
	var tags []string
	if len(t.Labels) > 0 {
		tags = append(tags, tag(labelsTag, strings.Join(t.Labels, listSeparator)))
	}
	if t.Link != "" {
		tags = append(tags, tag(linkTag, t.Link))
	}
	if len(t.Markers) > 0 {
		tags = append(tags, tag(markersTag, strings.Join(t.Markers, listSeparator)))
	}
	return tags
}

func tag(key, value string) string {
	return "{" + key + ": " + value + "}"
}

// noteLines quotes every line of notes. Empty notes produce nothing.
func noteLines(indent, notes string) []string {
	if notes == "" {
		return nil
	}
	var lines []string
	for _, l := range strings.Split(notes, "\n") {
		lines = append(lines, quote(indent, l))
	}
	return lines
}

func quote(indent, text string) string {
	if text == "" {
		return indent + quotePrefix
	}
	return indent + quotePrefix + " " + text
}
