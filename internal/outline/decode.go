package outline

import (
	"regexp"
	"strings"

	"github.com/gerunddev/xmindtool/internal/mindmap"
)

const (
	labelsTag  = "labels"
	linkTag    = "link"
	markersTag = "markers"
)

// Inline tags are matched in this order; the first occurrence of each wins.
var tagPatterns = []struct {
	key string
	re  *regexp.Regexp
}{
	{labelsTag, regexp.MustCompile(`\{` + labelsTag + `:\s*([^}]+)\}`)},
	{linkTag, regexp.MustCompile(`\{` + linkTag + `:\s*([^}]+)\}`)},
	{markersTag, regexp.MustCompile(`\{` + markersTag + `:\s*([^}]+)\}`)},
}

// Decode parses outline text into a document. Every sheet and topic gets
// a fresh identifier from newID. Blocks with neither a root heading nor
// any body lines are skipped, so the result may hold zero sheets.
func Decode(text string, newID mindmap.IDGenerator) *mindmap.Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	doc := &mindmap.Document{}
	for _, block := range splitBlocks(strings.Split(text, "\n")) {
		if s := decodeSheet(block, newID); s != nil {
			doc.Sheets = append(doc.Sheets, s)
		}
	}
	return doc
}

// splitBlocks cuts lines at every standalone separator line
func splitBlocks(lines []string) [][]string {
	var blocks [][]string
	start := 0
	for i, l := range lines {
		if strings.TrimRight(l, " \t") == sheetSeparator {
			blocks = append(blocks, lines[start:i])
			start = i + 1
		}
	}
	return append(blocks, lines[start:])
}

type phase int

const (
	phaseInit phase = iota
	phaseAfterSheet
	phaseRootMeta
	phaseBody
)

func decodeSheet(lines []string, newID mindmap.IDGenerator) *mindmap.Sheet {
	var (
		sheetTitle = mindmap.DefaultSheetTitle
		rootTitle  string
		hasRoot    bool
		meta       []string
		body       []string
		state      = phaseInit
	)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if state == phaseBody {
				body = append(body, line)
			}
			continue
		}

		switch {
		case state == phaseInit && strings.HasPrefix(trimmed, sheetPrefix):
			sheetTitle = strings.TrimSpace(trimmed[len(sheetPrefix):])
			state = phaseAfterSheet
			continue
		case (state == phaseInit || state == phaseAfterSheet) && isRootHeading(trimmed):
			rootTitle = strings.TrimSpace(trimmed[len(rootPrefix):])
			hasRoot = true
			state = phaseRootMeta
			continue
		case state == phaseRootMeta && strings.HasPrefix(trimmed, quotePrefix):
			meta = append(meta, unquote(trimmed))
			continue
		}

		state = phaseBody
		body = append(body, line)
	}

	if !hasRoot && !hasContent(body) {
		return nil
	}

	sheet := mindmap.NewSheet(sheetTitle, newID)
	sheet.Root = mindmap.NewTopic(rootTitle, newID)
	applyRootMeta(sheet.Root, meta)
	sheet.Root.Children = parseItems(body, newID)
	return sheet
}

func isRootHeading(trimmed string) bool {
	return trimmed == rootPrefix || strings.HasPrefix(trimmed, rootPrefix+" ")
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

// applyRootMeta reads the quoted lines under the root heading. Lines
// with a known key set that field; the rest become notes.
func applyRootMeta(t *mindmap.Topic, meta []string) {
	var notes []string
	for _, text := range meta {
		switch {
		case strings.HasPrefix(text, labelsMetaKey):
			t.Labels = splitList(text[len(labelsMetaKey):])
		case strings.HasPrefix(text, linkMetaKey):
			t.Link = strings.TrimSpace(text[len(linkMetaKey):])
		case strings.HasPrefix(text, markersMetaKey):
			t.Markers = splitList(text[len(markersMetaKey):])
		default:
			notes = append(notes, text)
		}
	}
	if len(notes) > 0 {
		t.Notes = strings.Join(notes, "\n")
	}
}

// parseItems builds the topics of one nesting level. An item owns the
// lines after it that are indented deeper than itself. Quoted lines
// exactly one level deeper are its notes, but only until its first
// child bullet; after that they belong to the children.
func parseItems(lines []string, newID mindmap.IDGenerator) []*mindmap.Topic {
	var items []*mindmap.Topic

	for i := 0; i < len(lines); {
		indent, raw, ok := itemLine(lines[i])
		i++
		if !ok {
			continue
		}

		topic := parseTitle(raw, newID)
		var childLines, notes []string

	scan:
		for ; i < len(lines); i++ {
			line := lines[i]
			if strings.TrimSpace(line) == "" {
				continue
			}

			if next, _, ok := itemLine(line); ok {
				if next > indent {
					childLines = append(childLines, line)
					continue
				}
				break scan
			}

			if next, text, ok := quoteLine(line); ok {
				switch {
				case len(childLines) == 0 && next == indent+len(indentUnit):
					notes = append(notes, text)
				case next > indent:
					childLines = append(childLines, line)
				default:
					break scan
				}
				continue
			}

			if strings.HasPrefix(line, strings.Repeat(" ", indent+len(indentUnit))) {
				childLines = append(childLines, line)
				continue
			}
			break scan
		}

		if len(notes) > 0 {
			topic.Notes = strings.Join(notes, "\n")
		}
		if len(childLines) > 0 {
			topic.Children = parseItems(childLines, newID)
		}
		items = append(items, topic)
	}

	return items
}

// itemLine matches "<indent>- <title>". A bare "-" is an item with an
// empty title.
func itemLine(line string) (indent int, raw string, ok bool) {
	indent = leadingSpace(line)
	rest := line[indent:]
	switch {
	case rest == "-":
		return indent, "", true
	case strings.HasPrefix(rest, "- "):
		return indent, rest[2:], true
	}
	return 0, "", false
}

// quoteLine matches "<indent>> <text>" and "<indent>>"
func quoteLine(line string) (indent int, text string, ok bool) {
	indent = leadingSpace(line)
	rest := line[indent:]
	if !strings.HasPrefix(rest, quotePrefix) {
		return 0, "", false
	}
	return indent, unquote(rest), true
}

// unquote drops the quote marker and at most one following space
func unquote(s string) string {
	s = strings.TrimPrefix(s, quotePrefix)
	return strings.TrimPrefix(s, " ")
}

func leadingSpace(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// parseTitle extracts inline {labels: ...}, {link: ...} and
// {markers: ...} tags from an item line; what remains is the title.
func parseTitle(raw string, newID mindmap.IDGenerator) *mindmap.Topic {
	topic := mindmap.NewTopic("", newID)
	remaining := raw

	for _, p := range tagPatterns {
		loc := p.re.FindStringSubmatchIndex(remaining)
		if loc == nil {
			continue
		}
		value := strings.TrimSpace(remaining[loc[2]:loc[3]])
		switch p.key {
		case labelsTag:
			topic.Labels = splitList(value)
		case linkTag:
			topic.Link = value
		case markersTag:
			topic.Markers = splitList(value)
		}
		remaining = remaining[:loc[0]] + remaining[loc[1]:]
	}

	topic.Title = strings.TrimSpace(remaining)
	return topic
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
