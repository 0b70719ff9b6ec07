// Package zen reads and writes the JSON-based mind map package: a ZIP
// archive whose content.json holds an array of sheets.
package zen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gerunddev/xmindtool/internal/archive"
	"github.com/gerunddev/xmindtool/internal/mindmap"
)

const (
	metadataEntry  = "metadata.json"
	creatorName    = "xmind-tool"
	creatorVersion = "1.0.0"
)

// Codec reads and writes zen packages on disk
type Codec struct {
	// NewID fills identifiers missing from the package. Defaults to mindmap.NewID.
	NewID mindmap.IDGenerator
}

// Decode reads the package at path
func (c Codec) Decode(path string) (*mindmap.Document, error) {
	data, err := archive.ReadEntry(path, archive.ZenContentEntry)
	if err != nil {
		return nil, err
	}
	doc, err := Unmarshal(data, c.newID())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode atomically writes doc to path as a zen package
func (c Codec) Encode(path string, doc *mindmap.Document) error {
	entries, err := Entries(doc)
	if err != nil {
		return err
	}
	return archive.WriteFile(path, entries)
}

func (c Codec) newID() mindmap.IDGenerator {
	if c.NewID != nil {
		return c.NewID
	}
	return mindmap.NewID
}

// Entries returns the archive entries of a zen package for doc
func Entries(doc *mindmap.Document) ([]archive.Entry, error) {
	content, err := Marshal(doc)
	if err != nil {
		return nil, err
	}
	meta, err := marshalIndent(metadata{Creator: creator{Name: creatorName, Version: creatorVersion}})
	if err != nil {
		return nil, err
	}
	return []archive.Entry{
		{Name: archive.ZenContentEntry, Data: content},
		{Name: metadataEntry, Data: meta},
	}, nil
}

// --- decode ---

// Unmarshal parses content.json. Fields of unexpected type fall back to
// their defaults; only a document that is not a JSON array of objects fails.
func Unmarshal(data []byte, newID mindmap.IDGenerator) (*mindmap.Document, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", archive.ErrMalformedPackage, archive.ZenContentEntry, err)
	}

	doc := &mindmap.Document{}
	for _, fields := range raw {
		sheet := &mindmap.Sheet{
			ID:    stringField(fields, "id", ""),
			Title: stringField(fields, "title", mindmap.DefaultSheetTitle),
		}
		if rt, ok := objectField(fields, "rootTopic"); ok {
			sheet.Root = decodeTopic(rt)
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}

	mindmap.EnsureIDs(doc, newID)
	return doc, nil
}

func decodeTopic(fields map[string]json.RawMessage) *mindmap.Topic {
	t := &mindmap.Topic{
		ID:     stringField(fields, "id", ""),
		Title:  stringField(fields, "title", ""),
		Notes:  decodeNotes(fields["notes"]),
		Labels: stringsField(fields, "labels"),
		Link:   stringField(fields, "href", ""),
	}

	for _, m := range objectsField(fields, "markers") {
		if id := stringField(m, "markerId", ""); id != "" {
			t.Markers = append(t.Markers, id)
		}
	}

	// Only attached children belong to the tree; detached (floating)
	// topics are dropped.
	if children, ok := objectField(fields, "children"); ok {
		for _, child := range objectsField(children, "attached") {
			t.Children = append(t.Children, decodeTopic(child))
		}
	}
	return t
}

// decodeNotes tries plain text first, then a rich-text op list given
// either as {ops:[...]} or {ops:{ops:[...]}}. Anything else is no notes.
func decodeNotes(raw json.RawMessage) string {
	var shape struct {
		Plain *struct {
			Content json.RawMessage `json:"content"`
		} `json:"plain"`
		Ops json.RawMessage `json:"ops"`
	}
	if len(raw) == 0 || json.Unmarshal(raw, &shape) != nil {
		return ""
	}

	if shape.Plain != nil {
		var s string
		if json.Unmarshal(shape.Plain.Content, &s) == nil {
			return s
		}
		return ""
	}

	if len(shape.Ops) == 0 {
		return ""
	}
	ops, ok := objects(shape.Ops)
	if !ok {
		var nested struct {
			Ops json.RawMessage `json:"ops"`
		}
		if json.Unmarshal(shape.Ops, &nested) != nil {
			return ""
		}
		if ops, ok = objects(nested.Ops); !ok {
			return ""
		}
	}

	var sb strings.Builder
	for _, op := range ops {
		sb.WriteString(stringField(op, "insert", ""))
	}
	return strings.TrimSpace(sb.String())
}

func stringField(fields map[string]json.RawMessage, key, def string) string {
	raw, ok := fields[key]
	if !ok {
		return def
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return def
	}
	return s
}

func stringsField(fields map[string]json.RawMessage, key string) []string {
	var items []json.RawMessage
	if raw, ok := fields[key]; !ok || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

// objectsField returns the object elements of an array field, skipping
// elements of any other type.
func objectsField(fields map[string]json.RawMessage, key string) []map[string]json.RawMessage {
	out, _ := objects(fields[key])
	return out
}

// objects decodes a JSON array and keeps its object elements. ok is
// false when raw is not an array at all.
func objects(raw json.RawMessage) (out []map[string]json.RawMessage, ok bool) {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil, false
	}
	for _, item := range items {
		var obj map[string]json.RawMessage
		if json.Unmarshal(item, &obj) == nil && obj != nil {
			out = append(out, obj)
		}
	}
	return out, true
}

func objectField(fields map[string]json.RawMessage, key string) (map[string]json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// --- encode ---

type sheetJSON struct {
	ID        string     `json:"id"`
	Class     string     `json:"class"`
	Title     string     `json:"title"`
	RootTopic *topicJSON `json:"rootTopic,omitempty"`
}

type topicJSON struct {
	ID       string        `json:"id"`
	Class    string        `json:"class"`
	Title    string        `json:"title"`
	Notes    *notesJSON    `json:"notes,omitempty"`
	Labels   []string      `json:"labels,omitempty"`
	Href     string        `json:"href,omitempty"`
	Markers  []markerJSON  `json:"markers,omitempty"`
	Children *childrenJSON `json:"children,omitempty"`
}

type notesJSON struct {
	Plain plainJSON `json:"plain"`
}

type plainJSON struct {
	Content string `json:"content"`
}

type markerJSON struct {
	MarkerID string `json:"markerId"`
}

type childrenJSON struct {
	Attached []*topicJSON `json:"attached"`
}

type metadata struct {
	Creator creator `json:"creator"`
}

type creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Marshal renders doc as pretty-printed content.json. Notes are always
// written in the plain-text shape.
func Marshal(doc *mindmap.Document) ([]byte, error) {
	sheets := make([]sheetJSON, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		sj := sheetJSON{ID: s.ID, Class: "sheet", Title: s.Title}
		if s.Root != nil {
			sj.RootTopic = encodeTopic(s.Root)
		}
		sheets = append(sheets, sj)
	}
	return marshalIndent(sheets)
}

func encodeTopic(t *mindmap.Topic) *topicJSON {
	tj := &topicJSON{
		ID:     t.ID,
		Class:  "topic",
		Title:  t.Title,
		Labels: t.Labels,
		Href:   t.Link,
	}
	if t.Notes != "" {
		tj.Notes = &notesJSON{Plain: plainJSON{Content: t.Notes}}
	}
	for _, m := range t.Markers {
		tj.Markers = append(tj.Markers, markerJSON{MarkerID: m})
	}
	if len(t.Children) > 0 {
		tj.Children = &childrenJSON{}
		for _, c := range t.Children {
			tj.Children.Attached = append(tj.Children.Attached, encodeTopic(c))
		}
	}
	return tj
}

// marshalIndent keeps non-ASCII and HTML characters literal
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to marshal json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
