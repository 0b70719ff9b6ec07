// Package export renders a mind map document as structured data.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/xmindtool/internal/mindmap"
)

// Format names a structured output
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied export format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q: must be one of: yaml, json", s)
}

// Sheet is the exported shape of a sheet
type Sheet struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Root  *Topic `yaml:"root,omitempty" json:"root,omitempty"`
}

// Topic is the exported shape of a topic
type Topic struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Notes    string   `yaml:"notes,omitempty" json:"notes,omitempty"`
	Labels   []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Link     string   `yaml:"link,omitempty" json:"link,omitempty"`
	Markers  []string `yaml:"markers,omitempty" json:"markers,omitempty"`
	Children []*Topic `yaml:"children,omitempty" json:"children,omitempty"`
}

// Sheets converts doc to its exported shape
func Sheets(doc *mindmap.Document) []Sheet {
	out := make([]Sheet, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		out = append(out, Sheet{ID: s.ID, Title: s.Title, Root: topic(s.Root)})
	}
	return out
}

func topic(t *mindmap.Topic) *Topic {
	if t == nil {
		return nil
	}
	out := &Topic{
		ID:      t.ID,
		Title:   t.Title,
		Notes:   t.Notes,
		Labels:  t.Labels,
		Link:    t.Link,
		Markers: t.Markers,
	}
	for _, c := range t.Children {
		out.Children = append(out.Children, topic(c))
	}
	return out
}

// Render encodes doc in the given format
func Render(doc *mindmap.Document, format Format) ([]byte, error) {
	sheets := Sheets(doc)
	var buf bytes.Buffer

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"sheets": sheets}); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"sheets": sheets}); err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	return buf.Bytes(), nil
}
