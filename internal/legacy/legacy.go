// Package legacy reads and writes the XML-based mind map package: a ZIP
// archive whose content.xml holds namespaced sheet and topic elements.
package legacy

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/gerunddev/xmindtool/internal/archive"
	"github.com/gerunddev/xmindtool/internal/mindmap"
)

// XML namespaces used by content.xml
const (
	ContentNS = "urn:xmind:xmap:xmlns:content:2.0"
	XLinkNS   = "http://www.w3.org/1999/xlink"
)

const manifestEntry = "META-INF/manifest.xml"

const manifest = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<manifest xmlns="urn:xmind:xmap:xmlns:manifest:1.0">
  <file-entry full-path="content.xml" media-type="text/xml"/>
  <file-entry full-path="META-INF/" media-type=""/>
  <file-entry full-path="META-INF/manifest.xml" media-type="text/xml"/>
</manifest>`

// attachedType is the only topics type whose children join the tree
const attachedType = "attached"

// Codec reads and writes legacy packages on disk
type Codec struct {
	// NewID fills identifiers missing from the package. Defaults to mindmap.NewID.
	NewID mindmap.IDGenerator
	// Now stamps written elements. Defaults to time.Now.
	Now func() time.Time
}

// Decode reads the package at path
func (c Codec) Decode(path string) (*mindmap.Document, error) {
	data, err := archive.ReadEntry(path, archive.LegacyContentEntry)
	if err != nil {
		return nil, err
	}
	doc, err := Unmarshal(data, c.newID())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Encode atomically writes doc to path as a legacy package
func (c Codec) Encode(path string, doc *mindmap.Document) error {
	entries, err := Entries(doc, c.now())
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

func (c Codec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Entries returns the archive entries of a legacy package for doc
func Entries(doc *mindmap.Document, now time.Time) ([]archive.Entry, error) {
	content, err := Marshal(doc, now)
	if err != nil {
		return nil, err
	}
	return []archive.Entry{
		{Name: archive.LegacyContentEntry, Data: content},
		{Name: manifestEntry, Data: []byte(manifest)},
	}, nil
}

// --- decode ---

// Unmarshal parses content.xml. Elements outside the content namespace
// are ignored.
func Unmarshal(data []byte, newID mindmap.IDGenerator) (*mindmap.Document, error) {
	xdoc := etree.NewDocument()
	if err := xdoc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", archive.ErrMalformedPackage, archive.LegacyContentEntry, err)
	}
	root := xdoc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: %s has no root element", archive.ErrMalformedPackage, archive.LegacyContentEntry)
	}

	doc := &mindmap.Document{}
	for _, se := range children(root, "sheet") {
		sheet := &mindmap.Sheet{
			ID:    se.SelectAttrValue("id", ""),
			Title: mindmap.DefaultSheetTitle,
		}
		if title := child(se, "title"); title != nil && title.Text() != "" {
			sheet.Title = title.Text()
		}
		if te := child(se, "topic"); te != nil {
			sheet.Root = decodeTopic(te)
		}
		doc.Sheets = append(doc.Sheets, sheet)
	}

	mindmap.EnsureIDs(doc, newID)
	return doc, nil
}

func decodeTopic(e *etree.Element) *mindmap.Topic {
	t := &mindmap.Topic{ID: e.SelectAttrValue("id", "")}
	if title := child(e, "title"); title != nil {
		t.Title = title.Text()
	}

	if notes := child(e, "notes"); notes != nil {
		if plain := child(notes, "plain"); plain != nil {
			t.Notes = plain.Text()
		}
	}

	if labels := child(e, "labels"); labels != nil {
		for _, l := range children(labels, "label") {
			if text := l.Text(); text != "" {
				t.Labels = append(t.Labels, text)
			}
		}
	}

	for i := range e.Attr {
		if a := &e.Attr[i]; a.Key == "href" && a.NamespaceURI() == XLinkNS {
			t.Link = a.Value
		}
	}

	if refs := child(e, "marker-refs"); refs != nil {
		for _, ref := range children(refs, "marker-ref") {
			if id := ref.SelectAttrValue("marker-id", ""); id != "" {
				t.Markers = append(t.Markers, id)
			}
		}
	}

	if ce := child(e, "children"); ce != nil {
		for _, topics := range children(ce, "topics") {
			if topics.SelectAttrValue("type", "") != attachedType {
				continue
			}
			for _, te := range children(topics, "topic") {
				t.Children = append(t.Children, decodeTopic(te))
			}
		}
	}
	return t
}

func isContent(e *etree.Element, tag string) bool {
	return e.Tag == tag && e.NamespaceURI() == ContentNS
}

func child(e *etree.Element, tag string) *etree.Element {
	for _, c := range e.ChildElements() {
		if isContent(c, tag) {
			return c
		}
	}
	return nil
}

func children(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if isContent(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

// --- encode ---

// Marshal renders doc as content.xml. Every sheet and topic is stamped
// with now in epoch milliseconds.
func Marshal(doc *mindmap.Document, now time.Time) ([]byte, error) {
	xdoc := etree.NewDocument()
	xdoc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="no"`)

	root := xdoc.CreateElement("xmap-content")
	root.CreateAttr("xmlns", ContentNS)
	root.CreateAttr("xmlns:xlink", XLinkNS)
	root.CreateAttr("version", "2.0")

	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	for _, s := range doc.Sheets {
		se := root.CreateElement("sheet")
		se.CreateAttr("id", s.ID)
		se.CreateAttr("timestamp", stamp)
		if s.Root != nil {
			encodeTopic(se, s.Root, stamp)
		}
		se.CreateElement("title").SetText(s.Title)
	}

	data, err := xdoc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", archive.LegacyContentEntry, err)
	}
	return data, nil
}

func encodeTopic(parent *etree.Element, t *mindmap.Topic, stamp string) {
	e := parent.CreateElement("topic")
	e.CreateAttr("id", t.ID)
	e.CreateAttr("timestamp", stamp)

	e.CreateElement("title").SetText(t.Title)

	if t.Notes != "" {
		e.CreateElement("notes").CreateElement("plain").SetText(t.Notes)
	}

	if len(t.Labels) > 0 {
		labels := e.CreateElement("labels")
		for _, l := range t.Labels {
			labels.CreateElement("label").SetText(l)
		}
	}

	if t.Link != "" {
		e.CreateAttr("xlink:href", t.Link)
	}

	if len(t.Markers) > 0 {
		refs := e.CreateElement("marker-refs")
		for _, m := range t.Markers {
			refs.CreateElement("marker-ref").CreateAttr("marker-id", m)
		}
	}

	if len(t.Children) > 0 {
		topics := e.CreateElement("children").CreateElement("topics")
		topics.CreateAttr("type", attachedType)
		for _, c := range t.Children {
			encodeTopic(topics, c, stamp)
		}
	}
}
