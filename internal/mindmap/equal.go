package mindmap

import "reflect"

// Normalize returns a deep copy of d with identifiers cleared and empty
// slices set to nil, so two documents with the same content compare equal.
func Normalize(d *Document) *Document {
	if d == nil {
		return nil
	}
	out := &Document{}
	for _, s := range d.Sheets {
		out.Sheets = append(out.Sheets, &Sheet{
			Title: s.Title,
			Root:  normalizeTopic(s.Root),
		})
	}
	return out
}

func normalizeTopic(t *Topic) *Topic {
	if t == nil {
		return nil
	}
	out := &Topic{
		Title:   t.Title,
		Notes:   t.Notes,
		Link:    t.Link,
		Labels:  nilIfEmpty(t.Labels),
		Markers: nilIfEmpty(t.Markers),
	}
	for _, c := range t.Children {
		out.Children = append(out.Children, normalizeTopic(c))
	}
	return out
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

// EqualContent reports whether a and b hold the same tree, ignoring identifiers
func EqualContent(a, b *Document) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}
