package mindmap

// Topic is a single node of a mind map
type Topic struct {
	ID       string
	Title    string
	Children []*Topic
	Notes    string
	Labels   []string
	Link     string
	Markers  []string
}

// Sheet is one page of a mind map document. Root may be nil.
type Sheet struct {
	ID    string
	Title string
	Root  *Topic
}

// Document is an ordered sequence of sheets
type Document struct {
	Sheets []*Sheet
}

// DefaultSheetTitle is used when a package or outline omits a sheet title
const DefaultSheetTitle = "Sheet 1"

// NewTopic creates a topic with a fresh identifier
func NewTopic(title string, newID IDGenerator) *Topic {
	return &Topic{ID: newID(), Title: title}
}

// NewSheet creates a sheet with a fresh identifier
func NewSheet(title string, newID IDGenerator) *Sheet {
	return &Sheet{ID: newID(), Title: title}
}

// HasMeta reports whether the topic carries labels, a link or markers
func (t *Topic) HasMeta() bool {
	return len(t.Labels) > 0 || t.Link != "" || len(t.Markers) > 0
}

// Walk visits every topic of the document depth-first, parents before
// children. Returning false from fn stops descending into that topic.
func (d *Document) Walk(fn func(sheet *Sheet, topic *Topic, depth int) bool) {
	for _, s := range d.Sheets {
		if s.Root != nil {
			walk(s, s.Root, 0, fn)
		}
	}
}

func walk(s *Sheet, t *Topic, depth int, fn func(*Sheet, *Topic, int) bool) {
	if !fn(s, t, depth) {
		return
	}
	for _, c := range t.Children {
		walk(s, c, depth+1, fn)
	}
}

// Stats returns the number of sheets and topics in the document
func (d *Document) Stats() (sheets, topics int) {
	d.Walk(func(*Sheet, *Topic, int) bool {
		topics++
		return true
	})
	return len(d.Sheets), topics
}
