package mindmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Document {
	root := &Topic{ID: "r", Title: "Root", Notes: "root note"}
	a := &Topic{ID: "a", Title: "A", Labels: []string{"x"}}
	b := &Topic{ID: "b", Title: "B", Link: "http://example.com"}
	a.Children = []*Topic{{ID: "a1", Title: "A1", Markers: []string{"priority-1"}}}
	root.Children = []*Topic{a, b}
	return &Document{Sheets: []*Sheet{{ID: "s", Title: "S", Root: root}}}
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, idLength)
	assert.NotEqual(t, id, NewID())
}

func TestSequential(t *testing.T) {
	gen := Sequential("t")
	assert.Equal(t, "t-1", gen())
	assert.Equal(t, "t-2", gen())
}

func TestWalkOrder(t *testing.T) {
	var titles []string
	var depths []int
	sample().Walk(func(_ *Sheet, topic *Topic, depth int) bool {
		titles = append(titles, topic.Title)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"Root", "A", "A1", "B"}, titles)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestStats(t *testing.T) {
	d := sample()
	d.Sheets = append(d.Sheets, &Sheet{ID: "empty", Title: "Shell"})

	sheets, topics := d.Stats()
	assert.Equal(t, 2, sheets)
	assert.Equal(t, 4, topics)
}

func TestEnsureIDs(t *testing.T) {
	d := sample()
	d.Sheets[0].Root.Children[1].ID = "a" // collides with sibling
	d.Sheets[0].Root.Children[0].Children[0].ID = ""

	EnsureIDs(d, Sequential("gen"))

	seen := map[string]bool{d.Sheets[0].ID: true}
	d.Walk(func(_ *Sheet, topic *Topic, _ int) bool {
		require.NotEmpty(t, topic.ID)
		assert.False(t, seen[topic.ID], "duplicate id %q", topic.ID)
		seen[topic.ID] = true
		return true
	})
	assert.Equal(t, "a", d.Sheets[0].Root.Children[0].ID, "first holder keeps its id")
}

func TestEqualContentIgnoresIDs(t *testing.T) {
	a := sample()
	b := sample()
	b.Walk(func(_ *Sheet, topic *Topic, _ int) bool {
		topic.ID = "other-" + topic.ID
		return true
	})
	b.Sheets[0].ID = "other"
	b.Sheets[0].Root.Labels = []string{}

	assert.True(t, EqualContent(a, b))

	b.Sheets[0].Root.Children[0].Title = "changed"
	assert.False(t, EqualContent(a, b))
}
