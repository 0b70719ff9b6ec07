package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/xmindtool/internal/mindmap"
)

func sampleDoc() *mindmap.Document {
	return &mindmap.Document{Sheets: []*mindmap.Sheet{
		{ID: "s1", Title: "Plan", Root: &mindmap.Topic{
			ID:    "r",
			Title: "Root",
			Notes: "line 1\nline 2",
			Children: []*mindmap.Topic{
				{ID: "a", Title: "A & <b>", Labels: []string{"x"}, Link: "http://e.com", Markers: []string{"m"}},
			},
		}},
		{ID: "s2", Title: "Empty"},
	}}
}

type exported struct {
	Sheets []Sheet `yaml:"sheets" json:"sheets"`
}

func TestRenderYAML(t *testing.T) {
	data, err := Render(sampleDoc(), FormatYAML)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "sheets:\n"))
	assert.Contains(t, string(data), "id: s1")

	var got exported
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, Sheets(sampleDoc()), got.Sheets)
}

func TestRenderJSON(t *testing.T) {
	data, err := Render(sampleDoc(), FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), "A & <b>")

	var got exported
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Sheets(sampleDoc()), got.Sheets)
	assert.Nil(t, got.Sheets[1].Root)
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(sampleDoc(), Format("toml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"yaml": FormatYAML, "JSON": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
