package convert

import (
	"fmt"
	"time"

	"github.com/gerunddev/xmindtool/internal/archive"
	"github.com/gerunddev/xmindtool/internal/mindmap"
)

// Result describes a package written by Create or Update
type Result struct {
	Path      string
	Format    archive.Format
	Sheets    int
	Topics    int
	StartTime time.Time
	EndTime   time.Time
}

func newResult(path string, format archive.Format, doc *mindmap.Document, start time.Time) *Result {
	sheets, topics := doc.Stats()
	return &Result{
		Path:      path,
		Format:    format,
		Sheets:    sheets,
		Topics:    topics,
		StartTime: start,
		EndTime:   time.Now(),
	}
}

// String returns a human-readable summary of the result
func (r *Result) String() string {
	return fmt.Sprintf(
		"%s (%s): %d sheets, %d topics (took %v)",
		r.Path,
		r.Format,
		r.Sheets,
		r.Topics,
		r.EndTime.Sub(r.StartTime).Round(time.Millisecond),
	)
}
