package diff

import (
	"strings"
	"testing"
)

func TestUnified(t *testing.T) {
	oldText := "# Sheet: S\n\n## Root\n\n- A\n- B\n"
	newText := "# Sheet: S\n\n## Root\n\n- A\n- C\n"

	got := Unified("map.xmind", "edited.md", oldText, newText)
	for _, want := range []string{"--- map.xmind", "+++ edited.md", "-- B", "+- C"} {
		if !strings.Contains(got, want) {
			t.Errorf("diff missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "-- A") {
		t.Errorf("unchanged line reported as removed:\n%s", got)
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		oldText string
		newText string
		format  Format
		empty   bool
		wantErr bool
	}{
		{name: "equal texts", oldText: "- a\n", newText: "- a\n", format: FormatPlain, empty: true},
		{name: "equal texts rendered", oldText: "- a\n", newText: "- a\n", format: FormatRendered, empty: true},
		{name: "plain", oldText: "- a\n", newText: "- b\n", format: FormatPlain},
		{name: "rendered", oldText: "- a\n", newText: "- b\n", format: FormatRendered},
		{name: "unknown format", oldText: "- a\n", newText: "- b\n", format: Format(9), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate("old", "new", tt.oldText, tt.newText, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Generate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == "") != tt.empty {
				t.Errorf("Generate() = %q, empty want %v", got, tt.empty)
			}
		})
	}
}
