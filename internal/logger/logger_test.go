package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.WarnLevel)

	l.PackageDecoded("a.xmind", 1, 3)
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}

	l.ConversionError("a.md", "a.xmind", errors.New("boom"))
	out := buf.String()
	for _, want := range []string{"conversion failed", "a.md", "a.xmind", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestDebugHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.PackageDetected("m.xmind", "legacy")
	l.OutlineParsed("m.md", 2)
	l.MemorySaved("s1", "m.xmind", "/tmp/s1/m.md")
	l.WatchEvent("m.md", "WRITE")

	out := buf.String()
	for _, want := range []string{"package detected", "format=legacy", "sheets=2", "session=s1", "op=WRITE"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{in: "", want: log.WarnLevel},
		{in: "debug", want: log.DebugLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFileLogger(t *testing.T) {
	path := t.TempDir() + "/tool.log"
	l, cleanup, err := NewFileLogger(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.PackageWritten("out.xmind", "zen")
	cleanup()

	if _, _, err := NewFileLogger(t.TempDir()+"/missing/dir/x.log", log.InfoLevel); err == nil {
		t.Error("expected error for missing directory")
	}
}
