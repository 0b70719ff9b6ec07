// Package archive reads and writes the ZIP containers that carry mind map
// packages, and decides which package variant a container holds.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
)

// ErrMalformedPackage is returned when a file is not a readable ZIP
// archive, lacks a required entry, or an entry cannot be parsed.
var ErrMalformedPackage = errors.New("malformed package")

// Entry is a named file inside an archive
type Entry struct {
	Name string
	Data []byte
}

// Names lists the entry names of the archive at path in archive order
func Names(path string) ([]string, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// ReadEntry returns the uncompressed content of the named entry
func ReadEntry(path, name string) ([]byte, error) {
	r, err := open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s in %s: %v", ErrMalformedPackage, name, path, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s in %s: %v", ErrMalformedPackage, name, path, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s has no %s entry", ErrMalformedPackage, path, name)
}

// open keeps os.ErrNotExist visible to callers and reports everything
// else as a malformed package.
func open(path string) (*zip.ReadCloser, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPackage, path, err)
	}
	return r, nil
}

// Build writes entries as a deflate-compressed ZIP archive to w
func Build(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	now := time.Now()
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Name, err)
		}
	}
	return zw.Close()
}

// WriteFile builds the archive in memory and atomically replaces path
// with it. An existing file keeps its permissions.
func WriteFile(path string, entries []Entry) error {
	var buf bytes.Buffer
	if err := Build(&buf, entries); err != nil {
		return err
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return writeFileAtomic(path, buf.Bytes(), perm)
}
