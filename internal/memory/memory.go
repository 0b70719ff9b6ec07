// Package memory keeps the last outline text produced or consumed for a
// package, per session. It is advisory: conversions never read from it.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/gerunddev/xmindtool/internal/archive"
)

var (
	// ErrNotFound is returned when nothing was recorded for a package
	ErrNotFound = errors.New("no memory recorded")
	// ErrInvalidSession is returned for session ids that are empty or
	// would escape the memory directory.
	ErrInvalidSession = errors.New("invalid session id")
)

const (
	indexFile = "index.json"
	fileExt   = ".md"
)

// Store records outline text per (session, package)
type Store interface {
	Put(session, pkgPath, text string) (string, error)
	Get(session, pkgPath string) (string, error)
}

// Record is the index entry for one memory file
type Record struct {
	Package     string    `json:"package"`
	PackageHash string    `json:"package_hash"`
	TextHash    string    `json:"text_hash"`
	SavedAt     time.Time `json:"saved_at"`
}

// Index lists the records of one session, keyed by memory file name
type Index struct {
	Records map[string]*Record `json:"records"`
}

// FSStore keeps memory files under Dir/<session>/<package stem>.md
type FSStore struct {
	Dir string
}

// NewFSStore creates a store rooted at dir
func NewFSStore(dir string) *FSStore {
	return &FSStore{Dir: dir}
}

// Key returns the memory file path for a package
func (s *FSStore) Key(session, pkgPath string) (string, error) {
	dir, err := s.sessionDir(session)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName(pkgPath)), nil
}

// Put writes text as the memory of pkgPath and returns the memory file path
func (s *FSStore) Put(session, pkgPath, text string) (string, error) {
	path, err := s.Key(session, pkgPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create memory directory: %w", err)
	}
	if err := archive.WriteFileAtomic(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write memory file: %w", err)
	}

	pkgHash, err := ComputeHash(pkgPath)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	idx, err := s.loadIndex(session)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(pkgPath)
	if err != nil {
		abs = pkgPath
	}
	idx.Records[filepath.Base(path)] = &Record{
		Package:     abs,
		PackageHash: pkgHash,
		TextHash:    hashBytes([]byte(text)),
		SavedAt:     time.Now().UTC(),
	}
	if err := s.saveIndex(session, idx); err != nil {
		return "", err
	}

	return path, nil
}

// Get returns the recorded text for pkgPath
func (s *FSStore) Get(session, pkgPath string) (string, error) {
	path, err := s.Key(session, pkgPath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w for %s in session %s", ErrNotFound, filepath.Base(pkgPath), session)
		}
		return "", err
	}
	return string(data), nil
}

// Lookup returns the index record for pkgPath
func (s *FSStore) Lookup(session, pkgPath string) (*Record, error) {
	idx, err := s.loadIndex(session)
	if err != nil {
		return nil, err
	}
	rec, ok := idx.Records[fileName(pkgPath)]
	if !ok {
		return nil, fmt.Errorf("%w for %s in session %s", ErrNotFound, filepath.Base(pkgPath), session)
	}
	return rec, nil
}

// Stale reports whether the package changed on disk since its memory was
// recorded.
func (s *FSStore) Stale(session, pkgPath string) (bool, error) {
	rec, err := s.Lookup(session, pkgPath)
	if err != nil {
		return false, err
	}
	hash, err := ComputeHash(pkgPath)
	if err != nil {
		return false, err
	}
	return hash != rec.PackageHash, nil
}

func (s *FSStore) sessionDir(session string) (string, error) {
	if err := ValidateSession(session); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, session), nil
}

func (s *FSStore) loadIndex(session string) (*Index, error) {
	dir, err := s.sessionDir(session)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{Records: make(map[string]*Record)}, nil
		}
		return nil, err
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse memory index: %w", err)
	}
	if idx.Records == nil {
		idx.Records = make(map[string]*Record)
	}
	return &idx, nil
}

func (s *FSStore) saveIndex(session string, idx *Index) error {
	dir, err := s.sessionDir(session)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory index: %w", err)
	}

	if err := archive.WriteFileAtomic(filepath.Join(dir, indexFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write memory index: %w", err)
	}
	return nil
}

// ValidateSession rejects ids that cannot be used as a single directory name
func ValidateSession(session string) error {
	switch {
	case strings.TrimSpace(session) == "":
		return fmt.Errorf("%w: empty", ErrInvalidSession)
	case session == "." || strings.Contains(session, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidSession, session)
	case strings.ContainsAny(session, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidSession, session)
	}
	return nil
}

// fileName is the package base name with its extension replaced by .md
func fileName(pkgPath string) string {
	base := filepath.Base(pkgPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + fileExt
}

// ComputeHash computes the BLAKE3 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("blake3:%x", h.Sum(nil)), nil
}

func hashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return fmt.Sprintf("blake3:%x", sum[:])
}
