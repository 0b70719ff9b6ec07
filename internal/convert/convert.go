// Package convert runs the package <-> outline pipelines: detect the
// package variant, decode it, and write outline edits back in the same
// variant.
package convert

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gerunddev/xmindtool/internal/archive"
	"github.com/gerunddev/xmindtool/internal/legacy"
	"github.com/gerunddev/xmindtool/internal/logger"
	"github.com/gerunddev/xmindtool/internal/mindmap"
	"github.com/gerunddev/xmindtool/internal/outline"
	"github.com/gerunddev/xmindtool/internal/zen"
)

var (
	// ErrFileNotFound is returned when a package or text file is missing.
	// It matches os.ErrNotExist.
	ErrFileNotFound = fmt.Errorf("file not found: %w", os.ErrNotExist)
	// ErrNoSheetsParsed is returned when outline text yields no sheets
	ErrNoSheetsParsed = errors.New("no sheets parsed from text")
)

// Codec reads and writes one package variant
type Codec interface {
	Decode(path string) (*mindmap.Document, error)
	Encode(path string, doc *mindmap.Document) error
}

// Converter connects the package codecs with the outline codec
type Converter struct {
	codecs map[archive.Format]Codec
	newID  mindmap.IDGenerator
	logger *logger.Logger
}

// NewConverter creates a converter with the zen and legacy codecs
func NewConverter() *Converter {
	return &Converter{
		codecs: map[archive.Format]Codec{
			archive.FormatZen:    zen.Codec{},
			archive.FormatLegacy: legacy.Codec{},
		},
		newID:  mindmap.NewID,
		logger: logger.Discard(),
	}
}

// SetLogger sets the logger for the converter
func (c *Converter) SetLogger(l *logger.Logger) {
	c.logger = l
}

// SetIDGenerator sets the generator used for topics parsed from text
func (c *Converter) SetIDGenerator(gen mindmap.IDGenerator) {
	c.newID = gen
}

// Register installs codec for format, replacing any existing one
func (c *Converter) Register(format archive.Format, codec Codec) {
	c.codecs[format] = codec
}

func (c *Converter) codec(format archive.Format) (Codec, error) {
	codec, ok := c.codecs[format]
	if !ok {
		return nil, fmt.Errorf("no codec for format %q", format)
	}
	return codec, nil
}

// Load detects the variant of the package at path and decodes it
func (c *Converter) Load(path string) (*mindmap.Document, archive.Format, error) {
	format, err := archive.Detect(path)
	if err != nil {
		return nil, "", notFound(path, err)
	}
	c.logger.PackageDetected(path, string(format))

	codec, err := c.codec(format)
	if err != nil {
		return nil, "", err
	}
	doc, err := codec.Decode(path)
	if err != nil {
		return nil, "", notFound(path, err)
	}

	sheets, topics := doc.Stats()
	c.logger.PackageDecoded(path, sheets, topics)
	return doc, format, nil
}

// Parse renders the package at path as outline text
func (c *Converter) Parse(path string) (string, archive.Format, error) {
	doc, format, err := c.Load(path)
	if err != nil {
		return "", "", err
	}
	return outline.Encode(doc), format, nil
}

// ReadOutline parses the outline text file at path. Text that yields no
// sheets is an error here.
func (c *Converter) ReadOutline(path string) (*mindmap.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(path, err)
	}

	doc := outline.Decode(string(data), c.newID)
	c.logger.OutlineParsed(path, len(doc.Sheets))
	if len(doc.Sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSheetsParsed, path)
	}
	return doc, nil
}

// Create writes a new package of the given variant from an outline file
func (c *Converter) Create(outPath, textPath string, format archive.Format) (*Result, error) {
	start := time.Now()

	codec, err := c.codec(format)
	if err != nil {
		return nil, err
	}

	doc, err := c.ReadOutline(textPath)
	if err != nil {
		return nil, err
	}

	if err := codec.Encode(outPath, doc); err != nil {
		c.logger.ConversionError(textPath, outPath, err)
		return nil, err
	}
	c.logger.PackageWritten(outPath, string(format))

	return newResult(outPath, format, doc, start), nil
}

// Update rewrites the package at pkgPath from the outline at textPath,
// keeping the package's current variant. The package is only written
// once the text has been parsed in full.
func (c *Converter) Update(pkgPath, textPath string) (*Result, error) {
	start := time.Now()

	format, err := archive.Detect(pkgPath)
	if err != nil {
		return nil, notFound(pkgPath, err)
	}
	c.logger.PackageDetected(pkgPath, string(format))

	codec, err := c.codec(format)
	if err != nil {
		return nil, err
	}

	doc, err := c.ReadOutline(textPath)
	if err != nil {
		return nil, err
	}

	if err := codec.Encode(pkgPath, doc); err != nil {
		c.logger.ConversionError(textPath, pkgPath, err)
		return nil, err
	}
	c.logger.PackageWritten(pkgPath, string(format))

	return newResult(pkgPath, format, doc, start), nil
}

// Preview is what an update would change, without writing anything
type Preview struct {
	Format   archive.Format
	Current  string // outline of the package as it is
	Proposed string // outline of the package after the update
	Sheets   int
}

// Changed reports whether the update would alter the package content
func (p *Preview) Changed() bool {
	return p.Current != p.Proposed
}

// Preview computes the outline before and after updating pkgPath from textPath
func (c *Converter) Preview(pkgPath, textPath string) (*Preview, error) {
	current, format, err := c.Parse(pkgPath)
	if err != nil {
		return nil, err
	}

	doc, err := c.ReadOutline(textPath)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Format:   format,
		Current:  current,
		Proposed: outline.Encode(doc),
		Sheets:   len(doc.Sheets),
	}, nil
}

// notFound maps missing files to ErrFileNotFound
func notFound(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrFileNotFound) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return err
}
