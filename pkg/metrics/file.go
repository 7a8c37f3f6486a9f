package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// Format is the encoding of a metrics document.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension, defaulting to JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	}
	return FormatJSON
}

// Document is the on-disk form of a snapshot. Keys of Boxes may be element
// UUIDs, identifiers or names; [Document.Resolve] maps them onto a layout.
//
//	[boxes.remote]
//	x = 0
//	y = 0
//	width = 320
//	height = 640
type Document struct {
	Boxes map[string]geom.Box `json:"boxes" toml:"boxes"`
}

// Decode reads a document in the given format.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	switch f {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return doc, fmt.Errorf("decode toml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return doc, fmt.Errorf("decode json: %w", err)
		}
	}
	return doc, nil
}

// Encode writes a document in the given format.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Resolve maps the document's keys onto elements of l and returns a
// snapshot keyed by UUID.
func (d Document) Resolve(l *model.Layout) (Snapshot, error) {
	s := make(Snapshot, len(d.Boxes))
	for ref, b := range d.Boxes {
		e, err := l.Element(ref)
		if err != nil {
			return nil, fmt.Errorf("metrics key %q: %w", ref, err)
		}
		s[e.UUID] = b
	}
	return s, nil
}

// NewDocument returns a document for s keyed by element name where the name
// is unique in l, and by UUID otherwise.
func NewDocument(l *model.Layout, s Snapshot) Document {
	names := make(map[string]int)
	for _, e := range l.Elements() {
		if e.Name != "" {
			names[e.Name]++
		}
	}
	doc := Document{Boxes: make(map[string]geom.Box, len(s))}
	for _, e := range l.Elements() {
		b, ok := s[e.UUID]
		if !ok {
			continue
		}
		key := e.UUID
		if e.Name != "" && names[e.Name] == 1 {
			key = e.Name
		}
		doc.Boxes[key] = b
	}
	return doc
}

// File is a provider that reads a metrics document from disk on every call.
type File struct {
	Path string
}

// Metrics loads and resolves the document at f.Path.
func (f File) Metrics(_ context.Context, l *model.Layout) (Snapshot, error) {
	return Load(f.Path, l)
}

var _ Provider = File{}

// Load reads the metrics document at path and resolves it against l.
func Load(path string, l *model.Layout) (Snapshot, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metrics: %w", err)
	}
	defer fh.Close()
	doc, err := Decode(fh, FormatFor(path))
	if err != nil {
		return nil, err
	}
	return doc.Resolve(l)
}

// Save writes s to path as a document keyed by element names.
func Save(path string, l *model.Layout, s Snapshot) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}
	if err := Encode(fh, NewDocument(l, s), FormatFor(path)); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
