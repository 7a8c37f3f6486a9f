package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/remotelayout/pkg/format"
	"github.com/matzehuels/remotelayout/pkg/model"
)

var (
	// ErrMissingRemote is returned when a document has no "remote" element.
	ErrMissingRemote = errors.New("document has no remote")

	// ErrDuplicateUUID is returned when two elements share a UUID.
	ErrDuplicateUUID = errors.New("duplicate element uuid")

	// ErrUnknownUUID is returned when a constraint index refers to a UUID
	// outside the owner's subtree.
	ErrUnknownUUID = errors.New("index refers to unknown uuid")
)

// ReadJSON decodes a JSON layout document from r.
//
// The input must be a JSON object with a "remote" element; see the package
// documentation for the element fields. Kinds omitted from the document are
// inferred from depth: the root is a remote, its children button groups and
// their children buttons.
//
// ReadJSON returns an error if:
//   - The JSON is malformed or invalid
//   - An element is missing its uuid or reuses one
//   - A kind is unknown or not permitted under its parent
//   - A constraint does not parse, names an item not in its index, or
//     refers to an element outside its owner's subtree
//
// Errors are wrapped with context describing which element caused the
// problem. Use errors.Is or errors.As to check for specific model errors.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*model.Layout, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if data.Remote == nil {
		return nil, ErrMissingRemote
	}

	byUUID := map[string]*model.Element{}
	owners := map[*model.Element]*constraints{}

	var build func(src *element, parent *model.Element) (*model.Element, error)
	build = func(src *element, parent *model.Element) (*model.Element, error) {
		if src.UUID == "" {
			return nil, fmt.Errorf("element %q: missing uuid", src.Name)
		}
		if _, ok := byUUID[src.UUID]; ok {
			return nil, fmt.Errorf("element %s: %w", src.UUID, ErrDuplicateUUID)
		}

		kind := model.KindRemote
		if parent != nil {
			child, ok := parent.Kind.ChildKind()
			if !ok {
				return nil, fmt.Errorf("element %s: %w: %s has no children", src.UUID, model.ErrInvalidChild, parent.Kind)
			}
			kind = child
		}
		if src.Kind != nil {
			kind = *src.Kind
		}

		e := &model.Element{
			UUID: src.UUID, Name: src.Name, Kind: kind, Tag: src.Tag, Key: src.Key,
			Role: src.Role, Shape: src.Shape, Style: src.Style,
		}
		if parent == nil && kind != model.KindRemote {
			return nil, fmt.Errorf("element %s: root must be a remote, got %s", src.UUID, kind)
		}
		if parent != nil {
			if err := parent.AddChild(e); err != nil {
				return nil, fmt.Errorf("element %s: %w", src.UUID, err)
			}
		}
		byUUID[e.UUID] = e
		if src.Constraints != nil {
			owners[e] = src.Constraints
		}
		for _, sub := range src.Subelements {
			if _, err := build(sub, e); err != nil {
				return nil, err
			}
		}
		return e, nil
	}

	root, err := build(data.Remote, nil)
	if err != nil {
		return nil, err
	}
	l := &model.Layout{ID: data.ID, Name: data.Name, Root: root}

	for _, owner := range l.Elements() {
		cs, ok := owners[owner]
		if !ok {
			continue
		}
		if err := importConstraints(owner, cs, byUUID); err != nil {
			return nil, fmt.Errorf("constraints of %s: %w", owner, err)
		}
	}
	return l, nil
}

func importConstraints(owner *model.Element, cs *constraints, byUUID map[string]*model.Element) error {
	dir := format.Directory{}
	for _, e := range owner.Subtree() {
		dir[e.Identifier()] = e
	}
	for name, id := range cs.Index {
		e, ok := byUUID[id]
		if !ok || !owner.Contains(e) {
			return fmt.Errorf("%w: %s = %s", ErrUnknownUUID, name, id)
		}
		dir[name] = e
	}

	pseudo, err := format.ParseLines(cs.Format)
	if err != nil {
		return err
	}
	bound, err := format.BindAll(pseudo, dir)
	if err != nil {
		return err
	}
	for _, c := range bound {
		if err := owner.AddConstraint(c); err != nil {
			return fmt.Errorf("add %s: %w", c, err)
		}
	}
	return nil
}

// ImportJSON reads a JSON file at path and returns the decoded layout.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. If the file cannot be opened, or if decoding fails, ImportJSON
// returns an error describing the failure. The error wraps the underlying
// cause with the file path for context.
func ImportJSON(path string) (*model.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Marshal encodes a layout to JSON bytes.
func Marshal(l *model.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a layout from JSON bytes.
func Unmarshal(data []byte) (*model.Layout, error) {
	return ReadJSON(bytes.NewReader(data))
}
