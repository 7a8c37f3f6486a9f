package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/matzehuels/remotelayout/pkg/format"
	"github.com/matzehuels/remotelayout/pkg/model"
)

type document struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Remote *element `json:"remote"`
}

type element struct {
	UUID        string       `json:"uuid"`
	Name        string       `json:"name,omitempty"`
	Kind        *model.Kind  `json:"kind,omitempty"`
	Tag         int          `json:"tag,omitempty"`
	Key         string       `json:"key,omitempty"`
	Role        string       `json:"role,omitempty"`
	Shape       string       `json:"shape,omitempty"`
	Style       string       `json:"style,omitempty"`
	Subelements []*element   `json:"subelements,omitempty"`
	Constraints *constraints `json:"constraints,omitempty"`
}

type constraints struct {
	Index  map[string]string `json:"index,omitempty"`
	Format formatList        `json:"format"`
}

// formatList decodes from a single string or an array of strings.
type formatList []string

func (f *formatList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*f = formatList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*f = many
	return nil
}

// WriteJSON encodes a layout as JSON and writes it to w.
// The output includes every element and the constraints each one owns.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(l *model.Layout, w io.Writer) error {
	if l.Root == nil {
		return fmt.Errorf("encode: layout %s has no root", l.ID)
	}
	out := document{ID: l.ID, Name: l.Name, Remote: exportElement(l.Root)}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(l *model.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}

func exportElement(e *model.Element) *element {
	kind := e.Kind
	out := &element{
		UUID: e.UUID, Name: e.Name, Kind: &kind, Tag: e.Tag, Key: e.Key,
		Role: e.Role, Shape: e.Shape, Style: e.Style,
	}
	for _, child := range e.Children() {
		out.Subelements = append(out.Subelements, exportElement(child))
	}
	if owned := e.Constraints(); len(owned) > 0 {
		out.Constraints = exportConstraints(e, owned)
	}
	return out
}

func exportConstraints(owner *model.Element, owned []*model.Constraint) *constraints {
	names := newNamer(owner, owned)
	out := &constraints{Index: names.index}
	for _, c := range owned {
		out.Format = append(out.Format, format.Format(c, names.name))
	}
	slices.Sort(out.Format)
	if len(out.Index) == 0 {
		out.Index = nil
	}
	return out
}

// namer assigns each item of a constraint set a short name, preferring the
// camel-cased display name and falling back to the identifier.
type namer struct {
	index map[string]string
	names map[*model.Element]string
}

func newNamer(owner *model.Element, owned []*model.Constraint) *namer {
	var items []*model.Element
	seen := map[*model.Element]bool{}
	visit := func(e *model.Element) {
		if e != nil && !seen[e] {
			seen[e] = true
			items = append(items, e)
		}
	}
	visit(owner)
	for _, c := range owned {
		visit(c.FirstItem)
	}
	for _, c := range owned {
		visit(c.SecondItem)
	}

	counts := map[string]int{}
	for _, e := range items {
		counts[camelCase(e.Name)]++
	}
	n := &namer{index: map[string]string{}, names: map[*model.Element]string{}}
	for _, e := range items {
		name := camelCase(e.Name)
		if name == "" || counts[name] > 1 {
			n.names[e] = e.Identifier()
			continue
		}
		n.names[e] = name
		n.index[name] = e.UUID
	}
	return n
}

func (n *namer) name(e *model.Element) string { return n.names[e] }

// camelCase turns a display name into an item name: words are joined with
// the first lowercased and the rest capitalized. It returns "" if the result
// would not start with a letter.
func camelCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	var b strings.Builder
	for i, w := range words {
		r := []rune(w)
		if i == 0 {
			r[0] = unicode.ToLower(r[0])
		} else {
			r[0] = unicode.ToUpper(r[0])
		}
		b.WriteString(string(r))
	}
	out := b.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		return ""
	}
	return out
}
