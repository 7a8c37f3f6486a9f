package model

import "fmt"

// Kind is the closed set of element variants.
type Kind int

const (
	// KindRemote is the root of a layout. It never has a parent.
	KindRemote Kind = iota
	// KindButtonGroup is a container of buttons placed on a remote.
	KindButtonGroup
	// KindButton is a leaf element.
	KindButton
)

type kindRule struct {
	name   string
	child  Kind
	parent Kind
	leaf   bool
	root   bool
}

var kindRules = map[Kind]kindRule{
	KindRemote:      {name: "remote", child: KindButtonGroup, root: true},
	KindButtonGroup: {name: "buttonGroup", child: KindButton, parent: KindRemote},
	KindButton:      {name: "button", parent: KindButtonGroup, leaf: true},
}

func (k Kind) String() string {
	if r, ok := kindRules[k]; ok {
		return r.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindRules[k]
	return ok
}

// ChildKind returns the kind permitted as a child of k. The boolean is false
// for leaf kinds.
func (k Kind) ChildKind() (Kind, bool) {
	r, ok := kindRules[k]
	if !ok || r.leaf {
		return 0, false
	}
	return r.child, true
}

// ParentKind returns the kind permitted as the parent of k. The boolean is
// false for the root kind.
func (k Kind) ParentKind() (Kind, bool) {
	r, ok := kindRules[k]
	if !ok || r.root {
		return 0, false
	}
	return r.parent, true
}

// CanContain reports whether an element of kind k may have a child of kind c.
func (k Kind) CanContain(c Kind) bool {
	want, ok := k.ChildKind()
	return ok && want == c
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, r := range kindRules {
		if r.name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
