package editor

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

func newEditor(opts Options) *Editor {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return New(opts)
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestRelationship(t *testing.T) {
	f := newFixture(t)
	ed := newEditor(Options{})

	tests := []struct {
		e    *model.Element
		attr geom.Attribute
		rel  Relationship
		dep  Dependency
	}{
		{f.a, geom.Left, Child, ParentDependency},
		{f.a, geom.Width, Intrinsic, IntrinsicDependency},
		{f.a, geom.CenterX, None, NoDependency},
		{f.b, geom.Left, Sibling, SiblingDependency},
		{f.b, geom.Leading, Sibling, SiblingDependency},
		{f.b, geom.Width, Sibling, SiblingDependency},
		{f.b, geom.Height, Intrinsic, IntrinsicDependency},
		{f.c, geom.CenterX, Child, ParentDependency},
		{f.c, geom.Baseline, Child, ParentDependency},
		{f.c, geom.Height, Intrinsic, IntrinsicDependency},
		{f.group, geom.Top, Child, ParentDependency},
	}
	for _, tt := range tests {
		m := ed.Manager(tt.e)
		if got := m.Relationship(tt.attr); got != tt.rel {
			t.Errorf("%s Relationship(%s) = %v, want %v", tt.e, tt.attr, got, tt.rel)
		}
		if got := m.Dependency(tt.attr); got != tt.dep {
			t.Errorf("%s Dependency(%s) = %v, want %v", tt.e, tt.attr, got, tt.dep)
		}
	}
}

func TestRelationshipParent(t *testing.T) {
	f := newFixture(t)
	ed := newEditor(Options{})

	for _, c := range f.group.FirstOrderFor(geom.Width) {
		f.group.RemoveConstraint(c)
	}
	add(t, f.group, model.NewConstraint(f.group, geom.Width, geom.Equal, f.a, geom.Width, 6, 0))

	m := ed.Manager(f.group)
	if got := m.Relationship(geom.Width); got != Parent {
		t.Errorf("Relationship(width) = %v, want %v", got, Parent)
	}
	if got := m.Dependency(geom.Width); got != ParentDependency {
		t.Errorf("Dependency(width) = %v, want %v", got, ParentDependency)
	}
}

func TestPresenceAndProportionLock(t *testing.T) {
	f := newFixture(t)
	ed := newEditor(Options{})

	tests := []struct {
		e    *model.Element
		want geom.AttributeSet
		lock bool
	}{
		{f.a, geom.NewAttributeSet(geom.Left, geom.Top, geom.Width, geom.Height), false},
		{f.b, geom.NewAttributeSet(geom.Left, geom.Top, geom.Width, geom.Height), false},
		{f.c, geom.NewAttributeSet(geom.CenterX, geom.Bottom, geom.Width, geom.Height), true},
	}
	for _, tt := range tests {
		m := ed.Manager(tt.e)
		if got := m.Presence(); got != tt.want {
			t.Errorf("%s Presence() = %v, want %v", tt.e, got, tt.want)
		}
		if got := m.ProportionLock(); got != tt.lock {
			t.Errorf("%s ProportionLock() = %v, want %v", tt.e, got, tt.lock)
		}
	}
}

func TestManagerRefreshesOnChange(t *testing.T) {
	f := newFixture(t)
	ed := newEditor(Options{})
	m := ed.Manager(f.b)

	if !m.Has(geom.Height) {
		t.Fatal("Has(height) = false before removal")
	}
	h := f.b.FirstOrderFor(geom.Height)[0]
	f.b.RemoveConstraint(h)
	if m.Has(geom.Height) {
		t.Error("Has(height) = true after removal")
	}

	add(t, f.b, model.NewConstant(f.b, geom.Height, 50))
	if !m.Has(geom.Height) {
		t.Error("Has(height) = false after re-adding")
	}

	f.b.FirstOrderFor(geom.Height)[0].Constant = 60
	if m.dirty {
		t.Error("constant edit marked the manager dirty")
	}

	ed.Forget(f.b)
	f.b.RemoveConstraint(f.b.FirstOrderFor(geom.Height)[0])
	if m.dirty {
		t.Error("forgotten manager still receives change events")
	}
	if ed.Manager(f.b) == m {
		t.Error("Manager() returned the forgotten manager")
	}
}

func TestConstraintSets(t *testing.T) {
	f := newFixture(t)
	ed := newEditor(Options{})

	tests := []struct {
		name string
		got  []*model.Constraint
		want int
	}{
		{"a dependent siblings", ed.Manager(f.a).DependentSiblingConstraints(), 3},
		{"a dependents", ed.Manager(f.a).DependentConstraints(), 3},
		{"group dependent children", ed.Manager(f.group).DependentChildConstraints(), 4},
		{"group subelement constraints", ed.Manager(f.group).SubelementConstraints(), 7},
		{"group intrinsic", ed.Manager(f.group).IntrinsicConstraints(), 2},
		{"b siblings", ed.Manager(f.b).SiblingConstraints(), 3},
		{"c siblings", ed.Manager(f.c).SiblingConstraints(), 0},
		{"c intrinsic", ed.Manager(f.c).IntrinsicConstraints(), 2},
		{"c dependents", ed.Manager(f.c).DependentConstraints(), 0},
		{"b horizontal", ed.Manager(f.b).ConstraintsAffecting(geom.Horizontal), 2},
		{"c vertical", ed.Manager(f.c).ConstraintsAffecting(geom.Vertical), 2},
		{"c baseline", ed.Manager(f.c).ConstraintsFor(geom.Baseline), 1},
	}
	for _, tt := range tests {
		if len(tt.got) != tt.want {
			t.Errorf("%s: got %d constraints, want %d: %v", tt.name, len(tt.got), tt.want, tt.got)
		}
	}
}

func TestConflicts(t *testing.T) {
	set := geom.NewAttributeSet
	tests := []struct {
		attr      geom.Attribute
		present   geom.AttributeSet
		removals  []geom.Attribute
		additions []geom.Attribute
	}{
		{geom.Left, set(geom.Width), []geom.Attribute{geom.CenterX, geom.Right}, nil},
		{geom.Left, set(geom.Right), []geom.Attribute{geom.CenterX}, nil},
		{geom.Left, set(geom.CenterX, geom.Right), []geom.Attribute{geom.CenterX}, nil},
		{geom.Left, set(), []geom.Attribute{geom.CenterX, geom.Right}, []geom.Attribute{geom.Width}},
		{geom.Left, set(geom.CenterX), []geom.Attribute{geom.CenterX, geom.Right}, []geom.Attribute{geom.Width}},
		{geom.Right, set(geom.Left, geom.Width), []geom.Attribute{geom.CenterX, geom.Left}, nil},
		{geom.Top, set(geom.CenterY, geom.Height), []geom.Attribute{geom.CenterY, geom.Bottom}, nil},
		{geom.Baseline, set(geom.Height), []geom.Attribute{geom.CenterY, geom.Top}, nil},
		{geom.Trailing, set(geom.Left), []geom.Attribute{geom.CenterX}, nil},
		{geom.CenterX, set(geom.Width), []geom.Attribute{geom.Left, geom.Right}, nil},
		{geom.CenterX, set(geom.Left, geom.Right), []geom.Attribute{geom.Left, geom.Right}, []geom.Attribute{geom.Width}},
		{geom.CenterY, set(geom.Top, geom.Height), []geom.Attribute{geom.Top, geom.Bottom}, nil},
		{geom.Width, set(geom.CenterX), []geom.Attribute{geom.Left, geom.Right}, nil},
		{geom.Width, set(geom.Left, geom.Right), []geom.Attribute{geom.Left}, nil},
		{geom.Width, set(geom.Left), nil, nil},
		{geom.Height, set(geom.Bottom), nil, nil},
		{geom.Width, set(), nil, []geom.Attribute{geom.CenterX}},
		{geom.Height, set(geom.Width, geom.Left), nil, []geom.Attribute{geom.CenterY}},
	}
	for _, tt := range tests {
		removals, additions := Conflicts(tt.attr, tt.present)
		if diff := cmp.Diff(tt.removals, removals, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Conflicts(%s, %v) removals mismatch (-want +got):\n%s", tt.attr, tt.present, diff)
		}
		if diff := cmp.Diff(tt.additions, additions, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Conflicts(%s, %v) additions mismatch (-want +got):\n%s", tt.attr, tt.present, diff)
		}
	}
}

func TestConflictsPanicsOnUnknownAttribute(t *testing.T) {
	mustPanic(t, "Conflicts(NoAttribute)", func() {
		Conflicts(geom.NoAttribute, geom.AttributeSet{})
	})
	mustPanic(t, "Conflicts(99)", func() {
		Conflicts(geom.Attribute(99), geom.AttributeSet{})
	})
}

// TestResolveConflictsDeterminacy adds a sibling constraint on every
// horizontal attribute to an element starting from every canonical pair and
// checks the axis stays determined and solvable.
func TestResolveConflictsDeterminacy(t *testing.T) {
	pairs := map[string][]geom.Attribute{
		"left+right":   {geom.Left, geom.Right},
		"left+width":   {geom.Left, geom.Width},
		"right+width":  {geom.Right, geom.Width},
		"center+width": {geom.CenterX, geom.Width},
	}
	offsets := map[geom.Attribute]float64{geom.Left: 200, geom.Right: -10, geom.CenterX: 0}

	for name, pair := range pairs {
		for _, attr := range []geom.Attribute{geom.Left, geom.Right, geom.CenterX, geom.Width} {
			t.Run(name+"/"+attr.String(), func(t *testing.T) {
				f := newFixture(t)
				d := model.NewElement(model.KindButton, "d")
				if err := f.layout.Add(f.group, d); err != nil {
					t.Fatal(err)
				}
				for _, a := range pair {
					if a.IsSize() {
						add(t, d, model.NewConstant(d, a, 60))
						continue
					}
					add(t, f.group, pin(d, a, f.group, offsets[a]))
				}
				add(t, f.group, pin(d, geom.Top, f.group, 100))
				add(t, d, model.NewConstant(d, geom.Height, 30))
				snap := f.solve(t)

				ed := newEditor(Options{})
				ed.Manager(f.group).ResolveConflicts(pin(d, attr, f.a, 0), snap)

				assertDetermined(t, d)
				after := f.solve(t)
				got, _ := after.Box(d)
				want, _ := after.Box(f.a)
				if got.Value(attr) != want.Value(attr) {
					t.Errorf("d.%s = %g, want %g", attr, got.Value(attr), want.Value(attr))
				}
			})
		}
	}
}

func TestResolveConflictsSynthesizes(t *testing.T) {
	f := newFixture(t)
	ed := newEditor(Options{})
	snap := f.solve(t)

	// Replacing b's left with its right leaves the width in place.
	ed.Manager(f.group).ResolveConflicts(model.NewConstraint(f.b, geom.Right, geom.Equal, f.group, geom.Right, 1, -20), snap)
	assertDetermined(t, f.b)
	assertBox(t, f.solve(t), f.b, geom.NewBox(230, 10, 50, 50))

	// A lone size on an axis gets a center relative to the parent. d has no
	// horizontal constraints yet, so its frame is supplied directly.
	snap = f.solve(t)
	d := model.NewElement(model.KindButton, "d")
	if err := f.layout.Add(f.group, d); err != nil {
		t.Fatal(err)
	}
	add(t, f.group, pin(d, geom.Top, f.group, 100))
	add(t, d, model.NewConstant(d, geom.Height, 40))
	snap[d.UUID] = geom.NewBox(100, 100, 100, 40)

	ed.Manager(f.group).ResolveConflicts(model.NewConstant(d, geom.Width, 40), snap)
	assertDetermined(t, d)
	assertBox(t, f.solve(t), d, geom.NewBox(130, 100, 40, 40))

	cx := d.FirstOrderFor(geom.CenterX)
	if len(cx) != 1 || cx[0].Owner() != f.group || cx[0].Constant != 0 {
		t.Errorf("synthesized centerX = %v, want %s.centerX owned by %s", cx, d, f.group)
	}

	ed.Manager(f.group).ResolveConflicts(pin(d, geom.CenterY, f.group, 0), snap)
	assertDetermined(t, d)
	assertBox(t, f.solve(t), d, geom.NewBox(130, 80, 40, 40))
}
