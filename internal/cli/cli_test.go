package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/remotelayout/pkg/geom"
	layoutio "github.com/matzehuels/remotelayout/pkg/io"
	"github.com/matzehuels/remotelayout/pkg/model"
	"github.com/matzehuels/remotelayout/pkg/session"
)

// fixture writes a layout with one group holding play and stop, a metrics
// document with their frames and a config file using a file store under dir.
func fixture(t *testing.T) (dir, layoutPath, metricsPath, configPath string) {
	t.Helper()
	dir = t.TempDir()

	l := model.NewLayout("living-room", "remote")
	group := model.NewElement(model.KindButtonGroup, "group")
	if err := l.Add(l.Root, group); err != nil {
		t.Fatal(err)
	}
	add := func(owner *model.Element, c *model.Constraint) {
		t.Helper()
		if err := owner.AddConstraint(c); err != nil {
			t.Fatal(err)
		}
	}
	add(l.Root, model.NewConstraint(group, geom.Left, geom.Equal, l.Root, geom.Left, 1, 10))
	add(l.Root, model.NewConstraint(group, geom.Top, geom.Equal, l.Root, geom.Top, 1, 20))
	add(group, model.NewConstant(group, geom.Width, 300))
	add(group, model.NewConstant(group, geom.Height, 200))
	for _, b := range []struct {
		name string
		x    float64
		w, h float64
	}{
		{"play", 10, 50, 50},
		{"stop", 130, 80, 40},
	} {
		e := model.NewElement(model.KindButton, b.name)
		if err := l.Add(group, e); err != nil {
			t.Fatal(err)
		}
		add(group, model.NewConstraint(e, geom.Left, geom.Equal, group, geom.Left, 1, b.x))
		add(group, model.NewConstraint(e, geom.Top, geom.Equal, group, geom.Top, 1, 10))
		add(e, model.NewConstant(e, geom.Width, b.w))
		add(e, model.NewConstant(e, geom.Height, b.h))
	}

	layoutPath = filepath.Join(dir, "remote.json")
	if err := layoutio.ExportJSON(l, layoutPath); err != nil {
		t.Fatal(err)
	}

	metricsPath = filepath.Join(dir, "frames.toml")
	frames := `[boxes.remote]
width = 320
height = 640

[boxes.group]
x = 10
y = 20
width = 300
height = 200

[boxes.play]
x = 10
y = 10
width = 50
height = 50

[boxes.stop]
x = 130
y = 10
width = 80
height = 40
`
	if err := os.WriteFile(metricsPath, []byte(frames), 0o644); err != nil {
		t.Fatal(err)
	}

	configPath = filepath.Join(dir, "remotelayout.toml")
	cfg := "[store]\nbackend = \"file\"\ndir = " + strconv.Quote(filepath.Join(dir, "store")) + "\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, layoutPath, metricsPath, configPath
}

// run executes the CLI with args and returns what commands wrote to their
// output stream.
func run(t *testing.T, configPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func constantOf(t *testing.T, path, ref string, attr geom.Attribute) float64 {
	t.Helper()
	l, err := layoutio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	e, err := l.Element(ref)
	if err != nil {
		t.Fatal(err)
	}
	cs := e.FirstOrderFor(attr)
	if len(cs) != 1 {
		t.Fatalf("%s.%s has %d constraints, want 1", ref, attr, len(cs))
	}
	return cs[0].Constant
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	want := []string{"check", "completion", "edit", "graph", "inspect", "serve", "store"}
	for _, name := range want {
		found := false
		for _, n := range names {
			if n == name {
				found = true
			}
		}
		if !found {
			t.Errorf("root command has no %q subcommand (have %v)", name, names)
		}
	}
	if f := root.PersistentFlags().Lookup("config"); f == nil {
		t.Error("root command has no --config flag")
	}
}

func TestCheckConstraints(t *testing.T) {
	_, _, _, cfg := fixture(t)

	out, err := run(t, cfg, "b.top=a.bottom+10\nb.size = a.size\n", "check")
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	want := "b.top = a.bottom + 10\nb.width = a.width\nb.height = a.height\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("check output mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, cfg, "b.top =", "check"); err == nil {
		t.Error("check of malformed constraints: expected error")
	}
}

func TestCheckLayout(t *testing.T) {
	dir, layoutPath, _, cfg := fixture(t)

	if _, err := run(t, cfg, "", "check", "--layout", layoutPath); err != nil {
		t.Errorf("check --layout error: %v", err)
	}

	loose := filepath.Join(dir, "loose.json")
	doc := `{"remote": {"uuid": "r", "subelements": [{"uuid": "g", "name": "g"}]}}`
	if err := os.WriteFile(loose, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, cfg, "", "check", "--layout", loose); err == nil {
		t.Error("check --layout of an underdetermined layout: expected error")
	}
}

func TestInspectJSON(t *testing.T) {
	_, layoutPath, _, cfg := fixture(t)

	out, err := run(t, cfg, "", "inspect", layoutPath, "--element", "play", "--json")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	var reports []session.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("inspect output is not JSON: %v\n%s", err, out)
	}
	if len(reports) != 1 || reports[0].Name != "play" {
		t.Errorf("reports = %+v, want one report for play", reports)
	}
}

func TestInspectTable(t *testing.T) {
	_, layoutPath, _, cfg := fixture(t)

	out, err := run(t, cfg, "", "inspect", layoutPath)
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"remote", "group", "play", "stop", "owned constraints"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output does not contain %q", want)
		}
	}
}

func TestEditTranslate(t *testing.T) {
	dir, layoutPath, metricsPath, cfg := fixture(t)
	out := filepath.Join(dir, "moved.json")

	_, err := run(t, cfg, "", "edit", "translate", layoutPath,
		"-m", metricsPath, "-s", "play", "--dx", "5", "--dy", "7", "-o", out)
	if err != nil {
		t.Fatalf("edit translate error: %v", err)
	}
	if got := constantOf(t, out, "play", geom.Left); got != 15 {
		t.Errorf("play.left = %v, want 15", got)
	}
	if got := constantOf(t, layoutPath, "play", geom.Left); got != 10 {
		t.Errorf("input modified: play.left = %v, want 10", got)
	}
}

func TestEditAlignInPlace(t *testing.T) {
	_, layoutPath, metricsPath, cfg := fixture(t)

	_, err := run(t, cfg, "", "edit", "align", layoutPath,
		"-m", metricsPath, "-s", "play,stop", "--anchor", "play", "--attribute", "top")
	if err != nil {
		t.Fatalf("edit align error: %v", err)
	}
	l, err := layoutio.ImportJSON(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	stop, _ := l.Element("stop")
	play, _ := l.Element("play")
	if top := stop.FirstOrderFor(geom.Top); len(top) != 1 || top[0].SecondItem != play {
		t.Errorf("stop.top = %v, want relative to play", top)
	}
}

func TestEditScaleToStdout(t *testing.T) {
	_, layoutPath, metricsPath, cfg := fixture(t)

	out, err := run(t, cfg, "", "edit", "scale", layoutPath,
		"-m", metricsPath, "-s", "play", "-f", "1.2", "-o", "-")
	if err != nil {
		t.Fatalf("edit scale error: %v", err)
	}
	l, err := layoutio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("edit scale output is not a layout: %v", err)
	}
	play, _ := l.Element("play")
	if w := play.FirstOrderFor(geom.Width); len(w) != 1 || math.Abs(w[0].Constant-60) > 1e-9 {
		t.Errorf("play.width = %v, want 60", w)
	}
}

func TestEditErrors(t *testing.T) {
	_, layoutPath, metricsPath, cfg := fixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing metrics flag", []string{"edit", "translate", layoutPath, "-s", "play"}},
		{"anchor not selected", []string{"edit", "align", layoutPath, "-m", metricsPath, "-s", "stop", "--anchor", "play", "--attribute", "top"}},
		{"unknown axis", []string{"edit", "resize", layoutPath, "-m", metricsPath, "-s", "play,stop", "--anchor", "play", "--axis", "diagonal"}},
		{"out of bounds", []string{"edit", "translate", layoutPath, "-m", metricsPath, "-s", "stop", "--dx", "500"}},
		{"delete remote", []string{"edit", "delete", layoutPath, "-e", "remote"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, cfg, "", tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
	if got := constantOf(t, layoutPath, "stop", geom.Left); got != 130 {
		t.Errorf("failed edits modified the layout: stop.left = %v", got)
	}
}

func TestEditConstraintsAddDelete(t *testing.T) {
	_, layoutPath, _, cfg := fixture(t)

	if _, err := run(t, cfg, "play.width = 60\nplay.height = play.width", "edit", "constraints", layoutPath, "-e", "play"); err != nil {
		t.Fatalf("edit constraints error: %v", err)
	}
	if got := constantOf(t, layoutPath, "play", geom.Width); got != 60 {
		t.Errorf("play.width = %v, want 60", got)
	}

	if _, err := run(t, cfg, "", "edit", "add", layoutPath, "-p", "group", "-n", "pause"); err != nil {
		t.Fatalf("edit add error: %v", err)
	}
	l, _ := layoutio.ImportJSON(layoutPath)
	pause, err := l.Element("pause")
	if err != nil {
		t.Fatalf("added element not found: %v", err)
	}
	if pause.Kind != model.KindButton {
		t.Errorf("pause kind = %v, want button", pause.Kind)
	}

	if _, err := run(t, cfg, "", "edit", "delete", layoutPath, "-e", "pause"); err != nil {
		t.Fatalf("edit delete error: %v", err)
	}
	l, _ = layoutio.ImportJSON(layoutPath)
	if _, err := l.Element("pause"); err == nil {
		t.Error("deleted element still present")
	}
}

func TestGraphDOT(t *testing.T) {
	dir, layoutPath, _, cfg := fixture(t)

	out, err := run(t, cfg, "", "graph", layoutPath, "--detailed")
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("graph output is not DOT:\n%s", out)
	}

	file := filepath.Join(dir, "graph.dot")
	if _, err := run(t, cfg, "", "graph", layoutPath, "-o", file); err != nil {
		t.Fatalf("graph -o error: %v", err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("graph file not written: %v", err)
	}

	if _, err := run(t, cfg, "", "graph", layoutPath, "-f", "png"); err == nil {
		t.Error("graph -f png: expected error")
	}
}

func TestStoreCommands(t *testing.T) {
	dir, layoutPath, _, cfg := fixture(t)

	if _, err := run(t, cfg, "", "store", "put", "living-room", layoutPath); err != nil {
		t.Fatalf("store put error: %v", err)
	}
	out, err := run(t, cfg, "", "store", "list")
	if err != nil {
		t.Fatalf("store list error: %v", err)
	}
	if out != "living-room\n" {
		t.Errorf("store list = %q, want %q", out, "living-room\n")
	}

	out, err = run(t, cfg, "", "store", "get", "living-room")
	if err != nil {
		t.Fatalf("store get error: %v", err)
	}
	if _, err := layoutio.ReadJSON(strings.NewReader(out)); err != nil {
		t.Errorf("store get output is not a layout: %v", err)
	}

	out, err = run(t, cfg, "", "store", "path")
	if err != nil {
		t.Fatalf("store path error: %v", err)
	}
	if want := filepath.Join(dir, "store") + "\n"; out != want {
		t.Errorf("store path = %q, want %q", out, want)
	}

	if _, err := run(t, cfg, "", "store", "delete", "living-room"); err != nil {
		t.Fatalf("store delete error: %v", err)
	}
	if _, err := run(t, cfg, "", "store", "get", "living-room"); err == nil {
		t.Error("store get after delete: expected error")
	}
	if _, err := run(t, cfg, "", "store", "get", "../etc"); err == nil {
		t.Error("store get with invalid id: expected error")
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[store]\nbackend = \"floppy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, bad, "a.left = 0", "check"); err == nil {
		t.Error("invalid config: expected error")
	}
	if _, err := run(t, filepath.Join(dir, "missing.toml"), "a.left = 0", "check"); err == nil {
		t.Error("missing explicit config: expected error")
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"play", []string{"play"}},
		{"play, stop,,pause ", []string{"play", "stop", "pause"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseList(tt.in)); diff != "" {
			t.Errorf("parseList(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
