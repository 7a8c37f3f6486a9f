package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/remotelayout/pkg/editor"
	apperr "github.com/matzehuels/remotelayout/pkg/errors"
	"github.com/matzehuels/remotelayout/pkg/geom"
	layoutio "github.com/matzehuels/remotelayout/pkg/io"
	"github.com/matzehuels/remotelayout/pkg/model"
	"github.com/matzehuels/remotelayout/pkg/observability"
	"github.com/matzehuels/remotelayout/pkg/session"
	"github.com/matzehuels/remotelayout/pkg/store"
)

// newLayout builds a remote with one group holding play (50x50) and stop
// (80x40) side by side.
func newLayout(t *testing.T) *model.Layout {
	t.Helper()
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
	return l
}

var boxes = map[string]any{
	"remote": geom.Box{Width: 320, Height: 640},
	"group":  geom.Box{X: 10, Y: 20, Width: 300, Height: 200},
	"play":   geom.Box{X: 10, Y: 10, Width: 50, Height: 50},
	"stop":   geom.Box{X: 130, Y: 10, Width: 80, Height: 40},
}

func newServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	data, err := layoutio.Marshal(newLayout(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Put(context.Background(), "living-room", data); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(New(st, editor.Options{}, log.New(io.Discard)).Handler())
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// stored opens the committed layout and returns the constant of ref.attr.
func stored(t *testing.T, st store.Store, ref string, attr geom.Attribute) float64 {
	t.Helper()
	sess, err := session.Open(context.Background(), st, "living-room", editor.Options{Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()
	e, err := sess.Layout().Element(ref)
	if err != nil {
		t.Fatal(err)
	}
	cs := e.FirstOrderFor(attr)
	if len(cs) != 1 {
		t.Fatalf("%s.%s has %d constraints, want 1", ref, attr, len(cs))
	}
	return cs[0].Constant
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestLayoutCRUD(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/layouts", nil)
	list := decode[map[string][]string](t, resp)
	if diff := cmp.Diff([]string{"living-room"}, list["layouts"]); diff != "" {
		t.Errorf("layouts mismatch (-want +got):\n%s", diff)
	}

	resp = do(t, http.MethodGet, srv.URL+"/layouts/living-room", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", resp.StatusCode)
	}
	etag := resp.Header.Get("ETag")
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if etag == "" {
		t.Error("GET returned no ETag")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/layouts/living-room", nil)
	req.Header.Set("If-None-Match", etag)
	cached, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	cached.Body.Close()
	if cached.StatusCode != http.StatusNotModified {
		t.Errorf("conditional GET status = %d, want 304", cached.StatusCode)
	}

	resp = do(t, http.MethodPut, srv.URL+"/layouts/copy", data)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("PUT new status = %d, want 201", resp.StatusCode)
	}
	created := decode[editResponse](t, resp)
	if created.ID != "copy" || created.ETag == "" {
		t.Errorf("PUT response = %+v", created)
	}

	resp = do(t, http.MethodPut, srv.URL+"/layouts/copy?strict=true", data)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("PUT existing status = %d, want 200", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, srv.URL+"/layouts/copy", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/layouts/copy", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET deleted status = %d, want 404", resp.StatusCode)
	}
}

func TestPutLayoutErrors(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		name string
		url  string
		body string
		want int
		code apperr.Code
	}{
		{"malformed", "/layouts/bad", `{"remote":`, http.StatusBadRequest, apperr.ErrCodeInvalidFormat},
		{"invalid id", "/layouts/-bad", `{"remote": {"uuid": "r"}}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"underdetermined strict", "/layouts/loose?strict=1",
			`{"remote": {"uuid": "r", "subelements": [{"uuid": "g"}]}}`, http.StatusBadRequest, apperr.ErrCodeInvalidConstraint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPut, srv.URL+tt.url, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if body := decode[errorBody](t, resp); body.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	srv, st := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/layouts/living-room/translate", map[string]any{
		"selection": []string{"play"},
		"delta":     map[string]float64{"x": 5, "y": 7},
		"metrics":   map[string]any{"boxes": boxes},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", resp.StatusCode, decode[errorBody](t, resp))
	}
	if got := stored(t, st, "play", geom.Left); got != 15 {
		t.Errorf("play.left = %v, want 15", got)
	}
	if got := stored(t, st, "play", geom.Top); got != 17 {
		t.Errorf("play.top = %v, want 17", got)
	}
}

func TestAlignAndResize(t *testing.T) {
	srv, st := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/layouts/living-room/align", map[string]any{
		"selection": []string{"play", "stop"},
		"anchor":    "play",
		"attribute": "top",
		"metrics":   map[string]any{"boxes": boxes},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("align status = %d, want 200", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, srv.URL+"/layouts/living-room/resize", map[string]any{
		"selection": []string{"play", "stop"},
		"anchor":    "play",
		"axis":      "horizontal",
		"metrics":   map[string]any{"boxes": boxes},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resize status = %d, want 200", resp.StatusCode)
	}

	sess, err := session.Open(context.Background(), st, "living-room", editor.Options{Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()
	l := sess.Layout()
	stop, _ := l.Element("stop")
	play, _ := l.Element("play")
	for _, attr := range []geom.Attribute{geom.Top, geom.Width} {
		cs := stop.FirstOrderFor(attr)
		if len(cs) != 1 || cs[0].SecondItem != play {
			t.Errorf("stop.%s = %v, want relative to play", attr, cs)
		}
	}
}

func TestScale(t *testing.T) {
	srv, st := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/layouts/living-room/scale", map[string]any{
		"selection": []string{"play"},
		"factor":    2,
		"metrics":   map[string]any{"boxes": boxes},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[editResponse](t, resp)
	if body.Factor == nil || *body.Factor <= 1 || *body.Factor > 2 {
		t.Errorf("applied factor = %v, want in (1, 2]", body.Factor)
	}
	if got := stored(t, st, "play", geom.Width); got <= 50 {
		t.Errorf("play.width = %v, want > 50", got)
	}
}

func TestOperationErrors(t *testing.T) {
	srv, st := newServer(t)
	before, _ := st.Get(context.Background(), "living-room")

	tests := []struct {
		name string
		path string
		body any
		want int
		code apperr.Code
	}{
		{"unknown layout", "/layouts/nope/translate",
			map[string]any{"selection": []string{"play"}}, http.StatusNotFound, apperr.ErrCodeLayoutNotFound},
		{"empty selection", "/layouts/living-room/translate",
			map[string]any{"selection": []string{}}, http.StatusBadRequest, apperr.ErrCodeInvalidSelection},
		{"unknown element", "/layouts/living-room/align",
			map[string]any{"selection": []string{"nope"}, "anchor": "nope", "attribute": "top"}, http.StatusNotFound, apperr.ErrCodeElementNotFound},
		{"out of bounds", "/layouts/living-room/translate",
			map[string]any{"selection": []string{"stop"}, "delta": map[string]float64{"x": 500}, "metrics": map[string]any{"boxes": boxes}},
			http.StatusBadRequest, apperr.ErrCodeOutOfBounds},
		{"unknown field", "/layouts/living-room/scale",
			map[string]any{"selection": []string{"play"}, "factr": 2}, http.StatusBadRequest, apperr.ErrCodeInvalidFormat},
		{"metrics for unknown element", "/layouts/living-room/scale",
			map[string]any{"selection": []string{"play"}, "factor": 2, "metrics": map[string]any{"boxes": map[string]any{"ghost": geom.Box{}}}},
			http.StatusNotFound, apperr.ErrCodeElementNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if body := decode[errorBody](t, resp); body.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Code, tt.code, body.Message)
			}
		})
	}

	after, _ := st.Get(context.Background(), "living-room")
	if !bytes.Equal(before, after) {
		t.Error("failed operations modified the stored layout")
	}
}

func TestRelationships(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/layouts/living-room/elements/play/relationships", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	report := decode[session.Report](t, resp)
	if report.Name != "play" || report.Kind != "button" {
		t.Errorf("report = %s/%s, want play/button", report.Name, report.Kind)
	}
	if len(report.Attributes) == 0 {
		t.Error("report has no attributes")
	}

	resp = do(t, http.MethodGet, srv.URL+"/layouts/living-room/elements", nil)
	if all := decode[[]session.Report](t, resp); len(all) != 4 {
		t.Errorf("elements = %d, want 4", len(all))
	}

	resp = do(t, http.MethodGet, srv.URL+"/layouts/living-room/elements/nope/relationships", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown element status = %d, want 404", resp.StatusCode)
	}
}

func TestConstraintsEndpoint(t *testing.T) {
	srv, st := newServer(t)
	url := srv.URL + "/layouts/living-room/elements/play/constraints"

	resp := do(t, http.MethodPut, url, "play.width = 60\nplay.height = play.width")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200: %+v", resp.StatusCode, decode[errorBody](t, resp))
	}
	if got := stored(t, st, "play", geom.Width); got != 60 {
		t.Errorf("play.width = %v, want 60", got)
	}

	resp = do(t, http.MethodGet, url, nil)
	text, _ := io.ReadAll(resp.Body)
	if want := "play.width = 60\nplay.height = play.width\n"; string(text) != want {
		t.Errorf("GET constraints = %q, want %q", text, want)
	}

	resp = do(t, http.MethodPut, url, "play.width =")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("PUT malformed status = %d, want 400", resp.StatusCode)
	}
}

func TestGraphDOT(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/layouts/living-room/graph.dot?detailed=true", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "digraph G {") {
		t.Errorf("body is not a DOT graph:\n%s", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperr.Code
		want int
	}{
		{apperr.ErrCodeInvalidSelection, http.StatusBadRequest},
		{apperr.ErrCodeOutOfBounds, http.StatusBadRequest},
		{apperr.ErrCodeLayoutNotFound, http.StatusNotFound},
		{apperr.ErrCodeElementNotFound, http.StatusNotFound},
		{apperr.ErrCodeSessionClosed, http.StatusConflict},
		{apperr.ErrCodeStaleLayout, http.StatusPreconditionFailed},
		{apperr.ErrCodeUnsupported, http.StatusNotImplemented},
		{apperr.ErrCodeStorage, http.StatusInternalServerError},
		{apperr.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(apperr.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := New(store.NewMemoryStore(), editor.Options{}, log.New(io.Discard)).Handler()
	for _, path := range []string{"/healthz", "/layouts/nope"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if diff := cmp.Diff([]int{http.StatusOK, http.StatusNotFound}, hooks.statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestServeShutdown(t *testing.T) {
	s := New(store.NewMemoryStore(), editor.Options{}, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, "127.0.0.1:0", time.Second, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
