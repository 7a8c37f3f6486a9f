package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/remotelayout/pkg/observability"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "layouts"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			if _, err := s.Get(ctx, "living-room"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := s.Put(ctx, "living-room", []byte(`{"id":"living-room"}`)); err != nil {
				t.Fatalf("Put error: %v", err)
			}
			if err := s.Put(ctx, "bedroom", []byte("v1")); err != nil {
				t.Fatalf("Put error: %v", err)
			}
			if err := s.Put(ctx, "bedroom", []byte("v2")); err != nil {
				t.Fatalf("Put error: %v", err)
			}

			got, err := s.Get(ctx, "bedroom")
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if string(got) != "v2" {
				t.Errorf("Get = %q, want %q", got, "v2")
			}

			ids, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List error: %v", err)
			}
			if diff := cmp.Diff([]string{"bedroom", "living-room"}, ids); diff != "" {
				t.Errorf("List mismatch (-want +got):\n%s", diff)
			}

			if err := s.Delete(ctx, "bedroom"); err != nil {
				t.Fatalf("Delete error: %v", err)
			}
			if err := s.Delete(ctx, "bedroom"); err != nil {
				t.Errorf("Delete(missing) error: %v", err)
			}
			if _, err := s.Get(ctx, "bedroom"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	_ = s.Put(ctx, "x", buf)
	buf[0] = 'z'

	got, _ := s.Get(ctx, "x")
	if string(got) != "abc" {
		t.Errorf("stored payload changed with caller buffer: %q", got)
	}
	got[1] = 'z'
	again, _ := s.Get(ctx, "x")
	if string(again) != "abc" {
		t.Errorf("stored payload changed with returned buffer: %q", again)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = s.Put(ctx, id, []byte(id))
			_, _ = s.Get(ctx, id)
			_, _ = s.List(ctx)
		}(i)
	}
	wg.Wait()

	ids, _ := s.List(ctx)
	if len(ids) != 16 {
		t.Errorf("List returned %d ids, want 16", len(ids))
	}
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Put(ctx, "tv", []byte("first")); err != nil {
		t.Fatal(err)
	}
	created, updated, err := s.Stat("tv")
	if err != nil {
		t.Fatalf("Stat error: %v", err)
	}
	if created.IsZero() || !created.Equal(updated) {
		t.Errorf("Stat = %v, %v, want equal non-zero times", created, updated)
	}

	time.Sleep(10 * time.Millisecond)
	if err := s.Put(ctx, "tv", []byte("second")); err != nil {
		t.Fatal(err)
	}
	created2, updated2, _ := s.Stat("tv")
	if !created2.Equal(created) {
		t.Errorf("created changed on update: %v -> %v", created, created2)
	}
	if !updated2.After(updated) {
		t.Errorf("updated did not advance: %v -> %v", updated, updated2)
	}

	hash := Hash([]byte("tv"))
	if _, err := os.Stat(filepath.Join(dir, hash[:2], hash[2:]+".json")); err != nil {
		t.Errorf("entry not in fan-out directory: %v", err)
	}

	// A stray file does not break listing.
	if err := os.WriteFile(filepath.Join(dir, hash[:2], "junk.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if diff := cmp.Diff([]string{"tv"}, ids); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory) error: %v", err)
	}
	s.Close()

	s, err = Open(ctx, Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(default) error: %v", err)
	}
	s.Close()

	if _, err := Open(ctx, Config{Backend: "etcd"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(etcd) error = %v, want ErrUnknownBackend", err)
	}
}

type recordingHooks struct {
	observability.NoopStoreHooks
	events []string
}

func (h *recordingHooks) OnLoad(_ context.Context, backend, id string, size int, err error) {
	h.events = append(h.events, "load "+backend+" "+id)
}

func (h *recordingHooks) OnSave(_ context.Context, backend, id string, size int, err error) {
	h.events = append(h.events, "save "+backend+" "+id)
}

func (h *recordingHooks) OnDelete(_ context.Context, backend, id string, err error) {
	h.events = append(h.events, "delete "+backend+" "+id)
}

func TestInstrument(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetStoreHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s := Instrument(NewMemoryStore(), "memory")
	_ = s.Put(ctx, "a", []byte("x"))
	_, _ = s.Get(ctx, "a")
	_ = s.Delete(ctx, "a")
	_, _ = s.List(ctx)

	want := []string{"save memory a", "load memory a", "delete memory a"}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound || calls != 1 {
		t.Errorf("non-retryable: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err = %v, calls = %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
