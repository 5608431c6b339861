package previewer

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"preview-engine/internal/extract"
	"preview-engine/internal/preview"
)

func newTestPreviewer(t *testing.T, dispatcher *extract.Dispatcher) *Previewer {
	t.Helper()
	if dispatcher == nil {
		dispatcher = extract.NewDefaultDispatcher()
	}
	p := New(Options{
		CacheDir:   filepath.Join(t.TempDir(), "cache"),
		TTL:        time.Hour,
		MaxWorkers: 2,
		Dispatcher: dispatcher,
	})
	t.Cleanup(func() {
		_ = p.Shutdown()
	})
	return p
}

func writeTextFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetCacheRoundtrip(t *testing.T) {
	text := extract.NewTextExtractor()
	p := newTestPreviewer(t, extract.NewDispatcher(text))
	path := writeTextFile(t, "cached content\n")

	first, err := p.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if first.Kind != preview.KindText {
		t.Fatalf("kind = %v (%s)", first.Kind, first.ErrorMessage)
	}

	second, err := p.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if second.Text.Content != first.Text.Content {
		t.Error("cached record differs from the generated one")
	}
	if text.Generations() != 1 {
		t.Errorf("generations = %d, want 1 (second read must hit the cache)", text.Generations())
	}
}

func TestGetInvalidatesOnMtimeChange(t *testing.T) {
	text := extract.NewTextExtractor()
	p := newTestPreviewer(t, extract.NewDispatcher(text))
	path := writeTextFile(t, "version one\n")

	if _, err := p.Get(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("version two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	newTime := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, newTime, newTime); err != nil {
		t.Fatal(err)
	}

	rec, err := p.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Text.Content != "version two\n" {
		t.Errorf("stale content served after mtime change: %q", rec.Text.Content)
	}
	if text.Generations() != 2 {
		t.Errorf("generations = %d, want 2 (mtime change must force regeneration)", text.Generations())
	}
}

func TestGetSkipCacheRegeneratesButStores(t *testing.T) {
	text := extract.NewTextExtractor()
	p := newTestPreviewer(t, extract.NewDispatcher(text))
	path := writeTextFile(t, "content\n")

	if _, err := p.Get(path); err != nil {
		t.Fatal(err)
	}
	if _, err := p.GetWith(path, GetOptions{SkipCache: true}); err != nil {
		t.Fatal(err)
	}
	if text.Generations() != 2 {
		t.Fatalf("generations = %d, want 2 (SkipCache must regenerate)", text.Generations())
	}

	// The regenerated record was stored, so a normal read hits the cache.
	if _, err := p.Get(path); err != nil {
		t.Fatal(err)
	}
	if text.Generations() != 2 {
		t.Errorf("generations = %d, want 2 (fresh result must be cached)", text.Generations())
	}
}

func TestGetSkipMetadata(t *testing.T) {
	p := newTestPreviewer(t, nil)
	path := writeTextFile(t, "content\n")

	rec, err := p.GetWith(path, GetOptions{SkipMetadata: true, SkipCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Metadata != nil {
		t.Errorf("metadata attached despite SkipMetadata: %v", rec.Metadata)
	}
}

func TestGetAttachesMetadata(t *testing.T) {
	p := newTestPreviewer(t, nil)
	path := writeTextFile(t, "content\n")

	rec, err := p.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Metadata == nil {
		t.Fatal("no metadata attached")
	}
	if rec.Metadata["mimeType"] != "text/plain" {
		t.Errorf("mimeType = %v", rec.Metadata["mimeType"])
	}
	if _, ok := rec.Metadata["sizeBytes"]; !ok {
		t.Error("sizeBytes missing from metadata")
	}
}

func TestGetMissingFile(t *testing.T) {
	p := newTestPreviewer(t, nil)

	rec, err := p.Get(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("missing file must produce an error record, not a Go error: %v", err)
	}
	if !rec.IsError() {
		t.Fatalf("kind = %v, want error", rec.Kind)
	}
	if rec.ErrorMessage != "file not found" {
		t.Errorf("message = %q", rec.ErrorMessage)
	}
}

func TestErrorRecordsNotCached(t *testing.T) {
	p := newTestPreviewer(t, nil)

	path := filepath.Join(t.TempDir(), "missing.txt")
	if _, err := p.Get(path); err != nil {
		t.Fatal(err)
	}

	stats := p.Stats()
	if stats.MemoryEntries != 0 || stats.DiskEntries != 0 {
		t.Errorf("error record was cached: %+v", stats)
	}
}

func TestGetAsync(t *testing.T) {
	p := newTestPreviewer(t, nil)
	path := writeTextFile(t, "async content\n")

	f, err := p.GetAsync(path, GetOptions{})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("future never completed")
	}

	rec, err := f.Wait()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != preview.KindText {
		t.Errorf("kind = %v", rec.Kind)
	}
}

func TestPreload(t *testing.T) {
	p := newTestPreviewer(t, nil)

	paths := make([]string, 5)
	dir := t.TempDir()
	for i := range paths {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".txt")
		if err := os.WriteFile(paths[i], []byte("preload\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var mu sync.Mutex
	done := make(map[string]bool)
	allDone := make(chan struct{})

	batchID, err := p.Preload(paths, func(path string, rec *preview.Record) {
		mu.Lock()
		defer mu.Unlock()
		if rec.IsError() {
			t.Errorf("preload of %s failed: %s", path, rec.ErrorMessage)
		}
		done[path] = true
		if len(done) == len(paths) {
			close(allDone)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if batchID == "" {
		t.Error("empty batch id")
	}

	select {
	case <-allDone:
	case <-time.After(10 * time.Second):
		t.Fatalf("preload incomplete: %d of %d", len(done), len(paths))
	}
}

func TestShutdown(t *testing.T) {
	p := New(Options{Dispatcher: extract.NewDefaultDispatcher(), MaxWorkers: 1})

	if err := p.Shutdown(); err != nil {
		t.Fatalf("first shutdown failed: %v", err)
	}
	if err := p.Shutdown(); !errors.Is(err, ErrShutDown) {
		t.Errorf("second shutdown = %v, want ErrShutDown", err)
	}

	if _, err := p.Get("anything.txt"); !errors.Is(err, ErrShutDown) {
		t.Errorf("Get after shutdown = %v, want ErrShutDown", err)
	}
	if _, err := p.GetAsync("anything.txt", GetOptions{}); !errors.Is(err, ErrShutDown) {
		t.Errorf("GetAsync after shutdown = %v, want ErrShutDown", err)
	}
	if _, err := p.Preload([]string{"a"}, nil); !errors.Is(err, ErrShutDown) {
		t.Errorf("Preload after shutdown = %v, want ErrShutDown", err)
	}
	if err := p.ClearCache(false); !errors.Is(err, ErrShutDown) {
		t.Errorf("ClearCache after shutdown = %v, want ErrShutDown", err)
	}
}

func TestClearCache(t *testing.T) {
	p := newTestPreviewer(t, nil)
	path := writeTextFile(t, "content\n")

	if _, err := p.Get(path); err != nil {
		t.Fatal(err)
	}
	if p.Stats().MemoryEntries != 1 {
		t.Fatal("record not cached")
	}

	if err := p.ClearCache(false); err != nil {
		t.Fatal(err)
	}
	stats := p.Stats()
	if stats.MemoryEntries != 0 || stats.DiskEntries != 0 {
		t.Errorf("cache not cleared: %+v", stats)
	}
}
