package extract

import (
	"os"
	"path/filepath"
	"testing"

	"preview-engine/internal/preview"
)

func TestDispatcherPriorityOrder(t *testing.T) {
	d := NewDefaultDispatcher()

	tests := []struct {
		path string
		want string
	}{
		{"photo.jpg", "image"},
		{"report.pdf", "document"},
		{"report.docx", "document"},
		{"song.mp3", "media"},
		{"clip.mkv", "media"},
		{"bundle.zip", "archive"},
		{"notes.txt", "text"},
		{"main.go", "text"},
	}

	for _, tt := range tests {
		if got := d.Select(tt.path).Name(); got != tt.want {
			t.Errorf("Select(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestDispatcherDeterministic(t *testing.T) {
	d := NewDefaultDispatcher()

	first := d.Select("photo.png")
	for i := 0; i < 10; i++ {
		if d.Select("photo.png") != first {
			t.Fatal("repeated selection returned a different extractor")
		}
	}
}

func TestDispatcherGenericFallback(t *testing.T) {
	d := NewDefaultDispatcher()

	// Unknown extension with binary content fails the text sniff, so
	// nothing matches and the generic fallback takes it.
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte{0x00, 0xFF, 0x00, 0xFF}, 0o644); err != nil {
		t.Fatal(err)
	}

	e := d.Select(path)
	if e != d.Fallback() {
		t.Fatalf("expected the generic fallback, got %s", e.Name())
	}

	rec := e.Generate(path)
	if rec.Kind != preview.KindGeneric {
		t.Fatalf("kind = %v, want generic", rec.Kind)
	}
	if rec.Generic.Extension != ".bin" {
		t.Errorf("extension = %q, want .bin", rec.Generic.Extension)
	}
	if rec.FileSize != 4 {
		t.Errorf("fileSize = %d, want 4", rec.FileSize)
	}
}

func TestGenerationsCounter(t *testing.T) {
	e := NewGenericExtractor()
	if e.Generations() != 0 {
		t.Fatal("fresh extractor has nonzero generation count")
	}

	path := filepath.Join(t.TempDir(), "x.bin")
	if err := os.WriteFile(path, []byte{1}, 0o644); err != nil {
		t.Fatal(err)
	}

	e.Generate(path)
	e.Generate(path)
	if e.Generations() != 2 {
		t.Errorf("generations = %d, want 2", e.Generations())
	}
}

func TestLowerExt(t *testing.T) {
	tests := []struct{ path, want string }{
		{"a/b/FILE.TXT", ".txt"},
		{"noext", ""},
		{"archive.tar.GZ", ".gz"},
	}
	for _, tt := range tests {
		if got := lowerExt(tt.path); got != tt.want {
			t.Errorf("lowerExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
