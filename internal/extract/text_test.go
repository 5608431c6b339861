package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"preview-engine/internal/preview"
)

func writeFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextSupports(t *testing.T) {
	e := NewTextExtractor()

	if !e.Supports("notes.txt") {
		t.Error("known text extension rejected")
	}
	if e.Supports("photo.jpg") {
		t.Error("image extension accepted by text extractor")
	}
	if e.Supports("archive.zip") {
		t.Error("archive extension accepted by text extractor")
	}
}

func TestTextSniffUnknownExtension(t *testing.T) {
	textPath := writeFixture(t, "readme.unknownext", []byte("plain readable content\n"))
	binPath := writeFixture(t, "blob.unknownext", []byte{0x00, 0x01, 0x02, 'a', 'b'})

	e := NewTextExtractor()
	if !e.Supports(textPath) {
		t.Error("sniff rejected readable content")
	}
	if e.Supports(binPath) {
		t.Error("sniff accepted content with a NUL byte")
	}
}

func TestTextGenerateSmallFile(t *testing.T) {
	content := "line one\nline two\nline three\n"
	path := writeFixture(t, "small.txt", []byte(content))

	rec := NewTextExtractor().Generate(path)
	if rec.Kind != preview.KindText {
		t.Fatalf("kind = %v, want text", rec.Kind)
	}
	if rec.Text.Content != content {
		t.Errorf("content altered: %q", rec.Text.Content)
	}
	if rec.Text.LineCount != 3 {
		t.Errorf("lineCount = %d, want 3", rec.Text.LineCount)
	}
	if rec.Text.Truncated {
		t.Error("small file flagged truncated")
	}
	if rec.Text.Encoding != "utf-8" {
		t.Errorf("encoding = %q, want utf-8", rec.Text.Encoding)
	}
	if rec.FileSize != int64(len(content)) {
		t.Errorf("fileSize = %d, want %d", rec.FileSize, len(content))
	}
}

func TestTextGenerateByteCap(t *testing.T) {
	// 1000 lines of 200 bytes: only the first ~10KiB is read, so both the
	// content and the line count reflect the capped buffer.
	line := strings.Repeat("x", 199) + "\n"
	path := writeFixture(t, "big.log", []byte(strings.Repeat(line, 1000)))

	rec := NewTextExtractor().Generate(path)
	if rec.Kind != preview.KindText {
		t.Fatalf("kind = %v, want text", rec.Kind)
	}
	if !rec.Text.Truncated {
		t.Error("byte-capped file not flagged truncated")
	}
	if len(rec.Text.Content) > textByteCap {
		t.Errorf("content exceeds byte cap: %d bytes", len(rec.Text.Content))
	}
	if rec.Text.LineCount > 52 {
		t.Errorf("lineCount = %d, expected the capped-buffer count (~51)", rec.Text.LineCount)
	}
	if rec.FileSize != int64(1000*len(line)) {
		t.Errorf("fileSize = %d, want full size %d", rec.FileSize, 1000*len(line))
	}
}

func TestTextGenerateLineCap(t *testing.T) {
	// 600 short lines fit inside the byte cap but exceed the line cap.
	path := writeFixture(t, "lines.txt", []byte(strings.Repeat("ab\n", 600)))

	rec := NewTextExtractor().Generate(path)
	if !rec.Text.Truncated {
		t.Error("line-capped file not flagged truncated")
	}
	if got := strings.Count(rec.Text.Content, "\n") + 1; got > textLineCap {
		t.Errorf("content has %d lines, cap is %d", got, textLineCap)
	}
	if rec.Text.LineCount != 600 {
		t.Errorf("lineCount = %d, want the full count 600", rec.Text.LineCount)
	}
}

func TestTextGenerateLatin1(t *testing.T) {
	// 0xE9 is é in Latin-1 and invalid UTF-8 on its own.
	path := writeFixture(t, "latin.txt", []byte{'c', 'a', 'f', 0xE9, '\n'})

	rec := NewTextExtractor().Generate(path)
	if rec.Text.Encoding != "latin-1" {
		t.Errorf("encoding = %q, want latin-1", rec.Text.Encoding)
	}
	if !strings.Contains(rec.Text.Content, "café") {
		t.Errorf("content not transcoded: %q", rec.Text.Content)
	}
}

func TestTextGenerateHighlighting(t *testing.T) {
	src := "package main\n\nfunc main() {\n}\n"
	path := writeFixture(t, "main.go", []byte(src))

	rec := NewTextExtractor().Generate(path)
	if rec.Text.Language == "" {
		t.Error("language not detected for .go source")
	}
	if rec.Text.HighlightedMarkup == "" {
		t.Error("no highlighted markup produced")
	}
}

func TestTextGenerateMissingFile(t *testing.T) {
	rec := NewTextExtractor().Generate(filepath.Join(t.TempDir(), "gone.txt"))
	if !rec.IsError() {
		t.Error("missing file should yield an error record")
	}
}

func TestTextGenerateEmptyFile(t *testing.T) {
	path := writeFixture(t, "empty.txt", nil)

	rec := NewTextExtractor().Generate(path)
	if rec.IsError() {
		t.Fatalf("empty file should not error: %s", rec.ErrorMessage)
	}
	if rec.Text.Content != "" || rec.Text.LineCount != 0 {
		t.Errorf("empty file preview wrong: %+v", rec.Text)
	}
}
