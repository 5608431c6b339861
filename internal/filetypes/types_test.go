package filetypes

import "testing"

func TestGetCategory(t *testing.T) {
	tests := []struct {
		ext  string
		want Category
	}{
		{".jpg", CategoryImage},
		{".png", CategoryImage},
		{".pdf", CategoryDocument},
		{".docx", CategoryDocument},
		{".xlsx", CategoryDocument},
		{".mp3", CategoryMedia},
		{".mp4", CategoryMedia},
		{".zip", CategoryArchive},
		{".tgz", CategoryArchive},
		{".txt", CategoryText},
		{".go", CategoryText},
		{".xyz", CategoryOther},
		{"", CategoryOther},
		// .ts is both a video container and a TypeScript source extension;
		// media wins by category precedence.
		{".ts", CategoryMedia},
	}

	for _, tt := range tests {
		if got := GetCategory(tt.ext); got != tt.want {
			t.Errorf("GetCategory(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "image/jpeg"},
		{".pdf", "application/pdf"},
		{".zip", "application/zip"},
		{".txt", "text/plain"},
		{".xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := GetMimeType(tt.ext); got != tt.want {
			t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestIsVideo(t *testing.T) {
	if !IsVideo(".mp4") {
		t.Error("IsVideo(.mp4) = false")
	}
	if IsVideo(".mp3") {
		t.Error("IsVideo(.mp3) = true")
	}
}
