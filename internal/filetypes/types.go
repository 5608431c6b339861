package filetypes

// Category represents the preview category of a file.
type Category string

const (
	// CategoryImage represents an image file.
	CategoryImage Category = "image"
	// CategoryDocument represents a document file (PDF, DOCX, XLSX).
	CategoryDocument Category = "document"
	// CategoryMedia represents an audio or video file.
	CategoryMedia Category = "media"
	// CategoryArchive represents an archive file.
	CategoryArchive Category = "archive"
	// CategoryText represents a plain text or source code file.
	CategoryText Category = "text"
	// CategoryOther represents an unknown or unsupported file type.
	CategoryOther Category = "other"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".ico":  true,
}

// DocumentExtensions maps file extensions to whether they are supported document formats.
var DocumentExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".wav":  true,
	".aac":  true,
	".wma":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// ArchiveExtensions maps file extensions to whether they are supported archive formats.
var ArchiveExtensions = map[string]bool{
	".zip": true,
	".jar": true,
	".tar": true,
	".tgz": true,
	".gz":  true,
	".7z":  true,
	".rar": true,
}

// TextExtensions maps file extensions to whether they are recognized text formats.
// Files with unknown extensions may still be classified as text by content sniffing.
var TextExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".log":  true,
	".csv":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
	".xml":  true,
	".html": true,
	".css":  true,
	".ini":  true,
	".sh":   true,
	".go":   true,
	".py":   true,
	".js":   true,
	".ts":   true,
	".c":    true,
	".h":    true,
	".cpp":  true,
	".rs":   true,
	".java": true,
	".rb":   true,
	".sql":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".ico":  "image/x-icon",

	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",

	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",

	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".webm": "video/webm",

	".zip": "application/zip",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
	".7z":  "application/x-7z-compressed",
	".rar": "application/vnd.rar",

	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".json": "application/json",
	".html": "text/html",
}

// GetCategory returns the Category for a given file extension.
// The extension should be lowercase and include the leading dot (e.g. ".jpg").
// Returns CategoryOther if the extension is not recognized.
func GetCategory(ext string) Category {
	if ImageExtensions[ext] {
		return CategoryImage
	}
	if DocumentExtensions[ext] {
		return CategoryDocument
	}
	if AudioExtensions[ext] || VideoExtensions[ext] {
		return CategoryMedia
	}
	if ArchiveExtensions[ext] {
		return CategoryArchive
	}
	if TextExtensions[ext] {
		return CategoryText
	}
	return CategoryOther
}

// GetMimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsVideo reports whether the extension is a recognized video format.
func IsVideo(ext string) bool {
	return VideoExtensions[ext]
}
