package preview

import "time"

// Kind identifies which section of a Record is populated.
type Kind string

const (
	// KindText is a text file preview.
	KindText Kind = "text"
	// KindImage is an image preview.
	KindImage Kind = "image"
	// KindDocument is a document (PDF, DOCX, XLSX) preview.
	KindDocument Kind = "document"
	// KindMedia is an audio/video preview.
	KindMedia Kind = "media"
	// KindArchive is an archive listing preview.
	KindArchive Kind = "archive"
	// KindGeneric is the fallback for unrecognized files.
	KindGeneric Kind = "generic"
	// KindError indicates generation failed.
	KindError Kind = "error"
)

// TextInfo holds the text preview section.
type TextInfo struct {
	Content           string `json:"content"`
	Encoding          string `json:"encoding"`
	LineCount         int    `json:"lineCount"`
	Truncated         bool   `json:"truncated"`
	Language          string `json:"language,omitempty"`
	HighlightedMarkup string `json:"highlightedMarkup,omitempty"`
}

// ImageInfo holds the image preview section.
type ImageInfo struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Format          string `json:"format"`
	ColorMode       string `json:"colorMode"`
	HasTransparency bool   `json:"hasTransparency"`
	Thumbnail       []byte `json:"thumbnail,omitempty"`
	FrameCount      int    `json:"frameCount,omitempty"`
}

// DocumentInfo holds the document preview section.
type DocumentInfo struct {
	PageCount      int    `json:"pageCount"`
	Title          string `json:"title,omitempty"`
	Author         string `json:"author,omitempty"`
	Subject        string `json:"subject,omitempty"`
	FirstPageText  string `json:"firstPageText,omitempty"`
	FirstPageImage []byte `json:"firstPageImage,omitempty"`
}

// MediaInfo holds the audio/video preview section.
type MediaInfo struct {
	DurationSeconds float64           `json:"durationSeconds"`
	Bitrate         int64             `json:"bitrate,omitempty"`
	AudioCodec      string            `json:"audioCodec,omitempty"`
	VideoCodec      string            `json:"videoCodec,omitempty"`
	Resolution      string            `json:"resolution,omitempty"`
	FrameRate       float64           `json:"frameRate,omitempty"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// ArchiveEntry is a single entry in an archive listing.
type ArchiveEntry struct {
	Name             string    `json:"name"`
	CompressedSize   int64     `json:"compressedSize"`
	UncompressedSize int64     `json:"uncompressedSize"`
	IsDir            bool      `json:"isDir"`
	Modified         time.Time `json:"modified"`
}

// ArchiveInfo holds the archive preview section. Aggregate totals and the
// compression ratio cover the full entry set even when Entries is capped.
type ArchiveInfo struct {
	EntryCount        int            `json:"entryCount"`
	Entries           []ArchiveEntry `json:"entries"`
	TotalCompressed   int64          `json:"totalCompressed"`
	TotalUncompressed int64          `json:"totalUncompressed"`
	CompressionRatio  float64        `json:"compressionRatio"`
	Truncated         bool           `json:"truncated"`
}

// GenericInfo holds the fallback section for unrecognized files.
type GenericInfo struct {
	Extension string `json:"extension"`
}

// Record is the result of preview generation for a single file. Exactly one
// of the kind-specific sections is non-nil, matching Kind; ErrorMessage is
// set only for KindError records.
type Record struct {
	Kind     Kind  `json:"kind"`
	FileSize int64 `json:"fileSize"`

	Text     *TextInfo     `json:"text,omitempty"`
	Image    *ImageInfo    `json:"image,omitempty"`
	Document *DocumentInfo `json:"document,omitempty"`
	Media    *MediaInfo    `json:"media,omitempty"`
	Archive  *ArchiveInfo  `json:"archive,omitempty"`
	Generic  *GenericInfo  `json:"generic,omitempty"`

	ErrorMessage string `json:"errorMessage,omitempty"`

	// Metadata is the augmenter's cross-format map. Values may be any
	// serializable type in memory; the disk cache coerces them to strings.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewError returns an error-kind record. The file size is included when it
// was known at failure time (pass 0 otherwise).
func NewError(message string, fileSize int64) *Record {
	return &Record{
		Kind:         KindError,
		FileSize:     fileSize,
		ErrorMessage: message,
	}
}

// NewGeneric returns the fallback record for an unrecognized file.
func NewGeneric(extension string, fileSize int64) *Record {
	return &Record{
		Kind:     KindGeneric,
		FileSize: fileSize,
		Generic:  &GenericInfo{Extension: extension},
	}
}

// IsError reports whether the record represents a failed generation.
func (r *Record) IsError() bool {
	return r.Kind == KindError
}

// Clone returns a deep copy of the record. The cache hands out clones so a
// caller mutating its copy cannot corrupt another caller's view.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r

	if r.Text != nil {
		t := *r.Text
		out.Text = &t
	}
	if r.Image != nil {
		img := *r.Image
		img.Thumbnail = append([]byte(nil), r.Image.Thumbnail...)
		out.Image = &img
	}
	if r.Document != nil {
		d := *r.Document
		d.FirstPageImage = append([]byte(nil), r.Document.FirstPageImage...)
		out.Document = &d
	}
	if r.Media != nil {
		m := *r.Media
		if r.Media.Tags != nil {
			m.Tags = make(map[string]string, len(r.Media.Tags))
			for k, v := range r.Media.Tags {
				m.Tags[k] = v
			}
		}
		out.Media = &m
	}
	if r.Archive != nil {
		a := *r.Archive
		a.Entries = append([]ArchiveEntry(nil), r.Archive.Entries...)
		out.Archive = &a
	}
	if r.Generic != nil {
		g := *r.Generic
		out.Generic = &g
	}
	if r.Metadata != nil {
		out.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
