package metadata

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"preview-engine/internal/filetypes"
	"preview-engine/internal/logging"
	"preview-engine/internal/preview"

	"github.com/dhowden/tag"
	"github.com/ledongthuc/pdf"
	"github.com/rwcarlsen/goexif/exif"
)

// Augmenter extracts the secondary metadata map attached to successful
// records.
type Augmenter struct{}

// New creates an Augmenter.
func New() *Augmenter {
	return &Augmenter{}
}

// Augment attaches the metadata map to the record. It is a no-op for error
// records, and any failure inside a type-specific reader degrades to the
// common fields only.
func (a *Augmenter) Augment(path string, rec *preview.Record) {
	if rec == nil || rec.IsError() {
		return
	}

	meta := make(map[string]any)

	if info, err := os.Stat(path); err == nil {
		meta["modifiedAt"] = info.ModTime().UTC().Format(time.RFC3339)
		// Most filesystems don't expose a birth time; the modification
		// time is the best-effort creation stand-in.
		meta["createdAt"] = info.ModTime().UTC().Format(time.RFC3339)
		meta["sizeBytes"] = info.Size()
	}
	meta["mimeType"] = filetypes.GetMimeType(lowerExtOf(path))

	switch rec.Kind {
	case preview.KindImage:
		a.addExif(path, meta)
	case preview.KindMedia:
		a.addMediaTags(path, meta)
	case preview.KindDocument:
		a.addDocumentProps(path, meta)
	}

	rec.Metadata = meta
}

// exifFields are the EXIF tags surfaced in the metadata map.
var exifFields = map[exif.FieldName]string{
	exif.DateTimeOriginal: "exif.dateTimeOriginal",
	exif.DateTime:         "exif.dateTime",
	exif.Make:             "exif.make",
	exif.Model:            "exif.model",
	exif.ExposureTime:     "exif.exposureTime",
	exif.FNumber:          "exif.fNumber",
	exif.ISOSpeedRatings:  "exif.iso",
	exif.FocalLength:      "exif.focalLength",
	exif.Orientation:      "exif.orientation",
}

func (a *Augmenter) addExif(path string, meta map[string]any) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		logging.Debug("no exif data in %s: %v", path, err)
		return
	}

	for field, key := range exifFields {
		exifTag, err := x.Get(field)
		if err != nil {
			continue
		}
		if s, err := exifTag.StringVal(); err == nil {
			meta[key] = s
			continue
		}
		if i, err := exifTag.Int(0); err == nil {
			meta[key] = i
			continue
		}
		meta[key] = exifTag.String()
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta["exif.latitude"] = lat
		meta["exif.longitude"] = long
	}
}

func (a *Augmenter) addMediaTags(path string, meta map[string]any) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		logging.Debug("no embedded tags in %s: %v", path, err)
		return
	}

	meta["tag.format"] = string(m.Format())
	set := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}
	set("tag.title", m.Title())
	set("tag.artist", m.Artist())
	set("tag.album", m.Album())
	set("tag.albumArtist", m.AlbumArtist())
	set("tag.composer", m.Composer())
	set("tag.genre", m.Genre())
	if year := m.Year(); year != 0 {
		meta["tag.year"] = year
	}
	if track, total := m.Track(); track != 0 {
		meta["tag.track"] = strconv.Itoa(track) + "/" + strconv.Itoa(total)
	}
}

func (a *Augmenter) addDocumentProps(path string, meta map[string]any) {
	if lowerExtOf(path) != ".pdf" {
		return
	}

	defer func() {
		// The PDF parser can panic on malformed files; augmentation is
		// best-effort.
		if r := recover(); r != nil {
			logging.Debug("pdf property read panicked for %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return
	}
	set := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}
	set("pdf.producer", info.Key("Producer").RawString())
	set("pdf.creator", info.Key("Creator").RawString())
	set("pdf.creationDate", info.Key("CreationDate").RawString())
	set("pdf.modDate", info.Key("ModDate").RawString())
}

func lowerExtOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
