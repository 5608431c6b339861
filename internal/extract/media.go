package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"preview-engine/internal/filetypes"
	"preview-engine/internal/logging"
	"preview-engine/internal/preview"

	"github.com/dhowden/tag"
)

// MediaExtractor previews audio and video files. The tag library supplies
// embedded tags quickly without spawning a process; duration, codecs,
// resolution, and frame rate come from ffprobe when it is installed.
type MediaExtractor struct {
	counter

	// proberAvailable records whether ffprobe was found at construction.
	proberAvailable bool
}

// NewMediaExtractor creates the media extractor, probing once for ffprobe.
func NewMediaExtractor() *MediaExtractor {
	e := &MediaExtractor{proberAvailable: toolAvailable("ffprobe")}
	if !e.proberAvailable {
		logging.Debug("ffprobe not found, media duration/codec info disabled")
	}
	return e
}

// NewMediaExtractorWithProber creates the extractor with prober capability
// forced, for tests that must not depend on the real binary.
func NewMediaExtractorWithProber(available bool) *MediaExtractor {
	return &MediaExtractor{proberAvailable: available}
}

// ProberAvailable reports whether ffprobe probing is possible.
func (e *MediaExtractor) ProberAvailable() bool { return e.proberAvailable }

// Name implements Extractor.
func (e *MediaExtractor) Name() string { return "media" }

// Supports implements Extractor.
func (e *MediaExtractor) Supports(path string) bool {
	ext := lowerExt(path)
	return filetypes.AudioExtensions[ext] || filetypes.VideoExtensions[ext]
}

// Generate implements Extractor.
func (e *MediaExtractor) Generate(path string) *preview.Record {
	e.inc()

	info, err := os.Stat(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot stat file: %v", err), 0)
	}

	media := &preview.MediaInfo{}

	tagsOK := e.readTags(path, media)

	probeOK := false
	if e.proberAvailable {
		probeOK = e.probe(path, media)
	}

	if !tagsOK && !probeOK {
		if !e.proberAvailable {
			// Capability unavailable: degrade to a bare media record
			// rather than failing the generation.
			logging.Debug("no media metadata available for %s (ffprobe missing)", path)
			return &preview.Record{Kind: preview.KindMedia, FileSize: info.Size(), Media: media}
		}
		return preview.NewError("cannot read media metadata", info.Size())
	}

	return &preview.Record{Kind: preview.KindMedia, FileSize: info.Size(), Media: media}
}

// readTags runs the fast metadata-library path.
func (e *MediaExtractor) readTags(path string, media *preview.MediaInfo) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		logging.Debug("tag read failed for %s: %v", path, err)
		return false
	}

	tags := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			tags[key] = value
		}
	}
	set("title", meta.Title())
	set("artist", meta.Artist())
	set("album", meta.Album())
	set("genre", meta.Genre())
	if year := meta.Year(); year != 0 {
		tags["year"] = strconv.Itoa(year)
	}
	if len(tags) > 0 {
		media.Tags = tags
	}
	return true
}

type ffprobeOutput struct {
	Format struct {
		Duration string            `json:"duration"`
		BitRate  string            `json:"bit_rate"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// probe merges ffprobe output into the record. Codec, resolution, and frame
// rate come only from here.
func (e *MediaExtractor) probe(path string, media *preview.MediaInfo) bool {
	out, err := runTool("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		logging.Debug("ffprobe failed for %s: %v", path, err)
		return false
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		logging.Debug("ffprobe output parse failed for %s: %v", path, err)
		return false
	}

	if d, err := strconv.ParseFloat(probed.Format.Duration, 64); err == nil {
		media.DurationSeconds = d
	}
	if b, err := strconv.ParseInt(probed.Format.BitRate, 10, 64); err == nil {
		media.Bitrate = b
	}

	for _, stream := range probed.Streams {
		switch stream.CodecType {
		case "audio":
			if media.AudioCodec == "" {
				media.AudioCodec = stream.CodecName
			}
		case "video":
			if media.VideoCodec != "" {
				continue
			}
			media.VideoCodec = stream.CodecName
			if stream.Width > 0 && stream.Height > 0 {
				media.Resolution = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
			}
			if fps := parseFrameRate(stream.AvgFrameRate); fps > 0 {
				media.FrameRate = fps
			}
		}
	}

	// Container tags fill in anything the tag library missed.
	if len(probed.Format.Tags) > 0 {
		if media.Tags == nil {
			media.Tags = make(map[string]string)
		}
		for k, v := range probed.Format.Tags {
			key := strings.ToLower(k)
			if _, exists := media.Tags[key]; !exists && v != "" {
				media.Tags[key] = v
			}
		}
	}

	return true
}

// parseFrameRate converts ffprobe's "30000/1001" fraction form.
func parseFrameRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
