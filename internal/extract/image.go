package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"os"

	"preview-engine/internal/filetypes"
	"preview-engine/internal/logging"
	"preview-engine/internal/preview"

	"github.com/disintegration/imaging"

	// Image format decoders
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// thumbMaxDimension bounds both thumbnail dimensions; aspect ratio is
	// preserved inside the box.
	thumbMaxDimension = 200
	// thumbJPEGQuality is the thumbnail re-encode quality.
	thumbJPEGQuality = 80
)

// ImageExtractor previews raster images: dimensions, color mode,
// transparency, animation frame count, and a flattened JPEG thumbnail.
type ImageExtractor struct {
	counter
}

// NewImageExtractor creates the image extractor.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// Name implements Extractor.
func (e *ImageExtractor) Name() string { return "image" }

// Supports implements Extractor.
func (e *ImageExtractor) Supports(path string) bool {
	return filetypes.ImageExtensions[lowerExt(path)]
}

// Generate implements Extractor.
func (e *ImageExtractor) Generate(path string) *preview.Record {
	e.inc()

	info, err := os.Stat(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot stat file: %v", err), 0)
	}

	cfg, format, err := decodeImageConfig(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot decode image: %v", err), info.Size())
	}

	rec := &preview.Record{
		Kind:     preview.KindImage,
		FileSize: info.Size(),
		Image: &preview.ImageInfo{
			Width:           cfg.Width,
			Height:          cfg.Height,
			Format:          format,
			ColorMode:       colorModeName(cfg.ColorModel),
			HasTransparency: modelHasAlpha(cfg.ColorModel),
		},
	}

	if format == "gif" {
		if frames, err := gifFrameCount(path); err == nil {
			rec.Image.FrameCount = frames
		}
	}

	// A thumbnail failure degrades the record rather than failing it; the
	// dimensions above are still useful on their own.
	if thumb, err := e.renderThumbnail(path); err == nil {
		rec.Image.Thumbnail = thumb
	} else {
		logging.Debug("thumbnail generation failed for %s: %v", path, err)
	}

	return rec
}

func decodeImageConfig(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()

	return image.DecodeConfig(f)
}

func gifFrameCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return 0, err
	}
	return len(g.Image), nil
}

// renderThumbnail decodes the image (libvips fast path when initialized),
// fits it into the thumbnail box, flattens any alpha onto white, and
// re-encodes as JPEG. Thumbnails are never transparent.
func (e *ImageExtractor) renderThumbnail(path string) ([]byte, error) {
	var img image.Image
	var err error

	if IsVipsAvailable() {
		img, err = loadImageWithVips(path, thumbMaxDimension, thumbMaxDimension)
		if err != nil {
			logging.Debug("vips decode failed for %s: %v, falling back", path, err)
			img = nil
		}
	}
	if img == nil {
		img, err = imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("decode failed: %w", err)
		}
	}

	thumb := imaging.Fit(img, thumbMaxDimension, thumbMaxDimension, imaging.Lanczos)

	bounds := thumb.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.OverlayCenter(flat, thumb, 1.0)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: thumbJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// colorModeName maps a color model to a short descriptive label.
func colorModeName(m color.Model) string {
	switch m {
	case color.RGBAModel:
		return "rgba"
	case color.NRGBAModel:
		return "nrgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.CMYKModel:
		return "cmyk"
	case color.YCbCrModel:
		return "ycbcr"
	case color.NYCbCrAModel:
		return "nycbcra"
	}
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}
	return "unknown"
}

// modelHasAlpha reports whether the color model can carry transparency.
func modelHasAlpha(m color.Model) bool {
	switch m {
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model, color.NYCbCrAModel:
		return true
	}
	if p, ok := m.(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}
