package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"preview-engine/internal/filetypes"
	"preview-engine/internal/logging"
	"preview-engine/internal/preview"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"golang.org/x/text/encoding/charmap"
)

const (
	// textByteCap is the maximum number of bytes read from a text file.
	textByteCap = 10 * 1024
	// textLineCap is the maximum number of lines included in the preview.
	textLineCap = 500
	// sniffWindow is how many leading bytes the content sniff inspects.
	sniffWindow = 512
)

// TextExtractor previews plain text and source files: a capped read with
// encoding detection, a line-capped content excerpt, and optional syntax
// highlighting.
type TextExtractor struct {
	counter
}

// NewTextExtractor creates the text extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Name implements Extractor.
func (e *TextExtractor) Name() string { return "text" }

// Supports implements Extractor. Known text extensions match directly;
// extensions claimed by another category never match; an unknown extension
// falls back to a content sniff (reject on a NUL byte in the first 512
// bytes, accept otherwise).
func (e *TextExtractor) Supports(path string) bool {
	ext := lowerExt(path)
	switch filetypes.GetCategory(ext) {
	case filetypes.CategoryText:
		return true
	case filetypes.CategoryOther:
		return sniffText(path)
	default:
		return false
	}
}

// sniffText reports whether the leading bytes of the file look like text.
func sniffText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffWindow)
	n, err := f.Read(buf)
	if n == 0 {
		// Treat an empty or unreadable file as non-text; the generic
		// fallback handles it.
		return err == nil
	}
	return !bytes.ContainsRune(buf[:n], 0)
}

// Generate implements Extractor.
func (e *TextExtractor) Generate(path string) *preview.Record {
	e.inc()

	info, err := os.Stat(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot stat file: %v", err), 0)
	}

	f, err := os.Open(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot open file: %v", err), info.Size())
	}
	defer f.Close()

	buf := make([]byte, textByteCap)
	n, err := f.Read(buf)
	if err != nil && n == 0 && info.Size() > 0 {
		return preview.NewError(fmt.Sprintf("cannot read file: %v", err), info.Size())
	}
	buf = buf[:n]
	byteCapHit := info.Size() > int64(n)

	content, encoding := decodeText(buf)

	// Total line count. When the byte cap was hit this scans only the
	// capped buffer and may undercount; that approximation is deliberate.
	lineCount := strings.Count(content, "\n")
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		lineCount++
	}

	lines := strings.Split(content, "\n")
	lineCapHit := len(lines) > textLineCap
	if lineCapHit {
		content = strings.Join(lines[:textLineCap], "\n")
	}

	rec := &preview.Record{
		Kind:     preview.KindText,
		FileSize: info.Size(),
		Text: &preview.TextInfo{
			Content:   content,
			Encoding:  encoding,
			LineCount: lineCount,
			Truncated: byteCapHit || lineCapHit,
		},
	}

	if lexer := lexers.Match(filepath.Base(path)); lexer != nil {
		rec.Text.Language = lexer.Config().Name
		if markup, err := highlight(lexer, content); err == nil {
			rec.Text.HighlightedMarkup = markup
		} else {
			logging.Debug("highlight failed for %s: %v", path, err)
		}
	}

	return rec
}

// decodeText tries UTF-8 first, then Latin-1, then byte replacement, and
// returns the decoded content with the encoding label that worked.
func decodeText(buf []byte) (string, string) {
	if utf8.Valid(buf) {
		return string(buf), "utf-8"
	}
	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(buf); err == nil {
		return string(decoded), "latin-1"
	}
	return strings.ToValidUTF8(string(buf), "�"), "utf-8"
}

// highlight renders inline-styled HTML for the excerpt.
func highlight(lexer chroma.Lexer, content string) (string, error) {
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return "", err
	}

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	var out bytes.Buffer
	formatter := html.New(html.WithClasses(false))
	if err := formatter.Format(&out, style, iterator); err != nil {
		return "", err
	}
	return out.String(), nil
}
