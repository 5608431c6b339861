package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"preview-engine/internal/filetypes"
	"preview-engine/internal/logging"
	"preview-engine/internal/preview"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

const (
	// firstPageTextCap bounds the extracted first-page text.
	firstPageTextCap = 2000
	// rasterDPI is the resolution used for the optional page-1 raster.
	rasterDPI = "96"
)

// DocumentExtractor previews PDF, DOCX, and XLSX files: page counts,
// standard properties, first-page text, and (for PDF, when pdftoppm is
// installed) a rasterized first page.
type DocumentExtractor struct {
	counter

	// rasterAvailable records whether pdftoppm was found at construction.
	rasterAvailable bool
}

// NewDocumentExtractor creates the document extractor, probing once for the
// pdftoppm binary.
func NewDocumentExtractor() *DocumentExtractor {
	e := &DocumentExtractor{rasterAvailable: toolAvailable("pdftoppm")}
	if !e.rasterAvailable {
		logging.Debug("pdftoppm not found, PDF page rasters disabled")
	}
	return e
}

// NewDocumentExtractorWithRaster creates the extractor with raster
// capability forced, for tests that must not depend on the real binary.
func NewDocumentExtractorWithRaster(available bool) *DocumentExtractor {
	return &DocumentExtractor{rasterAvailable: available}
}

// RasterAvailable reports whether page-1 rasterization is possible.
func (e *DocumentExtractor) RasterAvailable() bool { return e.rasterAvailable }

// Name implements Extractor.
func (e *DocumentExtractor) Name() string { return "document" }

// Supports implements Extractor.
func (e *DocumentExtractor) Supports(path string) bool {
	return filetypes.DocumentExtensions[lowerExt(path)]
}

// Generate implements Extractor.
func (e *DocumentExtractor) Generate(path string) (rec *preview.Record) {
	e.inc()

	info, err := os.Stat(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot stat file: %v", err), 0)
	}

	// The PDF parser panics on some malformed files; keep that inside the
	// extractor boundary.
	defer func() {
		if r := recover(); r != nil {
			rec = preview.NewError(fmt.Sprintf("document parse failed: %v", r), info.Size())
		}
	}()

	switch lowerExt(path) {
	case ".pdf":
		return e.generatePDF(path, info.Size())
	case ".docx":
		return e.generateDOCX(path, info.Size())
	case ".xlsx":
		return e.generateXLSX(path, info.Size())
	default:
		return preview.NewError("unsupported document format", info.Size())
	}
}

func (e *DocumentExtractor) generatePDF(path string, size int64) *preview.Record {
	f, r, err := pdf.Open(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot parse pdf: %v", err), size)
	}
	defer f.Close()

	doc := &preview.DocumentInfo{PageCount: r.NumPage()}

	if pdfInfo := r.Trailer().Key("Info"); !pdfInfo.IsNull() {
		doc.Title = pdfInfo.Key("Title").RawString()
		doc.Author = pdfInfo.Key("Author").RawString()
		doc.Subject = pdfInfo.Key("Subject").RawString()
	}

	if doc.PageCount > 0 {
		page := r.Page(1)
		if !page.V.IsNull() {
			if text, err := page.GetPlainText(nil); err == nil {
				doc.FirstPageText = capText(text, firstPageTextCap)
			}
		}
	}

	// Raster capability missing means the field is omitted, not an error.
	if e.rasterAvailable {
		if img, err := runTool("pdftoppm", "-png", "-f", "1", "-l", "1", "-r", rasterDPI, "-singlefile", path); err == nil {
			doc.FirstPageImage = img
		} else {
			logging.Debug("pdf raster failed for %s: %v", path, err)
		}
	}

	return &preview.Record{Kind: preview.KindDocument, FileSize: size, Document: doc}
}

func (e *DocumentExtractor) generateDOCX(path string, size int64) *preview.Record {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot open docx: %v", err), size)
	}
	defer zr.Close()

	doc := &preview.DocumentInfo{PageCount: 1}

	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			if text, err := readZipXML(f, docxParagraphText); err == nil {
				doc.FirstPageText = capText(text, firstPageTextCap)
			}
		case "docProps/core.xml":
			if err := readZipInto(f, func(rc io.Reader) error {
				return parseDocxCoreProps(rc, doc)
			}); err != nil {
				logging.Debug("docx core props failed for %s: %v", path, err)
			}
		case "docProps/app.xml":
			if err := readZipInto(f, func(rc io.Reader) error {
				if pages := parseDocxPageCount(rc); pages > 0 {
					doc.PageCount = pages
				}
				return nil
			}); err != nil {
				logging.Debug("docx app props failed for %s: %v", path, err)
			}
		}
	}

	return &preview.Record{Kind: preview.KindDocument, FileSize: size, Document: doc}
}

func (e *DocumentExtractor) generateXLSX(path string, size int64) *preview.Record {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot open xlsx: %v", err), size)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	doc := &preview.DocumentInfo{PageCount: len(sheets)}

	if props, err := f.GetDocProps(); err == nil && props != nil {
		doc.Title = props.Title
		doc.Author = props.Creator
		doc.Subject = props.Subject
	}

	if len(sheets) > 0 {
		rows, err := f.GetRows(sheets[0])
		if err == nil {
			var sb strings.Builder
			for _, row := range rows {
				sb.WriteString(strings.Join(row, "\t"))
				sb.WriteString("\n")
				if sb.Len() > firstPageTextCap {
					break
				}
			}
			doc.FirstPageText = capText(strings.TrimRight(sb.String(), "\n"), firstPageTextCap)
		}
	}

	return &preview.Record{Kind: preview.KindDocument, FileSize: size, Document: doc}
}

// readZipInto opens one archive member and hands it to fn.
func readZipInto(f *zip.File, fn func(io.Reader) error) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(rc)
}

// readZipXML opens one archive member and extracts text via fn.
func readZipXML(f *zip.File, fn func(io.Reader) (string, error)) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return fn(rc)
}

// docxParagraphText collects the text runs of word/document.xml.
func docxParagraphText(r io.Reader) (string, error) {
	var sb strings.Builder
	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sb.String(), nil
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "t":
			var content struct {
				Text string `xml:",chardata"`
			}
			if err := decoder.DecodeElement(&content, &se); err == nil {
				sb.WriteString(content.Text)
			}
		case "p":
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
		}
		if sb.Len() > firstPageTextCap*2 {
			break
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// parseDocxCoreProps reads title/creator/subject from docProps/core.xml.
func parseDocxCoreProps(r io.Reader, doc *preview.DocumentInfo) error {
	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		var content struct {
			Text string `xml:",chardata"`
		}
		switch se.Name.Local {
		case "title":
			if err := decoder.DecodeElement(&content, &se); err == nil {
				doc.Title = content.Text
			}
		case "creator":
			if err := decoder.DecodeElement(&content, &se); err == nil {
				doc.Author = content.Text
			}
		case "subject":
			if err := decoder.DecodeElement(&content, &se); err == nil {
				doc.Subject = content.Text
			}
		}
	}
}

// parseDocxPageCount reads the Pages property from docProps/app.xml.
func parseDocxPageCount(r io.Reader) int {
	decoder := xml.NewDecoder(r)
	for {
		tok, err := decoder.Token()
		if err != nil {
			return 0
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Pages" {
			continue
		}
		var content struct {
			Text string `xml:",chardata"`
		}
		if err := decoder.DecodeElement(&content, &se); err != nil {
			return 0
		}
		pages, _ := strconv.Atoi(strings.TrimSpace(content.Text))
		return pages
	}
}

// capText truncates s to at most limit bytes on a rune boundary.
func capText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
