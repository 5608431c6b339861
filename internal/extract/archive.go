package extract

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"preview-engine/internal/filetypes"
	"preview-engine/internal/logging"
	"preview-engine/internal/preview"
)

// archiveEntryCap bounds the number of entries included in a listing.
// Aggregate totals still cover the full entry set.
const archiveEntryCap = 100

// ArchiveExtractor previews archive files. Zip and tar families are listed
// natively; 7z and rar listings go through the 7z binary when it exists.
type ArchiveExtractor struct {
	counter

	// sevenZipAvailable records whether the 7z binary was found at construction.
	sevenZipAvailable bool
}

// NewArchiveExtractor creates the archive extractor, probing once for 7z.
func NewArchiveExtractor() *ArchiveExtractor {
	e := &ArchiveExtractor{sevenZipAvailable: toolAvailable("7z")}
	if !e.sevenZipAvailable {
		logging.Debug("7z not found, 7z/rar listings disabled")
	}
	return e
}

// NewArchiveExtractorWithTool creates the extractor with 7z capability
// forced, for tests that must not depend on the real binary.
func NewArchiveExtractorWithTool(available bool) *ArchiveExtractor {
	return &ArchiveExtractor{sevenZipAvailable: available}
}

// SevenZipAvailable reports whether 7z/rar listings are possible.
func (e *ArchiveExtractor) SevenZipAvailable() bool { return e.sevenZipAvailable }

// Name implements Extractor.
func (e *ArchiveExtractor) Name() string { return "archive" }

// Supports implements Extractor.
func (e *ArchiveExtractor) Supports(path string) bool {
	return filetypes.ArchiveExtensions[lowerExt(path)]
}

// listing accumulates entries with the display cap applied while totals keep
// covering every entry seen.
type listing struct {
	info preview.ArchiveInfo
}

func (l *listing) add(entry preview.ArchiveEntry) {
	l.info.EntryCount++
	l.info.TotalCompressed += entry.CompressedSize
	l.info.TotalUncompressed += entry.UncompressedSize

	if len(l.info.Entries) < archiveEntryCap {
		l.info.Entries = append(l.info.Entries, entry)
	} else {
		l.info.Truncated = true
	}
}

func (l *listing) finish() *preview.ArchiveInfo {
	if l.info.TotalUncompressed > 0 {
		ratio := 1 - float64(l.info.TotalCompressed)/float64(l.info.TotalUncompressed)
		l.info.CompressionRatio = ratio * 100
	}
	return &l.info
}

// Generate implements Extractor.
func (e *ArchiveExtractor) Generate(path string) *preview.Record {
	e.inc()

	fileInfo, err := os.Stat(path)
	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot stat file: %v", err), 0)
	}
	size := fileInfo.Size()

	var archiveInfo *preview.ArchiveInfo

	switch lowerExt(path) {
	case ".zip", ".jar":
		archiveInfo, err = listZip(path)
	case ".tar":
		archiveInfo, err = listTar(path, false, size)
	case ".tgz":
		archiveInfo, err = listTar(path, true, size)
	case ".gz":
		if strings.HasSuffix(strings.ToLower(path), ".tar.gz") {
			archiveInfo, err = listTar(path, true, size)
		} else {
			archiveInfo, err = listGzip(path, size)
		}
	case ".7z", ".rar":
		if !e.sevenZipAvailable {
			// Capability unavailable: an empty listing, not a failure.
			logging.Debug("cannot list %s without 7z", path)
			archiveInfo = &preview.ArchiveInfo{}
		} else {
			archiveInfo, err = e.listSevenZip(path)
		}
	default:
		err = fmt.Errorf("unsupported archive format")
	}

	if err != nil {
		return preview.NewError(fmt.Sprintf("cannot list archive: %v", err), size)
	}

	return &preview.Record{Kind: preview.KindArchive, FileSize: size, Archive: archiveInfo}
}

func listZip(path string) (*preview.ArchiveInfo, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var l listing
	for _, f := range zr.File {
		l.add(preview.ArchiveEntry{
			Name:             f.Name,
			CompressedSize:   int64(f.CompressedSize64),
			UncompressedSize: int64(f.UncompressedSize64),
			IsDir:            f.FileInfo().IsDir(),
			Modified:         f.Modified,
		})
	}
	return l.finish(), nil
}

// listTar lists tar and tar.gz archives. Tar stores no per-entry compressed
// size; for plain tar the entry is stored as-is, and for tar.gz the archive
// file size stands in for the compressed total.
func listTar(path string, gzipped bool, size int64) (*preview.ArchiveInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	var l listing
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		entry := preview.ArchiveEntry{
			Name:             hdr.Name,
			UncompressedSize: hdr.Size,
			IsDir:            hdr.Typeflag == tar.TypeDir,
			Modified:         hdr.ModTime,
		}
		if !gzipped {
			entry.CompressedSize = hdr.Size
		}
		l.add(entry)
	}

	info := l.finish()
	if gzipped {
		info.TotalCompressed = size
		if info.TotalUncompressed > 0 {
			info.CompressionRatio = (1 - float64(size)/float64(info.TotalUncompressed)) * 100
		}
	}
	return info, nil
}

// listGzip treats a bare .gz as a single-entry archive, reading through the
// stream to learn the uncompressed size.
func listGzip(path string, size int64) (*preview.ArchiveInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	uncompressed, err := io.Copy(io.Discard, gz)
	if err != nil {
		return nil, err
	}

	name := gz.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".gz")
	}

	info, err := os.Stat(path)
	modified := time.Time{}
	if err == nil {
		modified = info.ModTime()
	}
	if !gz.ModTime.IsZero() {
		modified = gz.ModTime
	}

	var l listing
	l.add(preview.ArchiveEntry{
		Name:             name,
		CompressedSize:   size,
		UncompressedSize: uncompressed,
		Modified:         modified,
	})
	return l.finish(), nil
}

// listSevenZip parses `7z l -slt` technical output, which emits one
// key = value block per entry separated by blank lines.
func (e *ArchiveExtractor) listSevenZip(path string) (*preview.ArchiveInfo, error) {
	out, err := runTool("7z", "l", "-slt", path)
	if err != nil {
		return nil, err
	}

	var l listing
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	inEntries := false
	var entry preview.ArchiveEntry
	var haveEntry bool

	flush := func() {
		if haveEntry && entry.Name != "" {
			l.add(entry)
		}
		entry = preview.ArchiveEntry{}
		haveEntry = false
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "----------") {
			inEntries = true
			continue
		}
		if !inEntries {
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		key, value, found := strings.Cut(line, " = ")
		if !found {
			continue
		}
		switch key {
		case "Path":
			entry.Name = value
			haveEntry = true
		case "Size":
			entry.UncompressedSize, _ = strconv.ParseInt(value, 10, 64)
		case "Packed Size":
			entry.CompressedSize, _ = strconv.ParseInt(value, 10, 64)
		case "Folder":
			entry.IsDir = value == "+"
		case "Attributes":
			if strings.HasPrefix(value, "D") {
				entry.IsDir = true
			}
		case "Modified":
			if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
				entry.Modified = t
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return l.finish(), nil
}
