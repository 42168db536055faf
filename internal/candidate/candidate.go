// Package candidate describes the résumé file a user selects for matching.
package candidate

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

const (
	// MediaTypePDF is the only media type accepted for submission.
	MediaTypePDF = "application/pdf"
	// MaxSize is the largest accepted file size in bytes (10 MiB).
	MaxSize int64 = 10 * 1024 * 1024

	sniffLen = 512
)

var (
	ErrNotPDF   = errors.New("please choose a PDF file")
	ErrTooLarge = errors.New("file is too large, please choose a file under 10MB")
	ErrMissing  = errors.New("please choose a CV file")
)

// File is a user-selected document.
type File struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MediaType string `json:"media_type"`
	Path      string `json:"path,omitempty"`
	// Pages is informational only, zero when the document could not be inspected.
	Pages int `json:"pages,omitempty"`
}

// Open inspects the file at path and builds a File from it. The media type is
// sniffed from the content and falls back to the extension. Open does not
// validate; use Validate for that.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	file := &File{
		Name:      filepath.Base(path),
		Size:      stat.Size(),
		MediaType: detectMediaType(head[:n], path),
		Path:      path,
	}

	if file.MediaType == MediaTypePDF && file.Size <= MaxSize {
		file.Pages = countPages(f, file.Size)
	}

	return file, nil
}

// Validate reports whether the file may be submitted.
func Validate(f *File) error {
	if f == nil {
		return ErrMissing
	}
	if f.MediaType != MediaTypePDF {
		return ErrNotPDF
	}
	if f.Size > MaxSize {
		return ErrTooLarge
	}
	return nil
}

// Reader opens the underlying document for reading.
func (f *File) Reader() (io.ReadCloser, error) {
	if f == nil || f.Path == "" {
		return nil, ErrMissing
	}
	return os.Open(f.Path)
}

func detectMediaType(head []byte, path string) string {
	sniffed := http.DetectContentType(head)
	if sniffed != "application/octet-stream" {
		return sniffed
	}

	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}

	return sniffed
}

// countPages returns the page count or zero. The pdf reader panics on some
// malformed documents.
func countPages(r io.ReaderAt, size int64) (pages int) {
	defer func() {
		if recover() != nil {
			pages = 0
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return 0
	}

	return reader.NumPage()
}
