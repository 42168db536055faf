package candidate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestOpenDetectsPDF(t *testing.T) {
	path := writeFile(t, "cv.pdf", []byte("%PDF-1.4\n% not a real document\n"))

	file, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.Name != "cv.pdf" {
		t.Fatalf("unexpected name: %q", file.Name)
	}
	if file.MediaType != MediaTypePDF {
		t.Fatalf("expected %s, got %s", MediaTypePDF, file.MediaType)
	}
	if file.Size != int64(len("%PDF-1.4\n% not a real document\n")) {
		t.Fatalf("unexpected size: %d", file.Size)
	}
	if file.Pages != 0 {
		t.Fatalf("expected unknown page count for a broken document, got %d", file.Pages)
	}

	if err := Validate(file); err != nil {
		t.Fatalf("expected valid candidate, got %v", err)
	}
}

func TestOpenSniffsContentOverExtension(t *testing.T) {
	path := writeFile(t, "cv.pdf", []byte("just some text pretending to be a pdf"))

	file, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if file.MediaType == MediaTypePDF {
		t.Fatalf("text content must not be detected as pdf")
	}
	if !errors.Is(Validate(file), ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", Validate(file))
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.pdf")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOpenDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file *File
		want error
	}{
		{name: "nil", file: nil, want: ErrMissing},
		{name: "word document", file: &File{Name: "cv.docx", Size: 100, MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}, want: ErrNotPDF},
		{name: "empty media type", file: &File{Name: "cv", Size: 100}, want: ErrNotPDF},
		{name: "pdf with parameters", file: &File{Name: "cv.pdf", Size: 100, MediaType: "application/pdf; x=1"}, want: ErrNotPDF},
		{name: "too large", file: &File{Name: "cv.pdf", Size: MaxSize + 1, MediaType: MediaTypePDF}, want: ErrTooLarge},
		{name: "exactly max", file: &File{Name: "cv.pdf", Size: MaxSize, MediaType: MediaTypePDF}, want: nil},
		{name: "empty pdf", file: &File{Name: "cv.pdf", Size: 0, MediaType: MediaTypePDF}, want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Validate(tt.file); !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestReader(t *testing.T) {
	path := writeFile(t, "cv.pdf", []byte("%PDF-1.4\n"))

	file, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := file.Reader()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.Close()

	var empty *File
	if _, err := empty.Reader(); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}
