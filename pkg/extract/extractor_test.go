package extract

import (
	"errors"
	"testing"
)

func TestFromBytesPlainText(t *testing.T) {
	content := []byte("当期の売上高は増加しました。")

	for _, mime := range []string{"text/plain", "text/markdown", "text/plain; charset=utf-8", "TEXT/PLAIN"} {
		result, err := FromBytes(content, mime)
		if err != nil {
			t.Fatalf("FromBytes(%q): %v", mime, err)
		}
		if result.Text != string(content) {
			t.Errorf("text mangled for %q: %q", mime, result.Text)
		}
		if result.PageCount != 0 {
			t.Errorf("plain text has no pages, got %d", result.PageCount)
		}
	}
}

func TestFromBytesUnsupported(t *testing.T) {
	_, err := FromBytes([]byte("x"), "application/msword")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestFromBytesBrokenPDF(t *testing.T) {
	_, err := FromBytes([]byte("not a pdf"), "application/pdf")
	if err == nil {
		t.Error("garbage bytes must not extract as PDF")
	}
}

func TestMimeFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"決算資料.PDF", "application/pdf"},
		{"memo.txt", "text/plain"},
		{"readme.md", "text/markdown"},
		{"archive.zip", ""},
		{"noextension", ""},
	}
	for _, tt := range tests {
		if got := MimeFromFilename(tt.name); got != tt.want {
			t.Errorf("MimeFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
