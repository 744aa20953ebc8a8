package image

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	httputil "github.com/jmylchreest/moodboard/internal/util/http"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// headerOnlyPNG returns a PNG signature and IHDR chunk declaring a
// width x height greyscale image with no pixel data.
func headerOnlyPNG(width, height uint32) []byte {
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	_ = binary.Write(&ihdr, binary.BigEndian, width)
	_ = binary.Write(&ihdr, binary.BigEndian, height)
	ihdr.Write([]byte{8, 0, 0, 0, 0}) // 8-bit greyscale, no interlace

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(ihdr.Len()-4))
	buf.Write(ihdr.Bytes())
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))
	return buf.Bytes()
}

func TestDecodeRejectsOversizedDimensions(t *testing.T) {
	data := headerOnlyPNG(100_000, 100_000)
	if len(data) > 64 {
		t.Fatalf("header is %d bytes, expected a tiny file", len(data))
	}

	_, err := Decode("huge.png", data)
	if err == nil {
		t.Fatal("Decode() expected error for a 100000x100000 image")
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v, want a pixel bound error", err)
	}

	if err := checkDimensions(10_000, 5_000); err != nil {
		t.Errorf("checkDimensions(10000, 5000) = %v, want nil", err)
	}
	if err := checkDimensions(10_000, 5_001); err == nil {
		t.Error("checkDimensions(10000, 5001) expected error")
	}
}

func TestDecodeErrorNamesExtension(t *testing.T) {
	_, err := Decode("notes.txt", []byte("not an image"))
	if err == nil {
		t.Fatal("Decode() expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, ".txt") {
		t.Errorf("error %q should name the extension", msg)
	}
	if strings.Contains(msg, "format: )") {
		t.Errorf("error %q has an empty format", msg)
	}
}

func TestDecode(t *testing.T) {
	data := pngBytes(t)

	src, err := Decode("upload.png", data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.Format != "png" {
		t.Errorf("Format = %q, want png", src.Format)
	}
	if got := src.Image.Bounds().Dx(); got != 4 {
		t.Errorf("width = %d, want 4", got)
	}
	if !bytes.Equal(src.Data, data) {
		t.Error("Data should hold the original bytes")
	}

	if _, err := Decode("empty", nil); err == nil {
		t.Error("Decode() expected error for empty data")
	}
	if _, err := Decode("junk", []byte("not an image")); err == nil {
		t.Error("Decode() expected error for junk data")
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.png")
	if err := os.WriteFile(path, pngBytes(t), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := NewFileLoader()
	ctx := context.Background()

	src, err := loader.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.Name != "board.png" {
		t.Errorf("Name = %q, want board.png", src.Name)
	}

	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", filepath.Join(dir, "nope.png")},
		{"directory", dir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(ctx, tt.path); err == nil {
				t.Errorf("Load(%q) expected error", tt.path)
			}
		})
	}
}

func TestSmartLoaderURL(t *testing.T) {
	data := pngBytes(t)
	var fetched string
	loader := NewSmartLoader()
	loader.fetch = func(_ context.Context, url string, opts httputil.FetchOptions) ([]byte, error) {
		fetched = url
		if opts.MaxBytes != MaxImageBytes {
			t.Errorf("MaxBytes = %d, want %d", opts.MaxBytes, MaxImageBytes)
		}
		return data, nil
	}

	src, err := loader.Load(context.Background(), "https://example.com/a.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fetched != "https://example.com/a.png" {
		t.Errorf("fetched %q", fetched)
	}
	if src.Format != "png" {
		t.Errorf("Format = %q, want png", src.Format)
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.png")
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(good, pngBytes(t), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("text"), 0o600); err != nil {
		t.Fatal(err)
	}
	wrongExt := filepath.Join(dir, "ok.txt")
	if err := os.WriteFile(wrongExt, pngBytes(t), 0o600); err != nil {
		t.Fatal(err)
	}
	huge := filepath.Join(dir, "huge.png")
	if err := os.WriteFile(huge, headerOnlyPNG(100_000, 100_000), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		wantErr bool
	}{
		{good, false},
		{"https://example.com/x.jpg", false},
		{"http://127.0.0.1:8080/x.jpg", true},
		{bad, true},
		{wrongExt, true},
		{huge, true},
		{dir, true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateImagePath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"a.JPG":  true,
		"b.webp": true,
		"c.bmp":  true,
		"d.txt":  false,
		"e":      false,
	}
	for path, want := range tests {
		if got := IsImageFile(path); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", path, got, want)
		}
	}
}
