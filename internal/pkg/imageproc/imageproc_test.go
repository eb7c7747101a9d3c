package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPreviewDownscalesKeepingAspect(t *testing.T) {
	out, mediaType, err := Preview(pngBytes(t, 400, 200), 100, "")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if mediaType != "image/jpeg" {
		t.Fatalf("media type = %q", mediaType)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("preview size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestPreviewKeepsSmallImages(t *testing.T) {
	out, _, err := Preview(pngBytes(t, 40, 30), 100, FormatJPEG)
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("preview size = %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestDecodeRejectsNonImages(t *testing.T) {
	_, err := Decode([]byte("plain text, not an image"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := Decode(nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for empty input, got %v", err)
	}
}

func TestPreviewUnknownFormat(t *testing.T) {
	if _, _, err := Preview(pngBytes(t, 10, 10), 5, "gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
