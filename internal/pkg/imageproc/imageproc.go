// Package imageproc renders downscaled previews of stored avatars.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

const (
	FormatJPEG = "jpeg"
	FormatWebP = "webp"

	DefaultMaxWidth = 128
	MaxWidthLimit   = 1024
	jpegQuality     = 85
	webpQuality     = 80
)

// ErrUnsupportedFormat is returned for content that is not a jpeg, png or webp image
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode sniffs the content type and decodes jpeg, png and webp images
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrUnsupportedFormat)
	}

	mtype := mimetype.Detect(data)
	var (
		img image.Image
		err error
	)
	switch {
	case mtype.Is("image/jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(data))
	case mtype.Is("image/png"):
		img, err = png.Decode(bytes.NewReader(data))
	case mtype.Is("image/webp"):
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", mtype.String(), err)
	}
	return img, nil
}

// Downscale shrinks src to at most maxW pixels wide keeping the aspect ratio. Smaller images are
// returned unchanged.
func Downscale(src image.Image, maxW int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW <= 0 || w <= maxW {
		return src
	}

	scale := float64(maxW) / float64(w)
	nw := maxW
	nh := max(int(math.Round(float64(h)*scale)), 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Preview decodes data, downscales it to maxW and encodes it in format.
// It returns the encoded bytes and their media type.
func Preview(data []byte, maxW int, format string) ([]byte, string, error) {
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}
	maxW = min(maxW, MaxWidthLimit)

	img, err := Decode(data)
	if err != nil {
		return nil, "", err
	}
	img = Downscale(img, maxW)

	buf := new(bytes.Buffer)
	switch strings.ToLower(format) {
	case "", FormatJPEG, "jpg":
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", fmt.Errorf("failed to encode jpeg preview: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	case FormatWebP:
		if err := webp.Encode(buf, img, &webp.Options{Quality: webpQuality}); err != nil {
			return nil, "", fmt.Errorf("failed to encode webp preview: %w", err)
		}
		return buf.Bytes(), "image/webp", nil
	default:
		return nil, "", fmt.Errorf("%w: preview format %q", ErrUnsupportedFormat, format)
	}
}
