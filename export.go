package pixlab

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ImageFormat is a raster export format.
type ImageFormat uint8

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
	FormatBMP
	FormatTIFF
)

// ErrUnsupportedFormat is returned for file extensions with no encoder.
var ErrUnsupportedFormat = errors.New("pixlab: unsupported image format")

// String returns the lower-case format name.
func (f ImageFormat) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	default:
		return fmt.Sprintf("ImageFormat(%d)", uint8(f))
	}
}

// FormatFromPath picks the format from a file extension. A path without an
// extension is exported as PNG.
func FormatFromPath(path string) (ImageFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Upscale enlarges img by an integer factor with nearest-neighbor sampling,
// so every canvas pixel becomes a crisp scale x scale block. A scale of 1 or
// less returns img unchanged.
func Upscale(img *image.NRGBA, scale int) *image.NRGBA {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodeImage writes img to w in format f after upscaling it by scale.
// JPEG has no alpha channel; transparent pixels are written as their color
// channels over black.
func EncodeImage(w io.Writer, img *image.NRGBA, f ImageFormat, scale int) error {
	img = Upscale(img, scale)
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// ExportImage composites the document and encodes the flattened image.
func ExportImage(w io.Writer, view DocumentView, f ImageFormat, scale int) error {
	return EncodeImage(w, Composite(view), f, scale)
}
