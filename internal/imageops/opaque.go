package imageops

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// Opaque drops the alpha channel, keeping each pixel's colour as stored.
// Nothing is blended against a background.
func Opaque(img image.Image) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.A = 255
		return c
	})
}

// HasAlpha reports whether any pixel of img is not fully opaque.
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// StripAlphaFile writes an opaque copy of src to dst. When src has no
// translucent pixels nothing is written and stripped is false.
func StripAlphaFile(src, dst string) (stripped bool, err error) {
	img, err := imaging.Open(src)
	if err != nil {
		return false, fmt.Errorf("failed to open image: %w", err)
	}
	if !HasAlpha(img) {
		return false, nil
	}
	if err := imaging.Save(Opaque(img), dst); err != nil {
		return false, fmt.Errorf("failed to save image: %w", err)
	}
	return true, nil
}

// EncodingFormat maps a user-facing format name to an imaging format and the
// file extension to write.
func EncodingFormat(name string) (imaging.Format, string, error) {
	switch strings.ToLower(name) {
	case "", "png":
		return imaging.PNG, ".png", nil
	case "jpg", "jpeg":
		return imaging.JPEG, ".jpg", nil
	case "tif", "tiff":
		return imaging.TIFF, ".tif", nil
	case "gif":
		return imaging.GIF, ".gif", nil
	case "bmp":
		return imaging.BMP, ".bmp", nil
	}
	return 0, "", fmt.Errorf("unsupported image format %q", name)
}
