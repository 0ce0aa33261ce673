// Package imageio saves and loads render buffers as image files.
//
// Supported formats are PNG, BMP, TGA and WebP. WebP is written lossless.
// Every decoder is registered with the standard image package, so
// image.Decode also recognizes them once imageio is imported.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"

	"github.com/gogpu/renderbuf"
)

// ErrUnknownFormat is returned for file names or format names that map to
// no supported format.
var ErrUnknownFormat = errors.New("imageio: unknown image format")

// Format is an on-disk image format.
type Format int

// Supported formats.
const (
	PNG Format = iota + 1
	BMP
	TGA
	WebP
)

var formatNames = map[Format]string{
	PNG:  "png",
	BMP:  "bmp",
	TGA:  "tga",
	WebP: "webp",
}

// String returns the lower-case format name, which is also the name
// image.Decode reports.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the canonical file extension, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat maps a format name such as "png" or "WebP" to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	if name == "targa" {
		return TGA, nil
	}
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Encode writes buf to w in format f.
func Encode(w io.Writer, buf *renderbuf.RenderBuffer, f Format) error {
	img := buf.ToNRGBA()
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TGA:
		err = tga.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %v: %w", f, err)
	}
	return nil
}

// Decode reads an image in any supported format and converts it to a
// buffer. It returns the format name as reported by image.Decode.
func Decode(r io.Reader) (*renderbuf.RenderBuffer, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	return renderbuf.FromImage(img), name, nil
}

// DecodeFormat reads an image in the given format. TGA files carry no
// signature, so they must be decoded this way rather than sniffed.
func DecodeFormat(r io.Reader, f Format) (*renderbuf.RenderBuffer, error) {
	var (
		img image.Image
		err error
	)
	switch f {
	case PNG:
		img, err = png.Decode(r)
	case BMP:
		img, err = bmp.Decode(r)
	case TGA:
		img, err = tga.Decode(r)
	case WebP:
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("imageio: decode %v: %w", f, err)
	}
	return renderbuf.FromImage(img), nil
}

// Save writes buf to path in the format implied by its extension.
func Save(path string, buf *renderbuf.RenderBuffer) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("imageio: %w", cerr)
		}
	}()

	w := bufio.NewWriter(file)
	if err := Encode(w, buf, f); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("imageio: %w", err)
	}
	renderbuf.Logger().Debug("imageio: saved", "path", path, "format", f.String(),
		"width", buf.Width(), "height", buf.Height())
	return nil
}

// Load reads the image at path, using the format implied by its extension.
func Load(path string) (*renderbuf.RenderBuffer, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: %w", err)
	}
	defer file.Close()

	buf, err := DecodeFormat(bufio.NewReader(file), f)
	if err != nil {
		return nil, err
	}
	renderbuf.Logger().Debug("imageio: loaded", "path", path, "format", f.String(),
		"width", buf.Width(), "height", buf.Height())
	return buf, nil
}
