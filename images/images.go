// Package images converts raster signature images into PDF image XObjects.
//
// PNG images are decoded and re-encoded as FlateDecode RGB samples with the
// alpha channel split into a DeviceGray soft mask. JPEG images are embedded
// as is with DCTDecode.
package images

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG format
	_ "image/png"  // register PNG format

	"golang.org/x/crypto/blake2b"
)

var (
	// ErrUnsupportedFormat is returned for data that is neither PNG nor JPEG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidDimensions is returned for images without pixels.
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)

// Format is the encoding of the source image.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// Image is an image resource identified by a content hash.
type Image struct {
	Name string // Identifier for the image
	Data []byte // Raw image data (JPEG or PNG)
	Hash string // BLAKE2b-256 of Data, hex encoded
}

// New returns an image resource for data.
func New(name string, data []byte) *Image {
	return &Image{Name: name, Data: data, Hash: Hash(data)}
}

// Hash returns the hex encoded BLAKE2b-256 digest of data.
func Hash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// PDFImage holds image samples ready to be written as a stream.
type PDFImage struct {
	Width            int
	Height           int
	ColorSpace       string
	BitsPerComponent int
	Filter           string
	Data             []byte
	// SMask is the soft mask, if the image has transparency.
	SMask *PDFImage
}

// Decode converts PNG or JPEG data into a PDFImage.
func Decode(data []byte) (*PDFImage, error) {
	switch detectFormat(data) {
	case FormatJPEG:
		return decodeJPEG(data)
	case FormatPNG:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode png: %w", err)
		}
		return FromImage(img)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// FromImage converts img into flate-compressed RGB samples. A soft mask is
// attached unless every pixel is opaque.
func FromImage(img image.Image) (*PDFImage, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	opaque := true
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			rgb = append(rgb, c.R, c.G, c.B)
			alpha = append(alpha, c.A)
			if c.A != 0xff {
				opaque = false
			}
		}
	}

	samples, err := compress(rgb)
	if err != nil {
		return nil, err
	}
	out := &PDFImage{
		Width:            w,
		Height:           h,
		ColorSpace:       "DeviceRGB",
		BitsPerComponent: 8,
		Filter:           "FlateDecode",
		Data:             samples,
	}
	if opaque {
		return out, nil
	}

	mask, err := compress(alpha)
	if err != nil {
		return nil, err
	}
	out.SMask = &PDFImage{
		Width:            w,
		Height:           h,
		ColorSpace:       "DeviceGray",
		BitsPerComponent: 8,
		Filter:           "FlateDecode",
		Data:             mask,
	}
	return out, nil
}

func decodeJPEG(data []byte) (*PDFImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image configuration: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrInvalidDimensions
	}
	cs := "DeviceRGB"
	switch cfg.ColorModel {
	case color.GrayModel:
		cs = "DeviceGray"
	case color.CMYKModel:
		cs = "DeviceCMYK"
	}
	return &PDFImage{
		Width:            cfg.Width,
		Height:           cfg.Height,
		ColorSpace:       cs,
		BitsPerComponent: 8,
		Filter:           "DCTDecode",
		Data:             data,
	}, nil
}

// Dictionary returns the stream dictionary of img. smask is the reference of
// the soft mask object and is omitted when empty.
func (img *PDFImage) Dictionary(smask string) string {
	var b bytes.Buffer
	b.WriteString("<<\n")
	b.WriteString("  /Type /XObject\n")
	b.WriteString("  /Subtype /Image\n")
	fmt.Fprintf(&b, "  /Width %d\n", img.Width)
	fmt.Fprintf(&b, "  /Height %d\n", img.Height)
	fmt.Fprintf(&b, "  /ColorSpace /%s\n", img.ColorSpace)
	fmt.Fprintf(&b, "  /BitsPerComponent %d\n", img.BitsPerComponent)
	fmt.Fprintf(&b, "  /Filter /%s\n", img.Filter)
	if smask != "" {
		fmt.Fprintf(&b, "  /SMask %s\n", smask)
	}
	fmt.Fprintf(&b, "  /Length %d\n", len(img.Data))
	b.WriteString(">>")
	return b.String()
}

func detectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return FormatJPEG
	default:
		return ""
	}
}

func compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
