package product

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
	apperrors "github.com/Reagan-marera/imoflames-sub000/pkg/errors"
)

const (
	// DefaultMaxDimension bounds the longer side of uploaded images.
	DefaultMaxDimension = 1600

	jpegQuality = 85
)

// encodable maps the image types imaging can re-encode.
var encodable = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
	"image/bmp":  imaging.BMP,
	"image/tiff": imaging.TIFF,
}

// ImageProcessor checks and shrinks images before upload.
type ImageProcessor struct {
	maxDim int
}

// NewImageProcessor creates a processor that downscales images whose longer
// side exceeds maxDim. A non-positive maxDim uses DefaultMaxDimension.
func NewImageProcessor(maxDim int) *ImageProcessor {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	return &ImageProcessor{maxDim: maxDim}
}

// Prepare validates that img holds image content, judged by its bytes rather
// than its name, and downscales it when it is too large. Formats that cannot
// be re-encoded are passed through unchanged.
func (p *ImageProcessor) Prepare(img domain.Image) (domain.Image, error) {
	mtype := mimetype.Detect(img.Data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return domain.Image{}, apperrors.InvalidInput(fmt.Sprintf("%s: %s", MsgImagesOnly, img.Filename))
	}
	img.ContentType = mtype.String()

	format, ok := encodable[img.ContentType]
	if !ok {
		return img, nil
	}

	src, err := imaging.Decode(bytes.NewReader(img.Data), imaging.AutoOrientation(true))
	if err != nil {
		return domain.Image{}, apperrors.InvalidInput(fmt.Sprintf("%s: %s", MsgImageUnreadable, img.Filename))
	}

	b := src.Bounds()
	if b.Dx() <= p.maxDim && b.Dy() <= p.maxDim {
		return img, nil
	}

	dst := imaging.Fit(src, p.maxDim, p.maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return domain.Image{}, fmt.Errorf("encode %s: %w", img.Filename, err)
	}
	img.Data = buf.Bytes()
	return img, nil
}
