package optimiser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth = 1920
	DefaultQuality  = 85

	contentType = "image/webp"
	extension   = ".webp"
)

// Settings are the operational transcoding defaults.
type Settings struct {
	MaxWidth int `validate:"gt=0" json:"max_width"`
	Quality  int `validate:"min=1,max=100" json:"quality"`
}

func DefaultSettings() Settings {
	return Settings{MaxWidth: DefaultMaxWidth, Quality: DefaultQuality}
}

type Transcoder struct {
	settings Settings
	webpEnc  WebPEncoder
}

// compile-time check: *Transcoder must satisfy port.Transcoder
var _ port.Transcoder = (*Transcoder)(nil)

func NewTranscoder(settings Settings, webpEnc WebPEncoder) *Transcoder {
	logger.Infof(context.Background(), "initialising transcoder (max width %dpx, quality %d)...", settings.MaxWidth, settings.Quality)
	return &Transcoder{settings: settings, webpEnc: webpEnc}
}

// Transcode decodes r, flattens alpha and palette images onto black,
// downscales anything wider than MaxWidth and re-encodes as lossy WebP.
func (t *Transcoder) Transcode(r io.Reader) (*port.TranscodeOutput, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imageUC.ErrDecode, err)
	}
	b := src.Bounds()

	img := flatten(src)
	if b.Dx() > t.settings.MaxWidth {
		h := int(math.Round(float64(b.Dy()) * float64(t.settings.MaxWidth) / float64(b.Dx())))
		img = imaging.Resize(img, t.settings.MaxWidth, max(h, 1), imaging.Lanczos)
	}

	buf := &bytes.Buffer{}
	if err := t.webpEnc.Encode(img, t.settings.Quality, buf); err != nil {
		return nil, fmt.Errorf("optimiser: failed to encode WebP: %w", err)
	}

	return &port.TranscodeOutput{
		Data:         buf.Bytes(),
		ContentType:  contentType,
		Extension:    extension,
		Width:        img.Bounds().Dx(),
		Height:       img.Bounds().Dy(),
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
	}, nil
}

// Filename swaps the extension of original for ".webp".
func (t *Transcoder) Filename(original string) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	name := strings.TrimSuffix(base, path.Ext(base))
	if name == "" || name == "." || name == "/" {
		name = "image"
	}
	return name + extension
}

// flatten composites images with an alpha channel or a palette onto an
// opaque black canvas. Other colour models are returned untouched.
func flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Paletted, *image.NYCbCrA:
	default:
		return img
	}
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.NRGBA{A: 255})
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
