package optimiser

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/chai2010/webp"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	_ "golang.org/x/image/webp"
)

type fakeEncoder struct {
	quality int
	bounds  image.Rectangle
	err     error
}

func (f *fakeEncoder) Encode(img image.Image, quality int, w io.Writer) error {
	f.quality = quality
	f.bounds = img.Bounds()
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("RIFF"))
	return err
}

// helper: generate a grayscale JPEG of the given size
func generateJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.SetGray(x, x%h, color.Gray{Y: 200})
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("failed to generate JPEG: %v", err)
	}
	return buf.Bytes()
}

// helper: generate a fully transparent PNG
func generateTransparentPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 0})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to generate PNG: %v", err)
	}
	return buf.Bytes()
}

func decodeOutput(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding output failed: %v", err)
	}
	if format != "webp" {
		t.Fatalf("expected format 'webp', got %q", format)
	}
	return img
}

func newTestTranscoder() *Transcoder {
	return NewTranscoder(DefaultSettings(), ChaiWebP{})
}

func TestTranscode_DownscalesWideImage(t *testing.T) {
	out, err := newTestTranscoder().Transcode(bytes.NewReader(generateJPEG(t, 5000, 3000)))
	if err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}
	if out.Width != 1920 || out.Height != 1152 {
		t.Fatalf("output is %dx%d; want 1920x1152", out.Width, out.Height)
	}
	if out.SourceWidth != 5000 || out.SourceHeight != 3000 {
		t.Errorf("source is %dx%d; want 5000x3000", out.SourceWidth, out.SourceHeight)
	}
	if out.ContentType != "image/webp" || out.Extension != ".webp" {
		t.Errorf("unexpected format %q %q", out.ContentType, out.Extension)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
	if err != nil || format != "webp" {
		t.Fatalf("output is not webp: %v %q", err, format)
	}
	if cfg.Width != 1920 || cfg.Height != 1152 {
		t.Errorf("encoded image is %dx%d", cfg.Width, cfg.Height)
	}
}

func TestTranscode_NeverUpscales(t *testing.T) {
	out, err := newTestTranscoder().Transcode(bytes.NewReader(generateJPEG(t, 800, 600)))
	if err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}
	img := decodeOutput(t, out.Data)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Errorf("decoded WebP has wrong dimensions: got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestTranscode_ExactlyMaxWidth(t *testing.T) {
	enc := &fakeEncoder{}
	tc := NewTranscoder(Settings{MaxWidth: 64, Quality: 85}, enc)

	if _, err := tc.Transcode(bytes.NewReader(generateJPEG(t, 64, 10))); err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}
	if enc.bounds.Dx() != 64 || enc.bounds.Dy() != 10 {
		t.Errorf("encoder got %v", enc.bounds)
	}
}

func TestTranscode_FlattensAlpha(t *testing.T) {
	out, err := newTestTranscoder().Transcode(bytes.NewReader(generateTransparentPNG(t, 32, 32)))
	if err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}
	img := decodeOutput(t, out.Data)
	if _, ok := img.(*image.NYCbCrA); ok {
		t.Fatal("output still carries an alpha plane")
	}
	r, g, b, a := img.At(16, 16).RGBA()
	if a != 0xffff {
		t.Errorf("pixel alpha = %d; want opaque", a)
	}
	if r>>8 > 32 || g>>8 > 32 || b>>8 > 32 {
		t.Errorf("transparent pixels should flatten to black, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestTranscode_Formats(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		src.Set(x, 10, color.RGBA{B: 255, A: 255})
	}

	gifBuf := &bytes.Buffer{}
	if err := gif.Encode(gifBuf, src, nil); err != nil {
		t.Fatal(err)
	}
	webpBuf := &bytes.Buffer{}
	if err := webp.Encode(webpBuf, src, &webp.Options{Quality: 80}); err != nil {
		t.Fatal(err)
	}

	for name, data := range map[string][]byte{"gif": gifBuf.Bytes(), "webp": webpBuf.Bytes()} {
		out, err := newTestTranscoder().Transcode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: Transcode returned error: %v", name, err)
		}
		img := decodeOutput(t, out.Data)
		if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
			t.Errorf("%s: got %v", name, img.Bounds())
		}
	}
}

func TestTranscode_Deterministic(t *testing.T) {
	data := generateTransparentPNG(t, 50, 30)
	tc := newTestTranscoder()

	first, err := tc.Transcode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	second, err := tc.Transcode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	a, b := decodeOutput(t, first.Data), decodeOutput(t, second.Data)
	if a.Bounds() != b.Bounds() {
		t.Errorf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	if a.ColorModel() != b.ColorModel() {
		t.Error("colour models differ")
	}
}

func TestTranscode_Quality(t *testing.T) {
	enc := &fakeEncoder{}
	tc := NewTranscoder(Settings{MaxWidth: 1920, Quality: 42}, enc)

	if _, err := tc.Transcode(bytes.NewReader(generateJPEG(t, 10, 10))); err != nil {
		t.Fatal(err)
	}
	if enc.quality != 42 {
		t.Errorf("quality = %d; want 42", enc.quality)
	}
}

func TestTranscode_Errors(t *testing.T) {
	_, err := newTestTranscoder().Transcode(bytes.NewReader([]byte("some plain text")))
	if !errors.Is(err, imageUC.ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}

	tc := NewTranscoder(DefaultSettings(), &fakeEncoder{err: errors.New("boom")})
	_, err = tc.Transcode(bytes.NewReader(generateJPEG(t, 10, 10)))
	if err == nil || errors.Is(err, imageUC.ErrDecode) {
		t.Errorf("expected encode error, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"photo.png":        "photo.webp",
		"photo.final.JPEG": "photo.final.webp",
		"noext":            "noext.webp",
		"dir/pic.gif":      "pic.webp",
		`C:\pics\pic.gif`:  "pic.webp",
		"":                 "image.webp",
		".png":             "image.webp",
	}
	tc := newTestTranscoder()
	for in, want := range tests {
		if got := tc.Filename(in); got != want {
			t.Errorf("Filename(%q) = %q; want %q", in, got, want)
		}
	}
}
