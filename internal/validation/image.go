package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strings"

	"github.com/fhuszti/images-ms-go/internal/port"
	imageUC "github.com/fhuszti/images-ms-go/internal/usecase/image"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

var acceptedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Ratio is an accepted width:height proportion.
type Ratio struct {
	Num int `validate:"gt=0" json:"num"`
	Den int `validate:"gt=0" json:"den"`
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Num, r.Den)
}

// ImageRules configures the upload gate. Zero bounds are not checked.
type ImageRules struct {
	SizeLimitMB  int     `validate:"gt=0" json:"size_limit_mb"`
	MinWidth     int     `validate:"gte=0" json:"min_width"`
	MaxWidth     int     `validate:"omitempty,gtefield=MinWidth" json:"max_width"`
	MinHeight    int     `validate:"gte=0" json:"min_height"`
	MaxHeight    int     `validate:"omitempty,gtefield=MinHeight" json:"max_height"`
	AspectRatios []Ratio `validate:"dive" json:"aspect_ratios"`
	Tolerance    float64 `validate:"gte=0" json:"tolerance"`
}

// SizeViolation is the message reported for uploads over limitMB.
func SizeViolation(limitMB int) string {
	return fmt.Sprintf("Image size must be less than %d MB.", limitMB)
}

type imageValidator struct {
	rules ImageRules
}

// compile-time check: *imageValidator must satisfy port.ImageValidator
var _ port.ImageValidator = (*imageValidator)(nil)

func NewImageValidator(rules ImageRules) port.ImageValidator {
	return &imageValidator{rules: rules}
}

// Validate checks size, dimensions and aspect ratio of the image read from r.
// r is left at the offset it had on entry.
func (v *imageValidator) Validate(r io.ReadSeeker, size int64) (violations []string, err error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("reading stream position: %w", err)
	}
	defer func() {
		if _, sErr := r.Seek(start, io.SeekStart); sErr != nil && err == nil {
			violations, err = nil, fmt.Errorf("rewinding stream: %w", sErr)
		}
	}()

	if limit := int64(v.rules.SizeLimitMB) * 1024 * 1024; size > limit {
		violations = append(violations, SizeViolation(v.rules.SizeLimitMB))
	}

	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: sniffing content: %w", imageUC.ErrDecode, err)
	}
	if !mimetype.EqualsAny(mt.String(), acceptedTypes...) {
		return nil, fmt.Errorf("%w: unsupported content type %s", imageUC.ErrDecode, mt.String())
	}

	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding stream: %w", err)
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imageUC.ErrDecode, err)
	}

	violations = append(violations, v.checkDimensions(cfg.Width, cfg.Height)...)
	if msg, ok := v.checkRatio(cfg.Width, cfg.Height); !ok {
		violations = append(violations, msg)
	}
	return violations, nil
}

func (v *imageValidator) checkDimensions(w, h int) []string {
	var out []string
	if v.rules.MinWidth > 0 && w < v.rules.MinWidth {
		out = append(out, fmt.Sprintf("Image width must be at least %dpx.", v.rules.MinWidth))
	}
	if v.rules.MaxWidth > 0 && w > v.rules.MaxWidth {
		out = append(out, fmt.Sprintf("Image width must be at most %dpx.", v.rules.MaxWidth))
	}
	if v.rules.MinHeight > 0 && h < v.rules.MinHeight {
		out = append(out, fmt.Sprintf("Image height must be at least %dpx.", v.rules.MinHeight))
	}
	if v.rules.MaxHeight > 0 && h > v.rules.MaxHeight {
		out = append(out, fmt.Sprintf("Image height must be at most %dpx.", v.rules.MaxHeight))
	}
	return out
}

// checkRatio passes when w/h is within tolerance of any accepted ratio.
func (v *imageValidator) checkRatio(w, h int) (string, bool) {
	if len(v.rules.AspectRatios) == 0 {
		return "", true
	}
	if h > 0 {
		actual := float64(w) / float64(h)
		for _, r := range v.rules.AspectRatios {
			if math.Abs(actual-float64(r.Num)/float64(r.Den)) <= v.rules.Tolerance {
				return "", true
			}
		}
	}

	names := make([]string, len(v.rules.AspectRatios))
	for i, r := range v.rules.AspectRatios {
		names[i] = r.String()
	}
	return "Image aspect ratio must be one of: " + strings.Join(names, ", "), false
}
