// Package ocr wraps the Tesseract engine. Extraction is best effort: every
// failure is logged and reported as empty text.
package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"github.com/jansamadhan/backend/internal/imaging"
	"github.com/jansamadhan/backend/internal/metrics"
)

var DefaultLanguages = []string{"hin", "eng", "mar", "tam"}

type Tesseract struct {
	Logger zerolog.Logger
}

func New(logger zerolog.Logger) *Tesseract {
	return &Tesseract{Logger: logger}
}

// ParseLanguages splits a comma or plus separated list such as "hin+eng".
func ParseLanguages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '+' || r == ' '
	})
	if len(fields) == 0 {
		return append([]string(nil), DefaultLanguages...)
	}
	return fields
}

func (t *Tesseract) ExtractText(ctx context.Context, image []byte, languages []string) string {
	if ctx.Err() != nil {
		metrics.OCRTotal.WithLabelValues("error").Inc()
		return ""
	}
	if _, err := imaging.Detect(image); err != nil {
		t.Logger.Warn().Err(err).Int("bytes", len(image)).Msg("ocr skipped, unreadable image")
		metrics.OCRTotal.WithLabelValues("error").Inc()
		return ""
	}
	if len(languages) == 0 {
		languages = DefaultLanguages
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(languages...); err != nil {
		return t.fail(err, "set language")
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return t.fail(err, "set page segmentation")
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return t.fail(err, "load image")
	}
	text, err := client.Text()
	if err != nil {
		return t.fail(err, "recognize")
	}

	if strings.TrimSpace(text) == "" {
		metrics.OCRTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.OCRTotal.WithLabelValues("text").Inc()
	}
	return text
}

func (t *Tesseract) fail(err error, stage string) string {
	t.Logger.Error().Err(err).Str("stage", stage).Msg("ocr error")
	metrics.OCRTotal.WithLabelValues("error").Inc()
	return ""
}
