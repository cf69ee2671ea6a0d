package ai

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/jansamadhan/backend/internal/metrics"
	"github.com/jansamadhan/backend/internal/routing"
)

// TextExtractor recovers text from an image. It never fails: an empty string
// means nothing could be read.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte, languages []string) string
}

type Options struct {
	// Model is nil when no provider credential is configured.
	Model              Model
	OCR                TextExtractor
	Languages          []string
	MaxConcurrency     int64
	EnforceDepartments bool
	Logger             zerolog.Logger
}

// Classifier runs the classification cascade: multimodal first when an image
// is present, then a single OCR fallback hop, then a text prompt. At most two
// model calls and one OCR call are made per Classify.
type Classifier struct {
	model              Model
	ocr                TextExtractor
	languages          []string
	slots              *semaphore.Weighted
	enforceDepartments bool
	logger             zerolog.Logger
	steps              []step
}

// cascade is the per-call state threaded through the steps.
type cascade struct {
	text             string
	image            []byte
	mime             string
	multimodalFailed bool
	ocrText          string
}

// step is one strategy in the cascade. run returns stop=true when the
// cascade must end with out even though it is not a success.
type step struct {
	name    string
	applies func(st *cascade) bool
	run     func(c *Classifier, ctx context.Context, st *cascade) (out Classification, stop bool)
}

var defaultSteps = []step{
	{
		name:    PathMultimodal,
		applies: func(st *cascade) bool { return len(st.image) > 0 },
		run:     (*Classifier).runMultimodal,
	},
	{
		name:    "ocr_fallback",
		applies: func(st *cascade) bool { return st.multimodalFailed },
		run:     (*Classifier).runOCR,
	},
	{
		name: PathText,
		applies: func(st *cascade) bool {
			return st.text != "" && (len(st.image) == 0 || st.ocrText != "")
		},
		run: (*Classifier).runText,
	},
}

func NewClassifier(opts Options) *Classifier {
	c := &Classifier{
		model:              opts.Model,
		ocr:                opts.OCR,
		languages:          opts.Languages,
		enforceDepartments: opts.EnforceDepartments,
		logger:             opts.Logger,
		steps:              defaultSteps,
	}
	if opts.MaxConcurrency > 0 {
		c.slots = semaphore.NewWeighted(opts.MaxConcurrency)
	}
	return c
}

// Configured reports whether a model credential was supplied.
func (c *Classifier) Configured() bool {
	return c.model != nil
}

func (c *Classifier) Classify(ctx context.Context, req Request) Classification {
	start := time.Now()
	out := c.classify(ctx, req)
	if out.Path == "" {
		out.Path = PathNone
	}

	metrics.ClassificationTotal.WithLabelValues(string(out.Outcome), out.Path).Inc()
	metrics.ClassificationDurationSeconds.WithLabelValues(string(out.Outcome)).Observe(time.Since(start).Seconds())

	var ev *zerolog.Event
	if out.OK() {
		ev = c.logger.Info()
	} else {
		ev = c.logger.Warn().AnErr("cause", out.Err)
	}
	ev.Str("outcome", string(out.Outcome)).
		Str("path", out.Path).
		Dur("latency", time.Since(start)).
		Msg("classification finished")
	return out
}

func (c *Classifier) classify(ctx context.Context, req Request) Classification {
	st := &cascade{
		text:  strings.TrimSpace(req.Text),
		image: req.Image,
		mime:  req.ImageMIME,
	}
	if st.text == "" && len(st.image) == 0 {
		return Classification{Outcome: OutcomeNoInput}
	}
	if c.model == nil {
		c.logger.Warn().Msg("no AI credential configured, skipping classification")
		return Classification{Outcome: OutcomeConfigurationMissing}
	}

	if c.slots != nil {
		if err := c.slots.Acquire(ctx, 1); err != nil {
			return Classification{Outcome: OutcomeInvocationFailure, Err: err}
		}
		defer c.slots.Release(1)
	}

	out := Classification{Outcome: OutcomeNoInput}
	for _, s := range c.steps {
		if !s.applies(st) {
			continue
		}
		c.logger.Debug().Str("step", s.name).Msg("running classification step")
		res, stop := s.run(c, ctx, st)
		if res.Outcome != "" {
			out = res
		}
		if out.OK() || stop {
			break
		}
	}
	out.OCRText = st.ocrText
	return out
}

func (c *Classifier) runMultimodal(ctx context.Context, st *cascade) (Classification, bool) {
	c.logger.Debug().Int("image_bytes", len(st.image)).Msg("attempting multimodal classification")
	out := c.attempt(ctx, PathMultimodal, multimodalPrompt(st.text, st.image, st.mime))
	if !out.OK() {
		st.multimodalFailed = true
		c.logger.Warn().Err(out.Err).Str("outcome", string(out.Outcome)).Msg("multimodal classification failed, falling back to OCR")
	}
	return out, false
}

func (c *Classifier) runOCR(ctx context.Context, st *cascade) (Classification, bool) {
	var extracted string
	if c.ocr != nil {
		extracted = strings.TrimSpace(c.ocr.ExtractText(ctx, st.image, c.languages))
	}
	if extracted == "" {
		c.logger.Warn().Msg("OCR extracted no text")
		return Classification{Outcome: OutcomeEmptyExtraction, Path: PathOCRText}, true
	}

	c.logger.Info().Str("preview", preview(extracted, 50)).Msg("OCR extracted text")
	st.ocrText = extracted
	if st.text == "" {
		st.text = extracted
	} else {
		st.text = st.text + "\n\n" + extracted
	}
	return Classification{}, false
}

func (c *Classifier) runText(ctx context.Context, st *cascade) (Classification, bool) {
	path := PathText
	if st.ocrText != "" {
		path = PathOCRText
	}
	return c.attempt(ctx, path, textPrompt(st.text)), true
}

func (c *Classifier) attempt(ctx context.Context, path string, p Prompt) Classification {
	out := Classification{Path: path, Model: c.model.Name()}
	raw, err := c.model.Generate(ctx, p)
	if err != nil {
		out.Outcome = OutcomeInvocationFailure
		out.Err = err
		return out
	}
	result, err := ParseClassification(raw)
	if err != nil {
		out.Outcome = OutcomeParseFailure
		out.Err = err
		return out
	}
	if c.enforceDepartments {
		result = routing.Normalize(result)
	}
	out.Outcome = OutcomeSuccess
	out.Result = &result
	return out
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
