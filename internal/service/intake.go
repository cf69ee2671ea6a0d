package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jansamadhan/backend/internal/ai"
	"github.com/jansamadhan/backend/internal/metrics"
	"github.com/jansamadhan/backend/internal/models"
	"github.com/jansamadhan/backend/internal/storage"
)

// ErrStorage marks failures of the blob or grievance store. These are the
// only errors Submit returns.
var ErrStorage = errors.New("storage failure")

type Classifier interface {
	Classify(ctx context.Context, req ai.Request) ai.Classification
}

type GrievanceWriter interface {
	InsertGrievance(ctx context.Context, g models.Grievance) (string, error)
}

type Submission struct {
	CitizenID   string
	Text        string
	Image       []byte
	Filename    string
	ContentType string
}

type SubmitResult struct {
	ID             string
	Grievance      models.Grievance
	Classification ai.Classification
}

type IntakeService struct {
	Store      GrievanceWriter
	Blobs      storage.BlobStore
	Classifier Classifier
	// Timeout bounds the whole classification cascade. Zero means no limit.
	Timeout time.Duration
	Logger  zerolog.Logger
	Now     func() time.Time
}

func (s *IntakeService) Submit(ctx context.Context, sub Submission) (SubmitResult, error) {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	log := s.Logger.With().Str("citizen_id", sub.CitizenID).Logger()

	var imageRef *string
	if len(sub.Image) > 0 {
		ref, err := s.Blobs.PutImage(ctx, sub.Image, models.ImageMeta{
			Filename:    sub.Filename,
			ContentType: sub.ContentType,
			CitizenID:   sub.CitizenID,
			Size:        int64(len(sub.Image)),
			CreatedAt:   now,
		})
		if err != nil {
			metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
			return SubmitResult{}, fmt.Errorf("%w: store image: %w", ErrStorage, err)
		}
		imageRef = &ref
		log.Debug().Str("image_ref", ref).Int("bytes", len(sub.Image)).Msg("image stored")
	}

	var rawText *string
	if text := strings.TrimSpace(sub.Text); text != "" {
		rawText = &text
	}

	// The submission is durable even if the client goes away mid-classification.
	cctx := context.WithoutCancel(ctx)
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(cctx, s.Timeout)
		defer cancel()
	}
	req := ai.Request{Image: sub.Image, ImageMIME: sub.ContentType}
	if rawText != nil {
		req.Text = *rawText
	}
	cls := s.Classifier.Classify(cctx, req)

	g := AssembleGrievance(sub.CitizenID, imageRef, rawText, cls.Result, now)
	id, err := s.Store.InsertGrievance(context.WithoutCancel(ctx), g)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		return SubmitResult{}, fmt.Errorf("%w: insert grievance: %w", ErrStorage, err)
	}
	g.ID = id

	result := "classified"
	if !cls.OK() {
		result = "degraded"
	}
	metrics.SubmissionsTotal.WithLabelValues(result).Inc()
	log.Info().
		Str("grievance_id", id).
		Str("ai_status", string(cls.Outcome)).
		Int("urgency", g.Urgency).
		Msg("grievance submitted")

	return SubmitResult{ID: id, Grievance: g, Classification: cls}, nil
}
