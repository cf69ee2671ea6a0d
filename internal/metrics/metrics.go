package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ClassificationTotal counts classification calls by final outcome and
	// the path that produced it (multimodal, ocr_text, text or none).
	ClassificationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jansamadhan",
		Name:      "classification_total",
		Help:      "Grievance classification calls by outcome and path.",
	}, []string{"outcome", "path"})

	ClassificationDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jansamadhan",
		Name:      "classification_duration_seconds",
		Help:      "End-to-end time of a classification cascade.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"outcome"})

	OCRTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jansamadhan",
		Name:      "ocr_total",
		Help:      "Text extraction attempts by result (text, empty, error).",
	}, []string{"result"})

	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jansamadhan",
		Name:      "submissions_total",
		Help:      "Grievance submissions by result (classified, degraded, failed).",
	}, []string{"result"})
)

// Register registers the collectors with the default registry. Safe to call
// multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ClassificationTotal,
			ClassificationDurationSeconds,
			OCRTotal,
			SubmissionsTotal,
		)
	})
}
