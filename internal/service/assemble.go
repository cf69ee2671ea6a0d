package service

import (
	"time"

	"github.com/jansamadhan/backend/internal/models"
)

// AssembleGrievance builds the initial record for a submission. A nil result
// leaves the AI fields unset and the urgency at its default.
func AssembleGrievance(citizenID string, imageRef, rawText *string, result *models.Classification, now time.Time) models.Grievance {
	g := models.Grievance{
		CitizenID: citizenID,
		ImageID:   imageRef,
		RawText:   rawText,
		Urgency:   models.DefaultUrgency,
		Status:    models.StatusPending,
		CreatedAt: now,
	}
	if result == nil {
		return g
	}
	category := result.Category
	summary := result.Summary
	department := result.Department
	g.Category = &category
	g.AISummary = &summary
	g.Department = &department
	g.Urgency = result.Urgency
	return g
}
