package models

import "time"

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

type GrievanceStatus string

const (
	StatusPending  GrievanceStatus = "Pending"
	StatusResolved GrievanceStatus = "Resolved"
)

// DefaultUrgency is stored when no classification is available.
const DefaultUrgency = 1

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Classification is the structured triage produced by the AI model.
// The summary keeps the english_summary wire name the frontend renders.
type Classification struct {
	Category   string `json:"category"`
	Urgency    int    `json:"urgency"`
	Summary    string `json:"english_summary"`
	Department string `json:"department"`
}

type Grievance struct {
	ID         string          `json:"id"`
	CitizenID  string          `json:"citizen_id"`
	ImageID    *string         `json:"image_id"`
	RawText    *string         `json:"raw_text"`
	AISummary  *string         `json:"ai_summary"`
	Category   *string         `json:"category"`
	Department *string         `json:"department"`
	Urgency    int             `json:"urgency"`
	Status     GrievanceStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ImageMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	CitizenID   string    `json:"citizen_id"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
