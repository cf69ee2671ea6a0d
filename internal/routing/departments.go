// Package routing holds the fixed category to department policy. The map is
// handed to the classifier as prompt context; Normalize is the opt-in pass that
// forces classifier output back onto it.
package routing

import (
	"encoding/json"
	"strings"

	"github.com/jansamadhan/backend/internal/models"
)

const (
	CategoryOther         = "Other"
	GeneralAdministration = "General Administration"
)

var departments = map[string]string{
	"Water":       "Municipal Water Department",
	"Roads":       "Public Works Department",
	"Electricity": "State Electricity Board",
	"Sanitation":  "Health & Sanitation Department",
	"Education":   "Education Department",
	"Health":      "Health Department",
	"Police":      "City Police",
	"Transport":   "Transport Corporation",
	CategoryOther: GeneralAdministration,
}

var categories = []string{"Water", "Roads", "Electricity", "Sanitation", "Education", "Health", "Police", "Transport", CategoryOther}

// Route returns the department responsible for category. Unmapped categories
// report ok=false.
func Route(category string) (string, bool) {
	d, ok := departments[category]
	return d, ok
}

func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// MapJSON renders the department map for prompts. Keys come out sorted so the
// prompt text is stable across runs.
func MapJSON() string {
	b, _ := json.Marshal(departments)
	return string(b)
}

// Normalize maps a classifier category onto the fixed map, case-insensitively,
// and replaces the department with the mapped one. Unrecognized categories
// become Other / General Administration.
func Normalize(c models.Classification) models.Classification {
	category := canonicalCategory(c.Category)
	c.Category = category
	c.Department = departments[category]
	return c
}

func canonicalCategory(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return CategoryOther
	}
	for _, name := range categories {
		if strings.ToLower(name) == v {
			return name
		}
	}
	switch v {
	case "water supply", "drinking water", "पानी":
		return "Water"
	case "road", "roads & potholes", "pothole", "potholes", "सड़क":
		return "Roads"
	case "power", "electric", "electricity supply", "बिजली":
		return "Electricity"
	case "garbage", "waste", "drainage", "sewage", "sanitation & waste", "सफाई":
		return "Sanitation"
	case "school", "schools":
		return "Education"
	case "hospital", "healthcare", "public health":
		return "Health"
	case "law and order", "crime", "safety":
		return "Police"
	case "bus", "public transport", "traffic":
		return "Transport"
	}
	return CategoryOther
}
