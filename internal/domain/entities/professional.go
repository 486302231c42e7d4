package entities

import (
	"encoding/json"
	"strconv"
	"time"
)

// DefaultLocation is assigned to professionals created without a location.
const DefaultLocation = "Santa Fe"

// Professional represents a service provider listing.
// Rating and ReviewsCount are derived from the professional's reviews and are only
// ever written by the review transaction.
type Professional struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	Rating       float64   `json:"rating" db:"rating"`
	ReviewsCount int       `json:"reviews_count" db:"reviews_count"`
	Distance     string    `json:"distance" db:"distance"`
	Available    bool      `json:"available" db:"available"`
	Specialties  []string  `json:"specialties" db:"specialties"`
	Price        string    `json:"price" db:"price"`
	Avatar       string    `json:"avatar" db:"avatar"`
	Phone        string    `json:"phone" db:"phone"`
	Description  string    `json:"description" db:"description"`
	Location     string    `json:"location" db:"location"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// EncodeSpecialties serializes specialties for the text column.
func EncodeSpecialties(specialties []string) string {
	if specialties == nil {
		specialties = []string{}
	}
	data, err := json.Marshal(specialties)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeSpecialties parses the stored specialties column. A value that is not a JSON
// list of strings is returned as a single-element list holding the raw text.
func DecodeSpecialties(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var specialties []string
	if err := json.Unmarshal([]byte(raw), &specialties); err != nil || specialties == nil {
		return []string{raw}
	}
	return specialties
}

// RatingSummary is the aggregate of a professional's current review set.
type RatingSummary struct {
	Count int
	Sum   int
}

// Average returns the mean rating rounded to one decimal place, or 0 when there are no reviews.
// Rounding works on the exact value of the float64 mean and sends ties to the even digit.
func (s RatingSummary) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	mean := float64(s.Sum) / float64(s.Count)
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(mean, 'f', 1, 64), 64)
	if err != nil {
		return mean
	}
	return rounded
}
