package entities

import "time"

// Rating bounds for a review.
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review is a client's rating and comment for one professional.
type Review struct {
	ID             int64     `json:"id" db:"id"`
	ProfessionalID int64     `json:"professional_id" db:"professional_id"`
	ClientName     string    `json:"client_name" db:"client_name"`
	ClientAvatar   string    `json:"client_avatar" db:"client_avatar"`
	Rating         int       `json:"rating" db:"rating"` // 1-5
	Comment        string    `json:"comment" db:"comment"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsValidRating reports whether rating is within the accepted star range.
func IsValidRating(rating int) bool {
	return rating >= MinReviewRating && rating <= MaxReviewRating
}
