package domain

import (
	"time"

	"github.com/dewabisma/parfum-api/internal/query"
)

// PerfumeReview is a user review row. A user may review each perfume once.
type PerfumeReview struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	PerfumeID int64     `json:"perfumeId"`
	Comment   string    `json:"comment"`
	Rating    int16     `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewUser is the public slice of a reviewer's account attached to review
// responses.
type ReviewUser struct {
	ID       int64    `json:"id"`
	Username *string  `json:"username"`
	Role     UserRole `json:"role"`
}

// BrandRef is the minimal identity of a brand attached to review responses.
type BrandRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PerfumeReviewDisplay is a review joined with its reviewer's public profile
// and the reviewed perfume's identity.
type PerfumeReviewDisplay struct {
	ID        int64       `json:"id"`
	Comment   string      `json:"comment"`
	Rating    int16       `json:"rating"`
	User      *ReviewUser `json:"user"`
	Perfume   *PerfumeRef `json:"perfume"`
	Brand     *BrandRef   `json:"brand"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// CreatePerfumeReview is the input for posting a review.
type CreatePerfumeReview struct {
	UserID    int64
	PerfumeID int64
	Comment   string
	Rating    int16
}

// UpdatePerfumeReview is the input for a partial review update.
type UpdatePerfumeReview struct {
	Comment *string
	Rating  *int16
}

var PerfumeReviewSchema = query.Schema{
	Table: "perfume_reviews",
	Columns: map[string]string{
		"id":        "perfume_reviews.id",
		"userId":    "perfume_reviews.user_id",
		"perfumeId": "perfume_reviews.perfume_id",
		"comment":   "perfume_reviews.comment",
		"rating":    "perfume_reviews.rating",
		"createdAt": "perfume_reviews.created_at",
		"updatedAt": "perfume_reviews.updated_at",
	},
}
