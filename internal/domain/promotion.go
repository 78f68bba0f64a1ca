package domain

import (
	"time"

	"github.com/dewabisma/parfum-api/internal/query"
)

// Promotion is a homepage promotion banner.
type Promotion struct {
	ID        int64     `json:"id"`
	Title     *string   `json:"title"`
	Label     *string   `json:"label"`
	Href      *string   `json:"href"`
	Cover     string    `json:"cover"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePromotion is the input for creating a promotion.
type CreatePromotion struct {
	ID       *int64
	Title    *string
	Label    *string
	Href     *string
	Cover    string
	IsActive bool
}

// UpdatePromotion is the input for a partial promotion update.
type UpdatePromotion struct {
	Title    *string
	Label    *string
	Href     *string
	Cover    *string
	IsActive *bool
}

// PromotionSchema is the filterable column surface of the promotions table.
var PromotionSchema = query.Schema{
	Table: "promotions",
	Columns: map[string]string{
		"id":        "promotions.id",
		"title":     "promotions.title",
		"label":     "promotions.label",
		"href":      "promotions.href",
		"cover":     "promotions.cover",
		"isActive":  "promotions.is_active",
		"createdAt": "promotions.created_at",
		"updatedAt": "promotions.updated_at",
	},
}
