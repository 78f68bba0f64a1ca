package domain

import (
	"time"

	"github.com/dewabisma/parfum-api/internal/query"
)

// Brand is a perfume house.
type Brand struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Banner      *string   `json:"banner"`
	Logo        *string   `json:"logo"`
	Description *string   `json:"description"`
	Website     *string   `json:"website"`
	IgUsername  *string   `json:"igUsername"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateBrand is the input for creating a brand.
type CreateBrand struct {
	ID          *int64
	Name        string
	Banner      *string
	Logo        *string
	Description *string
	Website     *string
	IgUsername  *string
}

// UpdateBrand is the input for a partial brand update.
type UpdateBrand struct {
	Name        *string
	Banner      *string
	Logo        *string
	Description *string
	Website     *string
	IgUsername  *string
}

// BrandSchema is the filterable column surface of the brands table.
var BrandSchema = query.Schema{
	Table: "brands",
	Columns: map[string]string{
		"id":          "brands.id",
		"name":        "brands.name",
		"banner":      "brands.banner",
		"logo":        "brands.logo",
		"description": "brands.description",
		"website":     "brands.website",
		"igUsername":  "brands.ig_username",
		"createdAt":   "brands.created_at",
		"updatedAt":   "brands.updated_at",
	},
}
