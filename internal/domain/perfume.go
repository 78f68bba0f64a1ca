// Package domain holds the catalog's pure data types: entities mirrored from
// the database schema, mutation inputs, and the error taxonomy. Types here
// have no behavior beyond construction helpers and carry no database or HTTP
// dependencies.
package domain

import (
	"time"

	"github.com/dewabisma/parfum-api/internal/query"
)

// Gender is the target audience of a perfume.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// Occasion is the wear occasion of a perfume.
type Occasion string

const (
	OccasionDay    Occasion = "day"
	OccasionNight  Occasion = "night"
	OccasionAllDay Occasion = "all_day"
)

// PerfumeType is the concentration class of a perfume.
type PerfumeType string

const (
	PerfumeTypeExtrait       PerfumeType = "extrait_de_parfum"
	PerfumeTypeEauDeParfum   PerfumeType = "eau_de_parfum"
	PerfumeTypeEauDeToilette PerfumeType = "eau_de_toilette"
	PerfumeTypeEauDeCologne  PerfumeType = "eau_de_cologne"
	PerfumeTypeBodyMist      PerfumeType = "body_mist"
	PerfumeTypeOil           PerfumeType = "oil_perfume"
	PerfumeTypeSolid         PerfumeType = "solid_perfume"
)

// PerfumeVariant is one purchasable variant with its thumbnail asset.
type PerfumeVariant struct {
	Label     string `json:"label"`
	Thumbnail string `json:"thumbnail"`
}

// Perfume is a catalog perfume row. A perfume carries either the three
// categorized note collections or the uncategorized collection; the unused
// side is nil.
type Perfume struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Gender             Gender           `json:"gender"`
	Price              int16            `json:"price"`
	ReleaseDate        *string          `json:"releaseDate"`
	Variants           []PerfumeVariant `json:"variants"`
	BrandID            *int64           `json:"brandId,omitempty"`
	Type               PerfumeType      `json:"type"`
	BaseNotes          []int64          `json:"baseNotes"`
	MiddleNotes        []int64          `json:"middleNotes"`
	TopNotes           []int64          `json:"topNotes"`
	UncategorizedNotes []int64          `json:"uncategorizedNotes"`
	Occasion           Occasion         `json:"occasion"`
	IsHalal            bool             `json:"isHalal"`
	IsBpomCertified    bool             `json:"isBpomCertified"`
	IsFeatured         bool             `json:"isFeatured"`
	ViewCount          int64            `json:"viewCount"`
	LikeCount          int64            `json:"likeCount"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// PerfumeWithBrand is a perfume joined with its brand for display.
type PerfumeWithBrand struct {
	Perfume
	Brand *Brand `json:"brand"`
}

// PerfumeDetail is one perfume with its note collections populated into full
// note rows and per-perfume aliases keyed by note id.
type PerfumeDetail struct {
	Perfume
	PopulatedBaseNotes          []Note           `json:"populatedBaseNotes,omitempty"`
	PopulatedMiddleNotes        []Note           `json:"populatedMiddleNotes,omitempty"`
	PopulatedTopNotes           []Note           `json:"populatedTopNotes,omitempty"`
	PopulatedUncategorizedNotes []Note           `json:"populatedUncategorizedNotes,omitempty"`
	NoteAliases                 map[int64]string `json:"noteAliases"`
	Brand                       *Brand           `json:"brand"`
}

// PerfumeMatch is a perfume scored for note-based discovery. Popularity mixes
// review volume with like and view counters.
type PerfumeMatch struct {
	PerfumeWithBrand
	Popularity float64 `json:"popularity"`
}

// PerfumeRef is the minimal identity of a perfume attached to similarity
// responses.
type PerfumeRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NoteInput references a note by id with an optional per-perfume alias.
type NoteInput struct {
	NoteID int64   `json:"noteId"`
	Alias  *string `json:"alias,omitempty"`
}

// CreatePerfume is the input for creating a perfume.
type CreatePerfume struct {
	ID                 *int64
	Name               string
	Description        string
	Gender             Gender
	Price              int16
	ReleaseDate        *string
	Variants           []PerfumeVariant
	BrandID            *int64
	Type               PerfumeType
	Occasion           Occasion
	IsHalal            bool
	IsBpomCertified    bool
	IsFeatured         bool
	BaseNotes          []NoteInput
	MiddleNotes        []NoteInput
	TopNotes           []NoteInput
	UncategorizedNotes []NoteInput
}

// UpdatePerfume is the input for a partial perfume update. Note collections
// mutate through added/removed sets rather than replacement.
type UpdatePerfume struct {
	Name            *string
	Description     *string
	Gender          *Gender
	Price           *int16
	ReleaseDate     *string
	Variants        []PerfumeVariant
	BrandID         *int64
	Type            *PerfumeType
	Occasion        *Occasion
	IsHalal         *bool
	IsBpomCertified *bool
	IsFeatured      *bool

	AddedBaseNotes          []NoteInput
	AddedMiddleNotes        []NoteInput
	AddedTopNotes           []NoteInput
	AddedUncategorizedNotes []NoteInput

	RemovedBaseNotes          []int64
	RemovedMiddleNotes        []int64
	RemovedTopNotes           []int64
	RemovedUncategorizedNotes []int64
}

// PerfumeSchema is the filterable column surface of the perfumes table.
var PerfumeSchema = query.Schema{
	Table: "perfumes",
	Columns: map[string]string{
		"id":                 "perfumes.id",
		"name":               "perfumes.name",
		"description":        "perfumes.description",
		"gender":             "perfumes.gender",
		"price":              "perfumes.price",
		"releaseDate":        "perfumes.release_date",
		"brandId":            "perfumes.brand_id",
		"type":               "perfumes.perfume_type",
		"baseNotes":          "perfumes.base_notes",
		"middleNotes":        "perfumes.middle_notes",
		"topNotes":           "perfumes.top_notes",
		"uncategorizedNotes": "perfumes.uncategorized_notes",
		"occasion":           "perfumes.occasion",
		"isHalal":            "perfumes.is_halal",
		"isBpomCertified":    "perfumes.is_bpom_certified",
		"isFeatured":         "perfumes.is_featured",
		"viewCount":          "perfumes.view_count",
		"likeCount":          "perfumes.like_count",
		"createdAt":          "perfumes.created_at",
		"updatedAt":          "perfumes.updated_at",
	},
}
