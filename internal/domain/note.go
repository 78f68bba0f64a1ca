package domain

import (
	"time"

	"github.com/dewabisma/parfum-api/internal/query"
)

// Note is a fragrance note. PopularityCount is a denormalized counter kept
// equal to the number of perfumes referencing the note in any of their note
// collections.
type Note struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CategoryID      int64     `json:"categoryId,omitempty"`
	Icon            string    `json:"icon"`
	Cover           string    `json:"cover"`
	PopularityCount int64     `json:"popularityCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NoteWithCategory is a note joined with its category for display.
type NoteWithCategory struct {
	Note
	Category *NoteCategory `json:"category"`
}

// CreateNote is the input for creating a note.
type CreateNote struct {
	ID          *int64
	Name        string
	Description string
	CategoryID  int64
	Icon        string
	Cover       string
}

// UpdateNote is the input for a partial note update.
type UpdateNote struct {
	Name        *string
	Description *string
	CategoryID  *int64
	Icon        *string
	Cover       *string
}

// NoteCategory groups notes for presentation.
type NoteCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cover       string    `json:"cover"`
	Color       string    `json:"color"`
	Shade       string    `json:"shade"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateNoteCategory is the input for creating a note category.
type CreateNoteCategory struct {
	ID          *int64
	Name        string
	Description string
	Cover       string
	Color       string
	Shade       string
}

// UpdateNoteCategory is the input for a partial note-category update.
type UpdateNoteCategory struct {
	Name        *string
	Description *string
	Cover       *string
	Color       *string
	Shade       *string
}

// PerfumeNoteAlias is a per-perfume display alias for a note.
type PerfumeNoteAlias struct {
	ID        int64     `json:"id"`
	PerfumeID int64     `json:"perfumeId"`
	NoteID    int64     `json:"noteId"`
	NoteAlias string    `json:"noteAlias"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePerfumeNoteAlias is the input for creating a note alias.
type CreatePerfumeNoteAlias struct {
	PerfumeID int64
	NoteID    int64
	NoteAlias string
}

// UpdatePerfumeNoteAlias is the input for a partial alias update.
type UpdatePerfumeNoteAlias struct {
	NoteAlias *string
}

// NoteSchema is the filterable column surface of the notes table.
var NoteSchema = query.Schema{
	Table: "notes",
	Columns: map[string]string{
		"id":              "notes.id",
		"name":            "notes.name",
		"description":     "notes.description",
		"categoryId":      "notes.category_id",
		"icon":            "notes.icon",
		"cover":           "notes.cover",
		"popularityCount": "notes.popularity_count",
		"createdAt":       "notes.created_at",
		"updatedAt":       "notes.updated_at",
	},
}

// NoteCategorySchema is the filterable column surface of the note_categories
// table.
var NoteCategorySchema = query.Schema{
	Table: "note_categories",
	Columns: map[string]string{
		"id":          "note_categories.id",
		"name":        "note_categories.name",
		"description": "note_categories.description",
		"cover":       "note_categories.cover",
		"color":       "note_categories.color",
		"shade":       "note_categories.shade",
		"createdAt":   "note_categories.created_at",
		"updatedAt":   "note_categories.updated_at",
	},
}

// PerfumeNoteAliasSchema is the filterable column surface of the
// perfume_note_aliases table.
var PerfumeNoteAliasSchema = query.Schema{
	Table: "perfume_note_aliases",
	Columns: map[string]string{
		"id":        "perfume_note_aliases.id",
		"perfumeId": "perfume_note_aliases.perfume_id",
		"noteId":    "perfume_note_aliases.note_id",
		"noteAlias": "perfume_note_aliases.note_alias",
		"createdAt": "perfume_note_aliases.created_at",
		"updatedAt": "perfume_note_aliases.updated_at",
	},
}
