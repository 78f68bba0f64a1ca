package domain

import (
	"time"

	"github.com/dewabisma/parfum-api/internal/query"
)

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft  ArticleStatus = "draft"
	ArticleStatusActive ArticleStatus = "active"
)

// ArticleType classifies editorial content.
type ArticleType string

const (
	ArticleTypePerfume ArticleType = "perfume"
	ArticleTypeEvent   ArticleType = "event"
	ArticleTypeGuide   ArticleType = "guide"
)

// Article is an editorial article. Tags holds tag ids; list queries
// aggregate them into TagRefs.
type Article struct {
	ID              int64         `json:"id"`
	BrandID         *int64        `json:"brandId"`
	MetaKeywords    *string       `json:"metaKeywords"`
	MetaDescription *string       `json:"metaDescription"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Author          string        `json:"author"`
	ImageBy         string        `json:"imageBy"`
	Cover           *string       `json:"cover"`
	Banner          *string       `json:"banner"`
	Content         string        `json:"content"`
	Tags            []int64       `json:"-"`
	IsFeatured      bool          `json:"isFeatured"`
	Type            ArticleType   `json:"type"`
	Status          ArticleStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// TagRef is a tag id/name pair aggregated onto article responses.
type TagRef struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// ArticleWithTags is an article with its tag rows aggregated for display.
type ArticleWithTags struct {
	Article
	TagRefs []TagRef `json:"tags"`
}

// CreateArticle is the input for creating an article. The slug derives from
// the title; content is sanitized before storage.
type CreateArticle struct {
	ID              *int64
	BrandID         *int64
	MetaKeywords    *string
	MetaDescription *string
	Title           string
	Author          string
	ImageBy         string
	Cover           *string
	Banner          *string
	Content         string
	Tags            []int64
	IsFeatured      bool
	Type            ArticleType
	Status          *ArticleStatus
}

// UpdateArticle is the input for a partial article update. Tags mutate
// through added/removed sets rather than replacement.
type UpdateArticle struct {
	BrandID         *int64
	MetaKeywords    *string
	MetaDescription *string
	Title           *string
	Author          *string
	ImageBy         *string
	Cover           *string
	Banner          *string
	Content         *string
	IsFeatured      *bool
	Type            *ArticleType
	Status          *ArticleStatus
	AddedTags       []int64
	RemovedTags     []int64
}

// Tag labels articles.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateTag is the input for creating a tag.
type CreateTag struct {
	ID   *int64
	Name string
}

// UpdateTag is the input for a partial tag update.
type UpdateTag struct {
	Name *string
}

// ArticleSchema is the filterable column surface of the articles table.
var ArticleSchema = query.Schema{
	Table: "articles",
	Columns: map[string]string{
		"id":              "articles.id",
		"brandId":         "articles.brand_id",
		"metaKeywords":    "articles.meta_keywords",
		"metaDescription": "articles.meta_description",
		"title":           "articles.title",
		"slug":            "articles.slug",
		"author":          "articles.author",
		"imageBy":         "articles.image_by",
		"cover":           "articles.cover",
		"banner":          "articles.banner",
		"content":         "articles.content",
		"tags":            "articles.tags",
		"isFeatured":      "articles.is_featured",
		"type":            "articles.type",
		"status":          "articles.status",
		"createdAt":       "articles.created_at",
		"updatedAt":       "articles.updated_at",
	},
}

// TagSchema is the filterable column surface of the tags table.
var TagSchema = query.Schema{
	Table: "tags",
	Columns: map[string]string{
		"id":        "tags.id",
		"name":      "tags.name",
		"createdAt": "tags.created_at",
		"updatedAt": "tags.updated_at",
	},
}
