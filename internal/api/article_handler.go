package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type createArticlePayload struct {
	ID              *int64                `json:"id" validate:"omitempty,gt=0"`
	BrandID         *int64                `json:"brandId" validate:"omitempty,gt=0"`
	MetaKeywords    *string               `json:"metaKeywords"`
	MetaDescription *string               `json:"metaDescription"`
	Title           string                `json:"title" validate:"required,max=255"`
	Author          string                `json:"author" validate:"required,max=255"`
	ImageBy         string                `json:"imageBy" validate:"required,max=255"`
	Cover           *string               `json:"cover" validate:"omitempty,max=255"`
	Banner          *string               `json:"banner" validate:"omitempty,max=255"`
	Content         string                `json:"content" validate:"required"`
	Tags            []int64               `json:"tags" validate:"dive,gt=0"`
	IsFeatured      bool                  `json:"isFeatured"`
	Type            domain.ArticleType    `json:"type" validate:"required,oneof=perfume event guide"`
	Status          *domain.ArticleStatus `json:"status" validate:"omitempty,oneof=draft active"`
}

type updateArticlePayload struct {
	BrandID         *int64                `json:"brandId" validate:"omitempty,gt=0"`
	MetaKeywords    *string               `json:"metaKeywords"`
	MetaDescription *string               `json:"metaDescription"`
	Title           *string               `json:"title" validate:"omitempty,max=255"`
	Author          *string               `json:"author" validate:"omitempty,max=255"`
	ImageBy         *string               `json:"imageBy" validate:"omitempty,max=255"`
	Cover           *string               `json:"cover" validate:"omitempty,max=255"`
	Banner          *string               `json:"banner" validate:"omitempty,max=255"`
	Content         *string               `json:"content"`
	IsFeatured      *bool                 `json:"isFeatured"`
	Type            *domain.ArticleType   `json:"type" validate:"omitempty,oneof=perfume event guide"`
	Status          *domain.ArticleStatus `json:"status" validate:"omitempty,oneof=draft active"`
	AddedTags       []int64               `json:"addedTags" validate:"dive,gt=0"`
	RemovedTags     []int64               `json:"removedTags" validate:"dive,gt=0"`
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	articles, meta, err := s.deps.Articles.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, articles, meta)
}

// handleSimilarArticles lists articles sharing at least one tag with the
// article in the path.
func (s *Server) handleSimilarArticles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	articles, meta, err := s.deps.Articles.QuerySimilar(r.Context(), id, opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, articles, meta)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	article, err := s.deps.Articles.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, article)
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var payload createArticlePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.Articles.Create(r.Context(), domain.CreateArticle{
		ID:              payload.ID,
		BrandID:         payload.BrandID,
		MetaKeywords:    payload.MetaKeywords,
		MetaDescription: payload.MetaDescription,
		Title:           payload.Title,
		Author:          payload.Author,
		ImageBy:         payload.ImageBy,
		Cover:           payload.Cover,
		Banner:          payload.Banner,
		Content:         payload.Content,
		Tags:            payload.Tags,
		IsFeatured:      payload.IsFeatured,
		Type:            payload.Type,
		Status:          payload.Status,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "article", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updateArticlePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	removed, err := s.deps.Articles.Update(r.Context(), id, domain.UpdateArticle{
		BrandID:         payload.BrandID,
		MetaKeywords:    payload.MetaKeywords,
		MetaDescription: payload.MetaDescription,
		Title:           payload.Title,
		Author:          payload.Author,
		ImageBy:         payload.ImageBy,
		Cover:           payload.Cover,
		Banner:          payload.Banner,
		Content:         payload.Content,
		IsFeatured:      payload.IsFeatured,
		Type:            payload.Type,
		Status:          payload.Status,
		AddedTags:       payload.AddedTags,
		RemovedTags:     payload.RemovedTags,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "article", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteArticles(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, removed, err := s.deps.Articles.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "article", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
