package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type createPromotionPayload struct {
	ID       *int64  `json:"id" validate:"omitempty,gt=0"`
	Title    *string `json:"title" validate:"omitempty,max=255"`
	Label    *string `json:"label" validate:"omitempty,max=255"`
	Href     *string `json:"href" validate:"omitempty,max=255"`
	Cover    string  `json:"cover" validate:"required,max=255"`
	IsActive bool    `json:"isActive"`
}

type updatePromotionPayload struct {
	Title    *string `json:"title" validate:"omitempty,max=255"`
	Label    *string `json:"label" validate:"omitempty,max=255"`
	Href     *string `json:"href" validate:"omitempty,max=255"`
	Cover    *string `json:"cover" validate:"omitempty,max=255"`
	IsActive *bool   `json:"isActive"`
}

func (s *Server) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	promotions, meta, err := s.deps.Promotions.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, promotions, meta)
}

func (s *Server) handleGetPromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	promotion, err := s.deps.Promotions.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, promotion)
}

func (s *Server) handleCreatePromotion(w http.ResponseWriter, r *http.Request) {
	var payload createPromotionPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.Promotions.Create(r.Context(), domain.CreatePromotion{
		ID:       payload.ID,
		Title:    payload.Title,
		Label:    payload.Label,
		Href:     payload.Href,
		Cover:    payload.Cover,
		IsActive: payload.IsActive,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "promotion", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdatePromotion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updatePromotionPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	removed, err := s.deps.Promotions.Update(r.Context(), id, domain.UpdatePromotion{
		Title:    payload.Title,
		Label:    payload.Label,
		Href:     payload.Href,
		Cover:    payload.Cover,
		IsActive: payload.IsActive,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "promotion", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeletePromotions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, removed, err := s.deps.Promotions.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "promotion", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
