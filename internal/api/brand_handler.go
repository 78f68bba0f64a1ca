package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type createBrandPayload struct {
	ID          *int64  `json:"id" validate:"omitempty,gt=0"`
	Name        string  `json:"name" validate:"required,max=255"`
	Banner      *string `json:"banner" validate:"omitempty,max=255"`
	Logo        *string `json:"logo" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Website     *string `json:"website" validate:"omitempty,max=255"`
	IgUsername  *string `json:"igUsername" validate:"omitempty,max=100"`
}

type updateBrandPayload struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Banner      *string `json:"banner" validate:"omitempty,max=255"`
	Logo        *string `json:"logo" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Website     *string `json:"website" validate:"omitempty,max=255"`
	IgUsername  *string `json:"igUsername" validate:"omitempty,max=100"`
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	brands, meta, err := s.deps.Brands.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, brands, meta)
}

func (s *Server) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	brand, err := s.deps.Brands.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, brand)
}

func (s *Server) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var payload createBrandPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.Brands.Create(r.Context(), domain.CreateBrand{
		ID:          payload.ID,
		Name:        payload.Name,
		Banner:      payload.Banner,
		Logo:        payload.Logo,
		Description: payload.Description,
		Website:     payload.Website,
		IgUsername:  payload.IgUsername,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "brand", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updateBrandPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	removed, err := s.deps.Brands.Update(r.Context(), id, domain.UpdateBrand{
		Name:        payload.Name,
		Banner:      payload.Banner,
		Logo:        payload.Logo,
		Description: payload.Description,
		Website:     payload.Website,
		IgUsername:  payload.IgUsername,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "brand", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteBrands(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, removed, err := s.deps.Brands.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "brand", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
