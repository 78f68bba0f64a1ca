package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type createNoteCategoryPayload struct {
	ID          *int64 `json:"id" validate:"omitempty,gt=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Cover       string `json:"cover" validate:"required,max=255"`
	Color       string `json:"color" validate:"required,max=50"`
	Shade       string `json:"shade" validate:"required,max=50"`
}

type updateNoteCategoryPayload struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Cover       *string `json:"cover" validate:"omitempty,max=255"`
	Color       *string `json:"color" validate:"omitempty,max=50"`
	Shade       *string `json:"shade" validate:"omitempty,max=50"`
}

func (s *Server) handleListNoteCategories(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	categories, meta, err := s.deps.NoteCategories.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, categories, meta)
}

func (s *Server) handleGetNoteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	category, err := s.deps.NoteCategories.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, category)
}

func (s *Server) handleCreateNoteCategory(w http.ResponseWriter, r *http.Request) {
	var payload createNoteCategoryPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.NoteCategories.Create(r.Context(), domain.CreateNoteCategory{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Cover:       payload.Cover,
		Color:       payload.Color,
		Shade:       payload.Shade,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "noteCategory", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateNoteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updateNoteCategoryPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	removed, err := s.deps.NoteCategories.Update(r.Context(), id, domain.UpdateNoteCategory{
		Name:        payload.Name,
		Description: payload.Description,
		Cover:       payload.Cover,
		Color:       payload.Color,
		Shade:       payload.Shade,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "noteCategory", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteNoteCategories(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, removed, err := s.deps.NoteCategories.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "noteCategory", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
