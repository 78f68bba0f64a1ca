package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/domain"
)

type createNotePayload struct {
	ID          *int64 `json:"id" validate:"omitempty,gt=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	CategoryID  int64  `json:"categoryId" validate:"required,gt=0"`
	Icon        string `json:"icon" validate:"required,max=255"`
	Cover       string `json:"cover" validate:"required,max=255"`
}

type updateNotePayload struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"categoryId" validate:"omitempty,gt=0"`
	Icon        *string `json:"icon" validate:"omitempty,max=255"`
	Cover       *string `json:"cover" validate:"omitempty,max=255"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	notes, meta, err := s.deps.Notes.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, notes, meta)
}

// handleNotesNotFavorited lists the notes the authenticated user has not
// favorited yet.
func (s *Server) handleListNotFavoritedNotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderError(w, r, domain.NewUnauthenticated("authentication is required"))
		return
	}

	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	notes, meta, err := s.deps.Notes.QueryNotFavorited(r.Context(), actor.ID, opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, notes, meta)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	note, err := s.deps.Notes.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, note)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var payload createNotePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.Notes.Create(r.Context(), domain.CreateNote{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		CategoryID:  payload.CategoryID,
		Icon:        payload.Icon,
		Cover:       payload.Cover,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "note", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updateNotePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	removed, err := s.deps.Notes.Update(r.Context(), id, domain.UpdateNote{
		Name:        payload.Name,
		Description: payload.Description,
		CategoryID:  payload.CategoryID,
		Icon:        payload.Icon,
		Cover:       payload.Cover,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "note", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteNotes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, removed, err := s.deps.Notes.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.cleanupAssets(removed)
	s.notify(r.Context(), "note", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
