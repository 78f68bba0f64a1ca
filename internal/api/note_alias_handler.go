package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type createNoteAliasPayload struct {
	PerfumeID int64  `json:"perfumeId" validate:"required,gt=0"`
	NoteID    int64  `json:"noteId" validate:"required,gt=0"`
	NoteAlias string `json:"noteAlias" validate:"required,max=100"`
}

type updateNoteAliasPayload struct {
	NoteAlias *string `json:"noteAlias" validate:"omitempty,max=100"`
}

func (s *Server) handleListNoteAliases(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	aliases, meta, err := s.deps.NoteAliases.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, aliases, meta)
}

func (s *Server) handleGetNoteAlias(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	alias, err := s.deps.NoteAliases.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, alias)
}

func (s *Server) handleCreateNoteAlias(w http.ResponseWriter, r *http.Request) {
	var payload createNoteAliasPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.NoteAliases.Create(r.Context(), domain.CreatePerfumeNoteAlias{
		PerfumeID: payload.PerfumeID,
		NoteID:    payload.NoteID,
		NoteAlias: payload.NoteAlias,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "noteAlias", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateNoteAlias(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updateNoteAliasPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.deps.NoteAliases.Update(r.Context(), id, domain.UpdatePerfumeNoteAlias{
		NoteAlias: payload.NoteAlias,
	}); err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "noteAlias", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteNoteAliases(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, err := s.deps.NoteAliases.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "noteAlias", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
