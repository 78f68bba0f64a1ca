package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/domain"
)

type createTagPayload struct {
	ID   *int64 `json:"id" validate:"omitempty,gt=0"`
	Name string `json:"name" validate:"required,max=100"`
}

type updateTagPayload struct {
	Name *string `json:"name" validate:"omitempty,max=100"`
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	tags, meta, err := s.deps.Tags.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, tags, meta)
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	tag, err := s.deps.Tags.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, tag)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var payload createTagPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.Tags.Create(r.Context(), domain.CreateTag{
		ID:   payload.ID,
		Name: payload.Name,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "tag", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var payload updateTagPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.deps.Tags.Update(r.Context(), id, domain.UpdateTag{Name: payload.Name}); err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "tag", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteTags(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, err := s.deps.Tags.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "tag", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
