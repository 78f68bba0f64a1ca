package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
)

type createLikedPerfumePayload struct {
	PerfumeID int64 `json:"perfumeId" validate:"required,gt=0"`
}

// handleListLikedPerfumes lists likes. Non-admin callers only see their own
// rows regardless of the requested filter.
func (s *Server) handleListLikedPerfumes(w http.ResponseWriter, r *http.Request) {
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
	if actor.Role != domain.UserRoleAdmin {
		opts.Filter = ownerScopedFilter(opts.Filter, actor.ID)
	}

	likes, meta, err := s.deps.LikedPerfumes.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, likes, meta)
}

func (s *Server) handleGetLikedPerfume(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderError(w, r, domain.NewUnauthenticated("authentication is required"))
		return
	}

	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	like, err := s.deps.LikedPerfumes.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if actor.Role != domain.UserRoleAdmin && like.UserID != actor.ID {
		s.renderError(w, r, domain.NewUnauthorized("you do not own this like"))
		return
	}
	s.renderData(w, http.StatusOK, like)
}

func (s *Server) handleCreateLikedPerfume(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderError(w, r, domain.NewUnauthenticated("authentication is required"))
		return
	}

	var payload createLikedPerfumePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.LikedPerfumes.Create(r.Context(), domain.CreateUserLikedPerfume{
		UserID:    actor.ID,
		PerfumeID: payload.PerfumeID,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "likedPerfume", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleDeleteLikedPerfumes(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderError(w, r, domain.NewUnauthenticated("authentication is required"))
		return
	}

	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, err := s.deps.LikedPerfumes.DeleteByIDs(r.Context(), ids, actor)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "likedPerfume", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}

// ownerScopedFilter pins a list filter to the caller's rows via the userId
// schema column.
func ownerScopedFilter(filter query.Filter, userID int64) query.Filter {
	owned := query.Comparison{Op: query.OpEq, Column: "userId", Value: userID}
	if filter == nil {
		return owned
	}
	return query.Group{Conj: query.ConjAnd, Children: []query.Filter{owned, filter}}
}
