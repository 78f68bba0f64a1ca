package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/domain"
)

type updateUserPayload struct {
	Username    *string            `json:"username" validate:"omitempty,min=3,max=255"`
	Email       *string            `json:"email" validate:"omitempty,email"`
	DateOfBirth *string            `json:"dateOfBirth" validate:"omitempty,len=10"`
	Role        *domain.UserRole   `json:"role" validate:"omitempty,oneof=admin customer"`
	Status      *domain.UserStatus `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	users, meta, err := s.deps.Users.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, users, meta)
}

// handleGetUser returns a user profile. Non-admin callers may only read their
// own profile.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
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
	if actor.Role != domain.UserRoleAdmin && actor.ID != id {
		s.renderError(w, r, domain.NewUnauthorized("you may only access your own profile"))
		return
	}

	user, err := s.deps.Users.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, user)
}

// handleMe returns the authenticated user's own profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderError(w, r, domain.NewUnauthenticated("authentication is required"))
		return
	}

	user, err := s.deps.Users.GetByID(r.Context(), actor.ID)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, user)
}

// handleUpdateUser applies a partial profile update. Non-admin callers may
// only update their own profile and cannot change role or status.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
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
	if actor.Role != domain.UserRoleAdmin && actor.ID != id {
		s.renderError(w, r, domain.NewUnauthorized("you may only update your own profile"))
		return
	}

	var payload updateUserPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}
	if actor.Role != domain.UserRoleAdmin && (payload.Role != nil || payload.Status != nil) {
		s.renderError(w, r, domain.NewUnauthorized("only admins may change role or status"))
		return
	}

	if err := s.deps.Users.Update(r.Context(), id, domain.UpdateUser{
		Username:    payload.Username,
		Email:       payload.Email,
		DateOfBirth: payload.DateOfBirth,
		Role:        payload.Role,
		Status:      payload.Status,
	}); err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteUsers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.decodeIDs(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	deleted, err := s.deps.Users.DeleteByIDs(r.Context(), ids)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
