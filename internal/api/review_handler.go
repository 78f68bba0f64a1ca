package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/domain"
)

type createReviewPayload struct {
	PerfumeID int64  `json:"perfumeId" validate:"required,gt=0"`
	Comment   string `json:"comment" validate:"required"`
	Rating    int16  `json:"rating" validate:"required,gte=1,lte=5"`
}

type updateReviewPayload struct {
	Comment *string `json:"comment"`
	Rating  *int16  `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	reviews, meta, err := s.deps.Reviews.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, reviews, meta)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	review, err := s.deps.Reviews.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, review)
}

// handleCreateReview writes a review on behalf of the authenticated user.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderError(w, r, domain.NewUnauthenticated("authentication is required"))
		return
	}

	var payload createReviewPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.Reviews.Create(r.Context(), domain.CreatePerfumeReview{
		UserID:    actor.ID,
		PerfumeID: payload.PerfumeID,
		Comment:   payload.Comment,
		Rating:    payload.Rating,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "review", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
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

	var payload updateReviewPayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	if err := s.deps.Reviews.Update(r.Context(), id, actor.ID, domain.UpdatePerfumeReview{
		Comment: payload.Comment,
		Rating:  payload.Rating,
	}); err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "review", "update")
	s.renderData(w, http.StatusOK, map[string]int64{"id": id})
}

// handleDeleteReviews deletes the caller's reviews. Admins may delete any
// review.
func (s *Server) handleDeleteReviews(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := s.deps.Reviews.DeleteByIDs(r.Context(), ids, actor)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "review", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
