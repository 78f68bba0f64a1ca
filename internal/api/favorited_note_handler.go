package api

import (
	"net/http"

	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/domain"
)

type createFavoritedNotePayload struct {
	NoteID int64 `json:"noteId" validate:"required,gt=0"`
}

// handleListFavoritedNotes lists favorites. Non-admin callers only see their
// own rows regardless of the requested filter.
func (s *Server) handleListFavoritedNotes(w http.ResponseWriter, r *http.Request) {
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

	favorites, meta, err := s.deps.FavoritedNotes.Query(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderList(w, favorites, meta)
}

func (s *Server) handleGetFavoritedNote(w http.ResponseWriter, r *http.Request) {
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

	favorite, err := s.deps.FavoritedNotes.GetByID(r.Context(), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if actor.Role != domain.UserRoleAdmin && favorite.UserID != actor.ID {
		s.renderError(w, r, domain.NewUnauthorized("you do not own this favorite"))
		return
	}
	s.renderData(w, http.StatusOK, favorite)
}

func (s *Server) handleCreateFavoritedNote(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.renderError(w, r, domain.NewUnauthenticated("authentication is required"))
		return
	}

	var payload createFavoritedNotePayload
	if err := s.decodeBody(r, &payload); err != nil {
		s.renderError(w, r, err)
		return
	}

	id, err := s.deps.FavoritedNotes.Create(r.Context(), domain.CreateUserFavoritedNote{
		UserID: actor.ID,
		NoteID: payload.NoteID,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "favoritedNote", "create")
	s.renderData(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleDeleteFavoritedNotes(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := s.deps.FavoritedNotes.DeleteByIDs(r.Context(), ids, actor)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.notify(r.Context(), "favoritedNote", "delete")
	s.renderData(w, http.StatusOK, map[string][]int64{"ids": deleted})
}
