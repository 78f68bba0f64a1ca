package api

import (
	"net/http"
	"strings"

	"github.com/dewabisma/parfum-api/internal/domain"
)

// handleSearch matches perfumes and articles against a keyword. A keyword
// matching a brand name pulls in that brand's whole catalog.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		s.renderError(w, r, domain.NewBadRequest("keyword query parameter is required"))
		return
	}

	result, err := s.deps.Search.SearchAll(r.Context(), keyword)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderData(w, http.StatusOK, result)
}
