package api

import (
	"fmt"
	"net/http"
	"time"
)

// handleExportCatalog streams the perfume catalog as an xlsx workbook.
func (s *Server) handleExportCatalog(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("perfumes-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.deps.Export.WriteCatalog(r.Context(), w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error().Err(err).Msg("catalog export failed")
	}
}
