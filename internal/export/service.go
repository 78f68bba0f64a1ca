// Package export renders the perfume catalog as an xlsx workbook for
// offline editing and backoffice use.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
	"github.com/dewabisma/parfum-api/internal/repository"
)

const catalogSheet = "Perfumes"

var catalogHeader = []string{
	"ID", "Name", "Brand", "Gender", "Type", "Occasion", "Price",
	"Release Date", "Variants", "Halal", "BPOM Certified", "Featured",
	"Views", "Likes",
}

// Service writes catalog exports.
type Service struct {
	perfumes repository.PerfumeRepository
	logger   zerolog.Logger
}

// NewService creates a new export service
func NewService(perfumes repository.PerfumeRepository, logger zerolog.Logger) *Service {
	return &Service{perfumes: perfumes, logger: logger}
}

// WriteCatalog streams the whole perfume catalog as an xlsx workbook, one
// row per perfume with the brand name resolved.
func (s *Service) WriteCatalog(ctx context.Context, w io.Writer) error {
	perfumes, _, err := s.perfumes.Query(ctx, query.Options{
		Limit: query.Limit{Unlimited: true},
		Order: query.Order{{Column: "name", Direction: "asc"}},
	})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", catalogSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	writeRow := func(rowIdx int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		return f.SetSheetRow(catalogSheet, cell, &values)
	}

	header := make([]any, len(catalogHeader))
	for i, h := range catalogHeader {
		header[i] = h
	}
	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, perfume := range perfumes {
		if err := writeRow(i+2, catalogRow(perfume)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info().Int("perfumes", len(perfumes)).Msg("exported catalog")
	return nil
}

func catalogRow(perfume domain.PerfumeWithBrand) []any {
	brandName := ""
	if perfume.Brand != nil {
		brandName = perfume.Brand.Name
	}
	releaseDate := ""
	if perfume.ReleaseDate != nil {
		releaseDate = *perfume.ReleaseDate
	}

	labels := make([]string, 0, len(perfume.Variants))
	for _, variant := range perfume.Variants {
		labels = append(labels, variant.Label)
	}

	return []any{
		perfume.ID, perfume.Name, brandName, string(perfume.Gender),
		string(perfume.Type), string(perfume.Occasion), int(perfume.Price),
		releaseDate, strings.Join(labels, ", "), perfume.IsHalal,
		perfume.IsBpomCertified, perfume.IsFeatured,
		perfume.ViewCount, perfume.LikeCount,
	}
}
