package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dewabisma/parfum-api/internal/db"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
)

// searchRepository implements SearchRepository interface
type searchRepository struct {
	conn *db.Connection
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(conn *db.Connection) SearchRepository {
	return &searchRepository{conn: conn}
}

func (r *searchRepository) perfumesWhere(ctx context.Context, where string, args ...any) ([]domain.PerfumeWithBrand, error) {
	sql, _ := query.Rebind(perfumeWithBrandSelect+" WHERE "+where, 1)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapError("search perfumes", err)
	}
	defer rows.Close()

	perfumes := []domain.PerfumeWithBrand{}
	for rows.Next() {
		perfume, err := scanPerfumeWithBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan perfume: %w", err)
		}
		perfumes = append(perfumes, perfume)
	}
	return perfumes, rows.Err()
}

// SearchAll matches the keyword against perfume names, brand names, and
// article titles and authors. A brand-name hit pulls in that brand's whole
// catalog after the direct name matches.
func (r *searchRepository) SearchAll(ctx context.Context, keyword string) (SearchResult, error) {
	pattern := "%" + keyword + "%"

	byName, err := r.perfumesWhere(ctx, "perfumes.name ILIKE ?", pattern)
	if err != nil {
		return SearchResult{}, err
	}

	var byBrand []domain.PerfumeWithBrand
	var brandID int64
	err = r.conn.Pool.QueryRow(ctx,
		`SELECT id FROM brands WHERE name ILIKE $1 LIMIT 1`, pattern).Scan(&brandID)
	switch {
	case err == nil:
		byBrand, err = r.perfumesWhere(ctx, "perfumes.brand_id = ?", brandID)
		if err != nil {
			return SearchResult{}, err
		}
	case !errors.Is(err, pgx.ErrNoRows):
		return SearchResult{}, wrapError("search brands", err)
	}

	seen := make(map[int64]struct{}, len(byName))
	perfumes := make([]domain.PerfumeWithBrand, 0, len(byName)+len(byBrand))
	for _, p := range append(byName, byBrand...) {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		perfumes = append(perfumes, p)
	}

	articleSQL, _ := query.Rebind(
		articleWithTagsSelect+" WHERE articles.title ILIKE ? OR articles.author ILIKE ? GROUP BY articles.id", 1)
	rows, err := r.conn.Pool.Query(ctx, articleSQL, pattern, pattern)
	if err != nil {
		return SearchResult{}, wrapError("search articles", err)
	}
	defer rows.Close()

	articles := []domain.ArticleWithTags{}
	for rows.Next() {
		article, err := scanArticleWithTags(rows)
		if err != nil {
			return SearchResult{}, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{}, wrapError("search articles", err)
	}

	return SearchResult{Perfumes: perfumes, Articles: articles}, nil
}
