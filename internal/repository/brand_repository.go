package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dewabisma/parfum-api/internal/db"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/ids"
	"github.com/dewabisma/parfum-api/internal/query"
)

const brandSelect = `SELECT id, name, banner, logo, description, website, ig_username, created_at, updated_at FROM brands`

// brandRepository implements BrandRepository interface
type brandRepository struct {
	conn *db.Connection
}

// NewBrandRepository creates a new brand repository
func NewBrandRepository(conn *db.Connection) BrandRepository {
	return &brandRepository{conn: conn}
}

func scanBrand(row rowScanner) (domain.Brand, error) {
	var b domain.Brand
	err := row.Scan(&b.ID, &b.Name, &b.Banner, &b.Logo, &b.Description, &b.Website, &b.IgUsername, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Query lists brands
func (r *brandRepository) Query(ctx context.Context, opts query.Options) ([]domain.Brand, query.PageMeta, error) {
	cond, err := compileFilter(domain.BrandSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.BrandSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(brandSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query brands", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query brands", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM brands`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count brands", err)
	}

	return brands, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a brand by ID
func (r *brandRepository) GetByID(ctx context.Context, id int64) (domain.Brand, error) {
	brand, err := scanBrand(r.conn.Pool.QueryRow(ctx, brandSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Brand{}, domain.NewNotFound("brand with given id is not found")
		}
		return domain.Brand{}, fmt.Errorf("failed to get brand: %w", err)
	}
	return brand, nil
}

// Create creates a new brand
func (r *brandRepository) Create(ctx context.Context, input domain.CreateBrand) (int64, error) {
	brandID, err := ids.NewOr(input.ID)
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO brands (id, name, banner, logo, description, website, ig_username) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		brandID, input.Name, input.Banner, input.Logo, input.Description, input.Website, input.IgUsername)
	if err != nil {
		return 0, wrapError("create brand", err)
	}

	return brandID, nil
}

// Update applies a partial brand update and returns any superseded banner or
// logo paths
func (r *brandRepository) Update(ctx context.Context, id int64, input domain.UpdateBrand) ([]string, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setIfNotNil(set, "name", input.Name)
	setIfNotNil(set, "banner", input.Banner)
	setIfNotNil(set, "logo", input.Logo)
	setIfNotNil(set, "description", input.Description)
	setIfNotNil(set, "website", input.Website)
	setIfNotNil(set, "ig_username", input.IgUsername)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("brands", id), set.args...); err != nil {
		return nil, wrapError("update brand", err)
	}

	return supersededAssets(
		assetChange{old: current.Banner, new: input.Banner},
		assetChange{old: current.Logo, new: input.Logo},
	), nil
}

// DeleteByIDs removes brands and reports their orphaned banner and logo paths
func (r *brandRepository) DeleteByIDs(ctx context.Context, brandIDs []int64) ([]int64, []string, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`DELETE FROM brands WHERE id = ANY($1) RETURNING id, banner, logo`, brandIDs)
	if err != nil {
		return nil, nil, wrapError("delete brands", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	var removedAssets []string
	for rows.Next() {
		var id int64
		var banner, logo *string
		if err := rows.Scan(&id, &banner, &logo); err != nil {
			return nil, nil, fmt.Errorf("failed to scan deleted brand: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
		removedAssets = appendAsset(removedAssets, banner, logo)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapError("delete brands", err)
	}

	if len(deletedIDs) == 0 {
		return nil, nil, domain.NewNotFound("brands with given ids are not found")
	}

	return deletedIDs, removedAssets, nil
}
