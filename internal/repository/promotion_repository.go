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

const promotionSelect = `SELECT id, title, label, href, cover, is_active, created_at, updated_at FROM promotions`

// promotionRepository implements PromotionRepository interface
type promotionRepository struct {
	conn *db.Connection
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(conn *db.Connection) PromotionRepository {
	return &promotionRepository{conn: conn}
}

func scanPromotion(row rowScanner) (domain.Promotion, error) {
	var p domain.Promotion
	err := row.Scan(&p.ID, &p.Title, &p.Label, &p.Href, &p.Cover, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Query lists promotions
func (r *promotionRepository) Query(ctx context.Context, opts query.Options) ([]domain.Promotion, query.PageMeta, error) {
	cond, err := compileFilter(domain.PromotionSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.PromotionSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(promotionSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query promotions", err)
	}
	defer rows.Close()

	promotions := []domain.Promotion{}
	for rows.Next() {
		promotion, err := scanPromotion(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, promotion)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query promotions", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM promotions`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count promotions", err)
	}

	return promotions, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a promotion by ID
func (r *promotionRepository) GetByID(ctx context.Context, id int64) (domain.Promotion, error) {
	promotion, err := scanPromotion(r.conn.Pool.QueryRow(ctx, promotionSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Promotion{}, domain.NewNotFound("promotion with given id is not found")
		}
		return domain.Promotion{}, fmt.Errorf("failed to get promotion: %w", err)
	}
	return promotion, nil
}

// Create creates a new promotion
func (r *promotionRepository) Create(ctx context.Context, input domain.CreatePromotion) (int64, error) {
	promotionID, err := ids.NewOr(input.ID)
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO promotions (id, title, label, href, cover, is_active) VALUES ($1, $2, $3, $4, $5, $6)`,
		promotionID, input.Title, input.Label, input.Href, input.Cover, input.IsActive)
	if err != nil {
		return 0, wrapError("create promotion", err)
	}

	return promotionID, nil
}

// Update applies a partial promotion update and returns any superseded cover
// path
func (r *promotionRepository) Update(ctx context.Context, id int64, input domain.UpdatePromotion) ([]string, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setIfNotNil(set, "title", input.Title)
	setIfNotNil(set, "label", input.Label)
	setIfNotNil(set, "href", input.Href)
	setIfNotNil(set, "cover", input.Cover)
	setIfNotNil(set, "is_active", input.IsActive)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("promotions", id), set.args...); err != nil {
		return nil, wrapError("update promotion", err)
	}

	return supersededAssets(assetChange{old: &current.Cover, new: input.Cover}), nil
}

// DeleteByIDs removes promotions and reports their orphaned cover paths
func (r *promotionRepository) DeleteByIDs(ctx context.Context, promotionIDs []int64) ([]int64, []string, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`DELETE FROM promotions WHERE id = ANY($1) RETURNING id, cover`, promotionIDs)
	if err != nil {
		return nil, nil, wrapError("delete promotions", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	var removedAssets []string
	for rows.Next() {
		var id int64
		var cover string
		if err := rows.Scan(&id, &cover); err != nil {
			return nil, nil, fmt.Errorf("failed to scan deleted promotion: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
		removedAssets = appendAsset(removedAssets, &cover)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapError("delete promotions", err)
	}

	if len(deletedIDs) == 0 {
		return nil, nil, domain.NewNotFound("promotions with given ids are not found")
	}

	return deletedIDs, removedAssets, nil
}
