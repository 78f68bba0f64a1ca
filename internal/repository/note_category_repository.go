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

const noteCategorySelect = `SELECT id, name, description, cover, color, shade, created_at, updated_at FROM note_categories`

// noteCategoryRepository implements NoteCategoryRepository interface
type noteCategoryRepository struct {
	conn *db.Connection
}

// NewNoteCategoryRepository creates a new note category repository
func NewNoteCategoryRepository(conn *db.Connection) NoteCategoryRepository {
	return &noteCategoryRepository{conn: conn}
}

func scanNoteCategory(row rowScanner) (domain.NoteCategory, error) {
	var c domain.NoteCategory
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Cover, &c.Color, &c.Shade, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Query lists note categories
func (r *noteCategoryRepository) Query(ctx context.Context, opts query.Options) ([]domain.NoteCategory, query.PageMeta, error) {
	cond, err := compileFilter(domain.NoteCategorySchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.NoteCategorySchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(noteCategorySelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query note categories", err)
	}
	defer rows.Close()

	categories := []domain.NoteCategory{}
	for rows.Next() {
		category, err := scanNoteCategory(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan note category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query note categories", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM note_categories`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count note categories", err)
	}

	return categories, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a note category by ID
func (r *noteCategoryRepository) GetByID(ctx context.Context, id int64) (domain.NoteCategory, error) {
	category, err := scanNoteCategory(r.conn.Pool.QueryRow(ctx, noteCategorySelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NoteCategory{}, domain.NewNotFound("note category with given id is not found")
		}
		return domain.NoteCategory{}, fmt.Errorf("failed to get note category: %w", err)
	}
	return category, nil
}

// Create creates a new note category
func (r *noteCategoryRepository) Create(ctx context.Context, input domain.CreateNoteCategory) (int64, error) {
	categoryID, err := ids.NewOr(input.ID)
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO note_categories (id, name, description, cover, color, shade) VALUES ($1, $2, $3, $4, $5, $6)`,
		categoryID, input.Name, input.Description, input.Cover, input.Color, input.Shade)
	if err != nil {
		return 0, wrapError("create note category", err)
	}

	return categoryID, nil
}

// Update applies a partial note category update and returns any superseded
// cover path
func (r *noteCategoryRepository) Update(ctx context.Context, id int64, input domain.UpdateNoteCategory) ([]string, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setIfNotNil(set, "name", input.Name)
	setIfNotNil(set, "description", input.Description)
	setIfNotNil(set, "cover", input.Cover)
	setIfNotNil(set, "color", input.Color)
	setIfNotNil(set, "shade", input.Shade)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("note_categories", id), set.args...); err != nil {
		return nil, wrapError("update note category", err)
	}

	return supersededAssets(assetChange{old: &current.Cover, new: input.Cover}), nil
}

// DeleteByIDs removes note categories and reports their orphaned cover paths
func (r *noteCategoryRepository) DeleteByIDs(ctx context.Context, categoryIDs []int64) ([]int64, []string, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`DELETE FROM note_categories WHERE id = ANY($1) RETURNING id, cover`, categoryIDs)
	if err != nil {
		return nil, nil, wrapError("delete note categories", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	var removedAssets []string
	for rows.Next() {
		var id int64
		var cover string
		if err := rows.Scan(&id, &cover); err != nil {
			return nil, nil, fmt.Errorf("failed to scan deleted note category: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
		removedAssets = appendAsset(removedAssets, &cover)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapError("delete note categories", err)
	}

	if len(deletedIDs) == 0 {
		return nil, nil, domain.NewNotFound("note categories with given ids are not found")
	}

	return deletedIDs, removedAssets, nil
}
