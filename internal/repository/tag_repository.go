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

const tagSelect = `SELECT id, name, created_at, updated_at FROM tags`

// tagRepository implements TagRepository interface
type tagRepository struct {
	conn *db.Connection
}

// NewTagRepository creates a new tag repository
func NewTagRepository(conn *db.Connection) TagRepository {
	return &tagRepository{conn: conn}
}

func scanTag(row rowScanner) (domain.Tag, error) {
	var t domain.Tag
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Query lists tags
func (r *tagRepository) Query(ctx context.Context, opts query.Options) ([]domain.Tag, query.PageMeta, error) {
	cond, err := compileFilter(domain.TagSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.TagSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(tagSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query tags", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query tags", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM tags`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count tags", err)
	}

	return tags, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a tag by ID
func (r *tagRepository) GetByID(ctx context.Context, id int64) (domain.Tag, error) {
	tag, err := scanTag(r.conn.Pool.QueryRow(ctx, tagSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.NewNotFound("tag with given id is not found")
		}
		return domain.Tag{}, fmt.Errorf("failed to get tag: %w", err)
	}
	return tag, nil
}

// Create creates a new tag
func (r *tagRepository) Create(ctx context.Context, input domain.CreateTag) (int64, error) {
	tagID, err := ids.NewOr(input.ID)
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx, `INSERT INTO tags (id, name) VALUES ($1, $2)`, tagID, input.Name)
	if err != nil {
		return 0, wrapError("create tag", err)
	}

	return tagID, nil
}

// Update applies a partial tag update
func (r *tagRepository) Update(ctx context.Context, id int64, input domain.UpdateTag) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	set := newSetBuilder()
	setIfNotNil(set, "name", input.Name)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("tags", id), set.args...); err != nil {
		return wrapError("update tag", err)
	}
	return nil
}

// DeleteByIDs removes tags
func (r *tagRepository) DeleteByIDs(ctx context.Context, tagIDs []int64) ([]int64, error) {
	rows, err := r.conn.Pool.Query(ctx, `DELETE FROM tags WHERE id = ANY($1) RETURNING id`, tagIDs)
	if err != nil {
		return nil, wrapError("delete tags", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted tag: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("delete tags", err)
	}

	if len(deletedIDs) == 0 {
		return nil, domain.NewNotFound("tags with given ids are not found")
	}

	return deletedIDs, nil
}
