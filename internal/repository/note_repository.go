package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dewabisma/parfum-api/internal/db"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/ids"
	"github.com/dewabisma/parfum-api/internal/query"
)

const noteWithCategorySelect = `SELECT notes.id, notes.name, notes.description, notes.category_id, notes.icon, notes.cover, notes.popularity_count, notes.created_at, notes.updated_at, note_categories.id, note_categories.name, note_categories.description, note_categories.cover, note_categories.color, note_categories.shade, note_categories.created_at, note_categories.updated_at
FROM notes
LEFT JOIN note_categories ON notes.category_id = note_categories.id`

// noteRepository implements NoteRepository interface
type noteRepository struct {
	conn *db.Connection
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(conn *db.Connection) NoteRepository {
	return &noteRepository{conn: conn}
}

func scanNoteWithCategory(row rowScanner) (domain.NoteWithCategory, error) {
	var n domain.NoteWithCategory
	var catID *int64
	var catName, catDescription, catCover, catColor, catShade *string
	var catCreatedAt, catUpdatedAt *time.Time

	err := row.Scan(
		&n.ID, &n.Name, &n.Description, &n.CategoryID, &n.Icon, &n.Cover,
		&n.PopularityCount, &n.CreatedAt, &n.UpdatedAt,
		&catID, &catName, &catDescription, &catCover, &catColor, &catShade,
		&catCreatedAt, &catUpdatedAt,
	)
	if err != nil {
		return domain.NoteWithCategory{}, err
	}

	if catID != nil {
		n.Category = &domain.NoteCategory{
			ID:          *catID,
			Name:        *catName,
			Description: *catDescription,
			Cover:       *catCover,
			Color:       *catColor,
			Shade:       *catShade,
			CreatedAt:   *catCreatedAt,
			UpdatedAt:   *catUpdatedAt,
		}
	}
	return n, nil
}

func (r *noteRepository) queryWithCategory(ctx context.Context, cond query.Condition, opts query.Options) ([]domain.NoteWithCategory, query.PageMeta, error) {
	orderKeys, err := compileOrder(domain.NoteSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(noteWithCategorySelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query notes", err)
	}
	defer rows.Close()

	notes := []domain.NoteWithCategory{}
	for rows.Next() {
		note, err := scanNoteWithCategory(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query notes", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM notes`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count notes", err)
	}

	return notes, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// Query lists notes with their categories joined
func (r *noteRepository) Query(ctx context.Context, opts query.Options) ([]domain.NoteWithCategory, query.PageMeta, error) {
	cond, err := compileFilter(domain.NoteSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	return r.queryWithCategory(ctx, cond, opts)
}

// QueryNotFavorited lists notes the user has not favorited yet
func (r *noteRepository) QueryNotFavorited(ctx context.Context, userID int64, opts query.Options) ([]domain.NoteWithCategory, query.PageMeta, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`SELECT note_id FROM user_favorited_notes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query favorited notes", err)
	}
	defer rows.Close()

	favoritedIDs := []int64{}
	for rows.Next() {
		var noteID int64
		if err := rows.Scan(&noteID); err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan favorited note: %w", err)
		}
		favoritedIDs = append(favoritedIDs, noteID)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query favorited notes", err)
	}

	notFavorited := query.Condition{SQL: "notes.id <> ALL(?)", Args: []any{favoritedIDs}}
	cond, err := compileFilter(domain.NoteSchema, opts.Filter, notFavorited)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	return r.queryWithCategory(ctx, cond, opts)
}

// GetByID retrieves a note with its category joined
func (r *noteRepository) GetByID(ctx context.Context, id int64) (domain.NoteWithCategory, error) {
	sql, _ := query.Rebind(noteWithCategorySelect+" WHERE notes.id = ?", 1)

	note, err := scanNoteWithCategory(r.conn.Pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NoteWithCategory{}, domain.NewNotFound("note with given id is not found")
		}
		return domain.NoteWithCategory{}, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// Create creates a new note
func (r *noteRepository) Create(ctx context.Context, input domain.CreateNote) (int64, error) {
	noteID, err := ids.NewOr(input.ID)
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO notes (id, name, description, category_id, icon, cover) VALUES ($1, $2, $3, $4, $5, $6)`,
		noteID, input.Name, input.Description, input.CategoryID, input.Icon, input.Cover)
	if err != nil {
		return 0, wrapError("create note", err)
	}

	return noteID, nil
}

// Update applies a partial note update and returns any superseded icon or
// cover paths
func (r *noteRepository) Update(ctx context.Context, id int64, input domain.UpdateNote) ([]string, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setIfNotNil(set, "name", input.Name)
	setIfNotNil(set, "description", input.Description)
	setIfNotNil(set, "category_id", input.CategoryID)
	setIfNotNil(set, "icon", input.Icon)
	setIfNotNil(set, "cover", input.Cover)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("notes", id), set.args...); err != nil {
		return nil, wrapError("update note", err)
	}

	return supersededAssets(
		assetChange{old: &current.Cover, new: input.Cover},
		assetChange{old: &current.Icon, new: input.Icon},
	), nil
}

// DeleteByIDs removes notes and reports their orphaned icon and cover paths
func (r *noteRepository) DeleteByIDs(ctx context.Context, noteIDs []int64) ([]int64, []string, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`DELETE FROM notes WHERE id = ANY($1) RETURNING id, cover, icon`, noteIDs)
	if err != nil {
		return nil, nil, wrapError("delete notes", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	var removedAssets []string
	for rows.Next() {
		var id int64
		var cover, icon string
		if err := rows.Scan(&id, &cover, &icon); err != nil {
			return nil, nil, fmt.Errorf("failed to scan deleted note: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
		removedAssets = appendAsset(removedAssets, &cover, &icon)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, wrapError("delete notes", err)
	}

	if len(deletedIDs) == 0 {
		return nil, nil, domain.NewNotFound("notes with given ids are not found")
	}

	return deletedIDs, removedAssets, nil
}
