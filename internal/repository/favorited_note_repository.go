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

const favoritedNoteSelect = `SELECT user_favorited_notes.id, user_favorited_notes.user_id, user_favorited_notes.created_at, user_favorited_notes.updated_at, notes.id, notes.name, notes.description, notes.category_id, notes.icon, notes.cover, notes.popularity_count, notes.created_at, notes.updated_at
FROM user_favorited_notes
LEFT JOIN notes ON user_favorited_notes.note_id = notes.id`

// favoritedNoteRepository implements FavoritedNoteRepository interface
type favoritedNoteRepository struct {
	conn *db.Connection
}

// NewFavoritedNoteRepository creates a new favorited note repository
func NewFavoritedNoteRepository(conn *db.Connection) FavoritedNoteRepository {
	return &favoritedNoteRepository{conn: conn}
}

func scanFavoritedNote(row rowScanner) (domain.UserFavoritedNoteWithNote, error) {
	var f domain.UserFavoritedNoteWithNote
	var n domain.Note
	err := row.Scan(
		&f.ID, &f.UserID, &f.CreatedAt, &f.UpdatedAt,
		&n.ID, &n.Name, &n.Description, &n.CategoryID, &n.Icon, &n.Cover,
		&n.PopularityCount, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return domain.UserFavoritedNoteWithNote{}, err
	}
	f.Note = &n
	return f, nil
}

// Query lists favorites with their notes joined
func (r *favoritedNoteRepository) Query(ctx context.Context, opts query.Options) ([]domain.UserFavoritedNoteWithNote, query.PageMeta, error) {
	cond, err := compileFilter(domain.UserFavoritedNoteSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.UserFavoritedNoteSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(favoritedNoteSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query favorited notes", err)
	}
	defer rows.Close()

	favorites := []domain.UserFavoritedNoteWithNote{}
	for rows.Next() {
		favorite, err := scanFavoritedNote(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan favorited note: %w", err)
		}
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query favorited notes", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM user_favorited_notes`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count favorited notes", err)
	}

	return favorites, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a favorite with its note joined
func (r *favoritedNoteRepository) GetByID(ctx context.Context, id int64) (domain.UserFavoritedNoteWithNote, error) {
	sql, _ := query.Rebind(favoritedNoteSelect+" WHERE user_favorited_notes.id = ?", 1)

	favorite, err := scanFavoritedNote(r.conn.Pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserFavoritedNoteWithNote{}, domain.NewNotFound("favorited note with given id is not found")
		}
		return domain.UserFavoritedNoteWithNote{}, fmt.Errorf("failed to get favorited note: %w", err)
	}
	return favorite, nil
}

// Create records a note favorite
func (r *favoritedNoteRepository) Create(ctx context.Context, input domain.CreateUserFavoritedNote) (int64, error) {
	favoriteID, err := ids.New()
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO user_favorited_notes (id, user_id, note_id) VALUES ($1, $2, $3)`,
		favoriteID, input.UserID, input.NoteID)
	if err != nil {
		return 0, wrapError("create favorited note", err)
	}

	return favoriteID, nil
}

// DeleteByIDs removes favorites. Non-admin actors can only remove their own.
func (r *favoritedNoteRepository) DeleteByIDs(ctx context.Context, favoriteIDs []int64, actor domain.User) ([]int64, error) {
	sql := `DELETE FROM user_favorited_notes WHERE id = ANY($1) RETURNING id`
	args := []any{favoriteIDs}
	if actor.Role != domain.UserRoleAdmin {
		sql = `DELETE FROM user_favorited_notes WHERE id = ANY($1) AND user_id = $2 RETURNING id`
		args = append(args, actor.ID)
	}

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapError("delete favorited notes", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted favorite: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("delete favorited notes", err)
	}

	if len(deletedIDs) == 0 {
		return nil, domain.NewNotFound("favorited notes with given ids are not found")
	}

	return deletedIDs, nil
}
