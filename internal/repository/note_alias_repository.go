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

const noteAliasSelect = `SELECT id, perfume_id, note_id, note_alias, created_at, updated_at FROM perfume_note_aliases`

// noteAliasRepository implements NoteAliasRepository interface
type noteAliasRepository struct {
	conn *db.Connection
}

// NewNoteAliasRepository creates a new note alias repository
func NewNoteAliasRepository(conn *db.Connection) NoteAliasRepository {
	return &noteAliasRepository{conn: conn}
}

func scanNoteAlias(row rowScanner) (domain.PerfumeNoteAlias, error) {
	var a domain.PerfumeNoteAlias
	err := row.Scan(&a.ID, &a.PerfumeID, &a.NoteID, &a.NoteAlias, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Query lists per-perfume note aliases
func (r *noteAliasRepository) Query(ctx context.Context, opts query.Options) ([]domain.PerfumeNoteAlias, query.PageMeta, error) {
	cond, err := compileFilter(domain.PerfumeNoteAliasSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.PerfumeNoteAliasSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(noteAliasSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query note aliases", err)
	}
	defer rows.Close()

	aliases := []domain.PerfumeNoteAlias{}
	for rows.Next() {
		alias, err := scanNoteAlias(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan note alias: %w", err)
		}
		aliases = append(aliases, alias)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query note aliases", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM perfume_note_aliases`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count note aliases", err)
	}

	return aliases, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a note alias by ID
func (r *noteAliasRepository) GetByID(ctx context.Context, id int64) (domain.PerfumeNoteAlias, error) {
	alias, err := scanNoteAlias(r.conn.Pool.QueryRow(ctx, noteAliasSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PerfumeNoteAlias{}, domain.NewNotFound("note alias with given id is not found")
		}
		return domain.PerfumeNoteAlias{}, fmt.Errorf("failed to get note alias: %w", err)
	}
	return alias, nil
}

// Create creates a new note alias
func (r *noteAliasRepository) Create(ctx context.Context, input domain.CreatePerfumeNoteAlias) (int64, error) {
	aliasID, err := ids.New()
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO perfume_note_aliases (id, perfume_id, note_id, note_alias) VALUES ($1, $2, $3, $4)`,
		aliasID, input.PerfumeID, input.NoteID, input.NoteAlias)
	if err != nil {
		return 0, wrapError("create note alias", err)
	}

	return aliasID, nil
}

// Update applies a partial note alias update
func (r *noteAliasRepository) Update(ctx context.Context, id int64, input domain.UpdatePerfumeNoteAlias) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	set := newSetBuilder()
	setIfNotNil(set, "note_alias", input.NoteAlias)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("perfume_note_aliases", id), set.args...); err != nil {
		return wrapError("update note alias", err)
	}
	return nil
}

// DeleteByIDs removes note aliases
func (r *noteAliasRepository) DeleteByIDs(ctx context.Context, aliasIDs []int64) ([]int64, error) {
	rows, err := r.conn.Pool.Query(ctx,
		`DELETE FROM perfume_note_aliases WHERE id = ANY($1) RETURNING id`, aliasIDs)
	if err != nil {
		return nil, wrapError("delete note aliases", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted note alias: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("delete note aliases", err)
	}

	if len(deletedIDs) == 0 {
		return nil, domain.NewNotFound("note aliases with given ids are not found")
	}

	return deletedIDs, nil
}
