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

const likedPerfumeSelect = `SELECT user_liked_perfumes.id, user_liked_perfumes.user_id, user_liked_perfumes.created_at, user_liked_perfumes.updated_at, ` + perfumeColumns + `
FROM user_liked_perfumes
LEFT JOIN perfumes ON user_liked_perfumes.perfume_id = perfumes.id`

// likedPerfumeRepository implements LikedPerfumeRepository interface
type likedPerfumeRepository struct {
	conn *db.Connection
}

// NewLikedPerfumeRepository creates a new liked perfume repository
func NewLikedPerfumeRepository(conn *db.Connection) LikedPerfumeRepository {
	return &likedPerfumeRepository{conn: conn}
}

func scanLikedPerfume(row rowScanner) (domain.UserLikedPerfumeWithPerfume, error) {
	var l domain.UserLikedPerfumeWithPerfume
	var p domain.Perfume
	dest := []any{&l.ID, &l.UserID, &l.CreatedAt, &l.UpdatedAt,
		&p.ID, &p.Name, &p.Description, &p.Gender, &p.Price, &p.ReleaseDate,
		&p.Variants, &p.BrandID, &p.Type, &p.BaseNotes, &p.MiddleNotes,
		&p.TopNotes, &p.UncategorizedNotes, &p.Occasion, &p.IsHalal,
		&p.IsBpomCertified, &p.IsFeatured, &p.ViewCount, &p.LikeCount,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(dest...); err != nil {
		return domain.UserLikedPerfumeWithPerfume{}, err
	}
	l.Perfume = &p
	return l, nil
}

// Query lists likes with their perfumes joined
func (r *likedPerfumeRepository) Query(ctx context.Context, opts query.Options) ([]domain.UserLikedPerfumeWithPerfume, query.PageMeta, error) {
	cond, err := compileFilter(domain.UserLikedPerfumeSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.UserLikedPerfumeSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(likedPerfumeSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query liked perfumes", err)
	}
	defer rows.Close()

	likes := []domain.UserLikedPerfumeWithPerfume{}
	for rows.Next() {
		like, err := scanLikedPerfume(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan liked perfume: %w", err)
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query liked perfumes", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM user_liked_perfumes`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count liked perfumes", err)
	}

	return likes, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a like with its perfume joined
func (r *likedPerfumeRepository) GetByID(ctx context.Context, id int64) (domain.UserLikedPerfumeWithPerfume, error) {
	sql, _ := query.Rebind(likedPerfumeSelect+" WHERE user_liked_perfumes.id = ?", 1)

	like, err := scanLikedPerfume(r.conn.Pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserLikedPerfumeWithPerfume{}, domain.NewNotFound("liked perfume with given id is not found")
		}
		return domain.UserLikedPerfumeWithPerfume{}, fmt.Errorf("failed to get liked perfume: %w", err)
	}
	return like, nil
}

// Create records a like and bumps the perfume's like counter in the same
// transaction
func (r *likedPerfumeRepository) Create(ctx context.Context, input domain.CreateUserLikedPerfume) (int64, error) {
	likeID, err := ids.New()
	if err != nil {
		return 0, err
	}

	err = r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_liked_perfumes (id, user_id, perfume_id) VALUES ($1, $2, $3)`,
			likeID, input.UserID, input.PerfumeID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE perfumes SET like_count = like_count + 1, updated_at = now() WHERE id = $1`,
			input.PerfumeID)
		return err
	})
	if err != nil {
		return 0, wrapError("create liked perfume", err)
	}

	return likeID, nil
}

// DeleteByIDs removes likes and drops the affected perfumes' like counters.
// Non-admin actors can only remove their own likes.
func (r *likedPerfumeRepository) DeleteByIDs(ctx context.Context, likeIDs []int64, actor domain.User) ([]int64, error) {
	var deletedIDs []int64

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		sql := `DELETE FROM user_liked_perfumes WHERE id = ANY($1) RETURNING id, perfume_id`
		args := []any{likeIDs}
		if actor.Role != domain.UserRoleAdmin {
			sql = `DELETE FROM user_liked_perfumes WHERE id = ANY($1) AND user_id = $2 RETURNING id, perfume_id`
			args = append(args, actor.ID)
		}

		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		var perfumeIDs []int64
		for rows.Next() {
			var id, perfumeID int64
			if err := rows.Scan(&id, &perfumeID); err != nil {
				return fmt.Errorf("failed to scan deleted like: %w", err)
			}
			deletedIDs = append(deletedIDs, id)
			perfumeIDs = append(perfumeIDs, perfumeID)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if len(deletedIDs) == 0 {
			return domain.NewNotFound("liked perfumes with given ids are not found")
		}

		_, err = tx.Exec(ctx,
			`UPDATE perfumes SET like_count = like_count - 1, updated_at = now() WHERE id = ANY($1)`,
			perfumeIDs)
		return err
	})
	if err != nil {
		return nil, wrapError("delete liked perfumes", err)
	}

	return deletedIDs, nil
}
