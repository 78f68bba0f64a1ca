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

// reviewDisplaySelect joins each review with the reviewer's public profile
// and the reviewed perfume's identity. Password and the other private user
// columns are never selected.
const reviewDisplaySelect = `SELECT perfume_reviews.id, perfume_reviews.comment, perfume_reviews.rating, perfume_reviews.created_at, perfume_reviews.updated_at, users.id, users.username, users.role, perfumes.id, perfumes.name, brands.id, brands.name
FROM perfume_reviews
LEFT JOIN users ON perfume_reviews.user_id = users.id
LEFT JOIN perfumes ON perfume_reviews.perfume_id = perfumes.id
LEFT JOIN brands ON perfumes.brand_id = brands.id`

// reviewRepository implements ReviewRepository interface
type reviewRepository struct {
	conn *db.Connection
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(conn *db.Connection) ReviewRepository {
	return &reviewRepository{conn: conn}
}

func scanReviewDisplay(row rowScanner) (domain.PerfumeReviewDisplay, error) {
	var rv domain.PerfumeReviewDisplay
	var userID *int64
	var username *string
	var role *domain.UserRole
	var perfumeID, brandID *int64
	var perfumeName, brandName *string

	err := row.Scan(
		&rv.ID, &rv.Comment, &rv.Rating, &rv.CreatedAt, &rv.UpdatedAt,
		&userID, &username, &role,
		&perfumeID, &perfumeName,
		&brandID, &brandName,
	)
	if err != nil {
		return domain.PerfumeReviewDisplay{}, err
	}

	if userID != nil {
		rv.User = &domain.ReviewUser{ID: *userID, Username: username, Role: *role}
	}
	if perfumeID != nil {
		rv.Perfume = &domain.PerfumeRef{ID: *perfumeID, Name: *perfumeName}
	}
	if brandID != nil {
		rv.Brand = &domain.BrandRef{ID: *brandID, Name: *brandName}
	}
	return rv, nil
}

// Query lists reviews with reviewer and perfume identities joined
func (r *reviewRepository) Query(ctx context.Context, opts query.Options) ([]domain.PerfumeReviewDisplay, query.PageMeta, error) {
	cond, err := compileFilter(domain.PerfumeReviewSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.PerfumeReviewSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(reviewDisplaySelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query reviews", err)
	}
	defer rows.Close()

	reviews := []domain.PerfumeReviewDisplay{}
	for rows.Next() {
		review, err := scanReviewDisplay(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query reviews", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM perfume_reviews`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count reviews", err)
	}

	return reviews, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a review with reviewer and perfume identities joined
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (domain.PerfumeReviewDisplay, error) {
	sql, _ := query.Rebind(reviewDisplaySelect+" WHERE perfume_reviews.id = ?", 1)

	review, err := scanReviewDisplay(r.conn.Pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PerfumeReviewDisplay{}, domain.NewNotFound("review with given id is not found")
		}
		return domain.PerfumeReviewDisplay{}, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// Create posts a review. The unique reviewer-perfume constraint surfaces as a
// conflict on a second attempt.
func (r *reviewRepository) Create(ctx context.Context, input domain.CreatePerfumeReview) (int64, error) {
	reviewID, err := ids.New()
	if err != nil {
		return 0, err
	}

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO perfume_reviews (id, user_id, perfume_id, comment, rating) VALUES ($1, $2, $3, $4, $5)`,
		reviewID, input.UserID, input.PerfumeID, input.Comment, input.Rating)
	if err != nil {
		return 0, wrapError("create review", err)
	}

	return reviewID, nil
}

// Update applies a partial review update. Only the review's writer may edit
// it.
func (r *reviewRepository) Update(ctx context.Context, id int64, actorID int64, input domain.UpdatePerfumeReview) error {
	var writerID int64
	err := r.conn.Pool.QueryRow(ctx, `SELECT user_id FROM perfume_reviews WHERE id = $1`, id).Scan(&writerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("review with given id is not found")
		}
		return fmt.Errorf("failed to get review: %w", err)
	}
	if writerID != actorID {
		return domain.NewUnauthorized("you are not the writer of the review")
	}

	set := newSetBuilder()
	setIfNotNil(set, "comment", input.Comment)
	setIfNotNil(set, "rating", input.Rating)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("perfume_reviews", id), set.args...); err != nil {
		return wrapError("update review", err)
	}
	return nil
}

// DeleteByIDs removes reviews. Admins may delete any review; other users only
// their own.
func (r *reviewRepository) DeleteByIDs(ctx context.Context, reviewIDs []int64, actor domain.User) ([]int64, error) {
	sql := `DELETE FROM perfume_reviews WHERE id = ANY($1) RETURNING id`
	args := []any{reviewIDs}
	if actor.Role != domain.UserRoleAdmin {
		sql = `DELETE FROM perfume_reviews WHERE id = ANY($1) AND user_id = $2 RETURNING id`
		args = append(args, actor.ID)
	}

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapError("delete reviews", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted review: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("delete reviews", err)
	}

	if len(deletedIDs) == 0 {
		return nil, domain.NewNotFound("reviews with given ids are not found")
	}

	return deletedIDs, nil
}
