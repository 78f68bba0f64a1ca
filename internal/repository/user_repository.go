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

// userSelect leaves the password column out so it cannot leak through list
// and profile reads. Credential checks go through userWithPasswordSelect.
const userSelect = `SELECT id, username, email, date_of_birth, role, oauth_provider, oauth_uid, user_status, last_login_at, created_at, updated_at FROM users`

const userWithPasswordSelect = `SELECT id, username, email, date_of_birth, password, role, oauth_provider, oauth_uid, user_status, last_login_at, created_at, updated_at FROM users`

// userRepository implements UserRepository interface
type userRepository struct {
	conn *db.Connection
}

// NewUserRepository creates a new user repository
func NewUserRepository(conn *db.Connection) UserRepository {
	return &userRepository{conn: conn}
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DateOfBirth, &u.Role, &u.OauthProvider, &u.OauthUID, &u.Status, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func scanUserWithPassword(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DateOfBirth, &u.Password, &u.Role, &u.OauthProvider, &u.OauthUID, &u.Status, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Query lists users without their password hashes
func (r *userRepository) Query(ctx context.Context, opts query.Options) ([]domain.User, query.PageMeta, error) {
	cond, err := compileFilter(domain.UserSchema, opts.Filter)
	if err != nil {
		return nil, query.PageMeta{}, err
	}
	orderKeys, err := compileOrder(domain.UserSchema, opts.Order)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	rowOffset := query.RowOffset(opts.Limit, opts.Offset, opts.Page)
	sql, args := buildListSQL(userSelect, cond, "", orderKeys, opts.Limit, rowOffset)

	rows, err := r.conn.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, query.PageMeta{}, wrapError("query users", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, query.PageMeta{}, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, query.PageMeta{}, wrapError("query users", err)
	}

	countSQL, countArgs := buildCountSQL(`SELECT COUNT(*) FROM users`, cond)
	var total int64
	if err := r.conn.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, query.PageMeta{}, wrapError("count users", err)
	}

	return users, query.NewPageMeta(total, opts.Limit, opts.Offset, opts.Page), nil
}

// GetByID retrieves a user without the password hash
func (r *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, err := scanUser(r.conn.Pool.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.NewNotFound("user with given id is not found")
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByLogin retrieves a user by email or username, password hash included,
// for credential checks
func (r *userRepository) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	user, err := scanUserWithPassword(r.conn.Pool.QueryRow(ctx,
		userWithPasswordSelect+` WHERE email = $1 OR username = $1`, login))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.NewNotFound("user with given login is not found")
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := scanUser(r.conn.Pool.QueryRow(ctx, userSelect+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.NewNotFound("user with given email is not found")
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByOauth retrieves a user by oauth provider and uid
func (r *userRepository) GetByOauth(ctx context.Context, provider domain.OauthProvider, uid string) (domain.User, error) {
	user, err := scanUser(r.conn.Pool.QueryRow(ctx,
		userSelect+` WHERE oauth_provider = $1 AND oauth_uid = $2`, provider, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.NewNotFound("user with given oauth identity is not found")
		}
		return domain.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create registers a user and returns the stored row
func (r *userRepository) Create(ctx context.Context, input domain.CreateUser) (domain.User, error) {
	userID, err := ids.New()
	if err != nil {
		return domain.User{}, err
	}

	role := domain.UserRoleCustomer
	if input.Role != nil {
		role = *input.Role
	}
	provider := domain.OauthProviderNone
	if input.OauthProvider != nil {
		provider = *input.OauthProvider
	}

	user, err := scanUser(r.conn.Pool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, date_of_birth, password, role, oauth_provider, oauth_uid)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, username, email, date_of_birth, role, oauth_provider, oauth_uid, user_status, last_login_at, created_at, updated_at`,
		userID, input.Username, input.Email, input.DateOfBirth, input.Password, role, provider, input.OauthUID))
	if err != nil {
		return domain.User{}, wrapError("create user", err)
	}

	return user, nil
}

// Update applies a partial profile update
func (r *userRepository) Update(ctx context.Context, id int64, input domain.UpdateUser) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	set := newSetBuilder()
	setIfNotNil(set, "username", input.Username)
	setIfNotNil(set, "email", input.Email)
	setIfNotNil(set, "date_of_birth", input.DateOfBirth)
	setIfNotNil(set, "role", input.Role)
	setIfNotNil(set, "user_status", input.Status)

	if _, err := r.conn.Pool.Exec(ctx, set.updateSQL("users", id), set.args...); err != nil {
		return wrapError("update user", err)
	}
	return nil
}

// UpdatePassword replaces a user's password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	tag, err := r.conn.Pool.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = now() WHERE id = $2`, hashed, id)
	if err != nil {
		return wrapError("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("user with given id is not found")
	}
	return nil
}

// UpdateStatus changes a user's account status
func (r *userRepository) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	tag, err := r.conn.Pool.Exec(ctx,
		`UPDATE users SET user_status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return wrapError("update user status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("user with given id is not found")
	}
	return nil
}

// TouchLastLogin stamps a successful login
func (r *userRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.conn.Pool.Exec(ctx,
		`UPDATE users SET last_login_at = now(), updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return wrapError("touch last login", err)
	}
	return nil
}

// DeleteByIDs removes user accounts
func (r *userRepository) DeleteByIDs(ctx context.Context, userIDs []int64) ([]int64, error) {
	rows, err := r.conn.Pool.Query(ctx, `DELETE FROM users WHERE id = ANY($1) RETURNING id`, userIDs)
	if err != nil {
		return nil, wrapError("delete users", err)
	}
	defer rows.Close()

	var deletedIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted user: %w", err)
		}
		deletedIDs = append(deletedIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("delete users", err)
	}

	if len(deletedIDs) == 0 {
		return nil, domain.NewNotFound("users with given ids are not found")
	}

	return deletedIDs, nil
}
