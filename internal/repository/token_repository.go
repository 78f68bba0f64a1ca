package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dewabisma/parfum-api/internal/db"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/ids"
	"github.com/dewabisma/parfum-api/internal/query"
)

const tokenWithUserSelect = `SELECT user_tokens.id, user_tokens.user_id, user_tokens.token, user_tokens.type, user_tokens.created_at, user_tokens.updated_at, users.id, users.username, users.email, users.date_of_birth, users.role, users.oauth_provider, users.oauth_uid, users.user_status, users.last_login_at, users.created_at, users.updated_at
FROM user_tokens
INNER JOIN users ON user_tokens.user_id = users.id`

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	conn *db.Connection
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(conn *db.Connection) TokenRepository {
	return &tokenRepository{conn: conn}
}

func scanTokenWithUser(row rowScanner) (domain.User, domain.UserToken, error) {
	var t domain.UserToken
	var u domain.User
	err := row.Scan(
		&t.ID, &t.UserID, &t.Token, &t.Type, &t.CreatedAt, &t.UpdatedAt,
		&u.ID, &u.Username, &u.Email, &u.DateOfBirth, &u.Role, &u.OauthProvider,
		&u.OauthUID, &u.Status, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, domain.UserToken{}, err
	}
	return u, t, nil
}

// GetByUserID retrieves a user's stored token of the given type along with
// its owner
func (r *tokenRepository) GetByUserID(ctx context.Context, userID int64, tokenType domain.TokenType) (domain.User, domain.UserToken, error) {
	sql, _ := query.Rebind(tokenWithUserSelect+" WHERE user_tokens.user_id = ? AND user_tokens.type = ?", 1)

	user, token, err := scanTokenWithUser(r.conn.Pool.QueryRow(ctx, sql, userID, tokenType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.UserToken{}, domain.NewNotFound("token for given user is not found")
		}
		return domain.User{}, domain.UserToken{}, fmt.Errorf("failed to get token: %w", err)
	}
	return user, token, nil
}

// GetByToken retrieves a stored token by its value, scoped to a type, along
// with its owner
func (r *tokenRepository) GetByToken(ctx context.Context, token string, tokenType domain.TokenType) (domain.User, domain.UserToken, error) {
	sql, _ := query.Rebind(tokenWithUserSelect+" WHERE user_tokens.token = ? AND user_tokens.type = ?", 1)

	user, stored, err := scanTokenWithUser(r.conn.Pool.QueryRow(ctx, sql, token, tokenType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.UserToken{}, domain.NewNotFound("token is not found")
		}
		return domain.User{}, domain.UserToken{}, fmt.Errorf("failed to get token: %w", err)
	}
	return user, stored, nil
}

// Create stores a fresh random token for the user and returns its value
func (r *tokenRepository) Create(ctx context.Context, userID int64, tokenType domain.TokenType) (string, error) {
	tokenID, err := ids.New()
	if err != nil {
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	_, err = r.conn.Pool.Exec(ctx,
		`INSERT INTO user_tokens (id, user_id, token, type) VALUES ($1, $2, $3, $4)`,
		tokenID, userID, token, tokenType)
	if err != nil {
		return "", wrapError("create token", err)
	}

	return token, nil
}

// Delete removes a user's stored tokens of the given type
func (r *tokenRepository) Delete(ctx context.Context, userID int64, tokenType domain.TokenType) error {
	_, err := r.conn.Pool.Exec(ctx,
		`DELETE FROM user_tokens WHERE user_id = $1 AND type = $2`, userID, tokenType)
	if err != nil {
		return wrapError("delete token", err)
	}
	return nil
}
