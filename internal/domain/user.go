package domain

import (
	"time"

	"github.com/dewabisma/parfum-api/internal/query"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

type UserStatus string

const (
	UserStatusInactive UserStatus = "inactive"
	UserStatusActive   UserStatus = "active"
)

type OauthProvider string

const (
	OauthProviderNone   OauthProvider = "none"
	OauthProviderGoogle OauthProvider = "google"
)

type TokenType string

const (
	TokenTypeAccountVerification  TokenType = "account_verification"
	TokenTypeAccountPasswordReset TokenType = "account_password_reset"
	TokenTypeOAuth                TokenType = "oauth_token"
)

// User is an account row. Password and oauth columns never serialize.
type User struct {
	ID            int64         `json:"id"`
	Username      *string       `json:"username"`
	Email         *string       `json:"email"`
	DateOfBirth   *string       `json:"dateOfBirth"`
	Password      *string       `json:"-"`
	Role          UserRole      `json:"role"`
	OauthProvider OauthProvider `json:"-"`
	OauthUID      *string       `json:"-"`
	Status        UserStatus    `json:"status"`
	LastLoginAt   *time.Time    `json:"lastLoginAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// CreateUser is the input for registration, local or oauth.
type CreateUser struct {
	Username      *string
	Email         *string
	DateOfBirth   *string
	Password      *string
	Role          *UserRole
	OauthProvider *OauthProvider
	OauthUID      *string
}

// UpdateUser is the input for a partial profile update.
type UpdateUser struct {
	Username    *string
	Email       *string
	DateOfBirth *string
	Role        *UserRole
	Status      *UserStatus
}

// UserToken is a stored credential token. Expiry derives from CreatedAt plus
// the configured TTL for its type.
type UserToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Token     string    `json:"token"`
	Type      TokenType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserLikedPerfume links a user to a perfume they liked.
type UserLikedPerfume struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	PerfumeID int64     `json:"perfumeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserLikedPerfumeWithPerfume is a like joined with its perfume for display.
type UserLikedPerfumeWithPerfume struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Perfume   *Perfume  `json:"perfume"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserLikedPerfume is the input for liking a perfume.
type CreateUserLikedPerfume struct {
	UserID    int64
	PerfumeID int64
}

// UserFavoritedNote links a user to a note they favorited.
type UserFavoritedNote struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	NoteID    int64     `json:"noteId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserFavoritedNoteWithNote is a favorite joined with its note for display.
type UserFavoritedNoteWithNote struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Note      *Note     `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserFavoritedNote is the input for favoriting a note.
type CreateUserFavoritedNote struct {
	UserID int64
	NoteID int64
}

var UserSchema = query.Schema{
	Table: "users",
	Columns: map[string]string{
		"id":          "users.id",
		"username":    "users.username",
		"email":       "users.email",
		"dateOfBirth": "users.date_of_birth",
		"role":        "users.role",
		"status":      "users.user_status",
		"lastLoginAt": "users.last_login_at",
		"createdAt":   "users.created_at",
		"updatedAt":   "users.updated_at",
	},
}

var UserLikedPerfumeSchema = query.Schema{
	Table: "user_liked_perfumes",
	Columns: map[string]string{
		"id":        "user_liked_perfumes.id",
		"userId":    "user_liked_perfumes.user_id",
		"perfumeId": "user_liked_perfumes.perfume_id",
		"createdAt": "user_liked_perfumes.created_at",
		"updatedAt": "user_liked_perfumes.updated_at",
	},
}

var UserFavoritedNoteSchema = query.Schema{
	Table: "user_favorited_notes",
	Columns: map[string]string{
		"id":        "user_favorited_notes.id",
		"userId":    "user_favorited_notes.user_id",
		"noteId":    "user_favorited_notes.note_id",
		"createdAt": "user_favorited_notes.created_at",
		"updatedAt": "user_favorited_notes.updated_at",
	},
}
