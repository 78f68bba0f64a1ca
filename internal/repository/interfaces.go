package repository

import (
	"context"

	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
)

// PerfumeRepository defines the interface for perfume operations
type PerfumeRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.PerfumeWithBrand, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.PerfumeDetail, error)
	QuerySimilar(ctx context.Context, name string, opts query.Options) (domain.PerfumeRef, []domain.PerfumeWithBrand, query.PageMeta, error)
	QueryByNotes(ctx context.Context, noteIDs []int64, opts query.Options) ([]domain.PerfumeMatch, query.PageMeta, error)
	QueryContainingNote(ctx context.Context, noteID int64, opts query.Options) ([]domain.PerfumeWithBrand, query.PageMeta, error)
	Create(ctx context.Context, input domain.CreatePerfume) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdatePerfume) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error)
	IncrementViewCount(ctx context.Context, id int64) error
}

// BrandRepository defines the interface for brand operations
type BrandRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.Brand, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.Brand, error)
	Create(ctx context.Context, input domain.CreateBrand) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdateBrand) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error)
}

// NoteRepository defines the interface for note operations
type NoteRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.NoteWithCategory, query.PageMeta, error)
	QueryNotFavorited(ctx context.Context, userID int64, opts query.Options) ([]domain.NoteWithCategory, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.NoteWithCategory, error)
	Create(ctx context.Context, input domain.CreateNote) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdateNote) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error)
}

// NoteCategoryRepository defines the interface for note category operations
type NoteCategoryRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.NoteCategory, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.NoteCategory, error)
	Create(ctx context.Context, input domain.CreateNoteCategory) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdateNoteCategory) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error)
}

// NoteAliasRepository defines the interface for per-perfume note alias
// operations
type NoteAliasRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.PerfumeNoteAlias, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.PerfumeNoteAlias, error)
	Create(ctx context.Context, input domain.CreatePerfumeNoteAlias) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdatePerfumeNoteAlias) error
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// ArticleRepository defines the interface for article operations
type ArticleRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.ArticleWithTags, query.PageMeta, error)
	QuerySimilar(ctx context.Context, id int64, opts query.Options) ([]domain.ArticleWithTags, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.ArticleWithTags, error)
	Create(ctx context.Context, input domain.CreateArticle) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdateArticle) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error)
}

// TagRepository defines the interface for tag operations
type TagRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.Tag, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.Tag, error)
	Create(ctx context.Context, input domain.CreateTag) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdateTag) error
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// PromotionRepository defines the interface for promotion operations
type PromotionRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.Promotion, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.Promotion, error)
	Create(ctx context.Context, input domain.CreatePromotion) (int64, error)
	Update(ctx context.Context, id int64, input domain.UpdatePromotion) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error)
}

// ReviewRepository defines the interface for perfume review operations
type ReviewRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.PerfumeReviewDisplay, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.PerfumeReviewDisplay, error)
	Create(ctx context.Context, input domain.CreatePerfumeReview) (int64, error)
	Update(ctx context.Context, id int64, actorID int64, input domain.UpdatePerfumeReview) error
	DeleteByIDs(ctx context.Context, ids []int64, actor domain.User) ([]int64, error)
}

// LikedPerfumeRepository defines the interface for perfume like operations
type LikedPerfumeRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.UserLikedPerfumeWithPerfume, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.UserLikedPerfumeWithPerfume, error)
	Create(ctx context.Context, input domain.CreateUserLikedPerfume) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int64, actor domain.User) ([]int64, error)
}

// FavoritedNoteRepository defines the interface for note favorite operations
type FavoritedNoteRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.UserFavoritedNoteWithNote, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.UserFavoritedNoteWithNote, error)
	Create(ctx context.Context, input domain.CreateUserFavoritedNote) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int64, actor domain.User) ([]int64, error)
}

// UserRepository defines the interface for user account operations
type UserRepository interface {
	Query(ctx context.Context, opts query.Options) ([]domain.User, query.PageMeta, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByLogin(ctx context.Context, login string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByOauth(ctx context.Context, provider domain.OauthProvider, uid string) (domain.User, error)
	Create(ctx context.Context, input domain.CreateUser) (domain.User, error)
	Update(ctx context.Context, id int64, input domain.UpdateUser) error
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error
	TouchLastLogin(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// TokenRepository defines the interface for stored credential tokens
type TokenRepository interface {
	GetByUserID(ctx context.Context, userID int64, tokenType domain.TokenType) (domain.User, domain.UserToken, error)
	GetByToken(ctx context.Context, token string, tokenType domain.TokenType) (domain.User, domain.UserToken, error)
	Create(ctx context.Context, userID int64, tokenType domain.TokenType) (string, error)
	Delete(ctx context.Context, userID int64, tokenType domain.TokenType) error
}

// SearchResult groups keyword matches across the catalog.
type SearchResult struct {
	Perfumes []domain.PerfumeWithBrand `json:"perfumes"`
	Articles []domain.ArticleWithTags  `json:"articles"`
}

// SearchRepository defines the interface for keyword search
type SearchRepository interface {
	SearchAll(ctx context.Context, keyword string) (SearchResult, error)
}
