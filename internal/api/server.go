// Package api is the REST surface of the catalog: one handler file per
// entity, chi routing, and the {data, meta} response envelopes.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/dewabisma/parfum-api/internal/assets"
	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/export"
	"github.com/dewabisma/parfum-api/internal/middleware"
	"github.com/dewabisma/parfum-api/internal/repository"
	"github.com/dewabisma/parfum-api/internal/webhook"
)

// Dependencies carries everything the REST surface needs.
type Dependencies struct {
	Perfumes       repository.PerfumeRepository
	Brands         repository.BrandRepository
	Notes          repository.NoteRepository
	NoteCategories repository.NoteCategoryRepository
	NoteAliases    repository.NoteAliasRepository
	Articles       repository.ArticleRepository
	Tags           repository.TagRepository
	Promotions     repository.PromotionRepository
	Reviews        repository.ReviewRepository
	LikedPerfumes  repository.LikedPerfumeRepository
	FavoritedNotes repository.FavoritedNoteRepository
	Users          repository.UserRepository
	Search         repository.SearchRepository

	Auth     *auth.Service
	Export   *export.Service
	Cleaner  *assets.Cleaner
	Notifier *webhook.Notifier

	UploadDir string
	Logger    zerolog.Logger
}

// Server wires repositories and services into HTTP handlers.
type Server struct {
	deps     Dependencies
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewServer creates a new API server
func NewServer(deps Dependencies) *Server {
	return &Server{
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   deps.Logger,
	}
}

// Router builds the full route tree. Reads are public; catalog mutations
// require the admin role; reviews, likes, and favorites require a session.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(s.logger))
	r.Use(s.deps.Auth.Authenticate)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/register/oauth", s.handleRegisterOAuth)
			r.Post("/login", s.handleLogin)
			r.Post("/login/oauth", s.handleOAuthLogin)
			r.Post("/verify", s.handleVerifyAccount)
			r.Post("/password-reset/request", s.handleRequestPasswordReset)
			r.Post("/password-reset", s.handleResetPassword)
			r.With(auth.RequireAuth).Get("/me", s.handleMe)
		})

		r.Route("/perfumes", func(r chi.Router) {
			r.Get("/", s.handleListPerfumes)
			r.Get("/similar", s.handleSimilarPerfumes)
			r.Get("/by-notes", s.handlePerfumesByNotes)
			r.Get("/containing-note/{id}", s.handlePerfumesContainingNote)
			r.Get("/{id}", s.handleGetPerfume)
			r.Post("/{id}/view", s.handlePerfumeView)
			r.With(auth.RequireAdmin).Post("/", s.handleCreatePerfume)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdatePerfume)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeletePerfumes)
		})

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", s.handleListBrands)
			r.Get("/{id}", s.handleGetBrand)
			r.With(auth.RequireAdmin).Post("/", s.handleCreateBrand)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdateBrand)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeleteBrands)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.handleListNotes)
			r.With(auth.RequireAuth).Get("/not-favorited", s.handleListNotFavoritedNotes)
			r.Get("/{id}", s.handleGetNote)
			r.With(auth.RequireAdmin).Post("/", s.handleCreateNote)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdateNote)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeleteNotes)
		})

		r.Route("/note-categories", func(r chi.Router) {
			r.Get("/", s.handleListNoteCategories)
			r.Get("/{id}", s.handleGetNoteCategory)
			r.With(auth.RequireAdmin).Post("/", s.handleCreateNoteCategory)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdateNoteCategory)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeleteNoteCategories)
		})

		r.Route("/note-aliases", func(r chi.Router) {
			r.Get("/", s.handleListNoteAliases)
			r.Get("/{id}", s.handleGetNoteAlias)
			r.With(auth.RequireAdmin).Post("/", s.handleCreateNoteAlias)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdateNoteAlias)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeleteNoteAliases)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", s.handleListArticles)
			r.Get("/{id}/similar", s.handleSimilarArticles)
			r.Get("/{id}", s.handleGetArticle)
			r.With(auth.RequireAdmin).Post("/", s.handleCreateArticle)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdateArticle)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeleteArticles)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.handleListTags)
			r.Get("/{id}", s.handleGetTag)
			r.With(auth.RequireAdmin).Post("/", s.handleCreateTag)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdateTag)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeleteTags)
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", s.handleListPromotions)
			r.Get("/{id}", s.handleGetPromotion)
			r.With(auth.RequireAdmin).Post("/", s.handleCreatePromotion)
			r.With(auth.RequireAdmin).Patch("/{id}", s.handleUpdatePromotion)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeletePromotions)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", s.handleListReviews)
			r.Get("/{id}", s.handleGetReview)
			r.With(auth.RequireAuth).Post("/", s.handleCreateReview)
			r.With(auth.RequireAuth).Patch("/{id}", s.handleUpdateReview)
			r.With(auth.RequireAuth).Delete("/", s.handleDeleteReviews)
		})

		r.Route("/liked-perfumes", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/", s.handleListLikedPerfumes)
			r.Get("/{id}", s.handleGetLikedPerfume)
			r.Post("/", s.handleCreateLikedPerfume)
			r.Delete("/", s.handleDeleteLikedPerfumes)
		})

		r.Route("/favorited-notes", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/", s.handleListFavoritedNotes)
			r.Get("/{id}", s.handleGetFavoritedNote)
			r.Post("/", s.handleCreateFavoritedNote)
			r.Delete("/", s.handleDeleteFavoritedNotes)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(auth.RequireAdmin).Get("/", s.handleListUsers)
			r.With(auth.RequireAuth).Get("/{id}", s.handleGetUser)
			r.With(auth.RequireAuth).Patch("/{id}", s.handleUpdateUser)
			r.With(auth.RequireAdmin).Delete("/", s.handleDeleteUsers)
		})

		r.Get("/search", s.handleSearch)
		r.With(auth.RequireAdmin).Post("/uploads", s.handleUpload)
		r.With(auth.RequireAdmin).Get("/exports/perfumes", s.handleExportCatalog)
	})

	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(s.deps.UploadDir))))

	return r
}

// cleanupAssets removes files orphaned by a mutation.
func (s *Server) cleanupAssets(paths []string) {
	if len(paths) == 0 || s.deps.Cleaner == nil {
		return
	}
	changes := make([]assets.PathChange, 0, len(paths))
	for _, path := range paths {
		changes = append(changes, assets.PathChange{Old: path, New: assets.DeletedSentinel})
	}
	s.deps.Cleaner.RemoveUnused(changes)
}

// notify posts a revalidation event for a completed mutation.
func (s *Server) notify(ctx context.Context, service, method string) {
	s.deps.Notifier.Notify(ctx, service, method)
}
