package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dewabisma/parfum-api/internal/assets"
	"github.com/dewabisma/parfum-api/internal/auth"
	"github.com/dewabisma/parfum-api/internal/config"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
	"github.com/dewabisma/parfum-api/internal/repository"
	"github.com/dewabisma/parfum-api/internal/webhook"
)

type fakeBrandRepo struct {
	brands map[int64]domain.Brand
	nextID int64

	lastCreate domain.CreateBrand
	deleted    []int64
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{brands: map[int64]domain.Brand{}, nextID: 1}
}

func (f *fakeBrandRepo) Query(ctx context.Context, opts query.Options) ([]domain.Brand, query.PageMeta, error) {
	var out []domain.Brand
	for _, b := range f.brands {
		out = append(out, b)
	}
	return out, query.NewPageMeta(int64(len(out)), opts.Limit, opts.Offset, opts.Page), nil
}

func (f *fakeBrandRepo) GetByID(ctx context.Context, id int64) (domain.Brand, error) {
	b, ok := f.brands[id]
	if !ok {
		return domain.Brand{}, domain.NewNotFound("brand with given id is not found")
	}
	return b, nil
}

func (f *fakeBrandRepo) Create(ctx context.Context, input domain.CreateBrand) (int64, error) {
	f.lastCreate = input
	id := f.nextID
	f.nextID++
	f.brands[id] = domain.Brand{ID: id, Name: input.Name}
	return id, nil
}

func (f *fakeBrandRepo) Update(ctx context.Context, id int64, input domain.UpdateBrand) ([]string, error) {
	if _, ok := f.brands[id]; !ok {
		return nil, domain.NewNotFound("brand with given id is not found")
	}
	return nil, nil
}

func (f *fakeBrandRepo) DeleteByIDs(ctx context.Context, ids []int64) ([]int64, []string, error) {
	var deleted []int64
	for _, id := range ids {
		if _, ok := f.brands[id]; ok {
			delete(f.brands, id)
			deleted = append(deleted, id)
		}
	}
	if len(deleted) == 0 {
		return nil, nil, domain.NewNotFound("brands with given ids are not found")
	}
	f.deleted = deleted
	return deleted, nil, nil
}

type fakeReviewRepo struct {
	repository.ReviewRepository
	lastCreate domain.CreatePerfumeReview
}

func (f *fakeReviewRepo) Create(ctx context.Context, input domain.CreatePerfumeReview) (int64, error) {
	f.lastCreate = input
	return 99, nil
}

type testEnv struct {
	router  http.Handler
	brands  *fakeBrandRepo
	reviews *fakeReviewRepo

	adminToken    string
	customerToken string
	customerID    int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	authService := auth.NewService(nil, nil, config.AuthConfig{JWTSecret: "test-secret", SessionTTL: time.Hour}, logger)

	adminName := "admin"
	admin := domain.User{ID: 1, Username: &adminName, Role: domain.UserRoleAdmin, Status: domain.UserStatusActive}
	customerName := "customer"
	customer := domain.User{ID: 2, Username: &customerName, Role: domain.UserRoleCustomer, Status: domain.UserStatusActive}

	adminToken, err := authService.SignToken(admin)
	if err != nil {
		t.Fatalf("sign admin token: %v", err)
	}
	customerToken, err := authService.SignToken(customer)
	if err != nil {
		t.Fatalf("sign customer token: %v", err)
	}

	brands := newFakeBrandRepo()
	reviews := &fakeReviewRepo{}
	server := NewServer(Dependencies{
		Brands:    brands,
		Reviews:   reviews,
		Auth:      authService,
		Cleaner:   assets.NewCleaner(t.TempDir(), logger),
		Notifier:  webhook.NewNotifier("", "", logger),
		UploadDir: t.TempDir(),
		Logger:    logger,
	})

	return &testEnv{
		router:        server.Router(),
		brands:        brands,
		reviews:       reviews,
		adminToken:    adminToken,
		customerToken: customerToken,
		customerID:    customer.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestListBrandsEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.brands.brands[1] = domain.Brand{ID: 1, Name: "HMNS"}

	rec := env.do(t, http.MethodGet, "/api/v1/brands", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []domain.Brand `json:"data"`
		Meta query.PageMeta `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Name != "HMNS" {
		t.Fatalf("unexpected data: %+v", body.Data)
	}
	if body.Meta.ItemTotal != 1 {
		t.Fatalf("expected item total 1, got %d", body.Meta.ItemTotal)
	}
}

func TestGetBrandNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/brands/42", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not found") {
		t.Fatalf("expected error message, got %s", rec.Body.String())
	}
}

func TestGetBrandRejectsBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/brands/abc", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateBrandAuthz(t *testing.T) {
	env := newTestEnv(t)
	payload := `{"name": "Onix"}`

	rec := env.do(t, http.MethodPost, "/api/v1/brands", "", payload)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/brands", env.customerToken, payload)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customer: expected 403, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/brands", env.adminToken, payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.brands.lastCreate.Name != "Onix" {
		t.Fatalf("expected create input to reach repository, got %+v", env.brands.lastCreate)
	}

	var body struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data["id"] == 0 {
		t.Fatalf("expected created id in response, got %s", rec.Body.String())
	}
}

func TestCreateBrandValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/brands", env.adminToken, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Name") {
		t.Fatalf("expected failing field in message, got %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/v1/brands", env.adminToken, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty body: expected 400, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/brands", env.adminToken, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: expected 400, got %d", rec.Code)
	}
}

func TestDeleteBrandsByBody(t *testing.T) {
	env := newTestEnv(t)
	env.brands.brands[1] = domain.Brand{ID: 1, Name: "HMNS"}
	env.brands.brands[2] = domain.Brand{ID: 2, Name: "Onix"}

	rec := env.do(t, http.MethodDelete, "/api/v1/brands", env.adminToken, `{"ids": [1, 2]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.brands.brands) != 0 {
		t.Fatalf("expected all brands deleted, %d remain", len(env.brands.brands))
	}

	rec = env.do(t, http.MethodDelete, "/api/v1/brands", env.adminToken, `{"ids": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty ids: expected 400, got %d", rec.Code)
	}
}

func TestCreateReviewUsesAuthenticatedUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/reviews", "", `{"perfumeId": 7, "comment": "woody", "rating": 5}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/reviews", env.customerToken, `{"perfumeId": 7, "comment": "woody", "rating": 5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.reviews.lastCreate.UserID != env.customerID {
		t.Fatalf("expected review bound to caller %d, got %d", env.customerID, env.reviews.lastCreate.UserID)
	}
	if env.reviews.lastCreate.Rating != 5 {
		t.Fatalf("unexpected rating %d", env.reviews.lastCreate.Rating)
	}
}

func TestCreateReviewRejectsBadRating(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/reviews", env.customerToken, `{"perfumeId": 7, "comment": "meh", "rating": 9}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestForgedTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)

	other := auth.NewService(nil, nil, config.AuthConfig{JWTSecret: "other-secret"}, zerolog.Nop())
	name := "mallory"
	forged, err := other.SignToken(domain.User{ID: 3, Username: &name, Role: domain.UserRoleAdmin, Status: domain.UserStatusActive})
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/brands", forged, `{"name": "Evil"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
