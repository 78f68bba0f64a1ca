package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dewabisma/parfum-api/internal/config"
	"github.com/dewabisma/parfum-api/internal/domain"
	"github.com/dewabisma/parfum-api/internal/query"
)

type fakeUserStore struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*domain.User{}, nextID: 1}
}

func (f *fakeUserStore) Query(ctx context.Context, opts query.Options) ([]domain.User, query.PageMeta, error) {
	return nil, query.PageMeta{}, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.NewNotFound("user with given id is not found")
	}
	return *user, nil
}

func (f *fakeUserStore) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	for _, user := range f.users {
		if (user.Email != nil && *user.Email == login) || (user.Username != nil && *user.Username == login) {
			return *user, nil
		}
	}
	return domain.User{}, domain.NewNotFound("user with given login is not found")
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return f.GetByLogin(ctx, email)
}

func (f *fakeUserStore) GetByOauth(ctx context.Context, provider domain.OauthProvider, uid string) (domain.User, error) {
	for _, user := range f.users {
		if user.OauthProvider == provider && user.OauthUID != nil && *user.OauthUID == uid {
			return *user, nil
		}
	}
	return domain.User{}, domain.NewNotFound("user with given oauth identity is not found")
}

func (f *fakeUserStore) Create(ctx context.Context, input domain.CreateUser) (domain.User, error) {
	user := domain.User{
		ID:            f.nextID,
		Username:      input.Username,
		Email:         input.Email,
		DateOfBirth:   input.DateOfBirth,
		Password:      input.Password,
		Role:          domain.UserRoleCustomer,
		OauthProvider: domain.OauthProviderNone,
		OauthUID:      input.OauthUID,
		Status:        domain.UserStatusInactive,
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.OauthProvider != nil {
		user.OauthProvider = *input.OauthProvider
	}
	f.users[user.ID] = &user
	f.nextID++
	return user, nil
}

func (f *fakeUserStore) Update(ctx context.Context, id int64, input domain.UpdateUser) error {
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	user, ok := f.users[id]
	if !ok {
		return domain.NewNotFound("user with given id is not found")
	}
	user.Password = &hashed
	return nil
}

func (f *fakeUserStore) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	user, ok := f.users[id]
	if !ok {
		return domain.NewNotFound("user with given id is not found")
	}
	user.Status = status
	return nil
}

func (f *fakeUserStore) TouchLastLogin(ctx context.Context, id int64) error {
	now := time.Now()
	f.users[id].LastLoginAt = &now
	return nil
}

func (f *fakeUserStore) DeleteByIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return nil, nil
}

type storedToken struct {
	userID    int64
	token     string
	tokenType domain.TokenType
	createdAt time.Time
}

type fakeTokenStore struct {
	users  *fakeUserStore
	tokens []storedToken
	nextID int64
}

func (f *fakeTokenStore) find(match func(storedToken) bool) (domain.User, domain.UserToken, error) {
	for _, t := range f.tokens {
		if match(t) {
			user := *f.users.users[t.userID]
			return user, domain.UserToken{UserID: t.userID, Token: t.token, Type: t.tokenType, CreatedAt: t.createdAt}, nil
		}
	}
	return domain.User{}, domain.UserToken{}, domain.NewNotFound("token is not found")
}

func (f *fakeTokenStore) GetByUserID(ctx context.Context, userID int64, tokenType domain.TokenType) (domain.User, domain.UserToken, error) {
	return f.find(func(t storedToken) bool { return t.userID == userID && t.tokenType == tokenType })
}

func (f *fakeTokenStore) GetByToken(ctx context.Context, token string, tokenType domain.TokenType) (domain.User, domain.UserToken, error) {
	return f.find(func(t storedToken) bool { return t.token == token && t.tokenType == tokenType })
}

func (f *fakeTokenStore) Create(ctx context.Context, userID int64, tokenType domain.TokenType) (string, error) {
	f.nextID++
	token := string(tokenType) + "-token-" + time.Now().Format("150405.000000000")
	f.tokens = append(f.tokens, storedToken{userID: userID, token: token, tokenType: tokenType, createdAt: time.Now()})
	return token, nil
}

func (f *fakeTokenStore) Delete(ctx context.Context, userID int64, tokenType domain.TokenType) error {
	kept := f.tokens[:0]
	for _, t := range f.tokens {
		if t.userID != userID || t.tokenType != tokenType {
			kept = append(kept, t)
		}
	}
	f.tokens = kept
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens := &fakeTokenStore{users: users}
	cfg := config.AuthConfig{
		JWTSecret:      "test-secret",
		SessionTTL:     time.Hour,
		VerifyTokenTTL: time.Hour,
		ResetTokenTTL:  time.Hour,
	}
	return NewService(users, tokens, cfg, zerolog.Nop()), users, tokens
}

func register(t *testing.T, svc *Service) (domain.User, string) {
	t.Helper()
	user, token, err := svc.Register(context.Background(), RegisterInput{
		Username: "bisma",
		Email:    "bisma@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user, token
}

func TestRegisterHashesPasswordAndIssuesToken(t *testing.T) {
	svc, users, _ := newTestService(t)
	user, token := register(t, svc)

	stored := users.users[user.ID]
	if stored.Password == nil || *stored.Password == "correct-horse" {
		t.Fatalf("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*stored.Password), []byte("correct-horse")); err != nil {
		t.Fatalf("stored hash does not match the password: %v", err)
	}
	if token == "" {
		t.Fatal("no verification token issued")
	}
	if stored.Status != domain.UserStatusInactive {
		t.Fatalf("status = %q, want inactive until verified", stored.Status)
	}
}

func TestLoginRejectsUnverifiedAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	register(t, svc)

	_, _, err := svc.Login(context.Background(), "bisma@example.com", "correct-horse")
	domainErr, ok := domain.AsError(err)
	if !ok || domainErr.Status != http.StatusForbidden {
		t.Fatalf("err = %v, want forbidden", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _ := newTestService(t)
	registered, _ := register(t, svc)
	users.users[registered.ID].Status = domain.UserStatusActive

	_, _, err := svc.Login(context.Background(), "bisma", "wrong-password")
	domainErr, ok := domain.AsError(err)
	if !ok || domainErr.Status != http.StatusBadRequest {
		t.Fatalf("err = %v, want bad request", err)
	}
}

func TestLoginByUsernameReturnsParseableToken(t *testing.T) {
	svc, users, _ := newTestService(t)
	registered, _ := register(t, svc)
	users.users[registered.ID].Status = domain.UserStatusActive

	user, token, err := svc.Login(context.Background(), "bisma", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Password != nil {
		t.Fatal("login response leaked the password hash")
	}
	if users.users[registered.ID].LastLoginAt == nil {
		t.Fatal("last login not stamped")
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != registered.ID || claims.Role != domain.UserRoleCustomer {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsForgedToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	other := NewService(nil, nil, config.AuthConfig{JWTSecret: "other-secret", SessionTTL: time.Hour}, zerolog.Nop())

	forged, err := other.SignToken(domain.User{ID: 1, Role: domain.UserRoleAdmin})
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	if _, err := svc.ParseToken(forged); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestVerifyAccountActivates(t *testing.T) {
	svc, users, tokens := newTestService(t)
	registered, token := register(t, svc)

	if err := svc.VerifyAccount(context.Background(), token); err != nil {
		t.Fatalf("VerifyAccount: %v", err)
	}
	if users.users[registered.ID].Status != domain.UserStatusActive {
		t.Fatal("account not activated")
	}
	if len(tokens.tokens) != 0 {
		t.Fatalf("verification token not consumed: %v", tokens.tokens)
	}
}

func TestVerifyAccountExpiredTokenIsReissued(t *testing.T) {
	svc, _, tokens := newTestService(t)
	_, token := register(t, svc)
	tokens.tokens[0].createdAt = time.Now().Add(-2 * time.Hour)

	err := svc.VerifyAccount(context.Background(), token)
	domainErr, ok := domain.AsError(err)
	if !ok || domainErr.Status != http.StatusBadRequest {
		t.Fatalf("err = %v, want bad request", err)
	}
	if len(tokens.tokens) != 1 || tokens.tokens[0].token == token {
		t.Fatalf("expired token not replaced: %v", tokens.tokens)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, users, _ := newTestService(t)
	registered, _ := register(t, svc)
	users.users[registered.ID].Status = domain.UserStatusActive

	token, err := svc.RequestPasswordReset(context.Background(), "bisma@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), token, "new-password-123"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "bisma", "new-password-123"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "bisma", "correct-horse"); err == nil {
		t.Fatal("old password still accepted")
	}
}

func TestRequireAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)

	handler := svc.Authenticate(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	adminToken, err := svc.SignToken(domain.User{ID: 1, Role: domain.UserRoleAdmin, Status: domain.UserStatusActive})
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	customerToken, err := svc.SignToken(domain.User{ID: 2, Role: domain.UserRoleCustomer, Status: domain.UserStatusActive})
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"admin", "Bearer " + adminToken, http.StatusNoContent},
		{"customer", "Bearer " + customerToken, http.StatusForbidden},
		{"anonymous", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
