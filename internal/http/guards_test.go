package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/domain"
	"account-service/internal/repository"
	"account-service/internal/service"
)

func newGuardFixture(t *testing.T) (*service.TokenService, *service.AccountService, *repository.MemoryUserDirectory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := repository.NewMemoryUserDirectory()
	hasher := service.NewPasswordHasher(4)
	tokens := service.NewTokenService("secret", "account-service", 24*time.Hour)
	accounts := service.NewAccountService(zap.NewNop(), dir, hasher, tokens)
	return tokens, accounts, dir
}

func protectedRouter(tokens *service.TokenService, accounts *service.AccountService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(tokens, accounts)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		caller, ok := GetAuthUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": caller.ID})
	})
	r.GET("/protected/:id", handlers...)
	return r
}

func TestRequireAuth_AllowsValidToken(t *testing.T) {
	tokens, accounts, dir := newGuardFixture(t)
	user := domain.User{ID: "u1", Email: "user@example.com", CreatedAt: time.Now().UTC()}
	if err := dir.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := protectedRouter(tokens, accounts)
	req := httptest.NewRequest(http.MethodGet, "/protected/u1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRequireAuth_RejectsMissingAndMalformedHeader(t *testing.T) {
	tokens, accounts, _ := newGuardFixture(t)
	r := protectedRouter(tokens, accounts)

	for _, header := range []string{"", "Token abc", "Bearer", "bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected/u1", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireAuth_RejectsTamperedToken(t *testing.T) {
	tokens, accounts, dir := newGuardFixture(t)
	user := domain.User{ID: "u1", Email: "user@example.com", CreatedAt: time.Now().UTC()}
	if err := dir.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	foreign := service.NewTokenService("other-secret", "account-service", 24*time.Hour)
	token, err := foreign.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := protectedRouter(tokens, accounts)
	req := httptest.NewRequest(http.MethodGet, "/protected/u1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_RejectsUnresolvableSubject(t *testing.T) {
	tokens, accounts, _ := newGuardFixture(t)

	// Token firmado con el secreto correcto, pero la cuenta ya no existe.
	ghost := domain.User{ID: "ghost", Email: "ghost@example.com"}
	token, err := tokens.Issue(ghost)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := protectedRouter(tokens, accounts)
	req := httptest.NewRequest(http.MethodGet, "/protected/ghost", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens, accounts, dir := newGuardFixture(t)
	admin := domain.User{ID: "a1", Email: "admin@example.com", IsAdmin: true, CreatedAt: time.Now().UTC()}
	member := domain.User{ID: "u1", Email: "user@example.com", CreatedAt: time.Now().UTC()}
	for _, u := range []domain.User{admin, member} {
		if err := dir.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	r := protectedRouter(tokens, accounts, RequireAdmin())

	cases := []struct {
		user domain.User
		want int
	}{
		{admin, http.StatusOK},
		{member, http.StatusForbidden},
	}
	for _, tc := range cases {
		token, err := tokens.Issue(tc.user)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/protected/x", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("user %s: expected %d, got %d", tc.user.ID, tc.want, rec.Code)
		}
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	tokens, accounts, dir := newGuardFixture(t)
	admin := domain.User{ID: "a1", Email: "admin@example.com", IsAdmin: true, CreatedAt: time.Now().UTC()}
	member := domain.User{ID: "u1", Email: "user@example.com", CreatedAt: time.Now().UTC()}
	for _, u := range []domain.User{admin, member} {
		if err := dir.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	r := protectedRouter(tokens, accounts, RequireSelfOrAdmin())

	cases := []struct {
		name   string
		caller domain.User
		target string
		want   int
	}{
		{"self", member, "u1", http.StatusOK},
		{"other", member, "a1", http.StatusForbidden},
		{"admin over other", admin, "u1", http.StatusOK},
	}
	for _, tc := range cases {
		token, err := tokens.Issue(tc.caller)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/protected/"+tc.target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}
