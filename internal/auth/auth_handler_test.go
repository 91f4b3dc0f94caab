package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-timeoff/internal/auth"
	autherrors "go-timeoff/internal/auth/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	loginFn        func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error)
	refreshTokenFn func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error)
	getMeFn        func(ctx context.Context, userID string) (*auth.AuthResponse, error)
	registerFn     func(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
	return f.refreshTokenFn(ctx, refreshToken)
}

func (f *fakeAuthService) GetMe(ctx context.Context, userID string) (*auth.AuthResponse, error) {
	return f.getMeFn(ctx, userID)
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
	return f.registerFn(ctx, req)
}

func cookieNames(res *http.Response) []string {
	names := make([]string, 0, 2)
	for _, ck := range res.Cookies() {
		names = append(names, ck.Name)
	}
	return names
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("web client receives auth cookies", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "ada@example.com", email)
				return "access-token", "refresh-token", auth.AuthResponse{Email: email}, nil
			},
		}
		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"s3cret"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Request.Header.Set("X-Client-Type", "web")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, cookieNames(w.Result()))
	})

	t.Run("api client receives tokens in the body only", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				return "access-token", "refresh-token", auth.AuthResponse{Email: email}, nil
			},
		}
		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"s3cret"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Request.Header.Set("X-Client-Type", "api")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())

		var env struct {
			Ok   bool `json:"ok"`
			Data struct {
				AccessToken  string `json:"access_token"`
				RefreshToken string `json:"refresh_token"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "access-token", env.Data.AccessToken)
		assert.Equal(t, "refresh-token", env.Data.RefreshToken)
	})

	t.Run("negative bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, string, auth.AuthResponse, error) {
				return "", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials
			},
		}
		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("negative malformed body", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("web client reads the cookie", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshTokenFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "old-refresh", refreshToken)
				return "new-access", "new-refresh", auth.AuthResponse{}, nil
			},
		}
		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		c.Request.Header.Set("X-Client-Type", "web")
		c.Request.AddCookie(&http.Cookie{Name: "refresh_token", Value: "old-refresh"})

		h.RefreshToken(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, cookieNames(w.Result()))
	})

	t.Run("negative web client without cookie", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
		c.Request.Header.Set("X-Client-Type", "web")

		h.RefreshToken(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("api client sends the token in the body", func(t *testing.T) {
		svc := &fakeAuthService{
			refreshTokenFn: func(ctx context.Context, refreshToken string) (string, string, auth.AuthResponse, error) {
				assert.Equal(t, "body-refresh", refreshToken)
				return "new-access", "new-refresh", auth.AuthResponse{}, nil
			},
		}
		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"body-refresh"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Request.Header.Set("X-Client-Type", "api")

		h.RefreshToken(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userID := uuid.NewString()
		svc := &fakeAuthService{
			getMeFn: func(ctx context.Context, got string) (*auth.AuthResponse, error) {
				assert.Equal(t, userID, got)
				return &auth.AuthResponse{ID: got, Email: "ada@example.com"}, nil
			},
		}
		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set("user_id", userID)

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative missing identity", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

		h.Me(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
