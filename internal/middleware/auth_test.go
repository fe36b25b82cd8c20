package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/service"
)

func newTestRouter(tokens *service.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	m := NewAuthMiddleware(tokens)

	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		actor := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": actor.Role})
	})
	router.GET("/optional", m.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": CurrentActor(c) == nil})
	})
	router.GET("/admin", m.RequireAuth(), m.RequireRoles(model.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	return router
}

func issueToken(t *testing.T, tokens *service.TokenManager, role string) string {
	t.Helper()
	token, err := tokens.Generate(&model.User{ID: uuid.New(), Role: role})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	router := newTestRouter(service.NewTokenManager("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuthAcceptsBearerToken(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	router := newTestRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, model.RoleStudent))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireAuthAcceptsCookieAndQueryToken(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	router := newTestRouter(tokens)
	token := issueToken(t, tokens, model.RoleStudent)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("cookie token: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("query token: expected 200, got %d", w.Code)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	expired := service.NewTokenManager("secret", -time.Minute)
	router := newTestRouter(service.NewTokenManager("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, expired, model.RoleStudent))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", w.Code)
	}
}

func TestOptionalAuthContinuesAnonymously(t *testing.T) {
	router := newTestRouter(service.NewTokenManager("secret", time.Hour))

	for _, header := range []string{"", "Bearer garbage"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/optional", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("header %q: expected 200, got %d", header, w.Code)
		}
	}
}

func TestRequireRoles(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	router := newTestRouter(tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, model.RoleStudent))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for student, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, model.RoleAdmin))
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}
