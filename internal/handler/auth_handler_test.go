package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func newAuthEngine(api *API) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.Use(api.LocaleMiddleware())
	r.POST("/auth/register", api.Register)
	r.POST("/auth/login", api.Login)
	r.POST("/auth/logout", api.Logout)
	r.GET("/auth/me", api.AuthRequired(), api.Me)
	return r
}

func postJSON(r http.Handler, target string, payload interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterStartsSession(t *testing.T) {
	env := setupTestAPI(t)
	r := newAuthEngine(env.api)

	w := postJSON(r, "/auth/register", map[string]string{
		"email":    "New@Example.com",
		"password": "supersecret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie after register")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d: %s", me.Code, me.Body.String())
	}
	if !strings.Contains(me.Body.String(), "new@example.com") {
		t.Fatalf("expected normalized email, got %s", me.Body.String())
	}

	dup := postJSON(r, "/auth/register", map[string]string{
		"email":    "new@example.com",
		"password": "supersecret",
	})
	if dup.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", dup.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := setupTestAPI(t)
	r := newAuthEngine(env.api)

	if w := postJSON(r, "/auth/register", map[string]string{"email": "a@example.com", "password": "supersecret"}); w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}

	w := postJSON(r, "/auth/login?lang=en", map[string]string{"email": "a@example.com", "password": "wrong-pass"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = postJSON(r, "/auth/login", map[string]string{"email": "A@example.com ", "password": "supersecret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := setupTestAPI(t)
	r := newAuthEngine(env.api)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Please sign in first") {
		t.Fatalf("expected english message, got %s", w.Body.String())
	}
}
