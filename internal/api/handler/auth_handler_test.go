package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hbnb/hbnb-api/internal/api/middleware"
	"github.com/hbnb/hbnb-api/internal/core/domain"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			u := domain.NewUser()
			u.Email = email
			return "signed-token", u, nil
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"alice@example.com","password":"secret"}`)
	c, rec := newContext(http.MethodPost, "/api/v1/auth/login", body, &nopSession{})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("unexpected token: %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, ok := user["password"]; ok {
		t.Fatalf("password must not be rendered")
	}
}

func TestAuthHandler_Login_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: `email=alice`, want: "Not a JSON"},
		{name: "missing email", body: `{"password":"secret"}`, want: "Missing email"},
		{name: "invalid email", body: `{"email":"alice","password":"secret"}`, want: "Invalid email"},
		{name: "missing password", body: `{"email":"alice@example.com"}`, want: "Missing password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubAuthService{
				loginFn: func(string, string) (string, *domain.User, error) {
					t.Fatalf("login should not run")
					return "", nil, nil
				},
			}
			h := NewAuthHandler(stub)

			c, _ := newContext(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body), &nopSession{})
			err := h.Login(c)

			var ce *domain.ClientError
			if !errors.As(err, &ce) || ce.Message != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`)
	c, _ := newContext(http.MethodPost, "/api/v1/auth/login", body, &nopSession{})
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	u := domain.NewUser()
	u.Email = "alice@example.com"
	sess := &nopSession{users: map[string]*domain.User{u.ID: u}}
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newContext(http.MethodGet, "/api/v1/auth/me", nil, sess)
	c.Set(middleware.UserIDKey, u.ID)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"email":"alice@example.com"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/api/v1/auth/me", nil, sess)
	c.Set(middleware.UserIDKey, "deleted-user")
	if err := h.Me(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodGet, "/api/v1/auth/me", nil, &nopSession{})
	err := h.Me(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
