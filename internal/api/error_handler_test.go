package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "echo not found", err: echo.ErrNotFound, wantCode: http.StatusNotFound, wantMsg: "Not found"},
		{name: "echo method not allowed", err: echo.ErrMethodNotAllowed, wantCode: http.StatusMethodNotAllowed, wantMsg: "Method Not Allowed"},
		{name: "client error", err: domain.Missing("name"), wantCode: http.StatusBadRequest, wantMsg: "Missing name"},
		{name: "not a json", err: domain.ErrNotJSON, wantCode: http.StatusBadRequest, wantMsg: "Not a JSON"},
		{name: "wrapped not found", err: fmt.Errorf("get state: %w", domain.ErrNotFound), wantCode: http.StatusNotFound, wantMsg: "Not found"},
		{name: "not linked", err: domain.ErrNotLinked, wantCode: http.StatusNotFound, wantMsg: "Not found"},
		{name: "email taken", err: domain.ErrEmailTaken, wantCode: http.StatusConflict, wantMsg: "Email already exists"},
		{name: "bad credentials", err: domain.ErrInvalidCredentials, wantCode: http.StatusUnauthorized, wantMsg: "Invalid credentials"},
		{name: "unexpected", err: errors.New("disk on fire"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/states", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/api/v1/states/x", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}
