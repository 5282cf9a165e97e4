package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/api/middleware"
	"github.com/syncflow/syncflow-api/internal/core/domain"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a JSON request context. user, when non-nil, is attached
// as if Authenticate had run.
func newContext(e *echo.Echo, method, target string, body io.Reader, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserKey, user)
	}
	return c, rec
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantCode int) envelope {
	t.Helper()
	if rec.Code != wantCode {
		t.Fatalf("expected %d, got %d: %s", wantCode, rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if env.StatusCode != wantCode {
		t.Fatalf("envelope statusCode %d, want %d", env.StatusCode, wantCode)
	}
	return env
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
