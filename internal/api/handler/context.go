package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/syncflow/syncflow-api/internal/api/middleware"
	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// currentUser returns the identity attached by the Authenticate middleware.
// Routes mounted without it fail with 401 instead of acting anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.Unauthenticated("Authentication required")
	}
	return user, nil
}

// bindAndValidate decodes the request into req and runs struct validation.
// Malformed bodies are reported as validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Validation("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
