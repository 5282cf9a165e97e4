package handler

import (
	"github.com/labstack/echo/v4"
)

// Response is the success envelope returned by every API handler.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// empty renders as {} where the API answers with no data.
var empty = struct{}{}

func respond(c echo.Context, code int, data any, message string) error {
	return c.JSON(code, Response{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < 400,
	})
}
