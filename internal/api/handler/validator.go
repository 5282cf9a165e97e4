package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/syncflow/syncflow-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures are domain
// validation errors so they render as 400.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return domain.Validation(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// tagMessages renders validator tags as client-facing text.
var tagMessages = map[string]string{
	"email": "{field} must be a valid email",
	"oneof": "{field} must be one of: {param}",
}

func fieldError(fe validator.FieldError) string {
	tmpl, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	return strings.NewReplacer(
		"{field}", fe.Field(),
		"{param}", strings.ReplaceAll(fe.Param(), " ", ", "),
	).Replace(tmpl)
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
