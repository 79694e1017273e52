package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tasklist-api/internal/apperr"
	"tasklist-api/internal/middleware"
	"tasklist-api/pkg/logger"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is used where there is nothing else to return.
type MessageResponse struct {
	Message string `json:"message"`
}

var errMalformedBody = apperr.Invalid("malformed request body")

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into req and validates it.
func parseBody(c *fiber.Ctx, v *validator.Validate, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errMalformedBody
	}
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperr.Invalid(validationMessage(verrs[0]))
		}
		return apperr.Wrap(apperr.InvalidInput, "invalid request", err)
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// respondError writes err as {"error": ...} with the status of its kind.
// Internal causes are logged and replaced by a generic message.
func respondError(c *fiber.Ctx, log *logger.Loggers, err error) error {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Error.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(kind.Status()).JSON(ErrorResponse{Error: apperr.PublicMessage(err)})
}

// requireUser reads the id stored by the auth gate.
func requireUser(c *fiber.Ctx) (int, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperr.New(apperr.Unauthenticated, "no token provided")
	}
	return id, nil
}
