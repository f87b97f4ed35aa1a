package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/tasktracker/task-tracker-api/internal/errors"
	"github.com/tasktracker/task-tracker-api/internal/services"
)

var registerTagNameOnce sync.Once

// useJSONFieldNames makes validator report fields by their JSON names so
// error details match what the client sent.
func useJSONFieldNames() {
	registerTagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// bindJSON binds the request body into req. On failure it writes a 400 and
// returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindingError(c, err)
		return false
	}
	return true
}

func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	details := make([]apierrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apierrors.FieldError{
			Field:  fe.Field(),
			Reason: reasonFor(fe),
		})
	}
	apierrors.BadRequestWithDetails(c, "Validation failed", details)
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func respondValidationError(c *gin.Context, err *services.ValidationError) {
	apierrors.BadRequestWithDetails(c, "Validation failed", []apierrors.FieldError{
		{Field: err.Field, Reason: err.Reason},
	})
}
