package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"github.com/smallbiznis/carbonledger/pkg/db"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Errors  []calcdomain.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return calcdomain.NewValidationError("request", "invalid_request", "invalid request")
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr calcdomain.ValidationErrors
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr,
		}
	}

	if isFactorValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []calcdomain.FieldError{
				{
					Field:   strings.TrimPrefix(code, "invalid_"),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	var nfErr *calcdomain.NotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusNotFound, errorPayload{
			Type:    "factor_not_found",
			Message: nfErr.Error(),
		}
	}

	var compErr *calcdomain.ComputationError
	if errors.As(err, &compErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "computation_error",
			Message: compErr.Error(),
		}
	}

	switch {
	case errors.Is(err, ErrConflict), db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isFactorValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, factordomain.ErrInvalidCategory),
		errors.Is(err, factordomain.ErrInvalidSubCategory),
		errors.Is(err, factordomain.ErrInvalidFuelType),
		errors.Is(err, factordomain.ErrInvalidCountry),
		errors.Is(err, factordomain.ErrInvalidUnit),
		errors.Is(err, factordomain.ErrInvalidFactor),
		errors.Is(err, factordomain.ErrInvalidValidity),
		errors.Is(err, factordomain.ErrInvalidSource),
		errors.Is(err, factordomain.ErrInvalidID),
		errors.Is(err, factordomain.ErrInvalidPageToken):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, factordomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog feeds the access-log middleware so expected client
// errors stay out of the error stream.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	var vErr calcdomain.ValidationErrors
	if errors.As(err, &vErr) {
		code := ""
		if len(vErr) > 0 {
			code = vErr[0].Code
		}
		return "validation_error", code
	}
	if isFactorValidationError(err) {
		return "validation_error", err.Error()
	}

	var nfErr *calcdomain.NotFoundError
	if errors.As(err, &nfErr) {
		return "factor_not_found", string(nfErr.SubCategory)
	}

	var compErr *calcdomain.ComputationError
	if errors.As(err, &compErr) {
		return "computation_error", compErr.Op
	}

	if isNotFoundError(err) {
		return "not_found", ""
	}
	if errors.Is(err, ErrTooManyRequests) {
		return "too_many_requests", ""
	}
	return "internal_error", ""
}
