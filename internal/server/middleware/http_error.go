package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/complyhq/complybot/internal/models"
)

// statusForError maps domain sentinels to HTTP statuses. Anything unmapped
// is an internal error.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	case errors.Is(err, models.ErrInvalidPhase):
		return http.StatusConflict, "invalid_phase"
	case errors.Is(err, models.ErrMissingBusinessData):
		return http.StatusUnprocessableEntity, "missing_business_data"
	case errors.Is(err, models.ErrNoCandidates):
		return http.StatusBadGateway, "no_candidates"
	case errors.Is(err, models.ErrMalformedPayload):
		return http.StatusBadGateway, "malformed_payload"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ErrorHandler return custom http error handler.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := &ResponseError{
			Status:  http.StatusInternalServerError,
			Success: false,
			Err:     err,
		}

		var validationErrs validator.ValidationErrors
		switch v := err.(type) {
		case *echo.HTTPError:
			resp.Status = v.Code
			resp.ErrorMessage = fmt.Sprint(v.Message)
		case *ResponseError:
			resp = v
		default:
			if errors.As(err, &validationErrs) {
				resp.Status = http.StatusUnprocessableEntity
				resp.ErrorCode = "validation"
				resp.ErrorMessage = validationErrs.Error()
				break
			}
			if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
				resp.Status = 499
				break
			}
			resp.Status, resp.ErrorCode = statusForError(err)
			resp.ErrorMessage = err.Error()
		}

		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}

		if err := c.JSON(resp.Status, resp); err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}
