package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/slateroom/slateroom-backend/internal/pkg/errors"
	"github.com/slateroom/slateroom-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// MapServiceError translates service sentinels into an HTTP status and a
// stable error code. Unrecognized errors come back as 500 internal_error.
func MapServiceError(err error) (int, string) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Code
	}

	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, pkgerrors.ErrIncompleteDecisionSet):
		return http.StatusUnprocessableEntity, "incomplete_decision_set"
	case errors.Is(err, pkgerrors.ErrInvalidDecisionForStatus):
		return http.StatusUnprocessableEntity, "invalid_decision_for_status"
	case errors.Is(err, pkgerrors.ErrAlreadyResolved):
		return http.StatusConflict, "already_resolved"
	case errors.Is(err, pkgerrors.ErrConflictingMapClaims):
		return http.StatusConflict, "conflicting_map_claims"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// RespondServiceError maps and writes a service error in one step.
func RespondServiceError(c *gin.Context, err error) {
	status, code := MapServiceError(err)
	RespondError(c, status, code, err)
}
