package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/app"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

const (
	codeRateLimited         = "RATE_LIMITED"
	codeCollaboratorFailure = "COLLABORATOR_FAILURE"
	codeInternal            = "INTERNAL"
	codeEventsDisabled      = "EVENTS_DISABLED"
)

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

var planErrorStatus = map[app.PlanErrorCode]int{
	app.PlanErrNotFound:     http.StatusNotFound,
	app.PlanErrInvalidInput: http.StatusBadRequest,
	app.PlanErrNoTemplates:  http.StatusUnprocessableEntity,
}

// writeError maps a use-case error onto a status and error envelope.
// Unexpected errors are logged and reported without detail.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		pe  *app.PlanError
		rle *app.RateLimitError
	)
	switch {
	case errors.As(err, &rle):
		c.Header("Retry-After", strconv.Itoa(rle.WaitSeconds))
		respondError(c, http.StatusTooManyRequests, codeRateLimited, err)
	case errors.As(err, &pe):
		status, ok := planErrorStatus[pe.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		respondError(c, status, string(pe.Code), errors.New(pe.Message))
	case errors.Is(err, app.ErrCollaboratorFailure):
		respondError(c, http.StatusBadGateway, codeCollaboratorFailure, app.ErrCollaboratorFailure)
	default:
		h.log.Error("request_failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, codeInternal, errors.New("internal error"))
	}
}

func invalid(format string, args ...any) error {
	return app.InvalidInput(format, args...)
}
