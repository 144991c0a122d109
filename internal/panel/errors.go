package panel

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"canal-panel/internal/infra/backend"
	"canal-panel/internal/notifier"
	"canal-panel/internal/stories/dashboard"
)

// fail turns a service error into an error toast and a JSON reply carrying the same detail.
func (h *Handler) fail(c *gin.Context, err error) {
	status, text := h.describe(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Panel operation failed", "path", c.FullPath(), "error", err)
	}

	toast := h.toasts.Push(text, notifier.LevelError)
	c.JSON(status, gin.H{"error": text, "toast": toast})
}

func (h *Handler) describe(err error) (int, string) {
	var validation *dashboard.ValidationError
	var apiErr *backend.APIError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, h.tr.T("toast.validation", map[string]interface{}{
			"fields": strings.Join(validation.Fields, ", "),
		})
	case errors.Is(err, dashboard.ErrNoBankInfo):
		return http.StatusUnprocessableEntity, h.tr.T("toast.no_bank_info", nil)
	case errors.Is(err, dashboard.ErrNoCurrentClient):
		return http.StatusConflict, h.tr.T("toast.no_client", nil)
	case errors.Is(err, dashboard.ErrNotFound):
		return http.StatusNotFound, h.tr.T("toast.not_found", map[string]interface{}{"what": err.Error()})
	case errors.Is(err, dashboard.ErrNotAuthenticated):
		return http.StatusUnauthorized, h.errorText(err.Error())
	case errors.Is(err, dashboard.ErrForbidden):
		return http.StatusForbidden, h.errorText(err.Error())
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, h.errorText(apiErr.Detail)
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, h.errorText(err.Error())
	default:
		return http.StatusInternalServerError, h.errorText(err.Error())
	}
}

func (h *Handler) errorText(detail string) string {
	return h.tr.T("toast.error", map[string]interface{}{"detail": detail})
}

// notFound replies to a mutation whose target disappeared.
func (h *Handler) notFound(c *gin.Context, what string) {
	text := h.tr.T("toast.not_found", map[string]interface{}{"what": what})
	toast := h.toasts.Push(text, notifier.LevelError)
	c.JSON(http.StatusNotFound, gin.H{"error": text, "toast": toast})
}

func (h *Handler) badRequest(c *gin.Context, fields ...string) {
	h.fail(c, &dashboard.ValidationError{Fields: fields})
}
