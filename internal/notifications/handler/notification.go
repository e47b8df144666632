package handler

import (
	"net/http"

	"carrental/internal/notifications/service"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service service.NotificationService
	gate    *middleware.Gate
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, gate *middleware.Gate, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	notifications, total, err := h.service.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, notifications, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	n, err := h.service.MarkRead(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "MarkRead", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Notification marked as read", n); err != nil {
		h.log.Error("failed to write message response", "handler", "MarkRead", "operation", "WriteMessage", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/admin/notifications", h.gate.Require(model.CapViewDashboard, h.List))
	router.PUT("/api/admin/notifications/:id/read", h.gate.Require(model.CapViewDashboard, h.MarkRead))
}
