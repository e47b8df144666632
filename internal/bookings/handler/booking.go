package handler

import (
	"net/http"

	"carrental/internal/bookings/service"
	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// userSegment is the static segment of GET /api/bookings/user/:userId.
const userSegment = "user"

type BookingHandler struct {
	service service.BookingService
	gate    *middleware.Gate
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, gate *middleware.Gate, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	actor, _ := auth.IdentityFrom(r.Context())
	booking, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusCreated, "Booking created successfully", booking); err != nil {
		h.log.Error("failed to write message response", "handler", "Create", "operation", "WriteMessage", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.IdentityFrom(r.Context())
	booking, err := h.service.GetByID(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetByUser serves /api/bookings/user/:userId. httprouter cannot register a
// static segment beside the :id wildcard, so the route is /:id/:userId and
// any first segment other than "user" is a 404.
func (h *BookingHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != userSegment {
		h.writeError(w, "GetByUser", apperrors.NotFound("Route"))
		return
	}

	actor, _ := auth.IdentityFrom(r.Context())
	bookings, err := h.service.GetByUser(r.Context(), actor, ps.ByName("userId"))
	if err != nil {
		h.writeError(w, "GetByUser", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByUser", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingStatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	actor, _ := auth.IdentityFrom(r.Context())
	booking, err := h.service.UpdateStatus(r.Context(), actor, ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking updated successfully", booking); err != nil {
		h.log.Error("failed to write message response", "handler", "Update", "operation", "WriteMessage", "error", err)
	}
}

// Cancel accepts an optional {"reason"} body.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.CancelBookingRequest
	if err := httputil.DecodeOptionalJSON(r, &req); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	actor, _ := auth.IdentityFrom(r.Context())
	booking, err := h.service.Cancel(r.Context(), actor, ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking cancelled successfully", booking); err != nil {
		h.log.Error("failed to write message response", "handler", "Cancel", "operation", "WriteMessage", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.IdentityFrom(r.Context())
	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Booking deleted successfully", nil); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.gate.Authenticate(h.Create))
	router.GET("/api/bookings", h.gate.Require(model.CapManageBookings, h.GetAll))
	router.GET("/api/bookings/:id", h.gate.Authenticate(h.GetByID))
	router.GET("/api/bookings/:id/:userId", h.gate.Authenticate(h.GetByUser))
	router.PUT("/api/bookings/:id", h.gate.Require(model.CapManageBookings, h.Update))
	router.DELETE("/api/bookings/:id", h.gate.Require(model.CapManageBookings, h.Delete))
	router.PUT("/api/bookings/:id/cancel", h.gate.Authenticate(h.Cancel))
}
