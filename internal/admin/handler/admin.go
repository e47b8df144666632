package handler

import (
	"net/http"

	"carrental/internal/admin/service"
	usersvc "carrental/internal/users/service"
	"carrental/pkg/auth"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// AdminHandler serves the dashboard. User management delegates to the
// user service so the same rules apply as on /api/users.
type AdminHandler struct {
	service service.AdminService
	users   usersvc.UserService
	gate    *middleware.Gate
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, users usersvc.UserService, gate *middleware.Gate, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		users:   users,
		gate:    gate,
		log:     log,
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeError(w, "Stats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.log.Error("failed to write success response", "handler", "Stats", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "ListUsers", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.UserUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "UpdateUser", err)
		return
	}

	actor, _ := auth.IdentityFrom(r.Context())
	user, err := h.users.Update(r.Context(), actor, ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "UpdateUser", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "User updated successfully", user); err != nil {
		h.log.Error("failed to write message response", "handler", "UpdateUser", "operation", "WriteMessage", "error", err)
	}
}

func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.users.Promote(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "PromoteUser", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "User promoted to admin", user); err != nil {
		h.log.Error("failed to write message response", "handler", "PromoteUser", "operation", "WriteMessage", "error", err)
	}
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.IdentityFrom(r.Context())
	if err := h.users.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteUser", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "User deleted successfully", nil); err != nil {
		h.log.Error("failed to write message response", "handler", "DeleteUser", "operation", "WriteMessage", "error", err)
	}
}

func (h *AdminHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/admin/stats", h.gate.Require(model.CapViewDashboard, h.Stats))
	router.GET("/api/admin/users", h.gate.Require(model.CapManageUsers, h.ListUsers))
	router.PUT("/api/admin/users/:id", h.gate.Require(model.CapManageUsers, h.UpdateUser))
	router.PUT("/api/admin/users/:id/promote", h.gate.Require(model.CapManageUsers, h.PromoteUser))
	router.DELETE("/api/admin/users/:id", h.gate.Require(model.CapManageUsers, h.DeleteUser))
}
