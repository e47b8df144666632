package handler

import (
	"net/http"

	"carrental/internal/users/service"
	"carrental/pkg/auth"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	gate    *middleware.Gate
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, gate *middleware.Gate, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, model.RegisterResponse{
		Message: "User registered successfully",
		User:    user,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Register", "operation", "WriteJSON", "error", err)
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.UserUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	actor, _ := auth.IdentityFrom(r.Context())
	user, err := h.service.Update(r.Context(), actor, ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "User updated successfully", user); err != nil {
		h.log.Error("failed to write message response", "handler", "Update", "operation", "WriteMessage", "error", err)
	}
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, _ := auth.IdentityFrom(r.Context())
	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "User deleted successfully", nil); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/users/register", h.Register)
	router.GET("/api/users", h.gate.Require(model.CapManageUsers, h.GetAll))
	router.GET("/api/users/:id", h.gate.Authenticate(h.GetByID))
	router.PUT("/api/users/:id", h.gate.Authenticate(h.Update))
	router.DELETE("/api/users/:id", h.gate.Require(model.CapManageUsers, h.Delete))
}
