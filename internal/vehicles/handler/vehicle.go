package handler

import (
	"errors"
	"net/http"
	"strconv"

	"carrental/internal/vehicles/service"
	apperrors "carrental/pkg/errors"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/middleware"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	multipartMemory = 8 << 20
	imageField      = "image"
)

type VehicleHandler struct {
	service service.VehicleService
	gate    *middleware.Gate
	log     *logger.Logger
}

func NewVehicleHandler(service service.VehicleService, gate *middleware.Gate, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		gate:    gate,
		log:     log,
	}
}

// Create expects multipart/form-data with the vehicle fields and one image file.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Request must be multipart/form-data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	vehicle, err := vehicleFromForm(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var upload *service.Upload
	file, header, err := r.FormFile(imageField)
	switch {
	case err == nil:
		defer file.Close()
		upload = &service.Upload{Filename: header.Filename, Body: file}
	case !errors.Is(err, http.ErrMissingFile):
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid image upload"))
		return
	}

	created, err := h.service.Create(r.Context(), vehicle, upload)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusCreated, "Vehicle created successfully", created); err != nil {
		h.log.Error("failed to write message response", "handler", "Create", "operation", "WriteMessage", "error", err)
	}
}

func (h *VehicleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vehicles, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, vehicles); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vehicle, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, vehicle); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.VehicleUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	vehicle, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Vehicle updated successfully", vehicle); err != nil {
		h.log.Error("failed to write message response", "handler", "Update", "operation", "WriteMessage", "error", err)
	}
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteMessage(w, http.StatusOK, "Vehicle deleted successfully", nil); err != nil {
		h.log.Error("failed to write message response", "handler", "Delete", "operation", "WriteMessage", "error", err)
	}
}

func (h *VehicleHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *VehicleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/vehicles", h.GetAll)
	router.GET("/api/vehicles/:id", h.GetByID)
	router.POST("/api/vehicles", h.gate.Require(model.CapManageVehicles, h.Create))
	router.PUT("/api/vehicles/:id", h.gate.Require(model.CapManageVehicles, h.Update))
	router.DELETE("/api/vehicles/:id", h.gate.Require(model.CapManageVehicles, h.Delete))
}

// vehicleFromForm reads the text fields of a create form. A missing
// "available" field means the vehicle is available.
func vehicleFromForm(r *http.Request) (*model.Vehicle, error) {
	vehicle := &model.Vehicle{
		Name:        r.FormValue("name"),
		Brand:       r.FormValue("brand"),
		Description: r.FormValue("description"),
		Available:   true,
	}

	if s := r.FormValue("pricePerDay"); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("pricePerDay must be a number")
		}
		vehicle.PricePerDay = price
	}

	if s := r.FormValue("available"); s != "" {
		available, err := strconv.ParseBool(s)
		if err != nil {
			return nil, apperrors.InvalidInput("available must be true or false")
		}
		vehicle.Available = available
	}
	return vehicle, nil
}
