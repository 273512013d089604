package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workingtime-backend-go/internal/domain/workingtime"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workingtime-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type WorkingTimeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	Checkin(w http.ResponseWriter, r *http.Request)
	Checkout(w http.ResponseWriter, r *http.Request)
}

type workingTimeHandlerImpl struct {
	workingTimeService workingtime.WorkingTimeService
}

func NewWorkingTimeHandler(workingTimeService workingtime.WorkingTimeService) WorkingTimeHandler {
	return &workingTimeHandlerImpl{
		workingTimeService: workingTimeService,
	}
}

// actorID reads the authenticated employee; AuthRequired guarantees it on these routes.
func actorID(w http.ResponseWriter, r *http.Request) (string, bool) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		slog.Error("employee_id not found in request context")
		response.Unauthenticated(w, "Employee ID not found in token")
		return "", false
	}
	return employeeID, true
}

// List implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	filter := workingtime.ListWorkingTimeFilter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if from := r.URL.Query().Get("from"); from != "" {
		filter.From = &from
	}

	if to := r.URL.Query().Get("to"); to != "" {
		filter.To = &to
	}

	result, err := h.workingTimeService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req workingtime.CreateWorkingTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode create working time request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.workingTimeService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Working time created successfully", result)
}

// Get implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	result, err := h.workingTimeService.GetByID(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var req workingtime.UpdateWorkingTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode update working time request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.workingTimeService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Working time updated successfully", result)
}

// Delete implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.workingTimeService.Delete(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Status(w, http.StatusOK)
}

// Current implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	result, err := h.workingTimeService.GetCurrent(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result == nil {
		response.Status(w, http.StatusNotFound)
		return
	}

	response.Success(w, result)
}

// Checkin implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) Checkin(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req workingtime.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode checkin request", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.workingTimeService.Checkin(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in successfully", result)
}

// Checkout implements WorkingTimeHandler.
func (h *workingTimeHandlerImpl) Checkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	result, err := h.workingTimeService.Checkout(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}
