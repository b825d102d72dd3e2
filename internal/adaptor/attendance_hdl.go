package adaptor

import (
	"encoding/json"
	"net/http"

	"training-scheduler/internal/dto/request"
	"training-scheduler/internal/usecase"
	"training-scheduler/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AttendanceHandler struct {
	service usecase.AttendanceService
	log     *zap.Logger
}

func NewAttendanceHandler(service usecase.AttendanceService, log *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		log:     log.With(zap.String("handler", "attendance")),
	}
}

// InitializeRoster handles POST /api/bookings/{id}/roster
func (h *AttendanceHandler) InitializeRoster(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	summary, err := h.service.InitializeRoster(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "initialize roster")
		return
	}

	utils.ResponseCreated(w, "success", summary)
}

// GetRoster handles GET /api/bookings/{id}/roster
func (h *AttendanceHandler) GetRoster(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	records, err := h.service.GetRoster(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get roster")
		return
	}

	utils.ResponseSuccess(w, "success", records)
}

// UpdateAttendance handles PUT /api/attendance/{id}
func (h *AttendanceHandler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	attendanceID := chi.URLParam(r, "id")
	if attendanceID == "" {
		utils.ResponseBadRequest(w, "Attendance ID is required", nil)
		return
	}

	var req request.UpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	record, err := h.service.UpdateAttendance(r.Context(), attendanceID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update attendance")
		return
	}

	utils.ResponseSuccess(w, "success", record)
}

// BulkUpdateAttendance handles PUT /api/attendance/bulk
func (h *AttendanceHandler) BulkUpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var req request.BulkUpdateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.BulkUpdateAttendance(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "bulk update attendance")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
