package adaptor

import (
	"errors"
	"net/http"

	"training-scheduler/internal/usecase"
	"training-scheduler/pkg/apperr"
	"training-scheduler/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking    *BookingHandler
	Attendance *AttendanceHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:    NewBookingHandler(service.Schedule, log),
		Attendance: NewAttendanceHandler(service.Attendance, log),
	}
}

// writeServiceError maps typed service errors to status codes:
// Validation 400, NotFound 404, Conflict 409, State 422, everything
// else 500 with the detail kept in the log only.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		log.Warn(operation+" failed - validation",
			zap.Error(appErr),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, appErr.Message, nil)

	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found",
			zap.Error(appErr),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, appErr.Message)

	case apperr.KindConflict:
		log.Warn(operation+" failed - slot conflict",
			zap.Error(appErr),
			zap.String("dimension", appErr.Dimension),
			zap.String("conflict_with", appErr.ConflictWith.String()),
			zap.String("operation", operation))
		utils.ResponseConflict(w, appErr.Message, map[string]string{
			"dimension":     appErr.Dimension,
			"conflict_with": appErr.ConflictWith.String(),
		})

	case apperr.KindState:
		log.Warn(operation+" failed - invalid state",
			zap.Error(appErr),
			zap.String("operation", operation))
		utils.ResponseUnprocessable(w, appErr.Message)

	default:
		log.Error("Failed to "+operation,
			zap.Error(appErr),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
