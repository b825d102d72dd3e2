package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/internal/data/repository"
	"training-scheduler/internal/dto/request"
	"training-scheduler/internal/dto/response"
	"training-scheduler/internal/notifier"
	"training-scheduler/pkg/apperr"
	"training-scheduler/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AttendanceService interface {
	InitializeRoster(ctx context.Context, bookingID string) (*response.RosterSummary, error)
	GetRoster(ctx context.Context, bookingID string) ([]*response.AttendanceResponse, error)
	UpdateAttendance(ctx context.Context, attendanceID string, req *request.UpdateAttendanceRequest) (*response.AttendanceResponse, error)
	BulkUpdateAttendance(ctx context.Context, req *request.BulkUpdateAttendanceRequest) (*response.BulkUpdateResult, error)
}

type attendanceService struct {
	repo       *repository.Repository
	dispatcher notifier.Notifier
	log        *zap.Logger
}

func NewAttendanceService(repo *repository.Repository, dispatcher notifier.Notifier, log *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log.With(zap.String("service", "attendance")),
	}
}

func (s *attendanceService) UpdateAttendance(ctx context.Context, attendanceID string, req *request.UpdateAttendanceRequest) (*response.AttendanceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update attendance validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	record, err := s.applyUpdate(ctx, attendanceID, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("Attendance updated",
		zap.String("attendance_id", attendanceID),
		zap.String("status", string(record.Status)),
		zap.String("acted_by", utils.ActorString(ctx)),
	)

	return response.AttendanceToResponse(record), nil
}

// BulkUpdateAttendance applies each item in its own transaction:
// best-effort by design, one bad item never rolls back its neighbors.
// The result separates applied items from per-item failures.
func (s *attendanceService) BulkUpdateAttendance(ctx context.Context, req *request.BulkUpdateAttendanceRequest) (*response.BulkUpdateResult, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Bulk attendance validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	result := &response.BulkUpdateResult{
		Succeeded: []*response.AttendanceResponse{},
		Failed:    []response.BulkFailure{},
	}

	for _, item := range req.Items {
		record, err := s.applyUpdate(ctx, item.AttendanceID, &item.UpdateAttendanceRequest)
		if err != nil {
			result.Failed = append(result.Failed, response.BulkFailure{
				AttendanceID: item.AttendanceID,
				Reason:       failureReason(err),
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, response.AttendanceToResponse(record))
	}

	s.log.Info("Bulk attendance update finished",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
		zap.String("acted_by", utils.ActorString(ctx)),
	)

	s.dispatcher.Notify("attendance.bulk_updated", map[string]any{
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
		"acted_by":  utils.ActorString(ctx),
	})

	return result, nil
}

// applyUpdate loads, merges and persists a single record. Only
// supplied fields change; the rest keep their stored values.
func (s *attendanceService) applyUpdate(ctx context.Context, attendanceID string, req *request.UpdateAttendanceRequest) (*entity.AttendanceRecord, error) {
	id, err := uuid.Parse(attendanceID)
	if err != nil {
		return nil, apperr.Validation("invalid attendance ID format %s", attendanceID)
	}

	record, err := s.repo.Attendance.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrapStorageError(err, "load attendance record")
	}
	if record == nil {
		return nil, apperr.NotFound("attendance record %s not found", attendanceID)
	}

	if err := mergeAttendanceUpdate(record, req); err != nil {
		return nil, err
	}

	record.UpdatedAt = time.Now()

	if err := s.repo.Attendance.Update(ctx, record); err != nil {
		return nil, s.wrapStorageError(err, "update attendance record")
	}

	return record, nil
}

func mergeAttendanceUpdate(record *entity.AttendanceRecord, req *request.UpdateAttendanceRequest) error {
	if req.Status != nil {
		// No transition graph: any status may replace any other.
		status := entity.AttendanceStatus(*req.Status)
		if !status.Valid() {
			return apperr.Validation("invalid attendance status %s", *req.Status)
		}
		record.Status = status
	}
	if req.CheckInTime != nil {
		checkIn, err := utils.ParseTimeOfDay(*req.CheckInTime)
		if err != nil {
			return apperr.Validation("invalid check_in_time %s, want HH:MM", *req.CheckInTime)
		}
		record.CheckInTime = &checkIn
	}
	if req.CheckOutTime != nil {
		checkOut, err := utils.ParseTimeOfDay(*req.CheckOutTime)
		if err != nil {
			return apperr.Validation("invalid check_out_time %s, want HH:MM", *req.CheckOutTime)
		}
		record.CheckOutTime = &checkOut
	}
	if req.Score != nil {
		if *req.Score < 0 || *req.Score > 100 {
			return apperr.Validation("score %.1f out of range 0-100", *req.Score)
		}
		record.Score = req.Score
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	return nil
}

// failureReason keeps storage details out of per-item bulk replies.
func failureReason(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		return appErr.Message
	}
	return "internal error"
}

func (s *attendanceService) wrapStorageError(err error, operation string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	s.log.Error("Storage operation failed",
		zap.Error(err),
		zap.String("operation", operation),
	)
	return apperr.Internal(fmt.Sprintf("%s failed", operation), err)
}
