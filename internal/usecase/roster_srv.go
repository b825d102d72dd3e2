package usecase

import (
	"context"
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/internal/data/repository"
	"training-scheduler/internal/dto/response"
	"training-scheduler/pkg/apperr"
	"training-scheduler/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InitializeRoster materializes the attendance roster for a booking
// exactly once. At-most-once is enforced by the existence check on
// attendance rows, inside the same transaction as the insert.
func (s *attendanceService) InitializeRoster(ctx context.Context, bookingID string) (*response.RosterSummary, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking ID format %s", bookingID)
	}

	var summary *response.RosterSummary

	err = s.repo.WithinTx(ctx, func(txRepo *repository.Repository) error {
		booking, err := txRepo.Booking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.NotFound("booking %s not found", bookingID)
		}

		existing, err := txRepo.Attendance.CountByBookingID(ctx, id)
		if err != nil {
			return err
		}
		if existing > 0 {
			return apperr.State("roster for booking %s is already initialized (%d records)", bookingID, existing)
		}

		studentIDs, err := txRepo.Assignment.ActiveStudentIDs(ctx, id)
		if err != nil {
			return err
		}
		if len(studentIDs) == 0 {
			return apperr.State("booking %s has no enrolled students", bookingID)
		}

		now := time.Now()
		records := make([]*entity.AttendanceRecord, len(studentIDs))
		for i, studentID := range studentIDs {
			records[i] = &entity.AttendanceRecord{
				Base: entity.Base{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				BookingID: id,
				StudentID: studentID,
				Status:    entity.AttendanceStatusAbsent,
			}
		}

		if err := txRepo.Attendance.CreateBatch(ctx, records); err != nil {
			return err
		}

		studentIDStrings := make([]string, len(studentIDs))
		for i, studentID := range studentIDs {
			studentIDStrings[i] = studentID.String()
		}
		summary = &response.RosterSummary{
			BookingID:  bookingID,
			Created:    len(records),
			StudentIDs: studentIDStrings,
		}

		return nil
	})
	if err != nil {
		return nil, s.wrapStorageError(err, "initialize roster")
	}

	s.log.Info("Roster initialized",
		zap.String("booking_id", bookingID),
		zap.Int("records", summary.Created),
		zap.String("acted_by", utils.ActorString(ctx)),
	)

	s.dispatcher.Notify("roster.initialized", map[string]any{
		"booking_id": bookingID,
		"records":    summary.Created,
		"acted_by":   utils.ActorString(ctx),
	})

	return summary, nil
}

// GetRoster returns the booking's attendance records, student-ordered.
func (s *attendanceService) GetRoster(ctx context.Context, bookingID string) ([]*response.AttendanceResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking ID format %s", bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrapStorageError(err, "load booking")
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", bookingID)
	}

	records, err := s.repo.Attendance.FindByBookingID(ctx, id)
	if err != nil {
		return nil, s.wrapStorageError(err, "load roster")
	}

	result := make([]*response.AttendanceResponse, len(records))
	for i, record := range records {
		result[i] = response.AttendanceToResponse(record)
	}
	return result, nil
}
