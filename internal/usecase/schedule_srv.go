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

type ScheduleService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, bookingID string) error
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ScanConflicts(ctx context.Context, from, to string) (*response.ConflictReport, error)
}

type scheduleService struct {
	repo        *repository.Repository
	assignments *GroupAssignmentManager
	dispatcher  notifier.Notifier
	log         *zap.Logger
}

func NewScheduleService(repo *repository.Repository, assignments *GroupAssignmentManager, dispatcher notifier.Notifier, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:        repo,
		assignments: assignments,
		dispatcher:  dispatcher,
		log:         log.With(zap.String("service", "schedule")),
	}
}

func (s *scheduleService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	courseID, _ := uuid.Parse(req.CourseID)
	activityTypeID, _ := uuid.Parse(req.ActivityTypeID)
	instructorID, _ := uuid.Parse(req.InstructorID)
	locationID, _ := uuid.Parse(req.LocationID)

	date, _ := utils.ParseDate(req.Date)
	start, _ := utils.ParseTimeOfDay(req.StartTime)
	end, _ := utils.ParseTimeOfDay(req.EndTime)

	if !start.Before(end) {
		return nil, apperr.Validation("start_time %s must be before end_time %s", req.StartTime, req.EndTime)
	}

	if err := s.checkReferences(ctx, &courseID, &activityTypeID, &instructorID, &locationID); err != nil {
		return nil, err
	}

	groupIDs, err := parseUUIDs(req.GroupIDs)
	if err != nil {
		return nil, apperr.Validation("invalid group id: %v", err)
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourseID:       courseID,
		ActivityTypeID: activityTypeID,
		InstructorID:   instructorID,
		LocationID:     locationID,
		SessionDate:    date,
		StartTime:      start,
		EndTime:        end,
		MaxStudents:    req.MaxStudents,
		Status:         entity.BookingStatusScheduled,
		Notes:          req.Notes,
	}

	// Booking row, group assignments and enrollment count commit or
	// roll back as one unit.
	err = s.repo.WithinTx(ctx, func(txRepo *repository.Repository) error {
		if err := s.claimSlot(ctx, txRepo, booking, nil); err != nil {
			return err
		}

		if err := txRepo.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if len(groupIDs) > 0 {
			if err := s.assignments.Assign(ctx, txRepo, booking.ID, groupIDs); err != nil {
				return err
			}
			count, err := s.assignments.RecomputeEnrollment(ctx, txRepo, booking.ID)
			if err != nil {
				return err
			}
			booking.EnrolledCount = count
		}

		return nil
	})
	if err != nil {
		return nil, s.wrapStorageError(err, "create booking")
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("instructor_id", instructorID.String()),
		zap.String("location_id", locationID.String()),
		zap.String("date", req.Date),
		zap.String("acted_by", utils.ActorString(ctx)),
	)

	s.dispatcher.Notify("booking.created", map[string]any{
		"booking_id": booking.ID.String(),
		"date":       req.Date,
		"acted_by":   utils.ActorString(ctx),
	})

	return s.buildBookingResponse(ctx, booking)
}

func (s *scheduleService) UpdateBooking(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking ID format %s", bookingID)
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrapStorageError(err, "load booking")
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", bookingID)
	}

	changed, err := mergeBookingUpdate(booking, req)
	if err != nil {
		return nil, err
	}

	if !booking.StartTime.Before(booking.EndTime) {
		return nil, apperr.Validation("start_time %s must be before end_time %s",
			utils.FormatTimeOfDay(booking.StartTime), utils.FormatTimeOfDay(booking.EndTime))
	}

	if err := s.checkChangedReferences(ctx, booking, changed); err != nil {
		return nil, err
	}

	var groupIDs []uuid.UUID
	if req.GroupIDs != nil {
		groupIDs, err = parseUUIDs(*req.GroupIDs)
		if err != nil {
			return nil, apperr.Validation("invalid group id: %v", err)
		}
	}

	booking.UpdatedAt = time.Now()

	err = s.repo.WithinTx(ctx, func(txRepo *repository.Repository) error {
		// Only re-check dimensions the update actually moved.
		if changed.timing || changed.instructor || changed.location {
			excludeID := booking.ID
			if err := s.claimChangedSlots(ctx, txRepo, booking, changed, &excludeID); err != nil {
				return err
			}
		}

		if err := txRepo.Booking.Update(ctx, booking); err != nil {
			return err
		}

		// nil means untouched; a supplied array, even empty, replaces
		// the full assignment set.
		if req.GroupIDs != nil {
			if err := s.assignments.Assign(ctx, txRepo, booking.ID, groupIDs); err != nil {
				return err
			}
			count, err := s.assignments.RecomputeEnrollment(ctx, txRepo, booking.ID)
			if err != nil {
				return err
			}
			booking.EnrolledCount = count
		}

		return nil
	})
	if err != nil {
		return nil, s.wrapStorageError(err, "update booking")
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", booking.ID.String()),
		zap.Bool("timing_changed", changed.timing),
		zap.String("acted_by", utils.ActorString(ctx)),
	)

	s.dispatcher.Notify("booking.updated", map[string]any{
		"booking_id": booking.ID.String(),
		"acted_by":   utils.ActorString(ctx),
	})

	return s.buildBookingResponse(ctx, booking)
}

func (s *scheduleService) DeleteBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return apperr.Validation("invalid booking ID format %s", bookingID)
	}

	err = s.repo.WithinTx(ctx, func(txRepo *repository.Repository) error {
		booking, err := txRepo.Booking.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.NotFound("booking %s not found", bookingID)
		}

		// Attendance rows are bookkeeping history; a booking that
		// owns any cannot be removed.
		count, err := txRepo.Attendance.CountByBookingID(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.State("booking %s has %d attendance records and cannot be deleted", bookingID, count)
		}

		if _, err := txRepo.Assignment.DeleteByBookingID(ctx, id); err != nil {
			return err
		}

		return txRepo.Booking.Delete(ctx, id)
	})
	if err != nil {
		return s.wrapStorageError(err, "delete booking")
	}

	s.log.Info("Booking deleted",
		zap.String("booking_id", bookingID),
		zap.String("acted_by", utils.ActorString(ctx)),
	)

	s.dispatcher.Notify("booking.deleted", map[string]any{
		"booking_id": bookingID,
		"acted_by":   utils.ActorString(ctx),
	})

	return nil
}

func (s *scheduleService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
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

	return s.buildBookingResponse(ctx, booking)
}

// ScanConflicts is a diagnostic pass over the whole range,
// independent of the write-path detector: every pair of distinct
// non-cancelled bookings sharing a date and an instructor or location
// with overlapping intervals produces one entry per dimension hit.
func (s *scheduleService) ScanConflicts(ctx context.Context, from, to string) (*response.ConflictReport, error) {
	fromDate, err := utils.ParseDate(from)
	if err != nil {
		return nil, apperr.Validation("invalid from date %q, want YYYY-MM-DD", from)
	}
	toDate, err := utils.ParseDate(to)
	if err != nil {
		return nil, apperr.Validation("invalid to date %q, want YYYY-MM-DD", to)
	}
	if toDate.Before(fromDate) {
		return nil, apperr.Validation("from date %s is after to date %s", from, to)
	}

	bookings, err := s.repo.Booking.FindActiveInRange(ctx, fromDate, toDate)
	if err != nil {
		return nil, s.wrapStorageError(err, "scan conflicts")
	}

	report := &response.ConflictReport{
		From:      from,
		To:        to,
		Conflicts: []response.ConflictEntry{},
	}

	for i := 0; i < len(bookings); i++ {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			if !a.SessionDate.Equal(b.SessionDate) {
				continue
			}
			if !Overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				continue
			}

			if a.InstructorID == b.InstructorID {
				report.Conflicts = append(report.Conflicts, conflictEntry(entity.DimensionInstructor, a.InstructorID, a, b))
			}
			if a.LocationID == b.LocationID {
				report.Conflicts = append(report.Conflicts, conflictEntry(entity.DimensionLocation, a.LocationID, a, b))
			}
		}
	}

	report.Total = len(report.Conflicts)

	s.log.Info("Conflict scan completed",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("bookings", len(bookings)),
		zap.Int("conflicts", report.Total),
	)

	return report, nil
}

// ==================== HELPER METHODS ====================

// claimSlot serializes against racing writers, then verifies both
// dimensions are free. Must run inside the caller's transaction so the
// advisory locks survive until commit.
func (s *scheduleService) claimSlot(ctx context.Context, txRepo *repository.Repository, booking *entity.Booking, excludeID *uuid.UUID) error {
	detector := NewConflictDetector(txRepo.Booking)

	for _, dim := range []struct {
		dimension  entity.ConflictDimension
		resourceID uuid.UUID
	}{
		{entity.DimensionInstructor, booking.InstructorID},
		{entity.DimensionLocation, booking.LocationID},
	} {
		if err := txRepo.Booking.AcquireSlotLock(ctx, dim.dimension, dim.resourceID, booking.SessionDate); err != nil {
			return err
		}

		hit, err := detector.HasConflict(ctx, dim.dimension, dim.resourceID, booking.SessionDate, booking.StartTime, booking.EndTime, excludeID)
		if err != nil {
			return err
		}
		if hit != nil {
			return apperr.Conflict(string(dim.dimension), hit.ID,
				"%s is already booked %s-%s on %s by booking %s",
				string(dim.dimension),
				utils.FormatTimeOfDay(hit.StartTime), utils.FormatTimeOfDay(hit.EndTime),
				utils.FormatDate(booking.SessionDate), hit.ID.String())
		}
	}

	return nil
}

// claimChangedSlots re-checks only the dimensions the update moved: a
// timing change affects both, a resource change affects its own
// dimension.
func (s *scheduleService) claimChangedSlots(ctx context.Context, txRepo *repository.Repository, booking *entity.Booking, changed changedFields, excludeID *uuid.UUID) error {
	if changed.timing {
		return s.claimSlot(ctx, txRepo, booking, excludeID)
	}

	detector := NewConflictDetector(txRepo.Booking)

	check := func(dimension entity.ConflictDimension, resourceID uuid.UUID) error {
		if err := txRepo.Booking.AcquireSlotLock(ctx, dimension, resourceID, booking.SessionDate); err != nil {
			return err
		}
		hit, err := detector.HasConflict(ctx, dimension, resourceID, booking.SessionDate, booking.StartTime, booking.EndTime, excludeID)
		if err != nil {
			return err
		}
		if hit != nil {
			return apperr.Conflict(string(dimension), hit.ID,
				"%s is already booked %s-%s on %s by booking %s",
				string(dimension),
				utils.FormatTimeOfDay(hit.StartTime), utils.FormatTimeOfDay(hit.EndTime),
				utils.FormatDate(booking.SessionDate), hit.ID.String())
		}
		return nil
	}

	if changed.instructor {
		if err := check(entity.DimensionInstructor, booking.InstructorID); err != nil {
			return err
		}
	}
	if changed.location {
		if err := check(entity.DimensionLocation, booking.LocationID); err != nil {
			return err
		}
	}

	return nil
}

type changedFields struct {
	instructor bool
	location   bool
	timing     bool
	course     bool
	activity   bool
}

// mergeBookingUpdate applies only the supplied fields over the loaded
// booking. Omitted fields stay as they are.
func mergeBookingUpdate(booking *entity.Booking, req *request.UpdateBookingRequest) (changedFields, error) {
	var changed changedFields

	if req.CourseID != nil {
		id, err := uuid.Parse(*req.CourseID)
		if err != nil {
			return changed, apperr.Validation("invalid course id %s", *req.CourseID)
		}
		changed.course = id != booking.CourseID
		booking.CourseID = id
	}
	if req.ActivityTypeID != nil {
		id, err := uuid.Parse(*req.ActivityTypeID)
		if err != nil {
			return changed, apperr.Validation("invalid activity type id %s", *req.ActivityTypeID)
		}
		changed.activity = id != booking.ActivityTypeID
		booking.ActivityTypeID = id
	}
	if req.InstructorID != nil {
		id, err := uuid.Parse(*req.InstructorID)
		if err != nil {
			return changed, apperr.Validation("invalid instructor id %s", *req.InstructorID)
		}
		changed.instructor = id != booking.InstructorID
		booking.InstructorID = id
	}
	if req.LocationID != nil {
		id, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return changed, apperr.Validation("invalid location id %s", *req.LocationID)
		}
		changed.location = id != booking.LocationID
		booking.LocationID = id
	}
	if req.Date != nil {
		date, err := utils.ParseDate(*req.Date)
		if err != nil {
			return changed, apperr.Validation("invalid date %s, want YYYY-MM-DD", *req.Date)
		}
		changed.timing = changed.timing || !date.Equal(booking.SessionDate)
		booking.SessionDate = date
	}
	if req.StartTime != nil {
		start, err := utils.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			return changed, apperr.Validation("invalid start_time %s, want HH:MM", *req.StartTime)
		}
		changed.timing = changed.timing || !start.Equal(booking.StartTime)
		booking.StartTime = start
	}
	if req.EndTime != nil {
		end, err := utils.ParseTimeOfDay(*req.EndTime)
		if err != nil {
			return changed, apperr.Validation("invalid end_time %s, want HH:MM", *req.EndTime)
		}
		changed.timing = changed.timing || !end.Equal(booking.EndTime)
		booking.EndTime = end
	}
	if req.MaxStudents != nil {
		booking.MaxStudents = req.MaxStudents
	}
	if req.Status != nil {
		// Transitions are deliberately unrestricted; see DESIGN.md.
		status := entity.BookingStatus(*req.Status)
		if !status.Valid() {
			return changed, apperr.Validation("invalid status %s", *req.Status)
		}
		booking.Status = status
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}

	return changed, nil
}

func (s *scheduleService) checkReferences(ctx context.Context, courseID, activityTypeID, instructorID, locationID *uuid.UUID) error {
	if courseID != nil {
		course, err := s.repo.Course.FindByID(ctx, *courseID)
		if err != nil {
			return s.wrapStorageError(err, "check course")
		}
		if course == nil {
			return apperr.Validation("course %s not found", courseID.String())
		}
	}
	if activityTypeID != nil {
		activityType, err := s.repo.ActivityType.FindByID(ctx, *activityTypeID)
		if err != nil {
			return s.wrapStorageError(err, "check activity type")
		}
		if activityType == nil {
			return apperr.Validation("activity type %s not found", activityTypeID.String())
		}
	}
	if instructorID != nil {
		instructor, err := s.repo.Instructor.FindByID(ctx, *instructorID)
		if err != nil {
			return s.wrapStorageError(err, "check instructor")
		}
		if instructor == nil {
			return apperr.Validation("instructor %s not found", instructorID.String())
		}
	}
	if locationID != nil {
		location, err := s.repo.Location.FindByID(ctx, *locationID)
		if err != nil {
			return s.wrapStorageError(err, "check location")
		}
		if location == nil {
			return apperr.Validation("location %s not found", locationID.String())
		}
	}
	return nil
}

func (s *scheduleService) checkChangedReferences(ctx context.Context, booking *entity.Booking, changed changedFields) error {
	var courseID, activityTypeID, instructorID, locationID *uuid.UUID
	if changed.course {
		courseID = &booking.CourseID
	}
	if changed.activity {
		activityTypeID = &booking.ActivityTypeID
	}
	if changed.instructor {
		instructorID = &booking.InstructorID
	}
	if changed.location {
		locationID = &booking.LocationID
	}
	return s.checkReferences(ctx, courseID, activityTypeID, instructorID, locationID)
}

func (s *scheduleService) buildBookingResponse(ctx context.Context, booking *entity.Booking) (*response.BookingResponse, error) {
	assignments, err := s.repo.Assignment.FindActiveByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, s.wrapStorageError(err, "load assignments")
	}

	groupIDs := make([]string, len(assignments))
	for i, assignment := range assignments {
		groupIDs[i] = assignment.GroupID.String()
	}

	return response.BookingToResponse(booking, groupIDs), nil
}

// wrapStorageError passes typed application errors through and folds
// everything else into an internal error with full context in the log
// but none in the reply.
func (s *scheduleService) wrapStorageError(err error, operation string) error {
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

func conflictEntry(dimension entity.ConflictDimension, resourceID uuid.UUID, a, b *entity.Booking) response.ConflictEntry {
	return response.ConflictEntry{
		Dimension:       string(dimension),
		ResourceID:      resourceID.String(),
		Date:            utils.FormatDate(a.SessionDate),
		FirstBookingID:  a.ID.String(),
		FirstInterval:   fmt.Sprintf("%s-%s", utils.FormatTimeOfDay(a.StartTime), utils.FormatTimeOfDay(a.EndTime)),
		SecondBookingID: b.ID.String(),
		SecondInterval:  fmt.Sprintf("%s-%s", utils.FormatTimeOfDay(b.StartTime), utils.FormatTimeOfDay(b.EndTime)),
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(raw))
	for i, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", value, err)
		}
		ids[i] = id
	}
	return ids, nil
}
