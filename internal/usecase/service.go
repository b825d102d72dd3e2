package usecase

import (
	"training-scheduler/internal/data/repository"
	"training-scheduler/internal/notifier"

	"go.uber.org/zap"
)

// Service groups the booking and attendance services for wiring.
type Service struct {
	Schedule   ScheduleService
	Attendance AttendanceService
}

func NewService(repo *repository.Repository, dispatcher notifier.Notifier, logger *zap.Logger) *Service {
	assignments := NewGroupAssignmentManager(logger)

	return &Service{
		Schedule:   NewScheduleService(repo, assignments, dispatcher, logger),
		Attendance: NewAttendanceService(repo, dispatcher, logger),
	}
}
