package repository

import (
	"context"
	"fmt"

	"training-scheduler/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	Booking      BookingRepository
	Assignment   GroupAssignmentRepository
	Attendance   AttendanceRepository
	Course       CourseRepository
	ActivityType ActivityTypeRepository
	Instructor   InstructorRepository
	Location     LocationRepository
	Group        GroupRepository

	db  database.PgxIface
	log *zap.Logger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	r := newRepository(db, log)
	r.db = db
	return r
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Booking:      NewBookingRepository(q, log),
		Assignment:   NewGroupAssignmentRepository(q, log),
		Attendance:   NewAttendanceRepository(q, log),
		Course:       NewCourseRepository(q, log),
		ActivityType: NewActivityTypeRepository(q, log),
		Instructor:   NewInstructorRepository(q, log),
		Location:     NewLocationRepository(q, log),
		Group:        NewGroupRepository(q, log),
		log:          log,
	}
}

// WithinTx runs fn against a Repository bound to one transaction.
// Rollback on error or panic, commit on clean return. A Repository
// without a pool (test doubles, already tx-bound) runs fn directly.
func (r *Repository) WithinTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	return database.WithinTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(newRepository(tx, r.log))
	})
}

// Ping verifies the backing store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
