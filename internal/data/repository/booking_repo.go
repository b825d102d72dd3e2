package repository

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/pkg/apperr"
	"training-scheduler/pkg/database"
	"training-scheduler/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateEnrolledCount(ctx context.Context, id uuid.UUID, count int) error

	// Business queries
	FindOverlapping(ctx context.Context, dimension entity.ConflictDimension, resourceID uuid.UUID, date, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error)
	FindActiveInRange(ctx context.Context, from, to time.Time) ([]*entity.Booking, error)

	// AcquireSlotLock serializes writers racing for the same
	// (dimension, resource, date) timeline. Must run inside a
	// transaction; the lock releases on commit or rollback.
	AcquireSlotLock(ctx context.Context, dimension entity.ConflictDimension, resourceID uuid.UUID, date time.Time) error
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, course_id, activity_type_id, instructor_id, location_id,
	       session_date, start_time, end_time, max_students, enrolled_count, status, notes,
	       created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CourseID,
		&booking.ActivityTypeID,
		&booking.InstructorID,
		&booking.LocationID,
		&booking.SessionDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.MaxStudents,
		&booking.EnrolledCount,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.StartTime = utils.ClockOnly(booking.StartTime)
	booking.EndTime = utils.ClockOnly(booking.EndTime)

	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, course_id, activity_type_id, instructor_id, location_id,
		                      session_date, start_time, end_time, max_students, enrolled_count,
		                      status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CourseID,
		booking.ActivityTypeID,
		booking.InstructorID,
		booking.LocationID,
		booking.SessionDate,
		booking.StartTime,
		booking.EndTime,
		booking.MaxStudents,
		booking.EnrolledCount,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		if conflictErr := conflictFromConstraint(err); conflictErr != nil {
			return conflictErr
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("instructor_id", booking.InstructorID.String()),
			zap.String("location_id", booking.LocationID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET course_id = $2, activity_type_id = $3, instructor_id = $4, location_id = $5,
		    session_date = $6, start_time = $7, end_time = $8, max_students = $9,
		    status = $10, notes = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CourseID,
		booking.ActivityTypeID,
		booking.InstructorID,
		booking.LocationID,
		booking.SessionDate,
		booking.StartTime,
		booking.EndTime,
		booking.MaxStudents,
		booking.Status,
		booking.Notes,
		booking.UpdatedAt,
	)

	if err != nil {
		if conflictErr := conflictFromConstraint(err); conflictErr != nil {
			return conflictErr
		}
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) UpdateEnrolledCount(ctx context.Context, id uuid.UUID, count int) error {
	query := `UPDATE bookings SET enrolled_count = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, count)
	if err != nil {
		r.log.Error("Failed to update enrolled count",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.Int("count", count),
		)
		return fmt.Errorf("update enrolled count for booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func dimensionColumn(dimension entity.ConflictDimension) (string, error) {
	switch dimension {
	case entity.DimensionInstructor:
		return "instructor_id", nil
	case entity.DimensionLocation:
		return "location_id", nil
	default:
		return "", fmt.Errorf("unknown conflict dimension %q", dimension)
	}
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, dimension entity.ConflictDimension, resourceID uuid.UUID, date, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	column, err := dimensionColumn(dimension)
	if err != nil {
		return nil, err
	}

	// Half-open intervals: [s1,e1) and [s2,e2) collide iff s1 < e2 AND s2 < e1.
	// Back-to-back bookings therefore never match.
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ` + column + ` = $1
		  AND session_date = $2
		  AND status <> 'cancelled'
		  AND start_time < $4
		  AND end_time > $3
		  AND ($5::uuid IS NULL OR id <> $5)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, resourceID, date, start, end, excludeID)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("dimension", string(dimension)),
			zap.String("resource_id", resourceID.String()),
		)
		return nil, fmt.Errorf("find overlapping bookings for %s %s: %w", string(dimension), resourceID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) FindActiveInRange(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE session_date BETWEEN $1 AND $2
		  AND status <> 'cancelled'
		ORDER BY session_date, start_time
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.log.Error("Failed to find bookings in range",
			zap.Error(err),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("find bookings in range: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) AcquireSlotLock(ctx context.Context, dimension entity.ConflictDimension, resourceID uuid.UUID, date time.Time) error {
	key := slotLockKey(dimension, resourceID, date)

	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key)
	if err != nil {
		r.log.Error("Failed to acquire slot lock",
			zap.Error(err),
			zap.String("dimension", string(dimension)),
			zap.String("resource_id", resourceID.String()),
		)
		return fmt.Errorf("acquire slot lock for %s %s: %w", string(dimension), resourceID.String(), err)
	}

	return nil
}

// conflictFromConstraint maps an exclusion-constraint violation
// (23P01) to a conflict error. The constraints back up the advisory
// locks, so hitting one means a racing writer claimed the slot first.
func conflictFromConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.SQLState() != "23P01" {
		return nil
	}

	dimension := entity.DimensionInstructor
	if strings.Contains(pgErr.ConstraintName, "location") {
		dimension = entity.DimensionLocation
	}

	return apperr.Conflict(string(dimension), uuid.Nil,
		"%s time slot already taken by a concurrent booking", string(dimension))
}

// slotLockKey hashes (dimension, resource, date) into the advisory
// lock keyspace.
func slotLockKey(dimension entity.ConflictDimension, resourceID uuid.UUID, date time.Time) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", dimension, resourceID.String(), date.Format("2006-01-02"))
	return int64(h.Sum64())
}
