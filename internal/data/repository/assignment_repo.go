package repository

import (
	"context"
	"fmt"

	"training-scheduler/internal/data/entity"
	"training-scheduler/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type GroupAssignmentRepository interface {
	CreateBatch(ctx context.Context, assignments []*entity.GroupAssignment) error
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error)
	FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.GroupAssignment, error)

	// ActiveStudentIDs resolves the distinct active students reachable
	// through the booking's active group assignments.
	ActiveStudentIDs(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error)
}

type groupAssignmentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGroupAssignmentRepository(db database.Querier, log *zap.Logger) GroupAssignmentRepository {
	return &groupAssignmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "group_assignment")),
	}
}

func (r *groupAssignmentRepository) CreateBatch(ctx context.Context, assignments []*entity.GroupAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	query := `
		INSERT INTO group_assignments (id, booking_id, group_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, assignment := range assignments {
		_, err := r.db.Exec(ctx, query,
			assignment.ID,
			assignment.BookingID,
			assignment.GroupID,
			assignment.Status,
			assignment.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create group assignment",
				zap.Error(err),
				zap.String("booking_id", assignment.BookingID.String()),
				zap.String("group_id", assignment.GroupID.String()),
			)
			return fmt.Errorf("create assignment for group %s: %w", assignment.GroupID.String(), err)
		}
	}

	return nil
}

func (r *groupAssignmentRepository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	query := `DELETE FROM group_assignments WHERE booking_id = $1`

	result, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to delete group assignments",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("delete assignments for booking %s: %w", bookingID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *groupAssignmentRepository) FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.GroupAssignment, error) {
	query := `
		SELECT id, booking_id, group_id, status, created_at
		FROM group_assignments
		WHERE booking_id = $1 AND status = 'active'
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find group assignments",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find assignments for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var assignments []*entity.GroupAssignment
	for rows.Next() {
		var assignment entity.GroupAssignment
		err := rows.Scan(
			&assignment.ID,
			&assignment.BookingID,
			&assignment.GroupID,
			&assignment.Status,
			&assignment.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan assignment row", zap.Error(err))
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		assignments = append(assignments, &assignment)
	}

	return assignments, nil
}

func (r *groupAssignmentRepository) ActiveStudentIDs(ctx context.Context, bookingID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT gm.student_id
		FROM group_assignments ga
		JOIN group_members gm ON gm.group_id = ga.group_id
		WHERE ga.booking_id = $1
		  AND ga.status = 'active'
		  AND gm.status = 'active'
		ORDER BY gm.student_id
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to resolve active students",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("resolve active students for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var studentIDs []uuid.UUID
	for rows.Next() {
		var studentID uuid.UUID
		if err := rows.Scan(&studentID); err != nil {
			r.log.Error("Failed to scan student ID", zap.Error(err))
			return nil, fmt.Errorf("scan student ID: %w", err)
		}
		studentIDs = append(studentIDs, studentID)
	}

	return studentIDs, nil
}
