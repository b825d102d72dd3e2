package usecase

import (
	"context"
	"strings"
	"time"

	"training-scheduler/internal/data/entity"
	"training-scheduler/internal/data/repository"
	"training-scheduler/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupAssignmentManager owns the many-to-many link between bookings
// and enrollment groups. Methods run on the caller's repositories so
// assignment changes share the caller's transaction.
type GroupAssignmentManager struct {
	log *zap.Logger
}

func NewGroupAssignmentManager(log *zap.Logger) *GroupAssignmentManager {
	return &GroupAssignmentManager{
		log: log.With(zap.String("service", "group_assignment")),
	}
}

// Assign replaces the booking's full assignment set: every existing
// row is removed, then one active row per supplied group is inserted.
// Duplicate ids are dropped, first occurrence wins.
func (m *GroupAssignmentManager) Assign(ctx context.Context, repo *repository.Repository, bookingID uuid.UUID, groupIDs []uuid.UUID) error {
	groupIDs = dedupeIDs(groupIDs)

	missing, err := repo.Group.MissingIDs(ctx, groupIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.Validation("unknown group ids: %s", joinIDs(missing))
	}

	removed, err := repo.Assignment.DeleteByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}

	now := time.Now()
	assignments := make([]*entity.GroupAssignment, len(groupIDs))
	for i, groupID := range groupIDs {
		assignments[i] = &entity.GroupAssignment{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID: bookingID,
			GroupID:   groupID,
			Status:    entity.AssignmentStatusActive,
		}
	}

	if err := repo.Assignment.CreateBatch(ctx, assignments); err != nil {
		return err
	}

	m.log.Info("Group assignments replaced",
		zap.String("booking_id", bookingID.String()),
		zap.Int64("removed", removed),
		zap.Int("assigned", len(assignments)),
	)

	return nil
}

// RecomputeEnrollment counts distinct active students reachable
// through the booking's active groups and stores the count on the
// booking. Denormalized for capacity checks, never the source of
// truth.
func (m *GroupAssignmentManager) RecomputeEnrollment(ctx context.Context, repo *repository.Repository, bookingID uuid.UUID) (int, error) {
	studentIDs, err := repo.Assignment.ActiveStudentIDs(ctx, bookingID)
	if err != nil {
		return 0, err
	}

	count := len(studentIDs)
	if err := repo.Booking.UpdateEnrolledCount(ctx, bookingID, count); err != nil {
		return 0, err
	}

	return count, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
