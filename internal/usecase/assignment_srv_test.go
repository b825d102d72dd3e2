package usecase

import (
	"context"
	"testing"

	"training-scheduler/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestAssignReplacesFullSet(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := NewGroupAssignmentManager(zap.NewNop())
	bookingID := uuid.New()

	groupA := env.addGroup(uuid.New())
	groupB := env.addGroup(uuid.New())
	groupC := env.addGroup(uuid.New())

	if err := manager.Assign(ctx, env.repo, bookingID, []uuid.UUID{groupA, groupB}); err != nil {
		t.Fatalf("first assign: %v", err)
	}

	// Second assign replaces, not appends.
	if err := manager.Assign(ctx, env.repo, bookingID, []uuid.UUID{groupC}); err != nil {
		t.Fatalf("second assign: %v", err)
	}

	assignments, err := env.repo.Assignment.FindActiveByBookingID(ctx, bookingID)
	if err != nil {
		t.Fatalf("find assignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("assignment count = %d, want 1", len(assignments))
	}
	if assignments[0].GroupID != groupC {
		t.Errorf("group = %s, want %s", assignments[0].GroupID, groupC)
	}
}

func TestAssignDedupesGroupIDs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := NewGroupAssignmentManager(zap.NewNop())
	bookingID := uuid.New()
	groupID := env.addGroup(uuid.New())

	if err := manager.Assign(ctx, env.repo, bookingID, []uuid.UUID{groupID, groupID, groupID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	assignments, err := env.repo.Assignment.FindActiveByBookingID(ctx, bookingID)
	if err != nil {
		t.Fatalf("find assignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Errorf("assignment count = %d, want 1", len(assignments))
	}
}

func TestAssignRejectsUnknownGroups(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := NewGroupAssignmentManager(zap.NewNop())
	bookingID := uuid.New()
	known := env.addGroup(uuid.New())

	err := manager.Assign(ctx, env.repo, bookingID, []uuid.UUID{known, uuid.New()})
	requireKind(t, err, apperr.KindValidation)

	// Nothing is written when any group is unknown.
	assignments, findErr := env.repo.Assignment.FindActiveByBookingID(ctx, bookingID)
	if findErr != nil {
		t.Fatalf("find assignments: %v", findErr)
	}
	if len(assignments) != 0 {
		t.Errorf("assignment count = %d, want 0", len(assignments))
	}
}

func TestAssignEmptySetClears(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := NewGroupAssignmentManager(zap.NewNop())
	bookingID := uuid.New()
	groupID := env.addGroup(uuid.New())

	if err := manager.Assign(ctx, env.repo, bookingID, []uuid.UUID{groupID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := manager.Assign(ctx, env.repo, bookingID, nil); err != nil {
		t.Fatalf("clear assign: %v", err)
	}

	assignments, err := env.repo.Assignment.FindActiveByBookingID(ctx, bookingID)
	if err != nil {
		t.Fatalf("find assignments: %v", err)
	}
	if len(assignments) != 0 {
		t.Errorf("assignment count = %d, want 0", len(assignments))
	}
}

func TestRecomputeEnrollmentCountsDistinctStudents(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	manager := NewGroupAssignmentManager(zap.NewNop())

	shared := uuid.New()
	groupA := env.addGroup(shared, uuid.New(), uuid.New())
	groupB := env.addGroup(shared, uuid.New())

	booking := seedBooking(env, uuid.New(), uuid.New(), "2026-09-01", "09:00", "10:00", "scheduled")

	if err := manager.Assign(ctx, env.repo, booking.ID, []uuid.UUID{groupA, groupB}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	count, err := manager.RecomputeEnrollment(ctx, env.repo, booking.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	// Four distinct students; the shared one counts once.
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}

	stored, err := env.repo.Booking.FindByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("find booking: %v", err)
	}
	if stored.EnrolledCount != 4 {
		t.Errorf("stored enrolled_count = %d, want 4", stored.EnrolledCount)
	}
}
