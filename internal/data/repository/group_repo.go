package repository

import (
	"context"
	"fmt"

	"training-scheduler/internal/data/entity"
	"training-scheduler/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)

	// MissingIDs returns the subset of ids with no group row, for
	// validating an assignment request in one round trip.
	MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

type groupRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGroupRepository(db database.Querier, log *zap.Logger) GroupRepository {
	return &groupRepository{
		db:  db,
		log: log.With(zap.String("repository", "group")),
	}
}

func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	query := `SELECT id, name, is_active, created_at, updated_at FROM groups WHERE id = $1`

	var group entity.Group
	err := r.db.QueryRow(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.IsActive,
		&group.CreatedAt,
		&group.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find group by ID",
			zap.Error(err),
			zap.String("group_id", id.String()),
		)
		return nil, fmt.Errorf("find group by ID %s: %w", id.String(), err)
	}

	return &group, nil
}

func (r *groupRepository) MissingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT candidate.id
		FROM unnest($1::uuid[]) AS candidate(id)
		LEFT JOIN groups g ON g.id = candidate.id
		WHERE g.id IS NULL
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to check group IDs", zap.Error(err))
		return nil, fmt.Errorf("check group IDs: %w", err)
	}
	defer rows.Close()

	var missing []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan group ID", zap.Error(err))
			return nil, fmt.Errorf("scan group ID: %w", err)
		}
		missing = append(missing, id)
	}

	return missing, nil
}
