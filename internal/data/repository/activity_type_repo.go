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

type ActivityTypeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ActivityType, error)
}

type activityTypeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewActivityTypeRepository(db database.Querier, log *zap.Logger) ActivityTypeRepository {
	return &activityTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "activity_type")),
	}
}

func (r *activityTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ActivityType, error) {
	query := `SELECT id, name, is_active, created_at, updated_at FROM activity_types WHERE id = $1`

	var activityType entity.ActivityType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&activityType.ID,
		&activityType.Name,
		&activityType.IsActive,
		&activityType.CreatedAt,
		&activityType.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find activity type by ID",
			zap.Error(err),
			zap.String("activity_type_id", id.String()),
		)
		return nil, fmt.Errorf("find activity type by ID %s: %w", id.String(), err)
	}

	return &activityType, nil
}
