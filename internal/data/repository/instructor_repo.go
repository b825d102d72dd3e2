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

type InstructorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Instructor, error)
}

type instructorRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInstructorRepository(db database.Querier, log *zap.Logger) InstructorRepository {
	return &instructorRepository{
		db:  db,
		log: log.With(zap.String("repository", "instructor")),
	}
}

func (r *instructorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Instructor, error) {
	query := `SELECT id, full_name, is_active, created_at, updated_at FROM instructors WHERE id = $1`

	var instructor entity.Instructor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&instructor.ID,
		&instructor.FullName,
		&instructor.IsActive,
		&instructor.CreatedAt,
		&instructor.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find instructor by ID",
			zap.Error(err),
			zap.String("instructor_id", id.String()),
		)
		return nil, fmt.Errorf("find instructor by ID %s: %w", id.String(), err)
	}

	return &instructor, nil
}
