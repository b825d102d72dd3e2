package repository

import (
	"context"
	"fmt"

	"training-scheduler/internal/data/entity"
	"training-scheduler/pkg/database"
	"training-scheduler/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AttendanceRepository interface {
	CreateBatch(ctx context.Context, records []*entity.AttendanceRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AttendanceRecord, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.AttendanceRecord, error)
	CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error)
	Update(ctx context.Context, record *entity.AttendanceRecord) error
}

type attendanceRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewAttendanceRepository(db database.Querier, log *zap.Logger) AttendanceRepository {
	return &attendanceRepository{
		db:  db,
		log: log.With(zap.String("repository", "attendance")),
	}
}

const attendanceColumns = `id, booking_id, student_id, status, check_in_time, check_out_time,
	       score, notes, created_at, updated_at`

func scanAttendance(row pgx.Row) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := row.Scan(
		&record.ID,
		&record.BookingID,
		&record.StudentID,
		&record.Status,
		&record.CheckInTime,
		&record.CheckOutTime,
		&record.Score,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if record.CheckInTime != nil {
		checkIn := utils.ClockOnly(*record.CheckInTime)
		record.CheckInTime = &checkIn
	}
	if record.CheckOutTime != nil {
		checkOut := utils.ClockOnly(*record.CheckOutTime)
		record.CheckOutTime = &checkOut
	}

	return &record, nil
}

func (r *attendanceRepository) CreateBatch(ctx context.Context, records []*entity.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO attendance_records (id, booking_id, student_id, status, check_in_time,
		                                check_out_time, score, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, record := range records {
		_, err := r.db.Exec(ctx, query,
			record.ID,
			record.BookingID,
			record.StudentID,
			record.Status,
			record.CheckInTime,
			record.CheckOutTime,
			record.Score,
			record.Notes,
			record.CreatedAt,
			record.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create attendance record",
				zap.Error(err),
				zap.String("booking_id", record.BookingID.String()),
				zap.String("student_id", record.StudentID.String()),
			)
			return fmt.Errorf("create attendance for student %s: %w", record.StudentID.String(), err)
		}
	}

	return nil
}

func (r *attendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	record, err := scanAttendance(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find attendance record by ID",
			zap.Error(err),
			zap.String("attendance_id", id.String()),
		)
		return nil, fmt.Errorf("find attendance record by ID %s: %w", id.String(), err)
	}

	return record, nil
}

func (r *attendanceRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE booking_id = $1
		ORDER BY student_id
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find attendance records",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find attendance for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var records []*entity.AttendanceRecord
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			r.log.Error("Failed to scan attendance row", zap.Error(err))
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *attendanceRepository) CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM attendance_records WHERE booking_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, bookingID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count attendance records",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("count attendance for booking %s: %w", bookingID.String(), err)
	}

	return count, nil
}

func (r *attendanceRepository) Update(ctx context.Context, record *entity.AttendanceRecord) error {
	query := `
		UPDATE attendance_records
		SET status = $2, check_in_time = $3, check_out_time = $4, score = $5,
		    notes = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		record.ID,
		record.Status,
		record.CheckInTime,
		record.CheckOutTime,
		record.Score,
		record.Notes,
		record.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update attendance record",
			zap.Error(err),
			zap.String("attendance_id", record.ID.String()),
		)
		return fmt.Errorf("update attendance record %s: %w", record.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("attendance record %s not found", record.ID.String())
	}

	return nil
}
