package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/run"
	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type runRepository struct {
	db *database.DB
}

func NewRunRepository(db *database.DB) run.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, rec run.Run) (run.Run, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO processing_runs (
			id, kind, period_label, input_file, output_file,
			employee_count, anomaly_count, error_count, flag_count,
			total_regular, total_overtime
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, kind, period_label, input_file, output_file,
			employee_count, anomaly_count, error_count, flag_count,
			total_regular, total_overtime, created_at
	`

	var created run.Run
	err := q.QueryRow(ctx, query,
		rec.ID, rec.Kind, rec.PeriodLabel, rec.InputFile, rec.OutputFile,
		rec.EmployeeCount, rec.AnomalyCount, rec.ErrorCount, rec.FlagCount,
		rec.TotalRegular, rec.TotalOvertime,
	).Scan(
		&created.ID, &created.Kind, &created.PeriodLabel, &created.InputFile, &created.OutputFile,
		&created.EmployeeCount, &created.AnomalyCount, &created.ErrorCount, &created.FlagCount,
		&created.TotalRegular, &created.TotalOvertime, &created.CreatedAt,
	)
	if err != nil {
		return run.Run{}, fmt.Errorf("failed to create processing run: %w", err)
	}

	return created, nil
}

func (r *runRepository) GetByID(ctx context.Context, id string) (run.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, kind, period_label, input_file, output_file,
			employee_count, anomaly_count, error_count, flag_count,
			total_regular, total_overtime, created_at
		FROM processing_runs
		WHERE id = $1
	`

	var rec run.Run
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Kind, &rec.PeriodLabel, &rec.InputFile, &rec.OutputFile,
		&rec.EmployeeCount, &rec.AnomalyCount, &rec.ErrorCount, &rec.FlagCount,
		&rec.TotalRegular, &rec.TotalOvertime, &rec.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return run.Run{}, run.ErrRunNotFound
		}
		return run.Run{}, fmt.Errorf("failed to get processing run: %w", err)
	}

	return rec, nil
}

func (r *runRepository) List(ctx context.Context, limit int) ([]run.Run, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, kind, period_label, input_file, output_file,
			employee_count, anomaly_count, error_count, flag_count,
			total_regular, total_overtime, created_at
		FROM processing_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing runs: %w", err)
	}
	defer rows.Close()

	var runs []run.Run
	for rows.Next() {
		var rec run.Run
		if err := rows.Scan(
			&rec.ID, &rec.Kind, &rec.PeriodLabel, &rec.InputFile, &rec.OutputFile,
			&rec.EmployeeCount, &rec.AnomalyCount, &rec.ErrorCount, &rec.FlagCount,
			&rec.TotalRegular, &rec.TotalOvertime, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan processing run: %w", err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate processing runs: %w", err)
	}

	return runs, nil
}
