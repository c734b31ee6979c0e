package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// applications、job_postings 由招聘子系统维护，考勤模块只读；Create* 仅供 seed 使用

func (r *Repository) GetAcceptedApplication(id int64) (*domain.Application, error) {
	query := `
		SELECT worker_id, employer_id, job_posting_id, status, created_at
		FROM applications
		WHERE id = $1 AND status = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	app := &domain.Application{
		ID: id,
	}

	dst := []any{&app.WorkerID, &app.EmployerID, &app.JobPostingID, &app.Status, &app.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id, domain.ApplicationStatusAccepted).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}

	return app, nil
}

func (r *Repository) GetJobPosting(id int64) (*domain.JobPosting, error) {
	query := `
		SELECT
			employer_id,
			array_to_string(weekdays, ','),
			start_time::text,
			end_time::text,
			duration_category,
			position,
			job_type,
			location,
			company_name,
			hourly_wage
		FROM job_postings
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	posting := &domain.JobPosting{
		ID: id,
	}

	var weekdays string
	dst := []any{
		&posting.EmployerID,
		&weekdays,
		&posting.StartTime,
		&posting.EndTime,
		&posting.DurationCategory,
		&posting.Position,
		&posting.JobType,
		&posting.Location,
		&posting.CompanyName,
		&posting.HourlyWage,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobPostingNotFound
		}
		return nil, err
	}

	posting.Weekdays = make([]string, 0)
	if weekdays != "" {
		posting.Weekdays = strings.Split(weekdays, ",")
	}

	return posting, nil
}

func (r *Repository) CreateJobPosting(posting *domain.JobPosting) error {
	query := `
		INSERT INTO job_postings (
			employer_id,
			weekdays,
			start_time,
			end_time,
			duration_category,
			position,
			job_type,
			location,
			company_name,
			hourly_wage
		) VALUES ($1, string_to_array($2, ','), $3::time, $4::time, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{
		posting.EmployerID,
		strings.Join(posting.Weekdays, ","),
		posting.StartTime,
		posting.EndTime,
		posting.DurationCategory,
		posting.Position,
		posting.JobType,
		posting.Location,
		posting.CompanyName,
		posting.HourlyWage,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&posting.ID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateApplication(app *domain.Application) error {
	query := `
		INSERT INTO applications (worker_id, employer_id, job_posting_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{app.WorkerID, app.EmployerID, app.JobPostingID, app.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&app.ID, &app.CreatedAt); err != nil {
		return err
	}

	return nil
}
