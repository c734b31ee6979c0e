package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

const shiftUniqueConstraint = "shifts_application_id_work_date_key"

// 班次和考勤记录一起查出来，考勤记录可能还不存在
const shiftSelect = `
	SELECT
		s.id,
		s.application_id,
		s.job_posting_id,
		s.worker_id,
		s.employer_id,
		s.work_date,
		s.start_time::text,
		s.end_time::text,
		s.end_at,
		s.position,
		s.job_type,
		s.location,
		s.company_name,
		s.hourly_wage,
		s.status,
		s.created_at,
		s.version,
		ar.id,
		ar.check_in_at,
		ar.check_out_at,
		ar.is_late,
		ar.late_minutes,
		ar.notes,
		ar.created_at,
		ar.version
	FROM shifts s
	LEFT JOIN attendance_records ar ON ar.shift_id = s.id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*domain.Shift, error) {
	shift := &domain.Shift{}

	var record struct {
		ID          sql.NullInt64
		CheckInAt   sql.NullTime
		CheckOutAt  sql.NullTime
		IsLate      sql.NullBool
		LateMinutes sql.NullInt32
		Notes       sql.NullString
		CreatedAt   sql.NullTime
		Version     sql.NullInt32
	}
	var endAt sql.NullTime

	dst := []any{
		&shift.ID,
		&shift.ApplicationID,
		&shift.JobPostingID,
		&shift.WorkerID,
		&shift.EmployerID,
		&shift.WorkDate,
		&shift.StartTime,
		&shift.EndTime,
		&endAt,
		&shift.Position,
		&shift.JobType,
		&shift.Location,
		&shift.CompanyName,
		&shift.HourlyWage,
		&shift.Status,
		&shift.CreatedAt,
		&shift.Version,
		&record.ID,
		&record.CheckInAt,
		&record.CheckOutAt,
		&record.IsLate,
		&record.LateMinutes,
		&record.Notes,
		&record.CreatedAt,
		&record.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if endAt.Valid {
		shift.EndAt = &endAt.Time
	}

	// 如果考勤记录的 ID 为空，说明还没有签到过，记录是懒创建的
	if record.ID.Valid {
		shift.Record = &domain.AttendanceRecord{
			ID:          record.ID.Int64,
			ShiftID:     shift.ID,
			IsLate:      record.IsLate.Bool,
			LateMinutes: record.LateMinutes.Int32,
			Notes:       record.Notes.String,
			CreatedAt:   record.CreatedAt.Time,
			Version:     record.Version.Int32,
		}
		if record.CheckInAt.Valid {
			shift.Record.CheckInAt = &record.CheckInAt.Time
		}
		if record.CheckOutAt.Valid {
			shift.Record.CheckOutAt = &record.CheckOutAt.Time
		}
	}

	return shift, nil
}

func (r *Repository) queryShifts(query string, args ...any) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	query := shiftSelect + `WHERE s.id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift, err := scanShift(r.dbpool.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}

	return shift, nil
}

func (r *Repository) GetShiftsByWorker(workerID int64, from, to time.Time) ([]*domain.Shift, error) {
	query := shiftSelect + `
		WHERE s.worker_id = $1 AND s.work_date BETWEEN $2::date AND $3::date
		ORDER BY s.work_date, s.start_time, s.id
	`
	return r.queryShifts(query, workerID, from.Format(time.DateOnly), to.Format(time.DateOnly))
}

func (r *Repository) GetShiftsByEmployer(employerID int64, from, to time.Time) ([]*domain.Shift, error) {
	query := shiftSelect + `
		WHERE s.employer_id = $1 AND s.work_date BETWEEN $2::date AND $3::date
		ORDER BY s.work_date, s.start_time, s.id
	`
	return r.queryShifts(query, employerID, from.Format(time.DateOnly), to.Format(time.DateOnly))
}

func (r *Repository) CountShiftsByApplication(applicationID int64) (int, error) {
	query := `SELECT COUNT(*) FROM shifts WHERE application_id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var cnt int
	if err := r.dbpool.QueryRowContext(ctx, query, applicationID).Scan(&cnt); err != nil {
		return 0, err
	}

	return cnt, nil
}

// CreateShifts 在一个事务里插入全部班次，任何一个 (application_id, work_date) 冲突都会让整批回滚
func (r *Repository) CreateShifts(shifts []*domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO shifts (
			application_id,
			job_posting_id,
			worker_id,
			employer_id,
			work_date,
			start_time,
			end_time,
			end_at,
			position,
			job_type,
			location,
			company_name,
			hourly_wage,
			status
		) VALUES ($1, $2, $3, $4, $5::date, $6::time, $7::time, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, version
	`

	type inserted struct {
		id        int64
		createdAt time.Time
		version   int32
	}
	results := make([]inserted, len(shifts))

	for i, shift := range shifts {
		params := []any{
			shift.ApplicationID,
			shift.JobPostingID,
			shift.WorkerID,
			shift.EmployerID,
			shift.WorkDate.Format(time.DateOnly),
			shift.StartTime,
			shift.EndTime,
			shift.EndAt,
			shift.Position,
			shift.JobType,
			shift.Location,
			shift.CompanyName,
			shift.HourlyWage,
			shift.Status,
		}
		dst := []any{&results[i].id, &results[i].createdAt, &results[i].version}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(dst...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == shiftUniqueConstraint {
				return domain.ErrDuplicateShifts
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// 提交成功后再回填，失败时调用方手里的班次保持原样
	for i, shift := range shifts {
		shift.ID = results[i].id
		shift.CreatedAt = results[i].createdAt
		shift.Version = results[i].version
	}

	return nil
}

// UpdateShiftStatus 以版本号做比较交换，COMPLETED 的班次在数据库层面也不会被修改
func (r *Repository) UpdateShiftStatus(shift *domain.Shift, status domain.WorkStatus) error {
	query := `
		UPDATE shifts
		SET
			status = $1,
			version = version + 1
		WHERE id = $2 AND version = $3 AND status <> $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{status, shift.ID, shift.Version, domain.WorkStatusCompleted}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConcurrentUpdate
		}
		return err
	}

	return nil
}
