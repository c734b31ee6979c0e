package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// SaveAttendance 在同一个事务里更新班次状态和考勤记录，任何一步失败都整体回滚
// 班次的版本号是唯一的并发控制点，签到和缺勤扫描同时修改同一个班次时只有一个能成功
func (r *Repository) SaveAttendance(shift *domain.Shift, status domain.WorkStatus, record *domain.AttendanceRecord) error {
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
		UPDATE shifts
		SET
			status = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	var shiftVersion int32
	if err := tx.QueryRowContext(ctx, query, status, shift.ID, shift.Version).Scan(&shiftVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConcurrentUpdate
		}
		return err
	}

	var (
		recordID        = record.ID
		recordCreatedAt = record.CreatedAt
		recordVersion   int32
	)

	if record.ID == 0 {
		// 第一次签到时才创建考勤记录
		query = `
			INSERT INTO attendance_records (shift_id, check_in_at, check_out_at, is_late, late_minutes, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (shift_id) DO NOTHING
			RETURNING id, created_at, version
		`
		params := []any{shift.ID, record.CheckInAt, record.CheckOutAt, record.IsLate, record.LateMinutes, record.Notes}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&recordID, &recordCreatedAt, &recordVersion); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrConcurrentUpdate
			}
			return err
		}
	} else {
		query = `
			UPDATE attendance_records
			SET
				check_in_at = $1,
				check_out_at = $2,
				is_late = $3,
				late_minutes = $4,
				notes = $5,
				version = version + 1
			WHERE id = $6 AND version = $7
			RETURNING version
		`
		params := []any{record.CheckInAt, record.CheckOutAt, record.IsLate, record.LateMinutes, record.Notes, record.ID, record.Version}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&recordVersion); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrConcurrentUpdate
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	shift.Version = shiftVersion
	record.ID = recordID
	record.ShiftID = shift.ID
	record.CreatedAt = recordCreatedAt
	record.Version = recordVersion

	return nil
}
