package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

func (r *Repository) GetSweepCandidates(endBefore, lastWorkDate time.Time) ([]*domain.Shift, error) {
	// end_at 为空的是历史数据，只能按日期粗筛，精确比较交给调用方
	query := shiftSelect + `
		WHERE s.status = $1
		  AND (s.end_at < $2 OR (s.end_at IS NULL AND s.work_date <= $3::date))
		ORDER BY s.id
	`
	return r.queryShifts(query, domain.WorkStatusScheduled, endBefore, lastWorkDate.Format(time.DateOnly))
}

// MarkShiftsAbsent 一次事务写完整批更新
// 版本号或状态已经变化的班次说明签到抢先了，直接跳过；其他错误回滚整批，等下一个周期重试
func (r *Repository) MarkShiftsAbsent(shifts []*domain.Shift) ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE shifts
		SET
			status = $1,
			end_at = $2,
			version = version + 1
		WHERE id = $3 AND version = $4 AND status = $5
		RETURNING version
	`

	applied := make([]*domain.Shift, 0, len(shifts))
	versions := make([]int32, 0, len(shifts))

	for _, shift := range shifts {
		params := []any{domain.WorkStatusAbsent, shift.EndAt, shift.ID, shift.Version, domain.WorkStatusScheduled}

		var version int32
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&version); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		applied = append(applied, shift)
		versions = append(versions, version)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for i, shift := range applied {
		shift.Status = domain.WorkStatusAbsent
		shift.Version = versions[i]
	}

	return applied, nil
}
