package attendance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// SweepStore 是缺勤扫描需要的持久化操作
type SweepStore interface {
	// GetSweepCandidates 返回仍为 SCHEDULED，且 end_at < endBefore 或（end_at 为空且 work_date <= lastWorkDate）的班次
	GetSweepCandidates(endBefore, lastWorkDate time.Time) ([]*domain.Shift, error)
	// MarkShiftsAbsent 在一个事务里把班次改成 ABSENT 并回填 end_at
	// 版本已经变化的班次（被签到抢先）跳过，只返回实际修改的班次；任何其他错误整批回滚
	MarkShiftsAbsent(shifts []*domain.Shift) ([]*domain.Shift, error)
}

// Locker 保证多个实例部署时同一时刻只有一个在扫描
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

const sweepLockKey = "attendance_absence_sweep"

type SweepResult struct {
	TickID     string
	Candidates int
	Applied    []*domain.Shift
	Skipped    int
}

type Sweeper struct {
	store    SweepStore
	locker   Locker
	notifier Notifier
	loc      *time.Location
	interval time.Duration
	lockTTL  time.Duration
	now      func() time.Time
}

type SweeperOptions struct {
	Location *time.Location
	Interval time.Duration
	LockTTL  time.Duration
	Now      func() time.Time
}

func NewSweeper(store SweepStore, locker Locker, notifier Notifier, opts SweeperOptions) *Sweeper {
	s := &Sweeper{
		store:    store,
		locker:   locker,
		notifier: notifier,
		loc:      opts.Location,
		interval: opts.Interval,
		lockTTL:  opts.LockTTL,
		now:      opts.Now,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.interval <= 0 {
		s.interval = time.Hour
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 5 * time.Minute
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Run 每隔 interval 扫描一次，直到 ctx 被取消
// 取消只在两次扫描之间生效，正在进行的一批不会被打断
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("缺勤扫描已启动", "interval", s.interval)

	// 启动时先扫一次，重启期间过期的班次不必再等一个周期
	_, _ = s.Tick(context.WithoutCancel(ctx))

	for {
		select {
		case <-ctx.Done():
			slog.Info("缺勤扫描已停止")
			return
		case <-ticker.C:
			// 失败的整批会在下一个周期重试
			_, _ = s.Tick(context.WithoutCancel(ctx))
		}
	}
}

// Tick 执行一次完整的扫描：取候选、计算更新集合、一次性写入
// 已经是 ABSENT 的班次不再是候选，所以重复执行没有副作用
func (s *Sweeper) Tick(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{TickID: uuid.NewString()}
	logger := slog.With("tick", result.TickID)

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, sweepLockKey, s.lockTTL)
		if err != nil {
			logger.Error("无法获取缺勤扫描锁", "error", err)
			return result, err
		}
		if !ok {
			logger.Info("其他实例正在扫描，跳过本次")
			return result, nil
		}
		defer release()
	}

	now := s.now()
	candidates, err := s.store.GetSweepCandidates(now, domain.DateOf(now, s.loc))
	if err != nil {
		logger.Error("无法获取待扫描的班次", "error", err)
		return result, err
	}
	result.Candidates = len(candidates)

	updates := make([]*domain.Shift, 0, len(candidates))
	for _, shift := range candidates {
		if shift.Status != domain.WorkStatusScheduled {
			continue
		}

		end, err := shift.EffectiveEnd(s.loc)
		if err != nil {
			// 单个班次的数据问题不影响其他班次
			logger.Error("班次时间格式错误，跳过", "shiftID", shift.ID, "error", err)
			continue
		}
		if !end.Before(now) {
			continue
		}

		if shift.EndAt == nil {
			shift.EndAt = &end
		}
		updates = append(updates, shift)
	}

	if len(updates) == 0 {
		logger.Info("缺勤扫描完成", "candidates", result.Candidates, "applied", 0)
		return result, nil
	}

	applied, err := s.store.MarkShiftsAbsent(updates)
	if err != nil {
		logger.Error("缺勤扫描写入失败，将在下个周期重试", "count", len(updates), "error", err)
		return result, err
	}
	result.Applied = applied
	result.Skipped = len(updates) - len(applied)

	logger.Info("缺勤扫描完成", "candidates", result.Candidates, "applied", len(applied), "skipped", result.Skipped)

	if s.notifier != nil {
		for _, shift := range applied {
			if err := s.notifier.ShiftAbsent(ctx, shift); err != nil {
				logger.Error("无法发送缺勤通知", "shiftID", shift.ID, "error", err)
			}
		}
	}

	return result, nil
}
