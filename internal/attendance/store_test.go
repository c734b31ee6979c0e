package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

// memStore 在内存中模拟数据库的版本号比较交换语义
type memStore struct {
	mu           sync.Mutex
	shifts       map[int64]*domain.Shift
	nextShiftID  int64
	nextRecordID int64

	users    map[int64]*domain.User
	apps     map[int64]*domain.Application
	postings map[int64]*domain.JobPosting

	markAbsentErr error
}

func newMemStore() *memStore {
	return &memStore{
		shifts:   make(map[int64]*domain.Shift),
		users:    make(map[int64]*domain.User),
		apps:     make(map[int64]*domain.Application),
		postings: make(map[int64]*domain.JobPosting),
	}
}

func cloneShift(s *domain.Shift) *domain.Shift {
	c := *s
	if s.EndAt != nil {
		endAt := *s.EndAt
		c.EndAt = &endAt
	}
	if s.Record != nil {
		record := *s.Record
		c.Record = &record
	}
	return &c
}

func sameDate(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}

// put 直接写入一个班次，用于准备测试数据
func (m *memStore) put(shift *domain.Shift) *domain.Shift {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextShiftID++
	shift.ID = m.nextShiftID
	shift.Version = 1
	if shift.Record != nil {
		m.nextRecordID++
		shift.Record.ID = m.nextRecordID
		shift.Record.ShiftID = shift.ID
		shift.Record.Version = 1
	}
	m.shifts[shift.ID] = cloneShift(shift)
	return shift
}

func (m *memStore) get(id int64) *domain.Shift {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneShift(m.shifts[id])
}

func (m *memStore) GetUserByID(id int64) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrWorkerNotFound
	}
	return user, nil
}

func (m *memStore) GetAcceptedApplication(id int64) (*domain.Application, error) {
	app, ok := m.apps[id]
	if !ok || app.Status != domain.ApplicationStatusAccepted {
		return nil, domain.ErrApplicationNotFound
	}
	return app, nil
}

func (m *memStore) GetJobPosting(id int64) (*domain.JobPosting, error) {
	posting, ok := m.postings[id]
	if !ok {
		return nil, domain.ErrJobPostingNotFound
	}
	return posting, nil
}

func (m *memStore) CountShiftsByApplication(applicationID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cnt := 0
	for _, shift := range m.shifts {
		if shift.ApplicationID == applicationID {
			cnt++
		}
	}
	return cnt, nil
}

func (m *memStore) CreateShifts(shifts []*domain.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, shift := range shifts {
		for _, existing := range m.shifts {
			if existing.ApplicationID == shift.ApplicationID && sameDate(existing.WorkDate, shift.WorkDate) {
				return domain.ErrDuplicateShifts
			}
		}
	}

	for _, shift := range shifts {
		m.nextShiftID++
		shift.ID = m.nextShiftID
		shift.Version = 1
		m.shifts[shift.ID] = cloneShift(shift)
	}
	return nil
}

func (m *memStore) GetShiftByID(id int64) (*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shift, ok := m.shifts[id]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	return cloneShift(shift), nil
}

func (m *memStore) filter(keep func(*domain.Shift) bool) []*domain.Shift {
	m.mu.Lock()
	defer m.mu.Unlock()

	shifts := make([]*domain.Shift, 0)
	for _, shift := range m.shifts {
		if keep(shift) {
			shifts = append(shifts, cloneShift(shift))
		}
	}
	sort.Slice(shifts, func(i, j int) bool {
		if !sameDate(shifts[i].WorkDate, shifts[j].WorkDate) {
			return shifts[i].WorkDate.Before(shifts[j].WorkDate)
		}
		if shifts[i].StartTime != shifts[j].StartTime {
			return shifts[i].StartTime < shifts[j].StartTime
		}
		return shifts[i].ID < shifts[j].ID
	})
	return shifts
}

func inDateRange(d, from, to time.Time) bool {
	day := d.Format(time.DateOnly)
	return day >= from.Format(time.DateOnly) && day <= to.Format(time.DateOnly)
}

func (m *memStore) GetShiftsByWorker(workerID int64, from, to time.Time) ([]*domain.Shift, error) {
	return m.filter(func(s *domain.Shift) bool {
		return s.WorkerID == workerID && inDateRange(s.WorkDate, from, to)
	}), nil
}

func (m *memStore) GetShiftsByEmployer(employerID int64, from, to time.Time) ([]*domain.Shift, error) {
	return m.filter(func(s *domain.Shift) bool {
		return s.EmployerID == employerID && inDateRange(s.WorkDate, from, to)
	}), nil
}

func (m *memStore) UpdateShiftStatus(shift *domain.Shift, status domain.WorkStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.shifts[shift.ID]
	if !ok || stored.Version != shift.Version || stored.Status == domain.WorkStatusCompleted {
		return domain.ErrConcurrentUpdate
	}
	stored.Status = status
	stored.Version++
	shift.Version = stored.Version
	return nil
}

func (m *memStore) SaveAttendance(shift *domain.Shift, status domain.WorkStatus, record *domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.shifts[shift.ID]
	if !ok || stored.Version != shift.Version {
		return domain.ErrConcurrentUpdate
	}

	saved := *record
	if record.ID == 0 {
		if stored.Record != nil {
			return domain.ErrConcurrentUpdate
		}
		m.nextRecordID++
		saved.ID = m.nextRecordID
		saved.ShiftID = shift.ID
		saved.Version = 1
	} else {
		if stored.Record == nil || stored.Record.Version != record.Version {
			return domain.ErrConcurrentUpdate
		}
		saved.Version++
	}

	stored.Status = status
	stored.Version++
	stored.Record = &saved

	shift.Version = stored.Version
	record.ID = saved.ID
	record.ShiftID = saved.ShiftID
	record.Version = saved.Version
	return nil
}

func (m *memStore) GetSweepCandidates(endBefore, lastWorkDate time.Time) ([]*domain.Shift, error) {
	return m.filter(func(s *domain.Shift) bool {
		if s.Status != domain.WorkStatusScheduled {
			return false
		}
		if s.EndAt != nil {
			return s.EndAt.Before(endBefore)
		}
		return s.WorkDate.Format(time.DateOnly) <= lastWorkDate.Format(time.DateOnly)
	}), nil
}

func (m *memStore) MarkShiftsAbsent(shifts []*domain.Shift) ([]*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markAbsentErr != nil {
		return nil, m.markAbsentErr
	}

	applied := make([]*domain.Shift, 0, len(shifts))
	for _, shift := range shifts {
		stored, ok := m.shifts[shift.ID]
		if !ok || stored.Version != shift.Version || stored.Status != domain.WorkStatusScheduled {
			continue
		}
		stored.Status = domain.WorkStatusAbsent
		stored.Version++
		if shift.EndAt != nil {
			endAt := *shift.EndAt
			stored.EndAt = &endAt
		}
		shift.Status = domain.WorkStatusAbsent
		shift.Version = stored.Version
		applied = append(applied, shift)
	}
	return applied, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	generated [][]*domain.Shift
	absent    []int64
}

func (n *fakeNotifier) ShiftsGenerated(ctx context.Context, worker *domain.User, shifts []*domain.Shift) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.generated = append(n.generated, shifts)
	return nil
}

func (n *fakeNotifier) ShiftAbsent(ctx context.Context, shift *domain.Shift) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.absent = append(n.absent, shift.ID)
	return nil
}

func (n *fakeNotifier) absentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.absent)
}

var testLoc = time.FixedZone("UTC+8", 8*60*60)

const (
	testEmployerID = int64(100)
	testWorkerID   = int64(200)
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, testLoc)
}

// newDayShift 返回 2025-03-<day> 09:00-17:00 的 SCHEDULED 班次
func newDayShift(day int) *domain.Shift {
	endAt := at(day, 17, 0)
	return &domain.Shift{
		ApplicationID: 1,
		JobPostingID:  1,
		WorkerID:      testWorkerID,
		EmployerID:    testEmployerID,
		WorkDate:      time.Date(2025, 3, day, 0, 0, 0, 0, testLoc),
		StartTime:     "09:00:00",
		EndTime:       "17:00:00",
		EndAt:         &endAt,
		CompanyName:   "晨光便利店",
		HourlyWage:    2500,
		Status:        domain.WorkStatusScheduled,
	}
}
