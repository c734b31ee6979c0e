package domain

import "time"

type AttendanceRecord struct {
	ID          int64      `json:"id"`
	ShiftID     int64      `json:"shiftID"`
	CheckInAt   *time.Time `json:"checkInAt"`
	CheckOutAt  *time.Time `json:"checkOutAt"`
	IsLate      bool       `json:"isLate"`
	LateMinutes int32      `json:"lateMinutes"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	Version     int32      `json:"-"`
}

func (r *AttendanceRecord) CheckedIn() bool {
	return r != nil && r.CheckInAt != nil
}

func (r *AttendanceRecord) CheckedOut() bool {
	return r != nil && r.CheckOutAt != nil
}

// WorkedMinutes 按实际签到、签退时间计算工作分钟数，记录不存在或不完整时为 0
func (r *AttendanceRecord) WorkedMinutes() int64 {
	if !r.CheckedIn() || !r.CheckedOut() {
		return 0
	}
	d := r.CheckOutAt.Sub(*r.CheckInAt)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Minute)
}
