package queue

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

type UserLookup interface {
	GetUserByID(id int64) (*domain.User, error)
}

// MailNotifier 把排班、缺勤事件转成邮件消息投递到队列，由 mail worker 异步发送
type MailNotifier struct {
	publisher *Publisher
	users     UserLookup
}

func NewMailNotifier(publisher *Publisher, users UserLookup) *MailNotifier {
	return &MailNotifier{
		publisher: publisher,
		users:     users,
	}
}

func (n *MailNotifier) ShiftsGenerated(ctx context.Context, worker *domain.User, shifts []*domain.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	first, last := shifts[0], shifts[len(shifts)-1]
	return n.publisher.PublishMail(ctx, domain.MailMessage{
		Type: domain.MailTypeShiftsGenerated,
		To:   worker.Email,
		Data: domain.ShiftsGeneratedMailData{
			FullName:    worker.FullName,
			CompanyName: first.CompanyName,
			Position:    first.Position,
			ShiftCount:  len(shifts),
			FirstDate:   first.WorkDate.Format(time.DateOnly),
			LastDate:    last.WorkDate.Format(time.DateOnly),
			StartTime:   first.StartTime,
			EndTime:     first.EndTime,
		},
	})
}

func (n *MailNotifier) ShiftAbsent(ctx context.Context, shift *domain.Shift) error {
	worker, err := n.users.GetUserByID(shift.WorkerID)
	if err != nil {
		return err
	}

	return n.publisher.PublishMail(ctx, domain.MailMessage{
		Type: domain.MailTypeShiftAbsent,
		To:   worker.Email,
		Data: domain.ShiftAbsentMailData{
			FullName:    worker.FullName,
			CompanyName: shift.CompanyName,
			WorkDate:    shift.WorkDate.Format(time.DateOnly),
			StartTime:   shift.StartTime,
			EndTime:     shift.EndTime,
		},
	})
}
