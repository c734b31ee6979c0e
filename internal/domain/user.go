package domain

import (
	"time"
)

type Role string

const (
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
)

// User 由账户子系统维护，这里只读取展示信息和在职状态
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
