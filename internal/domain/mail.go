package domain

const (
	MailTypeShiftsGenerated = "shifts_generated"
	MailTypeShiftAbsent     = "shift_absent"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftsGeneratedMailData struct {
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName"`
	Position    string `json:"position"`
	ShiftCount  int    `json:"shiftCount"`
	FirstDate   string `json:"firstDate"`
	LastDate    string `json:"lastDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

type ShiftAbsentMailData struct {
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName"`
	WorkDate    string `json:"workDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}
