package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateEmployeeMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type UnderstaffingMailData struct {
	Severity  string `json:"severity"`
	ShiftCode string `json:"shiftCode"`
	ShiftDate string `json:"shiftDate"`
	Required  int32  `json:"required"`
	Actual    int32  `json:"actual"`
	Message   string `json:"message"`
}
