package handler

type ctxKey string

const (
	RoleCtxKey      ctxKey = "role"
	SubCtxKey       ctxKey = "sub"
	MyInfoCtx       ctxKey = "myInfo"
	EmployeeInfoCtx ctxKey = "employeeInfo"
)
