package dto

// ── 认证模块 DTO ──

// AdminLoginRequest 管理员登录
type AdminLoginRequest struct {
	Email    string `json:"email"    binding:"required,email_simple"`
	Password string `json:"password" binding:"required"`
}

// EmployeeLoginRequest 员工登录（移动端）
type EmployeeLoginRequest struct {
	NIK      string `json:"nik"`
	Password string `json:"password"`
}

// AdminResponse 管理员信息
type AdminResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AdminLoginResponse 管理员登录响应
type AdminLoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int           `json:"expires_in"` // 秒
	Admin       AdminResponse `json:"admin"`
}

// EmployeeLoginResponse 员工登录响应
type EmployeeLoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int              `json:"expires_in"`
	Employee    EmployeeResponse `json:"employee"`
}
