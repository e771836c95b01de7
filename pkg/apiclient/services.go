package apiclient

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"presensi/internal/dto"
	"presensi/internal/validation"
)

// ValidationError 客户端表单校验失败，Fields 为字段名到提示的映射
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func formError(f validation.EmployeeForm, requirePassword bool) error {
	if errs := f.Validate(requirePassword); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// ── 认证 ──

// AuthService 登录 / 登出
type AuthService struct {
	BaseService
}

// NewAuthService 创建认证客户端
func NewAuthService(c *Client) *AuthService {
	return &AuthService{BaseService{client: c}}
}

// AdminLogin 管理员登录并保存 Token
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*dto.AdminLoginResponse, error) {
	if !validation.IsEmail(strings.TrimSpace(email)) {
		return nil, &ValidationError{Fields: map[string]string{"email": "Invalid email format"}}
	}
	res, err := Post[dto.AdminLoginResponse](ctx, s.BaseService, "/admin/login",
		dto.AdminLoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.client.tokens.Save(res.AccessToken); err != nil {
		return nil, unexpected(err)
	}
	return &res, nil
}

// EmployeeLogin 员工登录并保存 Token
func (s *AuthService) EmployeeLogin(ctx context.Context, nik, password string) (*dto.EmployeeLoginResponse, error) {
	if strings.TrimSpace(nik) == "" || password == "" {
		return nil, &ValidationError{Fields: map[string]string{"nik": "NIK and password are required"}}
	}
	res, err := Post[dto.EmployeeLoginResponse](ctx, s.BaseService, "/employee/login",
		dto.EmployeeLoginRequest{NIK: strings.TrimSpace(nik), Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.client.tokens.Save(res.AccessToken); err != nil {
		return nil, unexpected(err)
	}
	return &res, nil
}

// Logout 注销当前 Token；role 为 admin 或 employee
func (s *AuthService) Logout(ctx context.Context, role string) error {
	_, err := Post[dto.MessageResponse](ctx, s.BaseService, "/"+role+"/logout", nil)
	if clearErr := s.client.tokens.Clear(); err == nil && clearErr != nil {
		return unexpected(clearErr)
	}
	return err
}

// ── 员工 ──

// EmployeeService 员工管理
type EmployeeService struct {
	BaseService
}

// NewEmployeeService 创建员工客户端
func NewEmployeeService(c *Client) *EmployeeService {
	return &EmployeeService{BaseService{client: c, prefix: "/admin/employees"}}
}

// ListParams 分页与排序参数
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Order string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	return q
}

func (s *EmployeeService) GetAll(ctx context.Context, params ListParams) (*dto.EmployeesResponse, error) {
	res, err := Get[dto.EmployeesResponse](ctx, s.BaseService, "", params.values())
	return &res, err
}

func (s *EmployeeService) Search(ctx context.Context, q string) (*dto.EmployeesResponse, error) {
	res, err := Get[dto.EmployeesResponse](ctx, s.BaseService, "/search", url.Values{"q": {q}})
	return &res, err
}

func (s *EmployeeService) GetByID(ctx context.Context, id uint) (*dto.EmployeeDetailResponse, error) {
	res, err := Get[dto.EmployeeDetailResponse](ctx, s.BaseService, idPath("/%d", id), nil)
	return &res, err
}

// Create 提交前做表单校验，失败时不发请求
func (s *EmployeeService) Create(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := formError(validation.EmployeeForm{
		NIK: req.NIK, Name: req.Name, Email: req.Email, Position: req.Position, Password: req.Password,
	}, true); err != nil {
		return nil, err
	}
	res, err := Post[dto.EmployeeResponse](ctx, s.BaseService, "", req)
	return &res, err
}

// Update 全量更新；密码可留空
func (s *EmployeeService) Update(ctx context.Context, id uint, req dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := formError(validation.EmployeeForm{
		NIK: req.NIK, Name: req.Name, Email: req.Email, Position: req.Position, Password: req.Password,
	}, false); err != nil {
		return nil, err
	}
	res, err := Put[dto.EmployeeResponse](ctx, s.BaseService, idPath("/%d", id), req)
	return &res, err
}

func (s *EmployeeService) PartialUpdate(ctx context.Context, id uint, req dto.PatchEmployeeRequest) (*dto.EmployeeResponse, error) {
	res, err := Patch[dto.EmployeeResponse](ctx, s.BaseService, idPath("/%d", id), req)
	return &res, err
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) error {
	_, err := Delete[dto.MessageResponse](ctx, s.BaseService, idPath("/%d", id))
	return err
}

func (s *EmployeeService) AvailableSchedules(ctx context.Context, id uint) (*dto.AvailableSchedulesResponse, error) {
	res, err := Get[dto.AvailableSchedulesResponse](ctx, s.BaseService, idPath("/available-schedules/%d", id), nil)
	return &res, err
}

func (s *EmployeeService) Schedules(ctx context.Context, id uint) ([]dto.EmployeeScheduleResponse, error) {
	res, err := Get[struct {
		Schedules []dto.EmployeeScheduleResponse `json:"schedules"`
	}](ctx, s.BaseService, idPath("/%d/schedules", id), nil)
	return res.Schedules, err
}

func (s *EmployeeService) AssignSchedule(ctx context.Context, id uint, req dto.AssignScheduleRequest) (*dto.EmployeeScheduleResponse, error) {
	res, err := Post[dto.EmployeeScheduleResponse](ctx, s.BaseService, idPath("/%d/schedules", id), req)
	return &res, err
}

func (s *EmployeeService) UpdateSchedule(ctx context.Context, id, scheduleID uint, req dto.AssignScheduleRequest) (*dto.EmployeeScheduleResponse, error) {
	res, err := Put[dto.EmployeeScheduleResponse](ctx, s.BaseService, idPath("/%d/schedules/%d", id, scheduleID), req)
	return &res, err
}

func (s *EmployeeService) RemoveSchedule(ctx context.Context, id, scheduleID uint) error {
	_, err := Delete[dto.MessageResponse](ctx, s.BaseService, idPath("/%d/schedules/%d", id, scheduleID))
	return err
}

// ── 班次 ──

// WorkScheduleService 班次管理，路径与 Web 端一致
type WorkScheduleService struct {
	BaseService
}

// NewWorkScheduleService 创建班次客户端
func NewWorkScheduleService(c *Client) *WorkScheduleService {
	return &WorkScheduleService{BaseService{client: c, prefix: "/admin/work-schedulesOP"}}
}

func (s *WorkScheduleService) GetAll(ctx context.Context) (*dto.WorkSchedulesResponse, error) {
	res, err := Get[dto.WorkSchedulesResponse](ctx, s.BaseService, "", nil)
	return &res, err
}

func (s *WorkScheduleService) GetByID(ctx context.Context, id uint) (*dto.WorkScheduleDetailResponse, error) {
	res, err := Get[dto.WorkScheduleDetailResponse](ctx, s.BaseService, idPath("/%d", id), nil)
	return &res, err
}

// Create 起止时间在客户端先校验
func (s *WorkScheduleService) Create(ctx context.Context, req dto.CreateWorkScheduleRequest) (*dto.WorkScheduleResponse, error) {
	if err := validation.ValidTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"end_time": err.Error()}}
	}
	res, err := Post[dto.WorkScheduleResponse](ctx, s.BaseService, "", req)
	return &res, err
}

func (s *WorkScheduleService) Update(ctx context.Context, id uint, req dto.UpdateWorkScheduleRequest) (*dto.WorkScheduleResponse, error) {
	if err := validation.ValidTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"end_time": err.Error()}}
	}
	res, err := Put[dto.WorkScheduleResponse](ctx, s.BaseService, idPath("/%d", id), req)
	return &res, err
}

func (s *WorkScheduleService) DeleteByID(ctx context.Context, id uint) error {
	_, err := Delete[dto.MessageResponse](ctx, s.BaseService, idPath("/%d", id))
	return err
}

// GetQrCode 为班次签发新的考勤二维码令牌
func (s *WorkScheduleService) GetQrCode(ctx context.Context, id uint) (*dto.QRCodeResponse, error) {
	res, err := Post[dto.QRCodeResponse](ctx, s.BaseService, idPath("/%d/qr", id), nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ── 考勤 ──

// AttendanceService 管理端查询与员工端签到
type AttendanceService struct {
	BaseService
}

// NewAttendanceService 创建考勤客户端
func NewAttendanceService(c *Client) *AttendanceService {
	return &AttendanceService{BaseService{client: c}}
}

// AttendanceFilter 管理端查询条件
type AttendanceFilter struct {
	DateFrom   string
	DateTo     string
	EmployeeID uint
	Status     string
}

func (f AttendanceFilter) values() url.Values {
	q := url.Values{}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	if f.EmployeeID > 0 {
		q.Set("employee_id", strconv.FormatUint(uint64(f.EmployeeID), 10))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	return q
}

func (s *AttendanceService) GetAll(ctx context.Context, f AttendanceFilter) (*dto.AttendancesResponse, error) {
	res, err := Get[dto.AttendancesResponse](ctx, s.BaseService, "/admin/attendance", f.values())
	return &res, err
}

// Export 下载考勤 Excel，返回文件内容与文件名
func (s *AttendanceService) Export(ctx context.Context, f AttendanceFilter) ([]byte, string, error) {
	return s.client.download(ctx, "/admin/attendance/export", f.values())
}

func (s *AttendanceService) Today(ctx context.Context) (*dto.AttendanceRecord, error) {
	res, err := Get[dto.AttendanceRecord](ctx, s.BaseService, "/employee/attendance/today", nil)
	return &res, err
}

// History rng 为 week 或 month
func (s *AttendanceService) History(ctx context.Context, rng string) (*dto.HistoryResponse, error) {
	res, err := Get[dto.HistoryResponse](ctx, s.BaseService, "/employee/attendance/history", url.Values{"range": {rng}})
	return &res, err
}

// Scan 提交扫码得到的令牌
func (s *AttendanceService) Scan(ctx context.Context, qrData string) (*dto.ScanResponse, error) {
	if strings.TrimSpace(qrData) == "" {
		return nil, &ValidationError{Fields: map[string]string{"qr_data": "QR data is required"}}
	}
	res, err := Post[dto.ScanResponse](ctx, s.BaseService, "/employee/attendance/scan", dto.ScanRequest{QRData: qrData})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *AttendanceService) CheckOut(ctx context.Context) (*dto.AttendanceRecord, error) {
	res, err := Post[dto.AttendanceRecord](ctx, s.BaseService, "/employee/attendance/check-out", nil)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Services 全部业务客户端
type Services struct {
	Auth         *AuthService
	Employee     *EmployeeService
	WorkSchedule *WorkScheduleService
	Attendance   *AttendanceService
}

// NewServices 基于同一 Client 创建全部业务客户端
func NewServices(c *Client) *Services {
	return &Services{
		Auth:         NewAuthService(c),
		Employee:     NewEmployeeService(c),
		WorkSchedule: NewWorkScheduleService(c),
		Attendance:   NewAttendanceService(c),
	}
}
