package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/repository"
	"presensi/internal/validation"
)

var (
	ErrEmployeeNotFound    = errors.New("Employee not found")
	ErrNIKExists           = errors.New("NIK already registered")
	ErrEmailExists         = errors.New("Email already registered")
	ErrSearchQueryRequired = errors.New("Search query is required")
	ErrEmployeeDuplicate   = errors.New("NIK or email already registered")
	ErrInvalidEmployee     = errors.New("Invalid employee data")
)

const searchLimit = 50

// EmployeeService 员工管理业务接口
type EmployeeService interface {
	List(ctx context.Context, req *dto.EmployeeListRequest) (*dto.EmployeesResponse, error)
	Search(ctx context.Context, q string) (*dto.EmployeesResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.EmployeeDetailResponse, error)
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Patch(ctx context.Context, id uint, req *dto.PatchEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id uint) error
	// ParseImportFile 解析导入 Excel 文件
	ParseImportFile(reader io.Reader) ([]ImportEmployeeRow, error)
	// ImportEmployees 批量导入员工，返回每个新员工的初始密码
	ImportEmployees(ctx context.Context, rows []ImportEmployeeRow) (*dto.ImportEmployeeResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) (*dto.EmployeesResponse, error) {
	employees, total, err := s.repo.Employee.List(ctx, repository.EmployeeListParams{
		Offset: req.GetOffset(),
		Limit:  req.GetLimit(),
		Sort:   req.Sort,
		Desc:   req.Desc(),
	})
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.EmployeesResponse{
		TotalEmployees: total,
		Employees:      make([]dto.EmployeeResponse, 0, len(employees)),
	}
	for i := range employees {
		resp.Employees = append(resp.Employees, toEmployeeResponse(&employees[i]))
	}
	return resp, nil
}

func (s *employeeService) Search(ctx context.Context, q string) (*dto.EmployeesResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrSearchQueryRequired
	}

	employees, err := s.repo.Employee.Search(ctx, q, searchLimit)
	if err != nil {
		s.logger.Error("搜索员工失败", zap.String("q", q), zap.Error(err))
		return nil, err
	}

	resp := &dto.EmployeesResponse{
		TotalEmployees: int64(len(employees)),
		Employees:      make([]dto.EmployeeResponse, 0, len(employees)),
	}
	for i := range employees {
		resp.Employees = append(resp.Employees, toEmployeeResponse(&employees[i]))
	}
	return resp, nil
}

func (s *employeeService) GetByID(ctx context.Context, id uint) (*dto.EmployeeDetailResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.EmployeeDetailResponse{
		EmployeeResponse: toEmployeeResponse(employee),
		Schedules:        make([]dto.EmployeeScheduleResponse, 0, len(employee.Schedules)),
	}
	for i := range employee.Schedules {
		resp.Schedules = append(resp.Schedules, toEmployeeScheduleResponse(&employee.Schedules[i]))
	}
	return resp, nil
}

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	nik := strings.TrimSpace(req.NIK)
	email := strings.TrimSpace(req.Email)

	form := validation.EmployeeForm{NIK: nik, Name: req.Name, Email: email, Position: req.Position, Password: req.Password}
	if err := checkForm(form, true); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, nik, email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	employee := &model.Employee{
		NIK:          nik,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Position:     strings.TrimSpace(req.Position),
		Gender:       req.Gender,
		PhotoURL:     req.PhotoURL,
		PasswordHash: string(hash),
	}
	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmployeeDuplicate
		}
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工已创建", zap.Uint("employee_id", employee.ID), zap.String("nik", employee.NIK))
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *employeeService) Update(ctx context.Context, id uint, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	password := &req.Password
	if req.Password == "" {
		password = nil
	}
	return s.apply(ctx, id, &dto.PatchEmployeeRequest{
		NIK:      &req.NIK,
		Name:     &req.Name,
		Email:    &req.Email,
		Position: &req.Position,
		Gender:   &req.Gender,
		Password: password,
		PhotoURL: req.PhotoURL,
	}, true)
}

func (s *employeeService) Patch(ctx context.Context, id uint, req *dto.PatchEmployeeRequest) (*dto.EmployeeResponse, error) {
	return s.apply(ctx, id, req, false)
}

// apply 按字段合并更新；replacePhoto 为 true 时（PUT）photo_url 缺省即清空
func (s *employeeService) apply(ctx context.Context, id uint, req *dto.PatchEmployeeRequest, replacePhoto bool) (*dto.EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	nik, email := employee.NIK, employee.Email
	name, position := employee.Name, employee.Position
	if req.NIK != nil {
		nik = strings.TrimSpace(*req.NIK)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Position != nil {
		position = strings.TrimSpace(*req.Position)
	}
	if err := checkForm(validation.EmployeeForm{NIK: nik, Name: name, Email: email, Position: position}, false); err != nil {
		return nil, err
	}
	if nik != employee.NIK || !strings.EqualFold(email, employee.Email) {
		if err := s.checkUnique(ctx, nik, email, id); err != nil {
			return nil, err
		}
	}

	employee.NIK = nik
	employee.Email = email
	employee.Name = name
	employee.Position = position
	if req.Gender != nil {
		employee.Gender = *req.Gender
	}
	if req.PhotoURL != nil || replacePhoto {
		employee.PhotoURL = req.PhotoURL
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		employee.PasswordHash = string(hash)
	}

	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmployeeDuplicate
		}
		s.logger.Error("更新员工失败", zap.Uint("employee_id", id), zap.Error(err))
		return nil, err
	}

	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *employeeService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getEmployee(ctx, id); err != nil {
		return err
	}

	// 使用事务保证排班清除与员工软删除的原子性
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.EmployeeSchedule.DeleteByEmployee(ctx, id); err != nil {
			s.logger.Error("清除员工排班失败", zap.Uint("employee_id", id), zap.Error(err))
			return err
		}
		return txRepo.Employee.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("删除员工失败", zap.Uint("employee_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("员工已删除", zap.Uint("employee_id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *employeeService) getEmployee(ctx context.Context, id uint) (*model.Employee, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("employee_id", id), zap.Error(err))
		return nil, err
	}
	return employee, nil
}

// checkForm 去除首尾空白后字段不得为空
func checkForm(form validation.EmployeeForm, requirePassword bool) error {
	if errs := form.Validate(requirePassword); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidEmployee, firstMessage(errs))
	}
	return nil
}

// checkUnique 校验 NIK 与邮箱唯一（排除 excludeID 本身）
func (s *employeeService) checkUnique(ctx context.Context, nik, email string, excludeID uint) error {
	exists, err := s.repo.Employee.ExistsNIK(ctx, nik, excludeID)
	if err != nil {
		s.logger.Error("校验 NIK 唯一性失败", zap.Error(err))
		return err
	}
	if exists {
		return ErrNIKExists
	}

	exists, err = s.repo.Employee.ExistsEmail(ctx, email, excludeID)
	if err != nil {
		s.logger.Error("校验邮箱唯一性失败", zap.Error(err))
		return err
	}
	if exists {
		return ErrEmailExists
	}
	return nil
}
