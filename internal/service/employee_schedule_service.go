package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/repository"
)

var (
	ErrEmployeeScheduleNotFound = errors.New("Employee schedule not found")
	ErrDayNotFound              = errors.New("Day not found")
	ErrDayAlreadyAssigned       = errors.New("Employee already has a schedule on this day")
)

// EmployeeScheduleService 员工排班业务接口
type EmployeeScheduleService interface {
	// Available 返回员工尚未排班的星期与全部班次
	Available(ctx context.Context, employeeID uint) (*dto.AvailableSchedulesResponse, error)
	// Weekly 员工每周排班，按星期排序
	Weekly(ctx context.Context, employeeID uint) ([]dto.EmployeeScheduleResponse, error)
	Assign(ctx context.Context, employeeID uint, req *dto.AssignScheduleRequest) (*dto.EmployeeScheduleResponse, error)
	Update(ctx context.Context, employeeID, scheduleID uint, req *dto.AssignScheduleRequest) (*dto.EmployeeScheduleResponse, error)
	Remove(ctx context.Context, employeeID, scheduleID uint) error
}

type employeeScheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeScheduleService 创建 EmployeeScheduleService 实例
func NewEmployeeScheduleService(repo *repository.Repository, logger *zap.Logger) EmployeeScheduleService {
	return &employeeScheduleService{repo: repo, logger: logger}
}

func (s *employeeScheduleService) Available(ctx context.Context, employeeID uint) (*dto.AvailableSchedulesResponse, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	assigned, err := s.repo.EmployeeSchedule.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询员工排班失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	taken := make(map[uint]bool, len(assigned))
	for _, es := range assigned {
		taken[es.DailyScheduleID] = true
	}

	days, err := s.repo.DailySchedule.List(ctx)
	if err != nil {
		s.logger.Error("查询星期字典失败", zap.Error(err))
		return nil, err
	}
	schedules, _, err := s.repo.WorkSchedule.List(ctx)
	if err != nil {
		s.logger.Error("查询班次列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.AvailableSchedulesResponse{
		DailySchedules: make([]dto.DailyScheduleResponse, 0, len(days)),
		WorkSchedules:  make([]dto.WorkScheduleResponse, 0, len(schedules)),
	}
	for _, d := range days {
		if !taken[d.ID] {
			resp.DailySchedules = append(resp.DailySchedules, dto.DailyScheduleResponse{ID: d.ID, Name: d.Name})
		}
	}
	for i := range schedules {
		resp.WorkSchedules = append(resp.WorkSchedules, toWorkScheduleResponse(&schedules[i]))
	}
	return resp, nil
}

func (s *employeeScheduleService) Weekly(ctx context.Context, employeeID uint) ([]dto.EmployeeScheduleResponse, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	list, err := s.repo.EmployeeSchedule.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询员工排班失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	out := make([]dto.EmployeeScheduleResponse, 0, len(list))
	for i := range list {
		// 已删除的班次不再展示
		if list[i].WorkSchedule == nil {
			continue
		}
		out = append(out, toEmployeeScheduleResponse(&list[i]))
	}
	return out, nil
}

func (s *employeeScheduleService) Assign(ctx context.Context, employeeID uint, req *dto.AssignScheduleRequest) (*dto.EmployeeScheduleResponse, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	if err := s.ensureTargets(ctx, req); err != nil {
		return nil, err
	}

	if _, err := s.repo.EmployeeSchedule.GetByEmployeeAndDay(ctx, employeeID, req.DayID); err == nil {
		return nil, ErrDayAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询员工排班失败", zap.Error(err))
		return nil, err
	}

	es := &model.EmployeeSchedule{
		EmployeeID:      employeeID,
		WorkScheduleID:  req.WorkScheduleID,
		DailyScheduleID: req.DayID,
	}
	if err := s.repo.EmployeeSchedule.Create(ctx, es); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDayAlreadyAssigned
		}
		s.logger.Error("创建员工排班失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, es.ID)
}

func (s *employeeScheduleService) Update(ctx context.Context, employeeID, scheduleID uint, req *dto.AssignScheduleRequest) (*dto.EmployeeScheduleResponse, error) {
	es, err := s.owned(ctx, employeeID, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTargets(ctx, req); err != nil {
		return nil, err
	}

	if req.DayID != es.DailyScheduleID {
		if _, err := s.repo.EmployeeSchedule.GetByEmployeeAndDay(ctx, employeeID, req.DayID); err == nil {
			return nil, ErrDayAlreadyAssigned
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询员工排班失败", zap.Error(err))
			return nil, err
		}
	}

	es.WorkScheduleID = req.WorkScheduleID
	es.DailyScheduleID = req.DayID
	if err := s.repo.EmployeeSchedule.Update(ctx, es); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDayAlreadyAssigned
		}
		s.logger.Error("更新员工排班失败", zap.Uint("id", scheduleID), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, es.ID)
}

func (s *employeeScheduleService) Remove(ctx context.Context, employeeID, scheduleID uint) error {
	if _, err := s.owned(ctx, employeeID, scheduleID); err != nil {
		return err
	}
	if err := s.repo.EmployeeSchedule.Delete(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeScheduleNotFound
		}
		s.logger.Error("删除员工排班失败", zap.Uint("id", scheduleID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *employeeScheduleService) ensureEmployee(ctx context.Context, employeeID uint) error {
	if _, err := s.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return err
	}
	return nil
}

func (s *employeeScheduleService) ensureTargets(ctx context.Context, req *dto.AssignScheduleRequest) error {
	if _, err := s.repo.WorkSchedule.GetByID(ctx, req.WorkScheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkScheduleNotFound
		}
		return err
	}
	if _, err := s.repo.DailySchedule.GetByID(ctx, req.DayID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDayNotFound
		}
		return err
	}
	return nil
}

// owned 查询排班并确认属于该员工
func (s *employeeScheduleService) owned(ctx context.Context, employeeID, scheduleID uint) (*model.EmployeeSchedule, error) {
	es, err := s.repo.EmployeeSchedule.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeScheduleNotFound
		}
		s.logger.Error("查询员工排班失败", zap.Uint("id", scheduleID), zap.Error(err))
		return nil, err
	}
	if es.EmployeeID != employeeID {
		return nil, ErrEmployeeScheduleNotFound
	}
	return es, nil
}

func (s *employeeScheduleService) reload(ctx context.Context, id uint) (*dto.EmployeeScheduleResponse, error) {
	es, err := s.repo.EmployeeSchedule.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("回读员工排班失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	resp := toEmployeeScheduleResponse(es)
	return &resp, nil
}
