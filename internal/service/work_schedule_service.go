package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/repository"
	"presensi/internal/validation"
	pkgerrors "presensi/pkg/errors"
)

var (
	ErrWorkScheduleNotFound = errors.New("Work schedule not found")
	ErrWorkScheduleConflict = pkgerrors.ErrOptimisticLock
)

// WorkScheduleService 班次管理业务接口
type WorkScheduleService interface {
	List(ctx context.Context) (*dto.WorkSchedulesResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.WorkScheduleDetailResponse, error)
	Create(ctx context.Context, req *dto.CreateWorkScheduleRequest) (*dto.WorkScheduleResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateWorkScheduleRequest) (*dto.WorkScheduleResponse, error)
	// Delete 软删除班次并移除引用它的员工排班
	Delete(ctx context.Context, id uint) error
}

type workScheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkScheduleService 创建 WorkScheduleService 实例
func NewWorkScheduleService(repo *repository.Repository, logger *zap.Logger) WorkScheduleService {
	return &workScheduleService{repo: repo, logger: logger}
}

func (s *workScheduleService) List(ctx context.Context) (*dto.WorkSchedulesResponse, error) {
	list, total, err := s.repo.WorkSchedule.List(ctx)
	if err != nil {
		s.logger.Error("查询班次列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.WorkSchedulesResponse{
		TotalSchedules: total,
		WorkSchedules:  make([]dto.WorkScheduleResponse, 0, len(list)),
	}
	for i := range list {
		resp.WorkSchedules = append(resp.WorkSchedules, toWorkScheduleResponse(&list[i]))
	}
	return resp, nil
}

func (s *workScheduleService) GetByID(ctx context.Context, id uint) (*dto.WorkScheduleDetailResponse, error) {
	ws, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.WorkSchedule.CountEmployees(ctx, id)
	if err != nil {
		s.logger.Error("统计班次员工数失败", zap.Uint("work_schedule_id", id), zap.Error(err))
		return nil, err
	}

	return &dto.WorkScheduleDetailResponse{
		WorkScheduleResponse: toWorkScheduleResponse(ws),
		UpdatedAt:            ws.UpdatedAt.Format(time.RFC3339),
		EmployeeCount:        count,
	}, nil
}

func (s *workScheduleService) Create(ctx context.Context, req *dto.CreateWorkScheduleRequest) (*dto.WorkScheduleResponse, error) {
	if err := validation.ValidTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, validation.ErrInvalidTimeRange
	}

	ws := &model.WorkSchedule{
		Name:             strings.TrimSpace(req.Name),
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		ToleranceMinutes: req.ToleranceMinutes,
	}
	if err := s.repo.WorkSchedule.Create(ctx, ws); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("班次已创建", zap.Uint("work_schedule_id", ws.ID), zap.String("name", ws.Name))
	resp := toWorkScheduleResponse(ws)
	return &resp, nil
}

func (s *workScheduleService) Update(ctx context.Context, id uint, req *dto.UpdateWorkScheduleRequest) (*dto.WorkScheduleResponse, error) {
	if err := validation.ValidTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, validation.ErrInvalidTimeRange
	}

	ws, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	// 客户端携带 version 时按其校验，否则以当前版本为准
	if req.Version > 0 {
		ws.Version = req.Version
	}

	ws.Name = strings.TrimSpace(req.Name)
	ws.StartTime = req.StartTime
	ws.EndTime = req.EndTime
	ws.ToleranceMinutes = req.ToleranceMinutes

	if err := s.repo.WorkSchedule.Update(ctx, ws); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrWorkScheduleConflict
		}
		s.logger.Error("更新班次失败", zap.Uint("work_schedule_id", id), zap.Error(err))
		return nil, err
	}

	resp := toWorkScheduleResponse(ws)
	return &resp, nil
}

func (s *workScheduleService) Delete(ctx context.Context, id uint) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.EmployeeSchedule.DeleteByWorkSchedule(ctx, id); err != nil {
			s.logger.Error("清除班次排班失败", zap.Uint("work_schedule_id", id), zap.Error(err))
			return err
		}
		return txRepo.WorkSchedule.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkScheduleNotFound
		}
		s.logger.Error("删除班次失败", zap.Uint("work_schedule_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("班次已删除", zap.Uint("work_schedule_id", id))
	return nil
}

func (s *workScheduleService) get(ctx context.Context, id uint) (*model.WorkSchedule, error) {
	ws, err := s.repo.WorkSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkScheduleNotFound
		}
		s.logger.Error("查询班次失败", zap.Uint("work_schedule_id", id), zap.Error(err))
		return nil, err
	}
	return ws, nil
}
