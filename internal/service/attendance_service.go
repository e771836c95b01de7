package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"presensi/config"
	"presensi/internal/attendance"
	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/repository"
)

var (
	ErrNotScheduledToday  = errors.New("You are not scheduled for this shift today")
	ErrAlreadyAttended    = errors.New("You have already checked in today")
	ErrMarkedAbsent       = errors.New("You have been marked absent today")
	ErrOutsideScanWindow  = errors.New("Check-in is not allowed at this time")
	ErrNotCheckedIn       = errors.New("You have not checked in today")
	ErrAlreadyCheckedOut  = errors.New("You have already checked out today")
	ErrInvalidRange       = errors.New("range must be week or month")
	ErrInvalidDateFilter  = errors.New("date_from must not be after date_to")
	ErrInvalidStatusValue = errors.New("Invalid attendance status")
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// List 管理端考勤列表
	List(ctx context.Context, req *dto.AttendanceListRequest) (*dto.AttendancesResponse, error)
	// Today 员工今日考勤，无记录时为 Not Yet Checked In
	Today(ctx context.Context, employeeID uint) (*dto.AttendanceRecord, error)
	// History 员工近一周 / 一月考勤及统计
	History(ctx context.Context, employeeID uint, rng string) (*dto.HistoryResponse, error)
	// Scan 扫码签到
	Scan(ctx context.Context, employeeID uint, req *dto.ScanRequest) (*dto.ScanResponse, error)
	// CheckOut 签退
	CheckOut(ctx context.Context, employeeID uint) (*dto.AttendanceRecord, error)
	// SweepAbsent 为今日有排班、下班时间已过且无考勤记录的员工写入缺勤，返回写入条数
	SweepAbsent(ctx context.Context) (int64, error)
}

type attendanceService struct {
	cfg    *config.AttendanceConfig
	repo   *repository.Repository
	qr     QRService
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.AttendanceConfig, repo *repository.Repository, qr QRService, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		cfg:    cfg,
		repo:   repo,
		qr:     qr,
		logger: logger,
		loc:    cfg.Location(),
		now:    time.Now,
	}
}

func (s *attendanceService) clock() time.Time {
	return s.now().In(s.loc)
}

// ════════════════════════════ 管理端 ════════════════════════════

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) (*dto.AttendancesResponse, error) {
	filter := repository.AttendanceFilter{EmployeeID: req.EmployeeID}

	if req.Status != "" {
		st, err := attendance.ParseStatus(req.Status)
		if err != nil {
			return nil, ErrInvalidStatusValue
		}
		filter.Status = string(st)
	}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, ErrInvalidDateFilter
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, ErrInvalidDateFilter
		}
		filter.DateTo = &to
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, ErrInvalidDateFilter
	}

	rows, total, err := s.repo.Attendance.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询考勤列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.AttendancesResponse{
		TotalAttendance: total,
		Attendances:     make([]dto.AttendanceResponse, 0, len(rows)),
	}
	for i := range rows {
		resp.Attendances = append(resp.Attendances, s.toAttendanceResponse(&rows[i]))
	}
	return resp, nil
}

func (s *attendanceService) toAttendanceResponse(a *model.Attendance) dto.AttendanceResponse {
	out := dto.AttendanceResponse{
		AttendanceID:   a.ID,
		EmployeeID:     a.EmployeeID,
		AttendanceDate: a.Date.Format("2006-01-02"),
		CheckInTime:    clockIn(a.CheckInTime, s.loc),
		CheckOutTime:   clockIn(a.CheckOutTime, s.loc),
		Status:         a.Status,
	}
	if a.Employee != nil {
		out.EmployeeName = a.Employee.Name
		out.Position = a.Employee.Position
	}
	if a.WorkSchedule != nil {
		out.ScheduleName = a.WorkSchedule.Name
	}
	return out
}

// ════════════════════════════ 员工端 ════════════════════════════

func (s *attendanceService) Today(ctx context.Context, employeeID uint) (*dto.AttendanceRecord, error) {
	now := s.clock()
	row, err := s.todayRow(ctx, employeeID, now)
	if err != nil {
		return nil, err
	}
	if row == nil {
		out := toAttendanceRecord(attendance.NotCheckedIn(now), "")
		return &out, nil
	}
	out := toAttendanceRecord(toRecord(row, s.loc), scheduleName(row))
	return &out, nil
}

func (s *attendanceService) History(ctx context.Context, employeeID uint, rng string) (*dto.HistoryResponse, error) {
	r, err := attendance.ParseRange(rng)
	if err != nil {
		return nil, ErrInvalidRange
	}

	now := s.clock()
	rows, err := s.repo.Attendance.ListByEmployeeSince(ctx, employeeID, r.Since(now))
	if err != nil {
		s.logger.Error("查询考勤历史失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	names := make(map[string]string, len(rows))
	records := make([]attendance.Record, 0, len(rows))
	for i := range rows {
		rec := toRecord(&rows[i], s.loc)
		names[rec.Key()] = scheduleName(&rows[i])
		records = append(records, rec)
	}
	records = attendance.Filter(records, r, now)
	sum := attendance.Summarize(records)

	resp := &dto.HistoryResponse{
		Range:   string(r),
		Records: make([]dto.AttendanceRecord, 0, len(records)),
		Summary: dto.HistorySummary{OnTime: sum.OnTime, Late: sum.Late, Absent: sum.Absent},
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toAttendanceRecord(rec, names[rec.Key()]))
	}
	return resp, nil
}

// Scan 扫码签到流程：
//  1. 校验令牌（存在且未过期）
//  2. 员工今日（按星期）须被分配到令牌对应的班次
//  3. 当前时间须在签到窗口内
//  4. 今日尚无考勤记录；按上班时间 + 宽限判定准时 / 迟到
//  5. 写入记录与消费一次性令牌在同一事务中完成
func (s *attendanceService) Scan(ctx context.Context, employeeID uint, req *dto.ScanRequest) (*dto.ScanResponse, error) {
	payload, err := s.qr.Validate(ctx, req.QRData)
	if err != nil {
		return nil, err
	}

	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	now := s.clock()
	es, err := s.repo.EmployeeSchedule.GetByEmployeeAndDay(ctx, employeeID, attendance.Weekday(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotScheduledToday
		}
		s.logger.Error("查询员工排班失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	if es.WorkScheduleID != payload.ScheduleID {
		return nil, ErrNotScheduledToday
	}

	start, err := attendance.ParseClock(payload.StartTime)
	if err != nil {
		return nil, ErrQRTokenInvalid
	}
	end, err := attendance.ParseClock(payload.EndTime)
	if err != nil {
		return nil, ErrQRTokenInvalid
	}

	existing, err := s.todayRow(ctx, employeeID, now)
	if err != nil {
		return nil, err
	}
	ledger := attendance.NewLedger()
	if existing != nil {
		ledger = attendance.NewLedger(toRecord(existing, s.loc))
	}
	if cur := ledger.Today(now); cur.CheckIn != nil {
		return nil, ErrAlreadyAttended
	} else if cur.Status == attendance.StatusAbsent {
		return nil, ErrMarkedAbsent
	}

	if !attendance.ScanWindow(now, start, end, s.cfg.ScanEarlyWindow).Contains(now) {
		return nil, ErrOutsideScanWindow
	}

	rec, err := ledger.CheckIn(now, attendance.Threshold{Start: start, Tolerance: payload.ToleranceMinutes})
	if err != nil {
		return nil, mapLedgerError(err)
	}

	scheduleID := payload.ScheduleID
	row := &model.Attendance{
		EmployeeID:     employeeID,
		WorkScheduleID: &scheduleID,
		Date:           dateOnly(now),
		CheckInTime:    rec.CheckIn,
		Status:         string(rec.Status),
	}
	// 先写入再消费令牌：写入失败不消耗令牌，令牌被他人抢先消费则回滚写入
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Attendance.Create(ctx, row); err != nil {
			return err
		}
		if s.qr.SingleUse() {
			if _, err := s.qr.Consume(ctx, req.QRData); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyAttended
		case errors.Is(err, ErrQRTokenInvalid):
			return nil, err
		}
		s.logger.Error("写入考勤记录失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("扫码签到成功",
		zap.Uint("employee_id", employeeID),
		zap.Uint("work_schedule_id", scheduleID),
		zap.String("status", row.Status),
	)

	return &dto.ScanResponse{
		AttendanceRecord: toAttendanceRecord(rec, payload.ScheduleName),
		EmployeeName:     employee.Name,
	}, nil
}

func (s *attendanceService) CheckOut(ctx context.Context, employeeID uint) (*dto.AttendanceRecord, error) {
	now := s.clock()
	row, err := s.todayRow(ctx, employeeID, now)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotCheckedIn
	}

	ledger := attendance.NewLedger(toRecord(row, s.loc))
	rec, err := ledger.CheckOut(now)
	if err != nil {
		return nil, mapLedgerError(err)
	}

	row.CheckOutTime = rec.CheckOut
	if err := s.repo.Attendance.Update(ctx, row); err != nil {
		s.logger.Error("写入签退时间失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	out := toAttendanceRecord(rec, scheduleName(row))
	return &out, nil
}

func (s *attendanceService) SweepAbsent(ctx context.Context) (int64, error) {
	now := s.clock()
	assigned, err := s.repo.EmployeeSchedule.ListByDay(ctx, attendance.Weekday(now))
	if err != nil {
		s.logger.Error("查询今日排班失败", zap.Error(err))
		return 0, err
	}

	day := dateOnly(now)
	rows := make([]model.Attendance, 0, len(assigned))
	for _, es := range assigned {
		if es.WorkSchedule == nil {
			continue
		}
		end, err := attendance.ParseClock(es.WorkSchedule.EndTime)
		if err != nil || now.Before(end.On(now)) {
			continue
		}
		scheduleID := es.WorkScheduleID
		rows = append(rows, model.Attendance{
			EmployeeID:     es.EmployeeID,
			WorkScheduleID: &scheduleID,
			Date:           day,
			Status:         string(attendance.StatusAbsent),
		})
	}

	n, err := s.repo.Attendance.CreateAbsentBatch(ctx, rows)
	if err != nil {
		s.logger.Error("写入缺勤记录失败", zap.Error(err))
		return 0, err
	}
	s.logger.Info("缺勤扫描完成",
		zap.String("date", attendance.DateKey(now)),
		zap.Int("candidates", len(rows)),
		zap.Int64("inserted", n),
	)
	return n, nil
}

// ── 内部辅助方法 ──

// todayRow 今日考勤行，不存在时返回 nil
func (s *attendanceService) todayRow(ctx context.Context, employeeID uint, now time.Time) (*model.Attendance, error) {
	row, err := s.repo.Attendance.GetByEmployeeAndDate(ctx, employeeID, dateOnly(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询今日考勤失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return row, nil
}

func scheduleName(a *model.Attendance) string {
	if a.WorkSchedule == nil {
		return ""
	}
	return a.WorkSchedule.Name
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return ErrAlreadyAttended
	case errors.Is(err, attendance.ErrMarkedAbsent):
		return ErrMarkedAbsent
	case errors.Is(err, attendance.ErrNotCheckedIn):
		return ErrNotCheckedIn
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		return ErrAlreadyCheckedOut
	}
	return err
}
