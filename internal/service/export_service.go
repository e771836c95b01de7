package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"presensi/config"
	"presensi/internal/attendance"
	"presensi/internal/dto"
	"presensi/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("No attendance records in the selected range")
	ErrExportGenerateFail = errors.New("Failed to generate Excel file")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAttendance 导出考勤记录为 Excel：明细 Sheet + 按员工汇总 Sheet
	ExportAttendance(ctx context.Context, req *dto.AttendanceListRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	loc    *time.Location
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.AttendanceConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{loc: cfg.Location(), repo: repo, logger: logger}
}

const (
	sheetRecords = "Attendance"
	sheetSummary = "Summary"
)

func (s *exportService) ExportAttendance(ctx context.Context, req *dto.AttendanceListRequest) (*bytes.Buffer, string, error) {
	// 1. 复用考勤列表的筛选逻辑
	filter := repository.AttendanceFilter{EmployeeID: req.EmployeeID, Status: req.Status}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, "", ErrInvalidDateFilter
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, "", ErrInvalidDateFilter
		}
		filter.DateTo = &to
	}

	rows, _, err := s.repo.Attendance.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", ErrExportNoRecords
	}

	// 2. 按员工聚合，用于汇总 Sheet
	type employeeAgg struct {
		nik, name, position string
		records             []attendance.Record
	}
	aggs := make(map[uint]*employeeAgg)

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetRecords)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	lateStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#C00000"},
	})

	headers := []string{"No", "Date", "NIK", "Name", "Position", "Schedule", "Check In", "Check Out", "Status"}
	widths := []float64{6, 12, 18, 26, 20, 20, 10, 10, 20}
	for i, h := range headers {
		col := colName(i + 1)
		f.SetColWidth(sheetRecords, col, col, widths[i])
		f.SetCellValue(sheetRecords, cell(col, 1), h)
	}
	f.SetCellStyle(sheetRecords, "A1", cell(colName(len(headers)), 1), headerStyle)

	for i := range rows {
		a := &rows[i]
		r := i + 2

		var nik, name, position string
		if a.Employee != nil {
			nik, name, position = a.Employee.NIK, a.Employee.Name, a.Employee.Position
		}

		values := []interface{}{
			i + 1,
			a.Date.Format("2006-01-02"),
			nik,
			name,
			position,
			scheduleName(a),
			clockIn(a.CheckInTime, s.loc),
			clockIn(a.CheckOutTime, s.loc),
			a.Status,
		}
		for c, v := range values {
			f.SetCellValue(sheetRecords, cell(colName(c+1), r), v)
		}
		if a.Status == string(attendance.StatusLate) || a.Status == string(attendance.StatusAbsent) {
			f.SetCellStyle(sheetRecords, cell("I", r), cell("I", r), lateStyle)
		}

		agg, ok := aggs[a.EmployeeID]
		if !ok {
			agg = &employeeAgg{nik: nik, name: name, position: position}
			aggs[a.EmployeeID] = agg
		}
		agg.records = append(agg.records, toRecord(a, s.loc))
	}

	// 4. 汇总 Sheet：按姓名排序
	f.NewSheet(sheetSummary)
	summaryHeaders := []string{"NIK", "Name", "Position", "On Time", "Late", "Absent", "Total"}
	for i, h := range summaryHeaders {
		col := colName(i + 1)
		f.SetColWidth(sheetSummary, col, col, 16)
		f.SetCellValue(sheetSummary, cell(col, 1), h)
	}
	f.SetCellStyle(sheetSummary, "A1", cell(colName(len(summaryHeaders)), 1), headerStyle)

	ids := make([]uint, 0, len(aggs))
	for id := range aggs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if aggs[ids[i]].name != aggs[ids[j]].name {
			return aggs[ids[i]].name < aggs[ids[j]].name
		}
		return ids[i] < ids[j]
	})

	for i, id := range ids {
		agg := aggs[id]
		sum := attendance.Summarize(agg.records)
		values := []interface{}{agg.nik, agg.name, agg.position, sum.OnTime, sum.Late, sum.Absent, len(agg.records)}
		for c, v := range values {
			f.SetCellValue(sheetSummary, cell(colName(c+1), i+2), v)
		}
	}

	// 5. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, exportFilename(req), nil
}

func exportFilename(req *dto.AttendanceListRequest) string {
	switch {
	case req.DateFrom != "" && req.DateTo != "":
		return fmt.Sprintf("attendance_%s_%s.xlsx", req.DateFrom, req.DateTo)
	case req.DateFrom != "":
		return fmt.Sprintf("attendance_from_%s.xlsx", req.DateFrom)
	case req.DateTo != "":
		return fmt.Sprintf("attendance_until_%s.xlsx", req.DateTo)
	}
	return "attendance.xlsx"
}

// colName 列号转列名（1 → A）
func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

// cell 拼接单元格坐标
func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
