package service

import (
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"presensi/internal/attendance"
	"presensi/internal/dto"
)

func setupTestExportService(t *testing.T) (ExportService, *attendanceFixture) {
	t.Helper()
	f := newAttendanceFixture(t, true)
	cfg := testConfig()
	return NewExportService(&cfg.Attendance, newMockRepository(f.db), zap.NewNop()), f
}

func TestExportAttendance_NoRecords(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, _, err := svc.ExportAttendance(context.Background(), &dto.AttendanceListRequest{})
	if !errors.Is(err, ErrExportNoRecords) {
		t.Errorf("期望 ErrExportNoRecords，实际: %v", err)
	}
}

func TestExportAttendance_Success(t *testing.T) {
	svc, f := setupTestExportService(t)
	now := f.clk.Now()
	rina := f.addEmployee("Rina", 1)
	f.addRecord(f.employee.ID, now, attendance.StatusOnTime)
	f.addRecord(f.employee.ID, now.AddDate(0, 0, -1), attendance.StatusLate)
	f.addRecord(rina.ID, now, attendance.StatusAbsent)

	buf, filename, err := svc.ExportAttendance(context.Background(), &dto.AttendanceListRequest{
		DateFrom: "2026-10-18",
		DateTo:   "2026-10-19",
	})
	if err != nil {
		t.Fatalf("ExportAttendance 应成功: %v", err)
	}
	if filename != "attendance_2026-10-18_2026-10-19.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	xf, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("输出内容不是有效的 xlsx: %v", err)
	}
	defer xf.Close()

	rows, err := xf.GetRows(sheetRecords)
	if err != nil {
		t.Fatalf("读取明细 Sheet 失败: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("期望表头 + 3 行明细，实际=%d", len(rows))
	}
	if rows[0][0] != "No" || rows[0][8] != "Status" {
		t.Errorf("表头不符: %v", rows[0])
	}
	if rows[1][1] != "2026-10-19" {
		t.Errorf("明细应按日期倒序，首行日期=%s", rows[1][1])
	}

	summary, err := xf.GetRows(sheetSummary)
	if err != nil {
		t.Fatalf("读取汇总 Sheet 失败: %v", err)
	}
	if len(summary) != 3 {
		t.Fatalf("期望表头 + 2 名员工，实际=%d", len(summary))
	}
	// 按姓名排序：Andi 在 Rina 之前
	andi := summary[1]
	if andi[1] != "Andi" || andi[3] != "1" || andi[4] != "1" || andi[6] != "2" {
		t.Errorf("Andi 汇总不符: %v", andi)
	}
	if summary[2][1] != "Rina" || summary[2][5] != "1" {
		t.Errorf("Rina 汇总不符: %v", summary[2])
	}
}

func TestExportAttendance_BadDate(t *testing.T) {
	svc, _ := setupTestExportService(t)

	_, _, err := svc.ExportAttendance(context.Background(), &dto.AttendanceListRequest{DateFrom: "19-10-2026"})
	if !errors.Is(err, ErrInvalidDateFilter) {
		t.Errorf("期望 ErrInvalidDateFilter，实际: %v", err)
	}
}

func TestExportFilename(t *testing.T) {
	cases := []struct {
		req  dto.AttendanceListRequest
		want string
	}{
		{dto.AttendanceListRequest{}, "attendance.xlsx"},
		{dto.AttendanceListRequest{DateFrom: "2026-10-01"}, "attendance_from_2026-10-01.xlsx"},
		{dto.AttendanceListRequest{DateTo: "2026-10-31"}, "attendance_until_2026-10-31.xlsx"},
	}
	for _, c := range cases {
		c := c
		if got := exportFilename(&c.req); got != c.want {
			t.Errorf("期望 %s，实际 %s", c.want, got)
		}
	}
}
