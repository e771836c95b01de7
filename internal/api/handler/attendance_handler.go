package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"presensi/internal/dto"
	"presensi/internal/service"
	"presensi/internal/validation"
	"presensi/pkg/response"
)

// AttendanceHandler 考勤 HTTP 处理器（管理端查询 + 员工端签到签退）
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// List 考勤记录列表
// GET /api/admin/attendance?date_from&date_to&employee_id&status
func (h *AttendanceHandler) List(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// Today 今日考勤
// GET /api/employee/attendance/today
func (h *AttendanceHandler) Today(c *gin.Context) {
	employeeID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.Today(c.Request.Context(), employeeID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// History 考勤历史
// GET /api/employee/attendance/history?range=week|month
func (h *AttendanceHandler) History(c *gin.Context) {
	employeeID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.History(c.Request.Context(), employeeID, c.Query("range"))
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// Scan 扫码签到
// POST /api/employee/attendance/scan
func (h *AttendanceHandler) Scan(c *gin.Context) {
	employeeID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.attendanceSvc.Scan(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKMessage(c, "Check-in successful", result)
}

// CheckOut 签退
// POST /api/employee/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	employeeID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.CheckOut(c.Request.Context(), employeeID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKMessage(c, "Check-out successful", result)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQRDataRequired):
		response.Error(c, http.StatusBadRequest, 14001, err.Error())
	case errors.Is(err, service.ErrQRTokenInvalid):
		response.Error(c, http.StatusBadRequest, 14002, err.Error())
	case errors.Is(err, service.ErrNotScheduledToday):
		response.Error(c, http.StatusForbidden, 14003, err.Error())
	case errors.Is(err, service.ErrAlreadyAttended):
		response.Error(c, http.StatusConflict, 14004, err.Error())
	case errors.Is(err, service.ErrMarkedAbsent):
		response.Error(c, http.StatusConflict, 14005, err.Error())
	case errors.Is(err, service.ErrOutsideScanWindow):
		response.Error(c, http.StatusBadRequest, 14006, err.Error())
	case errors.Is(err, service.ErrNotCheckedIn):
		response.Error(c, http.StatusBadRequest, 14007, err.Error())
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		response.Error(c, http.StatusConflict, 14008, err.Error())
	case errors.Is(err, service.ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, 14009, err.Error())
	case errors.Is(err, service.ErrInvalidDateFilter):
		response.Error(c, http.StatusBadRequest, 14010, err.Error())
	case errors.Is(err, service.ErrInvalidStatusValue):
		response.Error(c, http.StatusBadRequest, 14011, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.Error(c, http.StatusNotFound, 12001, err.Error())
	default:
		response.InternalError(c)
	}
}
