package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"presensi/internal/dto"
	"presensi/internal/service"
	"presensi/internal/validation"
	"presensi/pkg/response"
)

// maxImportFileSize 导入文件大小上限
const maxImportFileSize = 5 << 20

// EmployeeHandler 员工与员工排班 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
	scheduleSvc service.EmployeeScheduleService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService, scheduleSvc service.EmployeeScheduleService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc, scheduleSvc: scheduleSvc}
}

// List 员工列表
// GET /api/admin/employees?page&limit&sort&order
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// Search 按姓名 / NIK / 邮箱 / 职位搜索
// GET /api/admin/employees/search?q=
func (h *EmployeeHandler) Search(c *gin.Context) {
	result, err := h.employeeSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// Get 员工详情（含每周排班）
// GET /api/admin/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.employeeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// Create 新增员工
// POST /api/admin/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.employeeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, result)
}

// Update 全量更新员工
// PUT /api/admin/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.employeeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// Patch 部分更新员工
// PATCH /api/admin/employees/:id
func (h *EmployeeHandler) Patch(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PatchEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.employeeSvc.Patch(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除员工
// DELETE /api/admin/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.employeeSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OKMessage(c, "Employee deleted", nil)
}

// Import 通过 Excel 批量导入员工
// POST /api/admin/employees/import (multipart: file)
func (h *EmployeeHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		response.BadRequest(c, "Only .xlsx files are supported")
		return
	}
	if fh.Size > maxImportFileSize {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "Import file must not exceed 5MB")
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	rows, err := h.employeeSvc.ParseImportFile(file)
	if err != nil {
		msg := "Unable to parse Excel file"
		if isImportFormatError(err) {
			msg = err.Error()
		}
		response.Error(c, http.StatusBadRequest, 12005, msg)
		return
	}

	result, err := h.employeeSvc.ImportEmployees(c.Request.Context(), rows)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// ── 员工排班 ──

// AvailableSchedules 员工尚未排班的星期与全部班次
// GET /api/admin/employees/available-schedules/:id
func (h *EmployeeHandler) AvailableSchedules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Available(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// Schedules 员工每周排班
// GET /api/admin/employees/:id/schedules
func (h *EmployeeHandler) Schedules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Weekly(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, gin.H{"schedules": result})
}

// AssignSchedule 为员工分配某天的班次
// POST /api/admin/employees/:id/schedules
func (h *EmployeeHandler) AssignSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.scheduleSvc.Assign(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateSchedule 修改员工排班
// PUT /api/admin/employees/:id/schedules/:scheduleId
func (h *EmployeeHandler) UpdateSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	scheduleID, ok := parseIDParam(c, "scheduleId")
	if !ok {
		return
	}

	var req dto.AssignScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validation.Messages(err))
		return
	}

	result, err := h.scheduleSvc.Update(c.Request.Context(), id, scheduleID, &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, result)
}

// RemoveSchedule 删除员工排班
// DELETE /api/admin/employees/:id/schedules/:scheduleId
func (h *EmployeeHandler) RemoveSchedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	scheduleID, ok := parseIDParam(c, "scheduleId")
	if !ok {
		return
	}

	if err := h.scheduleSvc.Remove(c.Request.Context(), id, scheduleID); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OKMessage(c, "Schedule removed", nil)
}

// MySchedule 当前员工的每周排班
// GET /api/employee/schedule
func (h *EmployeeHandler) MySchedule(c *gin.Context) {
	employeeID, ok := MustGetSubjectID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Weekly(c.Request.Context(), employeeID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, gin.H{"schedules": result})
}

func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.Error(c, http.StatusNotFound, 12001, err.Error())
	case errors.Is(err, service.ErrNIKExists):
		response.Error(c, http.StatusConflict, 12002, err.Error())
	case errors.Is(err, service.ErrEmailExists):
		response.Error(c, http.StatusConflict, 12003, err.Error())
	case errors.Is(err, service.ErrEmployeeDuplicate):
		response.Error(c, http.StatusConflict, 12009, err.Error())
	case errors.Is(err, service.ErrInvalidEmployee):
		response.Error(c, http.StatusBadRequest, 12010, err.Error())
	case errors.Is(err, service.ErrSearchQueryRequired):
		response.Error(c, http.StatusBadRequest, 12004, err.Error())
	case isImportFormatError(err):
		response.Error(c, http.StatusBadRequest, 12005, err.Error())
	case errors.Is(err, service.ErrDayNotFound):
		response.Error(c, http.StatusBadRequest, 12006, err.Error())
	case errors.Is(err, service.ErrEmployeeScheduleNotFound):
		response.Error(c, http.StatusNotFound, 12007, err.Error())
	case errors.Is(err, service.ErrDayAlreadyAssigned):
		response.Error(c, http.StatusConflict, 12008, err.Error())
	case errors.Is(err, service.ErrWorkScheduleNotFound):
		response.Error(c, http.StatusNotFound, 13001, err.Error())
	default:
		response.InternalError(c)
	}
}

func isImportFormatError(err error) bool {
	return errors.Is(err, service.ErrImportNoData) ||
		errors.Is(err, service.ErrImportTooManyRows) ||
		errors.Is(err, service.ErrImportBadHeader)
}
