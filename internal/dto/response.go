package dto

import "strings"

// ── 分页请求 ──

// PaginationRequest 通用分页与排序参数（?page&limit&sort&order）
type PaginationRequest struct {
	Page  int    `form:"page"  binding:"omitempty,min=1"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Sort  string `form:"sort"  binding:"omitempty,max=30"`
	Order string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetLimit 获取每页数量（含默认值）
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return 20
	}
	return p.Limit
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetLimit()
}

// Desc 是否倒序；未指定时默认倒序
func (p *PaginationRequest) Desc() bool {
	return p.Order == "" || strings.EqualFold(p.Order, "desc")
}

// MessageResponse 仅含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}
