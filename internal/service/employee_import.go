package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"presensi/internal/dto"
	"presensi/internal/model"
	"presensi/internal/repository"
	"presensi/internal/validation"
)

// ImportEmployeeRow 导入文件中的一行
type ImportEmployeeRow struct {
	Row      int
	NIK      string
	Name     string
	Email    string
	Position string
	Gender   string
}

const (
	maxImportRows        = 1000
	importPasswordLength = 8
)

var (
	ErrImportNoData      = errors.New("Excel file has no data rows (first row is the header)")
	ErrImportTooManyRows = fmt.Errorf("Excel file exceeds %d data rows", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel header must contain NIK, Name, Email and Position columns")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *employeeService) ParseImportFile(reader io.Reader) ([]ImportEmployeeRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["nik"] < 0 || colIndex["name"] < 0 || colIndex["email"] < 0 || colIndex["position"] < 0 {
		return nil, ErrImportBadHeader
	}

	cellAt := func(row []string, key string) string {
		idx := colIndex[key]
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ImportEmployeeRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportEmployeeRow{
			Row:      i + 1,
			NIK:      cellAt(row, "nik"),
			Name:     cellAt(row, "name"),
			Email:    cellAt(row, "email"),
			Position: cellAt(row, "position"),
			Gender:   normalizeGender(cellAt(row, "gender")),
		}

		// 跳过全空行
		if item.NIK == "" && item.Name == "" && item.Email == "" && item.Position == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"nik":      -1,
		"name":     -1,
		"email":    -1,
		"position": -1,
		"gender":   -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "nik":
			idx["nik"] = i
		case "name", "nama":
			idx["name"] = i
		case "email":
			idx["email"] = i
		case "position", "jabatan":
			idx["position"] = i
		case "gender", "jenis kelamin":
			idx["gender"] = i
		}
	}
	return idx
}

// normalizeGender 兼容 L/P 与大小写差异，未知值归为 Other
func normalizeGender(s string) string {
	switch strings.ToLower(s) {
	case "male", "m", "l", "laki-laki":
		return model.GenderMale
	case "female", "f", "p", "perempuan":
		return model.GenderFemale
	}
	return model.GenderOther
}

// ImportEmployees 两阶段导入：先逐行校验，再在事务中写入全部通过校验的行
func (s *employeeService) ImportEmployees(ctx context.Context, rows []ImportEmployeeRow) (*dto.ImportEmployeeResponse, error) {
	resp := &dto.ImportEmployeeResponse{Total: len(rows)}

	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportEmployeeError{Row: row, Reason: reason})
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	type validatedRow struct {
		row          ImportEmployeeRow
		tempPassword string
		hash         []byte
	}
	var validRows []validatedRow
	seenNIK := make(map[string]bool)
	seenEmail := make(map[string]bool)

	for _, row := range rows {
		form := validation.EmployeeForm{NIK: row.NIK, Name: row.Name, Email: row.Email, Position: row.Position}
		if errs := form.Validate(false); len(errs) > 0 {
			fail(row.Row, firstMessage(errs))
			continue
		}

		emailKey := strings.ToLower(row.Email)
		if seenNIK[row.NIK] {
			fail(row.Row, fmt.Sprintf("duplicate NIK in file: %s", row.NIK))
			continue
		}
		if seenEmail[emailKey] {
			fail(row.Row, fmt.Sprintf("duplicate email in file: %s", row.Email))
			continue
		}

		if err := s.checkUnique(ctx, row.NIK, row.Email, 0); err != nil {
			if errors.Is(err, ErrNIKExists) || errors.Is(err, ErrEmailExists) {
				fail(row.Row, err.Error())
				continue
			}
			return nil, err
		}

		tempPassword, err := generateTempPassword(importPasswordLength)
		if err != nil {
			s.logger.Error("生成初始密码失败", zap.Error(err))
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
		if err != nil {
			fail(row.Row, "password hashing failed")
			continue
		}

		seenNIK[row.NIK] = true
		seenEmail[emailKey] = true
		validRows = append(validRows, validatedRow{row: row, tempPassword: tempPassword, hash: hash})
	}

	if len(validRows) == 0 {
		return resp, nil
	}

	// 第二阶段：在事务中批量创建所有通过校验的员工
	created := make([]dto.ImportedEmployee, 0, len(validRows))
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		for _, vr := range validRows {
			employee := &model.Employee{
				NIK:          vr.row.NIK,
				Name:         vr.row.Name,
				Email:        vr.row.Email,
				Position:     vr.row.Position,
				Gender:       vr.row.Gender,
				PasswordHash: string(vr.hash),
			}
			// 任一写入失败则全部回滚
			if err := txRepo.Employee.Create(ctx, employee); err != nil {
				s.logger.Error("导入员工写入失败，事务回滚",
					zap.Int("row", vr.row.Row), zap.Error(err))
				return fmt.Errorf("row %d failed to save, import rolled back: %w", vr.row.Row, err)
			}
			created = append(created, dto.ImportedEmployee{
				NIK:          vr.row.NIK,
				Name:         vr.row.Name,
				TempPassword: vr.tempPassword,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp.Success += len(created)
	resp.Created = append(resp.Created, created...)

	s.logger.Info("员工批量导入完成",
		zap.Int("total", resp.Total), zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))
	return resp, nil
}

// firstMessage 按固定字段顺序取第一条校验错误
func firstMessage(errs map[string]string) string {
	for _, field := range []string{"nik", "name", "email", "position", "password"} {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	return "invalid row"
}

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < validation.MinPasswordLength {
		length = validation.MinPasswordLength
	}

	result := make([]byte, length)

	pick := func(charset string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return 0, err
		}
		return charset[n.Int64()], nil
	}

	var err error
	if result[0], err = pick(letters); err != nil {
		return "", err
	}
	if result[1], err = pick(digits); err != nil {
		return "", err
	}
	for i := 2; i < length; i++ {
		if result[i], err = pick(all); err != nil {
			return "", err
		}
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
