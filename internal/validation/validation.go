// Package validation 表单校验规则，供 gin 请求绑定与命令行客户端共用
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"presensi/internal/attendance"
)

// MinPasswordLength 密码最短长度
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidTimeRange = errors.New("End time must be later than start time")
)

// IsEmail 宽松邮箱格式：x@y.z，不含空白
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsClock 是否为合法 HH:MM
func IsClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := attendance.ParseClock(s)
	return err == nil
}

// ValidPassword 密码长度校验
func ValidPassword(s string) bool {
	return len(s) >= MinPasswordLength
}

// ValidTimeRange 结束时间必须严格晚于开始时间
func ValidTimeRange(start, end string) error {
	s, err := attendance.ParseClock(start)
	if err != nil {
		return err
	}
	e, err := attendance.ParseClock(end)
	if err != nil {
		return err
	}
	if !s.Before(e) {
		return ErrInvalidTimeRange
	}
	return nil
}

// EmployeeForm 员工表单字段（新增时 password 必填）
type EmployeeForm struct {
	NIK      string
	Name     string
	Email    string
	Position string
	Password string
}

// Validate 返回字段名到错误信息的映射，为空表示通过
// requirePassword 为 false 时（编辑）密码可留空
func (f EmployeeForm) Validate(requirePassword bool) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.NIK) == "" {
		errs["nik"] = "NIK is required"
	}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(f.Position) == "" {
		errs["position"] = "Position is required"
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "Email is required"
	case !IsEmail(f.Email):
		errs["email"] = "Invalid email format"
	}
	switch {
	case f.Password == "" && requirePassword:
		errs["password"] = "Password is required"
	case f.Password != "" && !ValidPassword(f.Password):
		errs["password"] = ErrPasswordTooShort.Error()
	}
	return errs
}

// ── validator/v10 自定义 tag ──

const (
	TagEmail    = "email_simple"
	TagClock    = "hhmm"
	TagNotBlank = "notblank"
)

// TimeRanger 带起止时间的请求结构，注册为 struct 级校验
type TimeRanger interface {
	TimeRange() (start, end string)
}

// Register 在 validator 实例上注册自定义 tag 与结构体级规则
func Register(v *validator.Validate, rangeTypes ...interface{}) error {
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(TagEmail, func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation(TagClock, func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation(TagNotBlank, validators.NotBlank); err != nil {
		return err
	}
	if len(rangeTypes) > 0 {
		v.RegisterStructValidation(timeRangeLevel, rangeTypes...)
	}
	return nil
}

// jsonFieldName 错误信息中使用 json 字段名
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func timeRangeLevel(sl validator.StructLevel) {
	tr, ok := sl.Current().Interface().(TimeRanger)
	if !ok {
		return
	}
	start, end := tr.TimeRange()
	if start == "" || end == "" {
		return
	}
	if errors.Is(ValidTimeRange(start, end), ErrInvalidTimeRange) {
		sl.ReportError(end, "end_time", "EndTime", "after_start", "")
	}
}

// RegisterGin 注册到 gin 默认绑定引擎
func RegisterGin(rangeTypes ...interface{}) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not validator/v10")
	}
	return Register(v, rangeTypes...)
}

// Messages 把校验错误转换为面向用户的一句话
func Messages(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "Invalid request body"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", TagNotBlank:
		return field + " is required"
	case TagEmail:
		return "Invalid email format"
	case TagClock:
		return field + " must be in HH:MM format"
	case "after_start":
		return ErrInvalidTimeRange.Error()
	case "min":
		if field == "password" {
			return ErrPasswordTooShort.Error()
		}
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	}
	return field + " is invalid"
}
