package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestIsEmail(t *testing.T) {
	valid := []string{"a@b.co", "budi.santoso@company.id", "x+y@mail.example.com"}
	invalid := []string{"", "plain", "a@b", "a b@c.d", "@b.c", "a@.c d"}

	for _, s := range valid {
		if !IsEmail(s) {
			t.Errorf("IsEmail(%q) 应为 true", s)
		}
	}
	for _, s := range invalid {
		if IsEmail(s) {
			t.Errorf("IsEmail(%q) 应为 false", s)
		}
	}
}

func TestValidPassword(t *testing.T) {
	if ValidPassword("12345") {
		t.Error("5 位密码不应通过")
	}
	if !ValidPassword("123456") {
		t.Error("6 位密码应通过")
	}
}

func TestValidTimeRange(t *testing.T) {
	if err := ValidTimeRange("08:00", "17:00"); err != nil {
		t.Errorf("正常区间不应报错: %v", err)
	}
	if err := ValidTimeRange("17:00", "17:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("相等时间期望 ErrInvalidTimeRange，实际: %v", err)
	}
	if err := ValidTimeRange("18:00", "17:00"); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("倒序时间期望 ErrInvalidTimeRange，实际: %v", err)
	}
	if err := ValidTimeRange("8am", "17:00"); err == nil {
		t.Error("格式错误应报错")
	}
}

func TestIsClock(t *testing.T) {
	if !IsClock("07:30") || IsClock("07:30:00") || IsClock("7:30") {
		t.Error("IsClock 只接受 HH:MM")
	}
}

func TestEmployeeForm_Validate(t *testing.T) {
	f := EmployeeForm{NIK: " ", Name: "Budi", Email: "budi@", Position: "", Password: "123"}
	errs := f.Validate(true)

	for _, field := range []string{"nik", "email", "position", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("期望字段 %s 报错", field)
		}
	}
	if _, ok := errs["name"]; ok {
		t.Error("name 不应报错")
	}

	ok := EmployeeForm{NIK: "3201", Name: "Budi", Email: "budi@corp.id", Position: "Staff"}
	if errs := ok.Validate(false); len(errs) != 0 {
		t.Errorf("编辑时密码可留空，实际: %v", errs)
	}
	if errs := ok.Validate(true); errs["password"] == "" {
		t.Error("新增时密码必填")
	}
}

type scheduleForm struct {
	Name      string `validate:"required"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time"   validate:"required,hhmm"`
	Email     string `validate:"omitempty,email_simple"`
}

func (f scheduleForm) TimeRange() (string, string) { return f.StartTime, f.EndTime }

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := Register(v, scheduleForm{}); err != nil {
		t.Fatalf("注册校验器失败: %v", err)
	}
	return v
}

func TestRegister_Tags(t *testing.T) {
	v := newValidator(t)

	if err := v.Struct(scheduleForm{Name: "Pagi", StartTime: "08:00", EndTime: "16:00"}); err != nil {
		t.Errorf("合法表单不应报错: %v", err)
	}

	err := v.Struct(scheduleForm{Name: "Pagi", StartTime: "8:00", EndTime: "16:00", Email: "bad"})
	if err == nil {
		t.Fatal("期望校验失败")
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) != 2 {
		t.Errorf("期望 2 个字段错误，实际: %v", err)
	}
}

func TestRegister_TimeRangeStructLevel(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(scheduleForm{Name: "Malam", StartTime: "17:00", EndTime: "08:00"})
	if err == nil {
		t.Fatal("结束早于开始应失败")
	}
	if msg := Messages(err); msg != "End time must be later than start time" {
		t.Errorf("错误信息不符: %q", msg)
	}
}

type employeeForm struct {
	NIK      string  `json:"nik"      validate:"required,notblank,max=20"`
	Position *string `json:"position" validate:"omitempty,notblank"`
}

func TestRegister_NotBlank(t *testing.T) {
	v := newValidator(t)

	if err := v.Struct(employeeForm{NIK: "1001"}); err != nil {
		t.Errorf("合法表单不应报错: %v", err)
	}

	err := v.Struct(employeeForm{NIK: "   "})
	if err == nil {
		t.Fatal("纯空白 NIK 应校验失败")
	}
	if msg := Messages(err); msg != "nik is required" {
		t.Errorf("错误信息不符: %q", msg)
	}

	blank := " \t"
	if err := v.Struct(employeeForm{NIK: "1001", Position: &blank}); err == nil {
		t.Error("PATCH 中纯空白 position 应校验失败")
	}
}

func TestMessages_NonValidationError(t *testing.T) {
	if Messages(errors.New("EOF")) != "Invalid request body" {
		t.Error("非校验错误应返回通用提示")
	}
}
