// Package attendance 考勤规则：状态判定、扫码时间窗、每日打卡台账与历史筛选。
// 本包不做任何 I/O，时间一律由调用方传入。
package attendance

import "fmt"

// Status 考勤状态，取值即接口与数据库中的字符串
type Status string

const (
	StatusOnTime       Status = "On Time"
	StatusLate         Status = "Late"
	StatusAbsent       Status = "Absent"
	StatusNotCheckedIn Status = "Not Yet Checked In"
)

// Valid 是否为已知状态
func (s Status) Valid() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusAbsent, StatusNotCheckedIn:
		return true
	}
	return false
}

// ParseStatus 解析状态字符串
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown attendance status %q", s)
	}
	return st, nil
}

// Threshold 准时判定阈值：上班时间 + 宽限分钟
type Threshold struct {
	Start     Clock
	Tolerance int
}

// DefaultThreshold 移动端默认阈值 08:00，无宽限
var DefaultThreshold = Threshold{Start: Clock{Hour: 8}}

// Classify 按分钟粒度判定签到状态
// 签到分钟数 <= 上班分钟数 + 宽限 为准时，否则迟到
func Classify(checkIn Clock, th Threshold) Status {
	if checkIn.Minutes() <= th.Start.Minutes()+th.Tolerance {
		return StatusOnTime
	}
	return StatusLate
}
