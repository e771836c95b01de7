package attendance

import (
	"fmt"
	"time"
)

// Range 历史记录筛选范围
type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// ParseRange 解析筛选范围，空串默认为 week
func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case "", RangeWeek:
		return RangeWeek, nil
	case RangeMonth:
		return RangeMonth, nil
	}
	return "", fmt.Errorf("unknown range %q: want week or month", s)
}

// Days 范围回溯天数
func (r Range) Days() int {
	if r == RangeMonth {
		return 30
	}
	return 7
}

// Since 范围起点：含今天在内共 Days 个日历日
func (r Range) Since(now time.Time) time.Time {
	return DayStart(now).AddDate(0, 0, -(r.Days() - 1))
}

// Filter 保留日期不早于范围起点的记录，保持原有顺序
func Filter(records []Record, r Range, now time.Time) []Record {
	since := r.Since(now)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		y, m, d := rec.Date.Date()
		if !time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Before(since) {
			out = append(out, rec)
		}
	}
	return out
}

// Summary 历史统计
type Summary struct {
	OnTime int `json:"on_time"`
	Late   int `json:"late"`
	Absent int `json:"absent"`
}

// Summarize 统计准时、迟到、缺勤次数
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusOnTime:
			s.OnTime++
		case StatusLate:
			s.Late++
		case StatusAbsent:
			s.Absent++
		}
	}
	return s
}
