package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock 一天内的时刻（时:分）
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock 解析 "HH:MM"，也接受数据库 TIME 列读出的 "HH:MM:SS"（秒被忽略）
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Clock{}, fmt.Errorf("invalid clock %q: want HH:MM", s)
	}
	for _, p := range parts {
		if len(p) != 2 {
			return Clock{}, fmt.Errorf("invalid clock %q: want HH:MM", s)
		}
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return Clock{}, fmt.Errorf("invalid second in %q", s)
		}
	}
	return Clock{Hour: h, Minute: m}, nil
}

// MustParseClock 解析失败时 panic，仅用于常量与测试
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf 取 t 在其自身时区下的时:分
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes 自零点起的分钟数
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before c 是否严格早于 o
func (c Clock) Before(o Clock) bool {
	return c.Minutes() < o.Minutes()
}

// On 把时刻落到 day 所在日期（沿用 day 的时区）
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window 扫码签到允许的时间区间，两端均包含
type Window struct {
	Open  time.Time
	Close time.Time
}

// ScanWindow 计算 day 当天的签到窗口：[上班前 early, 下班时间]
func ScanWindow(day time.Time, start, end Clock, early time.Duration) Window {
	return Window{
		Open:  start.On(day).Add(-early),
		Close: end.On(day),
	}
}

// Contains t 是否落在窗口内
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Open) && !t.After(w.Close)
}

// DayStart 取 t 所在日期的零点（t 的时区）
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateKey 日期键 YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Weekday 1=Monday 至 7=Sunday，与 daily_schedules 主键一致
func Weekday(t time.Time) uint {
	wd := t.Weekday()
	if wd == time.Sunday {
		return 7
	}
	return uint(wd)
}
