package attendance

import (
	"testing"
	"time"
)

func recordsOn(days ...string) []Record {
	out := make([]Record, 0, len(days))
	for _, d := range days {
		out = append(out, Record{Date: at(d, "00:00"), Status: StatusOnTime})
	}
	return out
}

func TestFilter_WeekBoundary(t *testing.T) {
	now := at("2026-03-10", "15:30")
	recs := recordsOn("2026-03-10", "2026-03-04", "2026-03-03", "2026-03-02")

	got := Filter(recs, RangeWeek, now)
	if len(got) != 2 {
		t.Fatalf("周筛选期望 2 条，实际 %d", len(got))
	}
	if got[1].Key() != "2026-03-04" {
		t.Errorf("6 天前应包含，实际最后一条 %s", got[1].Key())
	}
	for _, r := range got {
		if r.Key() == "2026-03-03" {
			t.Error("恰好 7 天前的记录不应包含")
		}
	}
}

func TestFilter_MonthBoundary(t *testing.T) {
	now := at("2026-03-31", "09:00")
	recs := recordsOn("2026-03-02", "2026-03-01", "2026-03-20")

	got := Filter(recs, RangeMonth, now)
	if len(got) != 2 {
		t.Fatalf("月筛选期望 2 条，实际 %d", len(got))
	}
	for _, r := range got {
		if r.Key() == "2026-03-01" {
			t.Error("30 天前的记录不应包含")
		}
	}
}

func TestFilter_UTCDateInLocalZone(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, loc)
	// 数据库 DATE 列读出为 UTC 零点
	recs := []Record{{Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), Status: StatusLate}}

	if got := Filter(recs, RangeWeek, now); len(got) != 1 {
		t.Errorf("日期应按日历日比较，实际 %d 条", len(got))
	}
}

func TestFilter_WeekKeepsSevenDays(t *testing.T) {
	now := at("2026-10-19", "10:00")
	recs := recordsOn("2026-10-19", "2026-10-18", "2026-10-17", "2026-10-16", "2026-10-15",
		"2026-10-14", "2026-10-13", "2026-10-12", "2026-10-11")

	got := Filter(recs, RangeWeek, now)
	if len(got) != 7 {
		t.Fatalf("周筛选期望 7 个日历日，实际 %d", len(got))
	}
	if got[len(got)-1].Key() != "2026-10-13" {
		t.Errorf("最早一天应为 2026-10-13，实际 %s", got[len(got)-1].Key())
	}
}

func TestParseRange(t *testing.T) {
	if r, _ := ParseRange(""); r != RangeWeek {
		t.Errorf("空串应默认 week，实际 %q", r)
	}
	if r, _ := ParseRange("month"); r != RangeMonth {
		t.Errorf("期望 month，实际 %q", r)
	}
	if _, err := ParseRange("year"); err == nil {
		t.Error("未知范围应报错")
	}
}

func TestSummarize(t *testing.T) {
	recs := []Record{
		{Status: StatusOnTime}, {Status: StatusOnTime}, {Status: StatusLate},
		{Status: StatusAbsent}, {Status: StatusNotCheckedIn},
	}
	s := Summarize(recs)
	if s.OnTime != 2 || s.Late != 1 || s.Absent != 1 {
		t.Errorf("统计错误: %+v", s)
	}
}
