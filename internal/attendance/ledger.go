package attendance

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("not checked in yet today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrMarkedAbsent      = errors.New("already marked absent today")
)

// Record 某一天的考勤记录
type Record struct {
	Date     time.Time // 当天零点
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   Status
}

// Key 记录日期键
func (r Record) Key() string { return DateKey(r.Date) }

// NotCheckedIn 构造尚未签到的当天记录
func NotCheckedIn(now time.Time) Record {
	return Record{Date: DayStart(now), Status: StatusNotCheckedIn}
}

// Ledger 员工的考勤台账，按日期键保存记录
type Ledger struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewLedger 用已有记录初始化台账；同一天的重复记录以后者为准
func NewLedger(records ...Record) *Ledger {
	l := &Ledger{records: make(map[string]Record, len(records))}
	for _, r := range records {
		l.records[r.Key()] = r
	}
	return l
}

// Today 返回 now 当天的记录，没有则返回 Not Yet Checked In
func (l *Ledger) Today(now time.Time) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r, ok := l.records[DateKey(now)]; ok {
		return r
	}
	return NotCheckedIn(now)
}

// CheckIn 当天签到：记录时间并按阈值判定状态
func (l *Ledger) CheckIn(now time.Time, th Threshold) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := DateKey(now)
	r, ok := l.records[key]
	if !ok {
		r = NotCheckedIn(now)
	}
	switch {
	case r.CheckIn != nil:
		return r, ErrAlreadyCheckedIn
	case r.Status == StatusAbsent:
		return r, ErrMarkedAbsent
	}

	at := now
	r.CheckIn = &at
	r.Status = Classify(ClockOf(now), th)
	l.records[key] = r
	return r, nil
}

// CheckOut 当天签退：只记录时间，不改变状态
func (l *Ledger) CheckOut(now time.Time) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := DateKey(now)
	r, ok := l.records[key]
	if !ok || r.CheckIn == nil {
		return r, ErrNotCheckedIn
	}
	if r.CheckOut != nil {
		return r, ErrAlreadyCheckedOut
	}

	at := now
	r.CheckOut = &at
	l.records[key] = r
	return r, nil
}

// Records 全部记录，按日期倒序
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
