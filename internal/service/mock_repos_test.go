package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"presensi/internal/model"
	"presensi/internal/repository"
	pkgerrors "presensi/pkg/errors"
)

// mockDB 各 mock Repository 共享的内存数据，便于模拟预加载
type mockDB struct {
	nextID      uint
	admins      map[uint]*model.Admin
	employees   map[uint]*model.Employee
	schedules   map[uint]*model.WorkSchedule
	days        map[uint]*model.DailySchedule
	assignments map[uint]*model.EmployeeSchedule
	attendances map[uint]*model.Attendance

	// createErr 按 NIK 注入员工写入错误
	createErr map[string]error
	// attendanceErr 注入考勤写入错误；onAttendanceCreate 在考勤写入时回调
	attendanceErr      error
	onAttendanceCreate func()
}

func newMockDB() *mockDB {
	db := &mockDB{
		nextID:      100,
		admins:      make(map[uint]*model.Admin),
		employees:   make(map[uint]*model.Employee),
		schedules:   make(map[uint]*model.WorkSchedule),
		days:        make(map[uint]*model.DailySchedule),
		assignments: make(map[uint]*model.EmployeeSchedule),
		attendances: make(map[uint]*model.Attendance),
	}
	for i, name := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		id := uint(i + 1)
		db.days[id] = &model.DailySchedule{ID: id, Name: name}
	}
	return db
}

func (db *mockDB) id() uint {
	db.nextID++
	return db.nextID
}

// newMockRepository 组装使用 mockDB 的 Repository 聚合
func newMockRepository(db *mockDB) *repository.Repository {
	repo := &repository.Repository{
		Admin:            &mockAdminRepo{db: db},
		Employee:         &mockEmployeeRepo{db: db},
		WorkSchedule:     &mockWorkScheduleRepo{db: db},
		DailySchedule:    &mockDailyScheduleRepo{db: db},
		EmployeeSchedule: &mockEmployeeScheduleRepo{db: db},
		Attendance:       &mockAttendanceRepo{db: db},
	}
	repo.Tx = &mockTransactor{db: db, repo: repo}
	return repo
}

// mockTransactor fn 出错时把 mockDB 恢复到事务开始前的快照
type mockTransactor struct {
	db   *mockDB
	repo *repository.Repository
}

func (m *mockTransactor) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	snap := m.db.snapshot()
	if err := fn(m.repo); err != nil {
		m.db.restore(snap)
		return err
	}
	return nil
}

func copyRows[T any](src map[uint]*T) map[uint]*T {
	out := make(map[uint]*T, len(src))
	for id, row := range src {
		cp := *row
		out[id] = &cp
	}
	return out
}

func (db *mockDB) snapshot() *mockDB {
	return &mockDB{
		nextID:      db.nextID,
		admins:      copyRows(db.admins),
		employees:   copyRows(db.employees),
		schedules:   copyRows(db.schedules),
		days:        copyRows(db.days),
		assignments: copyRows(db.assignments),
		attendances: copyRows(db.attendances),
	}
}

func (db *mockDB) restore(snap *mockDB) {
	db.nextID = snap.nextID
	db.admins = snap.admins
	db.employees = snap.employees
	db.schedules = snap.schedules
	db.days = snap.days
	db.assignments = snap.assignments
	db.attendances = snap.attendances
}

// ── Mock AdminRepository ──

type mockAdminRepo struct{ db *mockDB }

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	admin.ID = m.db.id()
	m.db.admins[admin.ID] = admin
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id uint) (*model.Admin, error) {
	if a, ok := m.db.admins[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.db.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct{ db *mockDB }

func (m *mockEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	if err := m.db.createErr[e.NIK]; err != nil {
		return err
	}
	e.ID = m.db.id()
	m.db.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id uint) (*model.Employee, error) {
	e, ok := m.db.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	cp.Schedules = nil
	for _, es := range m.db.sortedAssignments() {
		if es.EmployeeID == id {
			cp.Schedules = append(cp.Schedules, *m.db.hydrate(es))
		}
	}
	return &cp, nil
}

func (m *mockEmployeeRepo) GetByNIK(_ context.Context, nik string) (*model.Employee, error) {
	for _, e := range m.db.employees {
		if e.NIK == nik {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.db.employees {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	m.db.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.db.employees[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.db.employees, id)
	return nil
}

func (m *mockEmployeeRepo) List(_ context.Context, params repository.EmployeeListParams) ([]model.Employee, int64, error) {
	var all []model.Employee
	for _, e := range m.db.employees {
		all = append(all, *e)
	}
	sort.Slice(all, func(i, j int) bool {
		if params.Desc {
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})
	total := int64(len(all))
	if params.Offset >= len(all) {
		return []model.Employee{}, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[params.Offset:end], total, nil
}

func (m *mockEmployeeRepo) Search(_ context.Context, keyword string, limit int) ([]model.Employee, error) {
	kw := strings.ToLower(keyword)
	var out []model.Employee
	for _, e := range m.db.employees {
		if strings.Contains(strings.ToLower(e.Name+" "+e.NIK+" "+e.Email+" "+e.Position), kw) {
			out = append(out, *e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockEmployeeRepo) ExistsNIK(_ context.Context, nik string, excludeID uint) (bool, error) {
	for _, e := range m.db.employees {
		if e.NIK == nik && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) ExistsEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	for _, e := range m.db.employees {
		if strings.EqualFold(e.Email, email) && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock WorkScheduleRepository ──

type mockWorkScheduleRepo struct{ db *mockDB }

func (m *mockWorkScheduleRepo) Create(_ context.Context, ws *model.WorkSchedule) error {
	ws.ID = m.db.id()
	ws.Version = 1
	ws.CreatedAt = time.Now()
	m.db.schedules[ws.ID] = ws
	return nil
}

func (m *mockWorkScheduleRepo) GetByID(_ context.Context, id uint) (*model.WorkSchedule, error) {
	if ws, ok := m.db.schedules[id]; ok {
		cp := *ws
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkScheduleRepo) List(_ context.Context) ([]model.WorkSchedule, int64, error) {
	var out []model.WorkSchedule
	for _, ws := range m.db.schedules {
		out = append(out, *ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *mockWorkScheduleRepo) Update(_ context.Context, ws *model.WorkSchedule) error {
	cur, ok := m.db.schedules[ws.ID]
	if !ok || cur.Version != ws.Version {
		return pkgerrors.ErrOptimisticLock
	}
	ws.Version++
	cp := *ws
	m.db.schedules[ws.ID] = &cp
	return nil
}

func (m *mockWorkScheduleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.db.schedules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.db.schedules, id)
	return nil
}

func (m *mockWorkScheduleRepo) CountEmployees(_ context.Context, id uint) (int64, error) {
	seen := make(map[uint]bool)
	for _, es := range m.db.assignments {
		if es.WorkScheduleID == id {
			seen[es.EmployeeID] = true
		}
	}
	return int64(len(seen)), nil
}

// ── Mock DailyScheduleRepository ──

type mockDailyScheduleRepo struct{ db *mockDB }

func (m *mockDailyScheduleRepo) List(_ context.Context) ([]model.DailySchedule, error) {
	out := make([]model.DailySchedule, 0, 7)
	for id := uint(1); id <= 7; id++ {
		out = append(out, *m.db.days[id])
	}
	return out, nil
}

func (m *mockDailyScheduleRepo) GetByID(_ context.Context, id uint) (*model.DailySchedule, error) {
	if d, ok := m.db.days[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock EmployeeScheduleRepository ──

type mockEmployeeScheduleRepo struct{ db *mockDB }

func (db *mockDB) hydrate(es *model.EmployeeSchedule) *model.EmployeeSchedule {
	cp := *es
	cp.WorkSchedule = db.schedules[es.WorkScheduleID]
	cp.DailySchedule = db.days[es.DailyScheduleID]
	cp.Employee = db.employees[es.EmployeeID]
	return &cp
}

func (db *mockDB) sortedAssignments() []*model.EmployeeSchedule {
	out := make([]*model.EmployeeSchedule, 0, len(db.assignments))
	for _, es := range db.assignments {
		out = append(out, es)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DailyScheduleID < out[j].DailyScheduleID })
	return out
}

func (m *mockEmployeeScheduleRepo) Create(_ context.Context, es *model.EmployeeSchedule) error {
	for _, cur := range m.db.assignments {
		if cur.EmployeeID == es.EmployeeID && cur.DailyScheduleID == es.DailyScheduleID {
			return gorm.ErrDuplicatedKey
		}
	}
	es.ID = m.db.id()
	m.db.assignments[es.ID] = es
	return nil
}

func (m *mockEmployeeScheduleRepo) GetByID(_ context.Context, id uint) (*model.EmployeeSchedule, error) {
	if es, ok := m.db.assignments[id]; ok {
		return m.db.hydrate(es), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeScheduleRepo) ListByEmployee(_ context.Context, employeeID uint) ([]model.EmployeeSchedule, error) {
	var out []model.EmployeeSchedule
	for _, es := range m.db.sortedAssignments() {
		if es.EmployeeID == employeeID {
			out = append(out, *m.db.hydrate(es))
		}
	}
	return out, nil
}

func (m *mockEmployeeScheduleRepo) GetByEmployeeAndDay(_ context.Context, employeeID, dayID uint) (*model.EmployeeSchedule, error) {
	for _, es := range m.db.assignments {
		if es.EmployeeID == employeeID && es.DailyScheduleID == dayID {
			return m.db.hydrate(es), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeScheduleRepo) ListByDay(_ context.Context, dayID uint) ([]model.EmployeeSchedule, error) {
	var out []model.EmployeeSchedule
	for _, es := range m.db.assignments {
		if _, alive := m.db.employees[es.EmployeeID]; alive && es.DailyScheduleID == dayID {
			out = append(out, *m.db.hydrate(es))
		}
	}
	return out, nil
}

func (m *mockEmployeeScheduleRepo) Update(_ context.Context, es *model.EmployeeSchedule) error {
	cur, ok := m.db.assignments[es.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.WorkScheduleID = es.WorkScheduleID
	cur.DailyScheduleID = es.DailyScheduleID
	return nil
}

func (m *mockEmployeeScheduleRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.db.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.db.assignments, id)
	return nil
}

func (m *mockEmployeeScheduleRepo) DeleteByEmployee(_ context.Context, employeeID uint) error {
	for id, es := range m.db.assignments {
		if es.EmployeeID == employeeID {
			delete(m.db.assignments, id)
		}
	}
	return nil
}

func (m *mockEmployeeScheduleRepo) DeleteByWorkSchedule(_ context.Context, workScheduleID uint) error {
	for id, es := range m.db.assignments {
		if es.WorkScheduleID == workScheduleID {
			delete(m.db.assignments, id)
		}
	}
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct{ db *mockDB }

func (m *mockAttendanceRepo) hydrate(a *model.Attendance) model.Attendance {
	cp := *a
	cp.Employee = m.db.employees[a.EmployeeID]
	if a.WorkScheduleID != nil {
		cp.WorkSchedule = m.db.schedules[*a.WorkScheduleID]
	}
	return cp
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	if m.db.onAttendanceCreate != nil {
		m.db.onAttendanceCreate()
	}
	if m.db.attendanceErr != nil {
		return m.db.attendanceErr
	}
	for _, cur := range m.db.attendances {
		if cur.EmployeeID == a.EmployeeID && cur.Date.Equal(a.Date) {
			return gorm.ErrDuplicatedKey
		}
	}
	a.ID = m.db.id()
	cp := *a
	m.db.attendances[a.ID] = &cp
	return nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	cur, ok := m.db.attendances[a.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.CheckInTime = a.CheckInTime
	cur.CheckOutTime = a.CheckOutTime
	cur.Status = a.Status
	return nil
}

func (m *mockAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID uint, date time.Time) (*model.Attendance, error) {
	key := date.Format("2006-01-02")
	for _, a := range m.db.attendances {
		if a.EmployeeID == employeeID && a.Date.Format("2006-01-02") == key {
			cp := m.hydrate(a)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByEmployeeSince(_ context.Context, employeeID uint, since time.Time) ([]model.Attendance, error) {
	from := since.Format("2006-01-02")
	var out []model.Attendance
	for _, a := range m.db.attendances {
		if a.EmployeeID == employeeID && a.Date.Format("2006-01-02") >= from {
			out = append(out, m.hydrate(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *mockAttendanceRepo) List(_ context.Context, f repository.AttendanceFilter) ([]model.Attendance, int64, error) {
	var out []model.Attendance
	for _, a := range m.db.attendances {
		day := a.Date.Format("2006-01-02")
		if f.DateFrom != nil && day < f.DateFrom.Format("2006-01-02") {
			continue
		}
		if f.DateTo != nil && day > f.DateTo.Format("2006-01-02") {
			continue
		}
		if f.EmployeeID != 0 && a.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, m.hydrate(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, int64(len(out)), nil
}

func (m *mockAttendanceRepo) CreateAbsentBatch(ctx context.Context, rows []model.Attendance) (int64, error) {
	var n int64
	for i := range rows {
		if err := m.Create(ctx, &rows[i]); err == nil {
			n++
		}
	}
	return n, nil
}
