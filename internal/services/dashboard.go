package services

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jmoiron/sqlx"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// DashboardSample is one snapshot of the numbers the admin dashboard shows:
// school activity counters plus process/system health.
type DashboardSample struct {
	CapturedAt       time.Time `json:"capturedAt"`
	ActiveStudents   int       `json:"activeStudents"`
	ActiveTeachers   int       `json:"activeTeachers"`
	ClassroomCount   int       `json:"classroomCount"`
	AttendanceToday  int       `json:"attendanceToday"`
	PendingPayments  int       `json:"pendingPayments"`
	PendingAmount    float64   `json:"pendingAmount"`
	SystemMemoryUsed int64     `json:"systemMemoryUsedBytes"`
	ProcessRSSBytes  int64     `json:"processRssBytes"`
	DiskUsedBytes    int64     `json:"diskUsedBytes"`
	SystemCpuLoad    float64   `json:"systemCpuLoad"`
}

// CaptureDashboard gathers a sample and persists it.
func CaptureDashboard(db *sqlx.DB, diskPath string) (DashboardSample, error) {
	sample := DashboardSample{CapturedAt: time.Now().UTC()}
	counters := struct {
		Students      int     `db:"students"`
		Teachers      int     `db:"teachers"`
		Classrooms    int     `db:"classrooms"`
		Attendance    int     `db:"attendance"`
		PendingCount  int     `db:"pending_count"`
		PendingAmount float64 `db:"pending_amount"`
	}{}
	err := db.Get(&counters, `
SELECT
  (SELECT count(*) FROM users WHERE role = 'STUDENT' AND is_active) AS students,
  (SELECT count(*) FROM users WHERE role = 'TEACHER' AND is_active) AS teachers,
  (SELECT count(*) FROM classrooms) AS classrooms,
  (SELECT count(*) FROM attendance WHERE date = CURRENT_DATE) AS attendance,
  (SELECT count(*) FROM payments WHERE status = 'pending') AS pending_count,
  (SELECT coalesce(sum(amount), 0) FROM payments WHERE status = 'pending') AS pending_amount
`)
	if err != nil {
		return DashboardSample{}, WrapError(err, "dashboard counters")
	}
	sample.ActiveStudents = counters.Students
	sample.ActiveTeachers = counters.Teachers
	sample.ClassroomCount = counters.Classrooms
	sample.AttendanceToday = counters.Attendance
	sample.PendingPayments = counters.PendingCount
	sample.PendingAmount = counters.PendingAmount

	if memStat, err := mem.VirtualMemory(); err == nil {
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			sample.ProcessRSSBytes = int64(info.RSS)
		}
	}
	if diskStat, err := disk.Usage(diskPath); err == nil {
		sample.DiskUsedBytes = int64(diskStat.Used)
	}
	if loads, err := cpu.Percent(0, false); err == nil && len(loads) > 0 {
		sample.SystemCpuLoad = loads[0] / 100.0
	}

	_, err = db.Exec(`
INSERT INTO dashboard_samples (
  id, captured_at, active_students, active_teachers, classroom_count, attendance_today,
  pending_payments, pending_amount, system_memory_used_bytes, process_rss_bytes,
  disk_used_bytes, system_cpu_load
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`, uuid.NewString(), sample.CapturedAt, sample.ActiveStudents, sample.ActiveTeachers,
		sample.ClassroomCount, sample.AttendanceToday, sample.PendingPayments, sample.PendingAmount,
		sample.SystemMemoryUsed, sample.ProcessRSSBytes, sample.DiskUsedBytes, sample.SystemCpuLoad)
	if err != nil {
		return DashboardSample{}, WrapError(err, "insert dashboard sample")
	}
	return sample, nil
}

// LatestDashboard returns up to limit samples, oldest first.
func LatestDashboard(db *sqlx.DB, limit int) ([]DashboardSample, error) {
	type row struct {
		CapturedAt       time.Time `db:"captured_at"`
		ActiveStudents   int       `db:"active_students"`
		ActiveTeachers   int       `db:"active_teachers"`
		ClassroomCount   int       `db:"classroom_count"`
		AttendanceToday  int       `db:"attendance_today"`
		PendingPayments  int       `db:"pending_payments"`
		PendingAmount    float64   `db:"pending_amount"`
		SystemMemoryUsed int64     `db:"system_memory_used_bytes"`
		ProcessRSSBytes  int64     `db:"process_rss_bytes"`
		DiskUsedBytes    int64     `db:"disk_used_bytes"`
		SystemCpuLoad    float64   `db:"system_cpu_load"`
	}
	rows := []row{}
	if err := db.Select(&rows, `
SELECT captured_at, active_students, active_teachers, classroom_count, attendance_today,
       pending_payments, pending_amount, system_memory_used_bytes, process_rss_bytes,
       disk_used_bytes, system_cpu_load
FROM dashboard_samples
ORDER BY captured_at DESC
LIMIT $1
`, limit); err != nil {
		return nil, WrapError(err, "load dashboard samples")
	}
	items := make([]DashboardSample, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		items = append(items, DashboardSample{
			CapturedAt:       rows[i].CapturedAt,
			ActiveStudents:   rows[i].ActiveStudents,
			ActiveTeachers:   rows[i].ActiveTeachers,
			ClassroomCount:   rows[i].ClassroomCount,
			AttendanceToday:  rows[i].AttendanceToday,
			PendingPayments:  rows[i].PendingPayments,
			PendingAmount:    rows[i].PendingAmount,
			SystemMemoryUsed: rows[i].SystemMemoryUsed,
			ProcessRSSBytes:  rows[i].ProcessRSSBytes,
			DiskUsedBytes:    rows[i].DiskUsedBytes,
			SystemCpuLoad:    rows[i].SystemCpuLoad,
		})
	}
	return items, nil
}

// DashboardHub fans fresh samples out to connected admin sockets.
type DashboardHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan DashboardSample
}

func NewDashboardHub() *DashboardHub {
	return &DashboardHub{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan DashboardSample, 16),
	}
}

func (h *DashboardHub) Run(ctx context.Context) {
	for {
		select {
		case sample := <-h.ch:
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.WriteJSON(sample)
			}
			h.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func (h *DashboardHub) Broadcast(sample DashboardSample) {
	select {
	case h.ch <- sample:
	default:
	}
}

func (h *DashboardHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *DashboardHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}
