package services

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// AttendanceRecord is one student's mark inside a submission.
type AttendanceRecord struct {
	StudentID string
	Status    string
	Notes     *string
}

// AttendanceEntry is a stored row joined with the student it belongs to.
type AttendanceEntry struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"studentId"`
	StudentName  string    `db:"student_name" json:"studentName"`
	StudentEmail string    `db:"student_email" json:"studentEmail"`
	ClassroomID  string    `db:"classroom_id" json:"classroomId"`
	Date         time.Time `db:"date" json:"-"`
	Status       string    `db:"status" json:"status"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	RecordedBy   string    `db:"recorded_by" json:"recordedBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

func validStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// SubmitAttendance replaces the whole attendance sheet for a classroom and
// date. The delete and the inserts run in one transaction: either the new
// sheet lands completely or the previous one stays untouched. Records for
// students outside the current roster are rejected; submitting a subset of
// the roster is allowed and drops the missing students' prior marks, which
// is the documented full-replace semantics.
func SubmitAttendance(db *sqlx.DB, classroomID string, date time.Time, records []AttendanceRecord, recordedBy string) (int, error) {
	if len(records) == 0 {
		return 0, ErrValidation("At least one attendance record is required")
	}
	roster, err := Roster(db, classroomID)
	if err != nil {
		return 0, err
	}
	enrolled := make(map[string]bool, len(roster))
	for _, student := range roster {
		enrolled[student.ID] = true
	}
	seen := map[string]bool{}
	for _, record := range records {
		if !validStatus(record.Status) {
			return 0, ErrValidation("Unknown attendance status " + record.Status)
		}
		if !enrolled[record.StudentID] {
			return 0, ErrValidation("Student " + record.StudentID + " is not on the classroom roster")
		}
		if seen[record.StudentID] {
			return 0, ErrValidation("Duplicate record for student " + record.StudentID)
		}
		seen[record.StudentID] = true
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, WrapError(err, "begin attendance")
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM attendance WHERE classroom_id = $1 AND date = $2`, classroomID, date); err != nil {
		return 0, WrapError(err, "clear attendance")
	}
	now := time.Now().UTC()
	for _, record := range records {
		_, err := tx.Exec(`
INSERT INTO attendance (id, student_id, classroom_id, date, status, notes, recorded_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, uuid.NewString(), record.StudentID, classroomID, date, record.Status, record.Notes, recordedBy, now)
		if err != nil {
			return 0, WrapError(err, "insert attendance")
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, WrapError(err, "commit attendance")
	}
	return len(records), nil
}

// GetAttendance returns the stored sheet for a classroom and date, ordered
// by student name. An empty slice means no submission yet; that is not an
// error.
func GetAttendance(db *sqlx.DB, classroomID string, date time.Time) ([]AttendanceEntry, error) {
	entries := []AttendanceEntry{}
	err := db.Select(&entries, `
SELECT a.id, a.student_id, u.name AS student_name, u.email AS student_email,
       a.classroom_id, a.date, a.status, a.notes, a.recorded_by, a.created_at
FROM attendance a
JOIN users u ON u.id = a.student_id
WHERE a.classroom_id = $1 AND a.date = $2
ORDER BY u.name
`, classroomID, date)
	if err != nil {
		return nil, WrapError(err, "load attendance")
	}
	return entries, nil
}

type AttendanceSummary struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Absent     int `json:"absent"`
	Late       int `json:"late"`
	Excused    int `json:"excused"`
	Percentage int `json:"percentage"`
}

// Summarize counts records per status and derives the rounded presence
// percentage. An empty input yields 0%, not a division by zero.
func Summarize(statuses []string) AttendanceSummary {
	summary := AttendanceSummary{Total: len(statuses)}
	for _, status := range statuses {
		switch status {
		case StatusPresent:
			summary.Present++
		case StatusAbsent:
			summary.Absent++
		case StatusLate:
			summary.Late++
		case StatusExcused:
			summary.Excused++
		}
	}
	if summary.Total > 0 {
		summary.Percentage = int(math.Round(float64(summary.Present) / float64(summary.Total) * 100))
	}
	return summary
}
