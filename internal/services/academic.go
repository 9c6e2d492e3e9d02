package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"iger-backend-go/internal/models"
)

func CreateGrade(db *sqlx.DB, name string, level int, description string, maxStudents int) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrValidation("Grade name is required")
	}
	if maxStudents <= 0 {
		return "", ErrValidation("maxStudents must be positive")
	}
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO grades (id, name, level, description, max_students, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, id, strings.TrimSpace(name), level, description, maxStudents, time.Now().UTC())
	if err != nil {
		return "", WrapError(err, "insert grade")
	}
	return id, nil
}

func CreateClassroom(db *sqlx.DB, name string, teacherID, gradeID, yearID *string, capacity int) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrValidation("Classroom name is required")
	}
	if capacity <= 0 {
		capacity = 25
	}
	if teacherID != nil {
		if err := requireRole(db, *teacherID, RoleTeacher); err != nil {
			return "", err
		}
	}
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO classrooms (id, name, teacher_id, grade_id, academic_year_id, capacity, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, id, strings.TrimSpace(name), teacherID, gradeID, yearID, capacity, time.Now().UTC())
	if err != nil {
		return "", WrapError(err, "insert classroom")
	}
	return id, nil
}

func AssignTeacher(db *sqlx.DB, classroomID, teacherID string) error {
	if err := requireRole(db, teacherID, RoleTeacher); err != nil {
		return err
	}
	result, err := db.Exec(`UPDATE classrooms SET teacher_id = $2 WHERE id = $1`, classroomID, teacherID)
	if err != nil {
		return WrapError(err, "assign teacher")
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound("Classroom not found")
	}
	return nil
}

func requireRole(db *sqlx.DB, userID, role string) error {
	var actual string
	err := db.Get(&actual, `SELECT role FROM users WHERE id = $1 AND is_active = TRUE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound("User not found")
	}
	if err != nil {
		return WrapError(err, "lookup role")
	}
	if actual != role {
		return ErrValidation("User does not hold the " + role + " role")
	}
	return nil
}

// EnrollStudent adds a student to a classroom roster. The grade capacity
// check and the insert happen under a row lock on the grade so two
// concurrent enrollments cannot both squeeze past the limit.
func EnrollStudent(db *sqlx.DB, classroomID, studentID string) error {
	if err := requireRole(db, studentID, RoleStudent); err != nil {
		return err
	}
	tx, err := db.Beginx()
	if err != nil {
		return WrapError(err, "begin enroll")
	}
	defer func() { _ = tx.Rollback() }()

	room := struct {
		GradeID     *string `db:"grade_id"`
		MaxStudents *int    `db:"max_students"`
	}{}
	err = tx.Get(&room, `
SELECT c.grade_id, g.max_students
FROM classrooms c
LEFT JOIN grades g ON g.id = c.grade_id
WHERE c.id = $1
FOR UPDATE OF c
`, classroomID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound("Classroom not found")
	}
	if err != nil {
		return WrapError(err, "lock classroom")
	}
	if room.MaxStudents != nil {
		var enrolled int
		if err := tx.Get(&enrolled, `SELECT count(*) FROM classroom_students WHERE classroom_id = $1`, classroomID); err != nil {
			return WrapError(err, "count roster")
		}
		if enrolled+1 > *room.MaxStudents {
			return ErrConflict("Grade capacity exceeded")
		}
	}
	// Re-enrolling an already enrolled student is a no-op.
	_, err = tx.Exec(`
INSERT INTO classroom_students (classroom_id, student_id, enrolled_at)
VALUES ($1,$2,$3)
ON CONFLICT (classroom_id, student_id) DO NOTHING
`, classroomID, studentID, time.Now().UTC())
	if err != nil {
		return WrapError(err, "insert enrollment")
	}
	_, err = tx.Exec(`UPDATE users SET classroom_id = $2, updated_at = $3 WHERE id = $1`,
		studentID, classroomID, time.Now().UTC())
	if err != nil {
		return WrapError(err, "update student")
	}
	return tx.Commit()
}

// RemoveStudent drops the enrollment and clears the student's classroom
// pointer in one transaction, so the user row never references a classroom
// they are no longer enrolled in.
func RemoveStudent(db *sqlx.DB, classroomID, studentID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return WrapError(err, "begin remove")
	}
	defer func() { _ = tx.Rollback() }()
	_, err = tx.Exec(`DELETE FROM classroom_students WHERE classroom_id = $1 AND student_id = $2`,
		classroomID, studentID)
	if err != nil {
		return WrapError(err, "remove enrollment")
	}
	_, err = tx.Exec(`UPDATE users SET classroom_id = NULL, updated_at = $3 WHERE id = $1 AND classroom_id = $2`,
		studentID, classroomID, time.Now().UTC())
	if err != nil {
		return WrapError(err, "clear student classroom")
	}
	return tx.Commit()
}

func Roster(db *sqlx.DB, classroomID string) ([]models.User, error) {
	students := []models.User{}
	err := db.Select(&students, `
SELECT u.* FROM users u
JOIN classroom_students cs ON cs.student_id = u.id
WHERE cs.classroom_id = $1
ORDER BY u.name
`, classroomID)
	if err != nil {
		return nil, WrapError(err, "load roster")
	}
	return students, nil
}

// ValidateSchedule rejects a schedule containing two items on the same day
// with overlapping time ranges, and malformed or inverted HH:MM ranges.
func ValidateSchedule(items []models.ScheduleItem) error {
	type span struct {
		day        string
		start, end int
	}
	spans := make([]span, 0, len(items))
	for _, item := range items {
		start, err := parseClock(item.StartTime)
		if err != nil {
			return ErrValidation("Invalid start time " + item.StartTime)
		}
		end, err := parseClock(item.EndTime)
		if err != nil {
			return ErrValidation("Invalid end time " + item.EndTime)
		}
		if start >= end {
			return ErrValidation("Schedule item must end after it starts")
		}
		day := strings.ToLower(strings.TrimSpace(item.DayOfWeek))
		for _, other := range spans {
			if other.day == day && start < other.end && other.start < end {
				return ErrValidation(fmt.Sprintf("Schedule overlap on %s between %s and %s",
					item.DayOfWeek, item.StartTime, item.EndTime))
			}
		}
		spans = append(spans, span{day: day, start: start, end: end})
	}
	return nil
}

func parseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("bad clock value %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("bad hour in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("bad minute in %q", value)
	}
	return hours*60 + minutes, nil
}

// SetSchedule replaces a classroom's weekly schedule wholesale.
func SetSchedule(db *sqlx.DB, classroomID string, items []models.ScheduleItem) error {
	if err := ValidateSchedule(items); err != nil {
		return err
	}
	tx, err := db.Beginx()
	if err != nil {
		return WrapError(err, "begin schedule")
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM schedule_items WHERE classroom_id = $1`, classroomID); err != nil {
		return WrapError(err, "clear schedule")
	}
	for _, item := range items {
		_, err := tx.Exec(`
INSERT INTO schedule_items (id, classroom_id, day_of_week, start_time, end_time, subject)
VALUES ($1,$2,$3,$4,$5,$6)
`, uuid.NewString(), classroomID, item.DayOfWeek, item.StartTime, item.EndTime, item.Subject)
		if err != nil {
			return WrapError(err, "insert schedule item")
		}
	}
	return tx.Commit()
}

func GetSchedule(db *sqlx.DB, classroomID string) ([]models.ScheduleItem, error) {
	items := []models.ScheduleItem{}
	err := db.Select(&items, `
SELECT * FROM schedule_items WHERE classroom_id = $1 ORDER BY day_of_week, start_time
`, classroomID)
	if err != nil {
		return nil, WrapError(err, "load schedule")
	}
	return items, nil
}

func CreateAcademicYear(db *sqlx.DB, name string, startDate, endDate time.Time) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrValidation("Year name is required")
	}
	if !startDate.Before(endDate) {
		return "", ErrValidation("Year must start before it ends")
	}
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO academic_years (id, name, start_date, end_date, is_active, created_at)
VALUES ($1,$2,$3,$4,FALSE,$5)
`, id, strings.TrimSpace(name), startDate, endDate, time.Now().UTC())
	if err != nil {
		return "", WrapError(err, "insert year")
	}
	return id, nil
}

// ActivateYear deactivates every other year and activates the requested one
// in a single transaction, so exactly one year is active afterwards. The
// partial unique index on is_active backs the same invariant in the schema.
func ActivateYear(db *sqlx.DB, yearID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return WrapError(err, "begin activate")
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`UPDATE academic_years SET is_active = FALSE WHERE is_active`); err != nil {
		return WrapError(err, "deactivate years")
	}
	result, err := tx.Exec(`UPDATE academic_years SET is_active = TRUE WHERE id = $1`, yearID)
	if err != nil {
		return WrapError(err, "activate year")
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound("Academic year not found")
	}
	return tx.Commit()
}
