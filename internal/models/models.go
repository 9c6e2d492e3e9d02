package models

import "time"

type User struct {
	ID            string     `db:"id"`
	Name          string     `db:"name"`
	Email         string     `db:"email"`
	PasswordHash  *string    `db:"password_hash"`
	Role          string     `db:"role"`
	GradeID       *string    `db:"grade_id"`
	ClassroomID   *string    `db:"classroom_id"`
	Avatar        string     `db:"avatar"`
	Phone         *string    `db:"phone"`
	Address       *string    `db:"address"`
	BirthDate     *time.Time `db:"birth_date"`
	ParentEmail   *string    `db:"parent_email"`
	ParentPhone   *string    `db:"parent_phone"`
	ParentConsent bool       `db:"parent_consent"`
	IsActive      bool       `db:"is_active"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	LastLoginAt   *time.Time `db:"last_login_at"`
}

type Grade struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Level       int       `db:"level"`
	Description string    `db:"description"`
	MaxStudents int       `db:"max_students"`
	CreatedAt   time.Time `db:"created_at"`
}

type Classroom struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	TeacherID      *string   `db:"teacher_id"`
	GradeID        *string   `db:"grade_id"`
	AcademicYearID *string   `db:"academic_year_id"`
	Capacity       int       `db:"capacity"`
	CreatedAt      time.Time `db:"created_at"`
}

// ScheduleItem times are stored as "HH:MM" strings, matching the wire format.
type ScheduleItem struct {
	ID          string `db:"id"`
	ClassroomID string `db:"classroom_id"`
	DayOfWeek   string `db:"day_of_week"`
	StartTime   string `db:"start_time"`
	EndTime     string `db:"end_time"`
	Subject     string `db:"subject"`
}

type AcademicYear struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

type Attendance struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	ClassroomID string    `db:"classroom_id"`
	Date        time.Time `db:"date"`
	Status      string    `db:"status"`
	Notes       *string   `db:"notes"`
	RecordedBy  string    `db:"recorded_by"`
	CreatedAt   time.Time `db:"created_at"`
}

type Payment struct {
	ID            string     `db:"id"`
	StudentID     string     `db:"student_id"`
	Amount        float64    `db:"amount"`
	Currency      string     `db:"currency"`
	Description   string     `db:"description"`
	PaymentMethod string     `db:"payment_method"`
	Status        string     `db:"status"`
	DueDate       time.Time  `db:"due_date"`
	PaidDate      *time.Time `db:"paid_date"`
	ReceiptNumber *string    `db:"receipt_number"`
	CreatedAt     time.Time  `db:"created_at"`
}

type CalendarEvent struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Date        time.Time `db:"date"`
	StartTime   *string   `db:"start_time"`
	EndTime     *string   `db:"end_time"`
	Type        string    `db:"type"`
	ClassroomID *string   `db:"classroom_id"`
	Color       string    `db:"color"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}

// Report rows only carry ids of the entities they were generated from; the
// rendered content is the authoritative copy and must survive their deletion.
type Report struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Type        string    `db:"type"`
	StudentID   *string   `db:"student_id"`
	ClassroomID *string   `db:"classroom_id"`
	GradeID     *string   `db:"grade_id"`
	Content     string    `db:"content"`
	GeneratedBy string    `db:"generated_by"`
	CreatedAt   time.Time `db:"created_at"`
}
