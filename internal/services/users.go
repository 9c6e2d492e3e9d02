package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"iger-backend-go/internal/models"
)

const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

const adultAge = 18

// NewUser is the validated registration input. Password is optional: the
// school issues passwordless accounts for some students.
type NewUser struct {
	Name          string
	Email         string
	Password      string
	Role          string
	GradeID       *string
	Phone         *string
	Address       *string
	BirthDate     *time.Time
	ParentEmail   *string
	ParentPhone   *string
	ParentConsent bool
}

// ValidateNewUser enforces the registration invariants before anything
// touches storage. A student whose birth date implies minority must arrive
// with parental consent and a parent contact.
func ValidateNewUser(nu NewUser, now time.Time) error {
	if strings.TrimSpace(nu.Name) == "" {
		return ErrValidation("Name is required")
	}
	if strings.TrimSpace(nu.Email) == "" {
		return ErrValidation("Email is required")
	}
	switch nu.Role {
	case RoleStudent, RoleTeacher, RoleAdmin:
	default:
		return ErrValidation("Unknown role")
	}
	if nu.Role == RoleStudent && nu.BirthDate != nil && IsMinor(*nu.BirthDate, now) {
		if !nu.ParentConsent {
			return ErrValidation("Parental consent is required for minors")
		}
		if nu.ParentEmail == nil || strings.TrimSpace(*nu.ParentEmail) == "" {
			return ErrValidation("Parent email is required for minors")
		}
	}
	return nil
}

func IsMinor(birthDate, now time.Time) bool {
	age := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(age, 0, 0)
	if anniversary.After(now) {
		age--
	}
	return age < adultAge
}

// Register creates a user after validating the candidate. Email uniqueness
// is checked case-insensitively and backed by a unique index, so a racing
// duplicate still fails at the insert.
func Register(db *sqlx.DB, tokens TokenService, nu NewUser) (*models.User, error) {
	if err := ValidateNewUser(nu, time.Now().UTC()); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(nu.Email))
	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, email); err != nil {
		return nil, WrapError(err, "check email")
	}
	if exists {
		return nil, ErrConflict("Email is already registered")
	}
	var hash *string
	if strings.TrimSpace(nu.Password) != "" {
		hashed, err := tokens.HashPassword(nu.Password)
		if err != nil {
			return nil, WrapError(err, "hash password")
		}
		hash = &hashed
	}
	userID := uuid.NewString()
	now := time.Now().UTC()
	avatar := fmt.Sprintf("avatar-%d", rand.Intn(6)+1)
	_, err := db.Exec(`
INSERT INTO users (id, name, email, password_hash, role, grade_id, avatar, phone, address,
                   birth_date, parent_email, parent_phone, parent_consent, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,TRUE,$14,$14)
`, userID, strings.TrimSpace(nu.Name), email, hash, nu.Role, nu.GradeID, avatar,
		nu.Phone, nu.Address, nu.BirthDate, nu.ParentEmail, nu.ParentPhone, nu.ParentConsent, now)
	if err != nil {
		return nil, WrapError(err, "insert user")
	}
	return GetUser(db, userID)
}

// Authenticate looks up an active account by email and verifies the
// credential when one is set on the record.
func Authenticate(db *sqlx.DB, tokens TokenService, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrUnauthorized("Invalid credentials")
	}
	user := models.User{}
	err := db.Get(&user, `SELECT * FROM users WHERE lower(email) = $1 AND is_active = TRUE`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, WrapError(err, "lookup user")
	}
	if user.PasswordHash != nil && !tokens.VerifyPassword(password, *user.PasswordHash) {
		return nil, ErrUnauthorized("Invalid credentials")
	}
	_, _ = db.Exec(`UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now().UTC(), user.ID)
	return &user, nil
}

func GetUser(db *sqlx.DB, userID string) (*models.User, error) {
	user := models.User{}
	err := db.Get(&user, `SELECT * FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound("User not found")
	}
	if err != nil {
		return nil, WrapError(err, "lookup user")
	}
	return &user, nil
}

// SetActive toggles visibility without deleting history; inactive users
// fail authentication but their attendance and payment rows stay valid.
func SetActive(db *sqlx.DB, userID string, active bool) error {
	result, err := db.Exec(`UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`,
		userID, active, time.Now().UTC())
	if err != nil {
		return WrapError(err, "update user")
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return ErrNotFound("User not found")
	}
	return nil
}
