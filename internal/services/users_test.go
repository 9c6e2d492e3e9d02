package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func datePtr(t time.Time) *time.Time { return &t }

func TestValidateNewUserMinorNeedsConsent(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tenYearsOld := time.Date(2016, 1, 15, 0, 0, 0, 0, time.UTC)

	base := NewUser{
		Name:      "Luis Pérez",
		Email:     "luis@iger.edu",
		Role:      RoleStudent,
		BirthDate: datePtr(tenYearsOld),
	}

	err := ValidateNewUser(base, now)
	assert.ErrorContains(t, err, "Parental consent")

	withConsent := base
	withConsent.ParentConsent = true
	err = ValidateNewUser(withConsent, now)
	assert.ErrorContains(t, err, "Parent email")

	complete := withConsent
	complete.ParentEmail = strPtr("madre@example.com")
	assert.NoError(t, ValidateNewUser(complete, now))
}

func TestValidateNewUserAdultStudentNeedsNoConsent(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	adult := NewUser{
		Name:      "María",
		Email:     "maria@iger.edu",
		Role:      RoleStudent,
		BirthDate: datePtr(time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC)),
	}
	assert.NoError(t, ValidateNewUser(adult, now))
}

func TestValidateNewUserConsentOnlyAppliesToStudents(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// A teacher's birth date never triggers the consent rule.
	teacher := NewUser{
		Name:      "Joven Profesor",
		Email:     "jp@iger.edu",
		Role:      RoleTeacher,
		BirthDate: datePtr(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	assert.NoError(t, ValidateNewUser(teacher, now))
}

func TestValidateNewUserRejectsBadInput(t *testing.T) {
	now := time.Now().UTC()

	assert.Error(t, ValidateNewUser(NewUser{Name: "", Email: "a@b.c", Role: RoleAdmin}, now))
	assert.Error(t, ValidateNewUser(NewUser{Name: "A", Email: "  ", Role: RoleAdmin}, now))
	assert.Error(t, ValidateNewUser(NewUser{Name: "A", Email: "a@b.c", Role: "PRINCIPAL"}, now))
}

func TestIsMinorBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	// 18th birthday today: adult.
	assert.False(t, IsMinor(time.Date(2008, 8, 30, 0, 0, 0, 0, time.UTC), now))
	// 18th birthday tomorrow: still a minor.
	assert.True(t, IsMinor(time.Date(2008, 8, 31, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, IsMinor(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsMinor(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), now))
}
