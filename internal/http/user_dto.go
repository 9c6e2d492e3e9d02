package httpapi

import (
	"time"

	"iger-backend-go/internal/models"
)

// UserDTO is the user shape returned to the frontend. The credential hash
// never leaves the server.
type UserDTO struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	GradeID       *string    `json:"gradeId,omitempty"`
	ClassroomID   *string    `json:"classroomId,omitempty"`
	Avatar        string     `json:"avatar"`
	Phone         *string    `json:"phone,omitempty"`
	Address       *string    `json:"address,omitempty"`
	BirthDate     *string    `json:"birthDate,omitempty"`
	ParentEmail   *string    `json:"parentEmail,omitempty"`
	ParentPhone   *string    `json:"parentPhone,omitempty"`
	ParentConsent bool       `json:"parentConsent"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

func toUserDTO(user models.User) UserDTO {
	var birthDate *string
	if user.BirthDate != nil {
		formatted := user.BirthDate.Format("2006-01-02")
		birthDate = &formatted
	}
	return UserDTO{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		GradeID:       user.GradeID,
		ClassroomID:   user.ClassroomID,
		Avatar:        user.Avatar,
		Phone:         user.Phone,
		Address:       user.Address,
		BirthDate:     birthDate,
		ParentEmail:   user.ParentEmail,
		ParentPhone:   user.ParentPhone,
		ParentConsent: user.ParentConsent,
		IsActive:      user.IsActive,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
		LastLoginAt:   user.LastLoginAt,
	}
}
