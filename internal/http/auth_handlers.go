package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"iger-backend-go/internal/services"
)

type RegisterRequest struct {
	Name          string  `json:"name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password"`
	Role          string  `json:"role" validate:"required,oneof=STUDENT TEACHER ADMIN"`
	GradeID       *string `json:"gradeId"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	BirthDate     *string `json:"birthDate"`
	ParentEmail   *string `json:"parentEmail"`
	ParentPhone   *string `json:"parentPhone"`
	ParentConsent bool    `json:"parentConsent"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresAt    int64   `json:"expiresAt"`
	User         UserDTO `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	// A malformed birth date must fail loudly: dropping it silently would
	// let a minor student register without the consent check firing.
	birthDate, err := parseDatePtr(req.BirthDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
		return
	}
	newUser := services.NewUser{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Role:          strings.ToUpper(req.Role),
		GradeID:       req.GradeID,
		Phone:         req.Phone,
		Address:       req.Address,
		BirthDate:     birthDate,
		ParentEmail:   req.ParentEmail,
		ParentPhone:   req.ParentPhone,
		ParentConsent: req.ParentConsent,
	}
	user, err := services.Register(s.DB, s.Tokens, newUser)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toUserDTO(*user))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	user, err := services.Authenticate(s.DB, s.Tokens, req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Email, user.Role, user.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         toUserDTO(*user),
	})
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Authentication failed")
		return
	}
	token, claims, err := s.Tokens.ParseToken(req.RefreshToken)
	if err != nil || !token.Valid || claims["typ"] != "refresh" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	userID, _ := claims["sub"].(string)
	user, err := services.GetUser(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if !user.IsActive {
		WriteError(w, http.StatusForbidden, "Authentication failed")
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Email, user.Role, user.Name)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         toUserDTO(*user),
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseDatePtr(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
