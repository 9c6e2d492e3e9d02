package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"iger-backend-go/internal/models"
	"iger-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

// ListUsers defaults to active accounts; ?active=false surfaces
// deactivated ones so they can be found and reactivated, ?active=all both.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := `SELECT u.* FROM users u WHERE 1=1`
	args := []interface{}{}
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("active"))) {
	case "false":
		query += " AND u.is_active = FALSE"
	case "all":
	default:
		query += " AND u.is_active = TRUE"
	}
	if role := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("role"))); role != "" && role != "ALL" {
		args = append(args, role)
		query += fmt.Sprintf(" AND u.role = $%d", len(args))
	}
	if gradeID := strings.TrimSpace(r.URL.Query().Get("gradeId")); gradeID != "" && gradeID != "all" {
		args = append(args, gradeID)
		query += fmt.Sprintf(" AND u.grade_id = $%d", len(args))
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		query += fmt.Sprintf(" AND (lower(u.name) LIKE $%d OR lower(u.email) LIKE $%d)", n, n)
	}
	query += " ORDER BY u.created_at DESC"
	users := []models.User{}
	if err := s.DB.Select(&users, query, args...); err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]UserDTO, 0, len(users))
	for _, user := range users {
		items = append(items, toUserDTO(user))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := services.GetUser(s.DB, chi.URLParam(r, "userId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserDTO(*user))
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (s *Server) SetUserActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if err := services.SetActive(s.DB, chi.URLParam(r, "userId"), *req.IsActive); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
