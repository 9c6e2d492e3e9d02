package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"iger-backend-go/internal/services"
)

type GradeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Level        int       `json:"level"`
	Description  string    `json:"description"`
	MaxStudents  int       `json:"maxStudents"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListGrades returns all grades with their computed active-student counts,
// ordered by level.
func (s *Server) ListGrades(w http.ResponseWriter, r *http.Request) {
	rows := []struct {
		ID           string    `db:"id"`
		Name         string    `db:"name"`
		Level        int       `db:"level"`
		Description  string    `db:"description"`
		MaxStudents  int       `db:"max_students"`
		StudentCount int       `db:"student_count"`
		CreatedAt    time.Time `db:"created_at"`
	}{}
	err := s.DB.Select(&rows, `
SELECT g.id, g.name, g.level, g.description, g.max_students, g.created_at,
       count(u.id) AS student_count
FROM grades g
LEFT JOIN users u ON u.grade_id = g.id AND u.role = 'STUDENT' AND u.is_active
GROUP BY g.id
ORDER BY g.level
`)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]GradeResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, GradeResponse{
			ID:           row.ID,
			Name:         row.Name,
			Level:        row.Level,
			Description:  row.Description,
			MaxStudents:  row.MaxStudents,
			StudentCount: row.StudentCount,
			CreatedAt:    row.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

type CreateGradeRequest struct {
	Name        string `json:"name" validate:"required"`
	Level       int    `json:"level" validate:"required"`
	Description string `json:"description"`
	MaxStudents int    `json:"maxStudents" validate:"required,gt=0"`
}

func (s *Server) CreateGrade(w http.ResponseWriter, r *http.Request) {
	var req CreateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	id, err := services.CreateGrade(s.DB, req.Name, req.Level, req.Description, req.MaxStudents)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}
