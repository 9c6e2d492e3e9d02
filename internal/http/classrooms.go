package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"iger-backend-go/internal/models"
	"iger-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type ClassroomResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TeacherID      *string   `json:"teacherId,omitempty"`
	TeacherName    *string   `json:"teacherName,omitempty"`
	GradeID        *string   `json:"gradeId,omitempty"`
	GradeName      *string   `json:"gradeName,omitempty"`
	AcademicYearID *string   `json:"academicYearId,omitempty"`
	Capacity       int       `json:"capacity"`
	StudentCount   int       `json:"studentCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *Server) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	rows := []struct {
		ID             string    `db:"id"`
		Name           string    `db:"name"`
		TeacherID      *string   `db:"teacher_id"`
		TeacherName    *string   `db:"teacher_name"`
		GradeID        *string   `db:"grade_id"`
		GradeName      *string   `db:"grade_name"`
		AcademicYearID *string   `db:"academic_year_id"`
		Capacity       int       `db:"capacity"`
		StudentCount   int       `db:"student_count"`
		CreatedAt      time.Time `db:"created_at"`
	}{}
	err := s.DB.Select(&rows, `
SELECT c.id, c.name, c.teacher_id, t.name AS teacher_name,
       c.grade_id, g.name AS grade_name, c.academic_year_id, c.capacity, c.created_at,
       count(cs.student_id) AS student_count
FROM classrooms c
LEFT JOIN users t ON t.id = c.teacher_id
LEFT JOIN grades g ON g.id = c.grade_id
LEFT JOIN classroom_students cs ON cs.classroom_id = c.id
GROUP BY c.id, t.name, g.name
ORDER BY c.created_at DESC
`)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]ClassroomResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, ClassroomResponse{
			ID:             row.ID,
			Name:           row.Name,
			TeacherID:      row.TeacherID,
			TeacherName:    row.TeacherName,
			GradeID:        row.GradeID,
			GradeName:      row.GradeName,
			AcademicYearID: row.AcademicYearID,
			Capacity:       row.Capacity,
			StudentCount:   row.StudentCount,
			CreatedAt:      row.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

type CreateClassroomRequest struct {
	Name           string  `json:"name" validate:"required"`
	TeacherID      *string `json:"teacherId"`
	GradeID        *string `json:"gradeId"`
	AcademicYearID *string `json:"academicYearId"`
	Capacity       int     `json:"capacity"`
}

func (s *Server) CreateClassroom(w http.ResponseWriter, r *http.Request) {
	var req CreateClassroomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	id, err := services.CreateClassroom(s.DB, req.Name, req.TeacherID, req.GradeID, req.AcademicYearID, req.Capacity)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) ClassroomRoster(w http.ResponseWriter, r *http.Request) {
	students, err := services.Roster(s.DB, chi.URLParam(r, "classroomId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]UserDTO, 0, len(students))
	for _, student := range students {
		items = append(items, toUserDTO(student))
	}
	WriteJSON(w, http.StatusOK, items)
}

type AssignTeacherRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
}

func (s *Server) AssignTeacher(w http.ResponseWriter, r *http.Request) {
	var req AssignTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if err := services.AssignTeacher(s.DB, chi.URLParam(r, "classroomId"), req.TeacherID); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type EnrollStudentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

func (s *Server) EnrollStudent(w http.ResponseWriter, r *http.Request) {
	var req EnrollStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if err := services.EnrollStudent(s.DB, chi.URLParam(r, "classroomId"), req.StudentID); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	err := services.RemoveStudent(s.DB, chi.URLParam(r, "classroomId"), chi.URLParam(r, "studentId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ScheduleItemDTO struct {
	DayOfWeek string `json:"day" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
}

func (s *Server) GetSchedule(w http.ResponseWriter, r *http.Request) {
	items, err := services.GetSchedule(s.DB, chi.URLParam(r, "classroomId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	dtos := make([]ScheduleItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ScheduleItemDTO{
			DayOfWeek: item.DayOfWeek,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Subject:   item.Subject,
		})
	}
	WriteJSON(w, http.StatusOK, dtos)
}

type SetScheduleRequest struct {
	Items []ScheduleItemDTO `json:"items" validate:"required,dive"`
}

func (s *Server) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req SetScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	items := make([]models.ScheduleItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.ScheduleItem{
			DayOfWeek: item.DayOfWeek,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			Subject:   item.Subject,
		})
	}
	if err := services.SetSchedule(s.DB, chi.URLParam(r, "classroomId"), items); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
