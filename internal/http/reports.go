package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"iger-backend-go/internal/models"
	"iger-backend-go/internal/services"
)

type ReportDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	StudentID   *string   `json:"studentId,omitempty"`
	ClassroomID *string   `json:"classroomId,omitempty"`
	GradeID     *string   `json:"gradeId,omitempty"`
	Content     string    `json:"content"`
	GeneratedBy string    `json:"generatedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toReportDTO(report models.Report) ReportDTO {
	return ReportDTO{
		ID:          report.ID,
		Title:       report.Title,
		Type:        report.Type,
		StudentID:   report.StudentID,
		ClassroomID: report.ClassroomID,
		GradeID:     report.GradeID,
		Content:     report.Content,
		GeneratedBy: report.GeneratedBy,
		CreatedAt:   report.CreatedAt,
	}
}

func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	query := `SELECT * FROM reports WHERE 1=1`
	args := []interface{}{}
	for param, column := range map[string]string{
		"type":        "type",
		"studentId":   "student_id",
		"classroomId": "classroom_id",
		"gradeId":     "grade_id",
	} {
		if value := strings.TrimSpace(r.URL.Query().Get(param)); value != "" {
			args = append(args, value)
			query += fmt.Sprintf(" AND %s = $%d", column, len(args))
		}
	}
	query += " ORDER BY created_at DESC"
	reports := []models.Report{}
	if err := s.DB.Select(&reports, query, args...); err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]ReportDTO, 0, len(reports))
	for _, report := range reports {
		items = append(items, toReportDTO(report))
	}
	WriteJSON(w, http.StatusOK, items)
}

type GenerateReportRequest struct {
	Type        string  `json:"type" validate:"required,oneof=academic attendance payments conduct"`
	StartDate   string  `json:"startDate" validate:"required"`
	EndDate     string  `json:"endDate" validate:"required"`
	StudentID   *string `json:"studentId"`
	ClassroomID *string `json:"classroomId"`
	GradeID     *string `json:"gradeId"`
}

func (s *Server) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return
	}
	report, err := services.GenerateReport(s.DB, services.ReportRequest{
		Type:      req.Type,
		StartDate: start,
		EndDate:   end,
		Scope: services.ReportScope{
			StudentID:   req.StudentID,
			ClassroomID: req.ClassroomID,
			GradeID:     req.GradeID,
		},
	}, CurrentUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toReportDTO(*report))
}
