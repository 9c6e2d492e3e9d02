package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"iger-backend-go/internal/models"
	"iger-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type AcademicYearResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsActive  bool   `json:"isActive"`
}

func (s *Server) ListAcademicYears(w http.ResponseWriter, r *http.Request) {
	years := []models.AcademicYear{}
	if err := s.DB.Select(&years, `SELECT * FROM academic_years ORDER BY start_date DESC`); err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]AcademicYearResponse, 0, len(years))
	for _, year := range years {
		items = append(items, AcademicYearResponse{
			ID:        year.ID,
			Name:      year.Name,
			StartDate: year.StartDate.Format("2006-01-02"),
			EndDate:   year.EndDate.Format("2006-01-02"),
			IsActive:  year.IsActive,
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

type CreateYearRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

func (s *Server) CreateAcademicYear(w http.ResponseWriter, r *http.Request) {
	var req CreateYearRequest
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
	id, err := services.CreateAcademicYear(s.DB, req.Name, start, end)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) ActivateYear(w http.ResponseWriter, r *http.Request) {
	if err := services.ActivateYear(s.DB, chi.URLParam(r, "yearId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
