package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"iger-backend-go/internal/models"

	"github.com/google/uuid"
)

type CalendarEventDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	Type        string  `json:"type"`
	ClassroomID *string `json:"classroomId,omitempty"`
	Color       string  `json:"color"`
	CreatedBy   string  `json:"createdBy"`
}

func (s *Server) ListCalendarEvents(w http.ResponseWriter, r *http.Request) {
	query := `SELECT * FROM calendar_events WHERE 1=1`
	args := []interface{}{}
	startDate := strings.TrimSpace(r.URL.Query().Get("startDate"))
	endDate := strings.TrimSpace(r.URL.Query().Get("endDate"))
	if (startDate == "") != (endDate == "") {
		WriteError(w, http.StatusBadRequest, "startDate and endDate must be supplied together")
		return
	}
	if startDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return
		}
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
			return
		}
		args = append(args, start, end)
		query += fmt.Sprintf(" AND date BETWEEN $%d AND $%d", len(args)-1, len(args))
	}
	query += " ORDER BY date, start_time"
	events := []models.CalendarEvent{}
	if err := s.DB.Select(&events, query, args...); err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]CalendarEventDTO, 0, len(events))
	for _, event := range events {
		items = append(items, CalendarEventDTO{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Date:        event.Date.Format("2006-01-02"),
			StartTime:   event.StartTime,
			EndTime:     event.EndTime,
			Type:        event.Type,
			ClassroomID: event.ClassroomID,
			Color:       event.Color,
			CreatedBy:   event.CreatedBy,
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Date        string  `json:"date" validate:"required"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Type        string  `json:"type"`
	ClassroomID *string `json:"classroomId"`
	Color       string  `json:"color"`
}

func (s *Server) CreateCalendarEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	eventType := strings.TrimSpace(req.Type)
	if eventType == "" {
		eventType = "general"
	}
	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = "#3B82F6"
	}
	id := uuid.NewString()
	_, err = s.DB.Exec(`
INSERT INTO calendar_events (id, title, description, date, start_time, end_time, type, classroom_id, color, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`, id, req.Title, req.Description, date, req.StartTime, req.EndTime, eventType, req.ClassroomID, color,
		CurrentUserID(r), time.Now().UTC())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}
