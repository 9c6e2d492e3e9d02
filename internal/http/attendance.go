package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"iger-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type AttendanceEntryDTO struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName"`
	StudentEmail string    `json:"studentEmail"`
	ClassroomID  string    `json:"classroomId"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	RecordedBy   string    `json:"recordedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Server) GetAttendance(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}
	entries, err := services.GetAttendance(s.DB, chi.URLParam(r, "classroomId"), date)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]AttendanceEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, AttendanceEntryDTO{
			ID:           entry.ID,
			StudentID:    entry.StudentID,
			StudentName:  entry.StudentName,
			StudentEmail: entry.StudentEmail,
			ClassroomID:  entry.ClassroomID,
			Date:         entry.Date.Format("2006-01-02"),
			Status:       entry.Status,
			Notes:        entry.Notes,
			RecordedBy:   entry.RecordedBy,
			CreatedAt:    entry.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

type AttendanceRecordDTO struct {
	StudentID string  `json:"studentId" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=present absent late excused"`
	Notes     *string `json:"notes"`
}

type SubmitAttendanceRequest struct {
	ClassroomID string                `json:"classroomId" validate:"required"`
	Date        string                `json:"date" validate:"required"`
	Records     []AttendanceRecordDTO `json:"records" validate:"required,min=1,dive"`
}

// SubmitAttendance replaces the classroom's sheet for the given date with
// the submitted records.
func (s *Server) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	var req SubmitAttendanceRequest
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
		WriteError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}
	records := make([]services.AttendanceRecord, 0, len(req.Records))
	for _, record := range req.Records {
		records = append(records, services.AttendanceRecord{
			StudentID: record.StudentID,
			Status:    record.Status,
			Notes:     record.Notes,
		})
	}
	inserted, err := services.SubmitAttendance(s.DB, req.ClassroomID, date, records, CurrentUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}
