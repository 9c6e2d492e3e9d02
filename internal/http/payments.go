package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"iger-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type PaymentDTO struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName,omitempty"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	DueDate       string    `json:"dueDate"`
	PaidDate      *string   `json:"paidDate,omitempty"`
	ReceiptNumber *string   `json:"receiptNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PaymentListResponse struct {
	Items []PaymentDTO          `json:"items"`
	Stats services.PaymentStats `json:"stats"`
}

func (s *Server) ListPayments(w http.ResponseWriter, r *http.Request) {
	filters := services.PaymentFilters{
		Status: r.URL.Query().Get("status"),
		Method: r.URL.Query().Get("method"),
		Search: r.URL.Query().Get("search"),
	}
	entries, err := services.ListPayments(s.DB, filters)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	items := make([]PaymentDTO, 0, len(entries))
	for _, entry := range entries {
		var paidDate *string
		if entry.PaidDate != nil {
			formatted := entry.PaidDate.Format("2006-01-02")
			paidDate = &formatted
		}
		items = append(items, PaymentDTO{
			ID:            entry.ID,
			StudentID:     entry.StudentID,
			StudentName:   entry.StudentName,
			Amount:        entry.Amount,
			Currency:      entry.Currency,
			Description:   entry.Description,
			PaymentMethod: entry.PaymentMethod,
			Status:        entry.Status,
			DueDate:       entry.DueDate.Format("2006-01-02"),
			PaidDate:      paidDate,
			ReceiptNumber: entry.ReceiptNumber,
			CreatedAt:     entry.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, PaymentListResponse{
		Items: items,
		Stats: services.ComputeStats(entries),
	})
}

type CreatePaymentRequest struct {
	StudentID     string  `json:"studentId" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=cash transfer card"`
	DueDate       string  `json:"dueDate" validate:"required"`
}

func (s *Server) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "dueDate must be YYYY-MM-DD")
		return
	}
	id, err := services.CreatePayment(s.DB, services.NewPayment{
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		DueDate:       dueDate,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

func (s *Server) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	payment, err := services.TransitionPayment(s.DB, chi.URLParam(r, "paymentId"), req.Status)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	var paidDate *string
	if payment.PaidDate != nil {
		formatted := payment.PaidDate.Format("2006-01-02")
		paidDate = &formatted
	}
	WriteJSON(w, http.StatusOK, PaymentDTO{
		ID:            payment.ID,
		StudentID:     payment.StudentID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Description:   payment.Description,
		PaymentMethod: payment.PaymentMethod,
		Status:        payment.Status,
		DueDate:       payment.DueDate.Format("2006-01-02"),
		PaidDate:      paidDate,
		ReceiptNumber: payment.ReceiptNumber,
		CreatedAt:     payment.CreatedAt,
	})
}
