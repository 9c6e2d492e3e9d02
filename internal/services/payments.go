package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"iger-backend-go/internal/models"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentCancelled = "cancelled"

	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodCard     = "card"

	DefaultCurrency = "GTQ"
)

type NewPayment struct {
	StudentID     string
	Amount        float64
	Currency      string
	Description   string
	PaymentMethod string
	DueDate       time.Time
}

func validMethod(method string) bool {
	switch method {
	case MethodCash, MethodTransfer, MethodCard:
		return true
	}
	return false
}

// CanTransition reports whether the requested status edge is legal.
// pending is the only non-terminal state.
func CanTransition(current, next string) bool {
	if current != PaymentPending {
		return false
	}
	return next == PaymentCompleted || next == PaymentCancelled
}

// FormatReceiptNumber renders the sequential receipt number. Uniqueness
// comes from the database sequence, not from the caller's clock.
func FormatReceiptNumber(seq int64) string {
	return fmt.Sprintf("REC-%06d", seq)
}

func CreatePayment(db *sqlx.DB, np NewPayment) (string, error) {
	if np.Amount <= 0 {
		return "", ErrValidation("Amount must be positive")
	}
	if strings.TrimSpace(np.Description) == "" {
		return "", ErrValidation("Description is required")
	}
	if !validMethod(np.PaymentMethod) {
		return "", ErrValidation("Unknown payment method " + np.PaymentMethod)
	}
	if err := requireRole(db, np.StudentID, RoleStudent); err != nil {
		return "", err
	}
	currency := strings.TrimSpace(np.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO payments (id, student_id, amount, currency, description, payment_method, status, due_date, created_at)
VALUES ($1,$2,$3,$4,$5,$6,'pending',$7,$8)
`, id, np.StudentID, np.Amount, currency, np.Description, np.PaymentMethod, np.DueDate, time.Now().UTC())
	if err != nil {
		return "", WrapError(err, "insert payment")
	}
	return id, nil
}

// TransitionPayment applies pending→completed or pending→cancelled. The
// update is conditional on the row still being pending, so two concurrent
// completions cannot both succeed or mint two receipt numbers.
func TransitionPayment(db *sqlx.DB, paymentID, next string) (*models.Payment, error) {
	if next != PaymentCompleted && next != PaymentCancelled {
		return nil, ErrValidation("Unknown payment status " + next)
	}
	var result sql.Result
	var err error
	if next == PaymentCompleted {
		var seq int64
		if err := db.Get(&seq, `SELECT nextval('receipt_number_seq')`); err != nil {
			return nil, WrapError(err, "next receipt number")
		}
		result, err = db.Exec(`
UPDATE payments
SET status = 'completed', paid_date = $2, receipt_number = $3
WHERE id = $1 AND status = 'pending'
`, paymentID, time.Now().UTC(), FormatReceiptNumber(seq))
	} else {
		result, err = db.Exec(`
UPDATE payments SET status = 'cancelled' WHERE id = $1 AND status = 'pending'
`, paymentID)
	}
	if err != nil {
		return nil, WrapError(err, "update payment")
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		payment := models.Payment{}
		err := db.Get(&payment, `SELECT * FROM payments WHERE id = $1`, paymentID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound("Payment not found")
		}
		if err != nil {
			return nil, WrapError(err, "lookup payment")
		}
		return nil, ErrConflict("Payment is already " + payment.Status)
	}
	payment := models.Payment{}
	if err := db.Get(&payment, `SELECT * FROM payments WHERE id = $1`, paymentID); err != nil {
		return nil, WrapError(err, "lookup payment")
	}
	return &payment, nil
}

// PaymentEntry is a payment row joined with its student for listings.
type PaymentEntry struct {
	models.Payment
	StudentName  string `db:"student_name"`
	StudentEmail string `db:"student_email"`
}

type PaymentFilters struct {
	Status string
	Method string
	Search string
}

func ListPayments(db *sqlx.DB, filters PaymentFilters) ([]PaymentEntry, error) {
	query := `
SELECT p.*, u.name AS student_name, u.email AS student_email
FROM payments p
JOIN users u ON u.id = p.student_id
WHERE 1=1`
	args := []interface{}{}
	if filters.Status != "" && filters.Status != "all" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if filters.Method != "" && filters.Method != "all" {
		args = append(args, filters.Method)
		query += fmt.Sprintf(" AND p.payment_method = $%d", len(args))
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		query += fmt.Sprintf(
			" AND (lower(u.name) LIKE $%d OR lower(p.description) LIKE $%d OR lower(coalesce(p.receipt_number, '')) LIKE $%d)",
			n, n, n)
	}
	query += " ORDER BY p.created_at DESC"
	entries := []PaymentEntry{}
	if err := db.Select(&entries, query, args...); err != nil {
		return nil, WrapError(err, "load payments")
	}
	return entries, nil
}

type PaymentStats struct {
	TotalBilled    float64 `json:"totalBilled"`
	Collected      float64 `json:"collected"`
	PendingSum     float64 `json:"pendingSum"`
	PendingCount   int     `json:"pendingCount"`
	CompletedCount int     `json:"completedCount"`
	CancelledCount int     `json:"cancelledCount"`
}

// ComputeStats derives the payment totals over an already filtered set,
// recomputed per query.
func ComputeStats(entries []PaymentEntry) PaymentStats {
	stats := PaymentStats{}
	for _, entry := range entries {
		stats.TotalBilled += entry.Amount
		switch entry.Status {
		case PaymentCompleted:
			stats.Collected += entry.Amount
			stats.CompletedCount++
		case PaymentPending:
			stats.PendingSum += entry.Amount
			stats.PendingCount++
		case PaymentCancelled:
			stats.CancelledCount++
		}
	}
	return stats
}
