package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func paymentColumns() []string {
	return []string{
		"id", "student_id", "amount", "currency", "description",
		"payment_method", "status", "due_date", "paid_date", "receipt_number", "created_at",
	}
}

func completedPaymentRows(id, receipt string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(paymentColumns()).
		AddRow(id, "stu-1", 150.0, "GTQ", "Mensualidad enero", "cash",
			PaymentCompleted, now, now, receipt, now)
}

func rosterRows(studentIDs ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role"})
	for _, id := range studentIDs {
		rows.AddRow(id, "Student "+id, id+"@iger.edu", RoleStudent)
	}
	return rows
}
