package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { _ = db.Close() })
	return &Server{DB: db}, mock
}

func TestRegisterUserRejectsMalformedBirthDate(t *testing.T) {
	server := &Server{}
	body := `{"name":"Luis","email":"luis@iger.edu","role":"STUDENT","birthDate":"2016-13-45"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.RegisterUser(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "birthDate")
}

func TestListCalendarEventsRejectsMalformedWindow(t *testing.T) {
	server := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/events?startDate=notadate&endDate=2026-01-31", nil)
	rec := httptest.NewRecorder()

	server.ListCalendarEvents(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "startDate")
}

func TestListCalendarEventsRejectsHalfWindow(t *testing.T) {
	server := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/events?startDate=2026-01-01", nil)
	rec := httptest.NewRecorder()

	server.ListCalendarEvents(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "supplied together")
}

func TestListCalendarEventsAppliesValidWindow(t *testing.T) {
	server, mock := newMockServer(t)
	mock.ExpectQuery("SELECT \\* FROM calendar_events").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "date", "type", "color", "created_by", "created_at"}))
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/events?startDate=2026-01-01&endDate=2026-01-31", nil)
	rec := httptest.NewRecorder()

	server.ListCalendarEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersDefaultsToActive(t *testing.T) {
	server, mock := newMockServer(t)
	mock.ExpectQuery(`SELECT u\.\* FROM users u WHERE 1=1 AND u\.is_active = TRUE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}))
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()

	server.ListUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersCanListDeactivated(t *testing.T) {
	server, mock := newMockServer(t)
	mock.ExpectQuery(`SELECT u\.\* FROM users u WHERE 1=1 AND u\.is_active = FALSE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow("u-1", "Inactivo", "inactivo@iger.edu", "STUDENT"))
	req := httptest.NewRequest(http.MethodGet, "/api/users?active=false", nil)
	rec := httptest.NewRecorder()

	server.ListUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inactivo@iger.edu")
	assert.NoError(t, mock.ExpectationsWereMet())
}
