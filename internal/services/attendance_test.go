package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	summary := Summarize([]string{StatusPresent, StatusAbsent, StatusPresent})

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 0, summary.Late)
	assert.Equal(t, 0, summary.Excused)
	assert.Equal(t, 67, summary.Percentage)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Percentage)
}

func TestSummarizeCountsEveryStatus(t *testing.T) {
	summary := Summarize([]string{StatusPresent, StatusLate, StatusExcused, StatusAbsent})

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 1, summary.Excused)
	assert.Equal(t, 25, summary.Percentage)
}

func TestSummarizeRoundsPercentage(t *testing.T) {
	// 1/3 rounds down, 2/3 rounds up.
	assert.Equal(t, 33, Summarize([]string{StatusPresent, StatusAbsent, StatusAbsent}).Percentage)
	assert.Equal(t, 67, Summarize([]string{StatusPresent, StatusPresent, StatusAbsent}).Percentage)
	assert.Equal(t, 100, Summarize([]string{StatusPresent}).Percentage)
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused} {
		assert.True(t, validStatus(status), status)
	}
	assert.False(t, validStatus("presente"))
	assert.False(t, validStatus(""))
}

// Resubmission replaces the whole sheet: the prior rows for the classroom
// and date are deleted before any insert, all inside one transaction.
func TestSubmitAttendanceReplacesSheet(t *testing.T) {
	db, mock := newMockDB(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT u\.\* FROM users u`).
		WithArgs("room-1").
		WillReturnRows(rosterRows("stu-1", "stu-2"))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance").
		WithArgs("room-1", date).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO attendance").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO attendance").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	inserted, err := SubmitAttendance(db, "room-1", date, []AttendanceRecord{
		{StudentID: "stu-1", Status: StatusPresent},
		{StudentID: "stu-2", Status: StatusAbsent},
	}, "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitAttendanceRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT u\.\* FROM users u`).
		WithArgs("room-1").
		WillReturnRows(rosterRows("stu-1"))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO attendance").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := SubmitAttendance(db, "room-1", date, []AttendanceRecord{
		{StudentID: "stu-1", Status: StatusPresent},
	}, "teacher-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitAttendanceRejectsNonRosterStudent(t *testing.T) {
	db, mock := newMockDB(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT u\.\* FROM users u`).
		WithArgs("room-1").
		WillReturnRows(rosterRows("stu-1"))

	_, err := SubmitAttendance(db, "room-1", date, []AttendanceRecord{
		{StudentID: "stu-9", Status: StatusPresent},
	}, "teacher-1")

	var svcErr ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 400, svcErr.Status)
	// Nothing was written: no Begin expectation was ever registered.
	assert.NoError(t, mock.ExpectationsWereMet())
}
