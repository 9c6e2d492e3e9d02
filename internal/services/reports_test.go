package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"iger-backend-go/internal/models"
)

var (
	reportStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	reportEnd   = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
)

func TestRenderAttendanceReport(t *testing.T) {
	entries := []AttendanceEntry{
		{StudentName: "Luis", Status: StatusPresent, Date: reportStart},
		{StudentName: "María", Status: StatusAbsent, Date: reportStart},
		{StudentName: "Luis", Status: StatusPresent, Date: reportStart.AddDate(0, 0, 1)},
	}

	text := RenderAttendanceReport(reportStart, reportEnd, entries)

	assert.Contains(t, text, "REPORTE DE ASISTENCIA")
	assert.Contains(t, text, "Período: 2026-01-01 - 2026-01-31")
	assert.Contains(t, text, "- Total de registros: 3")
	assert.Contains(t, text, "- Presentes: 2")
	assert.Contains(t, text, "- Ausentes: 1")
	assert.Contains(t, text, "PORCENTAJE DE ASISTENCIA: 67%")
	assert.Contains(t, text, "- María: absent (2026-01-01)")
}

func TestRenderAttendanceReportEmptyWindow(t *testing.T) {
	text := RenderAttendanceReport(reportStart, reportEnd, nil)

	assert.Contains(t, text, "- Total de registros: 0")
	assert.Contains(t, text, "PORCENTAJE DE ASISTENCIA: 0%")
	assert.NotContains(t, text, "DETALLES POR ESTUDIANTE")
}

func TestRenderPaymentReport(t *testing.T) {
	entries := []PaymentEntry{
		{Payment: models.Payment{Amount: 150, Status: PaymentCompleted, Description: "Mensualidad enero"}, StudentName: "Luis"},
		{Payment: models.Payment{Amount: 150, Status: PaymentPending, Description: "Mensualidad enero"}, StudentName: "María"},
	}

	text := RenderPaymentReport(reportStart, reportEnd, entries)

	assert.Contains(t, text, "REPORTE DE PAGOS")
	assert.Contains(t, text, "- Total facturado: Q300.00")
	assert.Contains(t, text, "- Total recaudado: Q150.00")
	assert.Contains(t, text, "- Total pendiente: Q150.00")
	assert.Contains(t, text, "- Porcentaje de recaudación: 50%")
	assert.Contains(t, text, "- Luis: Q150.00 (completed) - Mensualidad enero")
}

func TestRenderPaymentReportNoBilling(t *testing.T) {
	text := RenderPaymentReport(reportStart, reportEnd, nil)

	assert.Contains(t, text, "- Total facturado: Q0.00")
	assert.Contains(t, text, "- Porcentaje de recaudación: 0%")
}

func TestRenderAcademicReport(t *testing.T) {
	birth := time.Date(2012, 5, 10, 0, 0, 0, 0, time.UTC)
	parentEmail := "padre@example.com"
	student := models.User{
		Name:        "Luis Pérez",
		Email:       "luis@iger.edu",
		BirthDate:   &birth,
		ParentEmail: &parentEmail,
	}
	attendance := []AttendanceEntry{
		{Status: StatusPresent}, {Status: StatusPresent}, {Status: StatusAbsent},
	}
	payments := []PaymentEntry{
		{Payment: models.Payment{Amount: 150, Status: PaymentCompleted}},
	}
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	text := RenderAcademicReport(student, attendance, payments, now)

	assert.True(t, strings.HasPrefix(text, "REPORTE ACADÉMICO INDIVIDUAL"))
	assert.Contains(t, text, "Estudiante: Luis Pérez")
	assert.Contains(t, text, "Fecha de generación: 2026-02-01")
	assert.Contains(t, text, "- Email del padre/madre: padre@example.com")
	assert.Contains(t, text, "- Porcentaje de asistencia: 67%")
	assert.Contains(t, text, "- Pagos completados: 1")
	assert.Contains(t, text, "- Total pagado: Q150.00")
}

func TestRenderConductReport(t *testing.T) {
	text := RenderConductReport(reportStart, reportEnd)

	assert.Contains(t, text, "REPORTE DE CONDUCTA")
	assert.Contains(t, text, "Período: 2026-01-01 - 2026-01-31")
	assert.Contains(t, text, "RECOMENDACIONES:")
}
