package httpapi

import (
	"net/http"
	"time"

	"iger-backend-go/internal/config"
	"iger-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB        *sqlx.DB
	Config    config.Config
	Tokens    services.TokenService
	Dashboard *services.DashboardHub
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.DashboardHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}
	return &Server{
		DB:        db,
		Config:    cfg,
		Tokens:    tokens,
		Dashboard: hub,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.Health)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/register", s.RegisterUser)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.Group(func(authed chi.Router) {
			authed.Use(WithAuth(s.Tokens))

			authed.Get("/users", s.ListUsers)
			authed.Get("/users/{userId}", s.GetUser)
			authed.With(RequireRole("ADMIN")).Put("/users/{userId}/active", s.SetUserActive)

			authed.Get("/grades", s.ListGrades)
			authed.With(RequireRole("ADMIN")).Post("/grades", s.CreateGrade)

			authed.Route("/classrooms", func(rooms chi.Router) {
				rooms.Get("/", s.ListClassrooms)
				rooms.With(RequireRole("ADMIN")).Post("/", s.CreateClassroom)
				rooms.Get("/{classroomId}/students", s.ClassroomRoster)
				rooms.With(RequireRole("ADMIN")).Put("/{classroomId}/teacher", s.AssignTeacher)
				rooms.With(RequireRole("ADMIN")).Post("/{classroomId}/students", s.EnrollStudent)
				rooms.With(RequireRole("ADMIN")).Delete("/{classroomId}/students/{studentId}", s.RemoveStudent)
				rooms.Get("/{classroomId}/schedule", s.GetSchedule)
				rooms.With(RequireAnyRole("TEACHER", "ADMIN")).Put("/{classroomId}/schedule", s.SetSchedule)
			})

			authed.Route("/academic-years", func(years chi.Router) {
				years.Get("/", s.ListAcademicYears)
				years.With(RequireRole("ADMIN")).Post("/", s.CreateAcademicYear)
				years.With(RequireRole("ADMIN")).Put("/{yearId}/activate", s.ActivateYear)
			})

			authed.Get("/attendance/{classroomId}/{date}", s.GetAttendance)
			authed.With(RequireAnyRole("TEACHER", "ADMIN")).Post("/attendance", s.SubmitAttendance)

			authed.Route("/payments", func(payments chi.Router) {
				payments.Use(RequireRole("ADMIN"))
				payments.Get("/", s.ListPayments)
				payments.Post("/", s.CreatePayment)
				payments.Put("/{paymentId}/status", s.UpdatePaymentStatus)
			})

			authed.Get("/calendar/events", s.ListCalendarEvents)
			authed.With(RequireAnyRole("TEACHER", "ADMIN")).Post("/calendar/events", s.CreateCalendarEvent)

			authed.Route("/reports", func(reports chi.Router) {
				reports.Use(RequireAnyRole("TEACHER", "ADMIN"))
				reports.Get("/", s.ListReports)
				reports.Post("/", s.GenerateReport)
			})

			authed.With(RequireRole("ADMIN")).Get("/dashboard/history", s.DashboardHistory)
		})
	})

	r.Get("/ws/dashboard", s.DashboardSocket)
	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.DB.Ping(); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
