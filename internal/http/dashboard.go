package httpapi

import (
	"net/http"
	"strconv"

	"iger-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

type DashboardHistoryResponse struct {
	Items []services.DashboardSample `json:"items"`
}

func (s *Server) DashboardHistory(w http.ResponseWriter, r *http.Request) {
	limit := 120
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 500 {
		limit = 500
	}
	items, err := services.LatestDashboard(s.DB, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, DashboardHistoryResponse{Items: items})
}

// DashboardSocket streams fresh samples to admin clients. Browsers cannot
// set an Authorization header on a websocket, so the token rides in the
// query string.
func (s *Server) DashboardSocket(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	token, claims, err := s.Tokens.ParseToken(raw)
	if err != nil || !token.Valid || claims["typ"] != "access" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if role, _ := claims["role"].(string); role != services.RoleAdmin {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Dashboard.Add(conn)
	defer func() {
		s.Dashboard.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
