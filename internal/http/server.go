package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"presensi/school/internal/config"
	"presensi/school/internal/db"
	"presensi/school/internal/model"
	"presensi/school/internal/session"
)

type Server struct {
	cfg      config.Config
	store    *db.Store
	sessions session.Store
	validate *validator.Validate
}

func NewServer(cfg config.Config, store *db.Store, sessions session.Store) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		validate: newValidator(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/test", s.handleTest)
	r.Get("/schema", s.handleSchema)

	r.Post("/login", s.handleLogin)

	r.Post("/students", s.handleCreateStudent)
	r.Get("/students", s.handleListStudents)
	r.Put("/students/{studentId}", s.handleUpdateStudent)
	r.Delete("/students/{studentId}", s.handleDeleteStudent)

	r.Post("/attendance", s.handleMarkAttendance)
	r.Get("/attendance", s.handleListAttendance)
	r.Get("/attendance/export", s.handleExportAttendance)
	r.Delete("/attendance/{attendanceId}", s.handleDeleteAttendance)

	r.Post("/agendas", s.handleCreateAgenda)
	r.Get("/agendas", s.handleListAgendas)
	r.Put("/agendas/{agendaId}", s.handleUpdateAgenda)
	r.Delete("/agendas/{agendaId}", s.handleDeleteAgenda)

	r.Post("/grades", s.handleCreateGrade)
	r.Get("/grades", s.handleListGrades)
	r.Delete("/grades/{gradeId}", s.handleDeleteGrade)

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "School Attendance API ready"})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"backend":           "running",
		"database":          "not_available",
		"database_url_set":  s.cfg.DatabaseURL != "",
		"database_name_set": s.cfg.DatabaseName != "",
		"connection_status": "not_connected",
		"collections":       []string{},
	}
	if s.store.Available() {
		if err := s.store.Ping(r.Context()); err != nil {
			resp["database"] = "error"
			resp["connection_status"] = "ping_failed"
		} else {
			resp["database"] = "connected"
			resp["connection_status"] = "connected"
			resp["database_name"] = s.store.DatabaseName()
			if names, err := s.store.CollectionNames(r.Context()); err == nil {
				if len(names) > 10 {
					names = names[:10]
				}
				resp["collections"] = names
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Schema())
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Demo login: the token is derived from the username and recorded, but no
// endpoint requires it.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}
	token := session.DeriveToken(req.Username)
	if err := s.sessions.Add(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
