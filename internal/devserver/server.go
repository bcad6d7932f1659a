// Package devserver is a local implementation of the VitaTrack REST backend
// used for development and integration testing.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/vitatrack/vitatrack/internal/logger"
	"github.com/vitatrack/vitatrack/internal/storage"
)

const maxUploadBytes = 10 << 20

type Config struct {
	Store storage.Provider
	// UploadDir receives uploaded food images; they are served under /uploads/.
	UploadDir      string
	AllowedOrigins []string
}

type Server struct {
	store     storage.Provider
	uploadDir string
	handler   http.Handler
}

func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("devserver: store is required")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, err
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{store: cfg.Store, uploadDir: cfg.UploadDir}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/meal-records/{userId:[0-9]+}", s.listMealRecords).Methods(http.MethodGet)
	api.HandleFunc("/meal-records/{id:[0-9]+}", s.deleteMealRecord).Methods(http.MethodDelete)
	api.HandleFunc("/foods", s.createFood).Methods(http.MethodPost)
	api.HandleFunc("/foods/{id:[0-9]+}", s.updateFood).Methods(http.MethodPut)
	api.HandleFunc("/daily_intake", s.getDailyIntake).Methods(http.MethodGet)
	api.HandleFunc("/daily_intake", s.putDailyIntake).Methods(http.MethodPut)
	api.HandleFunc("/goal_settings", s.getGoalSettings).Methods(http.MethodGet)
	api.HandleFunc("/goal_settings", s.putGoalSettings).Methods(http.MethodPut)
	api.HandleFunc("/uploadFoodImage", s.uploadFoodImage).Methods(http.MethodPost)

	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
	s.handler = c.Handler(loggingMiddleware(r))
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Development server listening", "addr", addr, "storage", s.store.GetConfigPath())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("Shutting down development server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	current, latest, err := s.store.SchemaVersion()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "ok", Data: map[string]int{"schema_version": current, "latest_version": latest}})
}
