package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fisiomanager/backend/internal/api"
	"github.com/fisiomanager/backend/internal/cache"
	"github.com/fisiomanager/backend/internal/config"
	"github.com/fisiomanager/backend/internal/middleware"
	"github.com/fisiomanager/backend/internal/migrate"
	"github.com/fisiomanager/backend/internal/seed"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("parse DATABASE_URL: %v", err)
	}
	if cfg.DBMaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.DBMaxConns)
	}
	if cfg.DBMinConns > 0 {
		poolConfig.MinConns = int32(cfg.DBMinConns)
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("open gorm: %v", err)
	}

	if err := migrate.Run(context.Background(), db, "migrations"); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	if err := seed.Run(context.Background(), db); err != nil {
		log.Printf("seed (ignored if already applied): %v", err)
	}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"db unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	h := &api.Handler{Pool: pool, DB: db, Cfg: cfg, Cache: cache.New(time.Minute)}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerSec, cfg.LoginRateBurst)
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Handle("/auth/login", loginLimiter.Limit(http.HandlerFunc(h.Login))).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireAuthMiddleware(cfg.JWTSecret))
	protected.HandleFunc("/me", h.Me).Methods(http.MethodGet)

	protected.HandleFunc("/patients", h.ListPatients).Methods(http.MethodGet)
	protected.HandleFunc("/patients", h.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{patientId}", h.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}", h.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{patientId}/archive", h.ArchivePatient).Methods(http.MethodPost)

	protected.HandleFunc("/patients/{patientId}/assessment", h.GetAssessment).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}/assessment", h.PutAssessment).Methods(http.MethodPut)
	protected.HandleFunc("/patients/{patientId}/evolutions", h.ListEvolutions).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}/evolutions", h.CreateEvolution).Methods(http.MethodPost)
	protected.HandleFunc("/patients/{patientId}/record.pdf", h.PatientRecordPDF).Methods(http.MethodGet)

	protected.HandleFunc("/appointments", h.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/series", h.CreateAppointmentSeries).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", h.DeleteAppointment).Methods(http.MethodDelete)
	protected.HandleFunc("/agenda/month", h.MonthAgenda).Methods(http.MethodGet)
	protected.HandleFunc("/agenda.pdf", h.AgendaPDF).Methods(http.MethodGet)

	chain := middleware.Recover(middleware.RequestID(middleware.Timeout(cfg.RequestTimeoutSec)(middleware.CORS(cfg.CORSOrigins)(middleware.Gzip(r)))))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("backend stopped")
}
