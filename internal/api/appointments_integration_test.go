//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fisiomanager/backend/internal/auth"
	"github.com/fisiomanager/backend/internal/cache"
	"github.com/fisiomanager/backend/internal/config"
	"github.com/fisiomanager/backend/internal/middleware"
	"github.com/fisiomanager/backend/internal/repo"
	"github.com/fisiomanager/backend/internal/testutil"
)

func newAgendaRouter(h *Handler, secret []byte) http.Handler {
	r := mux.NewRouter()
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireAuthMiddleware(secret))
	protected.HandleFunc("/appointments", h.ListAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/series", h.CreateAppointmentSeries).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", h.DeleteAppointment).Methods(http.MethodDelete)
	return middleware.RequestID(r)
}

func bearerFor(t *testing.T, secret []byte, userID uuid.UUID, name string) string {
	t.Helper()
	tok, err := auth.BuildJWT(secret, userID.String(), name, 2*time.Hour)
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}
	return "Bearer " + tok
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestIntegration_WeeklySeriesLifecycle walks the agenda end to end: book a
// four-week series, cancel one occurrence, and verify the siblings survive
// and range listing stays ordered.
func TestIntegration_WeeklySeriesLifecycle(t *testing.T) {
	ctx := context.Background()
	db, url := testutil.OpenDB(ctx)
	if db == nil {
		t.Skip("DATABASE_URL not set for integration tests")
		return
	}
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		defer sqlDB.Close()
	}
	if err := testutil.MustMigrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("pgx pool: %v", err)
	}
	defer pool.Close()

	cfg := config.Load()
	secret := []byte("test-jwt-secret-min-32-chars-xxxxxxxxxxxx")
	cfg.JWTSecret = secret
	h := &Handler{Pool: pool, DB: db, Cfg: cfg, Cache: cache.New(time.Minute)}
	router := newAgendaRouter(h, secret)

	suffix := uuid.New().String()[:8]
	hash, err := auth.HashPassword("Test1234!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	userID, err := repo.CreateUser(ctx, pool, "Dr Teste", "teste-"+suffix+"@fisio.local", hash)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	otherID, err := repo.CreateUser(ctx, pool, "Dr Outro", "outro-"+suffix+"@fisio.local", hash)
	if err != nil {
		t.Fatalf("create other user: %v", err)
	}
	patientID, err := repo.CreatePatient(ctx, db, userID, "Ana Souza", nil, nil)
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}
	bearer := bearerFor(t, secret, userID, "Dr Teste")

	// Book: Saturday 2024-03-30 + 3 weekly repeats, crossing into April.
	rec := doJSON(t, router, http.MethodPost, "/api/appointments/series", bearer, map[string]interface{}{
		"patient_id": patientID.String(),
		"date":       "2024-03-30",
		"start_time": "09:00",
		"type":       "Session",
		"weeks":      4,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("series status = %d, body %s", rec.Code, rec.Body.String())
	}
	var seriesResp struct {
		Created int `json:"created"`
		Results []struct {
			Date        string `json:"date"`
			Appointment *struct {
				ID string `json:"id"`
			} `json:"appointment"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &seriesResp); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	if seriesResp.Created != 4 || len(seriesResp.Results) != 4 {
		t.Fatalf("created = %d, results = %d, want 4", seriesResp.Created, len(seriesResp.Results))
	}
	wantDates := []string{"2024-03-30", "2024-04-06", "2024-04-13", "2024-04-20"}
	var secondID string
	for i, res := range seriesResp.Results {
		if res.Date != wantDates[i] {
			t.Errorf("occurrence %d date = %s, want %s", i, res.Date, wantDates[i])
		}
		if res.Appointment == nil {
			t.Fatalf("occurrence %d has no appointment", i)
		}
		if res.Date == "2024-04-06" {
			secondID = res.Appointment.ID
		}
	}

	// Someone else's token cannot cancel it.
	otherBearer := bearerFor(t, secret, otherID, "Dr Outro")
	rec = doJSON(t, router, http.MethodDelete, "/api/appointments/"+secondID, otherBearer, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-tenant delete status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/appointments/"+secondID, bearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	// Second delete of the same row is a plain 404.
	rec = doJSON(t, router, http.MethodDelete, "/api/appointments/"+secondID, bearer, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/appointments?from=2024-03-01&to=2024-04-30", bearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	var listResp struct {
		Appointments []struct {
			Date        string `json:"date"`
			StartTime   string `json:"start_time"`
			IsRecurring bool   `json:"is_recurring"`
		} `json:"appointments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listResp.Appointments) != 3 {
		t.Fatalf("appointments after delete = %d, want 3", len(listResp.Appointments))
	}
	wantRemaining := []string{"2024-03-30", "2024-04-13", "2024-04-20"}
	for i, a := range listResp.Appointments {
		if a.Date != wantRemaining[i] {
			t.Errorf("remaining %d date = %s, want %s", i, a.Date, wantRemaining[i])
		}
		if a.StartTime != "09:00" {
			t.Errorf("remaining %d start_time = %s, want 09:00", i, a.StartTime)
		}
		if !a.IsRecurring {
			t.Errorf("remaining %d lost its recurring flag", i)
		}
	}
}
