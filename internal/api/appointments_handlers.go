package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fisiomanager/backend/internal/repo"
	"github.com/fisiomanager/backend/internal/schedule"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

const (
	agendaCacheTTL = 30 * time.Second
	// maxSeriesWeeks caps a single series request; the scheduling core
	// accepts any positive count, the HTTP surface keeps it to one year.
	maxSeriesWeeks = 52
)

func agendaCacheKey(uid uuid.UUID, from, to string) string {
	return "agenda:" + uid.String() + ":" + from + ":" + to
}

func (h *Handler) invalidateAgenda(uid uuid.UUID) {
	h.Cache.DeletePrefix("agenda:" + uid.String() + ":")
}

type appointmentJSON struct {
	ID          string `json:"id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	Type        string `json:"type"`
	Notes       string `json:"notes"`
	IsRecurring bool   `json:"is_recurring"`
}

func toAppointmentJSON(a repo.Appointment) appointmentJSON {
	notes := ""
	if a.Notes != nil {
		notes = *a.Notes
	}
	return appointmentJSON{
		ID:          a.ID.String(),
		PatientID:   a.PatientID.String(),
		PatientName: a.PatientName,
		Date:        a.Date.Format(schedule.DateLayout),
		StartTime:   repo.TimeStringToHHMM(a.StartTime),
		Type:        a.Type,
		Notes:       notes,
		IsRecurring: a.IsRecurring,
	}
}

// bookablePatient loads the patient scoped to the owner and rejects archived
// ones. Archived patients keep their history but take no new bookings.
func (h *Handler) bookablePatient(w http.ResponseWriter, r *http.Request, uid, patientID uuid.UUID) (*repo.Patient, bool) {
	p, err := repo.PatientByIDAndUser(r.Context(), h.DB, patientID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"patient not found"}`, http.StatusNotFound)
			return nil, false
		}
		log.Printf("[agenda] patient lookup: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return nil, false
	}
	if p.Status == repo.PatientArchived {
		http.Error(w, `{"error":"patient is archived"}`, http.StatusBadRequest)
		return nil, false
	}
	return p, true
}

// ListAppointments returns the owner's appointments with date in [from, to],
// ordered by date then start time. Responses are cached briefly per
// (owner, range); any booking or cancellation drops the owner's entries.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	from, err := parseDate(q.Get("from"))
	if err != nil {
		http.Error(w, `{"error":"from must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		http.Error(w, `{"error":"to must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	if err := schedule.ValidateRange(from, to); err != nil {
		http.Error(w, `{"error":"from must not be after to"}`, http.StatusBadRequest)
		return
	}
	key := agendaCacheKey(uid, from.Format(schedule.DateLayout), to.Format(schedule.DateLayout))
	w.Header().Set("Content-Type", "application/json")
	if body, ok := h.Cache.Get(key); ok {
		_, _ = w.Write(body)
		return
	}
	list, err := repo.AppointmentsByUserAndDateRange(r.Context(), h.Pool, uid, from, to)
	if err != nil {
		log.Printf("[agenda] list: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]appointmentJSON, len(list))
	for i, a := range list {
		out[i] = toAppointmentJSON(a)
	}
	body, err := json.Marshal(map[string]interface{}{"appointments": out})
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.Set(key, body, agendaCacheTTL)
	_, _ = w.Write(body)
}

// MonthAgenda renders the 7-column month view: the padded day grid with
// per-day occupancy plus the appointments grouped by date.
func (h *Handler) MonthAgenda(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		http.Error(w, `{"error":"invalid year"}`, http.StatusBadRequest)
		return
	}
	monthN, err := strconv.Atoi(q.Get("month"))
	if err != nil || monthN < 1 || monthN > 12 {
		http.Error(w, `{"error":"invalid month"}`, http.StatusBadRequest)
		return
	}
	month := time.Month(monthN)
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	list, err := repo.AppointmentsByUserAndDateRange(r.Context(), h.Pool, uid, from, to)
	if err != nil {
		log.Printf("[agenda] month: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	dates, groups := schedule.GroupByDate(list)
	counts := make(map[string]int, len(dates))
	days := make(map[string][]appointmentJSON, len(dates))
	for _, d := range dates {
		counts[d] = len(groups[d])
		out := make([]appointmentJSON, len(groups[d]))
		for i, a := range groups[d] {
			out[i] = toAppointmentJSON(a)
		}
		days[d] = out
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"year":  year,
		"month": monthN,
		"grid":  schedule.MonthGrid(year, month, counts),
		"days":  days,
	})
}

type appointmentRequest struct {
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
	Weeks     int    `json:"weeks"`
}

func (h *Handler) parseBooking(w http.ResponseWriter, r *http.Request, uid uuid.UUID) (*repo.Patient, time.Time, appointmentRequest, bool) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return nil, time.Time{}, req, false
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		http.Error(w, `{"error":"invalid patient_id"}`, http.StatusBadRequest)
		return nil, time.Time{}, req, false
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, `{"error":"date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return nil, time.Time{}, req, false
	}
	req.StartTime, err = parseHHMM(req.StartTime)
	if err != nil {
		http.Error(w, `{"error":"start_time must be HH:MM"}`, http.StatusBadRequest)
		return nil, time.Time{}, req, false
	}
	if req.Type == "" {
		req.Type = "Session"
	}
	p, ok := h.bookablePatient(w, r, uid, patientID)
	if !ok {
		return nil, time.Time{}, req, false
	}
	return p, date, req, true
}

// CreateAppointment books a single slot. Double-booking the same slot is
// allowed; the agenda view shows the collision and the therapist resolves it.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	p, date, req, ok := h.parseBooking(w, r, uid)
	if !ok {
		return
	}
	a, err := repo.CreateAppointment(r.Context(), h.Pool, uid, p.ID, p.Name, date, req.StartTime, req.Type, req.Notes, false)
	if err != nil {
		log.Printf("[agenda] create: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda(uid)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toAppointmentJSON(*a))
}

// poolInserter adapts the appointment store to the scheduling core's insert
// primitive so the series fan-out stays storage-agnostic.
type poolInserter struct {
	pool *pgxpool.Pool
}

func (p poolInserter) InsertAppointment(ctx context.Context, req schedule.SeriesRequest, date time.Time, isRecurring bool) (*repo.Appointment, error) {
	return repo.CreateAppointment(ctx, p.pool, req.UserID, req.PatientID, req.PatientName, date, req.StartTime, req.Type, req.Notes, isRecurring)
}

type seriesItemJSON struct {
	Date        string           `json:"date"`
	Appointment *appointmentJSON `json:"appointment,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// CreateAppointmentSeries books a weekly series: the anchor date plus weeks-1
// further occurrences seven days apart. Occurrences are independent rows;
// a failed insert is reported per item and the siblings stand. Status is 201
// when everything booked, 207 on a partial series, 502 when nothing did.
func (h *Handler) CreateAppointmentSeries(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	p, anchor, req, ok := h.parseBooking(w, r, uid)
	if !ok {
		return
	}
	if req.Weeks < 1 || req.Weeks > maxSeriesWeeks {
		http.Error(w, `{"error":"weeks must be between 1 and 52"}`, http.StatusBadRequest)
		return
	}
	results, err := schedule.CreateRecurringSeries(r.Context(), poolInserter{h.Pool}, schedule.SeriesRequest{
		UserID:      uid,
		PatientID:   p.ID,
		PatientName: p.Name,
		StartTime:   req.StartTime,
		Type:        req.Type,
		Notes:       req.Notes,
	}, anchor, req.Weeks)
	if err != nil {
		http.Error(w, `{"error":"invalid series"}`, http.StatusBadRequest)
		return
	}
	h.invalidateAgenda(uid)
	items := make([]seriesItemJSON, len(results))
	created := 0
	for i, res := range results {
		item := seriesItemJSON{Date: res.Date.Format(schedule.DateLayout)}
		if res.Err != nil {
			log.Printf("[agenda] series occurrence %s: %v", item.Date, res.Err)
			item.Error = "could not book this occurrence"
		} else {
			created++
			aj := toAppointmentJSON(*res.Appointment)
			item.Appointment = &aj
		}
		items[i] = item
	}
	status := http.StatusCreated
	switch schedule.Outcome(results) {
	case schedule.SeriesPartial:
		status = http.StatusMultiStatus
	case schedule.SeriesFailed:
		status = http.StatusBadGateway
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"created":   created,
		"requested": len(results),
		"results":   items,
	})
}

// DeleteAppointment cancels one agenda entry. A row owned by someone else is
// a 403, a missing row a 404; cancelling one occurrence of a series leaves
// the siblings in place.
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["appointmentId"])
	if err != nil {
		http.Error(w, `{"error":"invalid appointment id"}`, http.StatusBadRequest)
		return
	}
	a, err := repo.AppointmentByID(r.Context(), h.Pool, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"appointment not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[agenda] delete lookup: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if a.UserID != uid {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}
	n, err := repo.DeleteAppointment(r.Context(), h.Pool, uid, id)
	if err != nil {
		log.Printf("[agenda] delete: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if n == 0 {
		// Raced with another delete of the same row.
		http.Error(w, `{"error":"appointment not found"}`, http.StatusNotFound)
		return
	}
	h.invalidateAgenda(uid)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Appointment cancelled."})
}
