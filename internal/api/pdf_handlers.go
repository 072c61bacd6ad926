package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fisiomanager/backend/internal/auth"
	"github.com/fisiomanager/backend/internal/pdf"
	"github.com/fisiomanager/backend/internal/repo"
	"github.com/fisiomanager/backend/internal/schedule"
	"gorm.io/gorm"
)

func intToString(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PatientRecordPDF streams the printable clinical record: patient header,
// intake assessment and every SOAP note. The QR footer links back to the
// live record when APP_PUBLIC_URL is configured.
func (h *Handler) PatientRecordPDF(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePatient(w, r)
	if !ok {
		return
	}
	data := pdf.RecordData{
		ClinicName:  auth.NameFrom(r.Context()),
		PatientName: p.Name,
		Phone:       deref(p.Phone),
		BirthDate:   deref(p.BirthDate),
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
	}
	if h.Cfg.AppPublicURL != "" {
		data.VerifyURL = h.Cfg.AppPublicURL + "/patients/" + p.ID.String()
	}

	a, err := repo.AssessmentByPatient(r.Context(), h.DB, p.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[pdf] assessment: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if a != nil {
		data.Assessment = []pdf.Field{
			{Label: "Complaint", Value: deref(a.Complaint)},
			{Label: "History (HDA)", Value: deref(a.HDA)},
			{Label: "History (HPP)", Value: deref(a.HPP)},
			{Label: "Pain level", Value: intToString(a.PainLevel)},
			{Label: "Vitals", Value: deref(a.Vitals)},
			{Label: "Inspection", Value: deref(a.Inspection)},
			{Label: "Range of motion", Value: deref(a.ROM)},
			{Label: "Diagnosis", Value: deref(a.Diagnosis)},
			{Label: "Goals", Value: deref(a.Goals)},
			{Label: "Plan", Value: deref(a.Plan)},
		}
	}

	evos, err := repo.EvolutionsByPatient(r.Context(), h.Pool, p.ID)
	if err != nil {
		log.Printf("[pdf] evolutions: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	for _, e := range evos {
		data.Evolutions = append(data.Evolutions, pdf.EvolutionEntry{
			Date: e.Date.Format(schedule.DateLayout),
			Fields: []pdf.Field{
				{Label: "Subjective", Value: deref(e.Subjective)},
				{Label: "Objective", Value: deref(e.Objective)},
				{Label: "Assessment", Value: deref(e.AssessmentNotes)},
				{Label: "Plan", Value: deref(e.Plan)},
			},
		})
	}

	out, err := pdf.BuildPatientRecord(data)
	if err != nil {
		log.Printf("[pdf] record: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="record-`+p.ID.String()+`.pdf"`)
	_, _ = w.Write(out)
}

// AgendaPDF streams the printable agenda for one day (?date=YYYY-MM-DD).
func (h *Handler) AgendaPDF(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, `{"error":"date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	list, err := repo.AppointmentsByUserAndDateRange(r.Context(), h.Pool, uid, day, day)
	if err != nil {
		log.Printf("[pdf] agenda: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	entries := make([]pdf.AgendaEntry, len(list))
	for i, a := range list {
		entries[i] = pdf.AgendaEntry{
			StartTime:   repo.TimeStringToHHMM(a.StartTime),
			PatientName: a.PatientName,
			Type:        a.Type,
			Notes:       deref(a.Notes),
		}
	}
	out, err := pdf.BuildDayAgenda(auth.NameFrom(r.Context()), day.Format(schedule.DateLayout), entries)
	if err != nil {
		log.Printf("[pdf] agenda build: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="agenda-`+day.Format(schedule.DateLayout)+`.pdf"`)
	_, _ = w.Write(out)
}
