package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/fisiomanager/backend/internal/auth"
	"github.com/fisiomanager/backend/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// ownerID resolves the authenticated tenant id. Every handler under the
// protected subrouter starts here; a parse failure means the claims are
// malformed, not that the user lacks permission.
func ownerID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(auth.UserIDFrom(r.Context()))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func patientJSON(p repo.Patient) map[string]interface{} {
	phone := ""
	if p.Phone != nil {
		phone = *p.Phone
	}
	birthDate := ""
	if p.BirthDate != nil {
		birthDate = *p.BirthDate
	}
	return map[string]interface{}{
		"id":         p.ID.String(),
		"name":       p.Name,
		"phone":      phone,
		"birth_date": birthDate,
		"status":     p.Status,
	}
}

// ListPatients returns the owner's patients ordered by name. ?status=ACTIVE
// filters archived patients out (the booking picker uses this).
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && status != repo.PatientActive && status != repo.PatientArchived {
		http.Error(w, `{"error":"invalid status"}`, http.StatusBadRequest)
		return
	}
	list, err := repo.PatientsByUser(r.Context(), h.DB, uid, status)
	if err != nil {
		log.Printf("[patients] list: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]map[string]interface{}, len(list))
	for i, p := range list {
		out[i] = patientJSON(p)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"patients": out})
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req struct {
		Name      string  `json:"name"`
		Phone     *string `json:"phone"`
		BirthDate *string `json:"birth_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, `{"error":"name required"}`, http.StatusBadRequest)
		return
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		if _, err := parseDate(*req.BirthDate); err != nil {
			http.Error(w, `{"error":"birth_date must be YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
	}
	id, err := repo.CreatePatient(r.Context(), h.DB, uid, name, req.Phone, req.BirthDate)
	if err != nil {
		log.Printf("[patients] create: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	p, err := repo.PatientByIDAndUser(r.Context(), h.DB, id, uid)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(patientJSON(*p))
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		http.Error(w, `{"error":"invalid patient id"}`, http.StatusBadRequest)
		return
	}
	p, err := repo.PatientByIDAndUser(r.Context(), h.DB, id, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"patient not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(patientJSON(*p))
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		http.Error(w, `{"error":"invalid patient id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		Name      string  `json:"name"`
		Phone     *string `json:"phone"`
		BirthDate *string `json:"birth_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, `{"error":"name required"}`, http.StatusBadRequest)
		return
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		if _, err := parseDate(*req.BirthDate); err != nil {
			http.Error(w, `{"error":"birth_date must be YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
	}
	if err := repo.UpdatePatient(r.Context(), h.DB, id, uid, name, req.Phone, req.BirthDate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"patient not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[patients] update: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	// Existing appointments keep the patient_name captured at booking time.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Patient updated."})
}

// ArchivePatient removes the patient from the booking picker. Past
// appointments and clinical records stay untouched.
func (h *Handler) ArchivePatient(w http.ResponseWriter, r *http.Request) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		http.Error(w, `{"error":"invalid patient id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.ArchivePatient(r.Context(), h.DB, id, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"patient not found"}`, http.StatusNotFound)
			return
		}
		log.Printf("[patients] archive: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Patient archived."})
}
