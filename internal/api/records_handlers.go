package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fisiomanager/backend/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// requirePatient loads the {patientId} path var scoped to the authenticated
// owner. Clinical records hang off patients, so every record route re-checks
// ownership here instead of trusting the id in the URL. On failure the
// response has already been written.
func (h *Handler) requirePatient(w http.ResponseWriter, r *http.Request) (*repo.Patient, bool) {
	uid, ok := ownerID(r)
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return nil, false
	}
	id, err := uuid.Parse(mux.Vars(r)["patientId"])
	if err != nil {
		http.Error(w, `{"error":"invalid patient id"}`, http.StatusBadRequest)
		return nil, false
	}
	p, err := repo.PatientByIDAndUser(r.Context(), h.DB, id, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error":"patient not found"}`, http.StatusNotFound)
			return nil, false
		}
		log.Printf("[records] patient lookup: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return nil, false
	}
	return p, true
}

type assessmentBody struct {
	Complaint  *string `json:"complaint"`
	HDA        *string `json:"hda"`
	HPP        *string `json:"hpp"`
	PainLevel  *int    `json:"pain_level"`
	Vitals     *string `json:"vitals"`
	Inspection *string `json:"inspection"`
	ROM        *string `json:"rom"`
	Diagnosis  *string `json:"diagnosis"`
	Goals      *string `json:"goals"`
	Plan       *string `json:"plan"`
}

// GetAssessment returns the patient's intake assessment. A patient with no
// assessment yet yields an empty object, not a 404, so the form renders blank.
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePatient(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	a, err := repo.AssessmentByPatient(r.Context(), h.DB, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = json.NewEncoder(w).Encode(assessmentBody{})
			return
		}
		log.Printf("[records] assessment: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(assessmentBody{
		Complaint:  a.Complaint,
		HDA:        a.HDA,
		HPP:        a.HPP,
		PainLevel:  a.PainLevel,
		Vitals:     a.Vitals,
		Inspection: a.Inspection,
		ROM:        a.ROM,
		Diagnosis:  a.Diagnosis,
		Goals:      a.Goals,
		Plan:       a.Plan,
	})
}

// PutAssessment saves the intake assessment as a full replace. The original
// kept a single assessment row per patient; PUT is the upsert.
func (h *Handler) PutAssessment(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePatient(w, r)
	if !ok {
		return
	}
	var req assessmentBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if req.PainLevel != nil && (*req.PainLevel < 0 || *req.PainLevel > 10) {
		http.Error(w, `{"error":"pain_level must be 0-10"}`, http.StatusBadRequest)
		return
	}
	err := repo.UpsertAssessment(r.Context(), h.DB, &repo.Assessment{
		PatientID:  p.ID,
		Complaint:  req.Complaint,
		HDA:        req.HDA,
		HPP:        req.HPP,
		PainLevel:  req.PainLevel,
		Vitals:     req.Vitals,
		Inspection: req.Inspection,
		ROM:        req.ROM,
		Diagnosis:  req.Diagnosis,
		Goals:      req.Goals,
		Plan:       req.Plan,
	})
	if err != nil {
		log.Printf("[records] upsert assessment: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Assessment saved."})
}

type evolutionJSON struct {
	ID              string  `json:"id"`
	Subjective      *string `json:"subjective"`
	Objective       *string `json:"objective"`
	AssessmentNotes *string `json:"assessment_notes"`
	Plan            *string `json:"plan"`
	Date            string  `json:"date"`
}

// ListEvolutions returns the patient's SOAP notes, newest first.
func (h *Handler) ListEvolutions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePatient(w, r)
	if !ok {
		return
	}
	list, err := repo.EvolutionsByPatient(r.Context(), h.Pool, p.ID)
	if err != nil {
		log.Printf("[records] evolutions: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make([]evolutionJSON, len(list))
	for i, e := range list {
		out[i] = evolutionJSON{
			ID:              e.ID.String(),
			Subjective:      e.Subjective,
			Objective:       e.Objective,
			AssessmentNotes: e.AssessmentNotes,
			Plan:            e.Plan,
			Date:            e.Date.Format("2006-01-02"),
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"evolutions": out})
}

// CreateEvolution appends a SOAP note. Notes are append-only; there is no
// update or delete route for them.
func (h *Handler) CreateEvolution(w http.ResponseWriter, r *http.Request) {
	p, ok := h.requirePatient(w, r)
	if !ok {
		return
	}
	var req struct {
		Subjective      *string `json:"subjective"`
		Objective       *string `json:"objective"`
		AssessmentNotes *string `json:"assessment_notes"`
		Plan            *string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if empty(req.Subjective) && empty(req.Objective) && empty(req.AssessmentNotes) && empty(req.Plan) {
		http.Error(w, `{"error":"at least one SOAP field required"}`, http.StatusBadRequest)
		return
	}
	id, err := repo.CreateEvolution(r.Context(), h.Pool, p.ID, req.Subjective, req.Objective, req.AssessmentNotes, req.Plan)
	if err != nil {
		log.Printf("[records] create evolution: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id.String(), "message": "Evolution recorded."})
}

func empty(s *string) bool { return s == nil || *s == "" }
