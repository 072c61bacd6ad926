package pdf

import (
	"bytes"
	"testing"
)

func TestBuildPatientRecord(t *testing.T) {
	b, err := BuildPatientRecord(RecordData{
		ClinicName:  "FisioManager",
		PatientName: "Ana Souza",
		GeneratedAt: "2024-03-30 10:00",
		Assessment:  []Field{{Label: "Complaint", Value: "Shoulder pain"}},
		Evolutions: []EvolutionEntry{
			{Date: "2024-03-30", Fields: []Field{{Label: "S", Value: "Reports improvement"}}},
		},
	})
	if err != nil {
		t.Fatalf("BuildPatientRecord: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestBuildDayAgenda_Empty(t *testing.T) {
	b, err := BuildDayAgenda("FisioManager", "2024-03-30", nil)
	if err != nil {
		t.Fatalf("BuildDayAgenda: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}
