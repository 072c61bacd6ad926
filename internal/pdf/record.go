package pdf

import (
	"bytes"
	"os"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// RecordData is everything the printable patient record carries: identity
// header, the intake assessment fields and the SOAP evolutions, newest first.
type RecordData struct {
	ClinicName  string
	PatientName string
	Phone       string
	BirthDate   string
	GeneratedAt string
	Assessment  []Field
	Evolutions  []EvolutionEntry
	// VerifyURL, when set, is rendered as a QR code in the footer so a
	// printed record links back to the live one.
	VerifyURL string
}

// Field is one labeled line of the assessment section. Empty values are
// skipped by the renderer.
type Field struct {
	Label string
	Value string
}

type EvolutionEntry struct {
	Date   string
	Fields []Field
}

func newDoc() *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()
	return doc
}

func sectionTitle(doc *fpdf.Fpdf, title string) {
	doc.Ln(2)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
}

func labeledLine(doc *fpdf.Fpdf, f Field) {
	if f.Value == "" {
		return
	}
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(40, 6, f.Label+":", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 6, f.Value, "", "", false)
}

func qrFooter(doc *fpdf.Fpdf, url string) {
	if url == "" {
		return
	}
	png, err := qrcode.Encode(url, qrcode.Medium, 128)
	if err != nil {
		return
	}
	tmp, err := os.CreateTemp("", "qr-*.png")
	if err != nil {
		return
	}
	_, _ = tmp.Write(png)
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)
	doc.Ln(4)
	doc.RegisterImage(path, "PNG")
	doc.Image(path, 15, doc.GetY(), 25, 25, false, "", 0, "")
	doc.SetY(doc.GetY() + 27)
	doc.SetFont("Helvetica", "", 8)
	doc.CellFormat(0, 5, url, "", 1, "L", false, 0, "")
}

// BuildPatientRecord renders the full clinical record as an A4 PDF.
func BuildPatientRecord(d RecordData) ([]byte, error) {
	doc := newDoc()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 9, d.ClinicName, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Clinical record - generated "+d.GeneratedAt, "", 1, "L", false, 0, "")
	doc.Ln(2)

	sectionTitle(doc, "Patient")
	labeledLine(doc, Field{Label: "Name", Value: d.PatientName})
	labeledLine(doc, Field{Label: "Phone", Value: d.Phone})
	labeledLine(doc, Field{Label: "Birth date", Value: d.BirthDate})

	sectionTitle(doc, "Initial assessment")
	wrote := false
	for _, f := range d.Assessment {
		if f.Value != "" {
			wrote = true
		}
		labeledLine(doc, f)
	}
	if !wrote {
		doc.CellFormat(0, 6, "No assessment recorded.", "", 1, "L", false, 0, "")
	}

	sectionTitle(doc, "Evolutions")
	if len(d.Evolutions) == 0 {
		doc.CellFormat(0, 6, "No evolutions recorded.", "", 1, "L", false, 0, "")
	}
	for _, e := range d.Evolutions {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(0, 6, e.Date, "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		for _, f := range e.Fields {
			labeledLine(doc, f)
		}
		doc.Ln(2)
	}

	qrFooter(doc, d.VerifyURL)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AgendaEntry is one printed agenda row.
type AgendaEntry struct {
	StartTime   string
	PatientName string
	Type        string
	Notes       string
}

// BuildDayAgenda renders the printable agenda for one day: a time-ordered
// table of that day's appointments.
func BuildDayAgenda(clinicName, date string, entries []AgendaEntry) ([]byte, error) {
	doc := newDoc()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 9, clinicName, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Agenda for "+date, "", 1, "L", false, 0, "")
	doc.Ln(4)

	if len(entries) == 0 {
		doc.CellFormat(0, 6, "No appointments scheduled.", "", 1, "L", false, 0, "")
	} else {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(20, 7, "Time", "B", 0, "L", false, 0, "")
		doc.CellFormat(70, 7, "Patient", "B", 0, "L", false, 0, "")
		doc.CellFormat(40, 7, "Type", "B", 0, "L", false, 0, "")
		doc.CellFormat(0, 7, "Notes", "B", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		for _, e := range entries {
			doc.CellFormat(20, 7, e.StartTime, "", 0, "L", false, 0, "")
			doc.CellFormat(70, 7, e.PatientName, "", 0, "L", false, 0, "")
			doc.CellFormat(40, 7, e.Type, "", 0, "L", false, 0, "")
			doc.CellFormat(0, 7, e.Notes, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
