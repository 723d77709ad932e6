package entity

import "time"

// Document type tags for system-generated artifacts. Uploaded documents
// carry their free-form content type instead.
const (
	DocTypeGenerated        = "generated"
	DocTypeGeneratedPDF     = "generated-pdf"
	DocTypeGeneratedSOAP    = "generated-soap"
	DocTypeGeneratedSummary = "generated-summary"
	DocTypeGeneratedXLSX    = "generated-xlsx"
)

// Document is an uploaded or generated artifact attached to a case.
type Document struct {
	DocID      string    `json:"doc_id"`
	CaseID     string    `json:"case_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type,omitempty"`
	Path       string    `json:"path"`
	PublicURL  string    `json:"public_url,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`

	// ExtractedText carries text pulled out of the uploaded file (PDF or
	// plain text) so the engine can scan it for ADA codes. Never persisted.
	ExtractedText string `json:"-"`
}

// Document role names under which the workflow context tracks artifacts.
const (
	DocRolePatientInfo   = "patient_info"
	DocRoleClinicalNotes = "clinical_notes"
	DocRoleAdditionalMD  = "additional_md"
	DocRoleSignedSOAP    = "signed_soap"
	DocRoleSOAPNote      = "soap_note"
	DocRoleSOAPNotePDF   = "soap_note_pdf"
	DocRoleFinalPackage  = "final_package"
	DocRoleFinalSummary  = "final_summary"
	DocRoleFinalWorkbook = "final_workbook"
)
