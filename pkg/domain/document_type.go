package domain

import dErrors "docvault/pkg/domain-errors"

// DocumentType is a domain value that categorizes an uploaded document.
// The registry stores it as an opaque string; the allowlist exists so the
// presentation layer can render a recognized enumeration.
//
// Usage: construct via ParseDocumentType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type DocumentType string

// Supported document types.
const (
	DocumentTypeInsuranceCard     DocumentType = "insurance_card"
	DocumentTypeMedicalRecord     DocumentType = "medical_record"
	DocumentTypeIDProof           DocumentType = "id_proof"
	DocumentTypePrescription      DocumentType = "prescription"
	DocumentTypeLabResult         DocumentType = "lab_result"
	DocumentTypeVaccinationRecord DocumentType = "vaccination_record"
	DocumentTypeCertification     DocumentType = "certification"
	DocumentTypeOther             DocumentType = "other"
)

// validDocumentTypes is the single source of truth for valid document types.
var validDocumentTypes = map[DocumentType]bool{
	DocumentTypeInsuranceCard:     true,
	DocumentTypeMedicalRecord:     true,
	DocumentTypeIDProof:           true,
	DocumentTypePrescription:      true,
	DocumentTypeLabResult:         true,
	DocumentTypeVaccinationRecord: true,
	DocumentTypeCertification:     true,
	DocumentTypeOther:             true,
}

// ParseDocumentType constructs a DocumentType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseDocumentType(s string) (DocumentType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "document type cannot be empty")
	}
	t := DocumentType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid document type")
	}
	return t, nil
}

// IsValid checks if the document type is one of the supported enum values.
func (t DocumentType) IsValid() bool {
	return validDocumentTypes[t]
}

func (t DocumentType) String() string { return string(t) }
