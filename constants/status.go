package constants

// ExtractionMethod says how a candidate's values were obtained from a document.
type ExtractionMethod string

const (
	MethodText ExtractionMethod = "text" // direct page text
	MethodOCR  ExtractionMethod = "ocr"  // rasterized pages + OCR
)

// Provenance maps an extraction method to the record provenance tag.
func (m ExtractionMethod) Provenance() Provenance {
	if m == MethodOCR {
		return SourcePDFOCR
	}
	return SourcePDFText
}

// CandidateStatus is the human-facing outcome of a document extraction.
type CandidateStatus string

const (
	StatusOKVerify    CandidateStatus = "ok-verify"    // all bands found; review still advised
	StatusNeedsReview CandidateStatus = "needs-review" // extraction incomplete, edit before confirming
	StatusReadError   CandidateStatus = "read-error"   // document could not be opened at all
)
