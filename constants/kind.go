package constants

// MeterKind is the utility type of a metering point.
type MeterKind string

const (
	Electricity MeterKind = "electricity"
	Gas         MeterKind = "gas"
)

// Valid reports whether k is a known meter kind.
func (k MeterKind) Valid() bool {
	return k == Electricity || k == Gas
}

// Provenance is the origin of a monthly record.
type Provenance string

// Stable values (stored in snapshots and the archive as-is).
const (
	SourceManual  Provenance = "manual"
	SourceCSV     Provenance = "csv"
	SourcePDFText Provenance = "pdf-text"
	SourcePDFOCR  Provenance = "pdf-ocr"
	SourceDemo    Provenance = "demo"
)
