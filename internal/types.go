package internal

import "errors"

// DescriptionNotFound is attached to reconciled records whose item code has no
// catalog entry. Unmatched codes are surfaced for review, never dropped.
const DescriptionNotFound = "NOT FOUND"

type ErrorKind string

const (
	ErrGridUnreadable    ErrorKind = "GRID_UNREADABLE"
	ErrHeaderNotFound    ErrorKind = "HEADER_NOT_FOUND"
	ErrColumnsIncomplete ErrorKind = "COLUMNS_INCOMPLETE"
	ErrEmptyRecordSet    ErrorKind = "EMPTY_RECORD_SET"
	ErrReferenceColumns  ErrorKind = "REFERENCE_COLUMNS_INCOMPLETE"
)

func (k ErrorKind) Error() string { return k.Reason() }

// Reason is the operator-facing explanation used in batch reports.
func (k ErrorKind) Reason() string {
	switch k {
	case ErrGridUnreadable:
		return "document could not be read as a cell grid"
	case ErrHeaderNotFound:
		return "header row not found within the scan window"
	case ErrColumnsIncomplete:
		return "required columns not found (No. de Caja, Número de Parte, Cantidad Empacada)"
	case ErrEmptyRecordSet:
		return "no data rows survived cleaning"
	case ErrReferenceColumns:
		return "reference catalog must contain DESPACHO, COD. and DESCRIPCION columns"
	default:
		return string(k)
	}
}

// KindOf maps an error from the document pipeline to its report category.
// Anything that is not a pipeline kind came from reading the source file.
func KindOf(err error) ErrorKind {
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return ErrGridUnreadable
}

// HeaderLocation identifies where the header block begins inside a grid and
// whether it spans one physical row or two (merged/split headers).
type HeaderLocation struct {
	StartRow int
	RowSpan  int
}

// RoleMap binds the three semantic roles to column indices. All three must be
// bound, to distinct columns, before extraction can run.
type RoleMap struct {
	GroupKey int
	ItemCode int
	Quantity int
}

type ExtractedRecord struct {
	GroupKey string
	ItemCode string
	Quantity float64
}

// ReconciledRecord is an extracted record joined against the reference
// catalog. The annotation fields stay blank; operators fill them by hand in
// the output workbook.
type ReconciledRecord struct {
	ExtractedRecord
	Description      string
	PhysicalQuantity string
	UnitOfMeasure    string
	UnitsPerPack     string
	ProductionOrder  string
	Lot              string
	Remark           string
}

type DocumentResult struct {
	DocumentName string
	SheetName    string
	Records      []ReconciledRecord
	Unmatched    []string
}

type DocumentFailure struct {
	DocumentName string
	Kind         ErrorKind
}

type ProcessingReport struct {
	Succeeded []DocumentResult
	Failed    []DocumentFailure
}

// RunRow is one batch run as recorded in the history store.
type RunRow struct {
	ID         int
	TraceID    string
	StartedAt  string
	DocsTotal  int
	DocsOK     int
	DocsFailed int
	Records    int
	Unmatched  int
	OutputPath string
}
