package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"empaque/internal"
	"empaque/internal/catalog"
	"empaque/internal/config"
	"empaque/internal/grid"
	"empaque/internal/storage"
)

// ProcessingService drives one batch: build the catalog, run every packing
// list through the extraction pipeline, fold the survivors into the bundle
// and record the run in the history store.
type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

// NewProcessingService wires the service. db may be nil when no history
// should be kept (tests, one-off runs).
func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type documentOutcome struct {
	result  *internal.DocumentResult
	failure *internal.DocumentFailure
}

// Run processes the batch and writes the bundle to outputPath. A catalog
// failure aborts before any document is touched; per-document failures land
// in the report and the batch continues. The bundle's sheet order and the
// CONSOLIDADO row order follow the order documents were supplied, regardless
// of worker count.
func (s *ProcessingService) Run(catalogPath string, documents []string, outputPath string) (internal.ProcessingReport, error) {
	startedAt := time.Now().UTC().Format(time.RFC3339)

	cat, err := s.loadCatalog(catalogPath)
	if err != nil {
		return internal.ProcessingReport{}, err
	}

	outcomes := make([]documentOutcome, len(documents))
	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(documents) {
		workers = len(documents)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.processDocument(documents[i], cat)
			}
		}()
	}
	for i := range documents {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Fold sequentially in input order so sheet naming and the aggregate
	// row order stay deterministic.
	agg := NewAggregator()
	report := internal.ProcessingReport{}
	for _, oc := range outcomes {
		if oc.failure != nil {
			report.Failed = append(report.Failed, *oc.failure)
			continue
		}
		agg.Add(*oc.result)
	}
	report.Succeeded = agg.Results()

	if len(report.Succeeded) > 0 {
		if err := agg.WriteBundle(outputPath); err != nil {
			return report, fmt.Errorf("write bundle: %w", err)
		}
	}

	if s.db != nil {
		_ = s.db.InsertRun(traceID(), startedAt, outputPath, report)
	}
	return report, nil
}

func (s *ProcessingService) loadCatalog(path string) (*catalog.Catalog, error) {
	g, err := grid.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reference catalog %s: %w", filepath.Base(path), err)
	}
	cat, err := catalog.Build(g)
	if err != nil {
		return nil, fmt.Errorf("reference catalog %s: %w", filepath.Base(path), err)
	}
	return cat, nil
}

func (s *ProcessingService) processDocument(path string, cat *catalog.Catalog) documentOutcome {
	name := filepath.Base(path)

	records, err := s.extractDocument(path)
	if err != nil {
		return documentOutcome{failure: &internal.DocumentFailure{
			DocumentName: name,
			Kind:         internal.KindOf(err),
		}}
	}

	reconciled, unmatched := Reconcile(records, cat)
	return documentOutcome{result: &internal.DocumentResult{
		DocumentName: name,
		Records:      reconciled,
		Unmatched:    unmatched,
	}}
}

func (s *ProcessingService) extractDocument(path string) ([]internal.ExtractedRecord, error) {
	g, err := grid.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrGridUnreadable, err)
	}
	loc, err := FindHeader(g, s.cfg.HeaderScanRows)
	if err != nil {
		return nil, err
	}
	roles, err := ClassifyColumns(HeaderCells(g, loc))
	if err != nil {
		return nil, err
	}
	records := ExtractRecords(g, loc.StartRow+loc.RowSpan, roles)
	if len(records) == 0 {
		return nil, internal.ErrEmptyRecordSet
	}
	return records, nil
}

// Inspection describes how the pipeline reads one document, for the CLI
// inspect command.
type Inspection struct {
	Header  internal.HeaderLocation
	Roles   internal.RoleMap
	Records int
}

// Inspect runs the extraction pipeline on a single document without touching
// the catalog or producing output.
func (s *ProcessingService) Inspect(path string) (Inspection, error) {
	g, err := grid.Load(path)
	if err != nil {
		return Inspection{}, fmt.Errorf("%w: %v", internal.ErrGridUnreadable, err)
	}
	loc, err := FindHeader(g, s.cfg.HeaderScanRows)
	if err != nil {
		return Inspection{}, err
	}
	roles, err := ClassifyColumns(HeaderCells(g, loc))
	if err != nil {
		return Inspection{}, err
	}
	records := ExtractRecords(g, loc.StartRow+loc.RowSpan, roles)
	return Inspection{Header: loc, Roles: roles, Records: len(records)}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
