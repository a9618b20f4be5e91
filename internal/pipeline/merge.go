package pipeline

import (
	"empaque/internal"
	"empaque/internal/catalog"
)

// Reconcile left-joins every extracted record against the reference catalog.
// The join is total: each input yields exactly one output, and a code with no
// catalog entry gets the NOT FOUND sentinel instead of being dropped. The
// second return value lists the distinct unmatched codes in first-seen order.
func Reconcile(records []internal.ExtractedRecord, cat *catalog.Catalog) ([]internal.ReconciledRecord, []string) {
	out := make([]internal.ReconciledRecord, 0, len(records))
	unmatched := []string{}
	seen := map[string]struct{}{}

	for _, rec := range records {
		desc, ok := cat.Lookup(rec.ItemCode)
		if !ok {
			desc = internal.DescriptionNotFound
			if _, dup := seen[rec.ItemCode]; !dup {
				seen[rec.ItemCode] = struct{}{}
				unmatched = append(unmatched, rec.ItemCode)
			}
		}
		out = append(out, internal.ReconciledRecord{
			ExtractedRecord: rec,
			Description:     desc,
		})
	}
	return out, unmatched
}
