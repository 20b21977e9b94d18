package scraper

import "sort"

// Assemble imposes the canonical output order on collected records:
// descending candidate ID, deduplicated, truncated to at most limit entries
// (limit <= 0 keeps everything). Completion order of concurrent fetches is
// unspecified, so sorting here is what makes the output deterministic.
func Assemble(records []CaseRecord, limit int) []CaseRecord {
	out := make([]CaseRecord, 0, len(records))
	seen := make(map[CandidateID]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
