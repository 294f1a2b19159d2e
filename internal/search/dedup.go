package search

import (
	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// Dedup drops records whose identity key was already seen, keeping the first
// occurrence. Running it twice changes nothing.
func Dedup(items []model.PriorArtRecord) []model.PriorArtRecord {
	seen := make(map[string]bool, len(items))
	out := make([]model.PriorArtRecord, 0, len(items))
	for _, it := range items {
		key := it.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// CountUniquePatents counts distinct normalized publication numbers across
// non-placeholder records, falling back to the /patent/<id> URL identifier.
func CountUniquePatents(items []model.PriorArtRecord) int {
	uniq := make(map[string]bool)
	for _, it := range items {
		if it.IsPlaceholder() {
			continue
		}
		pn := textutil.NormalizePatentNumber(it.PatentNumber)
		if pn == "" {
			pn = textutil.PatentNumberFromURL(it.URL)
		}
		if pn != "" {
			uniq[pn] = true
		}
	}
	return len(uniq)
}
