package transcript

import "github.com/maxdata/claude-code-log/transcript/models"

// SummaryIndex maps leafUuid back-references to summary text. The
// reference is weak: the referenced entry may be absent from the load
// the index was built from, and lookups against it simply miss.
type SummaryIndex map[string]string

// BuildSummaryIndex collects every summary entry of a load.
func BuildSummaryIndex(entries []models.Entry) SummaryIndex {
	index := make(SummaryIndex)
	for _, entry := range entries {
		if summary, ok := entry.(*models.SummaryEntry); ok {
			index[summary.LeafUUID] = summary.Summary
		}
	}
	return index
}

// Lookup returns the summary attached to the entry with the given
// uuid, if any.
func (ix SummaryIndex) Lookup(uuid string) (string, bool) {
	summary, ok := ix[uuid]
	return summary, ok
}
