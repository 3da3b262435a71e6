// ABOUTME: Time-stratified sampling of message-like records
// ABOUTME: Bounds large histories to a representative subset before inference
package core

import (
	"sort"
	"time"
)

// Timestamped is any record the sampler can stratify by time.
type Timestamped interface {
	Timestamp() time.Time
}

const (
	// samplingThreshold is the size below which records pass through
	// unsampled.
	samplingThreshold = 50
	// sampleChunks is the number of contiguous time strata.
	sampleChunks = 5
	// perChunk is how many chunk-initial records each stratum contributes.
	perChunk = 3
	// DefaultSampleCap bounds the concatenated sample.
	DefaultSampleCap = 15
)

// Sample reduces records to a time-stratified subset of at most cap
// entries. At or below 50 records the input is returned unchanged.
// Otherwise records are sorted ascending by timestamp, split into 5
// contiguous chunks, and each chunk contributes its first min(3, size)
// records. Taking chunk-initial records is systematic rather than random
// so repeated runs over the same history sample identically; the skew
// toward chunk starts is accepted.
func Sample[T Timestamped](records []T, cap int) []T {
	if len(records) <= samplingThreshold {
		return records
	}
	if cap <= 0 {
		cap = DefaultSampleCap
	}

	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})

	var sampled []T
	for chunk := 0; chunk < sampleChunks; chunk++ {
		start := chunk * len(sorted) / sampleChunks
		end := (chunk + 1) * len(sorted) / sampleChunks
		take := perChunk
		if size := end - start; take > size {
			take = size
		}
		sampled = append(sampled, sorted[start:start+take]...)
	}

	if len(sampled) > cap {
		sampled = sampled[:cap]
	}
	return sampled
}
