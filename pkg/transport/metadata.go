package transport

import (
	"errors"
	"sort"
)

var (
	// ErrSampleIDMismatch is returned by [CompressSampleMetadata] when the
	// metadata's sample IDs and the table's sample index do not contain the
	// exact same elements.
	ErrSampleIDMismatch = errors.New("sample IDs in metadata and sample index are not identical")

	// ErrBadSampleIndex is returned by [CompressSampleMetadata] when the
	// sample index's values are not a permutation of 0..n-1.
	ErrBadSampleIndex = errors.New("sample index values are invalid")

	// ErrFeatureMetadataHalfNil is returned by [CompressFeatureMetadata]
	// when only one of the tip and internal metadata sets is nil. Callers
	// must pass both or neither.
	ErrFeatureMetadataHalfNil = errors.New("only one of tip and internal feature metadata is nil")

	// ErrFeatureColumnMismatch is returned by [CompressFeatureMetadata] when
	// the tip and internal metadata column lists differ.
	ErrFeatureColumnMismatch = errors.New("tip and internal feature metadata columns differ")

	// ErrFeatureMetadataEmpty is returned by [CompressFeatureMetadata] when
	// both metadata sets are present but describe no nodes at all.
	ErrFeatureMetadataEmpty = errors.New("tip and internal feature metadata are both empty")
)

// CompressedSampleMetadata is the frequency-encoded sample metadata payload.
//
// Each row cell is either an int (an index into CommonValues) or a string
// (a value that occurs only once in the whole metadata). CommonValues holds
// every value used at least twice, in descending order of frequency, so the
// most repeated values get the shortest indices.
type CompressedSampleMetadata struct {
	Columns      []string `json:"sm_cols"`
	CommonValues []string `json:"common_vals"`
	// Rows is indexed by sample index; each inner slice has one cell per
	// column, holding int (common-value index) or string (unique value).
	Rows [][]any `json:"compressed_sm"`
}

// CompressSampleMetadata converts sample metadata into its transport form.
//
// sampleIndex maps sample IDs to their 0-based positions in the table's
// sample ID list (the SampleIndex of [CompressTable]'s result); the output
// rows are ordered by that index so the client can join metadata to table
// rows positionally. Frequency ties in the common-value pool are broken by
// ascending value so the encoding is deterministic.
func CompressSampleMetadata(sampleIndex map[string]int, md *SampleMetadata) (*CompressedSampleMetadata, error) {
	if len(sampleIndex) != len(md.Rows) {
		return nil, ErrSampleIDMismatch
	}
	for sid := range md.Rows {
		if _, ok := sampleIndex[sid]; !ok {
			return nil, ErrSampleIDMismatch
		}
	}

	seen := make([]bool, len(sampleIndex))
	for _, idx := range sampleIndex {
		if idx < 0 || idx >= len(seen) || seen[idx] {
			return nil, ErrBadSampleIndex
		}
		seen[idx] = true
	}

	// Order rows by sample index.
	ordered := make([][]string, len(sampleIndex))
	for sid, idx := range sampleIndex {
		ordered[idx] = md.Rows[sid]
	}

	// Pool every value used at least twice, most frequent first.
	counts := make(map[string]int)
	for _, row := range ordered {
		for _, v := range row {
			counts[v]++
		}
	}
	var pooled []string
	for v, ct := range counts {
		if ct > 1 {
			pooled = append(pooled, v)
		}
	}
	sort.Slice(pooled, func(i, j int) bool {
		if counts[pooled[i]] != counts[pooled[j]] {
			return counts[pooled[i]] > counts[pooled[j]]
		}
		return pooled[i] < pooled[j]
	})
	poolIndex := make(map[string]int, len(pooled))
	for i, v := range pooled {
		poolIndex[v] = i
	}

	out := &CompressedSampleMetadata{
		Columns:      append([]string(nil), md.Columns...),
		CommonValues: pooled,
		Rows:         make([][]any, len(ordered)),
	}
	for i, row := range ordered {
		cells := make([]any, len(row))
		for j, v := range row {
			if idx, ok := poolIndex[v]; ok {
				cells[j] = idx
			} else {
				cells[j] = v
			}
		}
		out.Rows[i] = cells
	}
	return out, nil
}

// FeatureMetadata holds per-node metadata values keyed by node name.
type FeatureMetadata struct {
	Columns []string            `json:"columns"`
	Rows    map[string][]string `json:"rows"` // node name -> values, len == len(Columns)
}

// CompressedFeatureMetadata is the transport form of tip and internal-node
// metadata: node-name keyed value lists sharing one column list.
type CompressedFeatureMetadata struct {
	Columns  []string            `json:"fm_cols"`
	Tips     map[string][]string `json:"compressed_tip_md"`
	Internal map[string][]string `json:"compressed_int_md"`
}

// CompressFeatureMetadata converts tip and internal-node metadata into their
// transport form.
//
// tip and internal must both be nil (no feature metadata at all, producing
// an empty payload) or both non-nil with identical column lists; when both
// are present at least one of them must describe some node. These are
// caller-contract violations, not data conditions, hence the hard errors.
func CompressFeatureMetadata(tip, internal *FeatureMetadata) (*CompressedFeatureMetadata, error) {
	if tip == nil && internal == nil {
		return &CompressedFeatureMetadata{
			Tips:     map[string][]string{},
			Internal: map[string][]string{},
		}, nil
	}
	if (tip == nil) != (internal == nil) {
		return nil, ErrFeatureMetadataHalfNil
	}
	if len(tip.Columns) != len(internal.Columns) {
		return nil, ErrFeatureColumnMismatch
	}
	for i := range tip.Columns {
		if tip.Columns[i] != internal.Columns[i] {
			return nil, ErrFeatureColumnMismatch
		}
	}
	if len(tip.Rows) == 0 && len(internal.Rows) == 0 {
		return nil, ErrFeatureMetadataEmpty
	}

	out := &CompressedFeatureMetadata{
		Columns:  append([]string(nil), tip.Columns...),
		Tips:     make(map[string][]string, len(tip.Rows)),
		Internal: make(map[string][]string, len(internal.Rows)),
	}
	for name, vals := range tip.Rows {
		out.Tips[name] = append([]string(nil), vals...)
	}
	for name, vals := range internal.Rows {
		out.Internal[name] = append([]string(nil), vals...)
	}
	return out, nil
}
