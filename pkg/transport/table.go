package transport

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptyTable is returned by [RemoveEmpty] when filtering leaves no
	// samples or features with any abundance at all.
	ErrEmptyTable = errors.New("all samples / features in matched table are empty")

	// ErrOrdinationMismatch is returned by [RemoveEmpty] when the ordination
	// references samples or features that are empty in the table. Empty
	// items should never have made it into an ordination.
	ErrOrdinationMismatch = errors.New("ordination contains empty samples or features")
)

// Table is a dense feature table: Values[i][j] is the abundance of feature j
// in sample i. Empty samples and features (all-zero rows/columns) should be
// removed with [RemoveEmpty] before compression.
type Table struct {
	SampleIDs  []string    `json:"sample_ids"`
	FeatureIDs []string    `json:"feature_ids"`
	Values     [][]float64 `json:"values"` // [sample][feature]
}

// Ordination is the slice of an ordination result the transport layer cares
// about: which sample and feature IDs it mentions. FeatureIDs may be nil for
// sample-only ordinations.
type Ordination struct {
	SampleIDs  []string `json:"sample_ids"`
	FeatureIDs []string `json:"feature_ids"`
}

// SampleMetadata holds per-sample metadata values as strings, one row per
// sample ID, in column order.
type SampleMetadata struct {
	Columns []string            `json:"columns"`
	Rows    map[string][]string `json:"rows"` // sample ID -> values, len == len(Columns)
}

// RemoveEmpty drops all-zero samples and features from the table and the
// corresponding rows from the sample metadata, returning filtered copies.
//
// This should run after the table and metadata have been matched, so the
// table's sample IDs and the metadata's row keys line up. If an ordination
// is given and any dropped sample or feature appears in it, RemoveEmpty
// rejects with ErrOrdinationMismatch: empty items in an ordination indicate
// inconsistent upstream artifacts, not something to silently patch over.
func RemoveEmpty(t *Table, md *SampleMetadata, ord *Ordination) (*Table, *SampleMetadata, error) {
	keepSample := make([]bool, len(t.SampleIDs))
	keepFeature := make([]bool, len(t.FeatureIDs))
	for i := range t.SampleIDs {
		for j := range t.FeatureIDs {
			if t.Values[i][j] > 0 {
				keepSample[i] = true
				keepFeature[j] = true
			}
		}
	}

	filtered := &Table{}
	featureCols := make([]int, 0, len(t.FeatureIDs))
	for j, keep := range keepFeature {
		if keep {
			filtered.FeatureIDs = append(filtered.FeatureIDs, t.FeatureIDs[j])
			featureCols = append(featureCols, j)
		}
	}
	for i, keep := range keepSample {
		if !keep {
			continue
		}
		filtered.SampleIDs = append(filtered.SampleIDs, t.SampleIDs[i])
		row := make([]float64, len(featureCols))
		for k, j := range featureCols {
			row[k] = t.Values[i][j]
		}
		filtered.Values = append(filtered.Values, row)
	}
	if len(filtered.SampleIDs) == 0 || len(filtered.FeatureIDs) == 0 {
		return nil, nil, ErrEmptyTable
	}

	if ord != nil {
		if bad := droppedInOrdination(t.SampleIDs, keepSample, ord.SampleIDs); len(bad) > 0 {
			return nil, nil, fmt.Errorf("%w: problematic sample IDs: %s",
				ErrOrdinationMismatch, strings.Join(bad, ", "))
		}
		if bad := droppedInOrdination(t.FeatureIDs, keepFeature, ord.FeatureIDs); len(bad) > 0 {
			return nil, nil, fmt.Errorf("%w: problematic feature IDs: %s",
				ErrOrdinationMismatch, strings.Join(bad, ", "))
		}
	}

	filteredMD := md
	if md != nil && len(filtered.SampleIDs) != len(t.SampleIDs) {
		filteredMD = &SampleMetadata{
			Columns: md.Columns,
			Rows:    make(map[string][]string, len(filtered.SampleIDs)),
		}
		for _, sid := range filtered.SampleIDs {
			filteredMD.Rows[sid] = md.Rows[sid]
		}
	}
	return filtered, filteredMD, nil
}

// droppedInOrdination returns, sorted, the IDs that were dropped (keep[i]
// false) yet appear in the ordination's ID list.
func droppedInOrdination(ids []string, keep []bool, ordIDs []string) []string {
	if len(ordIDs) == 0 {
		return nil
	}
	inOrd := make(map[string]bool, len(ordIDs))
	for _, id := range ordIDs {
		inOrd[id] = true
	}
	var bad []string
	for i, id := range ids {
		if !keep[i] && inOrd[id] {
			bad = append(bad, id)
		}
	}
	sort.Strings(bad)
	return bad
}

// CompressedTable is the space-saving table representation sent to the
// client: per-sample lists of present-feature indices instead of a dense
// matrix. Indices refer to positions in FeatureIDs.
type CompressedTable struct {
	SampleIDs    []string       `json:"s_ids"`
	FeatureIDs   []string       `json:"f_ids"`
	SampleIndex  map[string]int `json:"-"`
	FeatureIndex map[string]int `json:"-"`
	// Rows[i] lists, in ascending order, the indices of the features present
	// (abundance > 0) in the sample at index i.
	Rows [][]int `json:"table"`
}

// CompressTable converts a feature table to its transport form. Empty
// samples and features are assumed to have been removed already.
func CompressTable(t *Table) *CompressedTable {
	ct := &CompressedTable{
		SampleIDs:    append([]string(nil), t.SampleIDs...),
		FeatureIDs:   append([]string(nil), t.FeatureIDs...),
		SampleIndex:  make(map[string]int, len(t.SampleIDs)),
		FeatureIndex: make(map[string]int, len(t.FeatureIDs)),
		Rows:         make([][]int, len(t.SampleIDs)),
	}
	for i, sid := range t.SampleIDs {
		ct.SampleIndex[sid] = i
	}
	for j, fid := range t.FeatureIDs {
		ct.FeatureIndex[fid] = j
	}
	for i := range t.SampleIDs {
		row := make([]int, 0)
		for j := range t.FeatureIDs {
			if t.Values[i][j] > 0 {
				row = append(row, j)
			}
		}
		ct.Rows[i] = row
	}
	return ct
}
