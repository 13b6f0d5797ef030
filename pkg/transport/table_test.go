package transport

import (
	"errors"
	"slices"
	"testing"
)

func testTable() *Table {
	// s2 and f3 are entirely empty and should be dropped by RemoveEmpty.
	return &Table{
		SampleIDs:  []string{"s1", "s2", "s3"},
		FeatureIDs: []string{"f1", "f2", "f3"},
		Values: [][]float64{
			{1, 0, 0},
			{0, 0, 0},
			{2, 3, 0},
		},
	}
}

func TestRemoveEmpty(t *testing.T) {
	md := &SampleMetadata{
		Columns: []string{"site"},
		Rows: map[string][]string{
			"s1": {"gut"},
			"s2": {"gut"},
			"s3": {"skin"},
		},
	}

	filtered, filteredMD, err := RemoveEmpty(testTable(), md, nil)
	if err != nil {
		t.Fatalf("RemoveEmpty: %v", err)
	}

	if want := []string{"s1", "s3"}; !slices.Equal(filtered.SampleIDs, want) {
		t.Errorf("SampleIDs = %v, want %v", filtered.SampleIDs, want)
	}
	if want := []string{"f1", "f2"}; !slices.Equal(filtered.FeatureIDs, want) {
		t.Errorf("FeatureIDs = %v, want %v", filtered.FeatureIDs, want)
	}
	if filtered.Values[1][1] != 3 {
		t.Errorf("Values[1][1] = %v, want 3", filtered.Values[1][1])
	}

	// Metadata rows follow the surviving samples.
	if _, ok := filteredMD.Rows["s2"]; ok {
		t.Error("dropped sample s2 still present in metadata")
	}
	if len(filteredMD.Rows) != 2 {
		t.Errorf("metadata rows = %d, want 2", len(filteredMD.Rows))
	}
}

func TestRemoveEmptyAllEmpty(t *testing.T) {
	empty := &Table{
		SampleIDs:  []string{"s1"},
		FeatureIDs: []string{"f1"},
		Values:     [][]float64{{0}},
	}
	if _, _, err := RemoveEmpty(empty, nil, nil); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("RemoveEmpty = %v, want ErrEmptyTable", err)
	}
}

func TestRemoveEmptyOrdinationMismatch(t *testing.T) {
	// s2 is empty; an ordination mentioning it means the upstream artifacts
	// disagree and the export must refuse.
	ord := &Ordination{SampleIDs: []string{"s1", "s2"}}
	if _, _, err := RemoveEmpty(testTable(), nil, ord); !errors.Is(err, ErrOrdinationMismatch) {
		t.Errorf("RemoveEmpty = %v, want ErrOrdinationMismatch", err)
	}

	ord = &Ordination{SampleIDs: []string{"s1"}, FeatureIDs: []string{"f3"}}
	if _, _, err := RemoveEmpty(testTable(), nil, ord); !errors.Is(err, ErrOrdinationMismatch) {
		t.Errorf("RemoveEmpty = %v, want ErrOrdinationMismatch", err)
	}
}

func TestRemoveEmptyOrdinationConsistent(t *testing.T) {
	ord := &Ordination{SampleIDs: []string{"s1", "s3"}, FeatureIDs: []string{"f1", "f2"}}
	if _, _, err := RemoveEmpty(testTable(), nil, ord); err != nil {
		t.Errorf("RemoveEmpty = %v, want nil", err)
	}
}

func TestCompressTable(t *testing.T) {
	tbl := &Table{
		SampleIDs:  []string{"s1", "s2"},
		FeatureIDs: []string{"f1", "f2", "f3"},
		Values: [][]float64{
			{1, 0, 4},
			{0, 2, 3},
		},
	}
	ct := CompressTable(tbl)

	// Rows hold ascending present-feature indices, not abundances.
	if want := []int{0, 2}; !slices.Equal(ct.Rows[0], want) {
		t.Errorf("Rows[0] = %v, want %v", ct.Rows[0], want)
	}
	if want := []int{1, 2}; !slices.Equal(ct.Rows[1], want) {
		t.Errorf("Rows[1] = %v, want %v", ct.Rows[1], want)
	}

	if ct.SampleIndex["s2"] != 1 {
		t.Errorf("SampleIndex[s2] = %d, want 1", ct.SampleIndex["s2"])
	}
	if ct.FeatureIndex["f3"] != 2 {
		t.Errorf("FeatureIndex[f3] = %d, want 2", ct.FeatureIndex["f3"])
	}
}
