// Package viz defines the unified serialization format handed to rendering
// clients.
//
// A [Payload] carries every layout's coordinates for every node
// simultaneously, keyed by the layout's coordinate suffix, so a client can
// switch layouts without recomputation. Node records are ordered by
// postorder position, matching how the transport encoding indexes table and
// metadata payloads back to tree nodes.
package viz

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/phyloscope/pkg/layout"
	"github.com/matzehuels/phyloscope/pkg/transport"
	"github.com/matzehuels/phyloscope/pkg/tree"
)

// Payload is the canonical serialization format for a laid-out tree.
// It is designed for round-trip fidelity: compute → export → re-import
// produces identical coordinates.
type Payload struct {
	// ID identifies one layout run, for correlating artifacts and cache
	// entries across tools.
	ID string `json:"id"`

	// Canvas dimensions the layouts were fitted to.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// UseLengths records whether input branch lengths were honored.
	UseLengths bool `json:"use_lengths"`

	// DefaultLayout is the display name of the layout to show first.
	DefaultLayout string `json:"default_layout"`

	// LayoutSuffixes maps layout display names to coordinate suffixes,
	// e.g. {"Rectangular": "r", "Unrooted": "2"}.
	LayoutSuffixes map[string]string `json:"layout_to_coordsuffix"`

	// Nodes holds per-node coordinates in postorder position order.
	Nodes []Node `json:"nodes"`

	// Tree is the compact topology encoding, populated by export.
	Tree *transport.TreeEncoding `json:"tree,omitempty"`

	// Optional table and metadata payloads, populated by export.
	Table           *transport.CompressedTable           `json:"table,omitempty"`
	SampleMetadata  *transport.CompressedSampleMetadata  `json:"sample_metadata,omitempty"`
	FeatureMetadata *transport.CompressedFeatureMetadata `json:"feature_metadata,omitempty"`
}

// Node is one tree node's share of the payload. Coordinate fields carry the
// layout suffix in their JSON names (xr/yr rectangular, x2/y2 unrooted),
// mirroring the attribute names clients address coordinates by.
type Node struct {
	Name string `json:"name"`

	XR float64 `json:"xr"`
	YR float64 `json:"yr"`

	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Angle float64 `json:"angle"`

	// Vertical connector extent in the rectangular layout, internal nodes
	// only.
	HighestChildYR *float64 `json:"highestchildyr,omitempty"`
	LowestChildYR  *float64 `json:"lowestchildyr,omitempty"`
}

// FromTree assembles a payload from a tree and its computed layouts.
// Node records are emitted in postorder position order.
func FromTree(t *tree.Tree, l *layout.Layouts, width, height float64, useLengths bool) *Payload {
	p := &Payload{
		ID:             uuid.NewString(),
		Width:          width,
		Height:         height,
		UseLengths:     useLengths,
		DefaultLayout:  l.DefaultName(),
		LayoutSuffixes: l.Suffixes(),
	}

	rect := l.Placements[layout.KindRectangular]
	unrooted := l.Placements[layout.KindUnrooted]
	for _, id := range t.Postorder() {
		n := Node{Name: t.Node(id).Name}
		if rect != nil {
			n.XR = rect.X[id]
			n.YR = rect.Y[id]
			if !t.IsTip(id) && l.HighestChildY != nil {
				hi, lo := l.HighestChildY[id], l.LowestChildY[id]
				n.HighestChildYR = &hi
				n.LowestChildYR = &lo
			}
		}
		if unrooted != nil {
			n.X2 = unrooted.X[id]
			n.Y2 = unrooted.Y[id]
			n.Angle = unrooted.Angle[id]
		}
		p.Nodes = append(p.Nodes, n)
	}
	return p
}

// Marshal serializes a payload to pretty-printed JSON bytes.
func Marshal(p *Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Unmarshal deserializes JSON bytes into a payload and validates that the
// required fields are present.
func Unmarshal(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if len(p.Nodes) == 0 {
		return nil, fmt.Errorf("payload must contain nodes")
	}
	if p.DefaultLayout == "" {
		return nil, fmt.Errorf("payload must name a default layout")
	}
	if _, ok := p.LayoutSuffixes[p.DefaultLayout]; !ok {
		return nil, fmt.Errorf("default layout %q missing from layout_to_coordsuffix", p.DefaultLayout)
	}
	return &p, nil
}

// WriteFile writes a payload to a JSON file with 0644 permissions.
func WriteFile(p *Payload, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a payload from a JSON file.
func ReadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
