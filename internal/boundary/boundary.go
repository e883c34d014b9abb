// Package boundary resolves a map coordinate to the country whose border
// contains it, from a GeoJSON FeatureCollection of country polygons.
package boundary

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/playperu/defenceguesser/internal/defence"
)

// NameProperty is the feature property holding the country label.
const NameProperty = "name"

type region struct {
	name  string
	bound orb.Bound
	geom  orb.Geometry
}

// Index answers point-in-country queries. It is read-only after Parse and
// safe for concurrent use.
type Index struct {
	regions []region
}

func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading boundaries: %w", err)
	}
	return Parse(data)
}

// Parse builds an index from GeoJSON. Features without a name or without a
// Polygon/MultiPolygon geometry are skipped.
func Parse(data []byte) (*Index, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding boundaries: %w", err)
	}

	idx := &Index{}
	for _, f := range fc.Features {
		name := f.Properties.MustString(NameProperty, "")
		if name == "" || f.Geometry == nil {
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}
		idx.regions = append(idx.regions, region{
			name:  name,
			bound: f.Geometry.Bound(),
			geom:  f.Geometry,
		})
	}
	if len(idx.regions) == 0 {
		return nil, fmt.Errorf("decoding boundaries: no country polygons")
	}
	return idx, nil
}

// Len returns the number of indexed countries.
func (idx *Index) Len() int { return len(idx.regions) }

// Lookup returns the label of the first country containing c. Points in
// the sea, or outside every polygon, report false.
func (idx *Index) Lookup(c defence.Coords) (string, bool) {
	p := orb.Point{c.Lng, c.Lat}
	for _, r := range idx.regions {
		if !r.bound.Contains(p) {
			continue
		}
		if contains(r.geom, p) {
			return r.name, true
		}
	}
	return "", false
}

func contains(g orb.Geometry, p orb.Point) bool {
	switch g := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	}
	return false
}
