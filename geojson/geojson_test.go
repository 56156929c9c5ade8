package geojson

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
)

type pointFeature struct {
	point orb.Point
	name  string
}

func (f pointFeature) Geometry() orb.Geometry {
	return f.point
}

func (f pointFeature) Properties() orbjson.Properties {
	return orbjson.Properties{"name": f.name}
}

type pairCollection struct {
	features []Feature
}

func (c pairCollection) Features() []Feature {
	return c.features
}

func TestToFeature(t *testing.T) {
	feature := ToFeature(pointFeature{point: orb.Point{2.35, 48.85}, name: "paris"})

	assert.Equal(t, orb.Point{2.35, 48.85}, feature.Geometry)
	assert.Equal(t, "paris", feature.Properties["name"])
}

func TestToFeatureCollection(t *testing.T) {
	collection := ToFeatureCollection([]Feature{
		pointFeature{point: orb.Point{0, 0}, name: "a"},
		pointFeature{point: orb.Point{1, 1}, name: "b"},
	})

	assert.Len(t, collection.Features, 2)
	assert.Equal(t, "a", collection.Features[0].Properties["name"])
	assert.Equal(t, "b", collection.Features[1].Properties["name"])

	data, err := json.Marshal(collection)
	assert.NoError(t, err)
	assert.NoError(t, ValidateDocument(data))
}

func TestCollectionToFeatureCollection(t *testing.T) {
	collection := CollectionToFeatureCollection(pairCollection{features: []Feature{
		pointFeature{point: orb.Point{0, 0}, name: "only"},
	}})

	assert.Len(t, collection.Features, 1)
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name: "valid feature",
			data: `{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{}}`,
		},
		{
			name: "valid feature collection",
			data: `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null,"properties":{}}]}`,
		},
		{
			name: "valid empty collection",
			data: `{"type":"FeatureCollection","features":[]}`,
		},
		{
			name:    "feature missing geometry",
			data:    `{"type":"Feature","properties":{}}`,
			wantErr: "missing geometry",
		},
		{
			name:    "feature missing properties",
			data:    `{"type":"Feature","geometry":null}`,
			wantErr: "missing properties",
		},
		{
			name:    "collection missing features",
			data:    `{"type":"FeatureCollection"}`,
			wantErr: "missing features",
		},
		{
			name:    "collection with invalid member",
			data:    `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null}]}`,
			wantErr: "feature 0: missing properties",
		},
		{
			name:    "unknown document type",
			data:    `{"type":"GeometryCollection","geometries":[]}`,
			wantErr: "must be a valid 'Feature' or 'FeatureCollection'",
		},
		{
			name:    "not json",
			data:    `{{`,
			wantErr: "failed to parse GeoJSON document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument([]byte(tt.data))

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
