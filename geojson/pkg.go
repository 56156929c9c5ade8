// Package geojson defines the feature protocol shared by the hexmaps domain
// types. Anything that can present itself as a GeoJSON feature implements
// Feature, and the helpers here turn features and collections of features
// into paulmach/orb GeoJSON documents.
package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/samber/lo"
)

// Feature is implemented by domain values that can be rendered as a GeoJSON
// feature. Properties must return a fresh map on every call so callers can
// mutate the result safely.
type Feature interface {
	Geometry() orb.Geometry
	Properties() orbjson.Properties
}

// Collection is implemented by domain values that expand into multiple
// features, e.g. a hex grid.
type Collection interface {
	Features() []Feature
}

// ToFeature converts a domain feature into an orb GeoJSON feature.
func ToFeature(feature Feature) *orbjson.Feature {
	f := orbjson.NewFeature(feature.Geometry())
	f.Properties = feature.Properties()
	return f
}

// ToFeatureCollection converts a slice of domain features into an orb GeoJSON
// feature collection, preserving order.
func ToFeatureCollection(features []Feature) *orbjson.FeatureCollection {
	collection := orbjson.NewFeatureCollection()
	collection.Features = lo.Map(features, func(f Feature, _ int) *orbjson.Feature {
		return ToFeature(f)
	})
	return collection
}

// CollectionToFeatureCollection expands a domain collection into an orb
// GeoJSON feature collection.
func CollectionToFeatureCollection(collection Collection) *orbjson.FeatureCollection {
	return ToFeatureCollection(collection.Features())
}

// ValidateDocument checks that raw JSON is a well-formed GeoJSON Feature or
// FeatureCollection document. A Feature must carry geometry and properties
// members; a FeatureCollection must carry a features member whose entries are
// themselves valid Features.
func ValidateDocument(data []byte) error {
	var document map[string]json.RawMessage
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("failed to parse GeoJSON document: %w", err)
	}

	switch documentType(document) {
	case "Feature":
		return validateFeatureMembers(document)
	case "FeatureCollection":
		return validateCollectionMembers(document)
	default:
		return fmt.Errorf("must be a valid 'Feature' or 'FeatureCollection'")
	}
}

func documentType(document map[string]json.RawMessage) string {
	var t string
	// A missing or non-string type falls through to the empty string.
	_ = json.Unmarshal(document["type"], &t)
	return t
}

func validateFeatureMembers(document map[string]json.RawMessage) error {
	if _, ok := document["geometry"]; !ok {
		return fmt.Errorf("missing geometry")
	}
	if _, ok := document["properties"]; !ok {
		return fmt.Errorf("missing properties")
	}
	return nil
}

func validateCollectionMembers(document map[string]json.RawMessage) error {
	raw, ok := document["features"]
	if !ok {
		return fmt.Errorf("missing features")
	}

	var features []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &features); err != nil {
		return fmt.Errorf("features must be an array of Feature objects: %w", err)
	}
	for i, feature := range features {
		if documentType(feature) != "Feature" {
			return fmt.Errorf("feature %d: type must be 'Feature'", i)
		}
		if err := validateFeatureMembers(feature); err != nil {
			return fmt.Errorf("feature %d: %w", i, err)
		}
	}
	return nil
}
