// Package render turns GeoJSON feature layers into self-contained
// interactive Leaflet maps.
package render

import (
	"github.com/samber/lo"
)

// TileLayer describes a raster basemap offered on rendered maps.
type TileLayer struct {
	Name        string
	URL         string
	Attribution string
	Subdomains  string
	MaxZoom     int
}

const cartoAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`

// TileLayers returns the built-in basemaps in display order. The first entry
// is the one shown when a map opens.
func TileLayers() []TileLayer {
	return []TileLayer{
		{
			Name:        "CartoDB Voyager",
			URL:         "https://{s}.basemaps.cartocdn.com/rastertiles/voyager/{z}/{x}/{y}{r}.png",
			Attribution: cartoAttribution,
			Subdomains:  "abcd",
			MaxZoom:     20,
		},
		{
			Name:        "CartoDB Positron",
			URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution: cartoAttribution,
			Subdomains:  "abcd",
			MaxZoom:     20,
		},
		{
			Name:        "CartoDB Dark Matter",
			URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
			Attribution: cartoAttribution,
			Subdomains:  "abcd",
			MaxZoom:     20,
		},
		{
			Name:        "ESRI World Imagery",
			URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution: "Tiles &copy; Esri &mdash; Source: Esri, i-cubed, USDA, USGS, AEX, GeoEye, Getmapping, Aerogrid, IGN, IGP, UPR-EGP, and the GIS User Community",
		},
		{
			Name:        "OpenStreetMap",
			URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
			Attribution: `Data by &copy; <a href="http://openstreetmap.org">OpenStreetMap</a>, under <a href="http://www.openstreetmap.org/copyright">ODbL</a>.`,
		},
	}
}

// TileLayerNames returns the built-in basemap names in display order.
func TileLayerNames() []string {
	return lo.Map(TileLayers(), func(tile TileLayer, _ int) string {
		return tile.Name
	})
}

// TileLayerByName looks up a built-in basemap by its display name.
func TileLayerByName(name string) (TileLayer, bool) {
	return lo.Find(TileLayers(), func(tile TileLayer) bool {
		return tile.Name == name
	})
}
