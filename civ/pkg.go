// Package civ defines the Civilization VI terrain and feature vocabularies
// used to tag generated hex map cells.
package civ

// Terrain is a base terrain tag.
type Terrain string

const (
	TerrainOcean          Terrain = "TERRAIN_OCEAN"
	TerrainCoast          Terrain = "TERRAIN_COAST"
	TerrainDesert         Terrain = "TERRAIN_DESERT"
	TerrainDesertHills    Terrain = "TERRAIN_DESERT_HILLS"
	TerrainDesertMountain Terrain = "TERRAIN_DESERT_MOUNTAIN"
	TerrainPlains         Terrain = "TERRAIN_PLAINS"
	TerrainPlainsHills    Terrain = "TERRAIN_PLAINS_HILLS"
	TerrainPlainsMountain Terrain = "TERRAIN_PLAINS_MOUNTAIN"
	TerrainGrass          Terrain = "TERRAIN_GRASS"
	TerrainGrassHills     Terrain = "TERRAIN_GRASS_HILLS"
	TerrainGrassMountain  Terrain = "TERRAIN_GRASS_MOUNTAIN"
	TerrainTundra         Terrain = "TERRAIN_TUNDRA"
	TerrainTundraHills    Terrain = "TERRAIN_TUNDRA_HILLS"
	TerrainTundraMountain Terrain = "TERRAIN_TUNDRA_MOUNTAIN"
	TerrainSnow           Terrain = "TERRAIN_SNOW"
	TerrainSnowHills      Terrain = "TERRAIN_SNOW_HILLS"
	TerrainSnowMountain   Terrain = "TERRAIN_SNOW_MOUNTAIN"
)

// Feature is a map feature tag layered on top of a terrain.
type Feature string

const (
	FeatureReef                Feature = "FEATURE_REEF"
	FeatureOasis               Feature = "FEATURE_OASIS"
	FeatureFloodplains         Feature = "FEATURE_FLOODPLAINS"
	FeatureFloodplainsPlains   Feature = "FEATURE_FLOODPLAINS_PLAINS"
	FeatureFloodplainsGrass    Feature = "FEATURE_FLOODPLAINS_GRASSLAND"
	FeatureMarsh               Feature = "FEATURE_MARSH"
	FeatureJungle              Feature = "FEATURE_JUNGLE"
	FeatureForest              Feature = "FEATURE_FOREST"
	FeatureGeothermalFissure   Feature = "FEATURE_GEOTHERMAL_FISSURE"
	FeatureVolcano             Feature = "FEATURE_VOLCANO"
	FeatureIce                 Feature = "FEATURE_ICE"
)

// Terrains lists every terrain tag in declaration order.
func Terrains() []Terrain {
	return []Terrain{
		TerrainOcean, TerrainCoast,
		TerrainDesert, TerrainDesertHills, TerrainDesertMountain,
		TerrainPlains, TerrainPlainsHills, TerrainPlainsMountain,
		TerrainGrass, TerrainGrassHills, TerrainGrassMountain,
		TerrainTundra, TerrainTundraHills, TerrainTundraMountain,
		TerrainSnow, TerrainSnowHills, TerrainSnowMountain,
	}
}

// Features lists every feature tag in declaration order.
func Features() []Feature {
	return []Feature{
		FeatureReef, FeatureOasis,
		FeatureFloodplains, FeatureFloodplainsPlains, FeatureFloodplainsGrass,
		FeatureMarsh, FeatureJungle, FeatureForest,
		FeatureGeothermalFissure, FeatureVolcano, FeatureIce,
	}
}
