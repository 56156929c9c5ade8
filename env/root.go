// Package env provides environment configuration utilities for the hexmaps CLI.
// It exposes the runtime mode (development, production or debug) and the
// Overpass endpoint override read from the process environment.
package env

import (
	"fmt"
	"os"

	"github.com/samber/lo"
)

const _HEXMAPS_MODE_ENV_KEY = "HEXMAPS_MODE"

// _OVERPASS_URL_ENV_KEY overrides the default Overpass API interpreter endpoint.
const _OVERPASS_URL_ENV_KEY = "HEXMAPS_OVERPASS_URL"

var allowedModes = []string{"development", "production", "debug"}

type HexmapsEnv struct {
	mode       string
	modeExists bool
}

// NewHexmapsEnv reads HEXMAPS_MODE from the environment and validates it.
// An unset mode is treated as production so that scripts behave predictably
// outside a development checkout.
func NewHexmapsEnv() (HexmapsEnv, error) {
	mode, ok := os.LookupEnv(_HEXMAPS_MODE_ENV_KEY)

	if mode != "" && !lo.Contains(allowedModes, mode) {
		return HexmapsEnv{}, fmt.Errorf("wrong hexmaps mode the only allowed modes are %v", allowedModes)
	}

	return HexmapsEnv{mode, ok}, nil
}

// Mode returns the current mode string (e.g., "production", "development").
func (e HexmapsEnv) Mode() string {
	return e.mode
}

func (e HexmapsEnv) IsDebugMode() bool {
	return e.mode == "debug"
}

func (env HexmapsEnv) IsDevelopmentMode() bool {
	return env.mode == "development"
}

func (env HexmapsEnv) IsProductionMode() bool {
	return env.mode == "production" || !env.modeExists
}

func (env HexmapsEnv) ExecuteIfModeIsProduction(cb func()) {
	if env.IsProductionMode() {
		cb()
	}
}

// OverpassEndpoint returns the configured Overpass interpreter URL and whether
// an override was present in the environment.
func OverpassEndpoint() (string, bool) {
	return os.LookupEnv(_OVERPASS_URL_ENV_KEY)
}
