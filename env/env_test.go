package env

import (
	"testing"
)

func TestHexmapsEnv_Mode(t *testing.T) {
	tests := []struct {
		name     string
		env      HexmapsEnv
		expected string
	}{
		{
			name:     "production mode",
			env:      HexmapsEnv{mode: "production", modeExists: true},
			expected: "production",
		},
		{
			name:     "development mode",
			env:      HexmapsEnv{mode: "development", modeExists: true},
			expected: "development",
		},
		{
			name:     "debug mode",
			env:      HexmapsEnv{mode: "debug", modeExists: true},
			expected: "debug",
		},
		{
			name:     "empty mode",
			env:      HexmapsEnv{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.env.Mode()
			if result != tt.expected {
				t.Errorf("Mode() = %s, want %s", result, tt.expected)
			}
		})
	}
}

func TestHexmapsEnv_IsProductionMode(t *testing.T) {
	tests := []struct {
		name     string
		env      HexmapsEnv
		expected bool
	}{
		{
			name:     "explicit production",
			env:      HexmapsEnv{mode: "production", modeExists: true},
			expected: true,
		},
		{
			name:     "unset mode defaults to production",
			env:      HexmapsEnv{},
			expected: true,
		},
		{
			name:     "development is not production",
			env:      HexmapsEnv{mode: "development", modeExists: true},
			expected: false,
		},
		{
			name:     "debug is not production",
			env:      HexmapsEnv{mode: "debug", modeExists: true},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.env.IsProductionMode(); got != tt.expected {
				t.Errorf("IsProductionMode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewHexmapsEnv(t *testing.T) {
	t.Run("rejects unknown modes", func(t *testing.T) {
		t.Setenv("HEXMAPS_MODE", "staging")

		_, err := NewHexmapsEnv()
		if err == nil {
			t.Fatal("expected an error for an unknown mode")
		}
	})

	t.Run("accepts debug mode", func(t *testing.T) {
		t.Setenv("HEXMAPS_MODE", "debug")

		env, err := NewHexmapsEnv()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !env.IsDebugMode() {
			t.Error("expected debug mode")
		}
	})
}

func TestOverpassEndpoint(t *testing.T) {
	t.Setenv("HEXMAPS_OVERPASS_URL", "http://localhost:8080/api/interpreter")

	url, ok := OverpassEndpoint()
	if !ok {
		t.Fatal("expected override to be present")
	}
	if url != "http://localhost:8080/api/interpreter" {
		t.Errorf("unexpected endpoint %s", url)
	}
}
