package simulation

import (
	"encoding/json"
	"fmt"
	"os"
)

// Validate checks the configuration for values the simulation cannot run with.
func (c Config) Validate() error {
	if c.Lanes < 1 {
		return fmt.Errorf("invalid lane count %d: need at least one lane", c.Lanes)
	}
	if c.LaneWidth <= 0 {
		return fmt.Errorf("invalid lane width %v: must be positive", c.LaneWidth)
	}
	if c.Vehicles < 0 {
		return fmt.Errorf("invalid vehicle count %d: must not be negative", c.Vehicles)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("invalid timestep %v: must be positive", c.Dt)
	}
	return nil
}

// LoadConfig reads a run configuration from a JSON scenario file.
// Fields absent from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to open scenario file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid scenario file %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("scenario %s: %w", filename, err)
	}
	return cfg, nil
}
