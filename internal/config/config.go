// # internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Exclude   Exclude   `toml:"exclude"`
	Modules   Modules   `toml:"modules"`
	Engine    Engine    `toml:"engine"`
	Output    Output    `toml:"output"`
	Telemetry Telemetry `toml:"telemetry"`
}

type Exclude struct {
	Paths []string `toml:"paths"` // glob patterns matched against repo-relative paths
}

type Modules struct {
	Depth       int `toml:"depth"` // 0 = infer from directory shape
	TargetFloor int `toml:"target_floor"`
	TargetCeil  int `toml:"target_ceil"`
}

type Engine struct {
	Timeout time.Duration `toml:"timeout"`
}

type Output struct {
	DOT      string `toml:"dot"`
	TSV      string `toml:"tsv"`
	Phantoms string `toml:"phantoms"` // TSV of unresolved internal-looking imports
}

type Telemetry struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Exclude: Exclude{
			Paths: []string{
				"**/node_modules/**",
				"**/vendor/**",
				"**/.git/**",
				"**/__pycache__/**",
			},
		},
		Modules: Modules{TargetFloor: 3, TargetCeil: 15},
		Engine:  Engine{Timeout: 2 * time.Minute},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if cfg.Modules.TargetFloor <= 0 {
		cfg.Modules.TargetFloor = 3
	}
	if cfg.Modules.TargetCeil < cfg.Modules.TargetFloor {
		cfg.Modules.TargetCeil = 15
	}
	if cfg.Modules.Depth < 0 {
		return nil, fmt.Errorf("modules.depth must be >= 0, got %d", cfg.Modules.Depth)
	}
	if cfg.Engine.Timeout <= 0 {
		cfg.Engine.Timeout = 2 * time.Minute
	}

	return cfg, nil
}
