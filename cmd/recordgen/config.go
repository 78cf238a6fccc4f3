package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envConfig holds defaults read from RECORDGEN_* environment variables.
// Command line flags override them.
type envConfig struct {
	Out         string        `envconfig:"OUT" default:"Input/input.txt"`
	Size        string        `envconfig:"SIZE" default:"2GiB"`
	Buffer      string        `envconfig:"BUFFER" default:"1MiB"`
	Workers     int           `envconfig:"WORKERS" default:"0"`
	MinID       int64         `envconfig:"MIN_ID" default:"1"`
	MaxID       int64         `envconfig:"MAX_ID" default:"10000000"`
	Words       string        `envconfig:"WORDS"`
	Terminator  string        `envconfig:"TERMINATOR" default:"lf"`
	Strategy    string        `envconfig:"STRATEGY" default:"parallel"`
	Seed        uint64        `envconfig:"SEED" default:"0"`
	Preallocate bool          `envconfig:"PREALLOCATE" default:"false"`
	Verify      bool          `envconfig:"VERIFY" default:"false"`
	Progress    bool          `envconfig:"PROGRESS" default:"true"`
	Monitor     time.Duration `envconfig:"MONITOR" default:"0s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	LogDev      bool          `envconfig:"LOG_DEV" default:"false"`
}

func loadEnvConfig() (*envConfig, error) {
	var cfg envConfig
	if err := envconfig.Process("recordgen", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// terminatorBytes maps a terminator name to its bytes.
func terminatorBytes(name string) (string, error) {
	switch name {
	case "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	default:
		return "", fmt.Errorf("unknown terminator %q (use lf or crlf)", name)
	}
}
