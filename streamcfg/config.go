// Package streamcfg loads the node-wide defaults applied to a
// stream.StreamConfiguration before a client's per-request values override
// them, the same way go-ethereum's node loads its config.toml.
package streamcfg

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/apibara/dna/core"
	"github.com/apibara/dna/stream"
)

// Defaults holds the operator-configured fallback values for a
// StreamConfiguration. Fields left zero in a client's request are filled in
// from these before the subscription is created.
type Defaults struct {
	BatchSize int    `toml:"batch_size"`
	Finality  string `toml:"finality"`
}

// DefaultDefaults mirrors the original implementation's hardcoded fallback
// (a batch of 100 finalized blocks) for operators who ship no config file.
func DefaultDefaults() Defaults {
	return Defaults{BatchSize: 100, Finality: "finalized"}
}

// Load reads Defaults from a TOML file at path. A missing file is not an
// error: it returns DefaultDefaults(), matching geth's "absent config.toml
// means built-in defaults" behavior.
func Load(path string) (Defaults, error) {
	defaults := DefaultDefaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaults, nil
	}

	if _, err := toml.DecodeFile(path, &defaults); err != nil {
		return Defaults{}, fmt.Errorf("streamcfg: decoding %s: %w", path, err)
	}
	return defaults, nil
}

// finality parses the configured finality name, defaulting to
// core.FinalityFinalized for an empty or unrecognized value.
func (d Defaults) finality() core.Finality {
	switch d.Finality {
	case "accepted":
		return core.FinalityAccepted
	case "pending":
		return core.FinalityPending
	case "finalized", "":
		return core.FinalityFinalized
	default:
		return core.FinalityFinalized
	}
}

// Apply fills the zero-valued fields of cfg from d and returns the result.
// cfg's own StreamID, StartingCursor, and Filter are always preserved.
func (d Defaults) Apply(cfg stream.StreamConfiguration) stream.StreamConfiguration {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = d.BatchSize
	}
	if cfg.Finality == core.FinalityUnknown {
		cfg.Finality = d.finality()
	}
	return cfg
}
