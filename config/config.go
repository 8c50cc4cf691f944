// Package config loads the declarative configuration this core needs
// before it can be instantiated: the reset vector, the hart id, and the
// policy flags the spec leaves open (misaligned-access handling, branch
// predictor mode). It favours the same small declarative-struct shape the
// teacher uses for its own preferences, expressed as YAML rather than the
// teacher's own preferences file format, so the core can be configured
// from a plain human-editable file without pulling in a general-purpose
// preferences framework.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hdl2go/rv32pipe/coreerr"
)

// MisalignedPolicy names how a load/store whose address is not naturally
// aligned to its width is handled (spec section 9, open question). Validate
// accepts both values, but the core does not read this field: every
// misaligned access is handled as MisalignedTolerate describes.
type MisalignedPolicy string

// List of defined misaligned-access policies.
const (
	// MisalignedTolerate performs the access without raising an exception.
	// Only the bytes inside the aligned 4-byte word that contains the
	// address are read or written; bytes that would fall past the end of
	// that word are not accessed. This is the default.
	MisalignedTolerate MisalignedPolicy = "tolerate"
	// MisalignedTrap names a misaligned-access exception (mcause 4 or 6).
	// The core does not raise that exception; selecting this value behaves
	// the same as MisalignedTolerate.
	MisalignedTrap MisalignedPolicy = "trap"
)

// PredictorMode selects the fetch-stage branch prediction strategy (spec
// section 4.L).
type PredictorMode string

// List of defined predictor modes.
const (
	// PredictorStatic is the contract: always predict not-taken.
	PredictorStatic PredictorMode = "static"
	// PredictorBTB enables the optional 2-bit BHT + direct-mapped BTB.
	PredictorBTB PredictorMode = "btb"
)

// Config is the full set of parameters needed to instantiate a Core.
type Config struct {
	HartID      uint32           `yaml:"hart_id"`
	ResetVector uint32           `yaml:"reset_vector"`
	Misaligned  MisalignedPolicy `yaml:"misaligned_policy"`
	Predictor   PredictorMode    `yaml:"predictor_mode"`
	BTBEntries  int              `yaml:"btb_entries"`

	// Telemetry toggles the optional statsview dashboard (see the
	// telemetry package). Off by default; when enabled it listens on
	// TelemetryListen, which defaults to the loopback address
	// 127.0.0.1:18080. Any other address given there is used as is.
	Telemetry       bool   `yaml:"telemetry"`
	TelemetryListen string `yaml:"telemetry_listen"`
}

// Default returns the configuration this core uses absent an explicit file:
// reset vector 0x80000000 (spec section 6, "conventional value"), hart 0,
// the tolerant misaligned-access policy (source tolerates them), and the
// static not-taken predictor (the spec's contract).
func Default() Config {
	return Config{
		HartID:          0,
		ResetVector:     0x80000000,
		Misaligned:      MisalignedTolerate,
		Predictor:       PredictorStatic,
		BTBEntries:      64,
		Telemetry:       false,
		TelemetryListen: "127.0.0.1:18080",
	}
}

// Load reads a YAML configuration file, overlaying it onto Default() so a
// file only needs to mention the fields it wants to change.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, coreerr.Errorf(coreerr.ConfigFileError, "%v", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, coreerr.Errorf(coreerr.ConfigInvalid, "%v", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the policy fields hold one of their defined values.
func (c Config) Validate() error {
	switch c.Misaligned {
	case MisalignedTolerate, MisalignedTrap:
	default:
		return coreerr.Errorf(coreerr.ConfigInvalid, "unknown misaligned_policy %q", c.Misaligned)
	}

	switch c.Predictor {
	case PredictorStatic, PredictorBTB:
	default:
		return coreerr.Errorf(coreerr.ConfigInvalid, "unknown predictor_mode %q", c.Predictor)
	}

	return nil
}
