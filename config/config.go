// Package config holds the immutable configuration snapshot cloned into
// the motion engine at start (§9: "an immutable configuration snapshot
// is cloned into the engine at start; live reconfiguration is not
// required by the core").
package config

import "github.com/BurntSushi/toml"

// Config is the full set of tunables enumerated in spec §6, each with
// the default the spec names.
type Config struct {
	GlideDecayPerSecond      float64 `toml:"glide_decay_per_second"`
	MinimumGlideVelocity     float64 `toml:"minimum_glide_velocity"`
	GlideStopSpeedMultiplier float64 `toml:"glide_stop_speed_multiplier"`
	TrackpadVelocityGain     float64 `toml:"trackpad_velocity_gain"`
	MaxMomentumSpeed         float64 `toml:"max_momentum_speed"`
	MagnetismRadius          float64 `toml:"magnetism_radius"`
	MagneticStrength         float64 `toml:"magnetic_strength"`
	SnapThreshold            float64 `toml:"snap_threshold"`

	// TargetLockDistance is decoded for parity with spec §6's tunable
	// list but is not read by any §4 algorithm step; every lock-acquire
	// and lock-exit distance there derives from a target's own
	// minor/snap parameters (see DESIGN.md).
	TargetLockDistance      float64 `toml:"target_lock_distance"`
	TargetSwitchMinDistance float64 `toml:"target_switch_min_distance"`
	MagnetismEnabled        bool    `toml:"magnetism_enabled"`

	// PreBrakeEnabled gates the raw-delta pre-brake scaling of §4.4 step
	// 4. Per the spec's open question, this is exposed as a flag for
	// applications that do not want pointer-scale deformation.
	PreBrakeEnabled bool `toml:"pre_brake_enabled"`
}

// Default returns the compiled-in defaults from spec §6.
func Default() Config {
	return Config{
		GlideDecayPerSecond:      6.5,
		MinimumGlideVelocity:     220,
		GlideStopSpeedMultiplier: 0.45,
		TrackpadVelocityGain:     0.95,
		MaxMomentumSpeed:         9000,
		MagnetismRadius:          80,
		MagneticStrength:         0.65,
		SnapThreshold:            30,
		TargetLockDistance:       50,
		TargetSwitchMinDistance:  120,
		MagnetismEnabled:         true,
		PreBrakeEnabled:          true,
	}
}

// LoadFile returns Default() overlaid with any fields present in the TOML
// file at path. An empty path is not an error — Default() is already a
// complete, valid configuration; a non-empty path that cannot be read or
// decoded returns the error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
