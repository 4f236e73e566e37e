package stableswap

import "github.com/pkg/errors"

// Config bounds the Newton iterations of both solvers.
// It is set once per deployment, never per call.
type Config struct {
	MaxDIterations int `toml:"max_d_iterations" yaml:"max_d_iterations"`
	MaxYIterations int `toml:"max_y_iterations" yaml:"max_y_iterations"`
}

// DefaultConfig returns the bounds used by the package level functions
func DefaultConfig() Config {
	return Config{
		MaxDIterations: DefaultMaxDIterations,
		MaxYIterations: DefaultMaxYIterations,
	}
}

// Validate checks both bounds allow at least one iteration
func (cfg Config) Validate() error {
	if cfg.MaxDIterations <= 0 {
		return errors.Wrap(ErrInvalidConfig, "max_d_iterations")
	}
	if cfg.MaxYIterations <= 0 {
		return errors.Wrap(ErrInvalidConfig, "max_y_iterations")
	}
	return nil
}
