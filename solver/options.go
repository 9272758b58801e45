package solver

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/consensys/errprop/deriv"
	"github.com/consensys/errprop/logger"
)

// Option defines option for altering the behavior of the propagation engine
// (Solve). See the descriptions of functions returning instances of this
// type for implemented options.
type Option func(*Config) error

// Config is the configuration for the engine with the options applied.
type Config struct {
	Engine      deriv.Engine       // defaults to deriv.Symbolic()
	Logger      zerolog.Logger     // defaults to the errprop logger
	CheckValues bool               // defaults to false
	CheckTol    float64            // residual bound used when CheckValues is set
	ConstError  map[string]float64 // extra additive tolerance per variable
}

// WithEngine sets the differentiation capability used for values and partial
// derivatives. By default the exact symbolic engine is used; see
// deriv.FiniteDifference for the numeric alternative.
func WithEngine(e deriv.Engine) Option {
	return func(cfg *Config) error {
		if e == nil {
			return fmt.Errorf("nil differentiation engine")
		}
		cfg.Engine = e
		return nil
	}
}

// WithLogger specifies a zerolog.Logger as the destination for engine logs.
// zerolog.Nop() disables logging.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *Config) error {
		cfg.Logger = l
		return nil
	}
}

// WithValueCheck verifies, for every equation whose output value was supplied
// by the caller, that the forward evaluation agrees with that value within
// tol. A disagreement aborts the solve with ErrValueCheck. Off by default:
// supplied values are trusted.
func WithValueCheck(tol float64) Option {
	return func(cfg *Config) error {
		if !(tol > 0) || math.IsInf(tol, 0) {
			return fmt.Errorf("invalid value-check tolerance %v", tol)
		}
		cfg.CheckValues = true
		cfg.CheckTol = tol
		return nil
	}
}

// WithConstError adds a constant extra tolerance to the named variables: on
// top of the supplied tolerance for a boundary variable, on top of the
// propagated sum for a derived one. Magnitudes are used; the map is copied.
func WithConstError(extra map[string]float64) Option {
	return func(cfg *Config) error {
		if cfg.ConstError == nil {
			cfg.ConstError = make(map[string]float64, len(extra))
		}
		for name, v := range extra {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%q: constant error must be finite, got %v", name, v)
			}
			cfg.ConstError[name] = math.Abs(v)
		}
		return nil
	}
}

// NewConfig returns a default Config with the given options applied.
func NewConfig(opts ...Option) (Config, error) {
	log := logger.Logger()
	cfg := Config{
		Engine: deriv.Symbolic(),
		Logger: log,
	}
	for _, option := range opts {
		if err := option(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
