package pipeline

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/listingkit/listingkit/pkg/fetch"
)

// Config holds the tunable knobs of a harvester. Zero values are filled
// from DefaultConfig before validation.
type Config struct {
	// Timeout bounds a single strategy request.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`

	// RetryAttempts is the per-strategy retry count.
	RetryAttempts int `mapstructure:"retry_attempts" validate:"min=1,max=10"`

	// RetryBase is the initial backoff delay, doubled per retry.
	RetryBase time.Duration `mapstructure:"retry_base" validate:"gt=0"`

	// MinDelay and MaxDelay bound the randomized pause before each
	// direct request.
	MinDelay time.Duration `mapstructure:"min_delay" validate:"gte=0"`
	MaxDelay time.Duration `mapstructure:"max_delay" validate:"gtefield=MinDelay"`

	// BatchDelay is the pause between consecutive batch items.
	BatchDelay time.Duration `mapstructure:"batch_delay" validate:"gte=0"`

	// UseBrowser appends the headless-browser strategy after the
	// structured-API one.
	UseBrowser bool `mapstructure:"use_browser"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:       15 * time.Second,
		RetryAttempts: 3,
		RetryBase:     time.Second,
		MinDelay:      2 * time.Second,
		MaxDelay:      5 * time.Second,
		BatchDelay:    3 * time.Second,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config, filling unset fields from defaults first.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = def.RetryAttempts
	}
	if c.RetryBase == 0 {
		c.RetryBase = def.RetryBase
	}
	if c.MinDelay == 0 && c.MaxDelay == 0 {
		c.MinDelay, c.MaxDelay = def.MinDelay, def.MaxDelay
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid pipeline config: %w", err)
	}
	return nil
}

// Option customizes a harvester beyond what Config covers.
type Option func(*Harvester)

// WithStrategies replaces the default strategy chain. Used by callers that
// need a custom chain and by tests that substitute stub strategies.
func WithStrategies(strategies ...fetch.Strategy) Option {
	return func(h *Harvester) {
		h.strategies = strategies
	}
}
