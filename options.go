package scripting

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/engines"
	"github.com/robbyt/go-scripting/execution/script/loader"
	"github.com/robbyt/go-scripting/internal/helpers"
)

// config holds the collaborators shared by the evaluators
type config struct {
	loader     loader.Loader
	registry   engine.Lookup
	logHandler slog.Handler
	logger     *slog.Logger
}

// Option is a function that modifies the evaluator configuration
type Option func(*config) error

// WithLoader sets where script resources are read from. The default reads from the current
// working directory.
func WithLoader(l loader.Loader) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("loader cannot be nil")
		}
		c.loader = l
		return nil
	}
}

// WithRegistry sets the engines available for resolution. The default holds every built-in engine.
func WithRegistry(reg engine.Lookup) Option {
	return func(c *config) error {
		if reg == nil {
			return fmt.Errorf("registry cannot be nil")
		}
		c.registry = reg
		return nil
	}
}

// WithLogHandler sets the log handler for the evaluator and the default registry.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.logHandler = handler
		c.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for the evaluator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		c.logHandler = nil
		return nil
	}
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	if err := c.applyDefaults(); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// applyDefaults fills in whatever the options left unset.
func (c *config) applyDefaults() error {
	if c.logger != nil {
		c.logHandler = c.logger.Handler()
	} else {
		c.logHandler, c.logger = helpers.SetupLogger(c.logHandler, "scripting", "Evaluator")
	}

	if c.registry == nil {
		reg, err := engines.NewRegistry(c.logHandler)
		if err != nil {
			return err
		}
		c.registry = reg
	}

	if c.loader == nil {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		l, err := loader.NewFromDisk(wd)
		if err != nil {
			return err
		}
		c.loader = l
	}
	return nil
}

func (c *config) validate() error {
	if c.loader == nil {
		return fmt.Errorf("no loader specified")
	}
	if c.registry == nil {
		return fmt.Errorf("no registry specified")
	}
	return nil
}
