package config

import (
	"fmt"

	"github.com/tradeflowhq/tradeflow/logger"
)

// ServiceConfig contains the configuration fields every tradeflow binary
// needs. The application config embeds it and adds component sections.
//
// Example:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
type ServiceConfig struct {
	BaseConfig `yaml:",inline" mapstructure:",squash"`
	Logging    logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the embedded ServiceConfig. The method is
// promoted through embedding structs, so any application config exposes
// the service-level fields uniformly.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }

// ApplyDefaults applies defaults to the base and logging sections.
// Embedding structs override this and call it first.
func (c *ServiceConfig) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	c.Logging.ApplyDefaults()
}

// Validate checks the base and logging sections. Embedding structs
// override this and call it first.
func (c *ServiceConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
