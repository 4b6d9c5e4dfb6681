package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func (c *Config) validateConversion() error {
	switch c.Conversion.Scheme {
	case "", SchemeTemple:
	default:
		return fmt.Errorf("conversion.scheme %q is not supported (use %q or leave empty)", c.Conversion.Scheme, SchemeTemple)
	}
	if strings.ContainsAny(c.Conversion.AnnotationExtension, `/\`) {
		return errors.New("conversion.annotation_extension must not contain path separators")
	}
	if strings.ContainsAny(c.Conversion.RecordExtension, `/\`) {
		return errors.New("conversion.record_extension must not contain path separators")
	}
	return nil
}
