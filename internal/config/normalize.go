package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeLogging()
	c.normalizeConversion()
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("EDFCONV_LOG_FORMAT"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Format = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("EDFCONV_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeConversion() {
	if value, ok := os.LookupEnv("EDFCONV_SCHEME"); ok {
		c.Conversion.Scheme = value
	}
	c.Conversion.Scheme = strings.ToLower(strings.TrimSpace(c.Conversion.Scheme))
	c.Conversion.AnnotationExtension = normalizeExtension(c.Conversion.AnnotationExtension, defaultAnnotationExtension)
	c.Conversion.RecordExtension = normalizeExtension(c.Conversion.RecordExtension, defaultRecordExtension)
}

func normalizeExtension(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if !strings.HasPrefix(value, ".") {
		value = "." + value
	}
	return value
}
