package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTelephony(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTelephony() error {
	if c.Telephony.AccountSID == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/canvass/config.toml"
		}
		return fmt.Errorf("telephony.account_sid is required. Set TWILIO_ACCOUNT_SID env var or edit %s (create with 'canvass config init')", defaultPath)
	}
	if c.Telephony.AuthToken == "" {
		return errors.New("telephony.auth_token is required (or set TWILIO_AUTH_TOKEN)")
	}
	if err := validateHTTPURL("telephony.base_url", c.Telephony.BaseURL); err != nil {
		return err
	}
	if c.Telephony.PublicURL != "" {
		if err := validateHTTPURL("telephony.public_url", c.Telephony.PublicURL); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func validateHTTPURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, value)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return fmt.Errorf("%s is missing a host: %q", field, value)
	}
	return nil
}
