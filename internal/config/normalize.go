package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTelephony(); err != nil {
		return err
	}
	c.normalizeSurvey()
	c.normalizeStorage()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeTelephony() error {
	if c.Telephony.AccountSID == "" {
		if value, ok := os.LookupEnv("TWILIO_ACCOUNT_SID"); ok {
			c.Telephony.AccountSID = value
		}
	}
	if c.Telephony.AuthToken == "" {
		if value, ok := os.LookupEnv("TWILIO_AUTH_TOKEN"); ok {
			c.Telephony.AuthToken = value
		}
	}
	c.Telephony.AccountSID = strings.TrimSpace(c.Telephony.AccountSID)
	c.Telephony.AuthToken = strings.TrimSpace(c.Telephony.AuthToken)
	c.Telephony.FromNumber = strings.TrimSpace(c.Telephony.FromNumber)
	c.Telephony.BaseURL = strings.TrimRight(strings.TrimSpace(c.Telephony.BaseURL), "/")
	if c.Telephony.BaseURL == "" {
		c.Telephony.BaseURL = defaultTelephonyBaseURL
	}
	c.Telephony.PublicURL = strings.TrimRight(strings.TrimSpace(c.Telephony.PublicURL), "/")
	if c.Telephony.RequestTimeout <= 0 {
		c.Telephony.RequestTimeout = defaultTelephonyTimeout
	}
	return nil
}

func (c *Config) normalizeSurvey() {
	if c.Survey.MaxRetries < 0 {
		c.Survey.MaxRetries = 0
	}
	if c.Survey.SessionTTLMinutes < 0 {
		c.Survey.SessionTTLMinutes = 0
	}
}

func (c *Config) normalizeStorage() {
	c.Storage.ArchivePath = strings.TrimSpace(c.Storage.ArchivePath)
	if c.Storage.ArchivePath != "" {
		if expanded, err := expandPath(c.Storage.ArchivePath); err == nil {
			c.Storage.ArchivePath = expanded
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
