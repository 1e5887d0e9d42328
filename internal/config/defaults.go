package config

const (
	defaultDataDir           = "~/.local/share/canvass"
	defaultLogDir            = "~/.local/share/canvass/logs"
	defaultAPIBind           = "127.0.0.1:7823"
	defaultTelephonyBaseURL  = "https://api.twilio.com"
	defaultTelephonyTimeout  = 15
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultMaxRetries        = 0
	defaultSessionTTLMinutes = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Telephony: Telephony{
			BaseURL:        defaultTelephonyBaseURL,
			RequestTimeout: defaultTelephonyTimeout,
		},
		Survey: Survey{
			MaxRetries:        defaultMaxRetries,
			SessionTTLMinutes: defaultSessionTTLMinutes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
