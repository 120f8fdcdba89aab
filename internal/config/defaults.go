package config

const (
	defaultLogDir               = "~/.local/share/vigil/logs"
	defaultLogRetentionDays     = 60
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultMemoryThresholdMB    = 1024
	defaultPollIntervalMS       = 5000
	defaultNotifyRequestTimeout = 10
	defaultHistoryEnabled       = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Watch: Watch{
			MemoryThresholdMB: defaultMemoryThresholdMB,
			PollIntervalMS:    defaultPollIntervalMS,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
