package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWatch() error {
	if len(c.RequiredProcesses()) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/vigil/config.toml"
		}
		return fmt.Errorf("watch.processes must list at least one process name. Edit %s (create with 'vigil config init')", defaultPath)
	}
	if c.Watch.MemoryThresholdMB <= 0 {
		return errors.New("watch.memory_threshold_mb must be positive")
	}
	if c.Watch.PollIntervalMS <= 0 {
		return errors.New("watch.poll_interval_ms must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	return nil
}
