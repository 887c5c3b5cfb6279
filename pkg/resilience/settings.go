package resilience

import (
	"time"

	"github.com/richxcame/carwash-booking/pkg/config"
)

// SettingsFromConfig builds breaker settings from the BREAKER_* knobs.
func SettingsFromConfig(name string, cfg config.BreakerConfig) Settings {
	return BuildSettings(name, cfg.IntervalSeconds, cfg.TimeoutSeconds, cfg.FailureThreshold, cfg.SuccessThreshold)
}

// BuildSettings produces a Settings struct from primitive tuning knobs.
// Non-positive values fall back to defaults.
func BuildSettings(name string, intervalSeconds, timeoutSeconds, failureThreshold, successThreshold int) Settings {
	interval := time.Duration(intervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if successThreshold <= 0 {
		successThreshold = 1
	}

	return Settings{
		Name:             name,
		Interval:         interval,
		Timeout:          timeout,
		FailureThreshold: uint32(failureThreshold),
		SuccessThreshold: uint32(successThreshold),
	}
}
