package opsboard

import (
	"fmt"
	"time"
)

// Config holds the configuration for the fleet operations board
type Config struct {
	SyncInterval    time.Duration
	TickInterval    time.Duration
	PublishInterval time.Duration
	SpeedMPS        float64
	DwellDuration   time.Duration
	BatteryFloor    float64
	HomeLat         float64
	HomeLon         float64
	Headless        bool
	LogLevel        string
}

// ValidateAndParse validates and parses the raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	config := &Config{
		SyncInterval:    5 * time.Second,
		TickInterval:    time.Second,
		PublishInterval: 2 * time.Second,
		SpeedMPS:        25,
		DwellDuration:   10 * time.Second,
		BatteryFloor:    15,
		HomeLat:         40.0444,
		HomeLon:         -76.3062,
		LogLevel:        "info",
	}

	var err error
	if config.SyncInterval, err = parseDurationParam(params, "sync_interval", config.SyncInterval); err != nil {
		return nil, err
	}
	if config.SyncInterval < time.Second || config.SyncInterval > 60*time.Second {
		return nil, fmt.Errorf("sync_interval must be between 1s and 60s")
	}

	if config.TickInterval, err = parseDurationParam(params, "tick_interval", config.TickInterval); err != nil {
		return nil, err
	}
	if config.TickInterval < 100*time.Millisecond || config.TickInterval > 10*time.Second {
		return nil, fmt.Errorf("tick_interval must be between 100ms and 10s")
	}

	if config.PublishInterval, err = parseDurationParam(params, "publish_interval", config.PublishInterval); err != nil {
		return nil, err
	}
	if config.PublishInterval < config.TickInterval {
		return nil, fmt.Errorf("publish_interval must not be finer than tick_interval")
	}

	if v, ok := params["speed_mps"]; ok {
		if config.SpeedMPS, err = toFloat(v); err != nil {
			return nil, fmt.Errorf("speed_mps must be a number")
		}
	}
	if config.SpeedMPS <= 0 || config.SpeedMPS > 100 {
		return nil, fmt.Errorf("speed_mps must be between 0 and 100")
	}

	if config.DwellDuration, err = parseDurationParam(params, "dwell_duration", config.DwellDuration); err != nil {
		return nil, err
	}
	if config.DwellDuration < time.Second || config.DwellDuration > 5*time.Minute {
		return nil, fmt.Errorf("dwell_duration must be between 1s and 5m")
	}

	if v, ok := params["battery_floor"]; ok {
		if config.BatteryFloor, err = toFloat(v); err != nil {
			return nil, fmt.Errorf("battery_floor must be a number")
		}
	}
	if config.BatteryFloor < 0 || config.BatteryFloor > 100 {
		return nil, fmt.Errorf("battery_floor must be between 0 and 100")
	}

	if v, ok := params["home_lat"]; ok {
		if config.HomeLat, err = toFloat(v); err != nil {
			return nil, fmt.Errorf("home_lat must be a number")
		}
	}
	if v, ok := params["home_lon"]; ok {
		if config.HomeLon, err = toFloat(v); err != nil {
			return nil, fmt.Errorf("home_lon must be a number")
		}
	}
	if config.HomeLat < -90 || config.HomeLat > 90 || config.HomeLon < -180 || config.HomeLon > 180 {
		return nil, fmt.Errorf("home position out of range")
	}

	if v, ok := params["headless"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("headless must be a boolean")
		}
		config.Headless = b
	}

	if v, ok := params["log_level"]; ok {
		config.LogLevel = fmt.Sprintf("%v", v)
	}

	return config, nil
}

func parseDurationParam(params map[string]interface{}, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s format: %w", key, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("%s must be a duration", key)
	}
}

func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
