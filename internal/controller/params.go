package controller

import (
	"time"
)

// stringParam extracts a string parameter, returning the fallback when the
// key is absent or not a string.
func stringParam(params map[string]any, key, fallback string) string {
	if params == nil {
		return fallback
	}
	if v, ok := params[key].(string); ok {
		return v
	}
	return fallback
}

// intParam extracts an integer parameter. JSON and YAML decoding produce a
// mix of int, int64, and float64, so all three are accepted.
func intParam(params map[string]any, key string, fallback int) int {
	if params == nil {
		return fallback
	}
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// durationParam extracts a duration parameter. Accepts time.Duration,
// duration strings ("5s"), and numeric seconds.
func durationParam(params map[string]any, key string, fallback time.Duration) time.Duration {
	if params == nil {
		return fallback
	}
	switch v := params[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		return fallback
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	default:
		return fallback
	}
}

// hasParam reports whether the key is present at all.
func hasParam(params map[string]any, key string) bool {
	if params == nil {
		return false
	}
	_, ok := params[key]
	return ok
}
