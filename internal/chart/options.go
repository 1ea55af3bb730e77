// Package chart recovers chart-of-accounts rows from CHART and CHARTAR buffers.
package chart

// Options controls token extraction and name pairing over the CHART buffer.
type Options struct {
	MinTokenLen int `yaml:"min_token_len"`
	MaxTokenLen int `yaml:"max_token_len"`
	NameWindow  int `yaml:"name_window"` // tokens after a number searched for its name

	Anchors []string `yaml:"anchors"` // account names used to locate records for Candidates
}

// BalanceOptions controls the balance search over the CHARTAR buffer.
type BalanceOptions struct {
	Window       int     `yaml:"window"`        // bytes scanned after each number occurrence
	MinMagnitude float64 `yaml:"min_magnitude"` // exclusive
	MaxMagnitude float64 `yaml:"max_magnitude"` // exclusive

	SentinelMaxMagnitude float64 `yaml:"sentinel_max_magnitude"`
	SentinelLookBehind   int     `yaml:"sentinel_look_behind"`
}

// DefaultOptions returns the chart defaults.
func DefaultOptions() Options {
	return Options{MinTokenLen: 3, MaxTokenLen: 60, NameWindow: 4, Anchors: DefaultAnchors()}
}

// DefaultBalanceOptions returns the balance defaults.
func DefaultBalanceOptions() BalanceOptions {
	return BalanceOptions{
		Window:               100,
		MinMagnitude:         1,
		MaxMagnitude:         1e12,
		SentinelMaxMagnitude: 1e8,
		SentinelLookBehind:   50,
	}
}
