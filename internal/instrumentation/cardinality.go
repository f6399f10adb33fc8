package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with calendar identifiers.

// ExtractAccountLabel reduces an account/source name to a stable lowercase
// label. Calendar names can be free-form user input; the account they belong
// to is a small fixed set and safe to use as a metric label.
//
// Example:
//
//	ExtractAccountLabel("iCloud")     // "icloud"
//	ExtractAccountLabel("Exchange ")  // "exchange"
//	ExtractAccountLabel("")           // "unknown"
func ExtractAccountLabel(account string) string {
	account = strings.ToLower(strings.TrimSpace(account))
	if account == "" {
		return "unknown"
	}
	return account
}

// TruncateLabel caps a label value at max runes to keep accidental free-form
// values from blowing up the label space.
func TruncateLabel(value string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
