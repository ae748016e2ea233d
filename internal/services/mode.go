package services

// Mode tags every derived summary so presentation never blurs real evidence
// with defaults.
type Mode string

const (
	// ModeEarned marks a summary backed by enough independent plans.
	ModeEarned Mode = "earned"
	// ModePreview marks a summary built from static per-toolkit defaults.
	ModePreview Mode = "preview"
)

// DefaultMinDistinctPlans is the evidence threshold below which aggregators
// report insufficient evidence instead of a partial summary.
const DefaultMinDistinctPlans = 3

// DefaultEventWindow bounds how many raw events an aggregator pulls per pass.
const DefaultEventWindow = 500
