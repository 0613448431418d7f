package graph

import "time"

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeIcicle   = "icicle"
	VizTypeNodelink = "nodelink"
)

// Visual styles for rendering.
const (
	StylePackage = "package"
	StyleHeat    = "heat"
)

// micros converts a duration to whole microseconds for serialization.
func micros(d time.Duration) int64 { return d.Microseconds() }

// fromMicros converts serialized microseconds back to a duration.
func fromMicros(us int64) time.Duration { return time.Duration(us) * time.Microsecond }
