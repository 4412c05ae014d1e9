// Package visibility decides which overlay points are on the map at a playback time
// and builds the per-frame view of them.
package visibility

import (
	"fmt"

	"github.com/pable/go-ward-overlay/internal/model"
)

// Lifetime returns the ward lifetime for a ward type code.
func Lifetime(wardType int) int {
	if wardType == model.WardSentry {
		return model.SentryLife
	}
	return model.ObsLife
}

// within is the shared half-open window check: start <= t < start+life.
func within(start, life, t int) bool {
	return start <= t && t < start+life
}

// IsActive reports whether the ward is on the map at time t.
func IsActive(p model.Point, t int) bool {
	return within(p.Time, Lifetime(p.Type), t)
}

// SmokeActive reports whether the smoke is in effect at time t.
func SmokeActive(s model.Smoke, t int) bool {
	return within(s.Time, model.SmokeLife, t)
}

// ActivePoints returns the wards active at t. The input is not modified.
func ActivePoints(points []model.Point, t int) []model.Point {
	out := make([]model.Point, 0, len(points))
	for _, p := range points {
		if IsActive(p, t) {
			out = append(out, p)
		}
	}
	return out
}

// ActiveSmokes returns the smokes active at t. The input is not modified.
func ActiveSmokes(smokes []model.Smoke, t int) []model.Smoke {
	out := make([]model.Smoke, 0, len(smokes))
	for _, s := range smokes {
		if SmokeActive(s, t) {
			out = append(out, s)
		}
	}
	return out
}

// Clock formats seconds as m:ss with a leading minus for pre-horn times.
func Clock(s int) string {
	sign := ""
	if s < 0 {
		sign = "-"
		s = -s
	}
	return fmt.Sprintf("%s%d:%02d", sign, s/60, s%60)
}
