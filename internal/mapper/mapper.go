// Package mapper projects Dota 2 world coordinates onto a rendering surface.
package mapper

import "github.com/golang/geo/r2"

// World coordinate domain shared by both axes.
const (
	WorldMin  = 60
	WorldMax  = 200
	WorldSpan = WorldMax - WorldMin + 1
)

// BaseMapWidth is the reference width of the map image in pixels.
const BaseMapWidth = 800

// World is the playable area in world coordinates.
var World = r2.RectFromPoints(r2.Point{X: WorldMin, Y: WorldMin}, r2.Point{X: WorldMax, Y: WorldMax})

// WorldToMap converts a world position to pixel coordinates on a surface of the given size.
// Y is inverted: world Y grows northward, pixel Y grows downward. Positions outside the
// world domain are not clamped and land outside [0,w]x[0,h].
func WorldToMap(x, y, w, h float64) (px, py float64) {
	normX := (x - WorldMin) / WorldSpan
	normY := (WorldMax - y) / WorldSpan
	return normX * w, normY * h
}

// Surface is a rendering target.
type Surface struct {
	Width, Height float64
}

// DefaultSurface matches the base map image.
var DefaultSurface = Surface{Width: BaseMapWidth, Height: BaseMapWidth}

// Project maps a world point onto the surface.
func (s Surface) Project(p r2.Point) r2.Point {
	x, y := WorldToMap(p.X, p.Y, s.Width, s.Height)
	return r2.Point{X: x, Y: y}
}

// Scale is the marker scale factor relative to the base map width, clamped to [0.25, 2].
func (s Surface) Scale() float64 {
	w := s.Width
	if w <= 0 {
		w = BaseMapWidth
	}
	scale := w / BaseMapWidth
	if scale < 0.25 {
		return 0.25
	}
	if scale > 2 {
		return 2
	}
	return scale
}

// InWorld reports whether the position lies inside the world domain.
func InWorld(x, y float64) bool {
	return World.ContainsPoint(r2.Point{X: x, Y: y})
}
