package visibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"

	"github.com/pable/go-ward-overlay/internal/mapper"
	"github.com/pable/go-ward-overlay/internal/model"
)

// TimelineStart is the earliest scrubbable time, one minute before the horn.
const TimelineStart = -60

// Timeline bounds the playback time for a point set.
type Timeline struct {
	Start, End int
}

// NewTimeline ends at the latest ward placement, or at 0 when there are none.
func NewTimeline(points []model.Point) Timeline {
	end := 0
	for i, p := range points {
		if i == 0 || p.Time > end {
			end = p.Time
		}
	}
	if end < TimelineStart {
		end = TimelineStart
	}
	return Timeline{Start: TimelineStart, End: end}
}

// Clamp pins t to the timeline.
func (tl Timeline) Clamp(t int) int {
	if t > tl.End {
		return tl.End
	}
	if t < tl.Start {
		return tl.Start
	}
	return t
}

// Marker is one drawable point on the surface.
type Marker struct {
	Kind      string  `json:"kind"` // "sentry", "observer" or "smoke"
	WorldX    float64 `json:"worldX"`
	WorldY    float64 `json:"worldY"`
	PixelX    float64 `json:"pixelX"`
	PixelY    float64 `json:"pixelY"`
	Time      int     `json:"time"`
	Clock     string  `json:"clock"`
	ExpiresAt int     `json:"expiresAt"`
	IsRadiant bool    `json:"isRadiant"`
	Active    bool    `json:"active"`
	OffMap    bool    `json:"offMap"`
}

// Options controls frame construction.
type Options struct {
	Surface mapper.Surface
	// ShowAllSmokes draws every smoke regardless of time; inactive ones are flagged.
	ShowAllSmokes bool
}

// Frame is the view of a point set at one playback time.
type Frame struct {
	Time         int      `json:"time"`
	Clock        string   `json:"clock"`
	Timeline     Timeline `json:"timeline"`
	Scale        float64  `json:"scale"`
	Wards        []Marker `json:"wards"`
	Smokes       []Marker `json:"smokes"`
	ActiveSmokes int      `json:"activeSmokes"`
	Status       string   `json:"status"`
}

// Snapshot builds the frame at time t, clamped to the point set's timeline.
// Inputs are read only; the frame shares nothing with them.
func Snapshot(points []model.Point, smokes []model.Smoke, t int, opts Options) Frame {
	if opts.Surface.Width <= 0 || opts.Surface.Height <= 0 {
		opts.Surface = mapper.DefaultSurface
	}
	tl := NewTimeline(points)
	t = tl.Clamp(t)

	f := Frame{
		Time:     t,
		Clock:    Clock(t),
		Timeline: tl,
		Scale:    opts.Surface.Scale(),
		Wards:    []Marker{},
		Smokes:   []Marker{},
	}
	for _, p := range points {
		if !IsActive(p, t) {
			continue
		}
		kind := "observer"
		if p.IsSentry() {
			kind = "sentry"
		}
		f.Wards = append(f.Wards, marker(opts.Surface, kind, p.X, p.Y, p.Time, p.Lifetime(), p.IsRadiant, true))
	}
	for _, s := range smokes {
		active := SmokeActive(s, t)
		if active {
			f.ActiveSmokes++
		}
		if !active && !opts.ShowAllSmokes {
			continue
		}
		f.Smokes = append(f.Smokes, marker(opts.Surface, model.KindSmoke, s.X, s.Y, s.Time, s.Lifetime(), s.IsRadiant, active))
	}
	f.Status = fmt.Sprintf("%d wards @ %s (max %s)", len(f.Wards), f.Clock, Clock(tl.End))
	return f
}

func marker(s mapper.Surface, kind string, x, y float64, t, life int, radiant, active bool) Marker {
	px := s.Project(r2.Point{X: x, Y: y})
	return Marker{
		Kind:      kind,
		WorldX:    x,
		WorldY:    y,
		PixelX:    px.X,
		PixelY:    px.Y,
		Time:      t,
		Clock:     Clock(t),
		ExpiresAt: t + life,
		IsRadiant: radiant,
		Active:    active,
		OffMap:    !mapper.InWorld(x, y),
	}
}

// ParseClock reads "m:ss", "-m:ss" or a plain number of seconds.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}
	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")
	mins, secs, found := strings.Cut(body, ":")
	if !found {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("parse time %q: %w", s, err)
		}
		return v, nil
	}
	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("parse minutes in %q", s)
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("parse seconds in %q", s)
	}
	total := m*60 + sec
	if neg {
		total = -total
	}
	return total, nil
}
