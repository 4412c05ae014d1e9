// Package model holds the canonical match, ward and smoke types.
package model

// Side represents which half of the map a team plays from.
type Side int

const (
	SideNone    Side = 0
	SideRadiant Side = 1
	SideDire    Side = 2
)

func (s Side) String() string {
	switch s {
	case SideRadiant:
		return "radiant"
	case SideDire:
		return "dire"
	default:
		return ""
	}
}

// Label is the display name of the side.
func (s Side) Label() string {
	switch s {
	case SideRadiant:
		return "Radiant"
	case SideDire:
		return "Dire"
	default:
		return "?"
	}
}

// ParseSide accepts "radiant" or "dire"; anything else is SideNone.
func ParseSide(s string) Side {
	switch s {
	case "radiant", "Radiant", "RADIANT":
		return SideRadiant
	case "dire", "Dire", "DIRE":
		return SideDire
	default:
		return SideNone
	}
}

// Lifetimes in seconds.
const (
	SentryLife = 6 * 60
	ObsLife    = 7 * 60
	SmokeLife  = 60
)

const (
	// WardSentry is the ward type code for sentry wards; every other code is an observer.
	WardSentry = 0
	// ItemSmokeOfDeceit is the item id of Smoke of Deceit.
	ItemSmokeOfDeceit = 188
)

// KindSmoke tags smoke points.
const KindSmoke = "smoke"

// ---- Canonical match data produced by the decode boundary ----

// WardEvent is one ward placement as recorded in the match stats.
type WardEvent struct {
	Time int // seconds, negative before the horn
	Type int // 0 = sentry, else observer
	X, Y float64
}

// PositionSample is one recorded hero position.
type PositionSample struct {
	Time int
	X, Y float64
}

// ItemUseEvent is one item activation.
type ItemUseEvent struct {
	Time   int
	ItemID int
}

type Player struct {
	SteamAccountID int64
	Hero           string
	IsRadiant      bool
	Wards          []WardEvent
	ItemUses       []ItemUseEvent
	Positions      []PositionSample
}

// Match is a validated per-match record. Team ids are 0 when the source omitted them.
type Match struct {
	ID              int64
	LeagueID        int64
	RadiantTeamID   int64
	DireTeamID      int64
	RadiantTeamName string
	DireTeamName    string
	DurationSeconds int
	Players         []Player
}

// SideOf reports which side teamID played in this match.
func (m *Match) SideOf(teamID int64) Side {
	switch {
	case m.RadiantTeamID != 0 && m.RadiantTeamID == teamID:
		return SideRadiant
	case m.DireTeamID != 0 && m.DireTeamID == teamID:
		return SideDire
	default:
		return SideNone
	}
}

// ---- Normalized overlay data ----

// Point is one ward placement ready for the overlay.
type Point struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Type      int     `json:"type"`
	Time      int     `json:"time"`
	IsRadiant bool    `json:"isRadiant"`
}

// IsSentry reports whether the point is a sentry ward.
func (p Point) IsSentry() bool { return p.Type == WardSentry }

// Lifetime is how long the ward stays on the map, in seconds.
func (p Point) Lifetime() int {
	if p.IsSentry() {
		return SentryLife
	}
	return ObsLife
}

// Smoke is one Smoke of Deceit activation ready for the overlay.
type Smoke struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Time      int     `json:"time"`
	Kind      string  `json:"kind"`
	IsRadiant bool    `json:"isRadiant"`
}

// Lifetime is how long the smoke stays on the map, in seconds.
func (s Smoke) Lifetime() int { return SmokeLife }

// ---- Index and directory ----

// Team is one entry in the team directory.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MatchRef is one entry of the match index.
type MatchRef struct {
	ID              string
	RadiantTeamID   int64
	DireTeamID      int64
	RadiantTeamName string
	DireTeamName    string
}

// Involves reports whether teamID played on either side.
func (r MatchRef) Involves(teamID int64) bool {
	return teamID != 0 && (r.RadiantTeamID == teamID || r.DireTeamID == teamID)
}

// PlayedAs reports whether teamID played the given side.
func (r MatchRef) PlayedAs(side Side, teamID int64) bool {
	if teamID == 0 {
		return false
	}
	if side == SideRadiant {
		return r.RadiantTeamID == teamID
	}
	return r.DireTeamID == teamID
}
