// Package server exposes overlay frames as a JSON API.
package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pable/go-ward-overlay/internal/aggregator"
	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/mapper"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/normalize"
	"github.com/pable/go-ward-overlay/internal/source"
	"github.com/pable/go-ward-overlay/internal/visibility"
)

// Server answers API requests from a data store. Files are re-read on every request.
type Server struct {
	store   *source.Store
	teamID  int64
	surface mapper.Surface
}

func New(store *source.Store, defaultTeamID int64, surface mapper.Surface) *Server {
	return &Server{store: store, teamID: defaultTeamID, surface: surface}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		success(c, gin.H{"status": "ok"})
	})
	api := r.Group("/api")
	{
		api.GET("/teams", s.getTeams)
		api.GET("/options", s.getOptions)
		api.GET("/matches/:id/frame", s.getMatchFrame)
		api.GET("/aggregate/frame", s.getAggregateFrame)
	}
	return r
}

// FrameView is the payload of both frame endpoints.
type FrameView struct {
	TeamLine    string           `json:"teamLine"`
	FilterLine  string           `json:"filterLine"`
	Side        string           `json:"side,omitempty"`
	MatchCount  int              `json:"matchCount,omitempty"`
	Loaded      int              `json:"loaded,omitempty"`
	Skipped     []SkipView       `json:"skipped,omitempty"`
	Diagnostics []string         `json:"diagnostics,omitempty"`
	Frame       visibility.Frame `json:"frame"`
}

type SkipView struct {
	MatchID string `json:"matchId"`
	Error   string `json:"error"`
}

func (s *Server) getTeams(c *gin.Context) {
	teams, _, err := s.store.Directory(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load teams", err)
		return
	}
	success(c, teams)
}

func (s *Server) getOptions(c *gin.Context) {
	teamID, ok := s.queryTeam(c)
	if !ok {
		return
	}
	teams, index, err := s.store.Directory(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load match index", err)
		return
	}
	success(c, catalog.Options(index, teams, teamID))
}

func (s *Server) getMatchFrame(c *gin.Context) {
	id := c.Param("id")
	if !catalog.IsMatchID(id) {
		fail(c, http.StatusBadRequest, "Invalid match ID", nil)
		return
	}
	teamID, ok := s.queryTeam(c)
	if !ok {
		return
	}
	opts, t, ok := s.frameQuery(c)
	if !ok {
		return
	}

	m, diags, err := s.store.Match(c.Request.Context(), id)
	var res *normalize.Result
	switch {
	case errors.Is(err, matchfile.ErrNoMatch):
		res = normalize.NoData()
	case errors.Is(err, source.ErrNotFound):
		fail(c, http.StatusNotFound, "Match not found", nil)
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, "Failed to load match", err)
		return
	default:
		res = normalize.Normalize(m, teamID)
	}

	view := FrameView{
		TeamLine:   res.TeamLine,
		FilterLine: res.FilterLine,
		Side:       res.Side.String(),
		Frame:      visibility.Snapshot(res.Points, res.Smokes, t, opts),
	}
	for _, d := range diags {
		view.Diagnostics = append(view.Diagnostics, d.String())
	}
	success(c, view)
}

func (s *Server) getAggregateFrame(c *gin.Context) {
	teamID, ok := s.queryTeam(c)
	if !ok {
		return
	}
	side := model.ParseSide(c.Query("side"))
	if side == model.SideNone {
		fail(c, http.StatusBadRequest, "side must be radiant or dire", nil)
		return
	}
	opts, t, ok := s.frameQuery(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	teams, index, err := s.store.Directory(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to load match index", err)
		return
	}
	res, err := aggregator.Aggregate(ctx, side, teamID, teams, index, s.store)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to aggregate", err)
		return
	}

	view := FrameView{
		TeamLine:   res.TeamLine,
		FilterLine: res.FilterLine,
		Side:       side.String(),
		MatchCount: res.MatchCount,
		Loaded:     res.Loaded,
		Skipped:    []SkipView{},
		Frame:      visibility.Snapshot(res.Points, res.Smokes, t, opts),
	}
	for _, sk := range res.Skipped {
		view.Skipped = append(view.Skipped, SkipView{MatchID: sk.MatchID, Error: sk.Err.Error()})
	}
	success(c, view)
}

func (s *Server) queryTeam(c *gin.Context) (int64, bool) {
	raw := c.Query("team")
	if raw == "" {
		return s.teamID, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "Invalid team ID", nil)
		return 0, false
	}
	return id, true
}

// frameQuery reads t, w, h and smokes.
func (s *Server) frameQuery(c *gin.Context) (visibility.Options, int, bool) {
	opts := visibility.Options{Surface: s.surface, ShowAllSmokes: c.Query("smokes") == "all"}
	t := 0
	if raw := c.Query("t"); raw != "" {
		v, err := visibility.ParseClock(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid time", err)
			return opts, 0, false
		}
		t = v
	}
	for _, dim := range []struct {
		key string
		dst *float64
	}{{"w", &opts.Surface.Width}, {"h", &opts.Surface.Height}} {
		raw := c.Query(dim.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			fail(c, http.StatusBadRequest, "Invalid surface size", nil)
			return opts, 0, false
		}
		*dim.dst = v
	}
	return opts, t, true
}
