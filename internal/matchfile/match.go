// Package matchfile is the decode boundary for match telemetry files. Every accepted
// external shape is mapped into the canonical types of package model; fields that fail
// validation are reported as diagnostics instead of leaking NaN or zero values downstream.
package matchfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pable/go-ward-overlay/internal/model"
)

// list holds the elements of a JSON array undecoded so that one bad element
// does not discard its siblings. A non-array value decodes as an empty list.
type list struct {
	elems   []json.RawMessage
	invalid bool
}

func (l *list) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(b, &l.elems); err != nil {
		l.elems = nil
		l.invalid = true
	}
	return nil
}

type rawTeamName struct {
	Name Text `json:"name"`
}

type rawMatch struct {
	ID              Number       `json:"id"`
	LeagueID        Number       `json:"leagueId"`
	RadiantTeamID   Number       `json:"radiantTeamId"`
	DireTeamID      Number       `json:"direTeamId"`
	RadiantTeam     *rawTeamName `json:"radiantTeam"`
	DireTeam        *rawTeamName `json:"direTeam"`
	DurationSeconds Number       `json:"durationSeconds"`
	Players         list         `json:"players"`
}

type rawPlayer struct {
	SteamAccountID Number `json:"steamAccountId"`
	IsRadiant      Flag   `json:"isRadiant"`
	Hero           *struct {
		DisplayName Text `json:"displayName"`
	} `json:"hero"`
	Stats *struct {
		Wards list `json:"wards"`
	} `json:"stats"`
	PlaybackData *struct {
		ItemUsedEvents             list `json:"itemUsedEvents"`
		PlayerUpdatePositionEvents list `json:"playerUpdatePositionEvents"`
	} `json:"playbackData"`
}

type rawWard struct {
	Time      Number `json:"time"`
	Type      Number `json:"type"`
	PositionX Number `json:"positionX"`
	PositionY Number `json:"positionY"`
}

type rawPosition struct {
	Time Number `json:"time"`
	X    Number `json:"x"`
	Y    Number `json:"y"`
}

type rawItemUse struct {
	Time   Number `json:"time"`
	ItemID Number `json:"itemId"`
}

// ExtractMatch returns the raw match object from either {data:{match}} or {match}.
// It returns ErrNoMatch when the envelope is present but the match is null or absent,
// and a *ParseError for invalid JSON or any other shape.
func ExtractMatch(data []byte) (json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ParseError{Err: ErrEnvelope}
		}
		return nil, &ParseError{Err: err}
	}
	if top == nil {
		return nil, &ParseError{Err: ErrEnvelope}
	}
	if d, ok := top["data"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(d, &inner); err != nil {
			return nil, &ParseError{Field: "data", Err: ErrEnvelope}
		}
		if m, ok := inner["match"]; ok && !isNull(m) {
			return m, nil
		}
		if _, ok := top["match"]; !ok {
			return nil, ErrNoMatch
		}
	}
	if m, ok := top["match"]; ok {
		if isNull(m) {
			return nil, ErrNoMatch
		}
		return m, nil
	}
	return nil, &ParseError{Err: ErrEnvelope}
}

func isNull(b json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// DecodeMatch decodes a per-match file into a validated Match.
func DecodeMatch(data []byte) (*model.Match, []Diagnostic, error) {
	raw, err := ExtractMatch(data)
	if err != nil {
		return nil, nil, err
	}
	var rm rawMatch
	if err := json.Unmarshal(raw, &rm); err != nil {
		return nil, nil, &ParseError{Field: "match", Err: err}
	}

	var diags []Diagnostic
	m := &model.Match{
		ID:              optionalInt64(rm.ID, "id", &diags),
		LeagueID:        optionalInt64(rm.LeagueID, "leagueId", &diags),
		RadiantTeamID:   optionalInt64(rm.RadiantTeamID, "radiantTeamId", &diags),
		DireTeamID:      optionalInt64(rm.DireTeamID, "direTeamId", &diags),
		DurationSeconds: int(optionalInt64(rm.DurationSeconds, "durationSeconds", &diags)),
	}
	if rm.RadiantTeam != nil {
		m.RadiantTeamName = string(rm.RadiantTeam.Name)
	}
	if rm.DireTeam != nil {
		m.DireTeamName = string(rm.DireTeam.Name)
	}
	if rm.Players.invalid {
		diags = append(diags, Diagnostic{Record: "match", Player: -1, Err: &ParseError{Field: "players", Err: fmt.Errorf("not an array")}})
	}

	for slot, elem := range rm.Players.elems {
		if isNull(elem) {
			continue
		}
		var rp rawPlayer
		if err := json.Unmarshal(elem, &rp); err != nil {
			diags = append(diags, Diagnostic{Record: "player", Player: slot, Index: slot, Err: &ParseError{Err: err}})
			continue
		}
		m.Players = append(m.Players, decodePlayer(slot, &rp, &diags))
	}
	return m, diags, nil
}

// optionalInt64 reads an id-like field; absent or invalid values become 0. Only invalid
// values are reported.
func optionalInt64(n Number, field string, diags *[]Diagnostic) int64 {
	if !n.IsSet() {
		return 0
	}
	v, err := n.Int64()
	if err != nil {
		*diags = append(*diags, Diagnostic{Record: "match", Player: -1, Err: fieldErr(field, n, err)})
		return 0
	}
	return v
}

func decodePlayer(slot int, rp *rawPlayer, diags *[]Diagnostic) model.Player {
	p := model.Player{IsRadiant: bool(rp.IsRadiant)}
	if v, err := rp.SteamAccountID.Int64(); err == nil {
		p.SteamAccountID = v
	}
	if rp.Hero != nil {
		p.Hero = string(rp.Hero.DisplayName)
	}

	if rp.Stats != nil {
		eachRecord(slot, "ward", rp.Stats.Wards, diags, func(elem json.RawMessage) error {
			var rw rawWard
			if err := json.Unmarshal(elem, &rw); err != nil {
				return &ParseError{Err: err}
			}
			w, err := rw.toModel()
			if err != nil {
				return err
			}
			p.Wards = append(p.Wards, w)
			return nil
		})
	}

	if pb := rp.PlaybackData; pb != nil {
		eachRecord(slot, "item", pb.ItemUsedEvents, diags, func(elem json.RawMessage) error {
			var ri rawItemUse
			if err := json.Unmarshal(elem, &ri); err != nil {
				return &ParseError{Err: err}
			}
			it, err := ri.toModel()
			if err != nil {
				return err
			}
			p.ItemUses = append(p.ItemUses, it)
			return nil
		})
		eachRecord(slot, "position", pb.PlayerUpdatePositionEvents, diags, func(elem json.RawMessage) error {
			var pos rawPosition
			if err := json.Unmarshal(elem, &pos); err != nil {
				return &ParseError{Err: err}
			}
			ps, err := pos.toModel()
			if err != nil {
				return err
			}
			p.Positions = append(p.Positions, ps)
			return nil
		})
	}
	return p
}

func eachRecord(slot int, record string, l list, diags *[]Diagnostic, fn func(json.RawMessage) error) {
	if l.invalid {
		*diags = append(*diags, Diagnostic{Record: record, Player: slot, Index: -1, Err: &ParseError{Err: fmt.Errorf("%s list is not an array", record)}})
		return
	}
	for i, elem := range l.elems {
		if isNull(elem) {
			continue
		}
		if err := fn(elem); err != nil {
			*diags = append(*diags, Diagnostic{Record: record, Player: slot, Index: i, Err: err})
		}
	}
}

func (rw rawWard) toModel() (model.WardEvent, error) {
	t, err := rw.Time.Int()
	if err != nil {
		return model.WardEvent{}, fieldErr("time", rw.Time, err)
	}
	typ, err := rw.Type.Int()
	if err != nil {
		return model.WardEvent{}, fieldErr("type", rw.Type, err)
	}
	x, err := rw.PositionX.Float()
	if err != nil {
		return model.WardEvent{}, fieldErr("positionX", rw.PositionX, err)
	}
	y, err := rw.PositionY.Float()
	if err != nil {
		return model.WardEvent{}, fieldErr("positionY", rw.PositionY, err)
	}
	return model.WardEvent{Time: t, Type: typ, X: x, Y: y}, nil
}

func (ri rawItemUse) toModel() (model.ItemUseEvent, error) {
	id, err := ri.ItemID.Int()
	if err != nil {
		return model.ItemUseEvent{}, fieldErr("itemId", ri.ItemID, err)
	}
	t, err := ri.Time.Int()
	if err != nil {
		return model.ItemUseEvent{}, fieldErr("time", ri.Time, err)
	}
	return model.ItemUseEvent{Time: t, ItemID: id}, nil
}

func (rp rawPosition) toModel() (model.PositionSample, error) {
	t, err := rp.Time.Int()
	if err != nil {
		return model.PositionSample{}, fieldErr("time", rp.Time, err)
	}
	x, err := rp.X.Float()
	if err != nil {
		return model.PositionSample{}, fieldErr("x", rp.X, err)
	}
	y, err := rp.Y.Float()
	if err != nil {
		return model.PositionSample{}, fieldErr("y", rp.Y, err)
	}
	return model.PositionSample{Time: t, X: x, Y: y}, nil
}

// EncodeEnvelope wraps a raw match object as {data:{match}}.
func EncodeEnvelope(match json.RawMessage) ([]byte, error) {
	return json.MarshalIndent(map[string]any{
		"data": map[string]json.RawMessage{"match": match},
	}, "", "  ")
}
