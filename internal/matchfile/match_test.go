package matchfile

import (
	"errors"
	"strings"
	"testing"
)

const sampleMatch = `{
  "data": {
    "match": {
      "id": 8123456789,
      "leagueId": 17420,
      "radiantTeamId": 9247354,
      "direTeamId": 2163,
      "radiantTeam": {"name": "Team Falcons"},
      "direTeam": null,
      "durationSeconds": 2400,
      "players": [
        {
          "isRadiant": true,
          "steamAccountId": 111,
          "hero": {"displayName": "Io"},
          "stats": {"wards": [
            {"time": -40, "type": 0, "positionX": 120, "positionY": 110},
            {"time": "300", "type": 1, "positionX": "150.5", "positionY": 90},
            {"time": 320, "type": 1, "positionX": "abc", "positionY": 90},
            null
          ]},
          "playbackData": {
            "itemUsedEvents": [{"time": 50, "itemId": 188}, {"time": 60, "itemId": 46}],
            "playerUpdatePositionEvents": [{"time": 50, "x": 1, "y": 2}, {"time": 60, "x": 3, "y": 4}]
          }
        },
        {
          "isRadiant": false,
          "stats": {"wards": [{"time": 10, "type": 0, "positionX": 100}]},
          "playbackData": null
        },
        null
      ]
    }
  }
}`

func TestDecodeMatch_DataEnvelope(t *testing.T) {
	m, diags, err := DecodeMatch([]byte(sampleMatch))
	if err != nil {
		t.Fatalf("DecodeMatch: %v", err)
	}
	if m.ID != 8123456789 || m.RadiantTeamID != 9247354 || m.DireTeamID != 2163 {
		t.Errorf("ids: %+v", m)
	}
	if m.RadiantTeamName != "Team Falcons" || m.DireTeamName != "" {
		t.Errorf("names: %q / %q", m.RadiantTeamName, m.DireTeamName)
	}
	if len(m.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(m.Players))
	}

	p0 := m.Players[0]
	if !p0.IsRadiant || p0.Hero != "Io" || p0.SteamAccountID != 111 {
		t.Errorf("player 0: %+v", p0)
	}
	if len(p0.Wards) != 2 {
		t.Fatalf("expected 2 valid wards for player 0, got %d", len(p0.Wards))
	}
	if p0.Wards[1].Time != 300 || p0.Wards[1].X != 150.5 {
		t.Errorf("numeric strings not coerced: %+v", p0.Wards[1])
	}
	if len(p0.ItemUses) != 2 || len(p0.Positions) != 2 {
		t.Errorf("playback: %d items, %d positions", len(p0.ItemUses), len(p0.Positions))
	}
	if len(m.Players[1].Wards) != 0 {
		t.Errorf("ward missing positionY should be skipped")
	}

	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	var pe *ParseError
	if !errors.As(diags[0].Err, &pe) || pe.Field != "positionX" || !errors.Is(pe, ErrNotNumeric) {
		t.Errorf("diag 0: %v", diags[0])
	}
	if diags[0].Player != 0 || diags[0].Index != 2 || diags[0].Record != "ward" {
		t.Errorf("diag 0 location: %+v", diags[0])
	}
	if !errors.Is(diags[1].Err, ErrMissing) || diags[1].Player != 1 {
		t.Errorf("diag 1: %v", diags[1])
	}
}

func TestDecodeMatch_BareEnvelope(t *testing.T) {
	m, _, err := DecodeMatch([]byte(`{"match": {"radiantTeamId": 5, "direTeamId": 6, "players": []}}`))
	if err != nil {
		t.Fatalf("DecodeMatch: %v", err)
	}
	if m.RadiantTeamID != 5 || m.DireTeamID != 6 {
		t.Errorf("ids: %+v", m)
	}
}

func TestDecodeMatch_NoMatch(t *testing.T) {
	for _, doc := range []string{`{"data": {"match": null}}`, `{"data": {}}`, `{"match": null}`, `{"data": null}`} {
		_, _, err := DecodeMatch([]byte(doc))
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("%s: expected ErrNoMatch, got %v", doc, err)
		}
	}
}

func TestDecodeMatch_RejectsUnknownShapes(t *testing.T) {
	for _, doc := range []string{`{"foo": 1}`, `[1,2]`, `"x"`, `null`} {
		_, _, err := DecodeMatch([]byte(doc))
		if !errors.Is(err, ErrEnvelope) {
			t.Errorf("%s: expected ErrEnvelope, got %v", doc, err)
		}
	}
	_, _, err := DecodeMatch([]byte(`{"data": `))
	var pe *ParseError
	if !errors.As(err, &pe) || errors.Is(err, ErrEnvelope) {
		t.Errorf("truncated JSON: expected syntax ParseError, got %v", err)
	}
}

func TestDecodeMatch_NonArrayLists(t *testing.T) {
	doc := `{"match": {"players": [{"isRadiant": 1, "stats": {"wards": {"oops": true}}}]}}`
	m, diags, err := DecodeMatch([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeMatch: %v", err)
	}
	if len(m.Players) != 1 || !m.Players[0].IsRadiant {
		t.Fatalf("players: %+v", m.Players)
	}
	if len(diags) != 1 || diags[0].Record != "ward" {
		t.Errorf("expected one ward-list diagnostic, got %v", diags)
	}
}

func TestDecodeMatch_InvalidTeamID(t *testing.T) {
	m, diags, err := DecodeMatch([]byte(`{"match": {"radiantTeamId": "n/a", "direTeamId": 7}}`))
	if err != nil {
		t.Fatalf("DecodeMatch: %v", err)
	}
	if m.RadiantTeamID != 0 || m.DireTeamID != 7 {
		t.Errorf("ids: %+v", m)
	}
	if len(diags) != 1 || !strings.Contains(diags[0].String(), "radiantTeamId") {
		t.Errorf("diags: %v", diags)
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in      string
		wantErr error
		want    float64
	}{
		{`12`, nil, 12},
		{`"12.5"`, nil, 12.5},
		{`null`, ErrMissing, 0},
		{`"NaN"`, ErrNotFinite, 0},
		{`"Infinity"`, ErrNotFinite, 0},
		{`"abc"`, ErrNotNumeric, 0},
		{`true`, ErrNotNumeric, 0},
		{`""`, ErrNotNumeric, 0},
	}
	for _, c := range cases {
		var n Number
		if err := n.UnmarshalJSON([]byte(c.in)); err != nil {
			t.Fatalf("%s: unmarshal: %v", c.in, err)
		}
		got, err := n.Float()
		if !errors.Is(err, c.wantErr) {
			t.Errorf("%s: err %v, want %v", c.in, err, c.wantErr)
			continue
		}
		if err == nil && got != c.want {
			t.Errorf("%s: got %v, want %v", c.in, got, c.want)
		}
	}

	var n Number
	_ = n.UnmarshalJSON([]byte(`12.5`))
	if _, err := n.Int(); !errors.Is(err, ErrNotInteger) {
		t.Errorf("Int(12.5): expected ErrNotInteger, got %v", err)
	}
	_ = n.UnmarshalJSON([]byte(`-30.0`))
	if v, err := n.Int(); err != nil || v != -30 {
		t.Errorf("Int(-30.0) = %d, %v", v, err)
	}
}

func TestEncodeEnvelopeRoundTrip(t *testing.T) {
	out, err := EncodeEnvelope([]byte(`{"radiantTeamId": 1, "direTeamId": 2}`))
	if err != nil {
		t.Fatalf("EncodeEnvelope: %v", err)
	}
	m, _, err := DecodeMatch(out)
	if err != nil {
		t.Fatalf("DecodeMatch: %v", err)
	}
	if m.RadiantTeamID != 1 || m.DireTeamID != 2 {
		t.Errorf("ids: %+v", m)
	}
}
