package matchfile

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/pable/go-ward-overlay/internal/model"
)

// Accepted spellings for match index fields, in lookup order.
var (
	idKeys        = []string{"match_id", "matchId", "id"}
	radiantIDKeys = []string{"radiantTeamId", "radiant_team_id"}
	direIDKeys    = []string{"direTeamId", "dire_team_id"}
	radiantKeys   = []string{"radiantTeam", "radiant_team"}
	direKeys      = []string{"direTeam", "dire_team"}
)

// DecodeIndex decodes the match index, accepting camelCase and snake_case field names.
// Entries without a usable match id are skipped with a diagnostic.
func DecodeIndex(data []byte) ([]model.MatchRef, []Diagnostic, error) {
	elems, err := decodeArray(data)
	if err != nil {
		return nil, nil, err
	}

	var (
		refs  []model.MatchRef
		diags []Diagnostic
	)
	for i, elem := range elems {
		if isNull(elem) {
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(elem, &obj); err != nil {
			diags = append(diags, Diagnostic{Record: "index", Player: -1, Index: i, Err: &ParseError{Err: err}})
			continue
		}

		id := matchID(firstOf(obj, idKeys))
		if id == "" {
			diags = append(diags, Diagnostic{Record: "index", Player: -1, Index: i, Err: &ParseError{Field: "match_id", Err: ErrMissing}})
			continue
		}
		ref := model.MatchRef{
			ID:              id,
			RadiantTeamName: teamName(obj, radiantKeys),
			DireTeamName:    teamName(obj, direKeys),
		}
		ref.RadiantTeamID = indexTeamID(obj, radiantIDKeys, i, &diags)
		ref.DireTeamID = indexTeamID(obj, direIDKeys, i, &diags)
		refs = append(refs, ref)
	}
	return refs, diags, nil
}

func decodeArray(data []byte) ([]json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &ParseError{Err: ErrEnvelope}
		}
		return nil, &ParseError{Err: err}
	}
	return elems, nil
}

func firstOf(obj map[string]json.RawMessage, keys []string) json.RawMessage {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

func matchID(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var n Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	if v, err := n.Int64(); err == nil {
		return strconv.FormatInt(v, 10)
	}
	return n.String()
}

func indexTeamID(obj map[string]json.RawMessage, keys []string, i int, diags *[]Diagnostic) int64 {
	raw := firstOf(obj, keys)
	if raw == nil {
		return 0
	}
	var n Number
	if err := json.Unmarshal(raw, &n); err != nil {
		*diags = append(*diags, Diagnostic{Record: "index", Player: -1, Index: i, Err: &ParseError{Field: keys[0], Err: err}})
		return 0
	}
	v, err := n.Int64()
	if err != nil {
		*diags = append(*diags, Diagnostic{Record: "index", Player: -1, Index: i, Err: fieldErr(keys[0], n, err)})
		return 0
	}
	return v
}

func teamName(obj map[string]json.RawMessage, keys []string) string {
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok || isNull(raw) {
			continue
		}
		var t rawTeamName
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		if t.Name != "" {
			return string(t.Name)
		}
	}
	return ""
}
