package matchfile

import (
	"encoding/json"

	"github.com/pable/go-ward-overlay/internal/model"
)

type rawTeam struct {
	ID   Number `json:"id"`
	Name Text   `json:"name"`
}

// DecodeTeams decodes a team directory file, deduplicating by id. The first entry for an
// id wins; a later entry only fills in a missing name.
func DecodeTeams(data []byte) ([]model.Team, []Diagnostic, error) {
	elems, err := decodeArray(data)
	if err != nil {
		return nil, nil, err
	}
	var (
		teams []model.Team
		diags []Diagnostic
	)
	pos := make(map[int64]int)
	for i, elem := range elems {
		if isNull(elem) {
			continue
		}
		var rt rawTeam
		if err := json.Unmarshal(elem, &rt); err != nil {
			diags = append(diags, Diagnostic{Record: "team", Player: -1, Index: i, Err: &ParseError{Err: err}})
			continue
		}
		id, err := rt.ID.Int64()
		if err != nil {
			diags = append(diags, Diagnostic{Record: "team", Player: -1, Index: i, Err: fieldErr("id", rt.ID, err)})
			continue
		}
		if at, ok := pos[id]; ok {
			if teams[at].Name == "" {
				teams[at].Name = string(rt.Name)
			}
			continue
		}
		pos[id] = len(teams)
		teams = append(teams, model.Team{ID: id, Name: string(rt.Name)})
	}
	return teams, diags, nil
}

// EncodeTeams writes the team directory the same way DecodeTeams reads it.
func EncodeTeams(teams []model.Team) ([]byte, error) {
	if teams == nil {
		teams = []model.Team{}
	}
	return json.MarshalIndent(teams, "", "  ")
}
