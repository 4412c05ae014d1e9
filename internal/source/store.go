package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/model"
)

// File names under the data root.
const (
	IndexFile = "matches.json"
	TeamsFile = "teams.json"
)

// MatchFile is the per-match file name.
func MatchFile(id string) string { return id + ".json" }

// Store decodes data files fetched from a root.
type Store struct {
	fetcher Fetcher
}

func NewStore(f Fetcher) *Store {
	return &Store{fetcher: f}
}

// Index loads the match index.
func (s *Store) Index(ctx context.Context) ([]model.MatchRef, []matchfile.Diagnostic, error) {
	data, err := s.fetcher.Fetch(ctx, IndexFile)
	if err != nil {
		return nil, nil, err
	}
	refs, diags, err := matchfile.DecodeIndex(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", IndexFile, err)
	}
	return refs, diags, nil
}

// Teams loads the team directory file.
func (s *Store) Teams(ctx context.Context) ([]model.Team, error) {
	data, err := s.fetcher.Fetch(ctx, TeamsFile)
	if err != nil {
		return nil, err
	}
	teams, _, err := matchfile.DecodeTeams(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", TeamsFile, err)
	}
	return teams, nil
}

// Match loads and validates one per-match file.
func (s *Store) Match(ctx context.Context, id string) (*model.Match, []matchfile.Diagnostic, error) {
	name := MatchFile(id)
	data, err := s.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	m, diags, err := matchfile.DecodeMatch(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return m, diags, nil
}

// Directory returns the team directory together with the match index it was checked
// against. Teams the index knows but the directory file lacks are added; without a
// directory file the teams are built from the index alone.
func (s *Store) Directory(ctx context.Context) ([]model.Team, []model.MatchRef, error) {
	index, _, err := s.Index(ctx)
	if err != nil {
		return nil, nil, err
	}
	file, err := s.Teams(ctx)
	if errors.Is(err, ErrNotFound) {
		return catalog.BuildTeams(index), index, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return catalog.Merge(file, index), index, nil
}
