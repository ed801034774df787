package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/value-lines/internal/models"
)

const snapshotSourceName = "snapshot"

// snapshotFile is the on-disk layout of pre-fetched provider responses,
// stored in the same wire shapes the stats API returns.
type snapshotFile struct {
	Fixtures []wireFixture              `json:"fixtures"`
	Matches  map[string][]wireMatch     `json:"matches"`
	Details  map[string]json.RawMessage `json:"details"`
	Views    map[string]json.RawMessage `json:"views"`
}

// SnapshotProvider serves Provider calls from a recorded snapshot so the
// pipeline can run without network access
type SnapshotProvider struct {
	fixtures map[string]*models.Fixture
	matches  map[string][]models.RawMatchRef
	details  map[string]json.RawMessage
	views    map[string]json.RawMessage
}

// LoadSnapshot reads a snapshot file
func LoadSnapshot(path string) (*SnapshotProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes snapshot JSON
func ParseSnapshot(data []byte) (*SnapshotProvider, error) {
	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, NewDataSourceError(snapshotSourceName, ErrCodeInvalidData, "failed to parse snapshot", err)
	}

	p := &SnapshotProvider{
		fixtures: make(map[string]*models.Fixture, len(f.Fixtures)),
		matches:  make(map[string][]models.RawMatchRef, len(f.Matches)),
		details:  f.Details,
		views:    f.Views,
	}
	for _, wf := range f.Fixtures {
		fixture, err := wf.toFixture()
		if err != nil {
			return nil, NewDataSourceError(snapshotSourceName, ErrCodeInvalidData, "invalid fixture", err)
		}
		p.fixtures[fixture.ID] = fixture
	}
	for teamID, wms := range f.Matches {
		refs := make([]models.RawMatchRef, 0, len(wms))
		for _, wm := range wms {
			ref, err := wm.toRef()
			if err != nil {
				return nil, NewDataSourceError(snapshotSourceName, ErrCodeInvalidData, "invalid match", err)
			}
			refs = append(refs, ref)
		}
		p.matches[teamID] = refs
	}
	return p, nil
}

// Name returns the data source name
func (p *SnapshotProvider) Name() string {
	return snapshotSourceName
}

// FixtureIDs lists the recorded fixtures
func (p *SnapshotProvider) FixtureIDs() []string {
	ids := make([]string, 0, len(p.fixtures))
	for id := range p.fixtures {
		ids = append(ids, id)
	}
	return ids
}

// Fixture returns a recorded fixture
func (p *SnapshotProvider) Fixture(ctx context.Context, fixtureID string) (*models.Fixture, error) {
	f, ok := p.fixtures[fixtureID]
	if !ok {
		return nil, NewDataSourceError(snapshotSourceName, ErrCodeNotFound, "fixture "+fixtureID+" not recorded", nil)
	}
	return f, nil
}

// RecentMatches returns the recorded match list for a team
func (p *SnapshotProvider) RecentMatches(ctx context.Context, teamID string, limit int) ([]models.RawMatchRef, error) {
	refs, ok := p.matches[teamID]
	if !ok {
		return nil, NewDataSourceError(snapshotSourceName, ErrCodeNotFound, "matches for team "+teamID+" not recorded", nil)
	}
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// MatchDetail decodes a recorded trends payload
func (p *SnapshotProvider) MatchDetail(ctx context.Context, matchID string) (models.StatPayload, error) {
	raw, ok := p.details[matchID]
	if !ok {
		return nil, NewDataSourceError(snapshotSourceName, ErrCodeNotFound, "detail for match "+matchID+" not recorded", nil)
	}
	payload, err := decodeDetail(raw)
	if err != nil {
		return nil, NewDataSourceError(snapshotSourceName, ErrCodeInvalidData, "failed to parse match trends", err)
	}
	return payload, nil
}

// MatchView decodes a recorded match view
func (p *SnapshotProvider) MatchView(ctx context.Context, matchID string) (*models.MatchView, error) {
	raw, ok := p.views[matchID]
	if !ok {
		return nil, NewDataSourceError(snapshotSourceName, ErrCodeNotFound, "view for match "+matchID+" not recorded", nil)
	}
	view, err := decodeView(raw)
	if err != nil {
		return nil, NewDataSourceError(snapshotSourceName, ErrCodeInvalidData, "failed to parse match view", err)
	}
	if view.MatchID == "" {
		view.MatchID = matchID
	}
	return view, nil
}
