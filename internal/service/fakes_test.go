package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/value-lines/internal/datasource"
	"github.com/yourusername/value-lines/internal/models"
)

// fakeProvider serves generated histories. Every team plays n matches, each
// with the given per-side corner and card totals.
type fakeProvider struct {
	mu       sync.Mutex
	fixtures map[string]*models.Fixture
	matches  map[string][]models.RawMatchRef
	details  map[string]models.StatPayload
	views    map[string]*models.MatchView
	failList map[string]bool
	calls    map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		fixtures: make(map[string]*models.Fixture),
		matches:  make(map[string][]models.RawMatchRef),
		details:  make(map[string]models.StatPayload),
		views:    make(map[string]*models.MatchView),
		failList: make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (p *fakeProvider) addTeamHistory(team models.TeamIdentity, corners []float64) {
	base := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	for i, c := range corners {
		id := fmt.Sprintf("%s-%d", team.ID, i)
		p.matches[team.ID] = append(p.matches[team.ID], models.RawMatchRef{
			ID:           id,
			HomeTeamID:   team.ID,
			HomeTeamName: team.Name,
			AwayTeamID:   "opp",
			AwayTeamName: "Opposition",
			StartTime:    base.Add(-time.Duration(i) * 7 * 24 * time.Hour),
		})
		p.details[id] = models.TotalsPayload{
			Home: map[string]float64{"corners": c},
			Away: map[string]float64{"corners": 0},
		}
	}
}

func (p *fakeProvider) Fixture(ctx context.Context, fixtureID string) (*models.Fixture, error) {
	if f, ok := p.fixtures[fixtureID]; ok {
		return f, nil
	}
	return nil, datasource.NewDataSourceError("fake", datasource.ErrCodeNotFound, "fixture not found", nil)
}

func (p *fakeProvider) RecentMatches(ctx context.Context, teamID string, limit int) ([]models.RawMatchRef, error) {
	if p.failList["matches:"+teamID] {
		return nil, datasource.NewDataSourceError("fake", datasource.ErrCodeServerError, "listing failed", nil)
	}
	matches := p.matches[teamID]
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (p *fakeProvider) MatchDetail(ctx context.Context, matchID string) (models.StatPayload, error) {
	p.mu.Lock()
	p.calls[matchID]++
	p.mu.Unlock()
	if d, ok := p.details[matchID]; ok {
		return d, nil
	}
	return nil, datasource.NewDataSourceError("fake", datasource.ErrCodeNotFound, "detail not found", nil)
}

func (p *fakeProvider) MatchView(ctx context.Context, matchID string) (*models.MatchView, error) {
	p.mu.Lock()
	p.calls["view:"+matchID]++
	p.mu.Unlock()
	if v, ok := p.views[matchID]; ok {
		return v, nil
	}
	return nil, datasource.NewDataSourceError("fake", datasource.ErrCodeNotFound, "view not found", nil)
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) viewCalls(matchID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls["view:"+matchID]
}

func (p *fakeProvider) detailCalls(matchID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[matchID]
}

// memoryPredictions is an in-memory PredictionRepository
type memoryPredictions struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Prediction
}

func newMemoryPredictions() *memoryPredictions {
	return &memoryPredictions{items: make(map[uuid.UUID]*models.Prediction)}
}

func (r *memoryPredictions) Create(ctx context.Context, p *models.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.FixtureID == p.FixtureID && existing.Field == p.Field && existing.Line == p.Line && existing.Side == p.Side {
			return models.ErrDuplicateKey
		}
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *memoryPredictions) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPredictions) ListByMatch(ctx context.Context, fixtureID string) ([]*models.Prediction, error) {
	return r.filter(func(p *models.Prediction) bool { return p.FixtureID == fixtureID }, 0), nil
}

func (r *memoryPredictions) ListPending(ctx context.Context, limit int) ([]*models.Prediction, error) {
	return r.filter(func(p *models.Prediction) bool { return !p.IsSettled() }, limit), nil
}

func (r *memoryPredictions) ListSettled(ctx context.Context, since time.Time) ([]*models.Prediction, error) {
	return r.filter(func(p *models.Prediction) bool {
		return p.IsSettled() && p.SettledAt != nil && !p.SettledAt.Before(since)
	}, 0), nil
}

func (r *memoryPredictions) UpdateSettlement(ctx context.Context, id uuid.UUID, status models.PredictionStatus, actual float64, settledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return models.ErrNotFound
	}
	if p.IsSettled() {
		return models.ErrAlreadySettled
	}
	p.Status = status
	p.ActualValue = &actual
	p.SettledAt = &settledAt
	return nil
}

func (r *memoryPredictions) filter(keep func(*models.Prediction) bool, limit int) []*models.Prediction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prediction
	for _, p := range r.items {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
