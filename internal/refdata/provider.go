package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"estatedesk-backend/internal/cache"

	"github.com/samber/lo"
)

const statesCacheKey = "refdata:states:v1"

var (
	ErrStateNotFound = errors.New("state not found")
	ErrCityNotFound  = errors.New("city not found")
)

// Fetcher is the remote side of the provider; *Client satisfies it.
type Fetcher interface {
	FetchStates(ctx context.Context) ([]State, error)
	FetchCities(ctx context.Context, stateID string) ([]City, error)
}

// Provider serves reference data with a cache-or-fetch policy. The state
// list is memoized in-process and persisted through the cache with no
// expiry; it is refreshed only when absent. City lists are always fetched
// for the requested state.
type Provider struct {
	fetcher Fetcher
	store   cache.Cache
	log     *slog.Logger

	mu     sync.Mutex
	states []State
}

func NewProvider(fetcher Fetcher, store cache.Cache, log *slog.Logger) *Provider {
	if store == nil {
		store = cache.NewNoop()
	}
	return &Provider{fetcher: fetcher, store: store, log: log}
}

func (p *Provider) States(ctx context.Context) ([]State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.states != nil {
		return p.states, nil
	}

	if raw, ok, err := p.store.Get(ctx, statesCacheKey); err == nil && ok {
		var states []State
		if err := json.Unmarshal(raw, &states); err == nil && len(states) > 0 {
			p.states = states
			return states, nil
		}
		p.log.Warn("refdata: discarding unreadable states snapshot")
	}

	states, err := p.fetcher.FetchStates(ctx)
	if err != nil {
		return nil, err
	}
	p.states = states

	if raw, err := json.Marshal(states); err == nil {
		// Persisted without expiry; a redundant overwrite by a racing
		// process stores an equivalent value.
		if err := p.store.Set(ctx, statesCacheKey, raw, 0); err != nil {
			p.log.Warn("refdata: persist states snapshot failed", slog.String("error", err.Error()))
		}
	}
	return states, nil
}

func (p *Provider) CitiesForState(ctx context.Context, stateID string) ([]City, error) {
	return p.fetcher.FetchCities(ctx, stateID)
}

// StateIDByName reverse-maps a human-readable state name from a fetched
// project record back to its id.
func (p *Provider) StateIDByName(ctx context.Context, name string) (string, error) {
	states, err := p.States(ctx)
	if err != nil {
		return "", err
	}
	state, ok := lo.Find(states, func(s State) bool {
		return strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name))
	})
	if !ok {
		return "", ErrStateNotFound
	}
	return state.ID, nil
}

// CityIDByName reverse-maps a city name within a state.
func (p *Provider) CityIDByName(ctx context.Context, stateID, name string) (string, error) {
	cities, err := p.CitiesForState(ctx, stateID)
	if err != nil {
		return "", err
	}
	city, ok := lo.Find(cities, func(c City) bool {
		return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name))
	})
	if !ok {
		return "", ErrCityNotFound
	}
	return city.ID, nil
}
