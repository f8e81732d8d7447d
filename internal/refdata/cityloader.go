package refdata

import (
	"context"
	"sync"
)

// CityLoader tracks the city list for the currently selected state. Fetches
// are keyed to the state id that triggered them; a response that completes
// after the selection has moved on is discarded, so a slow fetch can never
// clobber the list for the newer state.
type CityLoader struct {
	fetcher Fetcher

	mu      sync.Mutex
	gen     uint64
	stateID string
	current []City
}

func NewCityLoader(fetcher Fetcher) *CityLoader {
	return &CityLoader{fetcher: fetcher}
}

// Load fetches the city list for stateID and installs it as current unless a
// newer selection superseded this call while the fetch was in flight. It
// returns the fetched list either way.
func (l *CityLoader) Load(ctx context.Context, stateID string) ([]City, error) {
	l.mu.Lock()
	l.gen++
	myGen := l.gen
	l.stateID = stateID
	l.current = nil
	l.mu.Unlock()

	cities, err := l.fetcher.FetchCities(ctx, stateID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != myGen {
		// Superseded by a newer state selection; drop this result.
		return cities, err
	}
	if err != nil {
		return nil, err
	}
	l.current = cities
	return cities, nil
}

// Current returns the city list for the most recent state selection, which
// is empty while a fetch is pending or after one failed.
func (l *CityLoader) Current() (string, []City) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateID, l.current
}
