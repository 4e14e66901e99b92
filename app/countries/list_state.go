package countries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/internal/restcountries"
	"github.com/joefazee/findcountry/models"
)

// Snapshot is a copy of the list state taken after an event was applied.
type Snapshot struct {
	View       []restcountries.Record
	Query      string
	Option     SortOption
	Favorites  FavoriteSet
	Total      int
	Generation uint64
	Loading    bool
	LastError  error
	FetchedAt  time.Time
}

// FavoriteHook is called with a record that was just added to the favorites.
type FavoriteHook func(ctx context.Context, record restcountries.Record)

type event struct {
	apply func(s *ListState) error
	reply chan eventResult
}

type eventResult struct {
	snapshot Snapshot
	err      error
}

// ListState owns the full list, the query, the sort option and the
// favorites. Every mutation runs on the goroutine started by Run.
type ListState struct {
	source          restcountries.DataSource
	logger          logger.Logger
	events          chan event
	done            chan struct{}
	onFavoriteAdded FavoriteHook

	// owned by the Run goroutine
	full       []restcountries.Record
	view       []restcountries.Record
	query      string
	option     SortOption
	favorites  FavoriteSet
	generation uint64
	pending    uint64
	lastErr    error
	fetchedAt  time.Time
}

var _ ListController = (*ListState)(nil)

// NewListState creates a list state that fetches from source.
func NewListState(source restcountries.DataSource, log logger.Logger) *ListState {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &ListState{
		source:    source,
		logger:    log,
		events:    make(chan event),
		done:      make(chan struct{}),
		option:    SortAreaAsc,
		favorites: make(FavoriteSet),
		view:      []restcountries.Record{},
	}
}

// OnFavoriteAdded registers a hook run in its own goroutine whenever a
// known record becomes a favorite. It must be called before Run.
func (s *ListState) OnFavoriteAdded(hook FavoriteHook) {
	s.onFavoriteAdded = hook
}

// Run applies events until ctx is cancelled.
func (s *ListState) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			err := ev.apply(s)
			ev.reply <- eventResult{snapshot: s.snapshot(), err: err}
		}
	}
}

func (s *ListState) send(ctx context.Context, apply func(s *ListState) error) (Snapshot, error) {
	ev := event{apply: apply, reply: make(chan eventResult, 1)}

	select {
	case s.events <- ev:
	case <-s.done:
		return Snapshot{}, models.ErrStateClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	res := <-ev.reply
	return res.snapshot, res.err
}

func (s *ListState) snapshot() Snapshot {
	view := make([]restcountries.Record, len(s.view))
	copy(view, s.view)
	return Snapshot{
		View:       view,
		Query:      s.query,
		Option:     s.option,
		Favorites:  s.favorites.Clone(),
		Total:      len(s.full),
		Generation: s.generation,
		Loading:    s.pending != 0,
		LastError:  s.lastErr,
		FetchedAt:  s.fetchedAt,
	}
}

func (s *ListState) recompute() {
	s.view = Compute(s.full, s.query, s.option, s.favorites)
}

// Snapshot returns the current state without changing it.
func (s *ListState) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.send(ctx, func(*ListState) error { return nil })
}

// BeginFetch issues a new fetch generation. Results carrying an older
// generation are dropped.
func (s *ListState) BeginFetch(ctx context.Context) (uint64, error) {
	snap, err := s.send(ctx, func(s *ListState) error {
		s.generation++
		s.pending = s.generation
		return nil
	})
	if err != nil {
		return 0, err
	}
	return snap.Generation, nil
}

// FetchSucceeded replaces the full list and recomputes the view with the
// current query and option.
func (s *ListState) FetchSucceeded(ctx context.Context, generation uint64, records []restcountries.Record) (Snapshot, error) {
	return s.send(ctx, func(s *ListState) error {
		if generation != s.generation {
			return models.ErrStaleResponse
		}
		s.full = append([]restcountries.Record(nil), records...)
		s.pending = 0
		s.lastErr = nil
		s.fetchedAt = time.Now()
		s.recompute()
		return nil
	})
}

// FetchFailed records fetchErr and leaves the lists untouched.
func (s *ListState) FetchFailed(ctx context.Context, generation uint64, fetchErr error) (Snapshot, error) {
	return s.send(ctx, func(s *ListState) error {
		if generation != s.generation {
			return models.ErrStaleResponse
		}
		s.pending = 0
		s.lastErr = fetchErr
		return nil
	})
}

// Refresh fetches the full list from the data source off the state
// goroutine and delivers the outcome back to it.
func (s *ListState) Refresh(ctx context.Context) (Snapshot, error) {
	gen, err := s.BeginFetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	records, fetchErr := s.source.FetchAll(ctx)
	if fetchErr != nil {
		s.logger.Error(fetchErr, map[string]interface{}{"generation": gen, "operation": "refresh"})
		snap, err := s.FetchFailed(context.WithoutCancel(ctx), gen, fetchErr)
		if err != nil {
			return snap, err
		}
		return snap, fetchErr
	}

	snap, err := s.FetchSucceeded(context.WithoutCancel(ctx), gen, records)
	if err == nil {
		s.logger.Info("country list refreshed", map[string]interface{}{"generation": gen, "count": len(records)})
	}
	return snap, err
}

// SetQuery filters the full list by query and reapplies the sort option.
func (s *ListState) SetQuery(ctx context.Context, query string) (Snapshot, error) {
	return s.send(ctx, func(s *ListState) error {
		s.query = query
		s.recompute()
		return nil
	})
}

// SetSortOption reorders the view. Choosing SortFavorites drops the query.
func (s *ListState) SetSortOption(ctx context.Context, option SortOption) (Snapshot, error) {
	if !option.Valid() {
		return Snapshot{}, fmt.Errorf("%w: %d", models.ErrInvalidSortOption, option)
	}
	return s.send(ctx, func(s *ListState) error {
		s.option = option
		if option == SortFavorites {
			s.query = ""
		}
		s.recompute()
		return nil
	})
}

// ToggleFavorite flips the favorite mark of key and reports whether key is
// now a favorite. A key matching a known record regardless of case is stored
// as that record's key.
func (s *ListState) ToggleFavorite(ctx context.Context, key string) (bool, Snapshot, error) {
	var added bool
	snap, err := s.send(ctx, func(s *ListState) error {
		key = s.resolveKey(key)
		added = s.favorites.Toggle(key)
		s.recompute()
		if added && s.onFavoriteAdded != nil {
			if rec, ok := s.find(key); ok {
				go s.onFavoriteAdded(context.WithoutCancel(ctx), rec)
			}
		}
		return nil
	})
	return added, snap, err
}

// ShowAll clears the query and shows the full list by ascending area.
func (s *ListState) ShowAll(ctx context.Context) (Snapshot, error) {
	return s.send(ctx, func(s *ListState) error {
		s.query = ""
		s.option = SortAreaAsc
		s.recompute()
		return nil
	})
}

// resolveKey maps key onto the key of a known record, preferring an exact
// match. Unknown keys are returned as given.
func (s *ListState) resolveKey(key string) string {
	if _, ok := s.find(key); ok {
		return key
	}
	for _, r := range s.full {
		if strings.EqualFold(r.Key(), key) {
			return r.Key()
		}
	}
	return key
}

func (s *ListState) find(key string) (restcountries.Record, bool) {
	for _, r := range s.full {
		if r.Key() == key {
			return r, true
		}
	}
	return restcountries.Record{}, false
}
