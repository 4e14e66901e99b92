package countries

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/internal/restcountries"
	"github.com/joefazee/findcountry/models"
)

func startState(t *testing.T, src restcountries.DataSource) *ListState {
	t.Helper()
	state := NewListState(src, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go state.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-state.done
	})
	return state
}

func TestListState_FetchThenFilter(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(records(france, fiji), nil).Once()
	state := startState(t, src)
	ctx := context.Background()

	snap, err := state.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiji", "France"}, names(snap.View))
	assert.Equal(t, 2, snap.Total)
	assert.False(t, snap.Loading)
	assert.False(t, snap.FetchedAt.IsZero())

	snap, err = state.SetQuery(ctx, "fra")
	require.NoError(t, err)
	assert.Equal(t, []string{"France"}, names(snap.View))
	assert.Equal(t, "fra", snap.Query)

	src.AssertExpectations(t)
}

func TestListState_FavoriteThenFavoritesOnly(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(records(france, fiji), nil).Once()
	state := startState(t, src)
	ctx := context.Background()

	_, err := state.Refresh(ctx)
	require.NoError(t, err)
	_, err = state.SetQuery(ctx, "fra")
	require.NoError(t, err)

	added, _, err := state.ToggleFavorite(ctx, "Fiji")
	require.NoError(t, err)
	assert.True(t, added)

	snap, err := state.SetSortOption(ctx, SortFavorites)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiji"}, names(snap.View))
	assert.Empty(t, snap.Query, "choosing favorites drops the query")
	assert.Equal(t, SortFavorites, snap.Option)
}

func TestListState_ToggleRecomputesFavoritesView(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(records(france, fiji, finland), nil).Once()
	state := startState(t, src)
	ctx := context.Background()

	_, err := state.Refresh(ctx)
	require.NoError(t, err)
	_, _, _ = state.ToggleFavorite(ctx, "FIN")
	_, _, _ = state.ToggleFavorite(ctx, "France")
	snap, err := state.SetSortOption(ctx, SortFavorites)
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Finland"}, names(snap.View))

	added, snap, err := state.ToggleFavorite(ctx, "France")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"Finland"}, names(snap.View))
}

func TestListState_ToggleTwiceRestoresFavorites(t *testing.T) {
	state := startState(t, new(MockDataSource))
	ctx := context.Background()

	added, snap, err := state.ToggleFavorite(ctx, "FJI")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, snap.Favorites.Has("FJI"))

	added, snap, err = state.ToggleFavorite(ctx, "FJI")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, snap.Favorites)
}

func TestListState_ToggleResolvesKeyCase(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(records(finland, fiji), nil).Once()
	state := startState(t, src)
	ctx := context.Background()

	_, err := state.Refresh(ctx)
	require.NoError(t, err)

	added, snap, err := state.ToggleFavorite(ctx, "fin")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"FIN"}, snap.Favorites.Keys())

	added, snap, err = state.ToggleFavorite(ctx, "fiji")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, snap.Favorites.Has("Fiji"))

	snap, err = state.SetSortOption(ctx, SortFavorites)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Finland", "Fiji"}, names(snap.View))

	added, snap, err = state.ToggleFavorite(ctx, "Fin")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, []string{"Fiji"}, snap.Favorites.Keys())
}

func TestListState_RefreshFailureIsLoggedOnce(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(nil, models.ErrNetwork).Once()

	var buf bytes.Buffer
	state := NewListState(src, logger.NewZeroLogger(&buf, logger.LevelError, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go state.Run(ctx)

	_, err := state.Refresh(ctx)
	require.ErrorIs(t, err, models.ErrNetwork)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"generation":1`)
	assert.Contains(t, lines[0], `"operation":"refresh"`)
}

func TestListState_FetchFailureKeepsState(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(records(france, fiji), nil).Once()
	src.On("FetchAll", mock.Anything).Return(nil, fmt.Errorf("%w: timeout", models.ErrNetwork)).Once()
	state := startState(t, src)
	ctx := context.Background()

	before, err := state.Refresh(ctx)
	require.NoError(t, err)

	after, err := state.Refresh(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.Equal(t, names(before.View), names(after.View))
	assert.Equal(t, before.Total, after.Total)
	assert.ErrorIs(t, after.LastError, models.ErrNetwork)
	assert.Equal(t, before.FetchedAt, after.FetchedAt)

	src.AssertExpectations(t)
}

func TestListState_PermissionDeniedSurfaces(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(nil, models.ErrPermissionDenied).Once()
	state := startState(t, src)

	snap, err := state.Refresh(context.Background())
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
	assert.Empty(t, snap.View)
	assert.ErrorIs(t, snap.LastError, models.ErrPermissionDenied)
}

func TestListState_StaleResponsesAreDropped(t *testing.T) {
	state := startState(t, new(MockDataSource))
	ctx := context.Background()

	first, err := state.BeginFetch(ctx)
	require.NoError(t, err)
	second, err := state.BeginFetch(ctx)
	require.NoError(t, err)
	assert.Greater(t, second, first)

	_, err = state.FetchSucceeded(ctx, first, records(france))
	assert.ErrorIs(t, err, models.ErrStaleResponse)

	_, err = state.FetchFailed(ctx, first, models.ErrNetwork)
	assert.ErrorIs(t, err, models.ErrStaleResponse)

	snap, err := state.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.View)
	assert.True(t, snap.Loading)
	assert.NoError(t, snap.LastError)

	snap, err = state.FetchSucceeded(ctx, second, records(fiji))
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiji"}, names(snap.View))
	assert.False(t, snap.Loading)
}

func TestListState_FetchSuccessKeepsQueryAndOption(t *testing.T) {
	state := startState(t, new(MockDataSource))
	ctx := context.Background()

	_, err := state.SetQuery(ctx, "fi")
	require.NoError(t, err)
	_, err = state.SetSortOption(ctx, SortNameAsc)
	require.NoError(t, err)

	gen, err := state.BeginFetch(ctx)
	require.NoError(t, err)
	snap, err := state.FetchSucceeded(ctx, gen, records(france, finland, fiji))
	require.NoError(t, err)
	assert.Equal(t, []string{"Fiji", "Finland"}, names(snap.View))
}

func TestListState_ShowAllResets(t *testing.T) {
	full := records(france, fiji, finland, nauru)
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(full, nil).Once()
	state := startState(t, src)
	ctx := context.Background()

	_, err := state.Refresh(ctx)
	require.NoError(t, err)
	_, _, _ = state.ToggleFavorite(ctx, "Fiji")
	_, err = state.SetQuery(ctx, "fin")
	require.NoError(t, err)
	_, err = state.SetSortOption(ctx, SortPopulationDesc)
	require.NoError(t, err)

	snap, err := state.ShowAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, names(Sort(full, SortAreaAsc)), names(snap.View))
	assert.Empty(t, snap.Query)
	assert.Equal(t, SortAreaAsc, snap.Option)
	assert.True(t, snap.Favorites.Has("Fiji"), "show all keeps favorites")
}

func TestListState_InvalidSortOption(t *testing.T) {
	state := startState(t, new(MockDataSource))
	ctx := context.Background()

	_, err := state.SetSortOption(ctx, SortNameAsc)
	require.NoError(t, err)

	_, err = state.SetSortOption(ctx, SortOption(7))
	assert.ErrorIs(t, err, models.ErrInvalidSortOption)

	snap, err := state.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, SortNameAsc, snap.Option)
}

func TestListState_FavoriteAddedHook(t *testing.T) {
	src := new(MockDataSource)
	src.On("FetchAll", mock.Anything).Return(records(france, finland), nil).Once()

	state := NewListState(src, nil)
	added := make(chan string, 4)
	state.OnFavoriteAdded(func(_ context.Context, rec restcountries.Record) {
		added <- rec.Name()
	})
	ctx, cancel := context.WithCancel(context.Background())
	go state.Run(ctx)
	defer cancel()

	_, err := state.Refresh(ctx)
	require.NoError(t, err)

	_, _, err = state.ToggleFavorite(ctx, "FIN")
	require.NoError(t, err)

	select {
	case name := <-added:
		assert.Equal(t, "Finland", name)
	case <-time.After(time.Second):
		t.Fatal("hook was not called")
	}

	_, _, _ = state.ToggleFavorite(ctx, "FIN")
	_, _, _ = state.ToggleFavorite(ctx, "Atlantis")

	select {
	case name := <-added:
		t.Fatalf("unexpected hook call for %s", name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListState_ClosedState(t *testing.T) {
	state := NewListState(new(MockDataSource), nil)
	ctx, cancel := context.WithCancel(context.Background())
	go state.Run(ctx)
	cancel()
	<-state.done

	_, err := state.Snapshot(context.Background())
	assert.ErrorIs(t, err, models.ErrStateClosed)

	_, err = state.BeginFetch(context.Background())
	assert.ErrorIs(t, err, models.ErrStateClosed)
}

func TestListState_CallerContextCancelled(t *testing.T) {
	state := NewListState(new(MockDataSource), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := state.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListState_ConcurrentToggles(t *testing.T) {
	state := startState(t, new(MockDataSource))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := state.ToggleFavorite(ctx, fmt.Sprintf("K%02d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap, err := state.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Favorites, 50)
}
