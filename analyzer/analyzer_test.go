package analyzer

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/mosaicmind/mosaic/cache"
	"github.com/mosaicmind/mosaic/config"
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/search"
)

func defaultTestConfig() *config.Config {
	return &config.Config{
		UCBConstant:   math.Sqrt2,
		RolloutCutoff: 8,
	}
}

func newTestAnalyzer(t *testing.T) (*Analyzer, *cache.AnalysisCache) {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "analysis.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, nil, defaultTestConfig()), store
}

func TestReadThroughWriteThrough(t *testing.T) {
	is := is.New(t)
	a, store := newTestAnalyzer(t)
	ctx := context.Background()

	g, err := game.NewGame(2, 51)
	is.NoErr(err)
	req := Request{
		State:  g,
		Agent:  0,
		Type:   search.TypeRollout,
		Params: search.Params{MaxTime: 10 * time.Second, MaxRollouts: 50},
		Seed:   7,
	}

	first, err := a.Analyze(ctx, req)
	is.NoErr(err)
	st, err := store.Stats(ctx)
	is.NoErr(err)
	is.Equal(st.Misses, int64(1))
	is.Equal(st.Rows, int64(1))

	// The second identical request is served from the cache.
	second, err := a.Analyze(ctx, req)
	is.NoErr(err)
	is.True(second.BestMove.Equals(first.BestMove))
	is.Equal(second.BestScore, first.BestScore)
	st, err = store.Stats(ctx)
	is.NoErr(err)
	is.Equal(st.Hits, int64(1))
	is.Equal(st.Rows, int64(1)) // no second write
}

func TestSearchTypesAreCachedSeparately(t *testing.T) {
	is := is.New(t)
	a, store := newTestAnalyzer(t)
	ctx := context.Background()

	g, err := game.NewGame(2, 52)
	is.NoErr(err)

	_, err = a.Analyze(ctx, Request{
		State: g, Agent: 0, Type: search.TypeRollout,
		Params: search.Params{MaxTime: 10 * time.Second, MaxRollouts: 10}, Seed: 1,
	})
	is.NoErr(err)
	_, err = a.Analyze(ctx, Request{
		State: g, Agent: 0, Type: search.TypePruning,
		Params: search.Params{MaxTime: 10 * time.Second, MaxDepth: 1},
	})
	is.NoErr(err)

	st, err := store.Stats(ctx)
	is.NoErr(err)
	is.Equal(st.Misses, int64(2))
	is.Equal(st.Rows, int64(2))
}

func TestNilCacheStillSearches(t *testing.T) {
	is := is.New(t)
	a := New(nil, nil, defaultTestConfig())

	g, err := game.NewGame(2, 53)
	is.NoErr(err)
	res, err := a.Analyze(context.Background(), Request{
		State: g, Agent: 0, Type: search.TypePruning,
		Params: search.Params{MaxTime: 10 * time.Second, MaxDepth: 1},
	})
	is.NoErr(err)
	is.NoErr(g.Copy().ApplyMove(0, res.BestMove))
}

func TestExternallyGuidedWithoutModel(t *testing.T) {
	is := is.New(t)
	a, _ := newTestAnalyzer(t)

	// No model provider is configured; the evaluator falls back to the
	// heuristic and the search still completes.
	g, err := game.NewGame(2, 55)
	is.NoErr(err)
	res, err := a.Analyze(context.Background(), Request{
		State: g, Agent: 0, Type: search.TypeExternal,
		Params: search.Params{MaxTime: 10 * time.Second, MaxDepth: 1},
	})
	is.NoErr(err)
	is.NoErr(g.Copy().ApplyMove(0, res.BestMove))
}

func TestInvalidRequests(t *testing.T) {
	is := is.New(t)
	a := New(nil, nil, defaultTestConfig())
	ctx := context.Background()

	g, err := game.NewGame(2, 54)
	is.NoErr(err)

	// Missing budgets.
	_, err = a.Analyze(ctx, Request{State: g, Type: search.TypeRollout,
		Params: search.Params{MaxTime: time.Second}})
	is.True(err != nil)

	// Unknown search type.
	_, err = a.Analyze(ctx, Request{State: g, Type: search.Type("psychic"),
		Params: search.Params{MaxTime: time.Second}})
	is.True(err != nil)
}
