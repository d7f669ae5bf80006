package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/move"
	"github.com/mosaicmind/mosaic/search"
	"github.com/mosaicmind/mosaic/tiles"
)

func openTestCache(t *testing.T) *AnalysisCache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "analysis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleResult(score float64) *search.Result {
	m := move.Move{Source: move.SourceFactory, Factory: 1, Color: tiles.Red,
		Dest: move.DestLine, Line: 2, CountToLine: 3}
	return &search.Result{
		BestMove:  m,
		BestScore: score,
		PV:        []move.Move{m},
		Elapsed:   120 * time.Millisecond,
		Nodes:     512,
		Rollouts:  100,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()

	g, err := game.NewGame(2, 41)
	is.NoErr(err)
	key := Key{Position: g.Fingerprint(), Agent: 0, Type: search.TypeRollout}
	res := sampleResult(17.5)

	is.NoErr(c.Put(ctx, key, res, g))
	ent, err := c.Get(ctx, key)
	is.NoErr(err)
	is.True(ent != nil)
	is.True(ent.Result.BestMove.Equals(res.BestMove))
	is.Equal(ent.Result.BestScore, res.BestScore)
	is.Equal(ent.Result.Nodes, res.Nodes)
	is.True(ent.State != nil)
	is.Equal(ent.State.Fingerprint(), g.Fingerprint())
	is.True(!ent.CreatedAt.IsZero())
}

func TestGetMiss(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ent, err := c.Get(context.Background(),
		Key{Position: "deadbeefdeadbeef", Agent: 0, Type: search.TypePruning})
	is.NoErr(err)
	is.Equal(ent, (*Entry)(nil))
}

func TestKeyDimensionsAreDistinct(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()

	key := Key{Position: "pos", Agent: 0, Type: search.TypeRollout}
	is.NoErr(c.Put(ctx, key, sampleResult(1), nil))

	// Same position, different agent or search type: a miss.
	ent, err := c.Get(ctx, Key{Position: "pos", Agent: 1, Type: search.TypeRollout})
	is.NoErr(err)
	is.True(ent == nil)
	ent, err = c.Get(ctx, Key{Position: "pos", Agent: 0, Type: search.TypePruning})
	is.NoErr(err)
	is.True(ent == nil)
}

func TestLatestWins(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()
	key := Key{Position: "pos", Agent: 0, Type: search.TypePruning}

	is.NoErr(c.Put(ctx, key, sampleResult(1.0), nil))
	is.NoErr(c.Put(ctx, key, sampleResult(2.0), nil))
	is.NoErr(c.Put(ctx, key, sampleResult(3.0), nil))

	ent, err := c.Get(ctx, key)
	is.NoErr(err)
	is.Equal(ent.Result.BestScore, 3.0)

	st, err := c.Stats(ctx)
	is.NoErr(err)
	is.Equal(st.Rows, int64(3)) // superseded rows stay until Compact
}

func TestCompressionRoundTrip(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	payload := []byte(`{"round": 3, "pool": [1, 2, 3, 4, 5]}`)
	packed := c.enc.EncodeAll(payload, nil)
	unpacked, err := c.dec.DecodeAll(packed, nil)
	is.NoErr(err)
	is.Equal(string(unpacked), string(payload))
}

func TestCorruptEntryIsMiss(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()
	key := Key{Position: "pos", Agent: 0, Type: search.TypeRollout}

	g, err := game.NewGame(2, 42)
	is.NoErr(err)
	is.NoErr(c.Put(ctx, key, sampleResult(5), g))

	// Mangle the compressed payload in place.
	_, err = c.db.ExecContext(ctx, `UPDATE analysis SET state = ?`, []byte("не zstd"))
	is.NoErr(err)
	ent, err := c.Get(ctx, key)
	is.NoErr(err)
	is.True(ent == nil)

	// Mangle the result JSON too.
	_, err = c.db.ExecContext(ctx, `UPDATE analysis SET result = '{'`)
	is.NoErr(err)
	ent, err = c.Get(ctx, key)
	is.NoErr(err)
	is.True(ent == nil)
}

func TestCounters(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()

	res := sampleResult(9)
	is.NoErr(c.RecordSearch(ctx, res, false))
	is.NoErr(c.RecordSearch(ctx, res, false))
	is.NoErr(c.RecordSearch(ctx, res, true))

	st, err := c.Stats(ctx)
	is.NoErr(err)
	is.Equal(st.Searches, int64(3))
	is.Equal(st.Hits, int64(1))
	is.Equal(st.Misses, int64(2))
	is.Equal(st.TotalNodes, int64(1024))
	is.Equal(st.TotalRollouts, int64(200))
	is.Equal(st.TotalElapsed, 240*time.Millisecond)
}

func TestCompactPrunesSuperseded(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()

	keyA := Key{Position: "a", Agent: 0, Type: search.TypeRollout}
	keyB := Key{Position: "b", Agent: 1, Type: search.TypePruning}
	is.NoErr(c.Put(ctx, keyA, sampleResult(1), nil))
	is.NoErr(c.Put(ctx, keyA, sampleResult(2), nil))
	is.NoErr(c.Put(ctx, keyB, sampleResult(3), nil))

	is.NoErr(c.Compact(ctx))

	st, err := c.Stats(ctx)
	is.NoErr(err)
	is.Equal(st.Rows, int64(2))
	ent, err := c.Get(ctx, keyA)
	is.NoErr(err)
	is.Equal(ent.Result.BestScore, 2.0) // newest survives
}

func TestIntegrityCheck(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	is.NoErr(c.IntegrityCheck(context.Background()))
}

func TestRecentPositions(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()

	for _, p := range []string{"p1", "p2", "p3"} {
		is.NoErr(c.Put(ctx, Key{Position: p, Agent: 0, Type: search.TypeRollout},
			sampleResult(1), nil))
	}
	got, err := c.RecentPositions(ctx, 2)
	is.NoErr(err)
	is.Equal(len(got), 2)
}

func TestConcurrentAccess(t *testing.T) {
	is := is.New(t)
	c := openTestCache(t)
	ctx := context.Background()

	var g errgroup.Group
	for w := 0; w < 4; w++ {
		w := w
		g.Go(func() error {
			key := Key{Position: "shared", Agent: w, Type: search.TypeRollout}
			for i := 0; i < 20; i++ {
				if err := c.Put(ctx, key, sampleResult(float64(i)), nil); err != nil {
					return err
				}
				if _, err := c.Get(ctx, key); err != nil {
					return err
				}
			}
			return nil
		})
	}
	// Maintenance interleaves with the writers.
	g.Go(func() error { return c.Compact(ctx) })
	g.Go(func() error { return c.IntegrityCheck(ctx) })
	is.NoErr(g.Wait())

	// Each writer's latest write is the visible one.
	for w := 0; w < 4; w++ {
		ent, err := c.Get(ctx, Key{Position: "shared", Agent: w, Type: search.TypeRollout})
		is.NoErr(err)
		is.Equal(ent.Result.BestScore, 19.0)
	}
}
