package alphabeta

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/mosaicmind/mosaic/eval"
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/movegen"
	"github.com/mosaicmind/mosaic/search"
)

func testParams(depth int) search.Params {
	return search.Params{MaxTime: 30 * time.Second, MaxDepth: depth}
}

func TestDepthOneMatchesGreedy(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 21)
	is.NoErr(err)

	// At depth one the engine must pick the argmax of the evaluator
	// over all successor positions, first-generated move winning ties.
	h := eval.NewHeuristic()
	moves := movegen.Generate(g, 0)
	bestIdx, bestVal := -1, 0.0
	for i, m := range moves {
		c := g.Copy()
		is.NoErr(c.ApplyMove(0, m))
		if v := h.Score(c, 0); bestIdx < 0 || v > bestVal {
			bestIdx, bestVal = i, v
		}
	}

	res, err := New(h, testParams(1)).Search(g, 0)
	is.NoErr(err)
	is.True(res.BestMove.Equals(moves[bestIdx]))
	is.Equal(res.BestScore, bestVal)
	is.Equal(res.Depth, 1)
}

func TestDepthTwoSearch(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 22)
	is.NoErr(err)

	res, err := New(eval.NewHeuristic(), testParams(2)).Search(g, 0)
	is.NoErr(err)
	is.Equal(res.Depth, 2)
	is.True(res.Nodes > 0)
	is.True(len(res.PV) > 0)
	is.True(res.PV[0].Equals(res.BestMove))
	is.NoErr(g.Copy().ApplyMove(0, res.BestMove))
}

func TestDeterministicAcrossRuns(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 23)
	is.NoErr(err)

	a, err := New(eval.NewHeuristic(), testParams(2)).Search(g, 0)
	is.NoErr(err)
	b, err := New(eval.NewHeuristic(), testParams(2)).Search(g, 0)
	is.NoErr(err)
	is.True(a.BestMove.Equals(b.BestMove))
	is.Equal(a.BestScore, b.BestScore)
}

func TestInputStateUntouched(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 24)
	is.NoErr(err)
	fp := g.Fingerprint()

	_, err = New(eval.NewHeuristic(), testParams(2)).Search(g, 0)
	is.NoErr(err)
	is.Equal(g.Fingerprint(), fp)
}

func TestNoCompletedDepth(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 25)
	is.NoErr(err)

	// A nanosecond budget expires before depth one finishes.
	_, err = New(eval.NewHeuristic(),
		search.Params{MaxTime: time.Nanosecond, MaxDepth: 3}).Search(g, 0)
	is.True(errors.Is(err, ErrNoSolution))
}

func TestEngineSingleUse(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 26)
	is.NoErr(err)

	e := New(eval.NewHeuristic(), testParams(1))
	_, err = e.Search(g, 0)
	is.NoErr(err)
	_, err = e.Search(g, 0)
	is.True(err != nil)
}

func TestBudgetValidation(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 27)
	is.NoErr(err)

	_, err = New(eval.NewHeuristic(), search.Params{MaxDepth: 2}).Search(g, 0)
	is.True(err != nil) // no time budget

	_, err = New(eval.NewHeuristic(), search.Params{MaxTime: time.Second}).Search(g, 0)
	is.True(err != nil) // no depth budget
}
