// Command analyze runs a best-move analysis on a dealt position, or a
// batch of concurrent analyses across seeds. Each request gets its own
// state copy and engine instance; results are memoized in the shared
// analysis cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mosaicmind/mosaic/analyzer"
	"github.com/mosaicmind/mosaic/cache"
	"github.com/mosaicmind/mosaic/config"
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/search"
	"github.com/mosaicmind/mosaic/stats"
)

var (
	players    = flag.Int("players", 2, "number of players (2-4)")
	seed       = flag.Uint64("seed", 1, "deal seed")
	agent      = flag.Int("agent", 0, "agent to analyze for")
	searchType = flag.String("type", "pruning-based",
		"search type: rollout-based, pruning-based, externally-guided")
	maxTime     = flag.Duration("max-time", 0, "time budget (default from config)")
	maxDepth    = flag.Int("max-depth", 0, "depth budget (default from config)")
	maxRollouts = flag.Int("max-rollouts", 0, "rollout budget (default from config)")
	batch       = flag.Int("batch", 0, "analyze this many seeds concurrently")
	workers     = flag.Int("workers", 4, "concurrent workers in batch mode")
	play        = flag.Bool("play", false, "play out a full game, every turn analyzed")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	params := search.Params{
		MaxTime:     cfg.MaxTime,
		MaxRollouts: cfg.MaxRollouts,
		MaxDepth:    cfg.MaxDepth,
	}
	if *maxTime > 0 {
		params.MaxTime = *maxTime
	}
	if *maxDepth > 0 {
		params.MaxDepth = *maxDepth
	}
	if *maxRollouts > 0 {
		params.MaxRollouts = *maxRollouts
	}
	stype, err := search.ParseType(*searchType)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	// Caching is best-effort: a cache that fails to open does not stop
	// the analysis.
	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.CachePath).
			Msg("cache unavailable; running uncached")
		store = nil
	} else {
		defer store.Close()
	}

	an := analyzer.New(store, nil, cfg)
	ctx := context.Background()

	if *batch > 1 {
		runBatch(ctx, an, stype, params)
		return
	}
	if *play {
		playGame(ctx, an, stype, params)
		if store != nil {
			printStats(ctx, store)
		}
		return
	}

	g, err := game.NewGame(*players, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	tstart := time.Now()
	res, err := an.Analyze(ctx, analyzer.Request{
		State:  g,
		Agent:  *agent,
		Type:   stype,
		Params: params,
		Seed:   *seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
	fmt.Println(res.String())
	log.Info().Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("analyze-returning")

	if store != nil {
		printStats(ctx, store)
	}
}

// playGame deals a game and plays it to the end, asking the analyzer
// for every turn's move and scoring each completed round.
func playGame(ctx context.Context, an *analyzer.Analyzer, stype search.Type, params search.Params) {
	g, err := game.NewGame(*players, *seed)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	for !g.GameOver() {
		for !g.RoundOver() {
			res, err := an.Analyze(ctx, analyzer.Request{
				State:  g,
				Agent:  g.OnTurn,
				Type:   stype,
				Params: params,
				Seed:   *seed,
			})
			if err != nil {
				log.Fatal().Err(err).Int("agent", g.OnTurn).Msg("analysis failed")
			}
			fmt.Printf("round %d, player %d: %s\n",
				g.Round, g.OnTurn, res.BestMove.ShortDescription())
			if err := g.ApplyMove(g.OnTurn, res.BestMove); err != nil {
				log.Fatal().Err(err).Msg("engine produced an illegal move")
			}
		}
		g.ScoreRound()
		for p, pl := range g.Players {
			fmt.Printf("  player %d: %d points\n", p, pl.Score)
		}
	}
	fmt.Println("final scores (with bonuses):")
	for p, total := range g.FinalScores() {
		fmt.Printf("  player %d: %d\n", p, total)
	}
}

// runBatch analyzes one deal per seed on a bounded worker pool. Every
// worker owns its state copy and engine; only the cache is shared.
func runBatch(ctx context.Context, an *analyzer.Analyzer, stype search.Type, params search.Params) {
	g := errgroup.Group{}
	g.SetLimit(*workers)
	tstart := time.Now()
	var mu sync.Mutex
	scoreStat := &stats.Statistic{}
	for i := 0; i < *batch; i++ {
		dealSeed := *seed + uint64(i)
		g.Go(func() error {
			st, err := game.NewGame(*players, dealSeed)
			if err != nil {
				return err
			}
			res, err := an.Analyze(ctx, analyzer.Request{
				State:  st,
				Agent:  *agent,
				Type:   stype,
				Params: params,
				Seed:   dealSeed,
			})
			if err != nil {
				return fmt.Errorf("seed %d: %w", dealSeed, err)
			}
			mu.Lock()
			scoreStat.Push(res.BestScore)
			mu.Unlock()
			fmt.Printf("seed %d: %s\n", dealSeed, res.String())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}
	log.Info().Int("analyses", *batch).
		Float64("mean-best-score", scoreStat.Mean()).
		Float64("best-score-ci99", scoreStat.StandardError()*stats.Z99).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("batch-done")
}

func printStats(ctx context.Context, store *cache.AnalysisCache) {
	stats, err := store.Stats(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("reading cache stats")
		return
	}
	log.Info().
		Int64("searches", stats.Searches).
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int64("nodes", stats.TotalNodes).
		Int64("rollouts", stats.TotalRollouts).
		Int64("rows", stats.Rows).
		Msg("cache-stats")
}
