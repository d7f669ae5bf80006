// Command cachetool runs the analysis cache's operational verbs:
// aggregate stats, compaction, and integrity checks. Both maintenance
// verbs are safe to run while analyses are writing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mosaicmind/mosaic/cache"
	"github.com/mosaicmind/mosaic/config"
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	store, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CachePath).Msg("opening cache")
	}
	defer store.Close()

	ctx := context.Background()
	verb := flag.Arg(0)
	switch verb {
	case "stats", "":
		stats, err := store.Stats(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("stats")
		}
		fmt.Printf("searches: %d (hits %d, misses %d)\n",
			stats.Searches, stats.Hits, stats.Misses)
		fmt.Printf("cumulative: %v elapsed, %d nodes, %d rollouts\n",
			stats.TotalElapsed, stats.TotalNodes, stats.TotalRollouts)
		fmt.Printf("rows: %d\n", stats.Rows)
	case "recent":
		positions, err := store.RecentPositions(ctx, 20)
		if err != nil {
			log.Fatal().Err(err).Msg("recent")
		}
		for _, p := range positions {
			fmt.Println(p)
		}
	case "compact":
		if err := store.Compact(ctx); err != nil {
			log.Fatal().Err(err).Msg("compact")
		}
	case "integrity-check":
		if err := store.IntegrityCheck(ctx); err != nil {
			log.Fatal().Err(err).Msg("integrity check")
		}
		fmt.Println("ok")
	default:
		log.Fatal().Str("verb", verb).
			Msg("unknown verb; want stats, recent, compact, or integrity-check")
	}
}
