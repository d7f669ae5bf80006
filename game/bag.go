package game

import (
	"math/rand/v2"

	"github.com/mosaicmind/mosaic/tiles"
)

// refillFactories deals FactoryCapacity tiles to every factory from the
// bag. Draws come from a PCG seeded with (Seed, Round), so a game
// replayed from the same seed deals identically. When the bag runs dry
// the discard pile is shuffled back in; if both are empty the remaining
// factories stay short, per the game rules.
func (g *State) refillFactories() {
	rng := rand.New(rand.NewPCG(g.Seed, uint64(g.Round)))
	for f := range g.Factories {
		g.Factories[f] = tiles.Count{}
		for t := 0; t < FactoryCapacity; t++ {
			c, ok := g.drawTile(rng)
			if !ok {
				return
			}
			g.Factories[f].Add(c, 1)
		}
	}
}

func (g *State) drawTile(rng *rand.Rand) (tiles.Color, bool) {
	if g.Bag.Empty() {
		g.Bag, g.Discard = g.Discard, tiles.Count{}
	}
	total := g.Bag.Total()
	if total == 0 {
		return 0, false
	}
	n := rng.IntN(total)
	for c := tiles.Color(0); c < tiles.NumColors; c++ {
		n -= int(g.Bag[c])
		if n < 0 {
			g.Bag.Remove(c, 1)
			return c, true
		}
	}
	// Unreachable while counts are consistent.
	return 0, false
}
