// Package zobrist hashes whole positions for the pruning engine's
// in-process transposition table.
// https://en.wikipedia.org/wiki/Zobrist_hashing
// The tables are seeded per process, so these hashes are only valid
// within one process; the persistent cache uses the stable state
// fingerprint instead.
package zobrist

import (
	"lukechampine.com/frand"

	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/tiles"
)

const bignum = 1<<63 - 2

const (
	maxFactories  = 2*game.MaxPlayers + 2
	maxHeldTiles  = game.FactoryCapacity + 1
	maxPoolTiles  = game.TilesPerColor + 1
	maxLineTiles  = game.NumPatternLines + 1
	maxFloorSlots = game.FloorCapacity + 1
)

// Zobrist hashes positions. Initialize must be called before Hash.
type Zobrist struct {
	factoryTable [maxFactories][tiles.NumColors][maxHeldTiles]uint64
	poolTable    [tiles.NumColors][maxPoolTiles]uint64
	poolMarker   uint64

	lineTable   [game.MaxPlayers][game.NumPatternLines][tiles.NumColors][maxLineTiles]uint64
	wallTable   [game.MaxPlayers][game.WallDim][game.WallDim]uint64
	floorTable  [game.MaxPlayers][maxFloorSlots]uint64
	markerTable [game.MaxPlayers]uint64

	turnTable      [game.MaxPlayers]uint64
	nextFirstTable [game.MaxPlayers + 1]uint64
}

// Initialize fills the random tables.
func (z *Zobrist) Initialize() {
	fill := func(dst []uint64) {
		for i := range dst {
			dst[i] = frand.Uint64n(bignum) + 1
		}
	}
	for f := 0; f < maxFactories; f++ {
		for c := 0; c < tiles.NumColors; c++ {
			fill(z.factoryTable[f][c][:])
		}
	}
	for c := 0; c < tiles.NumColors; c++ {
		fill(z.poolTable[c][:])
	}
	z.poolMarker = frand.Uint64n(bignum) + 1
	for p := 0; p < game.MaxPlayers; p++ {
		for li := 0; li < game.NumPatternLines; li++ {
			for c := 0; c < tiles.NumColors; c++ {
				fill(z.lineTable[p][li][c][:])
			}
		}
		for r := 0; r < game.WallDim; r++ {
			fill(z.wallTable[p][r][:])
		}
		fill(z.floorTable[p][:])
	}
	fill(z.markerTable[:])
	fill(z.turnTable[:])
	fill(z.nextFirstTable[:])
}

// https://stackoverflow.com/a/12996028/1737333
func hashUint64(x uint64) uint64 {
	x = (x ^ (x >> 30)) * uint64(0xbf58476d1ce4e5b9)
	x = (x ^ (x >> 27)) * uint64(0x94d049bb133111eb)
	x = x ^ (x >> 31)
	return x
}

// Hash returns the hash of a position. State that cannot change within
// a drafting round (the bag, discard colors) is not hashed; the table
// is cleared between searches.
func (z *Zobrist) Hash(g *game.State) uint64 {
	key := uint64(0)
	for f := range g.Factories {
		for c := tiles.Color(0); c < tiles.NumColors; c++ {
			key ^= z.factoryTable[f][c][g.Factories[f][c]]
		}
	}
	for c := tiles.Color(0); c < tiles.NumColors; c++ {
		key ^= z.poolTable[c][g.Pool[c]]
	}
	if g.PoolHasStartTile {
		key ^= z.poolMarker
	}
	for p := range g.Players {
		pl := &g.Players[p]
		for li := range pl.Lines {
			key ^= z.lineTable[p][li][pl.Lines[li].Color][pl.Lines[li].Count]
		}
		for r := 0; r < game.WallDim; r++ {
			for col := 0; col < game.WallDim; col++ {
				if pl.Wall[r][col] {
					key ^= z.wallTable[p][r][col]
				}
			}
		}
		key ^= z.floorTable[p][pl.Floor.Slots()]
		if pl.Floor.HasStartTile {
			key ^= z.markerTable[p]
		}
		key ^= hashUint64(uint64(p)<<32 | uint64(pl.Score))
	}
	key ^= z.turnTable[g.OnTurn]
	key ^= z.nextFirstTable[g.NextFirst+1]
	return key
}
