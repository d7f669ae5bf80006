package game

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
)

// Fingerprint returns a position identifier that is stable across
// processes: an xxhash of a canonical byte encoding of the state. Two
// states with identical fields always produce the same fingerprint, so
// it is usable as a persistent cache key.
func (g *State) Fingerprint() string {
	d := xxhash.New()
	buf := make([]byte, 8)

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		d.Write(buf)
	}
	writeBool := func(b bool) {
		if b {
			d.Write([]byte{1})
		} else {
			d.Write([]byte{0})
		}
	}

	writeInt(len(g.Players))
	for p := range g.Players {
		pl := &g.Players[p]
		writeInt(pl.Score)
		for li := range pl.Lines {
			d.Write([]byte{byte(pl.Lines[li].Color), byte(pl.Lines[li].Count)})
		}
		for row := 0; row < WallDim; row++ {
			for col := 0; col < WallDim; col++ {
				writeBool(pl.Wall[row][col])
			}
		}
		d.Write([]byte{byte(pl.Floor.Count)})
		for i := 0; i < int(pl.Floor.Count); i++ {
			d.Write([]byte{byte(pl.Floor.Tiles[i])})
		}
		writeBool(pl.Floor.HasStartTile)
	}
	writeInt(len(g.Factories))
	for f := range g.Factories {
		d.Write(countBytes(g.Factories[f]))
	}
	d.Write(countBytes(g.Pool))
	writeBool(g.PoolHasStartTile)
	writeInt(g.Round)
	writeInt(g.OnTurn)
	writeInt(g.NextFirst)
	d.Write(countBytes(g.Bag))
	d.Write(countBytes(g.Discard))

	return fmt.Sprintf("%016x", d.Sum64())
}

func countBytes(tc [5]uint8) []byte {
	return []byte{tc[0], tc[1], tc[2], tc[3], tc[4]}
}
