package game

import (
	"testing"

	"github.com/matryer/is"

	"github.com/mosaicmind/mosaic/tiles"
)

func TestFingerprintStable(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(2, 123)
	is.NoErr(err)
	is.Equal(g.Fingerprint(), g.Fingerprint())
	is.Equal(g.Fingerprint(), g.Copy().Fingerprint())
	is.Equal(len(g.Fingerprint()), 16)
}

func TestFingerprintSensitivity(t *testing.T) {
	is := is.New(t)
	g, err := NewGame(2, 123)
	is.NoErr(err)
	base := g.Fingerprint()

	c := g.Copy()
	c.Players[1].Score = 5
	is.True(c.Fingerprint() != base)

	c = g.Copy()
	c.OnTurn = 1
	is.True(c.Fingerprint() != base)

	c = g.Copy()
	c.Pool.Add(tiles.White, 1)
	is.True(c.Fingerprint() != base)

	c = g.Copy()
	c.Players[0].Wall[2][2] = true
	is.True(c.Fingerprint() != base)

	c = g.Copy()
	c.Players[0].Floor.HasStartTile = true
	is.True(c.Fingerprint() != base)
}
