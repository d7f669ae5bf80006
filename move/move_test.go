package move

import (
	"testing"

	"github.com/matryer/is"

	"github.com/mosaicmind/mosaic/tiles"
)

func TestShortDescription(t *testing.T) {
	is := is.New(t)
	m := Move{Source: SourceFactory, Factory: 2, Color: tiles.Red,
		Dest: DestLine, Line: 1, CountToLine: 2}
	is.Equal(m.ShortDescription(), "factory 2: 2xred -> line 2")

	m = Move{Source: SourceFactory, Factory: 0, Color: tiles.Blue,
		Dest: DestLine, Line: 0, CountToLine: 1, CountToFloor: 2}
	is.Equal(m.ShortDescription(), "factory 0: 3xblue -> line 1 (+2 floor)")

	m = Move{Source: SourcePool, Color: tiles.White,
		Dest: DestFloor, CountToFloor: 4}
	is.Equal(m.ShortDescription(), "pool: 4xwhite -> floor")
}

func TestTakenAndEquals(t *testing.T) {
	is := is.New(t)
	m := Move{Source: SourcePool, Color: tiles.Black,
		Dest: DestLine, Line: 3, CountToLine: 3, CountToFloor: 1}
	is.Equal(m.Taken(), 4)
	is.True(m.Equals(m))
	o := m
	o.Line = 4
	is.True(!m.Equals(o))
}
