package tiles

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseColor(t *testing.T) {
	is := is.New(t)
	c, ok := ParseColor("red")
	is.True(ok)
	is.Equal(c, Red)
	c, ok = ParseColor("WHITE")
	is.True(ok)
	is.Equal(c, White)
	_, ok = ParseColor("teal")
	is.True(!ok)
}

func TestCount(t *testing.T) {
	is := is.New(t)
	var tc Count
	is.True(tc.Empty())
	tc.Add(Blue, 3)
	tc.Add(Black, 1)
	is.Equal(tc.Total(), 4)
	is.True(!tc.Empty())
	tc.Remove(Blue, 2)
	is.Equal(int(tc[Blue]), 1)
	is.Equal(tc.String(), "blue black")
	tc.Add(Blue, 11)
	is.Equal(tc.String(), "bluex12 black")
}

func TestRemoveUnderflowPanics(t *testing.T) {
	is := is.New(t)
	defer func() { is.True(recover() != nil) }()
	var tc Count
	tc.Remove(Red, 1)
}

func TestEmptyString(t *testing.T) {
	is := is.New(t)
	var tc Count
	is.Equal(tc.String(), "(empty)")
}
