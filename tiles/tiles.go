// Package tiles defines the tile colors and tile multisets that the
// rest of the engine is built on.
package tiles

import (
	"strconv"
	"strings"
)

// Color is one of the five tile colors.
type Color uint8

const (
	Blue Color = iota
	Yellow
	Red
	Black
	White
)

// NumColors is the number of distinct tile colors.
const NumColors = 5

var colorNames = [NumColors]string{"blue", "yellow", "red", "black", "white"}

func (c Color) String() string {
	if int(c) < NumColors {
		return colorNames[c]
	}
	return "??"
}

// ParseColor parses a color name. The second return value is false if
// the name is not a known color.
func ParseColor(s string) (Color, bool) {
	for i, n := range colorNames {
		if strings.EqualFold(s, n) {
			return Color(i), true
		}
	}
	return 0, false
}

// Count is a multiset of tiles, indexed by color. The zero value is an
// empty multiset.
type Count [NumColors]uint8

// Total returns the number of tiles in the multiset.
func (tc Count) Total() int {
	t := 0
	for _, n := range tc {
		t += int(n)
	}
	return t
}

// Empty returns true if the multiset holds no tiles.
func (tc Count) Empty() bool {
	return tc == Count{}
}

// Add adds n tiles of the given color.
func (tc *Count) Add(c Color, n int) {
	tc[c] += uint8(n)
}

// Remove removes n tiles of the given color. It panics if the multiset
// does not hold that many; callers validate first.
func (tc *Count) Remove(c Color, n int) {
	if int(tc[c]) < n {
		panic("tiles: removing more tiles than present")
	}
	tc[c] -= uint8(n)
}

func (tc Count) String() string {
	var sb strings.Builder
	first := true
	for c := Color(0); c < NumColors; c++ {
		if tc[c] == 0 {
			continue
		}
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(colorNames[c])
		if tc[c] > 1 {
			sb.WriteByte('x')
			sb.WriteString(strconv.Itoa(int(tc[c])))
		}
	}
	if first {
		return "(empty)"
	}
	return sb.String()
}
