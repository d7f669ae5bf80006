package alphabeta

import "github.com/mosaicmind/mosaic/move"

// pvLine is the principal variation accumulated during a search.
// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type pvLine struct {
	moves []move.Move
}

func (pv *pvLine) clear() {
	pv.moves = pv.moves[:0]
}

// update sets the line to m followed by the line found below it.
func (pv *pvLine) update(m move.Move, child pvLine) {
	pv.moves = append(pv.moves[:0], m)
	pv.moves = append(pv.moves, child.moves...)
}
