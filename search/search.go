// Package search defines the request parameters and structured result
// shared by the rollout engine, the pruning engine, and the analysis
// cache.
package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/move"
)

// Type tags which engine produced (or should produce) a result.
type Type string

const (
	TypeRollout  Type = "rollout-based"
	TypePruning  Type = "pruning-based"
	TypeExternal Type = "externally-guided"
)

// ParseType parses a search-type tag.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRollout, TypePruning, TypeExternal:
		return Type(s), nil
	}
	return "", fmt.Errorf("search: unknown search type %q", s)
}

// Params are the caller-supplied budgets. MaxTime must be positive;
// rollout searches additionally need MaxRollouts and pruning searches
// MaxDepth.
type Params struct {
	MaxTime     time.Duration
	MaxRollouts int
	MaxDepth    int
}

var errNoBudget = errors.New("search: max time budget must be positive")

// Validate checks the budgets for the given search type.
func (p Params) Validate(t Type) error {
	if p.MaxTime <= 0 {
		return errNoBudget
	}
	switch t {
	case TypeRollout:
		if p.MaxRollouts <= 0 {
			return errors.New("search: rollout budget must be positive")
		}
	case TypePruning, TypeExternal:
		if p.MaxDepth <= 0 {
			return errors.New("search: depth budget must be positive")
		}
	}
	return nil
}

// Result is the structured output of a completed search. A result is
// valid after any number of fully completed iterations or depths;
// running out of budget is normal termination, not an error.
type Result struct {
	BestMove  move.Move     `json:"best_move"`
	BestScore float64       `json:"best_score"`
	PV        []move.Move   `json:"pv"`
	Elapsed   time.Duration `json:"elapsed"`
	Nodes     uint64        `json:"nodes"`
	Rollouts  uint64        `json:"rollouts,omitempty"`
	// Depth is the deepest fully completed depth (pruning search);
	// MeanRolloutDepth is the average playout length (rollout search).
	Depth            int     `json:"depth,omitempty"`
	MeanRolloutDepth float64 `json:"mean_rollout_depth,omitempty"`
}

func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "best %s (%.2f)", r.BestMove.ShortDescription(), r.BestScore)
	if len(r.PV) > 1 {
		descs := lo.Map(r.PV, func(m move.Move, _ int) string {
			return m.ShortDescription()
		})
		fmt.Fprintf(&sb, "; pv: %s", strings.Join(descs, " | "))
	}
	fmt.Fprintf(&sb, "; nodes %d", r.Nodes)
	if r.Rollouts > 0 {
		fmt.Fprintf(&sb, "; rollouts %d (avg depth %.1f)", r.Rollouts, r.MeanRolloutDepth)
	}
	if r.Depth > 0 {
		fmt.Fprintf(&sb, "; depth %d", r.Depth)
	}
	fmt.Fprintf(&sb, "; %.3fs", r.Elapsed.Seconds())
	return sb.String()
}

// Engine is a single-use search engine: one instance serves exactly one
// call, so concurrent requests never share mutable search state.
type Engine interface {
	Search(g *game.State, agentID int) (*Result, error)
}
