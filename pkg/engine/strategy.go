package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStrategy is returned for strategy names or values outside the enum.
var ErrUnknownStrategy = errors.New("unknown layout strategy")

// Strategy selects how samples are laid out.
type Strategy int

const (
	// GlobalProjection fits a 2-component PCA over the samples.
	GlobalProjection Strategy = iota
	// AxisProjection projects onto one or two user-chosen anchor axes.
	AxisProjection
	// NearestPolar arranges samples around a single anchor.
	NearestPolar
	// PathGraph lays out like GlobalProjection and adds the similarity graph
	// with an optional shortest path between two anchors.
	PathGraph
)

// Strategies lists every strategy in declaration order.
var Strategies = []Strategy{GlobalProjection, AxisProjection, NearestPolar, PathGraph}

// String returns the strategy name used in configuration and on the CLI.
func (s Strategy) String() string {
	switch s {
	case GlobalProjection:
		return "pca"
	case AxisProjection:
		return "project"
	case NearestPolar:
		return "nearest"
	case PathGraph:
		return "paths"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pca", "global", "global_projection":
		return GlobalProjection, nil
	case "project", "axis", "axis_projection":
		return AxisProjection, nil
	case "nearest", "polar", "nearest_polar":
		return NearestPolar, nil
	case "paths", "graph", "path_graph":
		return PathGraph, nil
	default:
		return GlobalProjection, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// fitsProjection reports whether the strategy uses the PCA basis.
func (s Strategy) fitsProjection() bool {
	return s == GlobalProjection || s == PathGraph
}

// SlotStatus describes how the active strategy treats a selection slot.
type SlotStatus string

const (
	// SlotEmpty holds no sample.
	SlotEmpty SlotStatus = "empty"
	// SlotIdle holds a sample the strategy ignores.
	SlotIdle SlotStatus = "idle"
	// SlotLonely holds a sample whose partner slot is empty.
	SlotLonely SlotStatus = "lonely"
	// SlotFilled holds a sample the strategy uses.
	SlotFilled SlotStatus = "filled"
)

// Selection holds up to four anchor sample IDs; "" marks an empty slot.
// Slots 0-1 form the first axis or path endpoints, slots 2-3 the second
// axis, slot 0 alone is the polar anchor.
type Selection [4]string

// Status reports how strategy s uses slot i.
func (sel Selection) Status(i int, s Strategy) SlotStatus {
	if i < 0 || i >= len(sel) || sel[i] == "" {
		return SlotEmpty
	}

	switch s {
	case NearestPolar:
		if i == 0 {
			return SlotFilled
		}
		return SlotIdle
	case PathGraph:
		if i > 1 {
			return SlotIdle
		}
		return sel.pairStatus(i)
	case AxisProjection:
		return sel.pairStatus(i)
	default:
		return SlotIdle
	}
}

// pairStatus checks slot i against its partner (0<->1, 2<->3).
func (sel Selection) pairStatus(i int) SlotStatus {
	if sel[i^1] == "" {
		return SlotLonely
	}
	return SlotFilled
}

// Filled returns the IDs in slots the strategy uses, in slot order.
func (sel Selection) Filled(s Strategy) []string {
	var ids []string
	for i, id := range sel {
		if sel.Status(i, s) == SlotFilled {
			ids = append(ids, id)
		}
	}
	return ids
}
