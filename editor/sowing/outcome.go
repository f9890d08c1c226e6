package sowing

import "github.com/df-mc/sower/editor/trinket"

// Result is the kind of result a single sowing attempt had.
type Result uint8

const (
	// Idle means nothing was attempted, for example growth on an empty pool.
	Idle Result = iota
	// Placed means cold placement produced a trinket.
	Placed
	// Grown means growth produced a trinket next to a seed.
	Grown
	// Disallowed means the location drawn failed a constraint of the rule.
	Disallowed
	// Overlap means the candidate was too close to a neighbour.
	Overlap
	// Evicted means growth failed every attempt and the seed left the pool.
	Evicted
	// Fault means a collaborator failed. The error is held in Outcome.Err.
	Fault
)

// String ...
func (r Result) String() string {
	switch r {
	case Idle:
		return "idle"
	case Placed:
		return "placed"
	case Grown:
		return "grown"
	case Disallowed:
		return "disallowed"
	case Overlap:
		return "overlap"
	case Evicted:
		return "evicted"
	case Fault:
		return "fault"
	}
	return "unknown"
}

// Outcome is the result of one cold placement or growth attempt. Only Fault outcomes carry an error: a rule producing
// nothing is an ordinary outcome.
type Outcome struct {
	Result Result
	// Trinket is the trinket produced for Placed and Grown, and the evicted seed for Evicted.
	Trinket *trinket.Trinket
	Err     error
}

// Produced reports if the outcome holds a new trinket to commit.
func (o Outcome) Produced() bool {
	return (o.Result == Placed || o.Result == Grown) && o.Trinket != nil
}
