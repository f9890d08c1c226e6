package sowing

import (
	"slices"
	"strings"
	"sync"
)

// RuleStats holds the counters of a single rule.
type RuleStats struct {
	Rule       string
	Placed     uint64
	Grown      uint64
	Disallowed uint64
	Overlaps   uint64
	Evicted    uint64
	Faults     uint64
	// Pool is the size of the growth pool after the last attempt.
	Pool int
}

// Committed returns the amount of trinkets the rule committed to the scene.
func (s RuleStats) Committed() uint64 {
	return s.Placed + s.Grown
}

// Metrics tracks per-rule counters for observability. A nil *Metrics is safe to use and records nothing.
type Metrics struct {
	mu    sync.Mutex
	rules map[string]*RuleStats
}

// NewMetrics creates an empty metrics registry.
func NewMetrics() *Metrics {
	return &Metrics{rules: make(map[string]*RuleStats)}
}

// Observe counts the outcome of an attempt of the rule passed.
func (m *Metrics) Observe(rule string, o Outcome) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.ruleLocked(rule)
	switch o.Result {
	case Placed:
		st.Placed++
	case Grown:
		st.Grown++
	case Disallowed:
		st.Disallowed++
	case Overlap:
		st.Overlaps++
	case Evicted:
		st.Evicted++
	case Fault:
		st.Faults++
	}
}

// SetPoolSize stores the current growth pool size gauge for a rule.
func (m *Metrics) SetPoolSize(rule string, size int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.ruleLocked(rule).Pool = size
	m.mu.Unlock()
}

// Rule returns the counters of the rule passed.
func (m *Metrics) Rule(rule string) RuleStats {
	if m == nil {
		return RuleStats{Rule: rule}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.rules[rule]; ok {
		return *st
	}
	return RuleStats{Rule: rule}
}

// Snapshot returns the counters of every rule, sorted by rule name.
func (m *Metrics) Snapshot() []RuleStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	stats := make([]RuleStats, 0, len(m.rules))
	for _, st := range m.rules {
		stats = append(stats, *st)
	}
	m.mu.Unlock()
	slices.SortFunc(stats, func(a, b RuleStats) int {
		return strings.Compare(a.Rule, b.Rule)
	})
	return stats
}

func (m *Metrics) ruleLocked(rule string) *RuleStats {
	st, ok := m.rules[rule]
	if !ok {
		st = &RuleStats{Rule: rule}
		m.rules[rule] = st
	}
	return st
}
