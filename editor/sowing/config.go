package sowing

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/sower/editor/trinket"
)

var (
	// ErrDuplicateRule is returned when two rules passed to a Sower share a name.
	ErrDuplicateRule = errors.New("duplicate rule name")
	// ErrInvalidGrowthChance is returned when Config.GrowthChance does not favour growth over cold placement, or
	// exceeds 1.
	ErrInvalidGrowthChance = errors.New("growth chance must lie in (0.5, 1]")
)

// DefaultGrowthChance is the chance growth is picked over cold placement for a rule with a non-empty growth pool when
// Config.GrowthChance is left as 0.
const DefaultGrowthChance = 0.6

// Config holds the options used to create a Sower. Terrain, Builder and Scene are required.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set to slog.Default(). Failed attempts are
	// logged with debug level.
	Log *slog.Logger
	// Terrain is queried for the properties of candidate locations and for the neighbours of candidates.
	Terrain Terrain
	// Builder builds trinkets from the types registered in the rules. If the Builder also implements a Has(string) bool
	// method, such as *trinket.Registry, every type in Rules is checked against it when the Sower is created.
	Builder Builder
	// Scene receives every trinket the Sower sows.
	Scene Scene
	// Lock is held around every call to Scene.Attach and for nothing else. Other users of the scene should hold it
	// while changing the scene. If nil, a lock private to the Sower is used.
	Lock sync.Locker
	// Rules are the placement rules, evaluated in order once per tick. If nil, DefaultRules() is used.
	Rules []Rule
	// Seed seeds the random sources of the rules. Each rule gets its own source derived from Seed and its name. If 0, a
	// random seed is used.
	Seed uint64
	// GrowthChance is the chance that a rule with a non-empty growth pool grows from an existing trinket rather than
	// placing a new one at random. Growth must be favoured, so the chance must lie in (0.5, 1]. If 0,
	// DefaultGrowthChance is used.
	GrowthChance float64
	// TickDelay is the time the worker waits between two ticks. If 0, ticks run back to back.
	TickDelay time.Duration
	// Metrics receives the outcome of every attempt. If nil, a new Metrics is created.
	Metrics *Metrics
}

// New creates a Sower using the fields of conf and starts its worker. The Sower starts out Paused: Resume must be
// called for it to start sowing. An error is returned if a collaborator is missing or a rule is invalid.
func (conf Config) New() (*Sower, error) {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Terrain == nil || conf.Builder == nil || conf.Scene == nil {
		return nil, errors.New("sowing: terrain, builder and scene are required")
	}
	if conf.Lock == nil {
		conf.Lock = &sync.Mutex{}
	}
	if conf.Rules == nil {
		conf.Rules = DefaultRules()
	}
	if conf.Seed == 0 {
		conf.Seed = rand.Uint64()
	}
	if conf.GrowthChance == 0 {
		conf.GrowthChance = DefaultGrowthChance
	}
	if conf.GrowthChance <= 0.5 || conf.GrowthChance > 1 {
		return nil, fmt.Errorf("sowing: %w: got %v", ErrInvalidGrowthChance, conf.GrowthChance)
	}
	if conf.TickDelay < 0 {
		conf.TickDelay = 0
	}
	if conf.Metrics == nil {
		conf.Metrics = NewMetrics()
	}

	rules, err := conf.sowings()
	if err != nil {
		return nil, err
	}
	s := &Sower{
		conf:    conf,
		rules:   rules,
		want:    Paused,
		state:   Paused,
		changed: make(chan struct{}),
	}
	s.running.Add(1)
	go s.run()
	return s, nil
}

// sowings converts the rules of the Config to Sowings, each with its own random source.
func (conf Config) sowings() ([]*rule, error) {
	checker, _ := conf.Builder.(interface{ Has(typ string) bool })
	seen := make(map[string]struct{}, len(conf.Rules))
	rules := make([]*rule, 0, len(conf.Rules))
	for i, r := range conf.Rules {
		if r.Name == "" {
			r.Name = fmt.Sprintf("sowing-%d", i)
		}
		if _, ok := seen[r.Name]; ok {
			return nil, fmt.Errorf("rule %q: %w", r.Name, ErrDuplicateRule)
		}
		seen[r.Name] = struct{}{}

		s, err := r.Sowing()
		if err != nil {
			return nil, err
		}
		if checker != nil {
			for _, e := range r.Trinkets {
				if !checker.Has(e.Type) {
					return nil, fmt.Errorf("rule %q: %q: %w", r.Name, e.Type, trinket.ErrUnknownType)
				}
			}
		}
		conf.Log.Debug("Sowing rule ready.", "rule", r.Name, "specs", len(s.Specs()))
		rules = append(rules, &rule{
			Sowing: s,
			r:      rand.New(rand.NewPCG(conf.Seed, xxhash.Sum64String(r.Name))),
		})
	}
	return rules, nil
}
