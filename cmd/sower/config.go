package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/df-mc/sower/editor/journal"
	"github.com/df-mc/sower/editor/sowing"
	"github.com/df-mc/sower/editor/terrain"
	"github.com/df-mc/sower/editor/trinket"
	"github.com/pelletier/go-toml"
)

// UserConfig is the user configuration of the sower binary. It may be serialised and is converted to the parts of an
// editor session by calling UserConfig.open().
type UserConfig struct {
	Log struct {
		// Level is the minimum level of messages logged: "debug", "info", "warn" or "error".
		Level string
	}
	Terrain struct {
		// Seed controls the generation of the demo terrain.
		Seed int64
		// SizeX and SizeY are the amount of height nodes of the terrain along each axis.
		SizeX, SizeY int
	}
	Sower struct {
		// Seed seeds the random sources of the sowing rules. If 0, a random seed is used on every start.
		Seed int64
		// GrowthChance is the chance in (0.5, 1] that a rule grows from an earlier trinket instead of placing one at
		// random. Other values make the Sower fail to start.
		GrowthChance float64
		// TickDelay is the time waited between two ticks, such as "10ms".
		TickDelay time.Duration
		// RulesFile is the TOML file holding the sowing rules. It is created with the default rules if it does not
		// exist. Leave empty to always use the default rules.
		RulesFile string
		// CatalogFile is the TOML file holding the trinket blueprints. It is created with the default blueprints if it
		// does not exist. Leave empty to always use the default blueprints.
		CatalogFile string
	}
	Journal struct {
		// Enabled controls if sowed trinkets are stored in a LevelDB journal and restored on the next start.
		Enabled bool
		// Folder is the folder the journal resides in.
		Folder string
	}
}

// DefaultConfig returns a configuration with the default values filled out.
func DefaultConfig() UserConfig {
	c := UserConfig{}
	c.Log.Level = "info"
	c.Terrain.Seed = 1
	c.Terrain.SizeX = 256
	c.Terrain.SizeY = 256
	c.Sower.GrowthChance = sowing.DefaultGrowthChance
	c.Sower.TickDelay = 0
	c.Sower.RulesFile = "rules.toml"
	c.Sower.CatalogFile = "catalog.toml"
	c.Journal.Enabled = true
	c.Journal.Folder = "journal"
	return c
}

// readConfig reads the configuration from the file at path. If the file does not exist, it is created with the default
// configuration.
func readConfig(path string) (UserConfig, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = toml.Marshal(c)
		if err != nil {
			return c, fmt.Errorf("encode default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return c, fmt.Errorf("create default config: %w", err)
		}
		return c, nil
	} else if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// LogLevel parses the configured log level, falling back to info.
func (uc UserConfig) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(uc.Log.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// editor holds everything an editor session is made of.
type editor struct {
	m       *terrain.Map
	sower   *sowing.Sower
	journal *journal.Journal
}

// Close shuts the sower down and closes the journal.
func (e *editor) Close() error {
	e.sower.Shutdown()
	if e.journal != nil {
		return e.journal.Close()
	}
	return nil
}

// open builds the terrain, trinket registry and sowing rules configured and creates a paused Sower sowing on the
// terrain. If the journal is enabled, trinkets journalled earlier are restored into the terrain first.
func (uc UserConfig) open(log *slog.Logger) (*editor, error) {
	m := terrain.Generate(uc.Terrain.Seed, uc.Terrain.SizeX, uc.Terrain.SizeY)

	reg := trinket.NewRegistry(trinket.DefaultBlueprints()...)
	if file := strings.TrimSpace(uc.Sower.CatalogFile); file != "" {
		var err error
		if reg, err = trinket.LoadCatalog(file); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}
	log.Info("Loaded trinket catalog.", "types", reg.Types())

	var rules []sowing.Rule
	if file := strings.TrimSpace(uc.Sower.RulesFile); file != "" {
		var err error
		if rules, err = sowing.LoadRules(file); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}

	e := &editor{m: m}
	var scene sowing.Scene = m
	if uc.Journal.Enabled {
		j, err := journal.Open(uc.Journal.Folder, log)
		if err != nil {
			return nil, err
		}
		n, err := j.Restore(m)
		if err != nil {
			_ = j.Close()
			return nil, fmt.Errorf("restore journal: %w", err)
		}
		log.Info("Restored journalled trinkets.", "count", n, "folder", uc.Journal.Folder)
		e.journal = j
		scene = journal.Scene{Scene: m, Journal: j}
	}

	s, err := sowing.Config{
		Log:          log,
		Terrain:      m,
		Builder:      reg,
		Scene:        scene,
		Lock:         m.Locker(),
		Rules:        rules,
		Seed:         uint64(uc.Sower.Seed),
		GrowthChance: uc.Sower.GrowthChance,
		TickDelay:    uc.Sower.TickDelay,
	}.New()
	if err != nil {
		if e.journal != nil {
			_ = e.journal.Close()
		}
		return nil, fmt.Errorf("create sower: %w", err)
	}
	e.sower = s
	return e, nil
}
