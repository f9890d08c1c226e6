package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/df-mc/sower/editor/sowing"
)

func TestReadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c, err := readConfig(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if c != DefaultConfig() {
		t.Fatalf("expected default config, got %+v", c)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}

	c.Terrain.SizeX = 64
	c.Sower.TickDelay = 25 * time.Millisecond
	c.Log.Level = "debug"
	if err := os.WriteFile(path, []byte("[Terrain]\nSizeX = 64\n[Sower]\nTickDelay = \"25ms\"\n[Log]\nLevel = \"debug\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	read, err := readConfig(path)
	if err != nil {
		t.Fatalf("reread config: %v", err)
	}
	if read != c {
		t.Fatalf("config not read back: got %+v, want %+v", read, c)
	}
	if read.LogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", read.LogLevel())
	}
}

func TestEditorRestoresJournal(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := DefaultConfig()
	uc.Terrain.SizeX, uc.Terrain.SizeY = 64, 64
	uc.Sower.Seed = 3
	uc.Sower.RulesFile = filepath.Join(dir, "rules.toml")
	uc.Sower.CatalogFile = filepath.Join(dir, "catalog.toml")
	uc.Journal.Folder = filepath.Join(dir, "journal")

	e, err := uc.open(log)
	if err != nil {
		t.Fatalf("open editor: %v", err)
	}
	e.sower.Resume()
	deadline := time.Now().Add(5 * time.Second)
	for e.m.Count() < 10 {
		if time.Now().After(deadline) {
			t.Fatalf("editor did not sow any trinkets")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := e.sower.Pause(context.Background()); err != nil {
		t.Fatalf("pause: %v", err)
	}
	sowed := e.m.Count()
	if err := e.Close(); err != nil {
		t.Fatalf("close editor: %v", err)
	}

	e, err = uc.open(log)
	if err != nil {
		t.Fatalf("reopen editor: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	if e.m.Count() != sowed {
		t.Fatalf("expected %d restored trinkets, got %d", sowed, e.m.Count())
	}
	for _, file := range []string{uc.Sower.RulesFile, uc.Sower.CatalogFile} {
		if _, err := os.Stat(file); err != nil {
			t.Fatalf("expected %v to be written: %v", file, err)
		}
	}
}

func TestEditorRejectsInvalidGrowthChance(t *testing.T) {
	uc := DefaultConfig()
	uc.Terrain.SizeX, uc.Terrain.SizeY = 16, 16
	uc.Sower.RulesFile, uc.Sower.CatalogFile = "", ""
	uc.Journal.Enabled = false
	uc.Sower.GrowthChance = 0.3

	if _, err := uc.open(slog.New(slog.NewTextHandler(io.Discard, nil))); !errors.Is(err, sowing.ErrInvalidGrowthChance) {
		t.Fatalf("expected ErrInvalidGrowthChance, got %v", err)
	}
}
