package journal

import (
	"github.com/df-mc/sower/editor/sowing"
	"github.com/df-mc/sower/editor/trinket"
)

// Scene records every trinket attached to the wrapped scene in a Journal.
type Scene struct {
	sowing.Scene
	Journal *Journal
}

// Attach attaches t to the wrapped scene and records it once attached. A failure to record is logged but not returned,
// since t is part of the scene at that point.
func (s Scene) Attach(t *trinket.Trinket) error {
	if err := s.Scene.Attach(t); err != nil {
		return err
	}
	if err := s.Journal.Record(t); err != nil {
		s.Journal.log.Error("Could not record trinket.", "id", t.ID, "type", t.Type, "err", err)
	}
	return nil
}

// Restore attaches every trinket in the journal to scene directly, without recording them again. It returns the amount
// of trinkets restored. Trinkets the scene rejects are logged and skipped.
func (j *Journal) Restore(scene sowing.Scene) (int, error) {
	trinkets, err := j.Load()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range trinkets {
		if err := scene.Attach(t); err != nil {
			j.log.Warn("Could not restore trinket.", "id", t.ID, "type", t.Type, "err", err)
			continue
		}
		n++
	}
	return n, nil
}
