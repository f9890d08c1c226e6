package journal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/sower/editor/trinket"
	"github.com/google/uuid"
)

// Journal persists sowed trinkets in a LevelDB database so that a scene can be restored after the editor restarts.
// Trinkets are keyed by their 16 byte ID. A Journal is safe for simultaneous use.
type Journal struct {
	db  *leveldb.DB
	log *slog.Logger
}

// Open opens the journal stored in the directory passed, creating it if it does not exist yet. If log is nil,
// slog.Default() is used.
func Open(dir string, log *slog.Logger) (*Journal, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	db, err := leveldb.OpenFile(dir, &opt.Options{Compression: opt.SnappyCompression})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{db: db, log: log}, nil
}

// Record stores t in the journal, replacing an earlier record of a trinket with the same ID.
func (j *Journal) Record(t *trinket.Trinket) error {
	if t == nil {
		return errors.New("record: nil trinket")
	}
	if err := j.db.Put(t.ID[:], encode(t), nil); err != nil {
		return fmt.Errorf("record trinket %v: %w", t.ID, err)
	}
	return nil
}

// Delete removes the trinket recorded under id. Deleting a trinket that was never recorded is not an error.
func (j *Journal) Delete(id uuid.UUID) error {
	if err := j.db.Delete(id[:], nil); err != nil {
		return fmt.Errorf("delete trinket %v: %w", id, err)
	}
	return nil
}

// Load reads every trinket in the journal, ordered by ID.
func (j *Journal) Load() ([]*trinket.Trinket, error) {
	var trinkets []*trinket.Trinket
	err := j.each(func(id uuid.UUID, value []byte) error {
		t, err := decode(id, value)
		if err != nil {
			return err
		}
		trinkets = append(trinkets, t)
		return nil
	})
	return trinkets, err
}

// Count returns the amount of trinkets in the journal.
func (j *Journal) Count() (int, error) {
	n := 0
	err := j.each(func(uuid.UUID, []byte) error {
		n++
		return nil
	})
	return n, err
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}

func (j *Journal) each(f func(id uuid.UUID, value []byte) error) error {
	iter := j.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		id, err := uuid.FromBytes(iter.Key())
		if err != nil {
			j.log.Debug("Skipping journal entry with malformed key.", "key", iter.Key(), "err", err)
			continue
		}
		if err := f(id, iter.Value()); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterate journal: %w", err)
	}
	return nil
}
