package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dgraph-io/badger/v4"
)

// Key layout: "perft/" + 8-byte big-endian position hash + 1-byte depth.
// Big-endian keeps every depth of one position adjacent in key order.
const perftPrefix = "perft/"

// PerftEntry is one stored perft result.
type PerftEntry struct {
	Hash     uint64        `json:"hash"`
	Depth    int           `json:"depth"`
	Nodes    uint64        `json:"nodes"`
	FEN      string        `json:"fen,omitempty"`
	Elapsed  time.Duration `json:"elapsed,omitempty"`
	Recorded time.Time     `json:"recorded"`
}

// Storage wraps BadgerDB for perft results.
type Storage struct {
	db *badger.DB
}

// Open opens or creates the database in dir. An empty dir selects
// GetDatabaseDir.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	// Badger info messages are logged at debug level.
	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{log.WithField("component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open perft store %s: %w", dir, err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func perftKey(hash uint64, depth int) []byte {
	key := make([]byte, 0, len(perftPrefix)+9)
	key = append(key, perftPrefix...)
	key = binary.BigEndian.AppendUint64(key, hash)
	return append(key, byte(depth))
}

// SavePerft stores e, replacing any earlier result for the same position
// and depth.
func (s *Storage) SavePerft(e PerftEntry) error {
	if e.Recorded.IsZero() {
		e.Recorded = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(e.Hash, e.Depth), data)
	})
}

// LoadPerft returns the stored result, or ok=false when there is none.
func (s *Storage) LoadPerft(hash uint64, depth int) (e PerftEntry, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(hash, depth))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	return e, ok, err
}

// Get implements perft.Cache.
func (s *Storage) Get(hash uint64, depth int) (uint64, bool, error) {
	e, ok, err := s.LoadPerft(hash, depth)
	return e.Nodes, ok, err
}

// Put implements perft.Cache.
func (s *Storage) Put(hash uint64, depth int, nodes uint64) error {
	return s.SavePerft(PerftEntry{Hash: hash, Depth: depth, Nodes: nodes})
}

// ListPerft returns every stored result in key order.
func (s *Storage) ListPerft() ([]PerftEntry, error) {
	var out []PerftEntry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(perftPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e PerftEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

// badgerLogger routes badger's logging into apex/log.
type badgerLogger struct {
	log.Interface
}

func (l badgerLogger) Errorf(f string, args ...interface{}) {
	l.Interface.Error(strings.TrimSpace(fmt.Sprintf(f, args...)))
}

func (l badgerLogger) Warningf(f string, args ...interface{}) {
	l.Interface.Warn(strings.TrimSpace(fmt.Sprintf(f, args...)))
}

func (l badgerLogger) Infof(f string, args ...interface{}) {
	l.Interface.Debug(strings.TrimSpace(fmt.Sprintf(f, args...)))
}

func (l badgerLogger) Debugf(f string, args ...interface{}) {
	l.Interface.Debug(strings.TrimSpace(fmt.Sprintf(f, args...)))
}
