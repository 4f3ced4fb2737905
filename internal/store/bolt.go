package store

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	processedBucket = []byte("processed_messages")
	intentsBucket   = []byte("intent_counts")
)

// Store records delivered message IDs and classifier analytics. Conversation
// state is never persisted here.
type Store interface {
	MarkProcessed(messageID string, at time.Time) (bool, error)
	PruneProcessed(before time.Time) (int, error)
	RecordIntent(label string) error
	IntentCounts() (map[string]uint64, error)
	Close() error
}

type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(processedBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(intentsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// MarkProcessed records messageID and reports whether this is its first delivery.
func (s *BoltStore) MarkProcessed(messageID string, at time.Time) (bool, error) {
	first := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(processedBucket)
		if b.Get([]byte(messageID)) != nil {
			return nil
		}
		first = true
		return b.Put([]byte(messageID), encodeUint(uint64(at.Unix())))
	})
	return first, err
}

// PruneProcessed forgets message IDs recorded before the given time.
func (s *BoltStore) PruneProcessed(before time.Time) (int, error) {
	cutoff := uint64(before.Unix())
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(processedBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if decodeUint(v) < cutoff {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

func (s *BoltStore) RecordIntent(label string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(intentsBucket)
		n := decodeUint(b.Get([]byte(label)))
		return b.Put([]byte(label), encodeUint(n+1))
	})
}

func (s *BoltStore) IntentCounts() (map[string]uint64, error) {
	counts := make(map[string]uint64)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(intentsBucket).ForEach(func(k, v []byte) error {
			counts[string(k)] = decodeUint(v)
			return nil
		})
	})
	return counts, err
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func encodeUint(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func decodeUint(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
