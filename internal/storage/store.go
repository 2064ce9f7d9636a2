package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var segmentsBucket = []byte("segments")

// ErrEmptySegment is returned when appending a segment with no events.
var ErrEmptySegment = errors.New("segment has no events")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(segmentsBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AppendSegment stores events as one new columnar segment and returns its
// sequence number.
func (s *Store) AppendSegment(events []Event) (uint64, error) {
	if len(events) == 0 {
		return 0, ErrEmptySegment
	}

	block := NewBlock()
	for _, e := range events {
		block.Add(e)
	}

	data, err := json.Marshal(block)
	if err != nil {
		return 0, fmt.Errorf("encoding segment: %w", err)
	}

	var seq uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(segmentsBucket)
		var seqErr error
		seq, seqErr = b.NextSequence()
		if seqErr != nil {
			return seqErr
		}
		return b.Put(segmentKey(seq), data)
	})
	if err != nil {
		return 0, fmt.Errorf("saving segment: %w", err)
	}
	return seq, nil
}

// SegmentCount returns the number of stored segments.
func (s *Store) SegmentCount() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(segmentsBucket).Stats().KeyN
		return nil
	})
	return n, err
}

// Scan walks every segment in insertion order. When a source is given only
// the source column is examined first; messages are read for rows that
// pass it.
func (s *Store) Scan(f Filter) (*ScanResult, error) {
	res := &ScanResult{Matches: make([]Event, 0)}

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(segmentsBucket).ForEach(func(k, v []byte) error {
			var block Block
			if err := json.Unmarshal(v, &block); err != nil {
				return fmt.Errorf("decoding segment %d: %w", binary.BigEndian.Uint64(k), err)
			}

			res.ScannedSegments++
			res.ScannedEvents += block.Size()

			for _, i := range matchRows(&block, f) {
				res.Matches = append(res.Matches, block.Event(i))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func matchRows(b *Block, f Filter) []int {
	rows := make([]int, 0)
	if f.Source != "" {
		for i, src := range b.Sources {
			if src != f.Source {
				continue
			}
			if f.Contains == "" || strings.Contains(b.Messages[i], f.Contains) {
				rows = append(rows, i)
			}
		}
		return rows
	}
	for i, msg := range b.Messages {
		if strings.Contains(msg, f.Contains) {
			rows = append(rows, i)
		}
	}
	return rows
}

func segmentKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
