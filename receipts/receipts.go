// Package receipts keeps a durable local log of every successful paid
// write. Addresses are the only proof of payment a content-addressed
// network gives back; printing them to a terminal and losing the
// scrollback loses the upload. The log is append-only and best-effort —
// a failure to record never fails the network operation that produced
// the receipt.
package receipts

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketReceipts = []byte("receipts")

// Kind tells what a recorded address names.
type Kind string

const (
	// KindData is a receipt for raw content.
	KindData Kind = "data"

	// KindArchive is a receipt for a stored archive manifest.
	KindArchive Kind = "archive"
)

// Receipt records one successful paid write.
type Receipt struct {
	// Address is the hex address the network assigned.
	Address string

	// Kind tells whether the address names raw content or an archive.
	Kind Kind

	// Name is the local file base name or archive entry path.
	Name string

	// Size is the stored payload length in bytes.
	Size int64

	// Cost is the network-quoted price in atto-tokens.
	Cost uint64

	// CreatedAt is when the write succeeded.
	CreatedAt time.Time
}

// Store is an append-only bbolt-backed receipt log.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the receipt database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("receipts: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("receipts: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketReceipts)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("receipts: create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Append records a receipt. Entries are keyed by a monotonic sequence
// number so List returns them in the order they were written.
func (s *Store) Append(r *Receipt) error {
	if r == nil {
		return fmt.Errorf("receipts: nil receipt")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketReceipts)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("receipts: next sequence: %w", err)
		}

		data, err := encodeGob(r)
		if err != nil {
			return fmt.Errorf("receipts: encode: %w", err)
		}

		return b.Put(seqKey(seq), data)
	})
}

// List returns all receipts in write order.
func (s *Store) List() ([]*Receipt, error) {
	var out []*Receipt
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketReceipts).ForEach(func(k, v []byte) error {
			var r Receipt
			if err := decodeGob(v, &r); err != nil {
				return fmt.Errorf("receipts: decode: %w", err)
			}
			out = append(out, &r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// seqKey encodes a sequence number as an 8-byte big-endian key for sorted
// storage.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
