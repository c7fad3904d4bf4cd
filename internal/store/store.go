// Package store wraps the embedded KV environment behind the four durable
// tables named in spec §2: the postings store P, and the auxiliary tdf,
// norm, and docs tables. The CLI surface (spec §6) treats each as an
// independently named file, so each gets its own single-bucket bbolt
// environment — the Go analogue of the reference implementation's separate
// LMDB environments, one per table.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	bolt "go.etcd.io/bbolt"
)

// mapSize mirrors the reference implementation's 1 GiB LMDB map-size, sized
// up front so no build-time transaction triggers a mid-write remap (spec
// §5).
const mapSize = 1 << 30

const bucketName = "data"

// ErrMissingBucket indicates a store was opened against a file that was
// never finalized by a build command — index-structural corruption per
// spec §7. Postings.Get also wraps it when a dict_id has no stored blob.
var ErrMissingBucket = errors.New("store: required bucket missing")

// builder is a scoped, single-writer handle over one table's bbolt
// environment. Every exit path (Commit on success, Abort on error) either
// commits or discards the underlying transaction, per spec §5's "scoped
// acquisition" requirement.
type builder struct {
	db *bolt.DB
	tx *bolt.Tx
}

// newBuilder removes any pre-existing file at path (spec §5: "removing any
// pre-existing output directory before opening") and opens a fresh,
// pre-sized environment with one write transaction spanning the whole
// build.
func newBuilder(path string) (*builder, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("store: removing existing %s: %w", path, err)
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{InitialMmapSize: mapSize})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	tx, err := db.Begin(true)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: beginning write transaction: %w", err)
	}
	if _, err := tx.CreateBucketIfNotExists([]byte(bucketName)); err != nil {
		tx.Rollback()
		db.Close()
		return nil, fmt.Errorf("store: creating bucket: %w", err)
	}
	return &builder{db: db, tx: tx}, nil
}

func (b *builder) put(key, value []byte) error {
	return b.tx.Bucket([]byte(bucketName)).Put(key, value)
}

// Commit finalizes the build transaction and closes the environment. An
// implementer must never call Commit until every other output (e.g. an FST
// finalize) has also succeeded.
func (b *builder) Commit() error {
	if err := b.tx.Commit(); err != nil {
		b.db.Close()
		return fmt.Errorf("store: committing build transaction: %w", err)
	}
	return b.db.Close()
}

// Abort discards the build transaction and closes the environment, leaving
// no durable output — used on any build-time error path.
func (b *builder) Abort() error {
	_ = b.tx.Rollback()
	return b.db.Close()
}

// reader is a read-only, memory-mapped view over one table's finalized
// bbolt file. No locking is required for concurrent readers: bbolt read
// transactions are lock-free snapshots of the mmap'd file (spec §5).
type reader struct {
	db *bolt.DB
}

func openReader(path string) (*reader, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s read-only: %w", path, err)
	}
	return &reader{db: db}, nil
}

func (r *reader) Close() error { return r.db.Close() }

func (r *reader) get(key []byte) ([]byte, error) {
	var value []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return ErrMissingBucket
		}
		if v := bucket.Get(key); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

func (r *reader) keyCount() (int, error) {
	n := 0
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return ErrMissingBucket
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

func encodeU64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeU64(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}
