// Package store implements the locked, invariant-checked per-newsgroup
// article index: one small bbolt database per group, guarded by an
// exclusive advisory lock on a sibling "index.lock" file, split into
// five tagged buckets (meta/numbers/stamps/overview/topics).
package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.etcd.io/bbolt"

	"github.com/lornews/lord/internal/config"
)

// Mode selects how OpenGroupIndex opens a group's index.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
	ReadWriteCreate
)

var (
	bucketMeta     = []byte("meta")
	bucketNumbers  = []byte("numbers")
	bucketStamps   = []byte("stamps")
	bucketOverview = []byte("overview")
	bucketTopics   = []byte("topics")

	keyCount = []byte("count")
	keyMin   = []byte("min")
	keyMax   = []byte("max")
)

// IntegrityError reports a broken index, tagged with the group's on-disk
// path. It is always fatal to the caller.
type IntegrityError struct {
	Group string
	Path  string
	Err   error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("broken index for group %q at %s: %v", e.Group, e.Path, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// Store caches open group handles: open-on-demand, reference-counted,
// closed when idle.
type Store struct {
	cfg *config.GatewayConfig

	mu     sync.Mutex
	groups map[string]*groupHandle
}

type groupHandle struct {
	mu       sync.Mutex // serializes opens/closes of this group's handle
	refs     int
	group    string
	dir      string
	lockPath string
	dbPath   string
	lock     *flock.Flock
	db       *bbolt.DB
}

// New creates a Store rooted at cfg.Root.
func New(cfg *config.GatewayConfig) *Store {
	return &Store{cfg: cfg, groups: make(map[string]*groupHandle)}
}

// GroupIndex is a handle to one group's open, lock-held index. Callers
// MUST call Close when done.
type GroupIndex struct {
	store *Store
	h     *groupHandle
	group string
}

// OpenGroupIndex opens (and, for ReadWriteCreate, creates) the index for
// group, blocking on the advisory lock, then validates its invariants.
// Locking is always exclusive regardless of mode: there is no
// reader/writer separation.
func (s *Store) OpenGroupIndex(group string, mode Mode) (*GroupIndex, error) {
	dir := s.cfg.GroupDir(group)
	lockPath := filepath.Join(dir, "index.lock")
	dbPath := filepath.Join(dir, "index")

	if mode == ReadWriteCreate {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create group dir %s: %w", dir, err)
		}
	} else if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no such newsgroup %q: %w", group, err)
	}

	s.mu.Lock()
	h, ok := s.groups[group]
	if !ok {
		h = &groupHandle{group: group, dir: dir, lockPath: lockPath, dbPath: dbPath}
		s.groups[group] = h
	}
	s.mu.Unlock()

	h.mu.Lock()
	if h.refs == 0 {
		if err := h.open(); err != nil {
			h.mu.Unlock()
			return nil, err
		}
	}
	h.refs++
	h.mu.Unlock()

	gi := &GroupIndex{store: s, h: h, group: group}
	if err := gi.validateInvariants(); err != nil {
		gi.Close()
		return nil, &IntegrityError{Group: group, Path: dbPath, Err: err}
	}
	return gi, nil
}

func (h *groupHandle) open() error {
	lk := flock.New(h.lockPath)
	if err := lk.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", h.lockPath, err)
	}
	db, err := bbolt.Open(h.dbPath, 0644, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		_ = lk.Unlock()
		return fmt.Errorf("open index %s: %w", h.dbPath, err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMeta, bucketNumbers, bucketStamps, bucketOverview, bucketTopics} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		meta := tx.Bucket(bucketMeta)
		if meta.Get(keyMax) == nil {
			if err := putUint64(meta, keyMax, 0); err != nil {
				return err
			}
			if err := putUint64(meta, keyMin, 1); err != nil {
				return err
			}
			if err := putUint64(meta, keyCount, 0); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		_ = lk.Unlock()
		return fmt.Errorf("init index %s: %w", h.dbPath, err)
	}
	h.lock = lk
	h.db = db
	return nil
}

// Close releases this handle's reference; the underlying lock/db are
// released once the last reference is returned.
func (gi *GroupIndex) Close() error {
	h := gi.h
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs <= 0 {
		return nil
	}
	h.refs--
	if h.refs > 0 {
		return nil
	}
	var err error
	if h.db != nil {
		if cerr := h.db.Close(); cerr != nil {
			err = cerr
		}
		h.db = nil
	}
	if h.lock != nil {
		if uerr := h.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
		h.lock = nil
	}
	return err
}

// Status returns the {count, min, max} triple.
func (gi *GroupIndex) Status() (count, min, max int64, err error) {
	err = gi.h.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		count = int64(getUint64(meta, keyCount))
		min = int64(getUint64(meta, keyMin))
		max = int64(getUint64(meta, keyMax))
		return nil
	})
	return
}

func (gi *GroupIndex) validateInvariants() error {
	count, min, max, err := gi.Status()
	if err != nil {
		return err
	}
	if count < 0 || min < 0 || max < 0 {
		return fmt.Errorf("negative count/min/max: count=%d min=%d max=%d", count, min, max)
	}
	if count > 0 {
		if max-min+1 < count {
			return fmt.Errorf("max-min+1 < count: min=%d max=%d count=%d", min, max, count)
		}
	} else {
		if max-min+1 != 0 {
			return fmt.Errorf("empty group but min != max+1: min=%d max=%d", min, max)
		}
	}
	if min != max+1 && count == 0 {
		return fmt.Errorf("min must equal max+1 when empty: min=%d max=%d", min, max)
	}
	return nil
}

func putUint64(b *bbolt.Bucket, key []byte, v uint64) error {
	buf := make([]byte, 8)
	beUint64(buf, v)
	return b.Put(key, buf)
}

func getUint64(b *bbolt.Bucket, key []byte) uint64 {
	v := b.Get(key)
	if len(v) != 8 {
		return 0
	}
	return beToUint64(v)
}

func beUint64(buf []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
}

func beToUint64(buf []byte) uint64 {
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v
}

func numberKey(n int64) []byte {
	buf := make([]byte, 8)
	beUint64(buf, uint64(n))
	return buf
}

func warnf(format string, args ...interface{}) {
	log.Printf("[STORE] "+format, args...)
}
