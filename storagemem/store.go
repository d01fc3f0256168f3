// Package storagemem is a reference, in-memory implementation of
// stream.StorageReader. It exists so the stream package's state machine can
// be exercised end to end (by cmd/dnastreamd and integration-style tests)
// without a real chain-indexing backend.
package storagemem

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/apibara/dna/core"
)

const headerCacheSize = 4096

// blockRecord is everything the store keeps about one ingested block.
type blockRecord struct {
	header core.Header
	status core.BlockStatus
}

// Store is a thread-safe, append-only ledger of ingested blocks, indexed by
// both cursor and canonical number. Status transitions are applied by
// calling Ingest again with the new status (e.g. AcceptedOnL2 ->
// AcceptedOnL1) or, for a reorg, with Reject.
//
// Headers are additionally cached in an LRU so that repeated
// Reconfigure walk-backs over the same fork don't keep re-walking cold
// storage; the canonical-number and status maps stay in a plain map since
// every entry must remain reachable for HighestAcceptedBlock/HighestFinalizedBlock.
type Store struct {
	mu sync.RWMutex

	byCursor    map[core.Cursor]*blockRecord
	canonical   map[uint64]core.Cursor
	headerCache *lru.Cache

	highestAccepted  *core.Cursor
	highestFinalized *core.Cursor
}

// New builds an empty Store.
func New() *Store {
	cache, err := lru.New(headerCacheSize)
	if err != nil {
		// lru.New only errors on a non-positive size, which headerCacheSize
		// never is.
		panic(err)
	}
	return &Store{
		byCursor:    make(map[core.Cursor]*blockRecord),
		canonical:   make(map[uint64]core.Cursor),
		headerCache: cache,
	}
}

// Ingest records a new block as canonical at its own height, with the given
// status. It overwrites any previous canonical block at that height,
// modeling a reorg: the caller is responsible for separately Invalidating
// anything that depended on the old canonical chain.
func (s *Store) Ingest(header core.Header, status core.BlockStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cursor := core.Cursor{Number: header.Number, Hash: header.Hash}
	s.byCursor[cursor] = &blockRecord{header: header, status: status}
	s.canonical[header.Number] = cursor
	s.headerCache.Add(cursor, header)

	if status.IsAccepted() {
		if s.highestAccepted == nil || cursor.Number > s.highestAccepted.Number {
			s.highestAccepted = &cursor
		}
	}
	if status.IsFinalized() {
		if s.highestFinalized == nil || cursor.Number > s.highestFinalized.Number {
			s.highestFinalized = &cursor
		}
	}
}

// Reject marks cursor (and, implicitly, everything built on top of it) as no
// longer canonical. It does not remove the canonical-number entry: a reorg
// records the replacement via a later Ingest at the same height.
func (s *Store) Reject(cursor core.Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.byCursor[cursor]; ok {
		rec.status = core.BlockStatusRejected
	}
	if s.highestAccepted != nil && *s.highestAccepted == cursor {
		s.highestAccepted = nil
	}
	if s.highestFinalized != nil && *s.highestFinalized == cursor {
		s.highestFinalized = nil
	}
}

// CanonicalBlockID implements stream.StorageReader.
func (s *Store) CanonicalBlockID(_ context.Context, number uint64) (*core.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cursor, ok := s.canonical[number]
	if !ok {
		return nil, nil
	}
	return &cursor, nil
}

// ReadStatus implements stream.StorageReader.
func (s *Store) ReadStatus(_ context.Context, cursor core.Cursor) (core.BlockStatus, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byCursor[cursor]
	if !ok {
		return core.BlockStatusUnknown, false, nil
	}
	return rec.status, true, nil
}

// ReadHeader implements stream.StorageReader.
func (s *Store) ReadHeader(_ context.Context, cursor core.Cursor) (*core.Header, error) {
	if cached, ok := s.headerCache.Get(cursor); ok {
		header := cached.(core.Header)
		return &header, nil
	}

	s.mu.RLock()
	rec, ok := s.byCursor[cursor]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	s.headerCache.Add(cursor, rec.header)
	header := rec.header
	return &header, nil
}

// HighestAcceptedBlock implements stream.StorageReader.
func (s *Store) HighestAcceptedBlock(_ context.Context) (*core.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highestAccepted, nil
}

// HighestFinalizedBlock implements stream.StorageReader.
func (s *Store) HighestFinalizedBlock(_ context.Context) (*core.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highestFinalized, nil
}
