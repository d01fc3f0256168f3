package stream

import (
	"context"
	"sync"

	"github.com/apibara/dna/core"
	"github.com/apibara/dna/log"
	"github.com/apibara/dna/xerrors"
)

// batchConfiguration is the per-subscription state created by Reconfigure
// and consulted by every subsequent Next call.
type batchConfiguration struct {
	current      *core.Cursor
	pendingSent  bool
	dataFinality core.Finality
	batchSize    int
}

// ingestionView is the producer's cached view of the node's chain tips,
// populated lazily from storage on first use (see ensureIngestionView).
type ingestionView struct {
	finalized *core.Cursor
	accepted  *core.Cursor
	pending   *core.Cursor
}

// CursorProducer is the per-subscription state machine described in
// SPEC_FULL.md §4.1. The zero value is not usable; construct with
// NewCursorProducer. A CursorProducer is safe for concurrent use: Next may
// run on its own goroutine while Reconfigure/HandleIngestionMessage run on
// the Driver's, the way SequentialCursorProducer's Rust original expects
// its three entry points to be called from a single task but still needs
// the borrow checker's ordering preserved — here a mutex plays that role.
type CursorProducer struct {
	storage StorageReader
	log     log.Logger

	mu            sync.Mutex
	config        *batchConfiguration
	ingestionView *ingestionView
	wake          chan struct{}
}

// NewCursorProducer builds a CursorProducer reading from storage.
func NewCursorProducer(storage StorageReader, logger log.Logger) *CursorProducer {
	return &CursorProducer{
		storage: storage,
		log:     logger,
		wake:    make(chan struct{}, 1),
	}
}

// wakeLocked signals the subscription's Next loop that a re-poll might
// produce work. Must be called with mu held. Overwriting an already-full
// slot is correct: a single pending wake is all a single consumer needs.
func (p *CursorProducer) wakeLocked() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// ensureIngestionViewLocked lazily populates ingestionView from storage.
// Must be called with mu held. Deferring this read avoids spurious storage
// calls for subscriptions that reconfigure again before their first poll.
func (p *CursorProducer) ensureIngestionViewLocked(ctx context.Context) error {
	if p.ingestionView != nil {
		return nil
	}
	accepted, err := p.storage.HighestAcceptedBlock(ctx)
	if err != nil {
		return xerrors.Internal(err)
	}
	finalized, err := p.storage.HighestFinalizedBlock(ctx)
	if err != nil {
		return xerrors.Internal(err)
	}
	p.ingestionView = &ingestionView{accepted: accepted, finalized: finalized}
	return nil
}

// Reconfigure applies a new StreamConfiguration, resolving and possibly
// rewinding the client's requested starting cursor. See SPEC_FULL.md §4.1.
func (p *CursorProducer) Reconfigure(ctx context.Context, cfg StreamConfiguration) (ReconfigureResponse, error) {
	var current *core.Cursor
	response := ReconfigureResponse{Kind: ReconfigureOk}

	if cfg.StartingCursor != nil {
		startingCursor := *cfg.StartingCursor

		if startingCursor.Hash.IsZero() {
			resolved, err := p.storage.CanonicalBlockID(ctx, startingCursor.Number)
			if err != nil {
				return ReconfigureResponse{}, xerrors.Internal(err)
			}
			if resolved == nil {
				return ReconfigureResponse{Kind: ReconfigureMissingStartingCursor}, nil
			}
			startingCursor = *resolved
		}

		status, ok, err := p.storage.ReadStatus(ctx, startingCursor)
		if err != nil {
			return ReconfigureResponse{}, xerrors.Internal(err)
		}
		if !ok {
			return ReconfigureResponse{Kind: ReconfigureMissingStartingCursor}, nil
		}

		if status.IsAccepted() || status.IsFinalized() {
			current = &startingCursor
		} else {
			// The client's checkpoint is no longer canonical. Walk
			// backward via parent pointers to the fork point rather than
			// erroring: the client just needs to be told to invalidate
			// everything after it.
			newRoot := startingCursor
			for {
				status, ok, err := p.storage.ReadStatus(ctx, newRoot)
				if err != nil {
					return ReconfigureResponse{}, xerrors.Internal(err)
				}
				if !ok {
					return ReconfigureResponse{Kind: ReconfigureMissingStartingCursor}, nil
				}
				if status.IsAccepted() || status.IsFinalized() {
					break
				}
				header, err := p.storage.ReadHeader(ctx, newRoot)
				if err != nil {
					return ReconfigureResponse{}, xerrors.Internal(err)
				}
				if header == nil {
					return ReconfigureResponse{Kind: ReconfigureMissingStartingCursor}, nil
				}
				newRoot = header.ParentCursor()
			}
			current = &newRoot
			response = ReconfigureResponse{Kind: ReconfigureInvalidate, Cursor: newRoot}
		}
	}

	p.mu.Lock()
	p.config = &batchConfiguration{
		current:      current,
		pendingSent:  false,
		dataFinality: cfg.Finality,
		batchSize:    cfg.BatchSize,
	}
	p.wakeLocked()
	p.mu.Unlock()

	p.log.Debug("reconfigured stream", "stream_id", cfg.StreamID, "finality", cfg.Finality, "response", response.Kind)
	return response, nil
}

// HandleIngestionMessage applies a node event to the cached ingestion view
// and, if it retroactively invalidates data already advanced past, reports
// an Invalidate response. See SPEC_FULL.md §4.1.
func (p *CursorProducer) HandleIngestionMessage(ctx context.Context, msg IngestionMessage) (IngestionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureIngestionViewLocked(ctx); err != nil {
		return IngestionResponse{}, err
	}

	var response IngestionResponse
	switch msg.Kind {
	case IngestionPending:
		c := msg.Cursor
		p.ingestionView.pending = &c
		if p.config != nil {
			p.config.pendingSent = false
		}
		response = IngestionResponse{Kind: IngestionResponseOk}

	case IngestionAccepted:
		c := msg.Cursor
		p.ingestionView.finalized = nil
		p.ingestionView.accepted = &c
		response = IngestionResponse{Kind: IngestionResponseOk}

	case IngestionFinalized:
		c := msg.Cursor
		p.ingestionView.finalized = &c
		response = IngestionResponse{Kind: IngestionResponseOk}

	case IngestionInvalidate:
		c := msg.Cursor
		p.ingestionView.pending = nil
		p.ingestionView.accepted = core.ClampCursor(p.ingestionView.accepted, c)
		p.ingestionView.finalized = core.ClampCursor(p.ingestionView.finalized, c)

		if p.config != nil {
			isInvalidated := p.config.current != nil && p.config.current.Number > c.Number
			p.config.current = core.ClampCursor(p.config.current, c)
			if isInvalidated {
				response = IngestionResponse{Kind: IngestionResponseInvalidate, Cursor: c}
			} else {
				response = IngestionResponse{Kind: IngestionResponseOk}
			}
		} else {
			response = IngestionResponse{Kind: IngestionResponseOk}
		}
	}

	p.wakeLocked()
	return response, nil
}

// Next blocks until a BatchCursor is ready to emit, ctx is done, or a
// storage error occurs. It is the pull interface described in
// SPEC_FULL.md §4.1 ("poll_next"), translated from Rust's Poll::Pending
// into a blocking call plus a cancelable wait on the wake channel.
func (p *CursorProducer) Next(ctx context.Context) (*BatchCursor, error) {
	for {
		bc, err := p.produceOnce(ctx)
		if err != nil {
			return nil, err
		}
		if bc != nil {
			return bc, nil
		}
		select {
		case <-p.wake:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// produceOnce makes one production decision without blocking: it either
// returns a ready BatchCursor, (nil, nil) if nothing is ready yet, or an
// error on storage failure.
func (p *CursorProducer) produceOnce(ctx context.Context) (*BatchCursor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config == nil {
		return nil, nil
	}
	if err := p.ensureIngestionViewLocked(ctx); err != nil {
		return nil, err
	}

	finalized := p.ingestionView.finalized
	accepted := p.ingestionView.accepted
	pending := p.ingestionView.pending

	startingCursor := p.config.current
	var next uint64
	if p.config.current != nil {
		next = p.config.current.Number + 1
	}

	if finalized != nil && next <= finalized.Number {
		return p.nextFinalizedLocked(ctx, startingCursor, next, *finalized)
	}
	if accepted != nil && next <= accepted.Number {
		return p.nextAcceptedLocked(ctx, startingCursor, next)
	}
	if pending != nil && next <= pending.Number {
		return p.nextPendingLocked(ctx, startingCursor, next)
	}
	return nil, nil
}

func (p *CursorProducer) nextFinalizedLocked(ctx context.Context, startingCursor *core.Cursor, next uint64, finalized core.Cursor) (*BatchCursor, error) {
	end := next + uint64(p.config.batchSize) - 1
	if finalized.Number < end {
		end = finalized.Number
	}

	cursors := make([]core.Cursor, 0, p.config.batchSize)
	for blockNumber := next; blockNumber <= end; blockNumber++ {
		cursor, err := p.storage.CanonicalBlockID(ctx, blockNumber)
		if err != nil {
			return nil, xerrors.Internal(err)
		}
		if cursor == nil {
			break
		}
		cursors = append(cursors, *cursor)
	}

	if len(cursors) == 0 {
		return nil, nil
	}

	batch := NewFinalizedBatch(startingCursor, cursors)
	last := batch.EndCursor()
	p.config.current = &last
	return &batch, nil
}

func (p *CursorProducer) nextAcceptedLocked(ctx context.Context, startingCursor *core.Cursor, next uint64) (*BatchCursor, error) {
	if p.config.dataFinality == core.FinalityUnknown || p.config.dataFinality == core.FinalityFinalized {
		return nil, nil
	}

	cursor, err := p.storage.CanonicalBlockID(ctx, next)
	if err != nil {
		return nil, xerrors.Internal(err)
	}
	if cursor == nil {
		return nil, nil
	}

	batch := NewAcceptedBatch(startingCursor, *cursor)
	p.config.current = cursor
	return &batch, nil
}

func (p *CursorProducer) nextPendingLocked(ctx context.Context, startingCursor *core.Cursor, next uint64) (*BatchCursor, error) {
	if p.config.dataFinality != core.FinalityPending || p.config.pendingSent {
		return nil, nil
	}

	cursor, err := p.storage.CanonicalBlockID(ctx, next)
	if err != nil {
		return nil, xerrors.Internal(err)
	}
	if cursor == nil {
		return nil, nil
	}

	batch := NewPendingBatch(startingCursor, *cursor)
	p.config.pendingSent = true
	// current is deliberately not advanced: the same block number may
	// still arrive as an Accepted ingestion event and must stay emittable.
	return &batch, nil
}
