// Package stream implements the streaming state machine: CursorProducer
// decides what to produce next for a subscription, and Driver multiplexes
// configuration, ingestion, and produced batches into one ordered output.
package stream

import (
	"context"

	"github.com/apibara/dna/core"
)

// BatchKind tags what a BatchCursor asks the driver to build.
type BatchKind int

const (
	BatchFinalized BatchKind = iota
	BatchAccepted
	BatchPending
)

func (k BatchKind) String() string {
	switch k {
	case BatchFinalized:
		return "finalized"
	case BatchAccepted:
		return "accepted"
	case BatchPending:
		return "pending"
	default:
		return "unknown"
	}
}

// BatchCursor is the CursorProducer's instruction for the next unit of
// output: a run of finalized blocks, or a single accepted or pending block.
// Start is the cursor the client last advanced to (nil at subscription
// start); Cursors holds 1..=batch_size entries for a Finalized batch and
// exactly one entry for Accepted/Pending.
type BatchCursor struct {
	Kind    BatchKind
	Start   *core.Cursor
	Cursors []core.Cursor
}

// NewFinalizedBatch builds a BatchCursor for a run of finalized blocks.
// cursors must be non-empty.
func NewFinalizedBatch(start *core.Cursor, cursors []core.Cursor) BatchCursor {
	return BatchCursor{Kind: BatchFinalized, Start: start, Cursors: cursors}
}

// NewAcceptedBatch builds a BatchCursor for a single accepted block.
func NewAcceptedBatch(start *core.Cursor, cursor core.Cursor) BatchCursor {
	return BatchCursor{Kind: BatchAccepted, Start: start, Cursors: []core.Cursor{cursor}}
}

// NewPendingBatch builds a BatchCursor for a single pending block.
func NewPendingBatch(start *core.Cursor, cursor core.Cursor) BatchCursor {
	return BatchCursor{Kind: BatchPending, Start: start, Cursors: []core.Cursor{cursor}}
}

// EndCursor returns the last cursor carried by the batch.
func (b BatchCursor) EndCursor() core.Cursor {
	return b.Cursors[len(b.Cursors)-1]
}

// AsFinalized returns the batch's cursors if it is a Finalized batch.
func (b BatchCursor) AsFinalized() ([]core.Cursor, bool) {
	if b.Kind != BatchFinalized {
		return nil, false
	}
	return b.Cursors, true
}

// AsAccepted returns the batch's single cursor if it is an Accepted batch.
func (b BatchCursor) AsAccepted() (core.Cursor, bool) {
	if b.Kind != BatchAccepted {
		return core.Cursor{}, false
	}
	return b.Cursors[0], true
}

// AsPending returns the batch's single cursor if it is a Pending batch.
func (b BatchCursor) AsPending() (core.Cursor, bool) {
	if b.Kind != BatchPending {
		return core.Cursor{}, false
	}
	return b.Cursors[0], true
}

// IngestionMessageKind tags an event pushed from the ingestion pipeline.
type IngestionMessageKind int

const (
	IngestionPending IngestionMessageKind = iota
	IngestionAccepted
	IngestionFinalized
	IngestionInvalidate
)

// IngestionMessage is a single event from the node: a new pending, accepted
// or finalized tip, or an invalidation of everything after Cursor.
type IngestionMessage struct {
	Kind   IngestionMessageKind
	Cursor core.Cursor
}

// ReconfigureResponseKind tags the outcome of CursorProducer.Reconfigure.
type ReconfigureResponseKind int

const (
	ReconfigureOk ReconfigureResponseKind = iota
	ReconfigureMissingStartingCursor
	ReconfigureInvalidate
)

// ReconfigureResponse is the outcome of applying a new StreamConfiguration.
type ReconfigureResponse struct {
	Kind   ReconfigureResponseKind
	Cursor core.Cursor // only meaningful when Kind == ReconfigureInvalidate
}

// IngestionResponseKind tags the outcome of
// CursorProducer.HandleIngestionMessage.
type IngestionResponseKind int

const (
	IngestionResponseOk IngestionResponseKind = iota
	IngestionResponseInvalidate
)

// IngestionResponse is the outcome of applying an IngestionMessage.
type IngestionResponse struct {
	Kind   IngestionResponseKind
	Cursor core.Cursor // only meaningful when Kind == IngestionResponseInvalidate
}

// StreamConfiguration is the client-provided subscription configuration.
type StreamConfiguration struct {
	StreamID       uint64
	StartingCursor *core.Cursor
	Finality       core.Finality
	BatchSize      int
	Filter         []byte
}

// StorageReader is the read-only view of canonical chain state the
// CursorProducer consumes. Implementations must be safe for concurrent use
// by multiple subscriptions.
type StorageReader interface {
	CanonicalBlockID(ctx context.Context, number uint64) (*core.Cursor, error)
	ReadStatus(ctx context.Context, cursor core.Cursor) (core.BlockStatus, bool, error)
	ReadHeader(ctx context.Context, cursor core.Cursor) (*core.Header, error)
	HighestAcceptedBlock(ctx context.Context) (*core.Cursor, error)
	HighestFinalizedBlock(ctx context.Context) (*core.Cursor, error)
}

// RequestMeter is charged for the work a BatchProducer performs building a
// batch. It is per-request and therefore never shared across subscriptions.
type RequestMeter interface {
	AddBlocks(n int)
	AddBytes(n int)
}

// BatchProducer materializes the encoded blocks for a set of cursors,
// charging meter for the work done. It is external to the core per spec
// §1: filters and per-block data extraction live in the implementation.
type BatchProducer interface {
	Reconfigure(cfg StreamConfiguration) error
	NextBatch(ctx context.Context, cursors []core.Cursor, meter RequestMeter) ([][]byte, error)
}
