package stream

import (
	"context"

	"github.com/apibara/dna/core"
	"github.com/apibara/dna/log"
	"github.com/apibara/dna/xerrors"
)

// DriverMessageKind tags what an outbound DriverMessage carries.
type DriverMessageKind int

const (
	DriverData DriverMessageKind = iota
	DriverInvalidate
)

// DriverMessage is the Driver's single outbound vocabulary: either a batch
// of data to deliver, or a request to roll the client back to EndCursor.
// See SPEC_FULL.md §4.2.
type DriverMessage struct {
	StreamID uint64
	Kind     DriverMessageKind

	// Cursor is the cursor the client was at before this message (nil at
	// subscription start). Only meaningful for Kind == DriverData.
	Cursor *core.Cursor

	// EndCursor is the new cursor after a Data batch, or the cursor to roll
	// back to for an Invalidate message.
	EndCursor core.Cursor

	Finality core.Finality // Data only
	Data     [][]byte      // Data only
}

func finalityOf(kind BatchKind) core.Finality {
	switch kind {
	case BatchFinalized:
		return core.FinalityFinalized
	case BatchAccepted:
		return core.FinalityAccepted
	case BatchPending:
		return core.FinalityPending
	default:
		return core.FinalityUnknown
	}
}

// Driver multiplexes a subscription's three input sources into one ordered
// output, in strict priority order: configuration changes first, then
// ingestion events, then produced batches. This mirrors new_data_stream's
// `tokio::select! biased;` in the original Rust driver, translated to Go's
// unbiased select via a pair of non-blocking pre-checks ahead of the final
// blocking select.
type Driver struct {
	streamID      uint64
	configCh      <-chan StreamConfiguration
	ingestionCh   <-chan IngestionMessage
	producer      *CursorProducer
	batchProducer BatchProducer
	meter         RequestMeter
	log           log.Logger
}

// NewDriver builds a Driver for one subscription.
func NewDriver(
	streamID uint64,
	configCh <-chan StreamConfiguration,
	ingestionCh <-chan IngestionMessage,
	producer *CursorProducer,
	batchProducer BatchProducer,
	meter RequestMeter,
	logger log.Logger,
) *Driver {
	return &Driver{
		streamID:      streamID,
		configCh:      configCh,
		ingestionCh:   ingestionCh,
		producer:      producer,
		batchProducer: batchProducer,
		meter:         meter,
		log:           logger,
	}
}

// Run drives the subscription until ctx is canceled, a source is
// permanently exhausted, or a terminal condition is reached (a missing
// starting cursor, or a storage/batch-production error). Every successfully
// produced message is sent to out before Run returns.
//
// configCh and ingestionCh are consumed until exhaustion: per SPEC_FULL.md
// §4.2, once either is closed the subscription ends. A closed channel's
// receive is always immediately ready with ok=false, which would busy-spin
// an unconditional retry; every branch below treats ok==false as the source
// fusing shut and returns rather than looping back to select on it again.
func (d *Driver) Run(ctx context.Context, out chan<- DriverMessage) error {
	batchCh := make(chan *BatchCursor)
	errCh := make(chan error, 1)

	producerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.runProducer(producerCtx, batchCh, errCh)

	configCh := d.configCh
	ingestionCh := d.ingestionCh

	for {
		// Configuration changes take priority over everything else: a new
		// filter or finality must apply before the next batch is produced.
		select {
		case cfg, ok := <-configCh:
			if !ok {
				d.log.Debug("configuration source exhausted, ending subscription")
				return nil
			}
			done, err := d.handleConfigurationMessage(ctx, cfg, out)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			continue
		default:
		}

		// Ingestion events come next: they may invalidate a batch before
		// it's produced.
		select {
		case msg, ok := <-ingestionCh:
			if !ok {
				d.log.Debug("ingestion source exhausted, ending subscription")
				return nil
			}
			if err := d.handleIngestionMessage(ctx, msg, out); err != nil {
				return err
			}
			continue
		default:
		}

		select {
		case cfg, ok := <-configCh:
			if !ok {
				d.log.Debug("configuration source exhausted, ending subscription")
				return nil
			}
			done, err := d.handleConfigurationMessage(ctx, cfg, out)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case msg, ok := <-ingestionCh:
			if !ok {
				d.log.Debug("ingestion source exhausted, ending subscription")
				return nil
			}
			if err := d.handleIngestionMessage(ctx, msg, out); err != nil {
				return err
			}
		case bc := <-batchCh:
			if err := d.handleBatchCursor(ctx, bc, out); err != nil {
				return err
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (d *Driver) runProducer(ctx context.Context, batchCh chan<- *BatchCursor, errCh chan<- error) {
	for {
		bc, err := d.producer.Next(ctx)
		if err != nil {
			select {
			case errCh <- err:
			case <-ctx.Done():
			}
			return
		}
		select {
		case batchCh <- bc:
		case <-ctx.Done():
			return
		}
	}
}

// handleConfigurationMessage applies a new StreamConfiguration to both the
// cursor producer and the batch producer's filter. It reports done=true
// when the subscription has reached a terminal state.
func (d *Driver) handleConfigurationMessage(ctx context.Context, cfg StreamConfiguration, out chan<- DriverMessage) (done bool, err error) {
	if err := d.batchProducer.Reconfigure(cfg); err != nil {
		return false, xerrors.Internal(err)
	}

	response, err := d.producer.Reconfigure(ctx, cfg)
	if err != nil {
		return false, err
	}
	d.streamID = cfg.StreamID

	switch response.Kind {
	case ReconfigureMissingStartingCursor:
		return true, xerrors.InvalidRequest("the specified starting cursor doesn't exist")
	case ReconfigureInvalidate:
		d.log.Debug("starting cursor invalidated on reconfigure", "cursor", response.Cursor)
		msg := DriverMessage{StreamID: d.streamID, Kind: DriverInvalidate, EndCursor: response.Cursor}
		if !sendMessage(ctx, out, msg) {
			return true, ctx.Err()
		}
	}
	return false, nil
}

func (d *Driver) handleIngestionMessage(ctx context.Context, msg IngestionMessage, out chan<- DriverMessage) error {
	response, err := d.producer.HandleIngestionMessage(ctx, msg)
	if err != nil {
		return err
	}
	if response.Kind == IngestionResponseInvalidate {
		d.log.Debug("ingestion invalidated in-flight cursor", "cursor", response.Cursor)
		msg := DriverMessage{StreamID: d.streamID, Kind: DriverInvalidate, EndCursor: response.Cursor}
		if !sendMessage(ctx, out, msg) {
			return ctx.Err()
		}
	}
	return nil
}

func (d *Driver) handleBatchCursor(ctx context.Context, bc *BatchCursor, out chan<- DriverMessage) error {
	data, err := d.batchProducer.NextBatch(ctx, bc.Cursors, d.meter)
	if err != nil {
		return xerrors.Internal(err)
	}

	msg := DriverMessage{
		StreamID:  d.streamID,
		Kind:      DriverData,
		Cursor:    bc.Start,
		EndCursor: bc.EndCursor(),
		Finality:  finalityOf(bc.Kind),
		Data:      data,
	}
	if !sendMessage(ctx, out, msg) {
		return ctx.Err()
	}
	return nil
}

// sendMessage delivers msg to out, returning false if ctx was canceled
// first.
func sendMessage(ctx context.Context, out chan<- DriverMessage, msg DriverMessage) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}
