// Package streamsvc wires stream.Driver subscriptions to a shared ingestion
// feed and a storage backend, and tracks which streams are currently live.
package streamsvc

import (
	"context"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/apibara/dna/event"
	"github.com/apibara/dna/log"
	"github.com/apibara/dna/stream"
)

// BatchProducerFactory builds the per-subscription stream.BatchProducer,
// e.g. one bound to a specific client-negotiated wire encoding.
type BatchProducerFactory func(streamID uint64) stream.BatchProducer

// Hub owns the node's single ingestion feed and fans it out to every active
// subscription's Driver, tracking which stream IDs are currently live.
type Hub struct {
	storage          stream.StorageReader
	newBatchProducer BatchProducerFactory
	meter            stream.RequestMeter
	log              log.Logger

	feed event.Feed[stream.IngestionMessage]

	mu      sync.Mutex
	nextID  uint64
	liveIDs mapset.Set[uint64]
}

// NewHub builds a Hub reading chain state from storage and materializing
// batches through newBatchProducer.
func NewHub(storage stream.StorageReader, newBatchProducer BatchProducerFactory, meter stream.RequestMeter, logger log.Logger) *Hub {
	return &Hub{
		storage:          storage,
		newBatchProducer: newBatchProducer,
		meter:            meter,
		log:              logger,
		liveIDs:          mapset.NewSet[uint64](),
	}
}

// Run pumps ingestionSource into the shared feed and periodically logs the
// live subscription count, until ctx is done or either task fails. The two
// tasks are grouped so a panic recovery or future health-check task can be
// added without touching Subscribe's per-client lifecycle.
func (h *Hub) Run(ctx context.Context, ingestionSource <-chan stream.IngestionMessage) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		for {
			select {
			case msg, ok := <-ingestionSource:
				if !ok {
					return nil
				}
				h.feed.Send(msg)
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
	})

	group.Go(func() error {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.log.Debug("hub heartbeat", "live_streams", h.LiveStreamCount())
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
	})

	return group.Wait()
}

// LiveStreamCount reports how many subscriptions are currently being
// served.
func (h *Hub) LiveStreamCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.liveIDs.Cardinality()
}

// Subscribe starts a new subscription driven by configCh and returns the
// channel of outbound messages. The channel is closed, and the
// subscription's stream ID removed from LiveStreamCount, once the
// subscription's Driver stops for any reason.
func (h *Hub) Subscribe(ctx context.Context, configCh <-chan stream.StreamConfiguration) <-chan stream.DriverMessage {
	h.mu.Lock()
	streamID := h.nextID
	h.nextID++
	h.liveIDs.Add(streamID)
	h.mu.Unlock()

	sessionID := uuid.New()
	sessionLog := h.log.With("session_id", sessionID.String(), "stream_id", streamID)

	sub := h.feed.Subscribe(8)
	producer := stream.NewCursorProducer(h.storage, sessionLog)
	driver := stream.NewDriver(streamID, configCh, sub.Chan(), producer, h.newBatchProducer(streamID), h.meter, sessionLog)

	out := make(chan stream.DriverMessage, 16)

	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		defer h.removeLive(streamID)

		if err := driver.Run(ctx, out); err != nil {
			sessionLog.Warn("subscription terminated", "error", err)
		}
	}()

	return out
}

func (h *Hub) removeLive(streamID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveIDs.Remove(streamID)
}
