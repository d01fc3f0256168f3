package streamsvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apibara/dna/core"
	"github.com/apibara/dna/log"
	"github.com/apibara/dna/storagemem"
	"github.com/apibara/dna/stream"
)

type nullMeter struct{}

func (nullMeter) AddBlocks(int) {}
func (nullMeter) AddBytes(int)  {}

type echoBatchProducer struct{}

func (echoBatchProducer) Reconfigure(stream.StreamConfiguration) error { return nil }

func (echoBatchProducer) NextBatch(_ context.Context, cursors []core.Cursor, _ stream.RequestMeter) ([][]byte, error) {
	out := make([][]byte, len(cursors))
	for i := range cursors {
		out[i] = []byte(cursors[i].String())
	}
	return out, nil
}

func newTestHub(store *storagemem.Store) *Hub {
	return NewHub(store, func(uint64) stream.BatchProducer { return echoBatchProducer{} }, nullMeter{}, log.Discard())
}

func TestSubscribeDeliversBatches(t *testing.T) {
	store := storagemem.New()
	var hash core.Hash
	hash[0] = 1
	store.Ingest(core.Header{Number: 0, Hash: hash}, core.BlockStatusAcceptedOnL1)

	hub := newTestHub(store)

	configCh := make(chan stream.StreamConfiguration, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := hub.Subscribe(ctx, configCh)
	configCh <- stream.StreamConfiguration{StreamID: 0, BatchSize: 1, Finality: core.FinalityFinalized}

	select {
	case msg := <-out:
		require.Equal(t, stream.DriverData, msg.Kind)
		require.Len(t, msg.Data, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for subscription data")
	}

	require.Equal(t, 1, hub.LiveStreamCount())
	cancel()

	// The channel is closed once the driver observes ctx.Done(); draining it
	// should not hang.
	for range out {
	}
	require.Equal(t, 0, hub.LiveStreamCount())
}
