// Command dnastreamd runs a demo block-streaming node backed by an
// in-memory store: it ingests a small synthetic chain and serves a single
// local subscription to stdout, exercising the Cursor Producer and Stream
// Driver end to end without a real chain-indexing backend.
//
// A CLI framework is overkill for dnastreamd's three flags; see DESIGN.md for
// why this uses the standard flag package instead of the teacher's urfave/
// cli dependency.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apibara/dna/core"
	"github.com/apibara/dna/log"
	"github.com/apibara/dna/storagemem"
	"github.com/apibara/dna/stream"
	"github.com/apibara/dna/streamcfg"
	"github.com/apibara/dna/streamsvc"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (optional)")
	blocks := flag.Int("blocks", 20, "number of synthetic blocks to seed the in-memory store with")
	finality := flag.String("finality", "finalized", "data finality to request: finalized, accepted, or pending")
	flag.Parse()

	defaults, err := streamcfg.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := seedStore(*blocks)
	hub := streamsvc.NewHub(store, func(uint64) stream.BatchProducer { return textBatchProducer{} }, noopMeter{}, log.With())

	ingestionSource := make(chan stream.IngestionMessage)
	go func() {
		defer close(ingestionSource)
		<-ctx.Done()
	}()
	go func() {
		if err := hub.Run(ctx, ingestionSource); err != nil && ctx.Err() == nil {
			log.Error("hub stopped", "error", err)
		}
	}()

	configCh := make(chan stream.StreamConfiguration, 1)
	cfg := defaults.Apply(stream.StreamConfiguration{Finality: parseFinality(*finality)})
	configCh <- cfg

	out := hub.Subscribe(ctx, configCh)
	for msg := range out {
		switch msg.Kind {
		case stream.DriverData:
			fmt.Printf("data  end=%d finality=%s blocks=%d\n", msg.EndCursor.Number, msg.Finality, len(msg.Data))
		case stream.DriverInvalidate:
			fmt.Printf("invalidate end=%d\n", msg.EndCursor.Number)
		}
	}
}

func parseFinality(s string) core.Finality {
	switch s {
	case "accepted":
		return core.FinalityAccepted
	case "pending":
		return core.FinalityPending
	default:
		return core.FinalityFinalized
	}
}

// seedStore ingests a synthetic linear chain: every block but the last two
// is finalized, and the last two are merely accepted, modeling a
// realistic chain tip.
func seedStore(blocks int) *storagemem.Store {
	store := storagemem.New()
	var parent core.Hash
	for i := 0; i < blocks; i++ {
		var hash core.Hash
		hash[0] = byte(i + 1)
		status := core.BlockStatusAcceptedOnL1
		if i >= blocks-2 {
			status = core.BlockStatusAcceptedOnL2
		}
		store.Ingest(core.Header{Number: uint64(i), Hash: hash, ParentHash: parent}, status)
		parent = hash
	}
	return store
}

type noopMeter struct{}

func (noopMeter) AddBlocks(int) {}
func (noopMeter) AddBytes(int)  {}

// textBatchProducer renders each cursor as plain text, standing in for a
// real chain-specific encoder.
type textBatchProducer struct{}

func (textBatchProducer) Reconfigure(stream.StreamConfiguration) error { return nil }

func (textBatchProducer) NextBatch(_ context.Context, cursors []core.Cursor, meter stream.RequestMeter) ([][]byte, error) {
	meter.AddBlocks(len(cursors))
	out := make([][]byte, len(cursors))
	for i, c := range cursors {
		line := fmt.Sprintf("block #%d %s", c.Number, c.Hash)
		out[i] = []byte(line)
		meter.AddBytes(len(line))
	}
	time.Sleep(time.Millisecond) // simulate I/O, keeps the demo's output readable
	return out, nil
}
