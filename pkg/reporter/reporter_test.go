package reporter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (c *captureSink) Report(e Event) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureSink) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestAsyncReporterDelivers(t *testing.T) {
	sink := &captureSink{}
	r := NewAsyncReporter(sink, 8)

	r.Report(Event{TransactionID: "tx-1", ModuleID: "m", Phase: "running"})
	r.Report(Event{TransactionID: "tx-1", ModuleID: "m", Phase: "committed"})
	r.Close()

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, "running", events[0].Phase)
	assert.Equal(t, "committed", events[1].Phase)
}

func TestAsyncReporterNeverBlocks(t *testing.T) {
	sink := &captureSink{block: make(chan struct{})}
	r := NewAsyncReporter(sink, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			r.Report(Event{TransactionID: "tx"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Report blocked on a stalled sink")
	}

	close(sink.block)
	r.Close()
}

func TestAsyncReporterCloseIdempotent(t *testing.T) {
	r := NewAsyncReporter(&captureSink{}, 1)
	r.Close()
	r.Close()
}

func TestSlogReporterNilLogger(t *testing.T) {
	r := NewSlogReporter(nil)
	r.Report(Event{TransactionID: "tx", ModuleID: "m", Phase: "committed"})
}
