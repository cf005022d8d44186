/*
Copyright © 2025 modctl authors
SPDX-License-Identifier: Apache-2.0
*/
package reporter

import (
	"log/slog"
	"sync"
	"time"

	"github.com/modctl/modctl/pkg/defaults"
)

// Event is a fire-and-forget notification about a transaction milestone.
type Event struct {
	TransactionID string
	ModuleID      string
	Operation     string
	Phase         string
	Detail        string
	Time          time.Time
}

// Reporter receives transaction events. Implementations must never block the
// caller and must never return an error into the transaction path; reporting
// failures are logged and dropped.
type Reporter interface {
	Report(e Event)
}

// SlogReporter writes each event as a structured log record.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter creates a reporter backed by logger; a nil logger uses the
// process default.
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{logger: logger}
}

// Report implements Reporter.
func (r *SlogReporter) Report(e Event) {
	r.logger.Info("transaction event",
		"transaction", e.TransactionID,
		"module", e.ModuleID,
		"operation", e.Operation,
		"phase", e.Phase,
		"detail", e.Detail,
	)
}

// AsyncReporter decouples event delivery from the transaction path with a
// bounded buffer. When the buffer is full the event is dropped and counted;
// the core never waits on a slow sink.
type AsyncReporter struct {
	sink   Reporter
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewAsyncReporter wraps sink with a buffered, non-blocking delivery loop.
// A buffer of zero uses the default size.
func NewAsyncReporter(sink Reporter, buffer int) *AsyncReporter {
	if buffer <= 0 {
		buffer = defaults.ReporterBuffer
	}
	r := &AsyncReporter{
		sink:   sink,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *AsyncReporter) run() {
	defer close(r.done)
	for e := range r.events {
		r.sink.Report(e)
	}
}

// Report implements Reporter. It never blocks; events beyond the buffer are
// dropped.
func (r *AsyncReporter) Report(e Event) {
	select {
	case r.events <- e:
	default:
		eventsDropped.Inc()
		slog.Debug("reporter buffer full, event dropped",
			"transaction", e.TransactionID, "module", e.ModuleID)
	}
}

// Close drains buffered events and stops the delivery loop. Report must not
// be called after Close.
func (r *AsyncReporter) Close() {
	r.once.Do(func() {
		close(r.events)
		<-r.done
	})
}
