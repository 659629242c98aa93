package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/manav03panchal/toggl2slack/internal/errors"
	"github.com/manav03panchal/toggl2slack/internal/logging"
)

// Dispatcher sends every message to all of its senders concurrently.
type Dispatcher struct {
	senders []Sender
}

// NewDispatcher creates a dispatcher over senders.
func NewDispatcher(senders ...Sender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

// Len returns the number of senders.
func (d *Dispatcher) Len() int {
	return len(d.senders)
}

// DispatchResult contains the result of sending to a single sender.
type DispatchResult struct {
	Sink     string
	Success  bool
	Duration time.Duration
	Error    error
}

// Dispatch sends msg to every sender and reports each outcome in sender order.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) []DispatchResult {
	results := make([]DispatchResult, len(d.senders))

	var wg sync.WaitGroup
	for i, s := range d.senders {
		wg.Add(1)
		go func(idx int, s Sender) {
			defer wg.Done()
			start := time.Now()
			err := s.Send(ctx, msg)
			results[idx] = DispatchResult{
				Sink:     s.Name(),
				Success:  err == nil,
				Duration: time.Since(start),
				Error:    err,
			}
			if err != nil {
				logging.FromContext(ctx).Warn("delivery failed",
					logging.KeySink, s.Name(),
					logging.KeyError, err.Error())
			}
		}(i, s)
	}
	wg.Wait()
	return results
}

// Name identifies the dispatcher.
func (d *Dispatcher) Name() string {
	return fmt.Sprintf("dispatcher(%d)", len(d.senders))
}

// Send implements Sender. It fails when any sender fails, joining all errors.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	return ResultsError(d.Dispatch(ctx, msg))
}

// ResultsError joins the errors of failed results, or returns nil.
func ResultsError(results []DispatchResult) error {
	var errs []error
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Sink, r.Error))
		}
	}
	return errors.Join(errs...)
}
