package eventlog

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/retry"
	"github.com/franRappazzini/boltick-contracts/pkg/retry/backoff"
	striped "github.com/franRappazzini/boltick-contracts/pkg/sync"
)

var ErrEmitterClosed = errors.New("event emitter is closed")

const (
	maxDeliveryAttempts = 5
	maxDeliveryBackoff  = 2 * time.Second
)

type asyncEmitter struct {
	log      *logrus.Entry
	next     Emitter
	queues   *striped.StripedChannel[*Event]
	workers  sync.WaitGroup
	stopOnce sync.Once

	closedMu sync.RWMutex
	closed   bool
}

// AsyncEmitter hands events to background workers so a slow sink never holds
// up an invocation. Events are striped by account onto workers, which keeps
// per-account ordering. Emit drops the event when its queue is full.
type AsyncEmitter interface {
	Emitter

	// Close stops accepting events and waits for queued ones to be delivered
	Close()
}

func NewAsyncEmitter(next Emitter, workers, queueSize uint) AsyncEmitter {
	e := &asyncEmitter{
		log:    logrus.StandardLogger().WithField("type", "eventlog/async"),
		next:   next,
		queues: striped.NewStripedChannel[*Event](workers, queueSize),
	}

	for _, queue := range e.queues.GetChannels() {
		e.workers.Add(1)
		go e.worker(queue)
	}

	return e
}

func (e *asyncEmitter) Emit(_ context.Context, event *Event) error {
	e.closedMu.RLock()
	defer e.closedMu.RUnlock()

	if e.closed {
		return ErrEmitterClosed
	}

	if !e.queues.Send([]byte(event.Account), event) {
		e.log.WithFields(logrus.Fields{
			"event_id":   event.Id,
			"event_type": event.Type,
		}).Warn("event queue full, dropping event")
	}
	return nil
}

func (e *asyncEmitter) Close() {
	e.stopOnce.Do(func() {
		e.closedMu.Lock()
		e.closed = true
		e.queues.Close()
		e.closedMu.Unlock()

		e.workers.Wait()
	})
}

func (e *asyncEmitter) worker(queue <-chan *Event) {
	defer e.workers.Done()

	for event := range queue {
		_, err := retry.Retry(
			func() error {
				return e.next.Emit(context.Background(), event)
			},
			retry.Limit(maxDeliveryAttempts),
			retry.Backoff(backoff.BinaryExponential(100*time.Millisecond), maxDeliveryBackoff),
		)
		if err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"event_id":   event.Id,
				"event_type": event.Type,
			}).Warn("failed to deliver event")
		}
	}
}
