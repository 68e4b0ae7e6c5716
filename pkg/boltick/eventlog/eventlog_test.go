package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	a := NewEvent(TypeTicketMinted, "account", "signer", map[string]string{"nft_id": "1"}, ts)
	b := NewEvent(TypeTicketMinted, "account", "signer", nil, ts)

	assert.NotEmpty(t, a.Id)
	assert.NotEqual(t, a.Id, b.Id)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
	assert.True(t, ts.Equal(a.Timestamp))
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	recorder := NewRecorder()

	attrs := map[string]string{"k": "v"}
	require.NoError(t, recorder.Emit(ctx, NewEvent(TypeStakeDeposited, "a", "s", attrs, time.Now())))
	require.NoError(t, recorder.Emit(ctx, NewEvent(TypeStakeWithdrawn, "a", "s", nil, time.Now())))
	require.NoError(t, recorder.Emit(ctx, NewEvent(TypeStakeDeposited, "b", "s", nil, time.Now())))

	attrs["k"] = "mutated"

	events := recorder.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "v", events[0].Attributes["k"])
	assert.Len(t, recorder.EventsOfType(TypeStakeDeposited), 2)
	assert.Len(t, recorder.EventsOfType(TypeTicketBought), 0)

	recorder.Reset()
	assert.Empty(t, recorder.Events())
}

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, *Event) error {
	return errors.New("sink down")
}

func TestMultiEmitter(t *testing.T) {
	first := NewRecorder()
	second := NewRecorder()

	emitter := MultiEmitter{first, failingEmitter{}, second, NoopEmitter{}}
	err := emitter.Emit(context.Background(), NewEvent(TypeEventInitialized, "a", "s", nil, time.Now()))
	assert.EqualError(t, err, "sink down")

	assert.Len(t, first.Events(), 1)
	assert.Len(t, second.Events(), 1)
}

type publishCall struct {
	subject string
	data    []byte
}

type fakeJetStream struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (f *fakeJetStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, publishCall{subject: subject, data: data})
	return &jetstream.PubAck{Stream: "BOLTICK", Sequence: uint64(len(f.calls))}, nil
}

func TestJetStreamEmitter(t *testing.T) {
	js := &fakeJetStream{}
	emitter := newJetStreamEmitter(js, "boltick.events")

	event := NewEvent(TypeTicketBought, "ticket", "buyer", map[string]string{"price": "500"}, time.Now())
	require.NoError(t, emitter.Emit(context.Background(), event))

	require.Len(t, js.calls, 1)
	assert.Equal(t, "boltick.events.ticketing.ticket_bought", js.calls[0].subject)

	var decoded Event
	require.NoError(t, json.Unmarshal(js.calls[0].data, &decoded))
	assert.Equal(t, event.Id, decoded.Id)
	assert.Equal(t, TypeTicketBought, decoded.Type)
	assert.Equal(t, "500", decoded.Attributes["price"])

	js.err = errors.New("no responders")
	assert.Error(t, emitter.Emit(context.Background(), event))
}

type orderedSink struct {
	mu        sync.Mutex
	byAccount map[string][]string
}

func (s *orderedSink) Emit(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byAccount[event.Account] = append(s.byAccount[event.Account], event.Attributes["seq"])
	return nil
}

func TestAsyncEmitter_PerAccountOrder(t *testing.T) {
	sink := &orderedSink{byAccount: make(map[string][]string)}
	emitter := NewAsyncEmitter(sink, 4, 1024)

	for i := 0; i < 100; i++ {
		for _, account := range []string{"a", "b", "c"} {
			event := NewEvent(TypeStakeDeposited, account, "s", map[string]string{"seq": fmt.Sprint(i)}, time.Now())
			require.NoError(t, emitter.Emit(context.Background(), event))
		}
	}
	emitter.Close()

	for _, account := range []string{"a", "b", "c"} {
		seqs := sink.byAccount[account]
		require.Len(t, seqs, 100)
		for i, seq := range seqs {
			assert.Equal(t, fmt.Sprint(i), seq)
		}
	}
}

func TestAsyncEmitter_EmitAfterClose(t *testing.T) {
	recorder := NewRecorder()
	emitter := NewAsyncEmitter(recorder, 2, 8)
	emitter.Close()
	emitter.Close()

	err := emitter.Emit(context.Background(), NewEvent(TypeStakeDeposited, "a", "s", nil, time.Now()))
	assert.Equal(t, ErrEmitterClosed, err)
	assert.Empty(t, recorder.Events())
}
