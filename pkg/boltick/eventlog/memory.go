package eventlog

import (
	"context"
	"sync"
)

// Recorder keeps emitted events in memory
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cloned := *event
	cloned.Attributes = make(map[string]string, len(event.Attributes))
	for k, v := range event.Attributes {
		cloned.Attributes[k] = v
	}
	r.events = append(r.events, &cloned)
	return nil
}

// Events returns every recorded event in emission order
func (r *Recorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]*Event, len(r.events))
	copy(res, r.events)
	return res
}

// EventsOfType returns the recorded events of one type in emission order
func (r *Recorder) EventsOfType(eventType Type) []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []*Event
	for _, event := range r.events {
		if event.Type == eventType {
			res = append(res, event)
		}
	}
	return res
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
