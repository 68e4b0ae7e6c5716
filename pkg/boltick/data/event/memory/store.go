package memory

import (
	"context"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/event"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

type store struct {
	mu      sync.Mutex
	records []*event.Record
	last    uint64
}

func New() event.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.last = 0
	s.mu.Unlock()
}

// Snapshot copies the store contents and returns a func that puts them back
func (s *store) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*event.Record, len(s.records))
	for i, item := range s.records {
		cloned := item.Clone()
		records[i] = &cloned
	}
	last := s.last

	return func() {
		s.mu.Lock()
		s.records = records
		s.last = last
		s.mu.Unlock()
	}
}

// Put implements event.Store.Put
func (s *store) Put(_ context.Context, record *event.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByAddress(record.Address) != nil || s.findByEventId(record.EventId) != nil {
		return event.ErrExists
	}

	s.last++
	record.Id = s.last
	record.Version = 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.LastUpdatedAt = record.CreatedAt

	cloned := record.Clone()
	s.records = append(s.records, &cloned)
	return nil
}

// Update implements event.Store.Update
func (s *store) Update(_ context.Context, record *event.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByAddress(record.Address)
	if item == nil {
		return event.ErrNotFound
	}
	if item.Version != record.Version {
		return event.ErrStaleVersion
	}

	item.CurrentDigitalAccessCount = record.CurrentDigitalAccessCount
	item.CurrentNftCount = record.CurrentNftCount
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// Get implements event.Store.Get
func (s *store) Get(_ context.Context, address string) (*event.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByAddress(address)
	if item == nil {
		return nil, event.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetByEventId implements event.Store.GetByEventId
func (s *store) GetByEventId(_ context.Context, eventId uint64) (*event.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByEventId(eventId)
	if item == nil {
		return nil, event.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetAllByCreator implements event.Store.GetAllByCreator
func (s *store) GetAllByCreator(_ context.Context, creator string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*event.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matching []*event.Record
	for _, item := range s.records {
		if item.Creator == creator {
			matching = append(matching, item)
		}
	}

	page := query.Paginate(matching, func(r *event.Record) uint64 { return r.Id }, cursor, limit, direction)
	if len(page) == 0 {
		return nil, event.ErrNotFound
	}

	res := make([]*event.Record, len(page))
	for i, item := range page {
		cloned := item.Clone()
		res[i] = &cloned
	}
	return res, nil
}

func (s *store) findByAddress(address string) *event.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) findByEventId(eventId uint64) *event.Record {
	for _, item := range s.records {
		if item.EventId == eventId {
			return item
		}
	}
	return nil
}
