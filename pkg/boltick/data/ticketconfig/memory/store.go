package memory

import (
	"context"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticketconfig"
)

type store struct {
	mu      sync.Mutex
	records []*ticketconfig.Record
	last    uint64
}

func New() ticketconfig.Store {
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

	records := make([]*ticketconfig.Record, len(s.records))
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

// Put implements ticketconfig.Store.Put
func (s *store) Put(_ context.Context, record *ticketconfig.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(record.Address) != nil {
		return ticketconfig.ErrExists
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

// Update implements ticketconfig.Store.Update
func (s *store) Update(_ context.Context, record *ticketconfig.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(record.Address)
	if item == nil {
		return ticketconfig.ErrNotFound
	}
	if item.Version != record.Version {
		return ticketconfig.ErrStaleVersion
	}

	item.EventCount = record.EventCount
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// Get implements ticketconfig.Store.Get
func (s *store) Get(_ context.Context, address string) (*ticketconfig.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(address)
	if item == nil {
		return nil, ticketconfig.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

func (s *store) find(address string) *ticketconfig.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}
