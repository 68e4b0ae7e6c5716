package memory

import (
	"context"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance"
)

type store struct {
	mu      sync.Mutex
	records map[string]*balance.Record
	last    uint64
}

func New() balance.Store {
	return &store{
		records: make(map[string]*balance.Record),
	}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = make(map[string]*balance.Record)
	s.last = 0
	s.mu.Unlock()
}

// Snapshot copies the store contents and returns a func that puts them back
func (s *store) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make(map[string]*balance.Record, len(s.records))
	for key, item := range s.records {
		cloned := item.Clone()
		records[key] = &cloned
	}
	last := s.last

	return func() {
		s.mu.Lock()
		s.records = records
		s.last = last
		s.mu.Unlock()
	}
}

// Put implements balance.Store.Put
func (s *store) Put(_ context.Context, record *balance.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.Account]; ok {
		return balance.ErrExists
	}

	s.last++
	record.Id = s.last
	record.Version = 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.LastUpdatedAt = record.CreatedAt

	cloned := record.Clone()
	s.records[record.Account] = &cloned
	return nil
}

// Update implements balance.Store.Update
func (s *store) Update(_ context.Context, record *balance.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.records[record.Account]
	if !ok {
		return balance.ErrNotFound
	}
	if item.Version != record.Version {
		return balance.ErrStaleVersion
	}

	item.Lamports = record.Lamports
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// Get implements balance.Store.Get
func (s *store) Get(_ context.Context, account string) (*balance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.records[account]
	if !ok {
		return nil, balance.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}
