package memory

import (
	"context"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/metadata"
)

type store struct {
	mu      sync.Mutex
	records []*metadata.Record
	last    uint64
}

func New() metadata.Store {
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

	records := make([]*metadata.Record, len(s.records))
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

// Put implements metadata.Store.Put
func (s *store) Put(_ context.Context, record *metadata.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Address == record.Address || item.Mint == record.Mint {
			return metadata.ErrExists
		}
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

// Update implements metadata.Store.Update
func (s *store) Update(_ context.Context, record *metadata.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByMint(record.Mint)
	if item == nil {
		return metadata.ErrNotFound
	}
	if item.Version != record.Version {
		return metadata.ErrStaleVersion
	}

	item.Name = record.Name
	item.Symbol = record.Symbol
	item.Uri = record.Uri
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// GetByMint implements metadata.Store.GetByMint
func (s *store) GetByMint(_ context.Context, mint string) (*metadata.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByMint(mint)
	if item == nil {
		return nil, metadata.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

func (s *store) findByMint(mint string) *metadata.Record {
	for _, item := range s.records {
		if item.Mint == mint {
			return item
		}
	}
	return nil
}
