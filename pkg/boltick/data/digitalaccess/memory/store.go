package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/digitalaccess"
)

type store struct {
	mu      sync.Mutex
	records []*digitalaccess.Record
	last    uint64
}

func New() digitalaccess.Store {
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

	records := make([]*digitalaccess.Record, len(s.records))
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

// Put implements digitalaccess.Store.Put
func (s *store) Put(_ context.Context, record *digitalaccess.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Address == record.Address {
			return digitalaccess.ErrExists
		}
		if item.Event == record.Event && item.AccessId == record.AccessId {
			return digitalaccess.ErrExists
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

// Update implements digitalaccess.Store.Update
func (s *store) Update(_ context.Context, record *digitalaccess.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(record.Address)
	if item == nil {
		return digitalaccess.ErrNotFound
	}
	if item.Version != record.Version {
		return digitalaccess.ErrStaleVersion
	}

	item.CurrentMinted = record.CurrentMinted
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// Get implements digitalaccess.Store.Get
func (s *store) Get(_ context.Context, address string) (*digitalaccess.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.find(address)
	if item == nil {
		return nil, digitalaccess.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetAllByEvent implements digitalaccess.Store.GetAllByEvent
func (s *store) GetAllByEvent(_ context.Context, event string) ([]*digitalaccess.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*digitalaccess.Record
	for _, item := range s.records {
		if item.Event == event {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, digitalaccess.ErrNotFound
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].AccessId < res[j].AccessId
	})
	return res, nil
}

func (s *store) find(address string) *digitalaccess.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}
