package memory

import (
	"context"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/ticket"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

type store struct {
	mu      sync.Mutex
	records []*ticket.Record
	last    uint64
}

func New() ticket.Store {
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

	records := make([]*ticket.Record, len(s.records))
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

// Put implements ticket.Store.Put
func (s *store) Put(_ context.Context, record *ticket.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Event == record.Event && item.NftId == record.NftId {
			return ticket.ErrExists
		}
		if item.Mint == record.Mint {
			return ticket.ErrExists
		}
	}

	s.last++
	record.Id = s.last
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	cloned := record.Clone()
	s.records = append(s.records, &cloned)
	return nil
}

// Get implements ticket.Store.Get
func (s *store) Get(_ context.Context, event string, nftId uint64) (*ticket.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Event == event && item.NftId == nftId {
			cloned := item.Clone()
			return &cloned, nil
		}
	}
	return nil, ticket.ErrNotFound
}

// GetByMint implements ticket.Store.GetByMint
func (s *store) GetByMint(_ context.Context, mint string) (*ticket.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Mint == mint {
			cloned := item.Clone()
			return &cloned, nil
		}
	}
	return nil, ticket.ErrNotFound
}

// GetAllByOwner implements ticket.Store.GetAllByOwner
func (s *store) GetAllByOwner(_ context.Context, owner string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*ticket.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matching []*ticket.Record
	for _, item := range s.records {
		if item.Owner == owner {
			matching = append(matching, item)
		}
	}

	page := query.Paginate(matching, func(r *ticket.Record) uint64 { return r.Id }, cursor, limit, direction)
	if len(page) == 0 {
		return nil, ticket.ErrNotFound
	}

	res := make([]*ticket.Record, len(page))
	for i, item := range page {
		cloned := item.Clone()
		res[i] = &cloned
	}
	return res, nil
}

// CountByDigitalAccess implements ticket.Store.CountByDigitalAccess
func (s *store) CountByDigitalAccess(_ context.Context, digitalAccess string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count uint64
	for _, item := range s.records {
		if item.DigitalAccess == digitalAccess {
			count++
		}
	}
	return count, nil
}

// CountByEvent implements ticket.Store.CountByEvent
func (s *store) CountByEvent(_ context.Context, event string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count uint64
	for _, item := range s.records {
		if item.Event == event {
			count++
		}
	}
	return count, nil
}
