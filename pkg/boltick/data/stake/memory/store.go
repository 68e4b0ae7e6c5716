package memory

import (
	"context"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
)

type store struct {
	mu sync.Mutex

	configs   []*stake.ConfigRecord
	positions []*stake.PositionRecord
	last      uint64
}

func New() stake.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.configs = nil
	s.positions = nil
	s.last = 0
	s.mu.Unlock()
}

// Snapshot copies the store contents and returns a func that puts them back
func (s *store) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	configs := make([]*stake.ConfigRecord, len(s.configs))
	for i, item := range s.configs {
		cloned := item.Clone()
		configs[i] = &cloned
	}
	positions := make([]*stake.PositionRecord, len(s.positions))
	for i, item := range s.positions {
		cloned := item.Clone()
		positions[i] = &cloned
	}
	last := s.last

	return func() {
		s.mu.Lock()
		s.configs = configs
		s.positions = positions
		s.last = last
		s.mu.Unlock()
	}
}

// PutConfig implements stake.Store.PutConfig
func (s *store) PutConfig(_ context.Context, record *stake.ConfigRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findConfig(record.Address) != nil {
		return stake.ErrConfigExists
	}

	s.last++
	record.Id = s.last
	record.Version = 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.LastUpdatedAt = record.CreatedAt

	cloned := record.Clone()
	s.configs = append(s.configs, &cloned)
	return nil
}

// UpdateConfig implements stake.Store.UpdateConfig
func (s *store) UpdateConfig(_ context.Context, record *stake.ConfigRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findConfig(record.Address)
	if item == nil {
		return stake.ErrConfigNotFound
	}
	if item.Version != record.Version {
		return stake.ErrStaleConfigVersion
	}

	item.RewardRate = record.RewardRate
	item.RewardPerToken = record.RewardPerToken.Clone()
	item.LastUpdateTime = record.LastUpdateTime
	item.RewardDuration = record.RewardDuration
	item.LockPeriod = record.LockPeriod
	item.TotalRewardsDistributed = record.TotalRewardsDistributed
	item.TotalStaked = record.TotalStaked
	item.MaxStakePerUser = record.MaxStakePerUser
	item.Paused = record.Paused
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// GetConfig implements stake.Store.GetConfig
func (s *store) GetConfig(_ context.Context, address string) (*stake.ConfigRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findConfig(address)
	if item == nil {
		return nil, stake.ErrConfigNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// PutPosition implements stake.Store.PutPosition
func (s *store) PutPosition(_ context.Context, record *stake.PositionRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findPosition(record.Address) != nil {
		return stake.ErrPositionExists
	}

	s.last++
	record.Id = s.last
	record.Version = 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.LastUpdatedAt = record.CreatedAt

	cloned := record.Clone()
	s.positions = append(s.positions, &cloned)
	return nil
}

// UpdatePosition implements stake.Store.UpdatePosition
func (s *store) UpdatePosition(_ context.Context, record *stake.PositionRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findPosition(record.Address)
	if item == nil {
		return stake.ErrPositionNotFound
	}
	if item.Version != record.Version {
		return stake.ErrStalePositionVersion
	}

	item.Amount = record.Amount
	item.RewardDebt = record.RewardDebt.Clone()
	item.AccumulatedReward = record.AccumulatedReward
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// GetPosition implements stake.Store.GetPosition
func (s *store) GetPosition(_ context.Context, address string) (*stake.PositionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findPosition(address)
	if item == nil {
		return nil, stake.ErrPositionNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetAllPositions implements stake.Store.GetAllPositions
func (s *store) GetAllPositions(_ context.Context, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*stake.PositionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := query.Paginate(s.positions, func(r *stake.PositionRecord) uint64 { return r.Id }, cursor, limit, direction)
	if len(page) == 0 {
		return nil, stake.ErrPositionNotFound
	}

	res := make([]*stake.PositionRecord, len(page))
	for i, item := range page {
		cloned := item.Clone()
		res[i] = &cloned
	}
	return res, nil
}

// SumPositionAmounts implements stake.Store.SumPositionAmounts
func (s *store) SumPositionAmounts(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total uint64
	for _, item := range s.positions {
		total += item.Amount
	}
	return total, nil
}

func (s *store) findConfig(address string) *stake.ConfigRecord {
	for _, item := range s.configs {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) findPosition(address string) *stake.PositionRecord {
	for _, item := range s.positions {
		if item.Address == address {
			return item
		}
	}
	return nil
}
