package memory

import (
	"context"
	"sync"
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
)

type store struct {
	mu sync.Mutex

	mints    []*token.MintRecord
	accounts []*token.AccountRecord
	last     uint64
}

func New() token.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.mints = nil
	s.accounts = nil
	s.last = 0
	s.mu.Unlock()
}

// Snapshot copies the store contents and returns a func that puts them back
func (s *store) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	mints := make([]*token.MintRecord, len(s.mints))
	for i, item := range s.mints {
		cloned := item.Clone()
		mints[i] = &cloned
	}
	accounts := make([]*token.AccountRecord, len(s.accounts))
	for i, item := range s.accounts {
		cloned := item.Clone()
		accounts[i] = &cloned
	}
	last := s.last

	return func() {
		s.mu.Lock()
		s.mints = mints
		s.accounts = accounts
		s.last = last
		s.mu.Unlock()
	}
}

// PutMint implements token.Store.PutMint
func (s *store) PutMint(_ context.Context, record *token.MintRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findMint(record.Address) != nil {
		return token.ErrMintExists
	}

	s.last++
	record.Id = s.last
	record.Version = 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.LastUpdatedAt = record.CreatedAt

	cloned := record.Clone()
	s.mints = append(s.mints, &cloned)
	return nil
}

// UpdateMint implements token.Store.UpdateMint
func (s *store) UpdateMint(_ context.Context, record *token.MintRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findMint(record.Address)
	if item == nil {
		return token.ErrMintNotFound
	}
	if item.Version != record.Version {
		return token.ErrStaleMintVersion
	}

	item.Supply = record.Supply
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// GetMint implements token.Store.GetMint
func (s *store) GetMint(_ context.Context, address string) (*token.MintRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findMint(address)
	if item == nil {
		return nil, token.ErrMintNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// PutAccount implements token.Store.PutAccount
func (s *store) PutAccount(_ context.Context, record *token.AccountRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findAccount(record.Address) != nil {
		return token.ErrAccountExists
	}

	s.last++
	record.Id = s.last
	record.Version = 1
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.LastUpdatedAt = record.CreatedAt

	cloned := record.Clone()
	s.accounts = append(s.accounts, &cloned)
	return nil
}

// UpdateAccount implements token.Store.UpdateAccount
func (s *store) UpdateAccount(_ context.Context, record *token.AccountRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findAccount(record.Address)
	if item == nil {
		return token.ErrAccountNotFound
	}
	if item.Version != record.Version {
		return token.ErrStaleAccountVersion
	}

	item.Amount = record.Amount
	item.Version++
	item.LastUpdatedAt = time.Now()

	item.CopyTo(record)
	return nil
}

// GetAccount implements token.Store.GetAccount
func (s *store) GetAccount(_ context.Context, address string) (*token.AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findAccount(address)
	if item == nil {
		return nil, token.ErrAccountNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetAccountsByOwner implements token.Store.GetAccountsByOwner
func (s *store) GetAccountsByOwner(_ context.Context, owner string) ([]*token.AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*token.AccountRecord
	for _, item := range s.accounts {
		if item.Owner == owner {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, token.ErrAccountNotFound
	}
	return res, nil
}

func (s *store) findMint(address string) *token.MintRecord {
	for _, item := range s.mints {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) findAccount(address string) *token.AccountRecord {
	for _, item := range s.accounts {
		if item.Address == address {
			return item
		}
	}
	return nil
}
