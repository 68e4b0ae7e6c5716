package system

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/balance"
)

var (
	ErrInsufficientFunds = errors.New("insufficient lamports")
	ErrBalanceOverflow   = errors.New("lamport balance would overflow")
	ErrInvalidAccount    = errors.New("invalid account")
)

// Bank moves lamports between system accounts. Calls do not lock; callers
// hold the account locks and run inside a store transaction.
type Bank interface {
	// GetBalance returns the lamports held by account, zero if it never held
	// any
	GetBalance(ctx context.Context, account string) (uint64, error)

	// Transfer moves lamports from one account to another. ErrInsufficientFunds
	// is returned, with nothing moved, when the source holds less than the
	// amount.
	Transfer(ctx context.Context, from, to string, lamports uint64) error

	// Airdrop credits lamports out of thin air, for development networks only
	Airdrop(ctx context.Context, to string, lamports uint64) error
}

type bank struct {
	log  *logrus.Entry
	data data.Provider
}

func NewBank(data data.Provider) Bank {
	return &bank{
		log:  logrus.StandardLogger().WithField("type", "system/bank"),
		data: data,
	}
}

func (b *bank) GetBalance(ctx context.Context, account string) (uint64, error) {
	record, err := b.data.GetLamportBalance(ctx, account)
	if err == balance.ErrNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return record.Lamports, nil
}

func (b *bank) Transfer(ctx context.Context, from, to string, lamports uint64) error {
	if len(from) == 0 || len(to) == 0 {
		return ErrInvalidAccount
	}

	if lamports == 0 || from == to {
		available, err := b.GetBalance(ctx, from)
		if err != nil {
			return err
		}
		if available < lamports {
			return ErrInsufficientFunds
		}
		return nil
	}

	source, err := b.data.GetLamportBalance(ctx, from)
	if err == balance.ErrNotFound {
		return ErrInsufficientFunds
	} else if err != nil {
		return err
	}
	if source.Lamports < lamports {
		return ErrInsufficientFunds
	}

	// Both sides are checked before either is written
	destination, err := b.data.GetLamportBalance(ctx, to)
	switch err {
	case nil:
		if destination.Lamports > math.MaxUint64-lamports {
			return ErrBalanceOverflow
		}
	case balance.ErrNotFound:
		destination = nil
	default:
		return err
	}

	source.Lamports -= lamports
	if err := b.data.UpdateLamportBalance(ctx, source); err != nil {
		return err
	}

	if err := b.credit(ctx, to, destination, lamports); err != nil {
		return err
	}

	b.log.WithFields(logrus.Fields{
		"from":     from,
		"to":       to,
		"lamports": lamports,
	}).Trace("lamports transferred")
	return nil
}

func (b *bank) Airdrop(ctx context.Context, to string, lamports uint64) error {
	if len(to) == 0 {
		return ErrInvalidAccount
	}

	destination, err := b.data.GetLamportBalance(ctx, to)
	switch err {
	case nil:
		if destination.Lamports > math.MaxUint64-lamports {
			return ErrBalanceOverflow
		}
	case balance.ErrNotFound:
		destination = nil
	default:
		return err
	}

	if err := b.credit(ctx, to, destination, lamports); err != nil {
		return err
	}

	b.log.WithFields(logrus.Fields{
		"to":       to,
		"lamports": lamports,
	}).Debug("lamports airdropped")
	return nil
}

func (b *bank) credit(ctx context.Context, to string, existing *balance.Record, lamports uint64) error {
	if existing == nil {
		return b.data.CreateLamportBalance(ctx, &balance.Record{
			Account:  to,
			Lamports: lamports,
		})
	}

	existing.Lamports += lamports
	return b.data.UpdateLamportBalance(ctx, existing)
}
