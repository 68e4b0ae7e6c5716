package staking

import (
	"context"

	"github.com/pkg/errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/database/query"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
)

func (p *Program) GetConfig(ctx context.Context) (*stake.ConfigRecord, error) {
	return p.getConfig(ctx)
}

func (p *Program) GetPosition(ctx context.Context, depositor *common.Account) (*stake.PositionRecord, error) {
	address, _, err := stakespl.GetStakeAddress(depositor.ToBytes())
	if err != nil {
		return nil, errors.Wrap(err, "error deriving stake address")
	}

	position, err := p.data.GetStakePosition(ctx, common.EncodeAddress(address))
	if err == stake.ErrPositionNotFound {
		return nil, errors.Wrap(ErrAccountNotInitialized, "stake position")
	}
	return position, err
}

// GetPositions pages through every position. An empty page is not an error.
func (p *Program) GetPositions(ctx context.Context, opts ...query.Option) ([]*stake.PositionRecord, error) {
	positions, err := p.data.GetAllStakePositions(ctx, opts...)
	if err == stake.ErrPositionNotFound {
		return nil, nil
	}
	return positions, err
}

// GetVaultBalance returns the units custodied by the vault
func (p *Program) GetVaultBalance(ctx context.Context) (uint64, error) {
	return p.tokens.GetBalance(ctx, p.vaultAddress)
}
