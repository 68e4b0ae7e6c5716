package web

import (
	"context"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/staking"
)

func (s *Server) initializeStakingConfig(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body initializeStakingConfigRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.staking.InitializeConfig(ctx, req.signer, body.Mint)
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["config"] = toStakingConfigView(record)
	return res, nil
}

func (s *Server) depositStake(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body stakeRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.staking.DepositStake(ctx, &staking.DepositStakeArgs{
		Depositor: req.signer,
		Mint:      body.Mint,
		Amount:    body.Amount,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["position"] = toPositionView(record)
	return res, nil
}

func (s *Server) withdrawStake(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body stakeRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.staking.WithdrawStake(ctx, &staking.WithdrawStakeArgs{
		Depositor: req.signer,
		Mint:      body.Mint,
		Amount:    body.Amount,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["position"] = toPositionView(record)
	return res, nil
}

func (s *Server) updateStakingConfig(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	var body updateStakingConfigRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}

	record, err := s.staking.UpdateConfig(ctx, &staking.UpdateConfigArgs{
		Authority:       req.signer,
		RewardRate:      body.RewardRate,
		RewardDuration:  body.RewardDuration,
		LockPeriod:      body.LockPeriod,
		MaxStakePerUser: body.MaxStakePerUser,
		Paused:          body.Paused,
	})
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["config"] = toStakingConfigView(record)
	return res, nil
}

func (s *Server) getStakingConfig(ctx context.Context, _ *apiRequest) (GenericApiResponseBody, error) {
	record, err := s.staking.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	vaultBalance, err := s.staking.GetVaultBalance(ctx)
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["config"] = toStakingConfigView(record)
	res["vault_balance"] = vaultBalance
	return res, nil
}

func (s *Server) getStakePosition(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	value, err := req.queryParam("depositor")
	if err != nil {
		return nil, badRequest(err)
	}
	depositor, err := parseAccount("depositor", value)
	if err != nil {
		return nil, err
	}

	record, err := s.staking.GetPosition(ctx, depositor)
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["position"] = toPositionView(record)
	return res, nil
}
