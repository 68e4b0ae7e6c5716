package web

import (
	"context"
	"database/sql"
	"errors"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	token_data "github.com/franRappazzini/boltick-contracts/pkg/boltick/data/token"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/system"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	"github.com/franRappazzini/boltick-contracts/pkg/solana"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
	token_program "github.com/franRappazzini/boltick-contracts/pkg/solana/token"
)

const faucetMintDecimals = 9

var (
	faucetMintSeed      = []byte("faucet_mint")
	faucetAuthoritySeed = []byte("faucet_authority")
)

var errNoAuditReport = errors.New("no audit report available")

func (s *Server) getBalance(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	value, err := req.queryParam("account")
	if err != nil {
		return nil, badRequest(err)
	}
	account, err := parseAccount("account", value)
	if err != nil {
		return nil, err
	}

	lamports, err := s.bank.GetBalance(ctx, account.ToBase58())
	if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["lamports"] = lamports
	return res, nil
}

// airdrop credits the signer with lamports on development deployments
func (s *Server) airdrop(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	if !s.conf.enableAirdrop.Get(ctx) {
		return nil, badRequest(errAirdropDenied)
	}

	var body airdropRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}
	if body.Lamports == 0 || body.Lamports > s.conf.maxAirdropLamports.Get(ctx) {
		return nil, badRequest(errors.New("lamports outside the allowed airdrop range"))
	}

	account := req.signer.ToBase58()

	unlock := s.locker.Lock(account)
	defer unlock()

	var lamports uint64
	err := s.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		if err := s.bank.Airdrop(ctx, account, body.Lamports); err != nil {
			return err
		}

		var err error
		lamports, err = s.bank.GetBalance(ctx, account)
		return err
	})
	if errors.Is(err, system.ErrBalanceOverflow) {
		return nil, badRequest(err)
	} else if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["lamports"] = lamports
	return res, nil
}

// faucetAddresses returns the fungible mint handed out by the faucet and its
// mint authority. Both are off-curve, so no key can sign for them.
func faucetAddresses() (mint, authority string, err error) {
	mintAddress, err := solana.FindProgramAddress(stakespl.PROGRAM_ID, faucetMintSeed)
	if err != nil {
		return "", "", err
	}
	authorityAddress, err := solana.FindProgramAddress(stakespl.PROGRAM_ID, faucetAuthoritySeed)
	if err != nil {
		return "", "", err
	}
	return common.EncodeAddress(mintAddress), common.EncodeAddress(authorityAddress), nil
}

// requestTokens mints faucet tokens into the signer's associated token
// account on development deployments. The mint is created on first use.
func (s *Server) requestTokens(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error) {
	if !s.conf.enableTokenFaucet.Get(ctx) {
		return nil, badRequest(errFaucetDenied)
	}

	var body requestTokensRequest
	if err := req.decode(&body); err != nil {
		return nil, badRequest(err)
	}
	if body.Amount == 0 || body.Amount > s.conf.maxFaucetAmount.Get(ctx) {
		return nil, badRequest(errors.New("amount outside the allowed faucet range"))
	}

	mint, authority, err := faucetAddresses()
	if err != nil {
		return nil, err
	}
	mintAccount, err := common.NewAccountFromPublicKeyString(mint)
	if err != nil {
		return nil, err
	}
	destination, err := token_program.GetAssociatedAccount(req.signer.ToBytes(), mintAccount.ToBytes())
	if err != nil {
		return nil, err
	}
	encodedDestination := common.EncodeAddress(destination)

	unlock := s.locker.Lock(mint, encodedDestination)
	defer unlock()

	var balance uint64
	err = s.data.ExecuteInTx(ctx, sql.LevelDefault, func(ctx context.Context) error {
		_, err := s.tokens.GetMint(ctx, mint)
		if err == token_data.ErrMintNotFound {
			err = s.tokens.CreateMint(ctx, &token.CreateMintArgs{
				Mint:      mint,
				Authority: authority,
				Decimals:  faucetMintDecimals,
			})
		}
		if err != nil {
			return err
		}

		err = s.tokens.Mint(ctx, &token.MintArgs{
			Mint:        mint,
			Authority:   authority,
			Destination: encodedDestination,
			Owner:       req.signer.ToBase58(),
			Amount:      body.Amount,
		})
		if err != nil {
			return err
		}

		balance, err = s.tokens.GetBalance(ctx, encodedDestination)
		return err
	})
	if errors.Is(err, token.ErrSupplyOverflow) {
		return nil, badRequest(err)
	} else if err != nil {
		return nil, err
	}

	res := NewGenericApiSuccessResponseBody()
	res["mint"] = mint
	res["token_account"] = encodedDestination
	res["balance"] = balance
	return res, nil
}

func (s *Server) getAuditReport(_ context.Context, _ *apiRequest) (GenericApiResponseBody, error) {
	if s.auditor == nil {
		return nil, badRequest(errNoAuditReport)
	}

	report := s.auditor.LastReport()
	if report == nil {
		return nil, badRequest(errNoAuditReport)
	}

	res := NewGenericApiSuccessResponseBody()
	res["report"] = toAuditReportView(report)
	return res, nil
}
