package staking

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data/stake"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/eventlog"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	"github.com/franRappazzini/boltick-contracts/pkg/solana/stakespl"
	"github.com/franRappazzini/boltick-contracts/pkg/testutil"
)

type testEnv struct {
	ctx           context.Context
	data          data.Provider
	tokens        token.Ledger
	recorder      *eventlog.Recorder
	clock         *program.FixedClock
	program       *Program
	authority     *common.Account
	mint          string
	mintAuthority string
}

func setup(t *testing.T) *testEnv {
	env := &testEnv{
		ctx:           context.Background(),
		data:          data.NewTestDataProvider(),
		recorder:      eventlog.NewRecorder(),
		clock:         program.NewFixedClock(time.Unix(1_700_000_000, 0)),
		authority:     testutil.NewRandomAccount(t),
		mint:          testutil.NewRandomAddress(t),
		mintAuthority: testutil.NewRandomAddress(t),
	}
	env.tokens = token.NewLedger(env.data)

	require.NoError(t, env.tokens.CreateMint(env.ctx, &token.CreateMintArgs{
		Mint:      env.mint,
		Authority: env.mintAuthority,
		Decimals:  9,
	}))

	var err error
	env.program, err = New(
		env.data,
		env.tokens,
		program.NewAccountLocker(),
		env.recorder,
		WithClock(env.clock.Now),
	)
	require.NoError(t, err)

	_, err = env.program.InitializeConfig(env.ctx, env.authority, env.mint)
	require.NoError(t, err)
	return env
}

// fund mints units of the staked mint into the depositor's associated token
// account
func (e *testEnv) fund(t *testing.T, depositor *common.Account, amount uint64) {
	require.NoError(t, e.tokens.Mint(e.ctx, &token.MintArgs{
		Mint:        e.mint,
		Authority:   e.mintAuthority,
		Destination: e.tokenAccount(t, depositor),
		Owner:       depositor.ToBase58(),
		Amount:      amount,
	}))
}

func (e *testEnv) tokenAccount(t *testing.T, owner *common.Account) string {
	mint, err := common.NewAccountFromPublicKeyString(e.mint)
	require.NoError(t, err)
	ata, err := owner.ToAssociatedTokenAccount(mint)
	require.NoError(t, err)
	return ata.ToBase58()
}

func (e *testEnv) walletBalance(t *testing.T, owner *common.Account) uint64 {
	held, err := e.tokens.GetBalance(e.ctx, e.tokenAccount(t, owner))
	require.NoError(t, err)
	return held
}

func (e *testEnv) deposit(owner *common.Account, amount uint64) (*stake.PositionRecord, error) {
	return e.program.DepositStake(e.ctx, &DepositStakeArgs{
		Depositor: owner,
		Mint:      e.mint,
		Amount:    amount,
	})
}

func (e *testEnv) withdraw(owner *common.Account, amount uint64) (*stake.PositionRecord, error) {
	return e.program.WithdrawStake(e.ctx, &WithdrawStakeArgs{
		Depositor: owner,
		Mint:      e.mint,
		Amount:    amount,
	})
}

func (e *testEnv) assertConserved(t *testing.T) {
	config, err := e.program.GetConfig(e.ctx)
	require.NoError(t, err)

	sum, err := e.data.SumStakePositionAmounts(e.ctx)
	require.NoError(t, err)

	vault, err := e.program.GetVaultBalance(e.ctx)
	require.NoError(t, err)

	assert.Equal(t, config.TotalStaked, sum)
	assert.Equal(t, config.TotalStaked, vault)
}

func TestInitializeConfig(t *testing.T) {
	env := setup(t)

	config, err := env.program.GetConfig(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, env.authority.ToBase58(), config.Authority)
	assert.Equal(t, env.mint, config.Mint)
	assert.Zero(t, config.TotalStaked)
	assert.Zero(t, config.MaxStakePerUser)
	assert.False(t, config.Paused)
	assert.True(t, config.RewardPerToken.IsZero())

	vault, err := env.tokens.GetAccount(env.ctx, config.Vault)
	require.NoError(t, err)
	assert.Equal(t, env.program.ConfigAddress(), vault.Owner)
	assert.Equal(t, env.mint, vault.Mint)

	rewardVault, err := env.tokens.GetAccount(env.ctx, config.RewardVault)
	require.NoError(t, err)
	assert.Equal(t, env.program.ConfigAddress(), rewardVault.Owner)

	_, err = env.program.InitializeConfig(env.ctx, env.authority, env.mint)
	testutil.AssertProgramError(t, err, ErrAccountAlreadyInitialized)

	assert.Len(t, env.recorder.EventsOfType(eventlog.TypeStakingConfigInitialized), 1)
}

func TestInitializeConfig_UnknownMint(t *testing.T) {
	provider := data.NewTestDataProvider()
	p, err := New(provider, token.NewLedger(provider), program.NewAccountLocker(), eventlog.NoopEmitter{})
	require.NoError(t, err)

	_, err = p.InitializeConfig(context.Background(), testutil.NewRandomAccount(t), testutil.NewRandomAddress(t))
	testutil.AssertProgramError(t, err, ErrAccountNotInitialized)

	_, err = p.GetConfig(context.Background())
	testutil.AssertProgramError(t, err, ErrAccountNotInitialized)
}

func TestDepositAndWithdraw(t *testing.T) {
	env := setup(t)
	depositor := testutil.NewRandomAccount(t)
	env.fund(t, depositor, 1_000)

	position, err := env.deposit(depositor, 400)
	require.NoError(t, err)
	assert.EqualValues(t, 400, position.Amount)
	assert.Equal(t, depositor.ToBase58(), position.Depositor)

	position, err = env.deposit(depositor, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 500, position.Amount)
	assert.EqualValues(t, 500, env.walletBalance(t, depositor))
	env.assertConserved(t)

	position, err = env.withdraw(depositor, 200)
	require.NoError(t, err)
	assert.EqualValues(t, 300, position.Amount)
	assert.EqualValues(t, 700, env.walletBalance(t, depositor))
	env.assertConserved(t)

	stored, err := env.program.GetPosition(env.ctx, depositor)
	require.NoError(t, err)
	assert.EqualValues(t, 300, stored.Amount)

	assert.Len(t, env.recorder.EventsOfType(eventlog.TypeStakeDeposited), 2)
	assert.Len(t, env.recorder.EventsOfType(eventlog.TypeStakeWithdrawn), 1)
}

func TestDeposit_Validation(t *testing.T) {
	env := setup(t)
	depositor := testutil.NewRandomAccount(t)
	env.fund(t, depositor, 100)

	_, err := env.deposit(depositor, 0)
	testutil.AssertProgramError(t, err, ErrZeroAmount)

	_, err = env.deposit(depositor, 101)
	testutil.AssertProgramError(t, err, ErrInsufficientFunds)

	_, err = env.program.DepositStake(env.ctx, &DepositStakeArgs{
		Depositor: depositor,
		Mint:      testutil.NewRandomAddress(t),
		Amount:    10,
	})
	testutil.AssertProgramError(t, err, ErrMintMismatch)

	// Nothing moved and no position was opened
	assert.EqualValues(t, 100, env.walletBalance(t, depositor))
	_, err = env.program.GetPosition(env.ctx, depositor)
	testutil.AssertProgramError(t, err, ErrAccountNotInitialized)
	env.assertConserved(t)
}

func TestDeposit_MaxStakePerUser(t *testing.T) {
	env := setup(t)
	depositor := testutil.NewRandomAccount(t)
	env.fund(t, depositor, 1_000)

	limit := uint64(300)
	_, err := env.program.UpdateConfig(env.ctx, &UpdateConfigArgs{
		Authority:       env.authority,
		MaxStakePerUser: &limit,
	})
	require.NoError(t, err)

	_, err = env.deposit(depositor, 200)
	require.NoError(t, err)

	_, err = env.deposit(depositor, 101)
	testutil.AssertProgramError(t, err, ErrAmountExceedsLimit)

	_, err = env.deposit(depositor, 100)
	require.NoError(t, err)

	// Zero lifts the limit
	unlimited := uint64(0)
	_, err = env.program.UpdateConfig(env.ctx, &UpdateConfigArgs{
		Authority:       env.authority,
		MaxStakePerUser: &unlimited,
	})
	require.NoError(t, err)

	_, err = env.deposit(depositor, 700)
	require.NoError(t, err)
	env.assertConserved(t)
}

func TestPaused(t *testing.T) {
	env := setup(t)
	depositor := testutil.NewRandomAccount(t)
	env.fund(t, depositor, 100)

	_, err := env.deposit(depositor, 50)
	require.NoError(t, err)

	paused := true
	_, err = env.program.UpdateConfig(env.ctx, &UpdateConfigArgs{
		Authority: env.authority,
		Paused:    &paused,
	})
	require.NoError(t, err)

	_, err = env.deposit(depositor, 10)
	testutil.AssertProgramError(t, err, ErrStakingPaused)
	testutil.AssertProgramErrorKind(t, err, program.KindPaused)

	_, err = env.withdraw(depositor, 10)
	testutil.AssertProgramError(t, err, ErrStakingPaused)

	paused = false
	_, err = env.program.UpdateConfig(env.ctx, &UpdateConfigArgs{
		Authority: env.authority,
		Paused:    &paused,
	})
	require.NoError(t, err)

	_, err = env.withdraw(depositor, 50)
	require.NoError(t, err)
	env.assertConserved(t)
}

func TestWithdraw_Validation(t *testing.T) {
	env := setup(t)
	depositor := testutil.NewRandomAccount(t)
	other := testutil.NewRandomAccount(t)
	env.fund(t, depositor, 100)

	_, err := env.withdraw(other, 1)
	testutil.AssertProgramError(t, err, ErrAccountNotInitialized)

	_, err = env.deposit(depositor, 100)
	require.NoError(t, err)

	_, err = env.withdraw(depositor, 0)
	testutil.AssertProgramError(t, err, ErrZeroAmount)

	_, err = env.withdraw(depositor, 101)
	testutil.AssertProgramError(t, err, ErrInsufficientStake)

	position, err := env.program.GetPosition(env.ctx, depositor)
	require.NoError(t, err)
	assert.EqualValues(t, 100, position.Amount)
	assert.Zero(t, env.walletBalance(t, depositor))
	env.assertConserved(t)
}

func TestUpdateConfig_RequiresAuthority(t *testing.T) {
	env := setup(t)

	rate := uint64(10)
	_, err := env.program.UpdateConfig(env.ctx, &UpdateConfigArgs{
		Authority:  testutil.NewRandomAccount(t),
		RewardRate: &rate,
	})
	testutil.AssertProgramError(t, err, ErrInvalidAuthority)

	config, err := env.program.GetConfig(env.ctx)
	require.NoError(t, err)
	assert.Zero(t, config.RewardRate)
}

func TestRewardAccounting(t *testing.T) {
	env := setup(t)
	alice := testutil.NewRandomAccount(t)
	bob := testutil.NewRandomAccount(t)
	env.fund(t, alice, 100)
	env.fund(t, bob, 100)

	rate, duration := uint64(10), uint64(1_000)
	_, err := env.program.UpdateConfig(env.ctx, &UpdateConfigArgs{
		Authority:      env.authority,
		RewardRate:     &rate,
		RewardDuration: &duration,
	})
	require.NoError(t, err)

	_, err = env.deposit(alice, 100)
	require.NoError(t, err)

	// Alice alone for 50s: 500 accrues over 100 staked
	env.clock.Advance(50 * time.Second)
	position, err := env.deposit(bob, 100)
	require.NoError(t, err)
	assert.Zero(t, position.AccumulatedReward)
	assert.Equal(t, uint256.NewInt(500), position.RewardDebt)

	config, err := env.program.GetConfig(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(5*stakespl.RewardPrecision), config.RewardPerToken)

	// Both for 50s: 500 accrues over 200 staked
	env.clock.Advance(50 * time.Second)
	position, err = env.withdraw(alice, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 750, position.AccumulatedReward)
	assert.Zero(t, position.Amount)
	assert.True(t, position.RewardDebt.IsZero())

	position, err = env.withdraw(bob, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 250, position.AccumulatedReward)

	// Nothing accrues with nothing staked
	env.clock.Advance(100 * time.Second)
	config, err = env.program.GetConfig(env.ctx)
	require.NoError(t, err)
	before := config.RewardPerToken.Clone()

	_, err = env.deposit(alice, 50)
	require.NoError(t, err)
	config, err = env.program.GetConfig(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, before, config.RewardPerToken)
	env.assertConserved(t)
}

func TestRewardAccounting_WindowCap(t *testing.T) {
	config := &stake.ConfigRecord{
		RewardRate:     2,
		RewardDuration: 100,
		LastUpdateTime: 1_000,
		TotalStaked:    4,
		RewardPerToken: new(uint256.Int),
	}

	// Accrual stops at the end of the window
	rewardPerToken, err := accrueRewardPerToken(config, 5_000)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(50*stakespl.RewardPrecision), rewardPerToken)

	// Time before the last update accrues nothing
	rewardPerToken, err = accrueRewardPerToken(config, 500)
	require.NoError(t, err)
	assert.True(t, rewardPerToken.IsZero())
}

func TestConservation_ConcurrentMovements(t *testing.T) {
	env := setup(t)

	depositors := make([]*common.Account, 8)
	for i := range depositors {
		depositors[i] = testutil.NewRandomAccount(t)
		env.fund(t, depositors[i], 10_000)
	}

	var wg sync.WaitGroup
	for i, depositor := range depositors {
		wg.Add(1)
		go func(seed int64, depositor *common.Account) {
			defer wg.Done()

			r := rand.New(rand.NewSource(seed))
			for j := 0; j < 25; j++ {
				amount := uint64(r.Intn(500) + 1)
				if r.Intn(3) == 0 {
					_, _ = env.withdraw(depositor, amount)
				} else {
					_, _ = env.deposit(depositor, amount)
				}
			}
		}(int64(i), depositor)
	}
	wg.Wait()

	env.assertConserved(t)

	for _, depositor := range depositors {
		var staked uint64
		position, err := env.program.GetPosition(env.ctx, depositor)
		if err == nil {
			staked = position.Amount
		}
		assert.EqualValues(t, 10_000, staked+env.walletBalance(t, depositor))
	}
}

func TestMarshalAccounts(t *testing.T) {
	env := setup(t)
	depositor := testutil.NewRandomAccount(t)
	env.fund(t, depositor, 100)

	position, err := env.deposit(depositor, 100)
	require.NoError(t, err)

	config, err := env.program.GetConfig(env.ctx)
	require.NoError(t, err)

	raw, err := MarshalConfig(config)
	require.NoError(t, err)
	var configAccount stakespl.ConfigAccount
	require.NoError(t, configAccount.Unmarshal(raw))
	assert.EqualValues(t, 100, configAccount.TotalStaked)

	raw, err = MarshalPosition(position)
	require.NoError(t, err)
	var stakeAccount stakespl.StakeAccount
	require.NoError(t, stakeAccount.Unmarshal(raw))
	assert.EqualValues(t, 100, stakeAccount.Amount)
	assert.True(t, stakeAccount.Initialized)
}
