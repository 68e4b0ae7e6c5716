package async_auditor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/eventlog"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/staking"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/ticketing"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/system"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	"github.com/franRappazzini/boltick-contracts/pkg/testutil"
)

type testEnv struct {
	ctx       context.Context
	data      data.Provider
	tokens    token.Ledger
	ticketing *ticketing.Program
	staking   *staking.Program
	auditor   *Auditor
	authority *common.Account
	creator   *common.Account
}

func setup(t *testing.T, batchSize uint64) *testEnv {
	env := &testEnv{
		ctx:       context.Background(),
		data:      data.NewTestDataProvider(),
		authority: testutil.NewRandomAccount(t),
		creator:   testutil.NewRandomAccount(t),
	}
	env.tokens = token.NewLedger(env.data)
	locker := program.NewAccountLocker()

	var err error
	env.ticketing, err = ticketing.New(
		env.data,
		env.tokens,
		system.NewBank(env.data),
		locker,
		eventlog.NoopEmitter{},
		ticketing.WithEnvConfigs(),
	)
	require.NoError(t, err)

	env.staking, err = staking.New(env.data, env.tokens, locker, eventlog.NoopEmitter{})
	require.NoError(t, err)

	env.auditor, err = New(env.data, env.tokens, locker, withManualTestOverrides(&testOverrides{
		eventBatchSize: batchSize,
	}))
	require.NoError(t, err)
	return env
}

// issue creates an event with a single free tier and mints count tickets
func (e *testEnv) issue(t *testing.T, count int) uint64 {
	record, err := e.ticketing.InitializeEvent(e.ctx, &ticketing.InitializeEventArgs{
		Creator:     e.creator,
		Name:        "Audited Event",
		Symbol:      "AE",
		Uri:         "https://boltick.io/events/audited.json",
		Description: "An audited event",
	})
	require.NoError(t, err)

	_, err = e.ticketing.AddDigitalAccess(e.ctx, &ticketing.AddDigitalAccessArgs{
		Creator:     e.creator,
		EventId:     record.EventId,
		MaxSupply:   10,
		Name:        "General",
		Symbol:      "GA",
		Description: "General admission",
		Uri:         "https://boltick.io/tiers/general.json",
	})
	require.NoError(t, err)

	for i := 0; i < count; i++ {
		_, err = e.ticketing.MintToken(e.ctx, &ticketing.MintTokenArgs{
			Authority:   e.authority,
			EventId:     record.EventId,
			Destination: testutil.NewRandomAccount(t),
		})
		require.NoError(t, err)
	}
	return record.EventId
}

func TestAudit_NothingInitialized(t *testing.T) {
	env := setup(t, 10)

	report, err := env.auditor.Audit(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
	assert.Zero(t, report.EventsChecked)
	assert.False(t, report.StakeChecked)
	assert.Equal(t, report, env.auditor.LastReport())
}

func TestAudit_ConsistentState(t *testing.T) {
	env := setup(t, 10)

	_, err := env.ticketing.InitializeConfig(env.ctx, env.authority)
	require.NoError(t, err)
	env.issue(t, 3)
	env.issue(t, 0)

	mint := testutil.NewRandomAddress(t)
	mintAuthority := testutil.NewRandomAddress(t)
	require.NoError(t, env.tokens.CreateMint(env.ctx, &token.CreateMintArgs{Mint: mint, Authority: mintAuthority}))
	_, err = env.staking.InitializeConfig(env.ctx, env.authority, mint)
	require.NoError(t, err)

	depositor := testutil.NewRandomAccount(t)
	mintAccount, err := common.NewAccountFromPublicKeyString(mint)
	require.NoError(t, err)
	ata, err := depositor.ToAssociatedTokenAccount(mintAccount)
	require.NoError(t, err)
	require.NoError(t, env.tokens.Mint(env.ctx, &token.MintArgs{
		Mint:        mint,
		Authority:   mintAuthority,
		Destination: ata.ToBase58(),
		Owner:       depositor.ToBase58(),
		Amount:      100,
	}))
	_, err = env.staking.DepositStake(env.ctx, &staking.DepositStakeArgs{Depositor: depositor, Mint: mint, Amount: 60})
	require.NoError(t, err)

	report, err := env.auditor.Audit(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
	assert.Equal(t, 2, report.EventsChecked)
	assert.True(t, report.StakeChecked)

	// Tamper with the custodied balance behind the program's back
	vault, err := env.data.GetTokenAccount(env.ctx, env.staking.VaultAddress())
	require.NoError(t, err)
	vault.Amount -= 10
	require.NoError(t, env.data.UpdateTokenAccount(env.ctx, vault))

	report, err = env.auditor.Audit(env.ctx)
	require.NoError(t, err)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, InvariantVaultCustody, report.Violations[0].Invariant)
	assert.EqualValues(t, 60, report.Violations[0].Expected)
	assert.EqualValues(t, 50, report.Violations[0].Actual)
}

func TestAudit_TicketCounterDrift(t *testing.T) {
	env := setup(t, 10)

	_, err := env.ticketing.InitializeConfig(env.ctx, env.authority)
	require.NoError(t, err)
	eventId := env.issue(t, 2)

	tier, err := env.ticketing.GetDigitalAccess(env.ctx, eventId, 0)
	require.NoError(t, err)
	tier.CurrentMinted = 5
	require.NoError(t, env.data.UpdateDigitalAccess(env.ctx, tier))

	report, err := env.auditor.Audit(env.ctx)
	require.NoError(t, err)
	require.Len(t, report.Violations, 2)

	byInvariant := make(map[Invariant]*Violation)
	for _, violation := range report.Violations {
		byInvariant[violation.Invariant] = violation
	}

	tierViolation := byInvariant[InvariantTierTicketCount]
	require.NotNil(t, tierViolation)
	assert.Equal(t, tier.Address, tierViolation.Account)
	assert.EqualValues(t, 5, tierViolation.Expected)
	assert.EqualValues(t, 2, tierViolation.Actual)

	eventViolation := byInvariant[InvariantEventTierSum]
	require.NotNil(t, eventViolation)
	assert.Equal(t, tier.Event, eventViolation.Account)
	assert.EqualValues(t, 2, eventViolation.Expected)
	assert.EqualValues(t, 5, eventViolation.Actual)
}

func TestAudit_EventBatches(t *testing.T) {
	env := setup(t, 2)

	_, err := env.ticketing.InitializeConfig(env.ctx, env.authority)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		env.issue(t, 1)
	}

	// Batches wrap around the event ids: 0-1, then 2-0, then 1-2
	for _, expected := range []uint64{2, 1, 0} {
		report, err := env.auditor.Audit(env.ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.EventsChecked)
		assert.Empty(t, report.Violations)
		assert.Equal(t, expected, env.auditor.nextEventId)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	env := setup(t, 10)

	ctx, cancel := context.WithCancel(env.ctx)
	done := make(chan error, 1)
	go func() {
		done <- env.auditor.Start(ctx, 10*time.Millisecond)
	}()

	require.NoError(t, testutil.WaitFor(time.Second, 5*time.Millisecond, func() bool {
		return env.auditor.LastReport() != nil
	}))

	cancel()
	select {
	case err := <-done:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("auditor did not stop")
	}
}

func TestSchedule(t *testing.T) {
	env := setup(t, 10)

	assert.Error(t, env.auditor.Schedule(env.ctx, "not a schedule"))

	ctx, cancel := context.WithCancel(env.ctx)
	done := make(chan error, 1)
	go func() {
		done <- env.auditor.Schedule(ctx, "@every 1s")
	}()

	require.NoError(t, testutil.WaitFor(3*time.Second, 10*time.Millisecond, func() bool {
		return env.auditor.LastReport() != nil
	}))

	cancel()
	select {
	case err := <-done:
		assert.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
