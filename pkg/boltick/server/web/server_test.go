package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
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
	server    *Server
	handlers  map[string]http.HandlerFunc
	bank      system.Bank
	tokens    token.Ledger
	authority *common.Account
	creator   *common.Account
}

func setup(t *testing.T, overrides *testOverrides) *testEnv {
	if overrides == nil {
		overrides = &testOverrides{requestsPerSecond: 1000, enableAirdrop: true, enableTokenFaucet: true}
	}

	provider := data.NewTestDataProvider()
	tokens := token.NewLedger(provider)
	bank := system.NewBank(provider)
	locker := program.NewAccountLocker()

	ticketingProgram, err := ticketing.New(provider, tokens, bank, locker, eventlog.NoopEmitter{}, ticketing.WithEnvConfigs())
	require.NoError(t, err)
	stakingProgram, err := staking.New(provider, tokens, locker, eventlog.NoopEmitter{})
	require.NoError(t, err)

	server := NewServer(provider, locker, bank, tokens, ticketingProgram, stakingProgram, nil, withManualTestOverrides(overrides))
	return &testEnv{
		server:    server,
		handlers:  server.GetHandlers(),
		bank:      bank,
		tokens:    tokens,
		authority: testutil.NewRandomAccount(t),
		creator:   testutil.NewRandomAccount(t),
	}
}

func (e *testEnv) post(t *testing.T, path string, signer *common.Account, body map[string]any) (int, map[string]any) {
	if body == nil {
		body = map[string]any{}
	}
	if _, ok := body["timestamp"]; !ok {
		body["timestamp"] = time.Now().Unix()
	}
	if _, ok := body["nonce"]; !ok {
		body["nonce"] = uuid.NewString()
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	return e.serve(t, path, e.signedRequest(t, path, signer, raw))
}

func (e *testEnv) signedRequest(t *testing.T, path string, signer *common.Account, raw []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	require.NoError(t, SignRequest(req, signer, raw))
	return req
}

func (e *testEnv) get(t *testing.T, path, rawQuery string) (int, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, path+"?"+rawQuery, nil)
	return e.serve(t, path, req)
}

func (e *testEnv) serve(t *testing.T, path string, req *http.Request) (int, map[string]any) {
	handler, ok := e.handlers[path]
	require.True(t, ok, "no handler for %s", path)

	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, jsonContentTypeHeaderValue, rec.Header().Get(contentTypeHeaderName))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec.Code, decoded
}

func (e *testEnv) initializeEvent(t *testing.T) {
	status, _ := e.post(t, v1InitializeTicketingConfigPath, e.authority, nil)
	require.Equal(t, http.StatusOK, status)

	status, res := e.post(t, v1InitializeEventPath, e.creator, map[string]any{
		"name":        "Test Event",
		"symbol":      "TE",
		"uri":         "https://boltick.io/events/test.json",
		"description": "A test event",
	})
	require.Equal(t, http.StatusOK, status, res)

	status, res = e.post(t, v1AddDigitalAccessPath, e.creator, map[string]any{
		"event_id":    0,
		"price":       1_000,
		"max_supply":  1,
		"name":        "VIP",
		"symbol":      "VIP",
		"description": "Front row",
		"uri":         "https://boltick.io/tiers/vip.json",
	})
	require.Equal(t, http.StatusOK, status, res)
}

func TestTicketingFlow(t *testing.T) {
	env := setup(t, nil)
	env.initializeEvent(t)

	buyer := testutil.NewRandomAccount(t)
	status, res := env.post(t, v1AirdropPath, buyer, map[string]any{"lamports": 5_000})
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 5_000, res["lamports"])

	status, res = env.post(t, v1BuyTokenPath, buyer, map[string]any{
		"event_id":          0,
		"digital_access_id": 0,
		"event_creator":     env.creator.ToBase58(),
	})
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, true, res[successJsonKey])
	ticketRes := res["ticket"].(map[string]any)
	assert.Equal(t, buyer.ToBase58(), ticketRes["owner"])
	assert.EqualValues(t, 1_000, ticketRes["price"])

	// The tier holds a single unit
	status, res = env.post(t, v1BuyTokenPath, buyer, map[string]any{
		"event_id":          0,
		"digital_access_id": 0,
		"event_creator":     env.creator.ToBase58(),
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, res[successJsonKey])
	assert.Equal(t, program.KindSupplyExceeded.String(), res[kindJsonKey])

	status, res = env.get(t, v1GetBalancePath, "account="+env.creator.ToBase58())
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1_000, res["lamports"])

	status, res = env.get(t, v1GetTicketPath, "event_id=0&nft_id=0")
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, "VIP #0", res["metadata"].(map[string]any)["name"])

	status, res = env.get(t, v1GetTicketsByOwnerPath, "owner="+buyer.ToBase58())
	require.Equal(t, http.StatusOK, status, res)
	assert.Len(t, res["tickets"], 1)
	assert.NotEmpty(t, res[nextCursorJsonKey])

	status, res = env.get(t, v1GetEventPath, "event_id=0")
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 1, res["event"].(map[string]any)["nft_count"])
}

func TestBuyToken_ForgedCreator(t *testing.T) {
	env := setup(t, nil)
	env.initializeEvent(t)

	buyer := testutil.NewRandomAccount(t)
	forged := testutil.NewRandomAccount(t)
	status, _ := env.post(t, v1AirdropPath, buyer, map[string]any{"lamports": 5_000})
	require.Equal(t, http.StatusOK, status)

	status, res := env.post(t, v1BuyTokenPath, buyer, map[string]any{
		"event_id":          0,
		"digital_access_id": 0,
		"event_creator":     forged.ToBase58(),
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, program.KindAuthorization.String(), res[kindJsonKey])

	status, res = env.get(t, v1GetBalancePath, "account="+buyer.ToBase58())
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5_000, res["lamports"])
}

func TestSignedRequests(t *testing.T) {
	env := setup(t, nil)
	signer := testutil.NewRandomAccount(t)

	raw := []byte(`{"timestamp":` + jsonNumber(time.Now().Unix()) + `}`)

	// Missing headers
	req := httptest.NewRequest(http.MethodPost, v1InitializeTicketingConfigPath, bytes.NewReader(raw))
	status, res := env.serve(t, v1InitializeTicketingConfigPath, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrMissingSignature.Error(), res[errorJsonKey])

	// Body altered after signing
	req = httptest.NewRequest(http.MethodPost, v1InitializeTicketingConfigPath, bytes.NewReader(append(raw, ' ')))
	require.NoError(t, SignRequest(req, signer, raw))
	status, res = env.serve(t, v1InitializeTicketingConfigPath, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrInvalidSignature.Error(), res[errorJsonKey])

	// Stale timestamp
	status, res = env.post(t, v1InitializeTicketingConfigPath, signer, map[string]any{
		"timestamp": time.Now().Add(-time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrRequestExpired.Error(), res[errorJsonKey])

	// Wrong method
	status, _ = env.get(t, v1InitializeTicketingConfigPath, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSignedRequests_Replay(t *testing.T) {
	env := setup(t, nil)
	env.initializeEvent(t)

	status, res := env.post(t, v1AddDigitalAccessPath, env.creator, map[string]any{
		"event_id":    0,
		"price":       1_000,
		"max_supply":  3,
		"name":        "General",
		"symbol":      "GA",
		"description": "Standing room",
		"uri":         "https://boltick.io/tiers/general.json",
	})
	require.Equal(t, http.StatusOK, status, res)

	buyer := testutil.NewRandomAccount(t)
	status, res = env.post(t, v1AirdropPath, buyer, map[string]any{"lamports": 10_000})
	require.Equal(t, http.StatusOK, status, res)

	raw, err := json.Marshal(map[string]any{
		"timestamp":         time.Now().Unix(),
		"event_id":          0,
		"digital_access_id": 1,
		"event_creator":     env.creator.ToBase58(),
	})
	require.NoError(t, err)

	status, res = env.serve(t, v1BuyTokenPath, env.signedRequest(t, v1BuyTokenPath, buyer, raw))
	require.Equal(t, http.StatusOK, status, res)

	for i := 0; i < 2; i++ {
		status, res = env.serve(t, v1BuyTokenPath, env.signedRequest(t, v1BuyTokenPath, buyer, raw))
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, ErrReplayedRequest.Error(), res[errorJsonKey])
	}

	status, res = env.get(t, v1GetBalancePath, "account="+buyer.ToBase58())
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 9_000, res["lamports"])

	status, res = env.get(t, v1GetTicketsByOwnerPath, "owner="+buyer.ToBase58())
	require.Equal(t, http.StatusOK, status, res)
	assert.Len(t, res["tickets"], 1)

	// The same purchase with a fresh nonce is a new request
	status, res = env.post(t, v1BuyTokenPath, buyer, map[string]any{
		"event_id":          0,
		"digital_access_id": 1,
		"event_creator":     env.creator.ToBase58(),
	})
	require.Equal(t, http.StatusOK, status, res)

	status, res = env.get(t, v1GetBalancePath, "account="+buyer.ToBase58())
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 8_000, res["lamports"])
}

func TestReplayGuard_Budget(t *testing.T) {
	guard := newReplayGuard(2)

	require.NoError(t, guard.claim([]byte("first")))
	assert.Equal(t, ErrReplayedRequest, guard.claim([]byte("first")))

	require.NoError(t, guard.claim([]byte("second")))
	require.NoError(t, guard.claim([]byte("third")))
	assert.Equal(t, ErrReplayedRequest, guard.claim([]byte("third")))
	assert.LessOrEqual(t, guard.seen.GetWeight(), 2)
}

func TestRateLimit(t *testing.T) {
	env := setup(t, &testOverrides{requestsPerSecond: 1})

	status, _ := env.get(t, v1GetTicketingConfigPath, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, res := env.get(t, v1GetTicketingConfigPath, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, errRateLimited.Error(), res[errorJsonKey])
}

func TestAirdrop_Disabled(t *testing.T) {
	env := setup(t, &testOverrides{requestsPerSecond: 1000})

	status, res := env.post(t, v1AirdropPath, testutil.NewRandomAccount(t), map[string]any{"lamports": 10})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errAirdropDenied.Error(), res[errorJsonKey])
}

func TestRequestTokens_Disabled(t *testing.T) {
	env := setup(t, &testOverrides{requestsPerSecond: 1000})

	status, res := env.post(t, v1RequestTokensPath, testutil.NewRandomAccount(t), map[string]any{"amount": 10})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errFaucetDenied.Error(), res[errorJsonKey])
}

func TestRequestTokens(t *testing.T) {
	env := setup(t, nil)
	depositor := testutil.NewRandomAccount(t)

	status, res := env.post(t, v1RequestTokensPath, depositor, map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, status, res)

	status, res = env.post(t, v1RequestTokensPath, depositor, map[string]any{"amount": defaultMaxFaucetAmount + 1})
	assert.Equal(t, http.StatusBadRequest, status, res)

	status, res = env.post(t, v1RequestTokensPath, depositor, map[string]any{"amount": 300})
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 300, res["balance"])
	mint := res["mint"].(string)
	tokenAccount := res["token_account"].(string)

	expectedMint, _, err := faucetAddresses()
	require.NoError(t, err)
	assert.Equal(t, expectedMint, mint)

	// The mint already exists the second time around
	status, res = env.post(t, v1RequestTokensPath, depositor, map[string]any{"amount": 200})
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, mint, res["mint"])
	assert.Equal(t, tokenAccount, res["token_account"])
	assert.EqualValues(t, 500, res["balance"])

	balance, err := env.tokens.GetBalance(context.Background(), tokenAccount)
	require.NoError(t, err)
	assert.EqualValues(t, 500, balance)

	record, err := env.tokens.GetMint(context.Background(), mint)
	require.NoError(t, err)
	assert.EqualValues(t, faucetMintDecimals, record.Decimals)
	assert.EqualValues(t, 500, record.Supply)
}

func TestStakingEndpoints(t *testing.T) {
	env := setup(t, nil)

	status, res := env.get(t, v1GetStakingConfigPath, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, program.KindNotInitialized.String(), res[kindJsonKey])

	status, res = env.post(t, v1InitializeStakingConfigPath, env.authority, map[string]any{
		"mint": testutil.NewRandomAddress(t),
	})
	assert.Equal(t, http.StatusNotFound, status, res)

	depositor := testutil.NewRandomAccount(t)
	status, res = env.post(t, v1RequestTokensPath, depositor, map[string]any{"amount": 1_000})
	require.Equal(t, http.StatusOK, status, res)
	mint := res["mint"].(string)

	status, res = env.post(t, v1InitializeStakingConfigPath, env.authority, map[string]any{"mint": mint})
	require.Equal(t, http.StatusOK, status, res)
	assert.Equal(t, mint, res["config"].(map[string]any)["mint"])

	status, res = env.post(t, v1DepositStakePath, depositor, map[string]any{"mint": mint, "amount": 400})
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 400, res["position"].(map[string]any)["amount"])

	// More than the depositor holds
	status, res = env.post(t, v1DepositStakePath, depositor, map[string]any{"mint": mint, "amount": 601})
	assert.Equal(t, http.StatusPaymentRequired, status, res)

	status, res = env.get(t, v1GetStakingConfigPath, "")
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 400, res["config"].(map[string]any)["total_staked"])
	assert.EqualValues(t, 400, res["vault_balance"])

	status, res = env.post(t, v1WithdrawStakePath, depositor, map[string]any{"mint": mint, "amount": 150})
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 250, res["position"].(map[string]any)["amount"])

	status, res = env.get(t, v1GetStakePositionPath, "depositor="+depositor.ToBase58())
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 250, res["position"].(map[string]any)["amount"])

	status, res = env.post(t, v1RequestTokensPath, depositor, map[string]any{"amount": 1})
	require.Equal(t, http.StatusOK, status, res)
	assert.EqualValues(t, 751, res["balance"])

	status, res = env.get(t, v1GetStakePositionPath, "depositor=not-a-key")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "depositor is not a public key", res[errorJsonKey])
}

func TestGetAuditReport_NoAuditor(t *testing.T) {
	env := setup(t, nil)

	status, res := env.get(t, v1GetAuditReportPath, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errNoAuditReport.Error(), res[errorJsonKey])
}

func TestHandleProgramErrorInWebContext(t *testing.T) {
	for _, tc := range []struct {
		err      error
		expected int
	}{
		{program.NewError("test", program.KindAuthorization, 6000, "denied"), http.StatusForbidden},
		{program.NewError("test", program.KindIntegrity, 6001, "mismatch"), http.StatusBadRequest},
		{program.NewError("test", program.KindSupplyExceeded, 6002, "sold out"), http.StatusConflict},
		{program.NewError("test", program.KindInsufficientFunds, 6003, "poor"), http.StatusPaymentRequired},
		{program.NewError("test", program.KindNotInitialized, 6004, "missing"), http.StatusNotFound},
		{program.NewError("test", program.KindPaused, 6005, "paused"), http.StatusLocked},
		{program.ErrAccountInUse, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusRequestTimeout},
		{assert.AnError, http.StatusInternalServerError},
	} {
		actual, err := HandleProgramErrorInWebContext(tc.err)
		assert.Equal(t, tc.expected, actual, tc.err.Error())
		assert.Error(t, err)
	}

	actual, err := HandleProgramErrorInWebContext(nil)
	assert.Equal(t, http.StatusOK, actual)
	assert.NoError(t, err)
}

func jsonNumber(v int64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
