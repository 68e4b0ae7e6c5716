package web

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	xrate "golang.org/x/time/rate"

	async_auditor "github.com/franRappazzini/boltick-contracts/pkg/boltick/async/auditor"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/common"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/staking"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/ticketing"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/system"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	"github.com/franRappazzini/boltick-contracts/pkg/rate"
	"github.com/franRappazzini/boltick-contracts/pkg/retry"
	"github.com/franRappazzini/boltick-contracts/pkg/retry/backoff"
)

const (
	v1PathPrefix = "/v1"

	v1TicketingPathPrefix           = v1PathPrefix + "/ticketing"
	v1InitializeTicketingConfigPath = v1TicketingPathPrefix + "/initializeConfig"
	v1InitializeEventPath           = v1TicketingPathPrefix + "/initializeEvent"
	v1AddDigitalAccessPath          = v1TicketingPathPrefix + "/addDigitalAccess"
	v1MintTokenPath                 = v1TicketingPathPrefix + "/mintToken"
	v1BuyTokenPath                  = v1TicketingPathPrefix + "/buyToken"
	v1UpdateTokenMetadataPath       = v1TicketingPathPrefix + "/updateTokenMetadata"
	v1GetTicketingConfigPath        = v1TicketingPathPrefix + "/getConfig"
	v1GetEventPath                  = v1TicketingPathPrefix + "/getEvent"
	v1GetEventsByCreatorPath        = v1TicketingPathPrefix + "/getEventsByCreator"
	v1GetDigitalAccessByEventPath   = v1TicketingPathPrefix + "/getDigitalAccess"
	v1GetTicketPath                 = v1TicketingPathPrefix + "/getTicket"
	v1GetTicketsByOwnerPath         = v1TicketingPathPrefix + "/getTicketsByOwner"

	v1StakingPathPrefix           = v1PathPrefix + "/staking"
	v1InitializeStakingConfigPath = v1StakingPathPrefix + "/initializeConfig"
	v1DepositStakePath            = v1StakingPathPrefix + "/deposit"
	v1WithdrawStakePath           = v1StakingPathPrefix + "/withdraw"
	v1UpdateStakingConfigPath     = v1StakingPathPrefix + "/updateConfig"
	v1GetStakingConfigPath        = v1StakingPathPrefix + "/getConfig"
	v1GetStakePositionPath        = v1StakingPathPrefix + "/getPosition"

	v1SystemPathPrefix  = v1PathPrefix + "/system"
	v1GetBalancePath    = v1SystemPathPrefix + "/getBalance"
	v1AirdropPath       = v1SystemPathPrefix + "/airdrop"
	v1RequestTokensPath = v1SystemPathPrefix + "/requestTokens"

	v1GetAuditReportPath = v1PathPrefix + "/audit/getReport"

	contentTypeHeaderName      = "content-type"
	jsonContentTypeHeaderValue = "application/json"
)

var (
	errRateLimited   = errors.New("too many requests")
	errAirdropDenied = errors.New("airdrops are disabled")
	errFaucetDenied  = errors.New("token faucet is disabled")
)

type Server struct {
	log  *logrus.Entry
	conf *conf

	data      data.Provider
	locker    *program.AccountLocker
	bank      system.Bank
	tokens    token.Ledger
	ticketing *ticketing.Program
	staking   *staking.Program
	auditor   *async_auditor.Auditor

	limiter rate.Limiter
	replays *replayGuard
	clock   program.Clock
}

// NewServer returns the HTTP API over both programs. The auditor is optional.
// The token ledger backs the development faucet.
func NewServer(
	data data.Provider,
	locker *program.AccountLocker,
	bank system.Bank,
	tokens token.Ledger,
	ticketingProgram *ticketing.Program,
	stakingProgram *staking.Program,
	auditor *async_auditor.Auditor,
	configProvider ConfigProvider,
) *Server {
	conf := configProvider()

	return &Server{
		log:       logrus.StandardLogger().WithField("type", "web/server"),
		conf:      conf,
		data:      data,
		locker:    locker,
		bank:      bank,
		tokens:    tokens,
		ticketing: ticketingProgram,
		staking:   stakingProgram,
		auditor:   auditor,
		limiter:   rate.NewLocalRateLimiter(xrate.Limit(conf.requestsPerSecond.Get(context.Background()))),
		replays:   newReplayGuard(int(conf.maxTrackedSignatures.Get(context.Background()))),
		clock:     program.SystemClock,
	}
}

// apiRequest is a request that passed method, size, signature and rate
// checks
type apiRequest struct {
	http      *http.Request
	body      []byte
	signer    *common.Account
	signature []byte
}

func (r *apiRequest) decode(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return errors.Wrap(err, "invalid request body")
	}
	return nil
}

// queryParam returns the first value of a required query parameter
func (r *apiRequest) queryParam(name string) (string, error) {
	values := r.http.URL.Query()[name]
	if len(values) < 1 || len(values[0]) == 0 {
		return "", errors.Errorf("%s query parameter missing", name)
	}
	return values[0], nil
}

type handlerFunc func(ctx context.Context, req *apiRequest) (GenericApiResponseBody, error)

// badRequestError marks errors caused by malformed input that never reached a
// program
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string {
	return e.err.Error()
}

func badRequest(err error) error {
	return &badRequestError{err: err}
}

func (s *Server) handler(path, method string, signed bool, fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := s.log.WithField("path", path)

		statusCode, body := func() (int, GenericApiResponseBody) {
			ctx := r.Context()

			if r.Method != method {
				return http.StatusBadRequest, NewGenericApiFailureResponseBody(errors.Errorf("http %s expected", strings.ToLower(method)))
			}

			req := &apiRequest{http: r}
			if method == http.MethodPost {
				maxBodySize := int64(s.conf.maxBodySize.Get(ctx))
				raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
				if err != nil {
					return http.StatusRequestEntityTooLarge, NewGenericApiFailureResponseBody(errors.New("request body too large"))
				}
				req.body = raw
			}

			rateKey := clientAddress(r)
			if signed {
				signer, signature, err := authenticate(r, req.body, s.clock(), s.conf.maxRequestAge.Get(ctx))
				if err != nil {
					return http.StatusUnauthorized, NewGenericApiFailureResponseBody(err)
				}
				req.signer = signer
				req.signature = signature
				rateKey = signer.ToBase58()
				log = log.WithField("signer", rateKey)
			}

			allowed, err := s.limiter.Allow(rateKey)
			if err != nil {
				log.WithError(err).Warn("failure checking rate limit")
			} else if !allowed {
				return http.StatusTooManyRequests, NewGenericApiFailureResponseBody(errRateLimited)
			}

			if signed {
				if err := s.replays.claim(req.signature); err == ErrReplayedRequest {
					log.Info("rejecting replayed request")
					return http.StatusUnauthorized, NewGenericApiFailureResponseBody(err)
				} else if err != nil {
					return http.StatusInternalServerError, NewGenericApiFailureResponseBody(err)
				}
			}

			res, err := s.invoke(ctx, req, fn)
			if err != nil {
				var badRequestErr *badRequestError
				if errors.As(err, &badRequestErr) {
					return http.StatusBadRequest, NewGenericApiFailureResponseBody(badRequestErr.err)
				}

				log.WithError(err).Warn("failure handling request")
				statusCode, err := HandleProgramErrorInWebContext(err)
				return statusCode, NewGenericApiFailureResponseBody(err)
			}
			return http.StatusOK, res
		}()

		w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
		w.WriteHeader(statusCode)
		if _, err := w.Write([]byte(body.ToString())); err != nil {
			log.WithError(err).Warn("failed to write body")
		}
	}
}

// invoke runs fn, retrying when a concurrent invocation won the accounts
func (s *Server) invoke(ctx context.Context, req *apiRequest, fn handlerFunc) (GenericApiResponseBody, error) {
	var res GenericApiResponseBody
	_, err := retry.Retry(
		func() error {
			var err error
			res, err = fn(ctx, req)
			return err
		},
		retry.RetriableErrors(program.ErrAccountInUse),
		retry.Limit(uint(s.conf.maxInvokeAttempts.Get(ctx))),
		retry.Backoff(backoff.BinaryExponential(10*time.Millisecond), 100*time.Millisecond),
	)
	return res, err
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseAccount(name, value string) (*common.Account, error) {
	account, err := common.NewAccountFromPublicKeyString(value)
	if err != nil {
		return nil, badRequest(errors.Errorf("%s is not a public key", name))
	}
	return account, nil
}

func (s *Server) GetHandlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		v1InitializeTicketingConfigPath: s.handler(v1InitializeTicketingConfigPath, http.MethodPost, true, s.initializeTicketingConfig),
		v1InitializeEventPath:           s.handler(v1InitializeEventPath, http.MethodPost, true, s.initializeEvent),
		v1AddDigitalAccessPath:          s.handler(v1AddDigitalAccessPath, http.MethodPost, true, s.addDigitalAccess),
		v1MintTokenPath:                 s.handler(v1MintTokenPath, http.MethodPost, true, s.mintToken),
		v1BuyTokenPath:                  s.handler(v1BuyTokenPath, http.MethodPost, true, s.buyToken),
		v1UpdateTokenMetadataPath:       s.handler(v1UpdateTokenMetadataPath, http.MethodPost, true, s.updateTokenMetadata),
		v1GetTicketingConfigPath:        s.handler(v1GetTicketingConfigPath, http.MethodGet, false, s.getTicketingConfig),
		v1GetEventPath:                  s.handler(v1GetEventPath, http.MethodGet, false, s.getEvent),
		v1GetEventsByCreatorPath:        s.handler(v1GetEventsByCreatorPath, http.MethodGet, false, s.getEventsByCreator),
		v1GetDigitalAccessByEventPath:   s.handler(v1GetDigitalAccessByEventPath, http.MethodGet, false, s.getDigitalAccessByEvent),
		v1GetTicketPath:                 s.handler(v1GetTicketPath, http.MethodGet, false, s.getTicket),
		v1GetTicketsByOwnerPath:         s.handler(v1GetTicketsByOwnerPath, http.MethodGet, false, s.getTicketsByOwner),

		v1InitializeStakingConfigPath: s.handler(v1InitializeStakingConfigPath, http.MethodPost, true, s.initializeStakingConfig),
		v1DepositStakePath:            s.handler(v1DepositStakePath, http.MethodPost, true, s.depositStake),
		v1WithdrawStakePath:           s.handler(v1WithdrawStakePath, http.MethodPost, true, s.withdrawStake),
		v1UpdateStakingConfigPath:     s.handler(v1UpdateStakingConfigPath, http.MethodPost, true, s.updateStakingConfig),
		v1GetStakingConfigPath:        s.handler(v1GetStakingConfigPath, http.MethodGet, false, s.getStakingConfig),
		v1GetStakePositionPath:        s.handler(v1GetStakePositionPath, http.MethodGet, false, s.getStakePosition),

		v1GetBalancePath:    s.handler(v1GetBalancePath, http.MethodGet, false, s.getBalance),
		v1AirdropPath:       s.handler(v1AirdropPath, http.MethodPost, true, s.airdrop),
		v1RequestTokensPath: s.handler(v1RequestTokensPath, http.MethodPost, true, s.requestTokens),

		v1GetAuditReportPath: s.handler(v1GetAuditReportPath, http.MethodGet, false, s.getAuditReport),
	}
}
