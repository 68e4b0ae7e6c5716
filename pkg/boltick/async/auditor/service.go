package async_auditor

import (
	"context"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"github.com/franRappazzini/boltick-contracts/pkg/boltick/async"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
	"github.com/franRappazzini/boltick-contracts/pkg/retry"
	"github.com/franRappazzini/boltick-contracts/pkg/retry/backoff"
)

// Auditor periodically checks the conservation and supply invariants of both
// programs against persisted state. It takes the same account locks as the
// programs, so a check never observes a half-applied invocation.
type Auditor struct {
	log    *logrus.Entry
	conf   *conf
	data   data.Provider
	tokens token.Custodian
	locker *program.AccountLocker

	ticketingConfigAddress string
	stakingConfigAddress   string
	stakingVaultAddress    string

	mu          sync.Mutex
	nextEventId uint64
	lastReport  *Report
}

var _ async.Service = (*Auditor)(nil)

func New(data data.Provider, tokens token.Custodian, locker *program.AccountLocker, configProvider ConfigProvider) (*Auditor, error) {
	addresses, err := deriveProgramAddresses()
	if err != nil {
		return nil, err
	}

	return &Auditor{
		log:                    logrus.StandardLogger().WithField("service", "auditor"),
		conf:                   configProvider(),
		data:                   data,
		tokens:                 tokens,
		locker:                 locker,
		ticketingConfigAddress: addresses.ticketingConfig,
		stakingConfigAddress:   addresses.stakingConfig,
		stakingVaultAddress:    addresses.stakingVault,
	}, nil
}

func (p *Auditor) Start(serviceCtx context.Context, interval time.Duration) error {
	return retry.LoopWithContext(
		serviceCtx,
		func() error {
			select {
			case <-serviceCtx.Done():
				return serviceCtx.Err()
			case <-time.After(interval):
			}

			tracedCtx := serviceCtx
			nr, ok := serviceCtx.Value(metrics.NewRelicContextKey{}).(*newrelic.Application)
			var m *newrelic.Transaction
			if ok && nr != nil {
				m = nr.StartTransaction("async__auditor_service")
				defer m.End()
				tracedCtx = newrelic.NewContext(serviceCtx, m)
			}

			report, err := p.Audit(tracedCtx)
			if err != nil {
				m.NoticeError(err)
				p.log.WithError(err).Warn("failure auditing program state")
				return err
			}

			if len(report.Violations) > 0 {
				p.log.WithField("violations", len(report.Violations)).Error("program invariants violated")
			} else {
				p.log.WithField("events_checked", report.EventsChecked).Trace("program invariants hold")
			}
			return nil
		},
		retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), interval, 0.1),
	)
}

// LastReport returns the result of the most recent completed audit, or nil
// if none has run
func (p *Auditor) LastReport() *Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastReport
}
