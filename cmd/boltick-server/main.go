package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"sync"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/franRappazzini/boltick-contracts/pkg/app"
	async_auditor "github.com/franRappazzini/boltick-contracts/pkg/boltick/async/auditor"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/data"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/eventlog"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/staking"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/program/ticketing"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/server/web"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/system"
	"github.com/franRappazzini/boltick-contracts/pkg/boltick/token"
	pg "github.com/franRappazzini/boltick-contracts/pkg/database/postgres"
	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
)

type server struct {
	log *logrus.Entry

	db        *sql.DB
	emitter   eventlog.AsyncEmitter
	closeSink func()
	web       *web.Server

	serviceCtx    context.Context
	cancelService context.CancelFunc
	services      sync.WaitGroup

	shutdownCh chan struct{}
	stopOnce   sync.Once
}

func (s *server) Init(config app.Config, metricsProvider *newrelic.Application) error {
	s.log = logrus.StandardLogger().WithField("type", "cmd/boltick-server")
	s.shutdownCh = make(chan struct{})

	conf, err := decodeServerConfig(config)
	if err != nil {
		return err
	}

	s.serviceCtx, s.cancelService = context.WithCancel(metrics.NewContext(context.Background(), metricsProvider))

	var dataProvider data.Provider
	if conf.InMemoryStore {
		s.log.Warn("using the in-memory account store, state is lost on restart")
		dataProvider = data.NewTestDataProvider()
	} else {
		s.db, err = pg.New(&conf.Postgres)
		if err != nil {
			return err
		}
		dataProvider = data.NewDataProviderFromDB(s.db)
	}

	var sink eventlog.Emitter
	if len(conf.JetStream.URL) > 0 {
		sink, s.closeSink, err = eventlog.NewJetStreamEmitter(s.serviceCtx, &conf.JetStream)
		if err != nil {
			return errors.Wrap(err, "error connecting to jetstream")
		}
	} else {
		sink = eventlog.NewLogEmitter()
	}
	s.emitter = eventlog.NewAsyncEmitter(sink, conf.EventWorkers, conf.EventQueueSize)

	tokens := token.NewLedger(dataProvider)
	bank := system.NewBank(dataProvider)
	locker := program.NewAccountLocker()

	ticketingProgram, err := ticketing.New(dataProvider, tokens, bank, locker, s.emitter, ticketing.WithEnvConfigs())
	if err != nil {
		return err
	}

	stakingProgram, err := staking.New(dataProvider, tokens, locker, s.emitter)
	if err != nil {
		return err
	}

	var auditor *async_auditor.Auditor
	if len(conf.AuditorSchedule) > 0 || conf.AuditorInterval > 0 {
		auditor, err = async_auditor.New(dataProvider, tokens, locker, async_auditor.WithEnvConfigs())
		if err != nil {
			return err
		}

		s.services.Add(1)
		go func() {
			defer s.services.Done()

			var err error
			if len(conf.AuditorSchedule) > 0 {
				err = auditor.Schedule(s.serviceCtx, conf.AuditorSchedule)
			} else {
				err = auditor.Start(s.serviceCtx, conf.AuditorInterval)
			}

			if err != nil && err != context.Canceled {
				s.log.WithError(err).Warn("auditor stopped")
			}
		}()
	}

	s.web = web.NewServer(dataProvider, locker, bank, tokens, ticketingProgram, stakingProgram, auditor, web.WithEnvConfigs())

	return nil
}

func (s *server) HTTPHandlers() map[string]http.HandlerFunc {
	return s.web.GetHandlers()
}

func (s *server) RegisterWithGRPC(_ *grpc.Server) {
}

func (s *server) ShutdownChan() <-chan struct{} {
	return s.shutdownCh
}

func (s *server) Stop() {
	s.stopOnce.Do(func() {
		s.cancelService()
		s.services.Wait()

		// Delivers whatever is still queued before the sink goes away
		s.emitter.Close()
		if s.closeSink != nil {
			s.closeSink()
		}

		if s.db != nil {
			if err := s.db.Close(); err != nil {
				s.log.WithError(err).Warn("failure closing database")
			}
		}

		close(s.shutdownCh)
	})
}

func main() {
	if err := app.Run(&server{}); err != nil {
		logrus.WithError(err).Error("error running boltick server")
		os.Exit(1)
	}
}
