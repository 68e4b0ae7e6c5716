package app

import (
	"expvar"
	"flag"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	metrics_util "github.com/franRappazzini/boltick-contracts/pkg/metrics"
)

// App is a long lived application that services HTTP requests. The gRPC
// server carries the health service and anything the app registers.
//
// The lifecycle of the App is tied to the process. The app gets initialized
// before the servers run, and gets stopped after they have stopped serving.
type App interface {
	// Init initializes the application in a blocking fashion. When Init
	// returns, the application is ready to receive requests.
	Init(config Config, metricsProvider *newrelic.Application) error

	// HTTPHandlers returns the handlers to serve, keyed by path
	HTTPHandlers() map[string]http.HandlerFunc

	// RegisterWithGRPC registers gRPC services with the gRPC server
	RegisterWithGRPC(server *grpc.Server)

	// ShutdownChan returns a channel that is closed when the application is
	// shutdown, which shuts the servers down as well.
	ShutdownChan() <-chan struct{}

	// Stop stops the application, allowing for it to clean up any resources.
	// When Stop returns, the process exits.
	//
	// Stop should be idempotent.
	Stop()
}

var (
	configPath = flag.String("config", "config.yaml", "configuration file path")

	osSigCh = make(chan os.Signal, 1)
)

func init() {
	signal.Notify(osSigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
}

func Run(app App) error {
	flag.Parse()

	logger := logrus.StandardLogger().WithField("type", "app")

	config, err := loadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		os.Exit(1)
	}

	if len(config.AppName) == 0 {
		logger.Error("must specify an application name")
		os.Exit(1)
	}

	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		nr, err := newrelic.NewApplication(
			newrelic.ConfigFromEnvironment(),
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logrus.WithError(err).Error("error connecting to new relic")
			os.Exit(1)
		}

		metricsProvider = nr
	}

	configureLogger(config, metricsProvider)

	// pprof and expvar install themselves on the default mux, which must not
	// be exposed publicly
	http.DefaultServeMux = http.NewServeMux()

	debugHTTPMux := http.NewServeMux()
	if config.EnableExpvar {
		debugHTTPMux.Handle("/debug/vars", expvar.Handler())
	}
	if config.EnablePprof {
		debugHTTPMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugHTTPMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugHTTPMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugHTTPMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugHTTPMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	if config.EnableExpvar || config.EnablePprof {
		go func() {
			for {
				if err := http.ListenAndServe(config.DebugListenAddress, debugHTTPMux); err != nil {
					logger.WithError(err).Warn("Debug HTTP server failed. Retrying in 5s...")
				}
				time.Sleep(5 * time.Second)
			}
		}()
	}

	memoryLeakShutdownCh := make(chan struct{})
	if config.EnableMemoryLeakCron {
		cronJob := cron.New(cron.WithLocation(time.Local))
		_, err = cronJob.AddFunc(config.MemoryLeakCronSchedule, func() {
			close(memoryLeakShutdownCh)
		})
		if err != nil {
			logger.WithError(err).Error("failed to initialize memory leak cron")
			os.Exit(1)
		}
		cronJob.Start()
	}

	grpcLis, err := net.Listen("tcp", config.GRPCListenAddress)
	if err != nil {
		logger.WithError(err).Errorf("failed to listen on %s", config.GRPCListenAddress)
		os.Exit(1)
	}

	httpLis, err := net.Listen("tcp", config.HTTPListenAddress)
	if err != nil {
		logger.WithError(err).Errorf("failed to listen on %s", config.HTTPListenAddress)
		os.Exit(1)
	}

	if err := app.Init(config.AppConfig, metricsProvider); err != nil {
		logger.WithError(err).Error("failed to initialize application")
		os.Exit(1)
	}

	grpcServ := grpc.NewServer(
		grpc_middleware.WithUnaryServerChain(
			grpc_recovery.UnaryServerInterceptor(),
			newRelicUnaryServerInterceptor(metricsProvider),
		),
		grpc_middleware.WithStreamServerChain(
			grpc_recovery.StreamServerInterceptor(),
		),
	)
	app.RegisterWithGRPC(grpcServ)
	healthgrpc.RegisterHealthServer(grpcServ, health.NewServer())

	httpServ := &http.Server{
		Handler:           newHTTPMux(app.HTTPHandlers(), metricsProvider),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServShutdownCh := make(chan struct{})
	httpServShutdownCh := make(chan struct{})

	go func() {
		if err := grpcServ.Serve(grpcLis); err != nil {
			logger.WithError(err).Error("grpc serve stopped")
		} else {
			logger.Info("grpc server stopped")
		}

		close(grpcServShutdownCh)
	}()

	go func() {
		if err := httpServ.Serve(httpLis); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("http serve stopped")
		} else {
			logger.Info("http server stopped")
		}

		close(httpServShutdownCh)
	}()

	// Wait for the following shutdown conditions:
	//    1. OS Signal telling us to shutdown
	//    2. A server has shutdown (for whatever reason)
	//    3. The application has shutdown (for whatever reason)
	select {
	case <-osSigCh:
		logger.Info("interrupt received, shutting down")
	case <-grpcServShutdownCh:
		logger.Info("grpc server shutdown")
	case <-httpServShutdownCh:
		logger.Info("http server shutdown")
	case <-memoryLeakShutdownCh:
		logger.Info("shutdown to deal with memory leak")
	case <-app.ShutdownChan():
		logger.Info("app shutdown")
	}

	shutdownCh := make(chan struct{})
	go func() {
		// Shutdown of the servers and the application is idempotent, so
		// they're all stopped regardless of the shutdown condition.
		_ = httpServ.Close()
		grpcServ.GracefulStop()
		app.Stop()

		close(shutdownCh)
	}()

	select {
	case <-shutdownCh:
		return nil
	case <-time.After(config.ShutdownGracePeriod):
		return errors.Errorf("failed to stop the application within %v", config.ShutdownGracePeriod)
	}
}

func configureLogger(config BaseConfig, metricsProvider *newrelic.Application) {
	if metricsProvider != nil {
		logrus.SetFormatter(metrics_util.NewCustomNewRelicLogFormatter(metricsProvider, &logrus.JSONFormatter{}))
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	logrus.SetOutput(os.Stdout)
}
