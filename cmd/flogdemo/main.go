// Command flogdemo wires a fluentlog.Logger to a chosen backend and serves
// /metrics and /healthz over HTTP, demonstrating the fluent API end to
// end. Grounded on the teacher's cmd/main.go + internal/app's HTTP server
// and graceful-shutdown pattern, simplified to this system's single
// router instead of separate API/metrics servers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sswlabs/fluentlog"
	"github.com/sswlabs/fluentlog/internal/appconfig"
	"github.com/sswlabs/fluentlog/internal/backend"
	"github.com/sswlabs/fluentlog/internal/platform"
	"github.com/sswlabs/fluentlog/pkg/logctx"
	"github.com/sswlabs/fluentlog/pkg/metadata"
	"github.com/sswlabs/fluentlog/pkg/scope"
	"github.com/sswlabs/fluentlog/pkg/workerpool"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", os.Getenv("FLOGDEMO_CONFIG_FILE"), "path to a YAML configuration file")
	flag.Parse()

	cfg, err := appconfig.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flogdemo: %v\n", err)
		os.Exit(1)
	}

	bk, closeBackend, err := buildBackend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flogdemo: %v\n", err)
		os.Exit(1)
	}
	defer closeBackend()

	pf := platform.New()
	pf.SetInjectedTag(serviceKey, cfg.App.Name)
	logger := fluentlog.New(cfg.Logger.Name, bk, pf)

	requestScope := scope.New("request")
	defer requestScope.Close()
	pop := pf.PushScope("request", requestScope)
	demonstrate(logger)
	pop()

	router := mux.NewRouter()
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}
	router.HandleFunc("/healthz", healthzHandler).Methods(http.MethodGet)
	router.HandleFunc("/log", logHandler(logger)).Methods(http.MethodPost)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.AtInfo().With(addrKey, addr).Log("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.AtSevere().WithCause(err).Log("http server stopped unexpectedly")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.AtInfo().Log("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.AtWarning().WithCause(err).Log("http server shutdown did not complete cleanly")
	}
}

var (
	serviceKey = metadata.NewKey[string]("service")
	addrKey    = metadata.NewKey[string]("addr")
	requestKey = metadata.NewKey[string]("request_path")
)

func buildBackend(cfg *appconfig.Config) (fluentlog.Backend, func() error, error) {
	minLevel := parseLevel(cfg.Logger.MinLevel)
	logrusLogger := logrus.New()

	switch cfg.Backend.Type {
	case "kafka":
		kcfg := backend.KafkaConfig{
			Brokers:      cfg.Backend.Kafka.Brokers,
			Topic:        cfg.Backend.Kafka.Topic,
			Compression:  cfg.Backend.Kafka.Compression,
			RequiredAcks: cfg.Backend.Kafka.RequiredAcks,
			Auth: backend.KafkaAuthConfig{
				Enabled:   cfg.Backend.Kafka.SASLEnabled,
				Username:  cfg.Backend.Kafka.SASLUsername,
				Password:  cfg.Backend.Kafka.SASLPassword,
				Mechanism: cfg.Backend.Kafka.SASLMechanism,
			},
			Workers: workerpool.Config{
				MaxWorkers: cfg.Backend.Kafka.Workers,
				QueueSize:  cfg.Backend.Kafka.QueueSize,
			},
		}
		kb, err := backend.NewKafkaBackend(cfg.Logger.Name, kcfg, logrusLogger, minLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("building kafka backend: %w", err)
		}
		return backend.Instrument(kb), kb.Close, nil
	default:
		if strings.EqualFold(cfg.Backend.Console.Format, "json") {
			logrusLogger.SetFormatter(&logrus.JSONFormatter{})
		}
		cb := backend.NewConsoleBackend(cfg.Logger.Name, logrusLogger, minLevel)
		return backend.Instrument(cb), func() error { return nil }, nil
	}
}

func parseLevel(s string) fluentlog.Level {
	switch strings.ToUpper(s) {
	case "FINEST":
		return fluentlog.LevelFinest
	case "FINER":
		return fluentlog.LevelFiner
	case "FINE":
		return fluentlog.LevelFine
	case "CONFIG":
		return fluentlog.LevelConfig
	case "WARNING":
		return fluentlog.LevelWarning
	case "SEVERE":
		return fluentlog.LevelSevere
	default:
		return fluentlog.LevelInfo
	}
}

// demonstrate exercises the fluent API's distinguishing features once at
// startup: printf/brace templates, cause attachment, count/duration rate
// limiting, and scope-qualified grouping.
func demonstrate(logger *fluentlog.Logger) {
	logger.AtInfo().Logf("%s starting up, pid=%d", logger.Name(), os.Getpid())
	logger.AtInfo().LogBrace("listening with {0} configured backend", 1)

	for i := 0; i < 5; i++ {
		logger.AtFine().Every(2).With(addrKey, strconv.Itoa(i)).Log("periodic housekeeping tick")
	}

	logger.AtWarning().AtMostEvery(1, time.Minute).Log("rate-limited warning, fires at most once a minute")

	logger.AtInfo().PerScope("request").Log("grouped under the startup request scope")

	if _, err := os.Stat("/nonexistent-flogdemo-marker"); err != nil {
		logger.AtConfig().WithCause(err).WithStackTrace(logctx.StackSmall).Log("expected missing marker file, logged for demonstration")
	}
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func logHandler(logger *fluentlog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.AtInfo().With(requestKey, r.URL.Path).Log("demo log endpoint invoked")
		w.WriteHeader(http.StatusAccepted)
	}
}
