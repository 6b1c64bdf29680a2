package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/chn0318/logqueue/config"
	"github.com/chn0318/logqueue/diskqueue"
	"github.com/chn0318/logqueue/logwriter"
	"github.com/chn0318/logqueue/mapservice"
	"github.com/chn0318/logqueue/proto/queuepb"
	"github.com/chn0318/logqueue/queueserver"
	"github.com/chn0318/logqueue/sharedlog"
	"github.com/chn0318/logqueue/sharedlog/memorylog"
	"github.com/chn0318/logqueue/sharedlog/pebblelog"
	"github.com/chn0318/logqueue/sharedlog/scalog"
	"github.com/chn0318/logqueue/telemetry"
)

// backend bundles the two sides of a shared log implementation. logSystem
// is nil for append-only backends.
type backend struct {
	log       sharedlog.SharedLog
	logSystem sharedlog.LogSystem
	closer    io.Closer
}

func openBackend(cfg *config.Config) (*backend, error) {
	switch cfg.Backend {
	case config.BackendPebble:
		l, err := pebblelog.Open(cfg.DataDir, cfg.PeekBatch)
		if err != nil {
			return nil, err
		}
		return &backend{log: l, logSystem: l, closer: l}, nil
	case config.BackendScalog:
		s, err := scalog.NewScalogSystem()
		if err != nil {
			return nil, err
		}
		return &backend{log: s}, nil
	default:
		l := memorylog.NewMemoryLogWithBatch(cfg.PeekBatch)
		return &backend{log: l, logSystem: l}, nil
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = zerolog.New(zerolog.NewConsoleWriter()).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogging(cfg.LogLevel)
	telemetry.Init()

	be, err := openBackend(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("Failed to open log backend")
	}

	tag := sharedlog.Tag(cfg.Tag)
	opts := []diskqueue.Option{diskqueue.WithBlockCapacity(cfg.BlockCapacity)}
	if !cfg.EnableRecovery {
		opts = append(opts, diskqueue.WithoutRecovery())
	}
	queue, err := diskqueue.Open(be.logSystem, tag, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open disk queue adapter")
	}

	ms := mapservice.NewMapService()
	writerCtx, stopWriter := context.WithCancel(context.Background())
	writer := logwriter.New(queue, be.log, tag, ms)
	writer.Start(writerCtx)

	svc := queueserver.NewQueueService(queue, ms)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.ListenAddr).Msg("Failed to listen")
	}
	grpcServer := grpc.NewServer()
	queuepb.RegisterQueueServer(grpcServer, svc)

	adminServer := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           svc.AdminRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", cfg.AdminAddr).Msg("Admin server failed")
		}
	}()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		grpcServer.GracefulStop()
	}()

	log.Info().
		Str("addr", cfg.ListenAddr).
		Str("admin", cfg.AdminAddr).
		Str("backend", cfg.Backend).
		Stringer("tag", tag).
		Msg("logqueue gRPC server listening")
	if err := grpcServer.Serve(lis); err != nil {
		log.Error().Err(err).Msg("Serve error")
	}

	// In-flight commits have been acknowledged once GracefulStop returns.
	stopWriter()
	if err := writer.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("Log writer stopped with error")
	}
	queue.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = adminServer.Shutdown(shutdownCtx)

	if be.closer != nil {
		if err := be.closer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close log backend")
		}
	}
}
