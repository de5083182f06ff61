package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/rwa/internal/compliance"
	"github.com/alfredjeanlab/rwa/internal/config"
	"github.com/alfredjeanlab/rwa/internal/events"
	"github.com/alfredjeanlab/rwa/internal/idgen"
	"github.com/alfredjeanlab/rwa/internal/provider"
	"github.com/alfredjeanlab/rwa/internal/server"
	"github.com/alfredjeanlab/rwa/internal/session"
	"github.com/alfredjeanlab/rwa/internal/store"
	"github.com/alfredjeanlab/rwa/internal/store/postgres"
	rwasync "github.com/alfredjeanlab/rwa/internal/sync"
	"github.com/alfredjeanlab/rwa/internal/transfer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:               "serve",
	Short:             "Start the wallet daemon",
	GroupID:           "system",
	PersistentPreRunE: skipClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// The journal is optional. Keep st a nil interface when it is off.
		var st store.Store
		if cfg.DatabaseURL != "" {
			pg, err := postgres.New(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			st = pg
			logger.Info("audit journal enabled")
		} else {
			logger.Info("audit journal disabled (RWA_DATABASE_URL not set)")
		}
		closeStore := func() {
			if st == nil {
				return
			}
			if err := st.Close(); err != nil {
				logger.Error("error closing store", "err", err)
			}
		}

		var bus events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				closeStore()
				return err
			}
			bus = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			bus = &events.NoopPublisher{}
			logger.Info("events disabled (RWA_NATS_URL not set)")
		}
		rec := server.NewRecorder(st, bus, logger)

		prov := provider.NewHTTPProvider(cfg.ProviderURL, cfg.ProviderTimeout)
		machine := session.New(idgen.MustSession(), prov, rec, cfg.PollInterval, logger)
		cache := compliance.NewCache(
			compliance.NewHTTPFetcher(cfg.ComplianceURL, cfg.ProviderTimeout, cfg.ComplianceRetries),
			rec, logger,
		)
		machine.Observe(cache.Observe)

		opts := []transfer.Option{
			transfer.WithRecipientFetcher(compliance.NewHTTPFetcher(cfg.ComplianceURL, cfg.ProviderTimeout, 0)),
		}
		if st != nil {
			opts = append(opts, transfer.WithJournal(st))
		}
		executor := transfer.NewExecutor(machine, cache,
			transfer.NewLedgerSubmitter(cfg.LedgerURL, cfg.ProviderTimeout), rec, logger, opts...)

		walletServer := server.NewWalletServer(machine, cache, executor, st, rec, logger)

		grpcServer := server.NewGRPCServer(walletServer, cfg.AuthToken)
		if cfg.GRPCAddr != "" {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				machine.Close()
				rec.Close()
				closeStore()
				return err
			}
			go func() {
				logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server error", "err", err)
				}
			}()
		} else {
			logger.Info("gRPC disabled (RWA_GRPC_ADDR=off)")
		}

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           walletServer.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		scheduler := startSync(cfg, st, logger)

		// Reconcile with the provider once; this never starts a connection.
		checkCtx, cancelCheck := context.WithTimeout(context.Background(), cfg.ProviderTimeout)
		sess := machine.CheckConnection(checkCtx)
		cancelCheck()

		logger.Info("wallet daemon started",
			"session", sess.ID,
			"state", sess.State,
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		machine.Close()
		logger.Info("session watcher stopped")

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := rec.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		closeStore()

		logger.Info("shutdown complete")
		return nil
	},
}

// startSync starts journal export when a journal and at least one
// destination are configured. It returns nil otherwise.
func startSync(cfg *config.Config, st store.Store, logger *slog.Logger) *rwasync.Scheduler {
	if st == nil || cfg.SyncInterval <= 0 {
		return nil
	}
	var dests []rwasync.Destination

	if cfg.SyncS3Bucket != "" {
		s3Dest, err := rwasync.NewS3Destination(
			context.Background(),
			cfg.SyncS3Bucket,
			cfg.SyncS3Key,
			cfg.SyncS3Region,
			cfg.SyncS3Endpoint,
		)
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
		}
	}

	if cfg.SyncGitRepo != "" {
		dests = append(dests, rwasync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch))
		logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
	}

	if len(dests) == 0 {
		return nil
	}
	scheduler := rwasync.NewScheduler(st, dests, cfg.SyncInterval, logger)
	scheduler.Start()
	logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
	return scheduler
}

func init() {
	serveCmd.Flags().String("env-file", ".env", "optional dotenv file loaded before reading RWA_* variables")
}
