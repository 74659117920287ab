package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/autopsyd"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC APIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	a, err := newApp(cfg, logger.Default)
	if err != nil {
		return err
	}

	publisher := autopsyd.NewHealthPublisher()
	a.service.SetHealthPublisher(publisher)

	explainTimeout, _ := cfg.Explainer.GetTimeout()
	httpSrv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: autopsyd.NewHTTPServer(a.service, autopsyd.HTTPOptions{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			ExplainLimiter: autopsyd.NewLimiter(cfg.HTTP.ExplainRatePerSecond, cfg.HTTP.ExplainBurst),
			Logger:         logger.Default,
		}).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// explain responses wait on the model call
		WriteTimeout:   explainTimeout + 5*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	var lis net.Listener
	if cfg.GRPC.Enabled {
		if lis, err = net.Listen("tcp", cfg.GRPC.Addr); err != nil {
			return fmt.Errorf("failed to listen for gRPC on %s: %w", cfg.GRPC.Addr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTP.Addr, "explainer_enabled", a.explainer.Enabled())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if lis != nil {
		grpcSrv := autopsyd.NewGRPCServer(a.service, publisher, logger.Default)

		g.Go(func() error {
			logger.Info("gRPC server listening", "addr", cfg.GRPC.Addr)
			if err := grpcSrv.Serve(lis); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			publisher.Shutdown()
			grpcSrv.GracefulStop()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown error", "error", err)
		}
		return nil
	})

	return g.Wait()
}
