package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/VitaminP8/blogicum/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rt)
		},
	}
}

func runServe(ctx context.Context, rt *runtime) error {
	if err := rt.cfg.Validate(); err != nil {
		return err
	}

	stores, closeStores, err := openStores(rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStores(); err != nil {
			rt.logger.Error("failed to close storage", zap.Error(err))
		}
	}()

	srv, err := server.New(rt.cfg, stores, rt.logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              rt.cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rt.logger.Info("server started", zap.String("addr", rt.cfg.Addr), zap.String("storage", rt.cfg.Storage))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		rt.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if rt.cfg.Debug && rt.cfg.TemplateDir != "" {
		g.Go(func() error {
			return srv.WatchTemplates(gctx, rt.cfg.TemplateDir)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	rt.logger.Info("server stopped")
	return nil
}
