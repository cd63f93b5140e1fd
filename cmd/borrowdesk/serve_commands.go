package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-borrow-desk/library/app"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/reconcileavailability"
	"github.com/AntonStoeckl/library-borrow-desk/library/server"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/config"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
)

var errServeNeedsSecret = fmt.Errorf("%w: serve needs auth.jwtSecret or BORROWDESK_JWT_SECRET", config.ErrInvalidConfig)

const (
	logMsgReconcilePass   = "reconcile pass"
	logMsgReconcileFailed = "reconcile pass failed"
	logMsgMockAPIServing  = "mock api listening"
)

func (c *cli) serveCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, reconciling availability in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if address != "" {
				c.cfg.Server.Address = address
			}

			rt, err := app.Open(ctx, *c.cfg, c.logger)
			if err != nil {
				return err
			}
			c.rt = rt

			if rt.JWT == nil {
				return errServeNeedsSecret
			}

			srv, err := server.New(rt.Handlers, rt.JWT, server.WithLogger(c.logger))
			if err != nil {
				return err
			}

			go reconcileEvery(ctx, c.cfg.Server.ReconcileInterval.Std(), rt.Handlers.Reconcile, c.logger)

			return srv.Run(ctx, c.cfg.Server.Address)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address (default from config)")

	return cmd
}

// reconcileEvery runs a pass per tick until ctx is done. A zero interval disables it.
func reconcileEvery(
	ctx context.Context,
	interval time.Duration,
	handler shell.CoreCommandHandler[reconcileavailability.Command],
	logger *slog.Logger,
) {

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case now := <-ticker.C:
			result, err := handler.Handle(ctx, reconcileavailability.BuildCommand(now))
			report := shell.OutputAs[reconcileavailability.Report](result)

			if err != nil {
				logger.Error(logMsgReconcileFailed, "error", err)
				continue
			}

			logger.Info(logMsgReconcilePass,
				"repairs", report.Repairs(),
				"drifted_books", len(report.DriftedBooks),
				"failures", len(report.Failures),
			)
		}
	}
}

func (c *cli) mockAPICommand() *cobra.Command {
	var (
		address string
		empty   bool
	)

	cmd := &cobra.Command{
		Use:   "mockapi",
		Short: "Run a local stand-in for the mock API resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []mockapitest.Option
			if !empty {
				opts = append(opts, mockapitest.WithDemoData())
			}

			mock := mockapitest.New(opts...)

			base := "http://localhost" + address
			c.logger.Info(logMsgMockAPIServing,
				"address", address,
				"BORROWDESK_BOOKS_URL", base+"/"+mockapitest.ResourceBooks,
				"BORROWDESK_ACCOUNTS_URL", base+"/"+mockapitest.ResourceAccounts,
				"BORROWDESK_REQUESTS_URL", base+"/"+mockapitest.ResourceRequests,
			)

			errCh := make(chan error, 1)
			go func() {
				errCh <- mock.Start(address)
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := mock.Echo().Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&address, "address", ":9090", "listen address")
	cmd.Flags().BoolVar(&empty, "empty", false, "start without the demo catalog and admin account")

	return cmd
}
