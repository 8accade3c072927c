package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"docsync/internal/api"
	"docsync/internal/objectstore"
	"docsync/internal/scheduler"
)

func newServeCommand(configPath *string) *cobra.Command {
	var noWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background task processor",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := api.Options{WebhookSecret: a.cfg.Feishu.WebhookSecret}
			if local, ok := a.store.(*objectstore.Local); ok {
				opts.Files = local.Fs()
				opts.FilesPath = "/files"
			}
			server := api.NewServer(a.tasks, a.images, a.db, opts, a.logger)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Run(ctx, a.cfg.Server)
			})
			if !noWorker {
				sched := scheduler.NewScheduler(a.sync, a.cfg.Sync.Interval, a.logger)
				g.Go(func() error {
					if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
						return err
					}
					return nil
				})
			}

			a.logger.Info("docsync started",
				"addr", a.cfg.Server.Addr,
				"interval", a.cfg.Sync.Interval,
				"worker", !noWorker,
			)
			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&noWorker, "no-worker", false, "Serve the API without processing tasks")
	return cmd
}
