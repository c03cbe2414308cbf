package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"schooladmin_backend/internals/features/auth/scheduler"
	"schooladmin_backend/internals/listing/screen"
	"schooladmin_backend/internals/middlewares"
	routes "schooladmin_backend/internals/route"
	routeDetails "schooladmin_backend/internals/route/details"
)

func addServe(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	topLevel.AddCommand(cmd)
}

func runServe(ctx context.Context) error {
	e, err := openEnv(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	middlewares.InitRollbar(e.cfg)

	screens := screen.NewRegistry(e.cfg.ScreenIdle)
	housekeeping, err := scheduler.StartHousekeeping(e.backends.Blacklist, screens)
	if err != nil {
		return err
	}
	defer housekeeping.Stop()

	app := routes.NewApp(&routeDetails.Deps{
		Config:    e.cfg,
		Docs:      e.backends.Docs,
		Objects:   e.backends.Objects,
		Disk:      e.backends.Disk,
		Blacklist: e.backends.Blacklist,
		Screens:   screens,
		Auth:      e.auth,
	})

	app.Server().ReadTimeout = 60 * time.Second
	app.Server().WriteTimeout = 120 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	errc := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on :%s", e.cfg.Port)
		errc <- app.Listen("0.0.0.0:" + e.cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	log.Println("[INFO] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
