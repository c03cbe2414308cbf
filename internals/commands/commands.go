package commands

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"schooladmin_backend/internals/bootstrap"
	"schooladmin_backend/internals/configs"
	authService "schooladmin_backend/internals/features/auth/service"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schooladmin",
		Short:         "Admin console backend for the school website.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addServe(topLevel)
	addAdmin(topLevel)
	addMigrate(topLevel)
	addSeed(topLevel)
}

// Execute runs the command line and returns the first error.
func Execute() error {
	return New().ExecuteContext(context.Background())
}

// env loads configuration and the stores every command needs. Only serve
// opens the object store.
type env struct {
	cfg      *configs.Config
	backends *bootstrap.Backends
	auth     *authService.AuthService
}

func openEnv(ctx context.Context, withObjects bool) (*env, error) {
	configs.LoadEnv()
	cfg := configs.Load()

	open := bootstrap.OpenDocs
	if withObjects {
		open = bootstrap.Open
	}
	b, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] doc store=%s object store=%s", cfg.DocStore, cfg.ObjectStore)
	return &env{
		cfg:      cfg,
		backends: b,
		auth:     authService.NewAuthService(b.Docs, b.Blacklist, cfg.JWTSecret, cfg.SessionTTL),
	}, nil
}

func (e *env) Close() { e.backends.Close() }
