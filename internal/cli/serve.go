package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raonyguimaraes/skater/pkg/server"
	"github.com/raonyguimaraes/skater/pkg/store"
)

// cleanupInterval is how often the server purges expired explanations.
const cleanupInterval = time.Hour

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		storeKind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the explanation HTTP API",
		Long: `Run the explanation HTTP API.

The server exposes POST /v1/explain to run the estimator against a deployed
model, GET /v1/explanations/{id} to fetch stored results, and a chart endpoint
for rendering them. Results persist through the configured store backend:

  memory   in-process only, lost on restart
  file     JSON files under the user config dir (default)
  redis    shared instances, set addr in the config file or SKATER_REDIS_ADDR
  mongo    document storage, set uri in the config file or SKATER_MONGO_URI`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if storeKind == "" {
				storeKind = c.Config.Server.Store
			}
			return c.runServe(cmd.Context(), addr, storeKind)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().StringVar(&storeKind, "store", "", "store backend: memory, file (default), redis, mongo")

	return cmd
}

// runServe builds the store backend and runs the server until ctx is canceled.
func (c *CLI) runServe(ctx context.Context, addr, storeKind string) error {
	st, err := c.openStore(ctx, storeKind)
	if err != nil {
		return fmt.Errorf("open %s store: %w", storeKind, err)
	}
	defer st.Close()

	srv := server.New(server.Config{Addr: addr}, st, c.Logger)
	srv.StartCleanup(ctx, cleanupInterval)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// openStore constructs the requested store backend from config.
func (c *CLI) openStore(ctx context.Context, kind string) (store.Store, error) {
	switch kind {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file", "":
		return store.NewFileStore("")
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.RedisPassword(),
			DB:       c.Config.Redis.DB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.Config.Mongo.URI,
			Database:   c.Config.Mongo.Database,
			Collection: c.Config.Mongo.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %s", kind)
	}
}
