package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boxtree-io/boxtree/internal/server"
	"github.com/boxtree-io/boxtree/pkg/cache"
	"github.com/boxtree-io/boxtree/pkg/layout"
	"github.com/boxtree-io/boxtree/pkg/pipeline"
	"github.com/boxtree-io/boxtree/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine as a JSON HTTP API.

Endpoints:
  POST /api/layout     run a full layout pass over a diagram
  POST /api/fit        compute a parent's minimum size
  POST /api/place      compute position and size for a new rectangle
  GET  /api/diagrams   diagram CRUD backed by the configured store

Diagrams are stored on disk by default; set --mongo-uri (or server.mongo_uri
in the config) for MongoDB. Set --redis-addr for a shared Redis cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			if redisAddr == "" {
				redisAddr = c.Config.Server.RedisAddr
			}
			if mongoURI == "" {
				mongoURI = c.Config.Server.MongoURI
			}
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr, \":8080\")")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for the shared cache")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongodb connection string for the diagram store")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI string, noCache bool) error {
	cch, err := c.serveCache(ctx, redisAddr, noCache)
	if err != nil {
		return err
	}

	st, err := c.serveStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	mgr, err := layout.NewManager(c.Config.Algorithm)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cch, nil, mgr, c.Logger)
	defer runner.Close()

	srv := server.New(runner, st, c.Logger)
	return srv.Run(ctx, addr)
}

func (c *CLI) serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		cch, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
		return cch, nil
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		c.Logger.Info("using mongodb diagram store")
		return st, nil
	}
	st, err := store.NewFileStore("")
	if err != nil {
		return nil, fmt.Errorf("open diagram store: %w", err)
	}
	return st, nil
}
