package cli

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pomtree/pomtree/pkg/cache"
	"github.com/pomtree/pomtree/pkg/server"
	"github.com/pomtree/pomtree/pkg/store"
)

// newServeCmd creates the serve command: expose the resolver as an HTTP
// API.
func newServeCmd() *cobra.Command {
	opts := resolveOpts{}
	var (
		addr      string
		redisAddr string
		mongoURI  string
		cacheTTL  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver as an HTTP API",
		Long: `Start an HTTP server exposing the resolver.

By default resolved models are kept in memory and responses are cached on
disk. With --redis the response cache moves to Redis, and with --mongo
resolved models are persisted to MongoDB, so multiple instances can share
results.

Examples:
  pomtree serve --addr :8080
  pomtree serve --redis localhost:6379 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			sctx, err := opts.loadSettings()
			if err != nil {
				return err
			}
			d, err := opts.newDownloader(ctx)
			if err != nil {
				return err
			}

			var st store.Store
			if mongoURI != "" {
				mongo, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
				if err != nil {
					return err
				}
				defer mongo.Close(context.Background())
				st = mongo
				logger.Info("model store", "backend", "mongodb")
			} else {
				st = store.NewMemoryStore()
				logger.Info("model store", "backend", "memory")
			}

			var respCache cache.Cache
			if redisAddr != "" {
				respCache, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
				if err != nil {
					return err
				}
				logger.Info("response cache", "backend", "redis")
			} else {
				dir, err := cacheBaseDir()
				if err != nil {
					return err
				}
				respCache, err = cache.NewFileCache(filepath.Join(dir, "responses"))
				if err != nil {
					return err
				}
				logger.Info("response cache", "backend", "file")
			}
			defer respCache.Close()

			srv := server.New(d, sctx, st, logger).WithCache(respCache, cacheTTL)
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			logger.Info("listening", "addr", addr)
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the response cache (host:port)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the model store")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", time.Hour, "response cache TTL")
	return cmd
}
