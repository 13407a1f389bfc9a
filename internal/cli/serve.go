package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/server"
	"github.com/matzehuels/treemap/pkg/store"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		storeDir string
		redis    string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the treemap HTTP API",
		Long: `Serve the treemap HTTP API.

Layouts are stored in MongoDB when --mongo (or store.mongo_uri) is set, in a
directory when --store-dir (or store.dir) is set, and in memory otherwise.
Layout and artifact caching uses Redis when --redis (or cache.redis_addr) is
set, and the local file cache otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg()
			fallback(cmd, "addr", &addr, cfg.Server.Addr)
			fallback(cmd, "mongo", &mongoURI, cfg.Store.MongoURI)
			fallback(cmd, "store-dir", &storeDir, cfg.Store.Dir)
			if cmd.Flags().Changed("redis") {
				cfg.Cache.RedisAddr = redis
			}
			return c.runServe(cmd.Context(), addr, mongoURI, storeDir, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB connection URI for the layout store")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "directory for the layout store")
	cmd.Flags().StringVar(&redis, "redis", "", "Redis address or URL for the cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI, storeDir string, noCache bool) error {
	st, err := c.openStore(ctx, mongoURI, storeDir)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		st.Close()
		return fmt.Errorf("initialize runner: %w", err)
	}

	cfg := c.cfg()
	srv := server.New(server.Config{
		Runner: runner,
		Store:  st,
		Defaults: pipeline.Options{
			NameKey:     cfg.Layout.NameKey,
			SizeKey:     cfg.Layout.SizeKey,
			ValueKey:    cfg.Layout.ValueKey,
			Width:       cfg.Layout.Width,
			Height:      cfg.Layout.Height,
			MinArea:     cfg.Layout.MinArea,
			FrameWidth:  cfg.Render.FrameWidth,
			FrameHeight: cfg.Render.FrameHeight,
			Caption:     cfg.Render.Caption,
		},
		Logger: c.Logger,
	})
	defer srv.Close()

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	return srv.ListenAndServe(ctx, addr)
}

// openStore selects the layout store backend.
func (c *CLI) openStore(ctx context.Context, mongoURI, storeDir string) (store.Store, error) {
	switch {
	case mongoURI != "":
		cfg := c.cfg()
		st, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        mongoURI,
			Database:   cfg.Store.MongoDatabase,
			Collection: cfg.Store.MongoCollection,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		c.Logger.Info("using mongo store", "database", cfg.Store.MongoDatabase)
		return st, nil
	case storeDir != "":
		st, err := store.NewFileStore(storeDir)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", storeDir, err)
		}
		c.Logger.Info("using file store", "dir", st.Path())
		return st, nil
	}
	printWarning("Layouts are kept in memory and lost on exit (use --store-dir or --mongo)")
	return store.NewMemoryStore(), nil
}

// displayAddr turns a listen address such as ":8080" into a host:port a
// browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
