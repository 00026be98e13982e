package main

// GET  /                                 - products, with ?q= search or ?filter=1&min=&max=
// POST /cart/add                         - add one unit of a product to the selected user's cart
// GET  /cart                             - cart items and total
// POST /cart/items/{id}/quantity|remove  - change or drop a cart line
// POST /cart/clear, /cart/checkout       - empty the cart, place the order
// GET  /users, POST /users[/{id}]        - list, create and edit users
// POST /users/{id}/select|delete         - pick the current user, delete a user
// GET  /orders, POST /orders/{id}/status - the selected user's orders
// GET  /healthz                          - liveness

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"storefront/api"
	"storefront/config"
	"storefront/discovery"
	"storefront/handler"
	"storefront/service"
	"storefront/store"
)

// --- EMBED MIGRATIONS ---
//
//go:embed migrations.sql
var migrationSQL string

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Web storefront for the catalog service",
	Long: `storefront serves the products, cart, users and orders pages
on top of the catalog REST API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the session tables in Postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Session.DSN == "" {
			return errors.New("migrate needs session.dsn (or STOREFRONT_SESSION_DSN)")
		}
		st, err := store.NewPostgresStore(cfg.Session.DSN)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(cmd.Context(), migrationSQL); err != nil {
			return fmt.Errorf("failed running migrations: %w", err)
		}
		logger.Info("database migrations executed successfully")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Write the effective configuration as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Save(args[0]); err != nil {
			return err
		}
		logger.Info("configuration written", zap.String("path", args[0]))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(lc config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Backend ---
	baseURL, err := backendURL(ctx)
	if err != nil {
		return err
	}
	client := api.NewClient(baseURL,
		api.WithTimeout(cfg.Backend.TimeoutDuration()),
		api.WithLogger(logger),
	)
	logger.Info("using catalog backend", zap.String("url", client.BaseURL()))

	// --- Store ---
	st, pg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	// --- Service ---
	money := handler.MoneyFormatter{
		Symbol:            cfg.Display.CurrencySymbol,
		DecimalSeparator:  cfg.Display.DecimalSeparator,
		ThousandSeparator: cfg.Display.ThousandSeparator,
	}
	svc := service.NewService(client, st,
		service.WithLogger(logger),
		service.WithMoneyFormat(money.Format),
	)
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	h := handler.NewHandler(serviceInterface,
		handler.WithLogger(logger),
		handler.WithSessionCookie(cfg.Session.CookieName, cfg.Session.MaxAgeDuration(), cfg.Session.Secure),
		handler.WithMoneyFormatter(money),
		handler.WithDateLayout(cfg.Display.DateLayout),
	)

	// --- Router ---
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeoutDuration(),
		ReadTimeout:       cfg.Server.ReadTimeoutDuration(),
		WriteTimeout:      cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:       cfg.Server.IdleTimeoutDuration(),
		ErrorLog:          zap.NewStdLog(logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if pg != nil {
		g.Go(func() error {
			purgeSelections(gctx, pg, cfg.Session.MaxAgeDuration())
			return nil
		})
	}
	return g.Wait()
}

// backendURL resolves the catalog through Consul when enabled, falling back
// to the configured base URL.
func backendURL(ctx context.Context) (string, error) {
	if !cfg.Backend.Consul.Enabled {
		return cfg.Backend.BaseURL, nil
	}
	dc, err := discovery.NewClient(cfg.Backend.Consul, logger)
	if err != nil {
		return "", err
	}
	lookupCtx, cancel := context.WithTimeout(ctx, cfg.Backend.TimeoutDuration())
	defer cancel()
	u, err := dc.BackendURL(lookupCtx)
	if err != nil {
		logger.Warn("consul lookup failed, using base_url",
			zap.String("base_url", cfg.Backend.BaseURL), zap.Error(err))
		return cfg.Backend.BaseURL, nil
	}
	return u, nil
}

// openStore returns the selection store. The Postgres store is also returned
// on its own so expired selections can be purged.
func openStore(ctx context.Context) (store.Store, *store.PostgresStore, error) {
	if cfg.Session.Driver != "postgres" {
		logger.Info("selected users kept in memory")
		return store.NewMemoryStore(), nil, nil
	}
	pg, err := store.NewPostgresStore(cfg.Session.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("DB connection failed: %w", err)
	}
	if err := pg.Migrate(ctx, migrationSQL); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("failed running migrations: %w", err)
	}
	logger.Info("selected users kept in postgres")
	return pg, pg, nil
}

// purgeSelections drops selections older than maxAge, hourly, until ctx ends.
func purgeSelections(ctx context.Context, pg *store.PostgresStore, maxAge time.Duration) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := pg.PurgeBefore(ctx, time.Now().Add(-maxAge))
			if err != nil {
				logger.Warn("purge expired selections", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged expired selections", zap.Int64("count", n))
			}
		}
	}
}
