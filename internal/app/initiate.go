package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goroutine"
	"github.com/shandysiswandi/gatekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/gatekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/router"
	"github.com/shandysiswandi/gatekeep/internal/pkg/uid"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

const (
	keyTZ              = "app.tz"
	keyHTTPAddress     = "app.server.http.address"
	keyMaxGoroutine    = "app.server.max-goroutine"
	keyCORS            = "app.server.cors"
	keyRefreshInterval = "app.config.refresh-interval"
	keyWatchFiles      = "app.config.watch-files"
	keyDatabaseURL     = "database.url"
	keyRedisURL        = "redis.url"
	keyConnectAttempts = "app.startup.connect-attempts"
)

func (a *App) initConfig(opts Options) {
	dir := opts.ConfigDir
	if dir == "" {
		dir = os.Getenv("CONFIG_DIR")
	}
	if dir == "" {
		dir = "/config"
		if os.Getenv("LOCAL") == "true" {
			dir = "./config"
		}
	}

	a.loader = &config.Loader{
		Dir:       dir,
		EnvPrefix: "GATEKEEP_",
		DotEnv:    []string{".env"},
		Overrides: opts.Overrides,
	}

	store, err := config.NewStore(a.loader.Load,
		config.WithRequired(keyHTTPAddress),
		config.WithImmutable(instrument.KeyServiceName),
		config.WithType(keyMaxGoroutine, config.TypeInt),
		config.WithType(keyRefreshInterval, config.TypeInt),
		config.WithType(validator.KeyFailFast, config.TypeBool),
		config.WithType(classifier.KeyIncludeDetails, config.TypeBool),
	)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", store.Current().GetString(keyTZ))

	a.store = store
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, instrument.ConfigFrom(a.store.Current()))
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins

	a.store.OnChange(func(prev, next *config.Snapshot) {
		if prev.GetString(instrument.KeyLogLevel) != next.GetString(instrument.KeyLogLevel) {
			instrument.SetLogLevel(next.GetString(instrument.KeyLogLevel))
		}
	})
}

func (a *App) initLibraries() {
	cfg := a.store.Current()

	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(cfg.GetInt(keyMaxGoroutine))

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initClassifier() {
	registry, err := classifier.DefaultRegistry(router.RegistryOptions()...)
	if err != nil {
		slog.Error("failed to init classifier registry", "error", err)
		os.Exit(1)
	}

	c, err := classifier.New(registry,
		classifier.WithClock(a.clock),
		classifier.WithMeter(a.ins.Meter("classifier")),
	)
	if err != nil {
		slog.Error("failed to init classifier", "error", err)
		os.Exit(1)
	}
	a.classifier = c

	// Router-level failures carry no object, so an empty schema is enough.
	exec, err := validator.NewExecutor(validator.NewSchema(), validator.WithClock(a.clock))
	if err != nil {
		slog.Error("failed to init validator", "error", err)
		os.Exit(1)
	}
	a.pipeline = pipeline.New(exec, c, a.store)
}

// connect retries fn with a capped fibonacci backoff.
func (a *App) connect(name string, fn func(ctx context.Context) error) error {
	attempts := a.store.Current().GetUint64(keyConnectAttempts)
	if attempts == 0 {
		attempts = 5
	}

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithMaxRetries(attempts, b)
	b = retry.WithCappedDuration(5*time.Second, b)

	return retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := fn(pingCtx); err != nil {
			slog.WarnContext(ctx, "dependency not ready, retrying", "name", name, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (a *App) initDatabase() {
	cfg := a.store.Current()

	dsn := cfg.GetString(keyDatabaseURL)
	if dsn == "" {
		slog.Info("database.url is empty, members are kept in memory")
		return
	}

	pgCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	if v := cfg.GetInt32("database.pool.max-conns"); v > 0 {
		pgCfg.MaxConns = v
	}
	pgCfg.MinConns = cfg.GetInt32("database.pool.min-conns")
	pgCfg.MaxConnLifetime = cfg.GetSecond("database.pool.max-conn-lifetime")
	pgCfg.MaxConnIdleTime = cfg.GetSecond("database.pool.max-conn-idle")

	pool, err := pgxpool.NewWithConfig(a.ctx, pgCfg)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	if err := a.connect("database", pool.Ping); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	url := a.store.Current().GetString(keyRedisURL)
	if url == "" {
		slog.Info("redis.url is empty, idempotency keys are ignored")
		a.idemp = idempotency.Noop{}
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)
	if err := a.connect("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.New(rdb)
}

func (a *App) initHTTPServer() {
	cfg := a.store.Current()

	a.router = router.NewRouter(router.Config{
		Store:      a.store,
		Pipeline:   a.pipeline,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: cfg.GetArray(keyCORS),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              cfg.GetString(keyHTTPAddress),
		Handler:           routerWithCORS,
		ReadTimeout:       cfg.GetSecond("app.server.http.read-timeout"),
		ReadHeaderTimeout: cfg.GetSecond("app.server.http.read-header-timeout"),
		WriteTimeout:      cfg.GetSecond("app.server.http.write-timeout"),
		IdleTimeout:       cfg.GetSecond("app.server.http.idle-timeout"),
	}
}

// initRefresher re-resolves the configuration on SIGHUP, on file changes and
// every app.config.refresh-interval seconds. A failed refresh keeps the
// previous snapshot.
func (a *App) initRefresher() {
	cfg := a.store.Current()

	if cfg.GetBool(keyWatchFiles) {
		if err := a.loader.Watch(cfg.Profiles(), a.requestReload); err != nil {
			slog.Error("failed to watch config files", "error", err)
			os.Exit(1)
		}

		a.store.OnChange(func(prev, next *config.Snapshot) {
			if slices.Equal(prev.Profiles(), next.Profiles()) {
				return
			}
			if err := a.loader.Watch(next.Profiles(), a.requestReload); err != nil {
				slog.Error("failed to watch config files of new profiles", "profiles", next.Profiles(), "error", err)
			}
		})
	}

	err := a.goroutine.Loop(a.ctx, "config-refresh", cfg.GetSecond(keyRefreshInterval), a.reload, func(context.Context) error {
		return a.store.Refresh()
	})
	if err != nil {
		slog.Error("failed to start config refresh loop", "error", err)
		os.Exit(1)
	}
}

func (a *App) requestReload() {
	select {
	case a.reload <- struct{}{}:
	default:
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.dbConn != nil {
					a.dbConn.Close()
				}
				return nil
			},
		},
	}
}
