package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goroutine"
	"github.com/shandysiswandi/gatekeep/internal/pkg/idempotency"
	"github.com/shandysiswandi/gatekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/gatekeep/internal/pkg/pipeline"
	"github.com/shandysiswandi/gatekeep/internal/pkg/router"
	"github.com/shandysiswandi/gatekeep/internal/pkg/uid"
)

// Options are the command-line inputs of the application.
type Options struct {
	// ConfigDir holds config.<ext> and its profile files.
	ConfigDir string
	// Overrides are key=value pairs resolved above every other layer.
	Overrides map[string]string
}

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	loader *config.Loader
	store  *config.Store
	reload chan struct{}
	ins    instrument.Instrumentation

	// libraries
	goroutine  *goroutine.Manager
	clock      clock.Clocker
	uid        uid.NumberID
	uuid       uid.StringID
	classifier *classifier.Classifier
	pipeline   *pipeline.Pipeline

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		reload: make(chan struct{}, 1),
	}

	app.initConfig(opts)
	app.initInstrument()
	app.initLibraries()
	app.initClassifier()
	app.initDatabase()
	app.initCache()
	app.initHTTPServer()
	app.initModules()
	app.initRefresher()
	app.initClosers()

	return app
}
