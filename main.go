package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/9seconds/ipattrib/admission"
	"github.com/9seconds/ipattrib/topolib"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const defaultEnvFile = ".env"

var version = "dev"

var (
	app = kingpin.New(
		"ipattrib",
		"Attribution of IP addresses from a set of local databases")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IPATTRIB_DEBUG").
		Bool()
	envFile = app.Flag("env-file", "A path to the .env file.").
		Default(defaultEnvFile).
		String()
	configPath = app.Arg("config-path", "Path to the config.").
			Required().
			ExistingFile()
)

func init() {
	app.Version(version)
	app.HelpFlag.Short('h')
}

func main() {
	if err := godotenv.Load(envFileFromArgs(os.Args[1:])); err != nil && !errors.Is(err, fs.ErrNotExist) {
		app.Fatalf("cannot load env file: %v", err)
	}

	kingpin.MustParse(app.Parse(os.Args[1:]))

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	conf, err := parseConfig(*configPath)
	app.FatalIfError(err, "cannot parse config %s", *configPath)

	log := newLogger()
	stats := newMetrics()

	ctx, cancel := makeRootContext()
	defer cancel()

	precedence, err := conf.GetPrecedence()
	app.FatalIfError(err, "incorrect precedence")

	datasets, infos := makeDatasets(afero.NewOsFs(), conf, log, stats)

	resolver, err := topolib.NewResolver(topolib.ResolverOpts{
		Datasets:       datasets,
		Info:           infos,
		Precedence:     precedence,
		Attribution:    conf.GetAttribution(infos),
		Logger:         log,
		WorkerPoolSize: conf.GetWorkerPoolSize(),
	})
	app.FatalIfError(err, "cannot create resolver")

	defer resolver.Shutdown()

	counter, err := makeAdmissionCounter(ctx, conf)
	app.FatalIfError(err, "cannot create rate limiter")

	srv := &http.Server{
		Addr:              conf.GetListen(),
		Handler:           makeRouter(conf, resolver, counter, log, stats),
		ReadHeaderTimeout: DefaultReadTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownWait)
		defer shutdownCancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	log.httpLog.Info().Str("listen", srv.Addr).Str("version", version).Str("env_file", *envFile).Msg("Start server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.httpLog.Error().Err(err).Msg("Server has failed")
	}
}

func makeRouter(conf *config,
	resolver *topolib.Resolver,
	counter *admission.Counter,
	log *logger,
	stats *metrics) http.Handler {
	router := chi.NewRouter()

	if conf.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}

	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(DefaultReadTimeout))
	router.Use(newLogMiddleware(log))

	router.Handle("/metrics", stats.Handler())

	router.Group(func(r chi.Router) {
		if conf.BasicAuth.Enabled() {
			r.Use(newBasicAuthMiddleware(conf.BasicAuth.User, conf.BasicAuth.Password))
		}

		if counter != nil {
			r.Use(newAdmissionMiddleware(counter, log, stats))
		}

		r.Mount("/", topolib.NewHTTPHandler(resolver, stats))
	})

	return router
}

// makeAdmissionCounter returns nil if rate limiting is disabled.
// In-memory store is swept until context is closed.
func makeAdmissionCounter(ctx context.Context, conf *config) (*admission.Counter, error) {
	if !conf.RateLimit.Enabled {
		return nil, nil
	}

	opts := admission.Opts{
		Window:      conf.RateLimit.GetWindow(),
		MaxRequests: conf.RateLimit.GetMaxRequests(),
	}

	if conf.RateLimit.RedisURL != "" {
		store, client, err := admission.NewRedisStoreFromURL(conf.RateLimit.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("cannot create redis store: %w", err)
		}

		go func() {
			<-ctx.Done()
			client.Close()
		}()

		return admission.NewCounter(store, opts), nil
	}

	store, err := admission.NewMemoryStore(conf.RateLimit.GetMaxClients())
	if err != nil {
		return nil, fmt.Errorf("cannot create memory store: %w", err)
	}

	go store.Run(ctx, opts.Window)

	return admission.NewCounter(store, opts), nil
}
