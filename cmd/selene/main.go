package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nocturna-net/selene/internal/metrics"
	"github.com/nocturna-net/selene/internal/server"
	serviceimpl "github.com/nocturna-net/selene/internal/service/impl"
	"github.com/nocturna-net/selene/internal/storage/sqlite"
	"github.com/nocturna-net/selene/internal/storage/sqlite/migrations"
	"github.com/nocturna-net/selene/internal/wallet"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host string `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port int    `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on"`

	RequestTimeout time.Duration `long:"http.request_timeout" env:"HTTP_REQUEST_TIMEOUT" default:"45s" description:"request processing timeout"`

	DB string `long:"db" env:"DB" default:"selene.db" description:"path to the sqlite database file, :memory: for ephemeral"`

	WalletInitialGrant int64 `long:"wallet.initial_grant" env:"WALLET_INITIAL_GRANT" default:"1000" description:"balance granted to every new account"`
	MetricsSeed        int64 `long:"metrics.seed" env:"METRICS_SEED" default:"1" description:"seed for simulated analytics"`

	LogLevel string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
}{}

var errTerminated = errors.New("terminated")

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Selene"
	parser.LongDescription = "Selene is a content store for a creator platform"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	logrus.Info("service started")
	logrus.Infof("%+v", opts)

	db := mustGetDB()
	defer db.Close()

	svc := serviceimpl.New(sqlite.New(db), wallet.NewMemory(opts.WalletInitialGrant))

	r := chi.NewMux()
	server.SetupRouter(svc, metrics.NewSimulated(opts.MetricsSeed), r, opts.RequestTimeout)

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())

	gr, _ := errgroup.WithContext(ctx)
	gr.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		s := <-sigs

		logrus.Infof("terminating by %s signal", s)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("failed to shutdown server gracefully")
		}

		cancel()

		return errTerminated
	})

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) {
		logrus.WithError(err).Fatal("service unexpectedly closed")
	}
}

func mustGetDB() *sql.DB {
	db, err := sqlite.Open(opts.DB)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open database")
	}

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping database")
	}

	switch v, d, err := migrations.Version(db); {
	case err == nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case errors.Is(err, migrate.ErrNilVersion):
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
	}

	if err := migrations.Up(db); err != nil {
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	logrus.Info("database is up-to-date")

	return db
}
