package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sqli-workshop/connaissance-client/internal/api"
	"github.com/sqli-workshop/connaissance-client/internal/api/handler"
	"github.com/sqli-workshop/connaissance-client/internal/core/ports"
	"github.com/sqli-workshop/connaissance-client/internal/core/service"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/config"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/db"
	badgerdb "github.com/sqli-workshop/connaissance-client/internal/infrastructure/db/badger"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/db/file"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/db/memory"
	mongodb "github.com/sqli-workshop/connaissance-client/internal/infrastructure/db/mongo"
	redisdb "github.com/sqli-workshop/connaissance-client/internal/infrastructure/db/redis"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/events"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/postalcode"
	"github.com/sqli-workshop/connaissance-client/internal/infrastructure/queue"
	"github.com/sqli-workshop/connaissance-client/pkg/logger"
)

// closer releases a resource opened during startup.
type closer func(ctx context.Context) error

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	var closers []closer
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown: release failed")
			}
		}
	}()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)
	repo := db.Instrument(store)

	readiness := map[string]handler.Pinger{"store": repo}
	breakers := map[string]handler.BreakerState{}
	opts := []service.Option{service.WithCreatePolicy(ports.CreatePolicy(cfg.CreatePolicy))}

	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error { return rdb.Close() })
		readiness["redis"] = redisdb.NewPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	if cfg.PostalCode.Enabled {
		var checkerOpts []postalcode.Option
		if rdb != nil {
			checkerOpts = append(checkerOpts, postalcode.WithCache(redisdb.NewPostalCodeCache(rdb, cfg.PostalCode.CacheTTL)))
		}
		checker := postalcode.NewChecker(postalcode.Config{
			BaseURL: cfg.PostalCode.APIURL,
			Timeout: cfg.PostalCode.Timeout,
		}, log, checkerOpts...)
		breakers["postal_code_api"] = checker
		opts = append(opts, service.WithPostalCodeChecker(checker))
	}

	var sink ports.AddressEventPublisher = events.NewLogPublisher(log)
	if rdb != nil {
		sink = redisdb.NewStreamPublisher(rdb, cfg.Events.Stream)
	}
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, sink, log)
	dispatcher.Start(ctx)
	closers = append(closers, func(context.Context) error { dispatcher.Close(); return nil })
	opts = append(opts, service.WithAddressEventPublisher(dispatcher))

	e := api.NewRouter(api.Deps{
		Service:   service.NewClientService(repo, log, opts...),
		Readiness: readiness,
		Breakers:  breakers,
		Logger:    log,
	})
	e.Server.ReadHeaderTimeout = 5 * time.Second
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.Store.Backend).
			Bool("redis", cfg.Redis.Enabled).
			Bool("postal_code_check", cfg.PostalCode.Enabled).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// openStore opens the record store selected by STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.ClientRepository, closer, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Store.Backend {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, records are lost on restart")
		return memory.NewClientRepository(), noop, nil

	case config.StoreBadger:
		bcfg := badgerdb.DefaultConfig(cfg.Store.BadgerPath)
		bcfg.Logger = &log
		bdb, err := badgerdb.Open(bcfg)
		if err != nil {
			return nil, nil, err
		}
		return badgerdb.NewClientRepository(bdb), func(context.Context) error { return bdb.Close() }, nil

	case config.StoreMongo:
		client, database, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongodb.NewClientRepository(database)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		return repo, client.Disconnect, nil

	default:
		log.Info().Str("path", cfg.Store.DataFile).Msg("using file store")
		return file.NewClientRepository(cfg.Store.DataFile), noop, nil
	}
}
