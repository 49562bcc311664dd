package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/duynhne/workshop-console/config"
	"github.com/duynhne/workshop-console/internal/client"
	database "github.com/duynhne/workshop-console/internal/core"
	"github.com/duynhne/workshop-console/internal/core/credentials"
	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/core/repository"
	logicv1 "github.com/duynhne/workshop-console/internal/logic/v1"
)

// consoleRuntime is the composition root shared by every command: one
// credential store, one session and one API client per process.
type consoleRuntime struct {
	cfg     *config.Config
	session *logicv1.SessionState
	api     *client.Client
	auth    *logicv1.AuthService
	closers []func()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func newConsoleRuntime(ctx context.Context, cfg *config.Config) (*consoleRuntime, error) {
	rt := &consoleRuntime{cfg: cfg}

	kv, err := rt.openStorage(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if cfg.Storage.Secret != "" {
		kv = credentials.NewSealedStore(kv, cfg.Storage.Secret, cfg.Origin())
	}

	rt.session = logicv1.NewSessionState(credentials.NewStore(kv))
	if err := rt.session.Initialize(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, rt.session.Teardown)

	rt.api, err = client.New(cfg.API.BaseURL, rt.session, client.WithTimeout(cfg.API.Timeout))
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.auth = logicv1.NewAuthService(rt.api, rt.session)
	return rt, nil
}

// openStorage connects the configured backend. Credentials are scoped to the
// API origin in every backend.
func (rt *consoleRuntime) openStorage(ctx context.Context) (domain.KeyValueStore, error) {
	cfg := rt.cfg
	origin := cfg.Origin()

	switch cfg.Storage.Backend {
	case config.StorageMemory:
		log.Warn().Msg("Memory storage selected, the session will not survive a restart")
		return repository.NewMemoryStorageRepository(origin), nil

	case config.StorageFile:
		log.Info().Str("path", cfg.Storage.Path).Msg("Using file storage")
		return repository.NewFileStorageRepository(cfg.Storage.Path, origin), nil

	case config.StorageRedis:
		rdb, err := database.OpenRedis(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("Redis close error")
			}
		})
		log.Info().Msg("Redis connection established")
		return repository.NewRedisStorageRepository(rdb, origin), nil

	case config.StoragePostgres:
		pool, err := database.Connect(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)
		repo := repository.NewPgxStorageRepository(pool, origin)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info().Msg("Database connection pool established")
		return repo, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// Close releases resources in reverse order of acquisition.
func (rt *consoleRuntime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}
