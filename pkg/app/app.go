// Package app wires configuration, storage and services into a runnable
// application. It is shared by the server, the serverless entrypoint and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/cache"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/session"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type App struct {
	Config   *config.Config
	Repo     *sqlite.SQLiteRepository
	Profiles *services.ProfileService
	Links    *services.LinkService
	Public   *services.PublicService
	Tracker  *services.ClickTracker
	Revoker  ports.SessionRevoker

	cache *cache.ProfileCache
	redis *redis.Client
}

// New opens the store and builds the services. Redis is only dialled when
// REDIS_URL is set.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	profileCache, err := cache.New(cfg.ProfileCacheMaxItems, cfg.ProfileCacheTTL)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("create profile cache: %w", err)
	}

	a := &App{
		Config:   cfg,
		Repo:     repo,
		Profiles: services.NewProfileService(repo, profileCache),
		Links:    services.NewLinkService(repo),
		Public:   services.NewPublicService(repo, repo, profileCache),
		Tracker:  services.NewClickTracker(repo),
		Revoker:  session.Nop{},
		cache:    profileCache,
	}

	if cfg.RedisURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		client, err := session.Connect(dialCtx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		a.Revoker = session.NewRedisRevoker(client)
	} else {
		log.Warn().Msg("REDIS_URL not set, signed-out tokens stay valid until they expire")
	}

	return a, nil
}

// Handler returns the HTTP router for the application.
func (a *App) Handler() http.Handler {
	return handler.NewRouter(a.Config, handler.Dependencies{
		Profiles: a.Profiles,
		Links:    a.Links,
		Public:   a.Public,
		Tracker:  a.Tracker,
		Revoker:  a.Revoker,
	})
}

// Close waits for pending click writes and releases every connection.
func (a *App) Close() {
	a.Tracker.Wait()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis client")
		}
	}
	a.cache.Close()
	if err := a.Repo.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close database")
	}
}
