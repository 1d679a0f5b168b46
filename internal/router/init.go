package router

import (
	"context"
	"errors"

	"github.com/oksasatya/blog-api/internal/application"
	"github.com/oksasatya/blog-api/internal/container"
	pginfra "github.com/oksasatya/blog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/blog-api/internal/infrastructure/search"
	"github.com/oksasatya/blog-api/internal/infrastructure/storage"
	handlers "github.com/oksasatya/blog-api/internal/interface/http"
	"github.com/oksasatya/blog-api/internal/router/modules"
)

// Services groups the application layer built from the container.
type Services struct {
	Users      *application.UserService
	Posts      *application.PostService
	Comments   *application.CommentService
	Watchlists *application.WatchlistService
	Likes      *application.LikeService
}

// BuildServices wires repositories and optional integrations into services.
// Integrations missing from the container are left as nil interfaces.
func BuildServices() Services {
	db := container.GetDB()
	logger := container.GetLogger()
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(db)
	posts := pginfra.NewPostRepository(db)

	var index application.PostSearchIndex
	if es := container.GetES(); es != nil && cfg != nil {
		index = search.NewPostIndex(es, cfg.ESPostsIndex, logger)
	}
	var images application.ImageUploader
	if gcs := container.GetGCS(); gcs != nil && cfg != nil && cfg.GCSBucket != "" {
		images = storage.NewImageStore(gcs, cfg.GCSBucket)
	}
	var events application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}

	likes := pginfra.NewLikeRepository(db)
	return Services{
		Users: &application.UserService{
			Users:  users,
			Posts:  posts,
			Likes:  likes,
			Hasher: container.GetHasher(),
			Tokens: container.GetJWT(),
			Events: events,
			Index:  index,
			Logger: logger,
		},
		Posts:      &application.PostService{Posts: posts, Index: index, Images: images, Logger: logger},
		Comments:   &application.CommentService{Comments: pginfra.NewCommentRepository(db)},
		Watchlists: &application.WatchlistService{Watchlists: pginfra.NewWatchlistRepository(db)},
		Likes:      &application.LikeService{Likes: likes},
	}
}

// InitModules builds every feature module and adds it to the registry.
func InitModules(r *Registry) {
	svc := BuildServices()
	logger := container.GetLogger()

	r.Add(
		modules.NewAuthModule(handlers.NewAuthHandler(svc.Users, logger)),
		modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger)),
		modules.NewPostModule(handlers.NewPostHandler(svc.Posts, logger)),
		modules.NewCommentModule(handlers.NewCommentHandler(svc.Comments, logger)),
		modules.NewRelationModule(handlers.NewRelationHandler(svc.Watchlists, svc.Likes, logger)),
	)
	if cfg := container.GetConfig(); cfg != nil && cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(healthChecks()))
	}
}

func healthChecks() map[string]modules.HealthCheck {
	checks := map[string]modules.HealthCheck{}
	if db := container.GetDB(); db != nil {
		checks["postgres"] = func(ctx context.Context) error {
			_, err := db.Exec(ctx, "SELECT 1")
			return err
		}
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	if es := container.GetES(); es != nil {
		checks["elasticsearch"] = func(ctx context.Context) error {
			res, err := es.Ping(es.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = res.Body.Close() }()
			if res.IsError() {
				return errors.New(res.Status())
			}
			return nil
		}
	}
	return checks
}
