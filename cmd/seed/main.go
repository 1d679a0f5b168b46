package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/config"
	"github.com/oksasatya/blog-api/internal/domain/entity"
	repo "github.com/oksasatya/blog-api/internal/domain/repository"
	pginfra "github.com/oksasatya/blog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/blog-api/pkg/helpers"
)

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	u, created, err := seedAdmin(ctx, pginfra.NewUserRepository(pool), helpers.NewPasswordHasher(cfg.BcryptCost).Hash, entity.NewUserInput{
		Username: cfg.SeedAdminUsername,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Role:     entity.RoleAdmin.String(),
	})
	if err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email, "created": created}).Info("admin ready")
}

// seedAdmin creates the admin unless an account with that email exists. An
// existing account is kept as is.
func seedAdmin(ctx context.Context, users repo.UserRepository, hash func(string) (string, error), in entity.NewUserInput) (*entity.User, bool, error) {
	existing, err := users.GetByEmail(ctx, in.Email)
	if err == nil {
		if existing.Role != entity.RoleAdmin {
			return nil, false, fmt.Errorf("%s exists with role %s", in.Email, existing.Role)
		}
		return existing, false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, false, err
	}
	u, err := entity.NewUser(in, hash)
	if err != nil {
		return nil, false, err
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
