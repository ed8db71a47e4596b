package setup

import (
	"github.com/gocart-dev/gocart/internal/config"
	"github.com/gocart-dev/gocart/internal/handler"
	"github.com/gocart-dev/gocart/internal/middleware"
	"github.com/gocart-dev/gocart/internal/service"
	"github.com/gocart-dev/gocart/internal/storage/pg"
	"github.com/gocart-dev/gocart/internal/token"
	"github.com/gocart-dev/gocart/internal/utils/email"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	codec := token.NewCodec(cfg.JwtKey(), token.TTLs{
		Access:  cfg.Public.AccessTokenTTL.Duration,
		Refresh: cfg.Public.RefreshTokenTTL.Duration,
		Reset:   cfg.Public.ResetTokenTTL.Duration,
	})
	blacklist := service.NewBlacklist(storage, cfg.Public.BlacklistRetention.Duration)
	mailer := email.New(&cfg.Private.Email, cfg.Public.ResetLinkBase)

	auth := service.NewAuth(storage, codec, blacklist, mailer, cfg.Public.BcryptCost)
	categories := service.NewCategory(storage, cfg.Public.DefaultPageSize)
	products := service.NewProduct(storage, cfg.Public.DefaultPageSize)

	h := handler.New(auth, categories, products, storage, cfg)
	authMw := middleware.NewAuth(codec, blacklist, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}
