package setup

import (
	"github.com/pinstack-dev/pinstack/internal/config"
	"github.com/pinstack-dev/pinstack/internal/handler"
	"github.com/pinstack-dev/pinstack/internal/jwt"
	"github.com/pinstack-dev/pinstack/internal/markdown"
	"github.com/pinstack-dev/pinstack/internal/middleware"
	"github.com/pinstack-dev/pinstack/internal/service"
	"github.com/pinstack-dev/pinstack/internal/storage/fs"
	"github.com/pinstack-dev/pinstack/internal/storage/pg"
)

// Dependencies holds all explicitly wired components. There is no global
// registry; everything flows through constructors.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Sweeper        *service.Sweeper
	Config         *config.Config
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(&cfg.Public)
	if err != nil {
		return nil, err
	}

	media, err := fs.New(cfg.Public.MediaRoot, cfg.Public.MediaBaseURL)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	guard := service.Guard{}

	auth := service.NewAuth(storage, jwtService)
	user := service.NewUser(storage, media, guard)
	board := service.NewBoard(storage, guard)
	pin := service.NewPin(storage, media, guard)
	comment := service.NewComment(storage, guard)
	feed := service.NewFeed(storage, markdown.New(), cfg.Public.PageSize, cfg.Public.MaxPageSize)
	sweeper := service.NewSweeper(storage)

	h := handler.New(auth, user, board, pin, comment, feed, cfg)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(jwtService),
		Sweeper:        sweeper,
		Config:         cfg,
	}, nil
}
