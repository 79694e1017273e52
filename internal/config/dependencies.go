package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"

	"tasklist-api/configs"
	"tasklist-api/internal/api/v1/handlers"
	"tasklist-api/internal/auth"
	"tasklist-api/internal/cache"
	"tasklist-api/internal/repository"
	"tasklist-api/internal/service"
	"tasklist-api/internal/websocket"
	"tasklist-api/pkg/database"
	"tasklist-api/pkg/logger"
)

// Dependencies holds everything the HTTP layer needs. It is built once at
// startup and passed down; nothing here is package-level state.
type Dependencies struct {
	Config   configs.Config
	DB       *database.DB
	Redis    *redis.Client
	Log      *logger.Loggers
	Tokens   *auth.TokenManager
	Validate *validator.Validate
	Hub      *websocket.Hub
	Users    *service.UserService
	Tasks    *service.TaskService
}

// NewDependencies wires repositories, services and the websocket hub. rdb may
// be nil, in which case task lists are not cached. The caller runs Hub.
func NewDependencies(cfg configs.Config, db *database.DB, rdb *redis.Client, log *logger.Loggers) (*Dependencies, error) {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	users, err := service.NewUserService(repository.NewUserRepository(db), hasher, tokens, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build user service: %w", err)
	}

	var taskCache service.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskListCache(rdb, cfg.CacheTTL)
	}

	hub := websocket.NewHub()
	tasks := service.NewTaskService(
		repository.NewTaskRepository(db),
		taskCache,
		handlers.NewTaskEventPublisher(hub, log),
		log,
	)

	return &Dependencies{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Log:      log,
		Tokens:   tokens,
		Validate: handlers.NewValidator(),
		Hub:      hub,
		Users:    users,
		Tasks:    tasks,
	}, nil
}
