package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/devlabhq/devlab/internal/auth"
	"github.com/devlabhq/devlab/internal/config"
	"github.com/devlabhq/devlab/internal/httpapi"
	"github.com/devlabhq/devlab/internal/issue"
	"github.com/devlabhq/devlab/internal/member"
	"github.com/devlabhq/devlab/internal/password"
	"github.com/devlabhq/devlab/internal/session"
	"github.com/devlabhq/devlab/internal/token"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		slog.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	members, err := member.NewPostgresRepository(db)
	if err != nil {
		slog.Error("failed to initialize member store", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	tokens, err := token.NewManager(token.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	if err != nil {
		slog.Error("failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	hasher, err := password.NewHasher(0)
	if err != nil {
		slog.Error("failed to initialize password hasher", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(members, tokens, session.NewStore(rdb), hasher, slog.Default())
	server := httpapi.NewServer(cfg, authService, issue.NewClient(""))

	slog.Info("starting server", "address", cfg.ServerAddress, "environment", cfg.Environment)
	if err := server.Run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
