package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/boardsync/internal/cli"
	"github.com/alexanderramin/boardsync/internal/cli/formatter"
	"github.com/alexanderramin/boardsync/internal/config"
	"github.com/alexanderramin/boardsync/internal/db"
	"github.com/alexanderramin/boardsync/internal/peer"
	"github.com/alexanderramin/boardsync/internal/repository"
	"github.com/alexanderramin/boardsync/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := config.NewLogger(cfg, os.Stderr)
	formatter.ConfigureColor(os.Stdout)

	// Pick storage: Redis when configured, otherwise the local SQLite file.
	var repo repository.BoardRepo
	var revisions cli.RevisionReader
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing BOARDSYNC_REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		repo = repository.NewRedisBoardRepo(client, cfg.StorageKey)
	} else {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		sqliteRepo := repository.NewSQLiteBoardRepo(database, cfg.StorageKey)
		repo, revisions = sqliteRepo, sqliteRepo
	}

	var observer store.UseCaseObserver = store.NoopUseCaseObserver{}
	if cfg.LogOps {
		observer = store.NewLogUseCaseObserver(logger)
	}

	s := store.New(repo, store.WithLogger(logger), store.WithObserver(observer))
	if err := s.Open(ctx); err != nil {
		return err
	}

	app := &cli.App{
		Store:       s,
		Logger:      logger,
		ICE:         peer.ICEConfigFromURLs(cfg.ICEServers),
		DefaultRole: cfg.PeerRole,
		Revisions:   revisions,
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
