package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli"
	"github.com/alexanderramin/taskflow/internal/config"
	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/alexanderramin/taskflow/internal/prioritize"
	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("TASKFLOW_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	// Open database
	database, err := db.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	taskRepo := repository.NewSQLiteTaskRepo(database)
	eventRepo := repository.NewSQLiteTaskEventRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	// Remote strategy only when the model is enabled; otherwise the engine
	// always ranks locally.
	llmCfg := cfg.LLM()
	var remote prioritize.Strategy
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewSlogObserver(logger)
		}
		client, err := llm.NewClient(llmCfg, observer)
		if err != nil {
			return fmt.Errorf("configuring llm: %w", err)
		}
		client = llm.NewBreakerClient(client, llmCfg.Breaker, logger)
		timeout := time.Duration(llmCfg.TaskTimeout(llm.TaskPrioritize)) * time.Millisecond
		remote = prioritize.NewRemoteStrategy(client, timeout)
	}

	engine := prioritize.NewEngine(remote, logger)
	observer := service.NewSlogUseCaseObserver(logger)

	app := &cli.App{
		Prioritize:    service.NewPrioritizeService(engine, taskRepo, uow, observer),
		Tasks:         service.NewTaskService(taskRepo, eventRepo, uow, observer),
		RemoteEnabled: llmCfg.Enabled,
		Location:      time.Local,
	}
	app.IsTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
