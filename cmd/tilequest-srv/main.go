package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/Shiro291/studio-sub000/internal/cache"
	"github.com/Shiro291/studio-sub000/internal/database"
	chatboardDb "github.com/Shiro291/studio-sub000/internal/database/chatboard/database"
	playstateDb "github.com/Shiro291/studio-sub000/internal/database/playstate/database"
	resultDb "github.com/Shiro291/studio-sub000/internal/database/result/database"
	"github.com/Shiro291/studio-sub000/internal/logging"
	"github.com/Shiro291/studio-sub000/internal/quizgen"
	"github.com/Shiro291/studio-sub000/internal/resource"
	"github.com/Shiro291/studio-sub000/internal/server"
	"github.com/Shiro291/studio-sub000/internal/shutdown"
	"github.com/Shiro291/studio-sub000/internal/tilebot"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/sync/errgroup"
)

var version string

func main() {
	_, _ = fmt.Fprintf(os.Stdout, resource.GreetingCLI, resource.ProjectName, version)

	ctx, done := shutdown.New()
	defer done()

	config := tilebot.Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config tilebot.Config) error {
	logger := logging.FromContext(ctx).Named("main.realMain")

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	boardCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	stateCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	resultCache, err := cache.NewLRU(config.CacheSize)
	if err != nil {
		return fmt.Errorf("can not create lru cache: %w", err)
	}

	states := playstateDb.New(db, stateCache)
	if config.StateTTL > 0 {
		n, err := states.Sweep(time.Now().Add(-config.StateTTL))
		if err != nil {
			return fmt.Errorf("sweep play states: %w", err)
		}
		logger.Infof("removed %d play states older than %s", n, config.StateTTL)
	}

	srv, err := server.New(config.Port)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	var quiz quizgen.Client
	if config.Quiz.Endpoint != "" {
		quiz = quizgen.NewHTTPClient(config.Quiz)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ServeHTTPHandler(ctx, server.NewRouter(ctx, &server.API{Quiz: quiz})); err != nil {
			return fmt.Errorf("srv.ServeHTTPHandler: %w", err)
		}
		return nil
	})

	go func() {
		if err := http.ListenAndServe(":"+config.ProfPort, nil); err != nil {
			logger.Errorf("pprof default server: %v", err)
		}
	}()

	if config.BotToken == "" {
		logger.Warnf("bot token not set, serving the api only; visit %s to register a bot", resource.BotFatherURL)
	} else {
		tg, err := tgbotapi.NewBotAPI(config.BotToken)
		if err != nil {
			return fmt.Errorf("bot api: %w", err)
		}

		tg.Debug = config.Debug
		logger.Infof("authorization in telegram was successful: %s", tg.Self.UserName)

		manager := tilebot.NewManager(tg, &config, chatboardDb.New(db, boardCache), states, resultDb.New(db, resultCache))
		g.Go(func() error {
			if err := manager.Run(ctx); err != nil {
				return fmt.Errorf("run: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
