package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Shiro291/studio-sub000/internal/database"
	playstateDb "github.com/Shiro291/studio-sub000/internal/database/playstate/database"
	resultDb "github.com/Shiro291/studio-sub000/internal/database/result/database"
	"github.com/Shiro291/studio-sub000/internal/game"
	"github.com/Shiro291/studio-sub000/internal/logging"
	"github.com/Shiro291/studio-sub000/internal/resource"
	"github.com/Shiro291/studio-sub000/internal/shutdown"
	"github.com/kelseyhightower/envconfig"
)

var version string

type Config struct {
	Debug         bool          `envconfig:"TILEQUEST_DEBUG" default:"false"`
	StoragePrefix string        `envconfig:"TILEQUEST_STORAGE_PREFIX" default:"tilequest"`
	StepDelay     time.Duration `envconfig:"TILEQUEST_STEP_DELAY" default:"300ms"`
	Db            database.Config
}

func main() {
	_, _ = fmt.Fprintf(os.Stdout, resource.GreetingCLI, resource.ProjectName, version)

	boardFile := flag.String("board", "", "path to a board json file")
	token := flag.String("token", "", "share token of a board")
	flag.Parse()

	ctx, done := shutdown.New()
	defer done()

	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logging.DefaultLogger().Fatalf("processing the config: %v", err)
	}

	logger := logging.NewLogger(config.Debug)
	ctx = logging.WithLogger(ctx, logger)

	if err := realMain(ctx, config, *boardFile, *token); err != nil {
		logger.Fatalf("main.realMain: %v", err)
	}
}

func realMain(ctx context.Context, config Config, boardFile, token string) error {
	if boardFile == "" && token == "" {
		return fmt.Errorf("pass -board <file> or -token <token>")
	}

	db, err := database.NewFromEnv(ctx, &config.Db)
	if err != nil {
		return fmt.Errorf("new database from env: %w", err)
	}

	defer db.Close(ctx)

	c := newConsole(ctx, os.Stdout, game.Config{
		StepDelay:   config.StepDelay,
		Persistence: game.NewPersistence(playstateDb.New(db, nil), config.StoragePrefix),
	})
	defer c.session.Close()
	c.results = resultDb.New(db, nil)

	if boardFile != "" {
		f, err := os.Open(boardFile)
		if err != nil {
			return fmt.Errorf("open board: %w", err)
		}
		err = c.session.LoadFile(f)
		f.Close()
		if err != nil {
			return err
		}
	} else if err := c.session.LoadToken(token); err != nil {
		return err
	}

	return c.run(ctx, os.Stdin)
}
