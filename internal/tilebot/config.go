package tilebot

import (
	"time"

	"github.com/Shiro291/studio-sub000/internal/database"
	"github.com/Shiro291/studio-sub000/internal/quizgen"
)

type Config struct {
	// Logging all requests and responses from telegram
	Debug bool `envconfig:"TILEQUEST_DEBUG" default:"false"`

	// Number of items in each store cache
	CacheSize int `envconfig:"TILEQUEST_CACHE_SIZE" default:"1024"`

	// Port on which health check and REST API are launched
	Port string `envconfig:"TILEQUEST_PORT" default:"1234"`

	// profile port
	ProfPort string `envconfig:"TILEQUEST_PROF_PORT" default:"8888"`

	// Telegram bot token, the bot is not started without it
	BotToken         string        `envconfig:"TILEQUEST_BOT_TOKEN"`
	TgBotPollTimeout time.Duration `envconfig:"TILEQUEST_TG_BOT_POLL_TIMEOUT" default:"60s"`

	// Prefix of the play state keys, one namespace per chat under it
	StoragePrefix string `envconfig:"TILEQUEST_STORAGE_PREFIX" default:"tilequest"`

	// Pause between pawn steps
	StepDelay time.Duration `envconfig:"TILEQUEST_STEP_DELAY" default:"300ms"`

	// Idle chats are dropped from memory after this long; their state stays
	// in the db and is restored on the next message
	SessionTimeout time.Duration `envconfig:"TILEQUEST_SESSION_TIMEOUT" default:"30m"`

	// Saved games untouched for this long are removed at startup, zero keeps them
	StateTTL time.Duration `envconfig:"TILEQUEST_STATE_TTL" default:"720h"`

	Db   database.Config
	Quiz quizgen.Config
}
