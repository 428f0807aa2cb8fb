package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/kdsmedia/altoshopbot/internal/ai"
	"github.com/kdsmedia/altoshopbot/internal/bot"
	"github.com/kdsmedia/altoshopbot/internal/catalog"
	"github.com/kdsmedia/altoshopbot/internal/chat"
	"github.com/kdsmedia/altoshopbot/internal/core"
	"github.com/kdsmedia/altoshopbot/internal/gateway"
	"github.com/kdsmedia/altoshopbot/internal/repo"
	"github.com/kdsmedia/altoshopbot/internal/session"
	logx "github.com/kdsmedia/altoshopbot/pkg/logger"
	pkgredis "github.com/kdsmedia/altoshopbot/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig defines all configurable parameters for the shop bot, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// The one chat id that gets the admin role at profile creation.
	AdminChatID string `envconfig:"ADMIN_CHAT_ID" required:"true"`

	// Infrastructure
	MongoURI      string `envconfig:"MONGO_URI" required:"true"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"altoshop"`
	Redis         pkgredis.Config

	// Conversation state expiry; "0" disables.
	SessionTTL string `envconfig:"SESSION_TTL" default:"30m"`
	// AI chat history expiry in Redis.
	AIChatTTL string `envconfig:"AI_CHAT_TTL" default:"15m"`

	AI      ai.Config
	Bot     bot.Config
	Gateway gateway.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	sessionTTL, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		logx.Fatal().Err(err).Str("value", cfg.SessionTTL).Msg("invalid SESSION_TTL")
	}
	aiChatTTL, err := time.ParseDuration(cfg.AIChatTTL)
	if err != nil {
		logx.Fatal().Err(err).Str("value", cfg.AIChatTTL).Msg("invalid AI_CHAT_TTL")
	}

	client, db, err := repo.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	store := repo.NewMongoStore(client, db, cfg.AdminChatID)

	cache := catalog.NewCache(store)
	if err := cache.Reload(ctx); err != nil {
		logx.Warn().Err(err).Msg("initial catalog load failed, starting with an empty catalog")
	}

	sessions := session.NewStore(sessionTTL)
	defer sessions.Close()

	var transport chat.Transport = gateway.LogTransport{}
	if cfg.Gateway.SinkURL != "" {
		transport = gateway.NewSinkTransport(cfg.Gateway.SinkURL)
	}

	var responder ai.Responder
	if cfg.AI.Enabled() {
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise Redis client")
		}
		defer rdb.Close()

		responder, err = ai.NewGeminiResponder(ctx, cfg.AI, repo.NewRedisChatHistory(rdb, aiChatTTL))
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to build AI responder")
		}
	} else {
		logx.Warn().Msg("GEMINI_API_KEY not set, AI chat is disabled")
	}

	engine := bot.NewEngine(store, cache, sessions, transport, responder, cfg.Bot)

	server := gateway.NewServer(cfg.Gateway, engine)
	if err := server.ListenAndServe(ctx); err != nil {
		logx.Fatal().Err(err).Msg("gateway server failed")
	}
}
