package main

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/oksasatya/blog-api/config"
	"github.com/oksasatya/blog-api/internal/bot"
	"github.com/oksasatya/blog-api/pkg/helpers"
)

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-bot", cfg.Env)

	if cfg.TelegramBotToken == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("redis: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatalf("telegram: %v", err)
	}
	api.Debug = cfg.BotDebug

	store := bot.NewStateStore(rdb, cfg.BotStateTTL)
	dialogue := bot.NewDialogue(store, bot.NewAPIClient(cfg.BotAPIBaseURL, cfg.TokenHeader), logger)

	logger.Infof("bot @%s polling, api=%s", api.Self.UserName, cfg.BotAPIBaseURL)
	bot.NewPoller(api, dialogue, logger).Run(ctx)
	logger.Info("bot stopped")
}
