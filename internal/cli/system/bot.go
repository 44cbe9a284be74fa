package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/assistant"
	"github.com/codemon-ai/make-meeting-room/internal/chat"
	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/instance"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
)

// BotCmd runs the Slack bot until interrupted.
type BotCmd struct {
	BotToken   string        `help:"Slack bot token (xoxb-...)." env:"SLACK_BOT_TOKEN"`
	AppToken   string        `help:"Slack app-level token for socket mode (xapp-...)." env:"SLACK_APP_TOKEN"`
	WebhookURL string        `help:"Base URL of the assistant and meeting-notes webhooks." env:"MR_WEBHOOK_URL" default:"http://localhost:5678/webhook"`
	KeepAlive  time.Duration `help:"Interval between groupware session checks." default:"30m"`
}

func (c *BotCmd) Run(ctx *cli.Context) error {
	if err := logger.Init(logger.Config{Debug: ctx.Debug, ConfigDir: ctx.ConfigDir, Service: true}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	api, err := chat.NewSlackClient(chat.SlackConfig{BotToken: c.BotToken, AppToken: c.AppToken})
	if err != nil {
		return err
	}

	lock, err := instance.Acquire(ctx.ConfigDir, constants.BotLockfileName)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release lockfile", "path", lock.Path(), "error", err)
		}
	}()

	appCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, settings, err := ctx.Service(appCtx)
	if err != nil {
		return err
	}
	defer ctx.Close()

	bot := chat.NewBot(chat.Config{
		Messenger: chat.NewSlackMessenger(api),
		Booker:    svc,
		Assistant: assistant.New(c.WebhookURL),
		Rooms:     svc.Rooms().Names(),
		Timezone:  settings.Timezone,
		SlotMin:   settings.SlotIntervalMin,
		Now:       ctx.Now,
	})

	interval := c.KeepAlive
	if interval <= 0 {
		interval = constants.SessionKeepAlive
	}
	go bot.KeepAlive(appCtx, interval)

	logger.Info("bot started", "rooms", len(svc.Rooms().Names()), "calendar", svc.CalendarEnabled(), "source", svc.Rooms().Source())
	err = chat.Serve(appCtx, api, bot)
	if errors.Is(err, context.Canceled) {
		logger.Info("bot stopped")
		return nil
	}
	return err
}
