package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/pkg/helpers"
)

// Messenger is the subset of the Telegram client the poller uses.
type Messenger interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Poller long-polls Telegram and feeds messages into the dialogue.
type Poller struct {
	Bot      Messenger
	Dialogue *Dialogue
	Logger   *logrus.Logger
	Timeout  int
}

func NewPoller(bot Messenger, d *Dialogue, logger *logrus.Logger) *Poller {
	return &Poller{Bot: bot, Dialogue: d, Logger: logger, Timeout: 30}
}

// Run blocks until ctx is cancelled or the update channel closes.
func (p *Poller) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.Timeout
	updates := p.Bot.GetUpdatesChan(u)
	defer p.Bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			p.Handle(ctx, upd)
		}
	}
}

// Handle answers one update. Messages carrying a password are removed from
// the chat after they are read.
func (p *Poller) Handle(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	var (
		reply Reply
		err   error
	)
	if msg.IsCommand() {
		reply, err = p.Dialogue.HandleCommand(ctx, chatID, msg.Command())
	} else {
		reply, err = p.Dialogue.HandleText(ctx, chatID, msg.Text)
	}
	if err != nil {
		helpers.LogError(p.Logger, "bot dialogue failed", err, logrus.Fields{"chat_id": chatID})
	}

	if reply.Secret {
		if _, err := p.Bot.Request(tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
			helpers.LogError(p.Logger, "delete password message", err, logrus.Fields{"chat_id": chatID})
		}
	}
	if reply.Text == "" {
		return
	}
	if _, err := p.Bot.Send(tgbotapi.NewMessage(chatID, reply.Text)); err != nil {
		helpers.LogError(p.Logger, "send reply", err, logrus.Fields{"chat_id": chatID})
	}
}
