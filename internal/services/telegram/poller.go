package telegram

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"seriestracker/internal/bot"
)

// UpdateHandler turns one incoming update into replies to send
type UpdateHandler interface {
	HandleMessage(chatID int64, text string) []bot.Reply
	HandleCallback(chatID int64, data string) []bot.Reply
}

// Poller long-polls the Bot API and feeds updates to the handler. Updates
// are processed one at a time in arrival order.
type Poller struct {
	client     *Client
	handler    UpdateHandler
	timeoutSec int
	logger     *logrus.Logger
}

// NewPoller creates a new update poller
func NewPoller(client *Client, handler UpdateHandler, timeoutSec int, logger *logrus.Logger) *Poller {
	return &Poller{
		client:     client,
		handler:    handler,
		timeoutSec: timeoutSec,
		logger:     logger,
	}
}

// Run polls for updates until the context is cancelled
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Starting update poller")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Update poller stopped")
			return nil
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.timeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("Update poller stopped")
				return nil
			}
			p.logger.WithError(err).Error("Failed to get updates")
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.dispatch(ctx, update)
		}
	}
}

// dispatch routes one update to the handler and sends the replies
func (p *Poller) dispatch(ctx context.Context, update Update) {
	var replies []bot.Reply

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if err := p.client.AnswerCallbackQuery(ctx, cb.ID); err != nil {
			p.logger.WithError(err).Warn("Failed to answer callback query")
		}
		if cb.Message == nil {
			return
		}
		replies = p.handler.HandleCallback(cb.Message.Chat.ID, cb.Data)

	case update.Message != nil && update.Message.Text != "":
		replies = p.handler.HandleMessage(update.Message.Chat.ID, update.Message.Text)

	default:
		return
	}

	for _, reply := range replies {
		if err := p.client.SendMessage(ctx, reply.ChatID, reply.Text, keyboardMarkup(reply.Keyboard)); err != nil {
			p.logger.WithError(err).WithField("chat_id", reply.ChatID).Error("Failed to send reply")
		}
	}
}

// keyboardMarkup converts reply keyboard rows into Bot API markup
func keyboardMarkup(rows [][]bot.Button) *InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}

	markup := &InlineKeyboardMarkup{}
	for _, row := range rows {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Data,
			})
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, buttons)
	}
	return markup
}
