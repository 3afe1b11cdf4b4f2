// Package bot – Telegram transport adapter.
//
// This file binds the Transport contract to the Telegram Bot API and runs the
// long-poll loop, translating raw updates into Command, CallbackEvent and
// TextMessage values for the Handler. Delivery details stay here; handlers
// never see a tgbotapi type.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// pollTimeout is the long-poll timeout in seconds.
const pollTimeout = 30

// TelegramTransport implements Transport over the Telegram Bot API.
type TelegramTransport struct {
	api *tgbotapi.BotAPI
}

// NewTelegramTransport authorizes against the Bot API.
func NewTelegramTransport(token string) (*TelegramTransport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	return &TelegramTransport{api: api}, nil
}

// Username returns the authorized bot account name.
func (t *TelegramTransport) Username() string {
	return t.api.Self.UserName
}

func (t *TelegramTransport) SendMessage(_ context.Context, chatID int64, text string, opts *SendOptions) (SentMessage, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if opts != nil {
		if opts.ParseMode != "" {
			msg.ParseMode = opts.ParseMode
		}
		if opts.Keyboard != nil {
			msg.ReplyMarkup = toMarkup(opts.Keyboard)
		}
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return SentMessage{}, fmt.Errorf("send message: %w", err)
	}
	return SentMessage{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (t *TelegramTransport) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (t *TelegramTransport) EditReplyMarkup(_ context.Context, chatID int64, messageID int, kb Keyboard) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, toMarkup(kb))
	if _, err := t.api.Request(edit); err != nil {
		return fmt.Errorf("edit reply markup: %w", err)
	}
	return nil
}

// toMarkup converts a Keyboard into Telegram inline markup.
func toMarkup(kb Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// fromMarkup converts Telegram inline markup back into a Keyboard.
func fromMarkup(m *tgbotapi.InlineKeyboardMarkup) Keyboard {
	if m == nil {
		return nil
	}
	kb := make(Keyboard, 0, len(m.InlineKeyboard))
	for _, row := range m.InlineKeyboard {
		btns := make([]Button, 0, len(row))
		for _, b := range row {
			data := ""
			if b.CallbackData != nil {
				data = *b.CallbackData
			}
			btns = append(btns, Button{Label: b.Text, Data: data})
		}
		kb = append(kb, btns)
	}
	return kb
}

// Poller runs the long-poll loop and feeds the Handler.
type Poller struct {
	Transport *TelegramTransport
	Handler   *Handler
	Log       zerolog.Logger
}

// Run consumes updates until ctx is cancelled. One update is handled to
// completion before the next is read.
func (p *Poller) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := p.Transport.api.GetUpdatesChan(u)
	p.Log.Info().Str("bot", p.Transport.Username()).Msg("long-poll loop started")

	for {
		select {
		case <-ctx.Done():
			p.Transport.api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			p.dispatch(ctx, upd)
		}
	}
}

// dispatch translates one raw update and hands it to the Handler.
func (p *Poller) dispatch(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		cq := upd.CallbackQuery
		if cq.Message == nil {
			return
		}
		// Ack first so the client stops its spinner even if handling is slow.
		if _, err := p.Transport.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			p.Log.Debug().Err(err).Msg("callback ack failed")
		}
		p.Handler.HandleCallback(ctx, CallbackEvent{
			ChatID:    cq.Message.Chat.ID,
			UserID:    cq.From.ID,
			UserName:  cq.From.FirstName,
			MessageID: cq.Message.MessageID,
			Data:      cq.Data,
			Keyboard:  fromMarkup(cq.Message.ReplyMarkup),
		})

	case upd.Message != nil && upd.Message.IsCommand():
		m := upd.Message
		p.Handler.HandleCommand(ctx, Command{
			Name:     m.Command(),
			ChatID:   m.Chat.ID,
			UserID:   m.From.ID,
			UserName: m.From.FirstName,
			Text:     strings.TrimSpace(m.CommandArguments()),
		})

	case upd.Message != nil && upd.Message.Text != "":
		m := upd.Message
		p.Handler.HandleText(ctx, TextMessage{
			ChatID:   m.Chat.ID,
			UserID:   m.From.ID,
			UserName: m.From.FirstName,
			Text:     m.Text,
		})
	}
}
