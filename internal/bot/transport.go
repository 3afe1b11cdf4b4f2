// Package bot implements the conversational layer: the chat-transport
// contract, the callback wire format, inline keyboards, and the dispatcher
// that drives the menu-navigation state machine.
//
// The transport is an external collaborator behind a narrow interface;
// delivery, retries and flood control belong to the adapter, not to the
// handlers.
package bot

import "context"

// Button is one inline keyboard button: a visible label and the callback
// payload sent back when tapped.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an inline keyboard: rows of buttons.
type Keyboard [][]Button

// SendOptions carries optional send parameters.
type SendOptions struct {
	Keyboard  Keyboard
	ParseMode string // "HTML", "Markdown" or empty
}

// SentMessage identifies a delivered outbound message.
type SentMessage struct {
	ChatID    int64
	MessageID int
}

// Transport is the chat collaborator contract. The production adapter wraps
// the Telegram Bot API; tests substitute an in-memory fake.
type Transport interface {
	// SendMessage delivers text to the chat, optionally with a keyboard.
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (SentMessage, error)

	// DeleteMessage removes a previously sent message.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// EditReplyMarkup swaps the inline keyboard of an existing message.
	EditReplyMarkup(ctx context.Context, chatID int64, messageID int, kb Keyboard) error
}

// Command is an inbound slash command.
type Command struct {
	Name     string
	ChatID   int64
	UserID   int64
	UserName string
	Text     string
}

// CallbackEvent is an inbound button tap. Keyboard holds the markup of the
// message the tap came from, so handlers can strip buttons in place.
type CallbackEvent struct {
	ChatID    int64
	UserID    int64
	UserName  string
	MessageID int
	Data      string
	Keyboard  Keyboard
}

// TextMessage is an inbound free-text message (the quantity step).
type TextMessage struct {
	ChatID   int64
	UserID   int64
	UserName string
	Text     string
}
