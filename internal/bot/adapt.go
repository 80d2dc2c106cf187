package bot

import (
	"strings"

	"podryad/internal/dialog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// toEvent превращает апдейт Telegram в событие диалога.
func toEvent(update tgbotapi.Update) (dialog.Event, bool) {
	if update.CallbackQuery != nil {
		token, payload := decodeCallback(update.CallbackQuery.Data)
		if token == "" {
			return nil, false
		}
		return dialog.ButtonPress{Token: dialog.Token(token), Payload: payload}, true
	}

	msg := update.Message
	if msg == nil {
		return nil, false
	}

	if msg.Contact != nil {
		return dialog.Contact{Phone: msg.Contact.PhoneNumber}, true
	}

	if msg.IsCommand() {
		return dialog.Command{Name: msg.Command()}, true
	}

	if msg.Text != "" {
		return dialog.Text{Body: msg.Text}, true
	}

	return nil, false
}

// Формат callback data: "token" либо "token:payload".
func encodeCallback(token dialog.Token, payload string) string {
	if payload == "" {
		return string(token)
	}
	return string(token) + ":" + payload
}

func decodeCallback(data string) (token, payload string) {
	token, payload, _ = strings.Cut(data, ":")
	return token, payload
}
