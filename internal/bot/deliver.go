package bot

import (
	"context"

	"podryad/internal/dialog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// deliver выполняет эффекты обработчика по порядку. Темп отправок
// ограничен, чтобы не упереться в лимиты Telegram API.
func (b *Bot) deliver(ctx context.Context, chatID int64, effects []dialog.Effect) {
	for _, effect := range effects {
		if err := b.sendLimiter.Wait(ctx); err != nil {
			return
		}

		var err error
		switch e := effect.(type) {
		case dialog.SendText:
			_, err = b.tgService.SendMessage(chatID, e.Body)
		case dialog.SendMenu:
			_, err = b.tgService.SendWithInlineKeyboard(chatID, e.Body, buildKeyboard(e.Buttons))
		case dialog.SendDocument:
			_, err = b.sendDocument(chatID, e)
		}
		if err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to deliver effect")
		}
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

func (b *Bot) sendDocument(chatID int64, e dialog.SendDocument) (tgbotapi.Message, error) {
	if len(e.Buttons) == 0 {
		return b.tgService.SendDocument(chatID, e.FileName, e.Data, e.Caption)
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: e.FileName, Bytes: e.Data})
	doc.Caption = e.Caption
	doc.ReplyMarkup = buildKeyboard(e.Buttons)
	return b.tgService.Send(doc)
}

// buildKeyboard кнопка на строку, порядок сохраняется.
func buildKeyboard(buttons []dialog.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btn.Label, encodeCallback(btn.Token, btn.Payload)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
