package bot

import (
	"context"
	"testing"
	"time"

	"podryad/internal/config"
	"podryad/internal/dialog"
	"podryad/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *mockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	return args.Get(0).(*tgbotapi.APIResponse), args.Error(1)
}

func (m *mockSender) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	args := m.Called(config)
	return args.Get(0).(tgbotapi.UpdatesChannel)
}

func (m *mockSender) GetSelf() tgbotapi.User {
	args := m.Called()
	return args.Get(0).(tgbotapi.User)
}

func (m *mockSender) StopReceivingUpdates() {
	m.Called()
}

func newTestBot(sender *mockSender) *Bot {
	logger := zerolog.Nop()
	cfg := &config.Config{}
	cfg.Bot.SendRPS = 100
	return NewBot(service.NewTelegramService(sender), nil, nil, cfg, nil, &logger)
}

func TestCallbackEncoding(t *testing.T) {
	assert.Equal(t, "worker_claim:42", encodeCallback(dialog.TokenWorkerClaim, "42"))
	assert.Equal(t, "back", encodeCallback(dialog.TokenBack, ""))

	token, payload := decodeCallback("worker_claim:42")
	assert.Equal(t, "worker_claim", token)
	assert.Equal(t, "42", payload)

	token, payload = decodeCallback("back")
	assert.Equal(t, "back", token)
	assert.Empty(t, payload)
}

func TestToEvent(t *testing.T) {
	t.Run("Command", func(t *testing.T) {
		ev, ok := toEvent(tgbotapi.Update{Message: &tgbotapi.Message{
			Text:     "/start",
			Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		}})
		require.True(t, ok)
		cmd, ok := ev.(dialog.Command)
		require.True(t, ok)
		assert.Equal(t, "start", cmd.Name)
	})

	t.Run("Text", func(t *testing.T) {
		ev, ok := toEvent(tgbotapi.Update{Message: &tgbotapi.Message{Text: "Ivan Petrov"}})
		require.True(t, ok)
		assert.Equal(t, dialog.Text{Body: "Ivan Petrov"}, ev)
	})

	t.Run("Contact", func(t *testing.T) {
		ev, ok := toEvent(tgbotapi.Update{Message: &tgbotapi.Message{
			Contact: &tgbotapi.Contact{PhoneNumber: "+79123456789"},
		}})
		require.True(t, ok)
		assert.Equal(t, dialog.Contact{Phone: "+79123456789"}, ev)
	})

	t.Run("Callback", func(t *testing.T) {
		ev, ok := toEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{Data: "task_select:7"}})
		require.True(t, ok)
		assert.Equal(t, dialog.ButtonPress{Token: dialog.TokenTaskSelect, Payload: "7"}, ev)
	})

	t.Run("EmptyUpdate", func(t *testing.T) {
		_, ok := toEvent(tgbotapi.Update{})
		assert.False(t, ok)
	})
}

func TestBuildKeyboard(t *testing.T) {
	markup := buildKeyboard([]dialog.Button{
		{Label: "Взять", Token: dialog.TokenWorkerClaim, Payload: "5"},
		{Label: "Назад", Token: dialog.TokenBack},
	})

	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Взять", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "worker_claim:5", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "back", *markup.InlineKeyboard[1][0].CallbackData)
}

func TestDeliverEffects(t *testing.T) {
	sender := new(mockSender)
	b := newTestBot(sender)

	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		return ok && msg.Text == "привет" && msg.ChatID == 10
	})).Return(tgbotapi.Message{}, nil).Once()

	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		if !ok || msg.Text != "меню" {
			return false
		}
		markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		return ok && len(markup.InlineKeyboard) == 1
	})).Return(tgbotapi.Message{}, nil).Once()

	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		doc, ok := c.(tgbotapi.DocumentConfig)
		if !ok {
			return false
		}
		file, ok := doc.File.(tgbotapi.FileBytes)
		return ok && file.Name == "tasks.xlsx" && doc.Caption == "Выгрузка"
	})).Return(tgbotapi.Message{}, nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b.deliver(ctx, 10, []dialog.Effect{
		dialog.SendText{Body: "привет"},
		dialog.SendMenu{Body: "меню", Buttons: []dialog.Button{{Label: "Ок", Token: dialog.TokenBack}}},
		dialog.SendDocument{FileName: "tasks.xlsx", Caption: "Выгрузка", Data: []byte{1}},
	})

	sender.AssertExpectations(t)
}

func TestIdentify(t *testing.T) {
	userID, chatID := identify(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 7},
		Chat: &tgbotapi.Chat{ID: 8},
	}})
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, int64(8), chatID)

	userID, chatID = identify(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 9}},
	}})
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, int64(9), chatID)

	userID, _ = identify(tgbotapi.Update{})
	assert.Equal(t, int64(0), userID)
}
