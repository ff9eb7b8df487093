package bot

import (
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/wisdomcards/internal/config"
)

// Callback data carried by the inline buttons
const (
	CallbackGetHint     = "get_hint"
	CallbackBackToStart = "back_to_start"
)

func startKeyboard(m config.Messages) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: m.GetHint, CallbackData: CallbackGetHint}},
		},
	}
}

// hintKeyboard follows every card and every fallback.
func hintKeyboard(m config.Messages) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: m.NewHint, CallbackData: CallbackGetHint}},
			{{Text: m.BackToStart, CallbackData: CallbackBackToStart}},
		},
	}
}
