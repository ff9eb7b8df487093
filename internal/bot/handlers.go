package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/wisdomcards/internal/config"
	"github.com/j0lvera/wisdomcards/internal/hint"
	"github.com/rs/zerolog"
)

// Handler reacts to /start and to the inline buttons.
type Handler struct {
	picker        Picker
	messages      config.Messages
	fallbackImage string
	throttle      *Throttle
}

// NewHandler creates a Handler. fallbackImage is a local file path.
func NewHandler(picker Picker, messages config.Messages, fallbackImage string, throttle *Throttle) *Handler {
	return &Handler{
		picker:        picker,
		messages:      messages,
		fallbackImage: fallbackImage,
		throttle:      throttle,
	}
}

// HandleStart greets the user with the welcome text.
func (h *Handler) HandleStart(ctx context.Context, s Sender, update *models.Update) {
	// Guard against nil message
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	log := zerolog.Ctx(ctx)

	if err := h.sendWelcome(ctx, s, chatID); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("unable to send welcome message")
		return
	}
	log.Info().Int64("chat_id", chatID).Msg("welcome sent")
}

// HandleBack shows the welcome text again.
func (h *Handler) HandleBack(ctx context.Context, s Sender, update *models.Update) {
	q := update.CallbackQuery
	if q == nil {
		return
	}

	chatID := callbackChatID(q)
	log := zerolog.Ctx(ctx)

	h.answer(ctx, s, q.ID, "")

	if err := h.sendWelcome(ctx, s, chatID); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("unable to send welcome message")
	}
}

// HandleHint delivers a random card, or the fallback when that fails.
func (h *Handler) HandleHint(ctx context.Context, s Sender, update *models.Update) {
	q := update.CallbackQuery
	if q == nil {
		return
	}

	chatID := callbackChatID(q)
	log := zerolog.Ctx(ctx)

	if !h.throttle.Allow(chatID) {
		log.Info().Int64("chat_id", chatID).Msg("hint request throttled")
		h.answer(ctx, s, q.ID, h.messages.Throttled)
		return
	}

	h.answer(ctx, s, q.ID, "")

	img, err := h.picker.PickRandomImageURL(ctx)
	if err != nil {
		var resErr *hint.ResolutionError
		switch {
		case errors.Is(err, hint.ErrEmptyFolder):
			log.Warn().Int64("chat_id", chatID).Msg("no images available")
		case errors.As(err, &resErr):
			log.Error().Err(resErr.Err).Int64("chat_id", chatID).Str("path", resErr.Path).Msg("unable to resolve image link")
		default:
			log.Error().Err(err).Int64("chat_id", chatID).Msg("unable to pick image")
		}
		h.sendFallback(ctx, s, chatID)
		return
	}

	if err := h.sendCard(ctx, s, chatID, img); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram rejected image")
		h.sendFallback(ctx, s, chatID)
		return
	}

	log.Info().Int64("chat_id", chatID).Msg("card sent")
}

// HandleDefault ignores everything the bot has no handler for.
func (h *Handler) HandleDefault(ctx context.Context, s Sender, update *models.Update) {
	zerolog.Ctx(ctx).Debug().Int64("update_id", update.ID).Msg("update ignored")
}

func (h *Handler) sendWelcome(ctx context.Context, s Sender, chatID int64) error {
	_, err := s.SendMessage(ctx, &tbot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.messages.Welcome,
		ReplyMarkup: startKeyboard(h.messages),
	})
	if err != nil {
		return &PresentationError{Op: "sendMessage", Err: err}
	}
	return nil
}

func (h *Handler) sendCard(ctx context.Context, s Sender, chatID int64, img hint.ResolvedImage) error {
	_, err := s.SendPhoto(ctx, &tbot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileString{Data: img.URL},
		ReplyMarkup: hintKeyboard(h.messages),
	})
	if err != nil {
		return &PresentationError{Op: "sendPhoto", Err: err}
	}
	return nil
}

// sendFallback shows the local "bot is sleeping" image with the retry
// keyboard, degrading to text when the image cannot be sent. It never
// fails the update.
func (h *Handler) sendFallback(ctx context.Context, s Sender, chatID int64) {
	log := zerolog.Ctx(ctx)

	f, err := os.Open(h.fallbackImage)
	if err != nil {
		log.Warn().Err(err).Str("file", h.fallbackImage).Msg("fallback image unavailable, sending text only")
		h.sendFallbackText(ctx, s, chatID)
		return
	}
	defer f.Close()

	_, err = s.SendPhoto(ctx, &tbot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: filepath.Base(h.fallbackImage), Data: f},
		Caption:     h.messages.Sleep,
		ReplyMarkup: hintKeyboard(h.messages),
	})
	if err != nil {
		log.Error().
			Err(&PresentationError{Op: "sendPhoto", Err: err}).
			Int64("chat_id", chatID).
			Msg("unable to send fallback image")
		h.sendFallbackText(ctx, s, chatID)
		return
	}

	log.Info().Int64("chat_id", chatID).Msg("fallback sent")
}

func (h *Handler) sendFallbackText(ctx context.Context, s Sender, chatID int64) {
	_, err := s.SendMessage(ctx, &tbot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.messages.Sleep,
		ReplyMarkup: hintKeyboard(h.messages),
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().
			Err(&PresentationError{Op: "sendMessage", Err: err}).
			Int64("chat_id", chatID).
			Msg("unable to send fallback text")
	}
}

// answer acknowledges a callback query so the client stops its spinner.
func (h *Handler) answer(ctx context.Context, s Sender, queryID, text string) {
	_, err := s.AnswerCallbackQuery(ctx, &tbot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("unable to answer callback query")
	}
}

func callbackChatID(q *models.CallbackQuery) int64 {
	switch {
	case q.Message.Message != nil:
		return q.Message.Message.Chat.ID
	case q.Message.InaccessibleMessage != nil:
		return q.Message.InaccessibleMessage.Chat.ID
	}
	// Private chats share the user's id
	return q.From.ID
}
