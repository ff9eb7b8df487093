package bot

import (
	"context"
	"fmt"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/wisdomcards/internal/hint"
)

// Sender is the part of the Telegram API the handlers reply through.
// *tbot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *tbot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *tbot.SendPhotoParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *tbot.AnswerCallbackQueryParams) (bool, error)
}

// Picker produces one image URL per hint request
type Picker interface {
	PickRandomImageURL(ctx context.Context) (hint.ResolvedImage, error)
}

// PresentationError means Telegram rejected an outgoing message.
type PresentationError struct {
	Op  string
	Err error
}

func (e *PresentationError) Error() string {
	return fmt.Sprintf("telegram %s: %v", e.Op, e.Err)
}

func (e *PresentationError) Unwrap() error {
	return e.Err
}
