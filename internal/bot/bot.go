package bot

import (
	"context"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/wisdomcards/internal/config"
	"github.com/j0lvera/wisdomcards/internal/hint"
	applog "github.com/j0lvera/wisdomcards/internal/log"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config   *config.Config
	Resolver *hint.Resolver
	Logger   zerolog.Logger
}

type Result struct {
	fx.Out

	Bot     *tbot.Bot
	Handler *Handler
}

func New(lc fx.Lifecycle, p Params) (Result, error) {
	log := p.Logger.With().Str("component", "bot").Logger()

	handler := NewHandler(
		p.Resolver,
		p.Config.Messages,
		p.Config.FallbackImage,
		NewThrottle(p.Config.HintRatePerMinute),
	)

	opts := []tbot.Option{
		tbot.WithMiddlewares(requestContext(log)),
		tbot.WithDefaultHandler(adapt(handler.HandleDefault)),
		tbot.WithErrorsHandler(func(err error) {
			log.Error().Err(err).Msg("telegram polling error")
		}),
	}

	tg, err := tbot.New(p.Config.Token, opts...)
	if err != nil {
		return Result{}, err
	}

	tg.RegisterHandler(tbot.HandlerTypeMessageText, "/start", tbot.MatchTypePrefix, adapt(handler.HandleStart))
	tg.RegisterHandler(tbot.HandlerTypeCallbackQueryData, CallbackGetHint, tbot.MatchTypeExact, adapt(handler.HandleHint))
	tg.RegisterHandler(tbot.HandlerTypeCallbackQueryData, CallbackBackToStart, tbot.MatchTypeExact, adapt(handler.HandleBack))

	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				_, err := tg.SetMyCommands(ctx, &tbot.SetMyCommandsParams{
					Commands: []models.BotCommand{
						{Command: "start", Description: p.Config.Messages.StartCommand},
					},
				})
				if err != nil {
					log.Warn().Err(err).Msg("unable to register bot commands")
				}

				log.Info().Str("folder", p.Config.DiskFolder).Msg("starting telegram bot...")
				go tg.Start(runCtx)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info().Msg("stopping telegram bot...")
				cancel()
				return nil
			},
		},
	)

	return Result{
		Bot:     tg,
		Handler: handler,
	}, nil
}

func Module() fx.Option {
	return fx.Module(
		"bot",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(bot *tbot.Bot) {},
		),
	)
}

// adapt lets handlers written against Sender run as tbot handlers.
func adapt(fn func(context.Context, Sender, *models.Update)) tbot.HandlerFunc {
	return func(ctx context.Context, tg *tbot.Bot, update *models.Update) {
		fn(ctx, tg, update)
	}
}

// requestContext tags every update with a request id and keeps a panic in
// one handler from taking the poller down.
func requestContext(log zerolog.Logger) tbot.Middleware {
	return func(next tbot.HandlerFunc) tbot.HandlerFunc {
		return func(ctx context.Context, tg *tbot.Bot, update *models.Update) {
			ctx, _ = applog.WithRequestID(ctx, log.With().Int64("update_id", update.ID).Logger())

			defer func() {
				if r := recover(); r != nil {
					zerolog.Ctx(ctx).Error().Interface("panic", r).Msg("handler panicked")
				}
			}()

			next(ctx, tg, update)
		}
	}
}
