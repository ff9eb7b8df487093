package admin

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/j0lvera/wisdomcards/internal/config"
	"github.com/j0lvera/wisdomcards/internal/hint"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config *config.Config
	Index  *hint.FolderIndex
	Logger zerolog.Logger
}

// Register starts the admin HTTP server when ADMIN_ADDR is set.
func Register(lc fx.Lifecycle, p Params) {
	if p.Config.AdminAddr == "" {
		p.Logger.Debug().Msg("admin api disabled")
		return
	}

	log := p.Logger.With().Str("component", "admin").Logger()
	// gin's mode is process-wide, so it is set once here rather than per router
	gin.SetMode(ginMode(&log))

	srv := &http.Server{
		Addr:              p.Config.AdminAddr,
		Handler:           NewServer(p.Index, p.Config.AdminToken, &log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				ln, err := net.Listen("tcp", srv.Addr)
				if err != nil {
					return err
				}
				log.Info().Str("addr", srv.Addr).Msg("starting admin api...")
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Msg("admin api stopped")
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info().Msg("stopping admin api...")
				return srv.Shutdown(ctx)
			},
		},
	)
}

func Module() fx.Option {
	return fx.Module(
		"admin",
		fx.Invoke(
			Register,
		),
	)
}
