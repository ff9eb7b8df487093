package disk

import (
	"github.com/j0lvera/wisdomcards/internal/config"
	"go.uber.org/fx"
)

// Params for creating a Disk client
type Params struct {
	fx.In

	Config *config.Config
}

// Result of creating a Disk client
type Result struct {
	fx.Out

	Client *Client
}

// New creates a Disk client based on configuration
func New(p Params) Result {
	return Result{
		Client: NewClient(
			p.Config.DiskBaseURL,
			p.Config.DiskToken,
			p.Config.RequestTimeout,
			WithRateLimit(p.Config.DiskRateLimit),
		),
	}
}

// Module provides the Disk client
func Module() fx.Option {
	return fx.Module(
		"disk",
		fx.Provide(
			New,
		),
	)
}
