package hint

import (
	"github.com/j0lvera/wisdomcards/internal/config"
	"github.com/j0lvera/wisdomcards/internal/disk"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Params for creating the hint pipeline
type Params struct {
	fx.In

	Config *config.Config
	Client *disk.Client
	Logger zerolog.Logger
}

// Result of creating the hint pipeline
type Result struct {
	fx.Out

	Index    *FolderIndex
	Resolver *Resolver
}

// New creates the folder index and the resolver on top of it
func New(p Params) Result {
	logger := p.Logger.With().Str("component", "hint").Logger()

	index := NewFolderIndex(
		p.Client,
		p.Config.DiskFolder,
		p.Config.ListLimit,
		p.Config.ImageExtensions,
		&logger,
	)

	return Result{
		Index:    index,
		Resolver: NewResolver(index, p.Client, &logger),
	}
}

// Module provides the folder index and resolver
func Module() fx.Option {
	return fx.Module(
		"hint",
		fx.Provide(
			New,
		),
	)
}
