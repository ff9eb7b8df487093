package main

import (
	"github.com/j0lvera/wisdomcards/internal/admin"
	"github.com/j0lvera/wisdomcards/internal/bot"
	"github.com/j0lvera/wisdomcards/internal/config"
	"github.com/j0lvera/wisdomcards/internal/disk"
	"github.com/j0lvera/wisdomcards/internal/hint"
	"github.com/j0lvera/wisdomcards/internal/log"
	"go.uber.org/fx"
)

func main() {

	fx.New(
		fx.WithLogger(log.NewEventLogger),
		config.Module(),
		log.Module(),
		disk.Module(),
		hint.Module(),
		bot.Module(),
		admin.Module(),
	).Run()
}
