package api

import (
	"github.com/okhotin/cliplink/app/bot"
	"github.com/okhotin/cliplink/app/catalog"
	"github.com/okhotin/cliplink/app/source"
	"github.com/okhotin/cliplink/app/tasks"
)

type Handler struct {
	store     catalog.Store
	matcher   *bot.Handler
	scheduler tasks.SchedulerInterface
	channels  *source.ChannelCache
	version   string
}

func NewHandler(store catalog.Store, matcher *bot.Handler, scheduler tasks.SchedulerInterface,
	channels *source.ChannelCache, version string) *Handler {
	return &Handler{
		store:     store,
		matcher:   matcher,
		scheduler: scheduler,
		channels:  channels,
		version:   version,
	}
}
