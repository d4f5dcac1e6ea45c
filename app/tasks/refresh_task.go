package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/okhotin/cliplink/app/catalog"
	"github.com/okhotin/cliplink/app/source"
)

// RefreshTask performs one full refresh cycle: resolve each channel's
// uploads collection, paginate it to exhaustion, then replace the catalog
// in a single atomic step. Any failure aborts the cycle before the store is
// touched, leaving the previous catalog authoritative.
type RefreshTask struct {
	Task
	client   source.Client
	store    catalog.Store
	channels []source.Channel
}

func NewRefreshTask(client source.Client, store catalog.Store, channels []source.Channel) *RefreshTask {
	return &RefreshTask{
		Task:     NewTask(TaskTypeRefreshCatalog),
		client:   client,
		store:    store,
		channels: channels,
	}
}

func (t *RefreshTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if len(t.channels) == 0 {
		return fmt.Errorf("no enabled channels to refresh")
	}

	var entries []catalog.Entry
	pages := 0

	for _, channel := range t.channels {
		uploadsID, err := t.client.ResolveUploads(ctx, channel.ID)
		if err != nil {
			return fmt.Errorf("failed to resolve uploads for channel %s: %w", channel.Name, err)
		}

		pageToken := ""
		for {
			page, err := t.client.FetchPage(ctx, uploadsID, pageToken)
			if err != nil {
				return fmt.Errorf("failed to fetch page for channel %s: %w", channel.Name, err)
			}
			pages++

			for _, video := range page.Videos {
				entries = append(entries, catalog.Entry{Title: video.Title, URL: video.URL})
			}

			if page.NextPageToken == "" {
				break
			}
			pageToken = page.NextPageToken
		}
	}

	if err := t.store.ReplaceAll(entries, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshCatalog",
		"duration", t.GetDuration(),
		"channels", len(t.channels),
		"pages", pages,
		"videos", len(entries))

	return nil
}
