package source

import (
	"context"
	"errors"
)

// Failure taxonomy for upstream fetches. A scheduler treats any of these as
// a cycle abort; they are distinguishable so a retry policy could treat
// rate limiting differently from a permanent failure.
var (
	ErrUnavailable = errors.New("upstream source unavailable")
	ErrMalformed   = errors.New("upstream response malformed")
	ErrRateLimited = errors.New("upstream rate limited")
)

// Video is one title/URL pair produced by a source. Titles are already
// normalized for catalog keying.
type Video struct {
	Title string
	URL   string
}

// Page is one page of a paginated sweep. An empty NextPageToken signals the
// end of pagination.
type Page struct {
	Videos        []Video
	NextPageToken string
}

// Client fetches title/URL pairs for a channel, one page at a time.
type Client interface {
	// ResolveUploads resolves the channel's uploads collection identifier.
	// Called once per refresh cycle per channel.
	ResolveUploads(ctx context.Context, channelID string) (string, error)

	// FetchPage fetches one page of the uploads collection. Pass the
	// NextPageToken of the previous page, or "" for the first page.
	FetchPage(ctx context.Context, uploadsID string, pageToken string) (*Page, error)
}
