package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/okhotin/cliplink/app/matcher"
)

const defaultFeedBaseURL = "https://www.youtube.com/feeds/videos.xml"

var _ Client = (*RSSClient)(nil)

// RSSClient fetches uploads through a channel's public RSS feed. It needs
// no API key but only sees the channel's most recent uploads, delivered as
// a single page.
type RSSClient struct {
	parser  *gofeed.Parser
	timeout time.Duration
	baseURL string
}

func NewRSSClient(httpClient *http.Client, userAgent string, timeout time.Duration) *RSSClient {
	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = userAgent

	return &RSSClient{
		parser:  parser,
		timeout: timeout,
		baseURL: defaultFeedBaseURL,
	}
}

// ResolveUploads is a no-op for the RSS backend: the feed is addressed by
// channel ID directly.
func (c *RSSClient) ResolveUploads(ctx context.Context, channelID string) (string, error) {
	return channelID, nil
}

func (c *RSSClient) FetchPage(ctx context.Context, uploadsID string, pageToken string) (*Page, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("channel_id", uploadsID)

	feed, err := c.parser.ParseURLWithContext(c.baseURL+"?"+params.Encode(), timeoutCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	page := &Page{}
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		page.Videos = append(page.Videos, Video{
			Title: matcher.Normalize(item.Title),
			URL:   item.Link,
		})
	}

	return page, nil
}
