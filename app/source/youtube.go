package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okhotin/cliplink/app/matcher"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	watchURLPrefix = "https://www.youtube.com/watch?v="
	pageSize       = 50
)

var _ Client = (*YouTubeClient)(nil)

// YouTubeClient fetches uploads through the YouTube Data API v3.
type YouTubeClient struct {
	httpClient *http.Client
	apiKey     string
	userAgent  string
	timeout    time.Duration
	baseURL    string
}

func NewYouTubeClient(httpClient *http.Client, apiKey, userAgent string, timeout time.Duration) *YouTubeClient {
	return &YouTubeClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		userAgent:  userAgent,
		timeout:    timeout,
		baseURL:    defaultBaseURL,
	}
}

type channelsResponse struct {
	Items []struct {
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title      string `json:"title"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

func (c *YouTubeClient) ResolveUploads(ctx context.Context, channelID string) (string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", channelID)
	params.Set("key", c.apiKey)

	var resp channelsResponse
	if err := c.getJSON(ctx, c.baseURL+"/channels?"+params.Encode(), &resp); err != nil {
		return "", err
	}

	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: channel %s not found", ErrMalformed, channelID)
	}

	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return "", fmt.Errorf("%w: channel %s has no uploads playlist", ErrMalformed, channelID)
	}

	return uploads, nil
}

func (c *YouTubeClient) FetchPage(ctx context.Context, uploadsID string, pageToken string) (*Page, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", uploadsID)
	params.Set("maxResults", fmt.Sprintf("%d", pageSize))
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp playlistItemsResponse
	if err := c.getJSON(ctx, c.baseURL+"/playlistItems?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	page := &Page{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.Snippet.ResourceID.VideoID == "" {
			continue
		}
		page.Videos = append(page.Videos, Video{
			Title: matcher.Normalize(item.Snippet.Title),
			URL:   watchURLPrefix + item.Snippet.ResourceID.VideoID,
		})
	}

	return page, nil
}

func (c *YouTubeClient) getJSON(ctx context.Context, requestURL string, out any) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: HTTP %d %s", ErrUnavailable, resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return nil
}
