package bot

import (
	"fmt"
	"log/slog"

	"github.com/okhotin/cliplink/app/catalog"
	"github.com/okhotin/cliplink/app/matcher"
)

const replyFormat = "Here's the video you mentioned: %s"

// Event is one inbound chat message, reduced to what the matching core
// needs. Filtering of self-messages and permission checks is the
// transport's concern, surfaced here as the two booleans.
type Event struct {
	Text              string
	AuthorIsAutomated bool
	CanReply          bool
}

// Handler decides whether an inbound message names a catalog video and, if
// so, produces the reply text. It never surfaces internal errors to the
// user: any failure is simply the absence of a reply.
type Handler struct {
	store     catalog.Store
	threshold float64
}

func NewHandler(store catalog.Store, threshold float64) *Handler {
	return &Handler{
		store:     store,
		threshold: threshold,
	}
}

// Handle returns the reply for an event, or ok=false when no reply should
// be sent. A score exactly at the threshold counts as a match.
func (h *Handler) Handle(event Event) (string, bool) {
	if event.AuthorIsAutomated || !event.CanReply {
		return "", false
	}

	query := matcher.Normalize(event.Text)
	if query == "" {
		return "", false
	}

	titles := h.store.AllTitles()
	if len(titles) == 0 {
		return "", false
	}

	title, score, ok := matcher.BestMatch(query, titles)
	if !ok || score < h.threshold {
		return "", false
	}

	url, ok := h.store.Lookup(title)
	if !ok {
		slog.Error("Matched title missing from catalog", "title", title, "score", score)
		return "", false
	}

	slog.Debug("Query matched", "title", title, "score", score)

	return fmt.Sprintf(replyFormat, url), true
}

// Threshold returns the configured match threshold.
func (h *Handler) Threshold() float64 {
	return h.threshold
}

// Match exposes the raw matching decision without composing a reply, for
// the HTTP API.
func (h *Handler) Match(text string) (title string, url string, score float64, matched bool) {
	query := matcher.Normalize(text)
	titles := h.store.AllTitles()
	if query == "" || len(titles) == 0 {
		return "", "", 0, false
	}

	title, score, ok := matcher.BestMatch(query, titles)
	if !ok {
		return "", "", 0, false
	}

	if score < h.threshold {
		return title, "", score, false
	}

	url, ok = h.store.Lookup(title)
	if !ok {
		return title, "", score, false
	}

	return title, url, score, true
}
