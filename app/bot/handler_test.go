package bot

import (
	"testing"
	"time"

	"github.com/okhotin/cliplink/app/catalog"
)

func newTestStore(t *testing.T, entries []catalog.Entry) catalog.Store {
	t.Helper()

	store := catalog.NewMemoryStore()
	if entries != nil {
		if err := store.ReplaceAll(entries, time.Now().UTC()); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func trailerCatalog(t *testing.T) catalog.Store {
	return newTestStore(t, []catalog.Entry{
		{Title: "official trailer", URL: "https://x/1"},
		{Title: "behind the scenes", URL: "https://x/2"},
	})
}

func TestHandleMatchesTitle(t *testing.T) {
	handler := NewHandler(trailerCatalog(t), 0.45)

	reply, ok := handler.Handle(Event{Text: "whats the official trailer", CanReply: true})
	if !ok {
		t.Fatal("Expected a reply")
	}
	if reply != "Here's the video you mentioned: https://x/1" {
		t.Errorf("Unexpected reply: %q", reply)
	}
}

func TestHandleUnrelatedText(t *testing.T) {
	handler := NewHandler(trailerCatalog(t), 0.45)

	if _, ok := handler.Handle(Event{Text: "good morning everyone", CanReply: true}); ok {
		t.Error("Expected no reply for unrelated text")
	}
}

func TestHandleEmptyCatalog(t *testing.T) {
	handler := NewHandler(newTestStore(t, nil), 0.45)

	if _, ok := handler.Handle(Event{Text: "official trailer", CanReply: true}); ok {
		t.Error("Expected no reply on empty catalog")
	}
}

func TestHandleDropsAutomatedAuthors(t *testing.T) {
	handler := NewHandler(trailerCatalog(t), 0.45)

	event := Event{Text: "official trailer", AuthorIsAutomated: true, CanReply: true}
	if _, ok := handler.Handle(event); ok {
		t.Error("Expected automated authors to be ignored")
	}
}

func TestHandleDropsNonRepliableEvents(t *testing.T) {
	handler := NewHandler(trailerCatalog(t), 0.45)

	if _, ok := handler.Handle(Event{Text: "official trailer", CanReply: false}); ok {
		t.Error("Expected non-repliable events to be ignored")
	}
}

func TestHandleNormalizesQuery(t *testing.T) {
	handler := NewHandler(trailerCatalog(t), 0.45)

	reply, ok := handler.Handle(Event{Text: "  OFFICIAL TRAILER  ", CanReply: true})
	if !ok {
		t.Fatal("Expected a reply for case/whitespace variant")
	}
	if reply != "Here's the video you mentioned: https://x/1" {
		t.Errorf("Unexpected reply: %q", reply)
	}
}

func TestHandleThresholdInclusive(t *testing.T) {
	// Similarity("abd", "abc") is exactly 0.5: one shared bigram out of
	// two on each side.
	store := newTestStore(t, []catalog.Entry{{Title: "abc", URL: "https://x/abc"}})

	atThreshold := NewHandler(store, 0.5)
	if _, ok := atThreshold.Handle(Event{Text: "abd", CanReply: true}); !ok {
		t.Error("Expected a score exactly at the threshold to match")
	}

	aboveThreshold := NewHandler(store, 0.51)
	if _, ok := aboveThreshold.Handle(Event{Text: "abd", CanReply: true}); ok {
		t.Error("Expected a score below the threshold not to match")
	}
}

func TestHandleEmptyText(t *testing.T) {
	handler := NewHandler(trailerCatalog(t), 0.45)

	if _, ok := handler.Handle(Event{Text: "   ", CanReply: true}); ok {
		t.Error("Expected no reply for blank text")
	}
}

func TestMatchDecision(t *testing.T) {
	handler := NewHandler(trailerCatalog(t), 0.45)

	title, url, score, matched := handler.Match("whats the official trailer")
	if !matched {
		t.Fatal("Expected a match")
	}
	if title != "official trailer" || url != "https://x/1" {
		t.Errorf("Unexpected match: title=%q url=%q", title, url)
	}
	if score < 0.45 || score > 1 {
		t.Errorf("Unexpected score: %v", score)
	}

	_, _, _, matched = handler.Match("good morning everyone")
	if matched {
		t.Error("Expected no match for unrelated text")
	}
}
