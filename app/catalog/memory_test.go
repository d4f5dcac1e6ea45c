package catalog

import (
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore()

	if titles := store.AllTitles(); len(titles) != 0 {
		t.Errorf("Expected empty catalog, got %d titles", len(titles))
	}

	if _, ok := store.Lookup("anything"); ok {
		t.Error("Expected lookup miss on empty catalog")
	}

	if _, ok := store.Freshness(); ok {
		t.Error("Expected no freshness before first refresh")
	}
}

func TestMemoryStoreReplaceAndLookup(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()

	err := store.ReplaceAll([]Entry{
		{Title: "official trailer", URL: "https://x/1"},
		{Title: "behind the scenes", URL: "https://x/2"},
	}, now)
	if err != nil {
		t.Fatal(err)
	}

	url, ok := store.Lookup("official trailer")
	if !ok || url != "https://x/1" {
		t.Errorf("Expected https://x/1, got %q (ok=%v)", url, ok)
	}

	if _, ok := store.Lookup("missing"); ok {
		t.Error("Expected lookup miss for unknown title")
	}

	titles := store.AllTitles()
	if len(titles) != 2 {
		t.Fatalf("Expected 2 titles, got %d", len(titles))
	}
	if titles[0] != "behind the scenes" || titles[1] != "official trailer" {
		t.Errorf("Expected sorted titles, got %v", titles)
	}

	at, ok := store.Freshness()
	if !ok || !at.Equal(now) {
		t.Errorf("Expected freshness %v, got %v (ok=%v)", now, at, ok)
	}
}

func TestMemoryStoreLastWriteWins(t *testing.T) {
	store := NewMemoryStore()

	err := store.ReplaceAll([]Entry{
		{Title: "a", URL: "u1"},
		{Title: "a", URL: "u2"},
	}, time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}

	if len(store.AllTitles()) != 1 {
		t.Fatalf("Expected 1 title after duplicate collapse, got %d", len(store.AllTitles()))
	}

	url, ok := store.Lookup("a")
	if !ok || url != "u2" {
		t.Errorf("Expected last write u2 to win, got %q", url)
	}
}

func TestMemoryStoreIdempotentReplace(t *testing.T) {
	store := NewMemoryStore()
	entries := []Entry{{Title: "a", URL: "u1"}, {Title: "b", URL: "u2"}}

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	if err := store.ReplaceAll(entries, first); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceAll(entries, second); err != nil {
		t.Fatal(err)
	}

	url, ok := store.Lookup("a")
	if !ok || url != "u1" {
		t.Errorf("Expected lookup unchanged after idempotent replace, got %q", url)
	}

	at, ok := store.Freshness()
	if !ok || !at.Equal(second) {
		t.Errorf("Expected freshness to advance to %v, got %v", second, at)
	}
}

// Readers interleaved with ReplaceAll must observe a complete generation,
// never a mix of entries from two generations.
func TestMemoryStoreAtomicReplace(t *testing.T) {
	store := NewMemoryStore()

	genA := []Entry{{Title: "a1", URL: "u"}, {Title: "a2", URL: "u"}}
	genB := []Entry{{Title: "b1", URL: "u"}, {Title: "b2", URL: "u"}}

	if err := store.ReplaceAll(genA, time.Now().UTC()); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			gen := genA
			if i%2 == 1 {
				gen = genB
			}
			if err := store.ReplaceAll(gen, time.Now().UTC()); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		titles := store.AllTitles()
		if len(titles) != 2 {
			t.Fatalf("Observed %d titles, want 2", len(titles))
		}
		if titles[0][0] != titles[1][0] {
			t.Fatalf("Observed mixed generations: %v", titles)
		}
	}

	close(done)
	wg.Wait()
}
