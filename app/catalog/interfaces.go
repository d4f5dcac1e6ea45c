package catalog

import "time"

// Entry is a single catalog record: a normalized video title and the
// canonical watch URL it resolves to.
type Entry struct {
	Title string
	URL   string
}

// Store holds the authoritative title -> URL mapping plus a freshness
// timestamp. The entry set is only ever mutated by replacing it wholesale;
// readers observe either the previous complete generation or the new one,
// never a mix. Duplicate titles within one ReplaceAll resolve last-write-wins.
type Store interface {
	// ReplaceAll atomically swaps the entire entry set and freshness timestamp.
	ReplaceAll(entries []Entry, at time.Time) error

	// Lookup returns the URL for an exact normalized title. A storage error
	// degrades to a miss; it never propagates to the caller.
	Lookup(title string) (string, bool)

	// AllTitles returns every title of a single generation, sorted.
	AllTitles() []string

	// Freshness returns the timestamp of the last completed refresh, or
	// false if no refresh has ever completed.
	Freshness() (time.Time, bool)
}
