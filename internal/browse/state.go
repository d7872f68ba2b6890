package browse

import (
	"github.com/mmcdole/reel/internal/domain"
)

// Status is the controller's fetch lifecycle state
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Mode is either a feed or a search query, never both.
// Build one with FeedMode or SearchMode.
type Mode struct {
	search bool
	feed   domain.FeedKind
	query  string
}

// FeedMode browses a ranked feed
func FeedMode(kind domain.FeedKind) Mode {
	return Mode{feed: kind}
}

// SearchMode browses free-text search results for query
func SearchMode(query string) Mode {
	return Mode{search: true, query: query}
}

// IsSearch reports whether the mode is a search
func (m Mode) IsSearch() bool {
	return m.search
}

// Feed returns the feed kind; ok is false in search mode
func (m Mode) Feed() (domain.FeedKind, bool) {
	return m.feed, !m.search
}

// Query returns the search text; ok is false in feed mode
func (m Mode) Query() (string, bool) {
	return m.query, m.search
}

func (m Mode) String() string {
	if m.search {
		return "search:" + m.query
	}
	return "feed:" + string(m.feed)
}

// State is a read-only snapshot of the controller
type State struct {
	Mode         Mode
	Status       Status
	Items        []domain.CatalogItem // pages 1..Page of Mode, in arrival order
	Page         int                  // highest fetched page, >= 1
	HasMore      bool
	IsLoading    bool
	TotalResults int    // as last reported by the catalog
	Generation   uint64 // bumps on every mode or query change
}

// Request is one outbound page fetch, tagged with the generation that
// issued it. Obtain requests from the controller and pass them to Execute.
type Request struct {
	Mode       Mode
	Page       int
	Append     bool
	Generation uint64

	token uint64 // zero for "no request"
}

// Valid reports whether r came from the controller
func (r Request) Valid() bool {
	return r.token != 0
}
