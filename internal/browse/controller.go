package browse

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

// Controller owns the browse state for one screen: which feed or search is
// active, the pages fetched so far, and whether more are available.
//
// Every state-changing operation returns a Request instead of fetching
// directly. The caller runs it with Execute, typically off the UI thread.
// Results of a request issued before the latest mode or query change are
// discarded, so a slow response never overwrites a newer one.
type Controller struct {
	client   domain.CatalogClient
	notifier domain.Notifier
	logger   *slog.Logger

	mu           sync.Mutex
	mode         Mode
	lastFeed     domain.FeedKind
	status       Status
	items        []domain.CatalogItem
	page         int
	loadedPages  int
	hasMore      bool
	totalResults int
	generation   uint64
	nextToken    uint64
	inflight     uint64
	cancel       context.CancelFunc
	saved        *feedSnapshot

	obsMu     sync.Mutex
	observers map[int]func(State)
	nextObsID int
}

// feedSnapshot preserves the feed view while a search is showing
type feedSnapshot struct {
	mode         Mode
	items        []domain.CatalogItem
	page         int
	loadedPages  int
	hasMore      bool
	totalResults int
}

// NewController creates an idle controller that will start on defaultFeed
func NewController(client domain.CatalogClient, notifier domain.Notifier, defaultFeed domain.FeedKind, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	if !defaultFeed.Valid() {
		defaultFeed = domain.FeedPopular
	}
	return &Controller{
		client:    client,
		notifier:  notifier,
		logger:    logger,
		mode:      FeedMode(defaultFeed),
		lastFeed:  defaultFeed,
		status:    StatusIdle,
		items:     []domain.CatalogItem{},
		page:      1,
		observers: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive every state change. fn is called
// synchronously from whichever goroutine made the change and must not block.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn
	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		delete(c.observers, id)
	}
}

// SelectFeed switches to a feed and resets to its first page. Selecting the
// active feed again is a reload.
func (c *Controller) SelectFeed(kind domain.FeedKind) Request {
	c.mu.Lock()
	c.saved = nil
	c.lastFeed = kind
	req := c.resetLocked(FeedMode(kind))
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("select feed", "feed", kind, "generation", req.Generation)
	c.emit(state)
	return req
}

// SubmitQuery switches to search results for text. Blank text leaves search
// mode and returns to the feed that was showing before; ok is false when no
// fetch is needed.
func (c *Controller) SubmitQuery(text string) (Request, bool) {
	query := strings.TrimSpace(text)

	c.mu.Lock()
	if query == "" {
		req, ok, changed := c.leaveSearchLocked()
		state := c.snapshotLocked()
		c.mu.Unlock()
		if changed {
			c.emit(state)
		}
		return req, ok
	}

	if !c.mode.IsSearch() {
		c.saveFeedLocked()
	}
	req := c.resetLocked(SearchMode(query))
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("submit query", "query", query, "generation", req.Generation)
	c.emit(state)
	return req, true
}

// LoadMore requests the next page of the current mode. It is a no-op while a
// fetch is in flight, when the last page has been reached, or before anything
// was selected. After a failed first page it retries page 1.
func (c *Controller) LoadMore() (Request, bool) {
	c.mu.Lock()
	if c.status == StatusIdle || c.status == StatusLoading || !c.hasMore {
		c.mu.Unlock()
		return Request{}, false
	}

	req := Request{
		Mode:       c.mode,
		Page:       c.loadedPages + 1,
		Append:     c.loadedPages > 0,
		Generation: c.generation,
	}
	req.token = c.issueLocked()
	c.status = StatusLoading
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("load more", "mode", req.Mode, "page", req.Page, "generation", req.Generation)
	c.emit(state)
	return req, true
}

// Refresh reloads page 1 of the current mode
func (c *Controller) Refresh() Request {
	c.mu.Lock()
	req := c.resetLocked(c.mode)
	state := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("refresh", "mode", req.Mode, "generation", req.Generation)
	c.emit(state)
	return req
}

// Execute performs req and applies its outcome. It returns the resulting
// state and whether the outcome was applied; a request made stale by a later
// mode change is discarded and leaves the state untouched.
func (c *Controller) Execute(ctx context.Context, req Request) (State, bool) {
	c.mu.Lock()
	if !c.currentLocked(req) {
		state := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Debug("skipping stale request", "mode", req.Mode, "page", req.Page, "generation", req.Generation)
		return state, false
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	page, err := c.fetch(fetchCtx, req)

	c.mu.Lock()
	if !c.currentLocked(req) {
		state := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Debug("discarding stale response", "mode", req.Mode, "page", req.Page, "generation", req.Generation)
		return state, false
	}
	c.inflight = 0
	c.cancel = nil

	var notice *domain.Notification
	switch {
	case err == nil:
		c.applyLocked(req, page)
	case errors.Is(err, domain.ErrInvalidPage):
		// Past the end of the catalog: stop paging, keep what we have
		c.hasMore = false
		c.status = StatusLoaded
		c.logger.Debug("page out of range", "mode", req.Mode, "page", req.Page)
	default:
		c.status = StatusError
		c.logger.Error("catalog fetch failed", "mode", req.Mode, "page", req.Page, "error", err)
		n := failureNotice(req.Mode)
		notice = &n
	}
	state := c.snapshotLocked()
	c.mu.Unlock()

	if notice != nil {
		c.notifier.Notify(*notice)
	}
	c.emit(state)
	return state, true
}

func (c *Controller) fetch(ctx context.Context, req Request) (domain.Page, error) {
	if query, ok := req.Mode.Query(); ok {
		return c.client.Search(ctx, query, req.Page)
	}
	kind, _ := req.Mode.Feed()
	return c.client.FetchFeed(ctx, kind, req.Page)
}

func (c *Controller) applyLocked(req Request, page domain.Page) {
	if req.Append {
		c.items = append(c.items, page.Items...)
	} else {
		c.items = append([]domain.CatalogItem{}, page.Items...)
	}
	c.page = req.Page
	c.loadedPages = req.Page
	c.hasMore = req.Page < page.TotalPages
	c.totalResults = page.TotalResults
	c.status = StatusLoaded
}

// resetLocked starts a new generation for mode at page 1
func (c *Controller) resetLocked(mode Mode) Request {
	c.bumpGenerationLocked()
	c.mode = mode
	c.items = []domain.CatalogItem{}
	c.page = 1
	c.loadedPages = 0
	c.hasMore = true
	c.totalResults = 0
	c.status = StatusLoading

	req := Request{
		Mode:       mode,
		Page:       1,
		Generation: c.generation,
	}
	req.token = c.issueLocked()
	return req
}

// leaveSearchLocked handles a blank query. It restores the saved feed when
// one was loaded, otherwise it reloads the last feed from page 1.
func (c *Controller) leaveSearchLocked() (req Request, ok bool, changed bool) {
	if !c.mode.IsSearch() {
		return Request{}, false, false
	}

	saved := c.saved
	c.saved = nil
	if saved == nil {
		return c.resetLocked(FeedMode(c.lastFeed)), true, true
	}

	c.bumpGenerationLocked()
	c.mode = saved.mode
	c.items = saved.items
	c.page = saved.page
	c.loadedPages = saved.loadedPages
	c.hasMore = saved.hasMore
	c.totalResults = saved.totalResults
	c.status = StatusLoaded
	c.logger.Debug("restored feed", "mode", c.mode, "page", c.page, "generation", c.generation)
	return Request{}, false, true
}

func (c *Controller) saveFeedLocked() {
	if c.loadedPages == 0 {
		c.saved = nil
		return
	}
	c.saved = &feedSnapshot{
		mode:         c.mode,
		items:        append([]domain.CatalogItem{}, c.items...),
		page:         c.page,
		loadedPages:  c.loadedPages,
		hasMore:      c.hasMore,
		totalResults: c.totalResults,
	}
}

// bumpGenerationLocked invalidates every outstanding request and cancels the
// one in flight, if any
func (c *Controller) bumpGenerationLocked() {
	c.generation++
	c.inflight = 0
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) issueLocked() uint64 {
	c.nextToken++
	c.inflight = c.nextToken
	return c.nextToken
}

func (c *Controller) currentLocked(req Request) bool {
	return req.Valid() && req.Generation == c.generation && req.token == c.inflight
}

func (c *Controller) snapshotLocked() State {
	return State{
		Mode:         c.mode,
		Status:       c.status,
		Items:        append([]domain.CatalogItem{}, c.items...),
		Page:         c.page,
		HasMore:      c.hasMore,
		IsLoading:    c.status == StatusLoading,
		TotalResults: c.totalResults,
		Generation:   c.generation,
	}
}

func (c *Controller) emit(state State) {
	c.obsMu.Lock()
	fns := make([]func(State), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.obsMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func failureNotice(mode Mode) domain.Notification {
	title := "Error fetching movies"
	if mode.IsSearch() {
		title = "Error searching movies"
	}
	return domain.Notification{
		Title:       title,
		Description: "Please try again later.",
		Severity:    domain.SeverityError,
	}
}
