package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/favorites"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ViewMode is the screen currently shown
type ViewMode int

const (
	ViewBrowse ViewMode = iota
	ViewFavorites
	ViewDetails
	ViewHelp
	ViewConfirmClear
)

// Vertical chrome: header and footer lines
const ChromeHeight = 2

// Opener launches URLs outside the terminal
type Opener interface {
	Launch(url string) error
}

// Deps are the services the TUI drives
type Deps struct {
	Browse        *browse.Controller
	Favorites     *favorites.Store
	Catalog       domain.CatalogClient
	Genres        domain.GenreLister         // optional
	Links         components.Linker          // optional
	Opener        Opener                     // optional
	Notifications <-chan domain.Notification // optional
	DefaultFeed   domain.FeedKind
	Logger        *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	Mode       ViewMode
	prevMode   ViewMode // screen to return to from details
	helpReturn ViewMode
	Ready      bool

	// Services
	ctrl          *browse.Controller
	favs          *favorites.Store
	catalog       domain.CatalogClient
	genreLister   domain.GenreLister
	opener        Opener
	notifications <-chan domain.Notification
	defaultFeed   domain.FeedKind
	logger        *slog.Logger

	// UI Components
	BrowseList   *components.MovieList
	FavoriteList *components.MovieList
	Details      components.Details
	searchInput  textinput.Model
	favFilter    textinput.Model
	spinner      spinner.Model

	// Data
	browseState browse.State
	genres      map[int]string
	detailsID   int

	// Dimensions
	Width  int
	Height int

	// Status line
	StatusMsg      string
	StatusSeverity domain.Severity
	statusSeq      int
}

// NewModel creates a new application model
func NewModel(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !deps.DefaultFeed.Valid() {
		deps.DefaultFeed = domain.FeedPopular
	}

	search := textinput.New()
	search.Placeholder = "search movies..."
	search.Prompt = "search: "
	search.PromptStyle = styles.FilterPromptStyle
	search.TextStyle = styles.FilterStyle
	search.CharLimit = 100

	favFilter := textinput.New()
	favFilter.Placeholder = "type to filter favorites..."
	favFilter.Prompt = "/ "
	favFilter.PromptStyle = styles.FilterPromptStyle
	favFilter.TextStyle = styles.FilterStyle

	m := Model{
		Mode:          ViewBrowse,
		ctrl:          deps.Browse,
		favs:          deps.Favorites,
		catalog:       deps.Catalog,
		genreLister:   deps.Genres,
		opener:        deps.Opener,
		notifications: deps.Notifications,
		defaultFeed:   deps.DefaultFeed,
		logger:        logger,
		BrowseList:    components.NewMovieList(deps.DefaultFeed.Label()),
		FavoriteList:  components.NewMovieList("Favorites"),
		Details:       components.NewDetails(deps.Links),
		searchInput:   search,
		favFilter:     favFilter,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.SpinnerStyle)),
		genres:        make(map[int]string),
	}

	m.BrowseList.SetDecorators(m.favs.Contains, m.genreName)
	m.FavoriteList.SetDecorators(nil, m.genreName)
	m.FavoriteList.SetEmptyText("No favorites yet. Press space on a movie to add it.")
	m.browseState = m.ctrl.State()
	m.refreshFavorites()
	return m
}

// Init selects the default feed and starts background loaders
func (m Model) Init() tea.Cmd {
	req := m.ctrl.SelectFeed(m.defaultFeed)
	return tea.Batch(
		m.spinner.Tick,
		ExecuteCmd(m.ctrl, req),
		LoadGenresCmd(m.genreLister),
		WaitForNotificationCmd(m.notifications),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		m.syncBrowse()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.BrowseList.SetLoading(m.browseState.IsLoading, m.spinner.View())
		return m, cmd

	case BrowseResultMsg:
		// The controller is authoritative even when this result was stale
		m.syncBrowse()
		return m, m.maybeLoadMore()

	case DetailsLoadedMsg:
		if msg.Details != nil && msg.Details.ID == m.detailsID {
			m.Details.SetDetails(msg.Details)
		}
		return m, nil

	case DetailsFailedMsg:
		if msg.ID != m.detailsID {
			return m, nil
		}
		m.Details.SetFailed()
		m.logger.Warn("details fetch failed", "id", msg.ID, "error", msg.Err)
		text := "Could not load movie details"
		if errors.Is(msg.Err, domain.ErrItemNotFound) {
			text = "Movie not found"
		}
		return m, m.setStatus(text, domain.SeverityError)

	case GenresLoadedMsg:
		for _, g := range msg.Genres {
			m.genres[g.ID] = g.Name
		}
		return m, nil

	case NotificationMsg:
		n := msg.Notification
		text := n.Title
		if n.Description != "" {
			text = fmt.Sprintf("%s: %s", n.Title, n.Description)
		}
		return m, tea.Batch(
			m.setStatus(text, n.Severity),
			WaitForNotificationCmd(m.notifications),
		)

	case LaunchFailedMsg:
		m.logger.Warn("launch failed", "url", msg.URL, "error", msg.Err)
		return m, m.setStatus("Could not open browser", domain.SeverityWarning)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
		}
		return m, nil

	case ErrMsg:
		m.logger.Warn("background task failed", "context", msg.Context, "error", msg.Err)
		return m, nil
	}

	return m, nil
}

// syncBrowse copies the controller state into the browse list
func (m *Model) syncBrowse() {
	state := m.ctrl.State()
	keepCursor := state.Generation == m.browseState.Generation
	m.browseState = state

	m.BrowseList.SetItems(state.Items, keepCursor)
	m.BrowseList.SetTitle(m.browseTitle())
	m.BrowseList.SetLoading(state.IsLoading, m.spinner.View())

	switch {
	case state.Status == browse.StatusError:
		m.BrowseList.SetEmptyText("Could not load movies. Press r to retry.")
	case state.Mode.IsSearch():
		query, _ := state.Mode.Query()
		m.BrowseList.SetEmptyText(fmt.Sprintf("No results for %q", query))
	default:
		m.BrowseList.SetEmptyText("No movies")
	}
}

// runRequest syncs the list after a controller operation and executes req
func (m *Model) runRequest(req browse.Request) tea.Cmd {
	m.syncBrowse()
	return ExecuteCmd(m.ctrl, req)
}

// maybeLoadMore fetches the next page once the cursor nears the end
func (m *Model) maybeLoadMore() tea.Cmd {
	if m.Mode != ViewBrowse || m.browseState.Status != browse.StatusLoaded {
		return nil
	}
	if !m.browseState.HasMore || !m.BrowseList.NearEnd() {
		return nil
	}
	req, ok := m.ctrl.LoadMore()
	if !ok {
		return nil
	}
	return m.runRequest(req)
}

func (m *Model) selectFeed(kind domain.FeedKind) tea.Cmd {
	m.BrowseList.ClearFilter()
	return m.runRequest(m.ctrl.SelectFeed(kind))
}

// cycleFeed moves to the next or previous feed tab
func (m *Model) cycleFeed(step int) tea.Cmd {
	feeds := domain.AllFeeds()
	current, ok := m.browseState.Mode.Feed()
	if !ok {
		current = feeds[len(feeds)-1]
		if step < 0 {
			current = feeds[0]
		}
	}
	idx := 0
	for i, f := range feeds {
		if f == current {
			idx = i
		}
	}
	next := (idx + step + len(feeds)) % len(feeds)
	return m.selectFeed(feeds[next])
}

func (m *Model) submitSearch() tea.Cmd {
	m.searchInput.Blur()
	m.BrowseList.ClearFilter()
	req, ok := m.ctrl.SubmitQuery(m.searchInput.Value())
	if !ok {
		m.syncBrowse()
		return nil
	}
	return m.runRequest(req)
}

func (m *Model) clearSearch() tea.Cmd {
	m.searchInput.SetValue("")
	req, ok := m.ctrl.SubmitQuery("")
	if !ok {
		m.syncBrowse()
		return nil
	}
	return m.runRequest(req)
}

func (m *Model) toggleFavorite(item domain.CatalogItem) {
	if _, err := m.favs.Toggle(item); err != nil {
		// The store already notified; the change is kept in memory
		m.logger.Warn("favorite not persisted", "id", item.ID, "error", err)
	}
	m.refreshFavorites()
	if m.Mode == ViewDetails {
		m.Details.SetFavorite(m.favs.Contains(item.ID))
	}
}

// refreshFavorites reloads the favorites list through the current filter
func (m *Model) refreshFavorites() {
	m.FavoriteList.SetItems(m.favs.Filter(m.favFilter.Value()), true)
	m.FavoriteList.SetTitle(fmt.Sprintf("Favorites (%d)", m.favs.Len()))
}

// openDetails navigates to the details screen for item
func (m *Model) openDetails(item domain.CatalogItem) tea.Cmd {
	if m.Mode != ViewDetails {
		m.prevMode = m.Mode
	}
	m.Mode = ViewDetails
	m.detailsID = item.ID
	m.Details.Show(item)
	m.Details.SetFavorite(m.favs.Contains(item.ID))
	m.logger.Debug("open details", "id", item.ID, "title", item.Title)
	return LoadDetailsCmd(m.catalog, item.ID)
}

func (m *Model) setStatus(text string, severity domain.Severity) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusSeverity = severity
	return ClearStatusCmd(m.statusSeq)
}

func (m Model) genreName(id int) string {
	return m.genres[id]
}

func (m *Model) updateLayout() {
	bodyHeight := max(m.Height-ChromeHeight, 3)
	m.BrowseList.SetSize(m.Width, bodyHeight)
	m.FavoriteList.SetSize(m.Width, bodyHeight)
	m.Details.SetSize(m.Width, bodyHeight)
	m.searchInput.Width = max(m.Width-12, 10)
	m.favFilter.Width = max(m.Width-6, 10)
}
