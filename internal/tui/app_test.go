package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/favorites"
	"github.com/mmcdole/reel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog serves 20-item pages; search results are a single page
type stubCatalog struct{}

func (stubCatalog) FetchFeed(ctx context.Context, kind domain.FeedKind, page int) (domain.Page, error) {
	items := make([]domain.CatalogItem, 20)
	for i := range items {
		id := (page-1)*20 + i + 1
		items[i] = domain.CatalogItem{ID: id, Title: string(kind) + " movie", ReleaseDate: "2001-01-01"}
	}
	return domain.Page{Items: items, Number: page, TotalPages: 3, TotalResults: 60}, nil
}

func (stubCatalog) Search(ctx context.Context, query string, page int) (domain.Page, error) {
	items := []domain.CatalogItem{{ID: 603, Title: "The Matrix"}, {ID: 604, Title: "The Matrix Reloaded"}}
	return domain.Page{Items: items, Number: 1, TotalPages: 1, TotalResults: 2}, nil
}

func (stubCatalog) FetchDetails(ctx context.Context, id int) (*domain.CatalogItemDetails, error) {
	if id != 603 {
		return nil, domain.ErrItemNotFound
	}
	return &domain.CatalogItemDetails{
		CatalogItem: domain.CatalogItem{ID: 603, Title: "The Matrix"},
		Runtime:     136,
	}, nil
}

func newTestModel(t *testing.T) (Model, *favorites.Store) {
	t.Helper()
	kv, err := store.NewBoltStore("")
	require.NoError(t, err)
	favs := favorites.NewStore(kv, nil, nil)
	catalog := stubCatalog{}

	m := NewModel(Deps{
		Browse:      browse.NewController(catalog, nil, domain.FeedPopular, nil),
		Favorites:   favs,
		Catalog:     catalog,
		DefaultFeed: domain.FeedPopular,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, favs
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and drops any command it produced
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, keyPress(s))
}

// pressFetch sends a key that issues a browse request and applies its result
func pressFetch(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(keyPress(s))
	m = next.(Model)
	require.NotNil(t, cmd, "key %q should issue a request", s)
	result, ok := cmd().(BrowseResultMsg)
	require.True(t, ok, "key %q should produce a browse result", s)
	return update(t, m, result)
}

func TestModel_SelectFeedByNumber(t *testing.T) {
	m, _ := newTestModel(t)

	m = pressFetch(t, m, "2")

	kind, ok := m.browseState.Mode.Feed()
	require.True(t, ok)
	assert.Equal(t, domain.FeedTopRated, kind)
	assert.Equal(t, browse.StatusLoaded, m.browseState.Status)
	assert.Equal(t, 20, m.BrowseList.ItemCount())
}

func TestModel_SearchAndClear(t *testing.T) {
	m, _ := newTestModel(t)
	m = pressFetch(t, m, "1")

	m = press(t, m, "f")
	require.True(t, m.searchInput.Focused())
	m = press(t, m, "matrix")
	m = pressFetch(t, m, "enter")

	assert.False(t, m.searchInput.Focused())
	assert.True(t, m.browseState.Mode.IsSearch())
	assert.Equal(t, 2, m.BrowseList.ItemCount())
	assert.Equal(t, `Search: "matrix"`, m.browseTitle())

	m = press(t, m, "esc")
	assert.False(t, m.browseState.Mode.IsSearch())
	assert.Equal(t, 20, m.BrowseList.ItemCount(), "feed restored without refetching")
}

func TestModel_ToggleFavoriteAndFavoritesView(t *testing.T) {
	m, favs := newTestModel(t)
	m = pressFetch(t, m, "1")

	m = press(t, m, " ")
	assert.True(t, favs.Contains(1))

	m = press(t, m, "F")
	assert.Equal(t, ViewFavorites, m.Mode)
	assert.Equal(t, 1, m.FavoriteList.ItemCount())

	m = press(t, m, "x")
	assert.False(t, favs.Contains(1))
	assert.Equal(t, 0, m.FavoriteList.ItemCount())

	m = press(t, m, "esc")
	assert.Equal(t, ViewBrowse, m.Mode)
}

func TestModel_ClearFavoritesNeedsConfirmation(t *testing.T) {
	m, favs := newTestModel(t)
	require.NoError(t, favs.Add(domain.CatalogItem{ID: 7, Title: "Se7en"}))
	require.NoError(t, favs.Add(domain.CatalogItem{ID: 8, Title: "Heat"}))

	m = press(t, m, "F")
	m = press(t, m, "X")
	assert.Equal(t, ViewConfirmClear, m.Mode)

	m = press(t, m, "n")
	assert.Equal(t, ViewFavorites, m.Mode)
	assert.Equal(t, 2, favs.Len())

	m = press(t, m, "X")
	m = press(t, m, "y")
	assert.Equal(t, ViewFavorites, m.Mode)
	assert.Equal(t, 0, favs.Len())
}

func TestModel_OpenDetails(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "f")
	m = press(t, m, "matrix")
	m = pressFetch(t, m, "enter")

	next, cmd := m.Update(keyPress("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewDetails, m.Mode)
	assert.Equal(t, 603, m.detailsID)

	m = update(t, m, cmd())
	assert.Equal(t, 603, m.Details.Item().ID)
	assert.Contains(t, m.Details.View(), "2h 16m")

	m = press(t, m, "esc")
	assert.Equal(t, ViewBrowse, m.Mode)
}

type stubLinks struct{}

func (stubLinks) MovieURL(item domain.CatalogItem) string {
	return fmt.Sprintf("https://www.themoviedb.org/movie/%d", item.ID)
}
func (stubLinks) PosterURL(item domain.CatalogItem) string   { return "" }
func (stubLinks) BackdropURL(item domain.CatalogItem) string { return "" }

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Launch(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

func TestModel_OpenInBrowser(t *testing.T) {
	kv, err := store.NewBoltStore("")
	require.NoError(t, err)
	opener := &recordingOpener{err: errors.New("no browser")}
	m := NewModel(Deps{
		Browse:      browse.NewController(stubCatalog{}, nil, domain.FeedPopular, nil),
		Favorites:   favorites.NewStore(kv, nil, nil),
		Catalog:     stubCatalog{},
		Links:       stubLinks{},
		Opener:      opener,
		DefaultFeed: domain.FeedPopular,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = pressFetch(t, m, "1")
	m = press(t, m, "enter")
	require.Equal(t, ViewDetails, m.Mode)
	assert.Contains(t, m.Details.View(), "https://www.themoviedb.org/movie/1")

	next, cmd := m.Update(keyPress("o"))
	m = next.(Model)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Equal(t, []string{"https://www.themoviedb.org/movie/1"}, opener.urls)
	assert.Equal(t, "Could not open browser", m.StatusMsg)

	// No poster path: nothing is launched
	m = press(t, m, "p")
	assert.Len(t, opener.urls, 1)
	assert.Equal(t, "Nothing to open", m.StatusMsg)
}

func TestModel_DetailsNotFound(t *testing.T) {
	m, _ := newTestModel(t)
	m = pressFetch(t, m, "1")

	next, cmd := m.Update(keyPress("enter"))
	m = next.(Model)
	m = update(t, m, cmd())
	assert.Equal(t, "Movie not found", m.StatusMsg)
	assert.Equal(t, domain.SeverityError, m.StatusSeverity)
}

func TestModel_NotificationShowsStatus(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, NotificationMsg{Notification: domain.Notification{
		Title:       "Added to favorites",
		Description: "Heat has been added to your favorites.",
	}})
	assert.Equal(t, "Added to favorites: Heat has been added to your favorites.", m.StatusMsg)

	m = update(t, m, ClearStatusMsg{Seq: m.statusSeq - 1})
	assert.NotEmpty(t, m.StatusMsg, "an older timer does not clear a newer message")
	m = update(t, m, ClearStatusMsg{Seq: m.statusSeq})
	assert.Empty(t, m.StatusMsg)
}

func TestModel_HelpReturnsToPreviousScreen(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "F")
	m = press(t, m, "?")
	assert.Equal(t, ViewHelp, m.Mode)
	assert.NotEmpty(t, m.View())

	m = press(t, m, "j")
	assert.Equal(t, ViewFavorites, m.Mode)
}

func TestChannelNotifier_DropsWhenFull(t *testing.T) {
	n := NewChannelNotifier(1)
	n.Notify(domain.Notification{Title: "first"})
	n.Notify(domain.Notification{Title: "second"})

	got := <-n.C()
	assert.Equal(t, "first", got.Title)
	select {
	case extra := <-n.C():
		t.Fatalf("unexpected notification %q", extra.Title)
	default:
	}
}

func TestExecuteCmd_InvalidRequest(t *testing.T) {
	assert.Nil(t, ExecuteCmd(nil, browse.Request{}))
}

// deadlineCatalog records whether feed fetches carry a context deadline
type deadlineCatalog struct {
	stubCatalog
	hadDeadline bool
}

func (d *deadlineCatalog) FetchFeed(ctx context.Context, kind domain.FeedKind, page int) (domain.Page, error) {
	_, d.hadDeadline = ctx.Deadline()
	return d.stubCatalog.FetchFeed(ctx, kind, page)
}

func TestExecuteCmd_NoExtraDeadline(t *testing.T) {
	catalog := &deadlineCatalog{}
	ctrl := browse.NewController(catalog, nil, domain.FeedPopular, nil)

	cmd := ExecuteCmd(ctrl, ctrl.SelectFeed(domain.FeedPopular))
	require.NotNil(t, cmd)
	msg, ok := cmd().(BrowseResultMsg)
	require.True(t, ok)
	assert.True(t, msg.Applied)
	assert.False(t, catalog.hadDeadline, "the catalog client owns request timeouts")
}
