package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
)

var feedKeys = []struct {
	binding *key.Binding
	kind    domain.FeedKind
}{
	{&Keys.Feed1, domain.FeedPopular},
	{&Keys.Feed2, domain.FeedTopRated},
	{&Keys.Feed3, domain.FeedNowPlaying},
	{&Keys.Feed4, domain.FeedUpcoming},
	{&Keys.Feed5, domain.FeedTrending},
}

// handleKeyMsg routes a key press to the focused input or active screen
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Focused text inputs swallow every key
	if m.searchInput.Focused() {
		return m.handleSearchInput(msg)
	}
	if m.favFilter.Focused() {
		return m.handleFavoriteFilterInput(msg)
	}

	switch m.Mode {
	case ViewHelp:
		m.Mode = m.helpReturn
		return m, nil
	case ViewConfirmClear:
		return m.handleConfirmClear(msg)
	case ViewDetails:
		return m.handleDetailsKeys(msg)
	case ViewFavorites:
		return m.handleFavoritesKeys(msg)
	default:
		return m.handleBrowseKeys(msg)
	}
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.submitSearch()
	case "esc":
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) handleFavoriteFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.favFilter.Blur()
		return m, nil
	case "esc":
		m.favFilter.SetValue("")
		m.favFilter.Blur()
		m.refreshFavorites()
		return m, nil
	case "up", "down":
		m.FavoriteList.Update(msg)
		return m, nil
	}
	var cmd tea.Cmd
	m.favFilter, cmd = m.favFilter.Update(msg)
	m.FavoriteList.SetItems(m.favs.Filter(m.favFilter.Value()), false)
	return m, cmd
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The quick filter consumes keys while typing
	if m.BrowseList.IsFiltering() {
		return m, m.BrowseList.Update(msg)
	}

	for _, fk := range feedKeys {
		if key.Matches(msg, *fk.binding) {
			return m, m.selectFeed(fk.kind)
		}
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.helpReturn = m.Mode
		m.Mode = ViewHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		query, _ := m.browseState.Mode.Query()
		m.searchInput.SetValue(query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, Keys.Filter):
		return m, m.BrowseList.StartFilter()

	case key.Matches(msg, Keys.Escape):
		if m.BrowseList.HasFilter() {
			m.BrowseList.ClearFilter()
			return m, nil
		}
		if m.browseState.Mode.IsSearch() {
			return m, m.clearSearch()
		}
		return m, nil

	case key.Matches(msg, Keys.NextFeed):
		return m, m.cycleFeed(1)

	case key.Matches(msg, Keys.PrevFeed):
		return m, m.cycleFeed(-1)

	case key.Matches(msg, Keys.Refresh):
		m.BrowseList.ClearFilter()
		return m, m.runRequest(m.ctrl.Refresh())

	case key.Matches(msg, Keys.LoadMore):
		req, ok := m.ctrl.LoadMore()
		if !ok {
			return m, nil
		}
		return m, m.runRequest(req)

	case key.Matches(msg, Keys.ToggleFavorite):
		if item, ok := m.BrowseList.Selected(); ok {
			m.toggleFavorite(item)
		}
		return m, nil

	case key.Matches(msg, Keys.Favorites):
		m.Mode = ViewFavorites
		m.refreshFavorites()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if item, ok := m.BrowseList.Selected(); ok {
			return m, m.openDetails(item)
		}
		return m, nil
	}

	cmd := m.BrowseList.Update(msg)
	return m, tea.Batch(cmd, m.maybeLoadMore())
}

func (m Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.helpReturn = m.Mode
		m.Mode = ViewHelp
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, m.favFilter.Focus()

	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Back), key.Matches(msg, Keys.Favorites):
		if m.favFilter.Value() != "" {
			m.favFilter.SetValue("")
			m.refreshFavorites()
			return m, nil
		}
		m.Mode = ViewBrowse
		return m, nil

	case key.Matches(msg, Keys.Delete), key.Matches(msg, Keys.ToggleFavorite):
		if item, ok := m.FavoriteList.Selected(); ok {
			if err := m.favs.Remove(item.ID); err != nil {
				m.logger.Warn("favorite removal not persisted", "id", item.ID, "error", err)
			}
			m.refreshFavorites()
		}
		return m, nil

	case key.Matches(msg, Keys.ClearAll):
		if m.favs.Len() > 0 {
			m.Mode = ViewConfirmClear
		}
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if item, ok := m.FavoriteList.Selected(); ok {
			return m, m.openDetails(item)
		}
		return m, nil
	}

	return m, m.FavoriteList.Update(msg)
}

func (m Model) handleConfirmClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Confirm):
		if err := m.favs.Clear(); err != nil {
			m.logger.Warn("clearing favorites not persisted", "error", err)
		}
		m.favFilter.SetValue("")
		m.refreshFavorites()
		m.Mode = ViewFavorites
	case key.Matches(msg, Keys.Deny):
		m.Mode = ViewFavorites
	}
	return m, nil
}

func (m Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.helpReturn = m.Mode
		m.Mode = ViewHelp
		return m, nil

	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Back):
		m.Mode = m.prevMode
		m.detailsID = 0
		return m, nil

	case key.Matches(msg, Keys.ToggleFavorite):
		m.toggleFavorite(m.Details.Item())
		return m, nil

	case key.Matches(msg, Keys.OpenPage):
		return m, m.openURL(m.Details.MovieURL())

	case key.Matches(msg, Keys.OpenPoster):
		return m, m.openURL(m.Details.PosterURL())
	}
	return m, nil
}

func (m *Model) openURL(url string) tea.Cmd {
	if m.opener == nil {
		return nil
	}
	if url == "" {
		return m.setStatus("Nothing to open", domain.SeverityInfo)
	}
	return OpenURLCmd(m.opener, url)
}
