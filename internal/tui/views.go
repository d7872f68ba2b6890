package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var body string
	switch m.Mode {
	case ViewFavorites:
		body = m.FavoriteList.View()
	case ViewDetails:
		body = m.Details.View()
	case ViewHelp:
		body = m.renderHelp()
	case ViewConfirmClear:
		body = m.renderConfirmClear()
	default:
		body = m.BrowseList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

// browseTitle names the list: the feed label or the search query
func (m Model) browseTitle() string {
	state := m.browseState
	if query, ok := state.Mode.Query(); ok {
		return fmt.Sprintf("Search: %q", query)
	}
	kind, _ := state.Mode.Feed()
	return kind.Label()
}

func (m Model) renderHeader() string {
	brand := styles.BadgeStyle.Render("reel")

	var left string
	switch m.Mode {
	case ViewFavorites, ViewConfirmClear:
		left = styles.TitleStyle.Render(fmt.Sprintf("Favorites (%d)", m.favs.Len()))
	default:
		left = m.renderFeedTabs()
	}

	right := m.renderCount()
	gap := max(m.Width-lipgloss.Width(brand)-lipgloss.Width(left)-lipgloss.Width(right)-3, 1)

	return styles.HeaderStyle.Render(brand + " " + left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFeedTabs() string {
	active, isFeed := m.browseState.Mode.Feed()

	tabs := make([]string, 0, len(domain.AllFeeds())+1)
	for i, kind := range domain.AllFeeds() {
		label := fmt.Sprintf("%d %s", i+1, kind.Label())
		if isFeed && kind == active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	if query, ok := m.browseState.Mode.Query(); ok {
		tabs = append(tabs, styles.ActiveTabStyle.Render("search: "+styles.Truncate(query, 24)))
	}
	return strings.Join(tabs, "")
}

func (m Model) renderCount() string {
	if m.Mode == ViewFavorites || m.Mode == ViewConfirmClear {
		return ""
	}
	state := m.browseState
	switch {
	case state.IsLoading && len(state.Items) == 0:
		return m.spinner.View() + styles.DimStyle.Render(" loading")
	case state.Status == browse.StatusError:
		return styles.ErrorStyle.Render("error")
	case len(state.Items) == 0:
		return ""
	}
	count := fmt.Sprintf("%d of %d", len(state.Items), state.TotalResults)
	if state.IsLoading {
		return m.spinner.View() + " " + styles.DimStyle.Render(count)
	}
	return styles.DimStyle.Render(count)
}

func (m Model) renderFooter() string {
	switch {
	case m.searchInput.Focused():
		return styles.FooterStyle.Render(m.searchInput.View())
	case m.favFilter.Focused() || (m.Mode == ViewFavorites && m.favFilter.Value() != ""):
		return styles.FooterStyle.Render(m.favFilter.View())
	case m.StatusMsg != "":
		style := styles.SubtitleStyle
		switch m.StatusSeverity {
		case domain.SeverityError:
			style = styles.ErrorStyle
		case domain.SeverityWarning:
			style = styles.WarningStyle
		}
		return styles.FooterStyle.Render(style.Render(styles.Truncate(m.StatusMsg, max(m.Width-2, 1))))
	}
	return styles.FooterStyle.Render(m.renderHints())
}

// renderHints shows the most relevant bindings for the current screen
func (m Model) renderHints() string {
	var bindings []key.Binding
	switch m.Mode {
	case ViewFavorites:
		bindings = []key.Binding{Keys.Enter, Keys.Delete, Keys.ClearAll, Keys.Filter, Keys.Back, Keys.Help}
	case ViewDetails:
		bindings = []key.Binding{Keys.ToggleFavorite, Keys.OpenPage, Keys.OpenPoster, Keys.Back, Keys.Quit}
	case ViewConfirmClear:
		bindings = []key.Binding{Keys.Confirm, Keys.Deny}
	case ViewHelp:
		return styles.DimStyle.Render("press any key to close")
	default:
		bindings = []key.Binding{Keys.Search, Keys.Filter, Keys.Enter, Keys.ToggleFavorite, Keys.Favorites, Keys.NextFeed, Keys.Help, Keys.Quit}
	}

	hints := make([]string, len(bindings))
	for i, b := range bindings {
		hints[i] = renderBinding(b)
	}
	return strings.Join(hints, "  ")
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return styles.HelpKeyStyle.Render(h.Key) + " " + styles.HelpDescStyle.Render(h.Desc)
}

func (m Model) renderHelp() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{Keys.Up, Keys.Down, Keys.HalfUp, Keys.HalfDown, Keys.Home, Keys.End, Keys.Enter, Keys.Back}},
		{"Feeds", []key.Binding{Keys.Feed1, Keys.Feed2, Keys.Feed3, Keys.Feed4, Keys.Feed5, Keys.NextFeed, Keys.PrevFeed, Keys.Refresh, Keys.LoadMore}},
		{"Search", []key.Binding{Keys.Search, Keys.Filter, Keys.Escape}},
		{"Favorites", []key.Binding{Keys.ToggleFavorite, Keys.Favorites, Keys.Delete, Keys.ClearAll}},
		{"Details", []key.Binding{Keys.OpenPage, Keys.OpenPoster}},
		{"General", []key.Binding{Keys.Help, Keys.Quit}},
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Keyboard shortcuts") + "\n")
	for _, section := range sections {
		b.WriteString(styles.AccentStyle.Render(section.title) + "\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "  %s %s\n",
				styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)),
				styles.HelpDescStyle.Render(h.Desc))
		}
		b.WriteString("\n")
	}

	return m.placeModal(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderConfirmClear() string {
	content := styles.ModalTitleStyle.Render("Clear favorites?") + "\n" +
		fmt.Sprintf("Remove all %d movies from your favorites.", m.favs.Len()) + "\n\n" +
		renderBinding(Keys.Confirm) + "  " + renderBinding(Keys.Deny)
	return m.placeModal(content)
}

func (m Model) placeModal(content string) string {
	return lipgloss.Place(
		m.Width, max(m.Height-ChromeHeight, 3),
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content),
	)
}
