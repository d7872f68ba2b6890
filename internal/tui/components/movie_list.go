package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for the movie list
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Title line plus the "↑ more" and "↓ more" indicators
	chromeLines = 3

	// loadAheadRows is how close to the end the cursor gets before the
	// next page is requested
	loadAheadRows = 5
)

// MovieList is a scrollable list of catalog items with an optional local
// quick filter over the loaded rows
type MovieList struct {
	items []domain.CatalogItem

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title       string
	emptyText   string
	loading     bool
	spinnerView string

	// Row decorations
	isFavorite func(id int) bool
	genreName  func(id int) string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	matches      fuzzy.Matches // nil when no filter is applied
}

// NewMovieList creates an empty list with the given title
func NewMovieList(title string) *MovieList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &MovieList{
		title:       title,
		emptyText:   "No movies",
		filterInput: ti,
		focused:     true,
	}
}

// SetTitle changes the header line
func (l *MovieList) SetTitle(title string) {
	l.title = title
}

// SetEmptyText changes the placeholder shown when there are no rows
func (l *MovieList) SetEmptyText(text string) {
	l.emptyText = text
}

// SetDecorators sets lookups used when rendering rows. Either may be nil.
func (l *MovieList) SetDecorators(isFavorite func(id int) bool, genreName func(id int) string) {
	l.isFavorite = isFavorite
	l.genreName = genreName
}

// SetItems replaces the rows. When keepCursor is false the view scrolls
// back to the top; otherwise the selection stays where it was, which is
// what appending a page needs.
func (l *MovieList) SetItems(items []domain.CatalogItem, keepCursor bool) {
	l.items = items
	if !keepCursor {
		l.cursor = 0
		l.offset = 0
	}
	if l.filterQuery != "" {
		l.applyFilter()
	}
	l.clampCursor()
}

// Items returns every row, ignoring the filter
func (l *MovieList) Items() []domain.CatalogItem {
	return l.items
}

// SetLoading toggles the loading indicator. spinnerView is rendered next to
// the title while loading.
func (l *MovieList) SetLoading(loading bool, spinnerView string) {
	l.loading = loading
	l.spinnerView = spinnerView
}

// SetFocused controls border highlighting
func (l *MovieList) SetFocused(focused bool) {
	l.focused = focused
}

// SetSize sets the rendered size including the border
func (l *MovieList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

// Selected returns the item under the cursor
func (l *MovieList) Selected() (domain.CatalogItem, bool) {
	count := l.ItemCount()
	if count == 0 || l.cursor >= count {
		return domain.CatalogItem{}, false
	}
	return l.items[l.mapIndex(l.cursor)], true
}

// SelectedIndex returns the cursor position among the visible rows
func (l *MovieList) SelectedIndex() int {
	return l.cursor
}

// ItemCount returns the number of visible rows (after filtering)
func (l *MovieList) ItemCount() int {
	if l.matches != nil {
		return len(l.matches)
	}
	return len(l.items)
}

// NearEnd reports whether the cursor is close enough to the last row that
// the next page should be fetched. Never true while filtering.
func (l *MovieList) NearEnd() bool {
	if l.matches != nil || len(l.items) == 0 {
		return false
	}
	return l.cursor >= len(l.items)-loadAheadRows
}

// IsFiltering returns true when the filter input has focus
func (l *MovieList) IsFiltering() bool {
	return l.filterActive && l.filterInput.Focused()
}

// HasFilter returns true when a filter is applied
func (l *MovieList) HasFilter() bool {
	return l.filterActive
}

// FilterQuery returns the applied filter text
func (l *MovieList) FilterQuery() string {
	return l.filterQuery
}

// StartFilter focuses the filter input
func (l *MovieList) StartFilter() tea.Cmd {
	l.filterActive = true
	l.recalcMaxVisible()
	return l.filterInput.Focus()
}

// ClearFilter removes the filter and shows every row
func (l *MovieList) ClearFilter() {
	if l.matches != nil {
		// Keep the selected movie under the cursor
		if l.cursor < len(l.matches) {
			l.cursor = l.matches[l.cursor].Index
		}
	}
	l.filterActive = false
	l.filterQuery = ""
	l.matches = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.clampCursor()
	l.ensureVisible()
}

// Update handles navigation and filter keys
func (l *MovieList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if l.IsFiltering() {
		switch keyMsg.String() {
		case "esc":
			l.ClearFilter()
			return nil
		case "enter":
			// Keep the filter applied, return to navigation
			l.filterInput.Blur()
			return nil
		case "up", "down", "ctrl+u", "ctrl+d":
			// Navigate matches without leaving the input
		default:
			var cmd tea.Cmd
			l.filterInput, cmd = l.filterInput.Update(msg)
			l.applyFilter()
			return cmd
		}
	}

	count := l.ItemCount()
	if count == 0 {
		return nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if l.cursor < count-1 {
			l.cursor++
		}
	case "k", "up":
		if l.cursor > 0 {
			l.cursor--
		}
	case "g", "home":
		l.cursor = 0
	case "G", "end":
		l.cursor = count - 1
	case "ctrl+d", "pgdown":
		l.cursor = min(l.cursor+max(l.maxVisible/2, 1), count-1)
	case "ctrl+u", "pgup":
		l.cursor = max(l.cursor-max(l.maxVisible/2, 1), 0)
	}
	l.ensureVisible()
	return nil
}

// View renders the bordered list
func (l *MovieList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *MovieList) renderContent() string {
	itemWidth := max(l.width-BorderWidth, 10)

	title := l.title
	if l.loading && l.spinnerView != "" {
		title = l.spinnerView + " " + title
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, itemWidth))

	count := l.ItemCount()
	if count == 0 {
		empty := l.emptyText
		switch {
		case l.loading:
			empty = "Loading..."
		case l.filterQuery != "":
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty) + "\n "
		if l.filterActive {
			content += "\n" + l.renderFilterBar(itemWidth)
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(i, i == l.cursor, itemWidth))
	}

	// Always reserve the indicator lines so the layout doesn't shift
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar(itemWidth)
	}
	return content
}

func (l *MovieList) renderRow(row int, selected bool, width int) string {
	item := l.items[l.mapIndex(row)]

	marker := "  "
	if l.isFavorite != nil && l.isFavorite(item.ID) {
		marker = styles.FavoriteChar + " "
	}

	meta := formatMeta(item, l.genreName)
	titleWidth := max(width-4-len([]rune(meta))-1, 8)
	title := styles.Truncate(item.Title, titleWidth)

	parts := []styles.RowPart{{Text: marker, Foreground: &styles.Amber}}
	if l.matches != nil {
		parts = append(parts, highlightParts(title, l.matches[row].MatchedIndexes)...)
	} else {
		parts = append(parts, styles.RowPart{Text: title})
	}
	gap := max(titleWidth-len([]rune(title)), 0) + 1
	parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap) + meta, Foreground: &styles.DimGray})

	return styles.RenderListRow(parts, selected, width)
}

// formatMeta renders "1999 · Action · 8.2"
func formatMeta(item domain.CatalogItem, genreName func(int) string) string {
	var fields []string
	if year := item.Year(); year > 0 {
		fields = append(fields, fmt.Sprintf("%d", year))
	}
	if genreName != nil && len(item.GenreIDs) > 0 {
		if name := genreName(item.GenreIDs[0]); name != "" {
			fields = append(fields, name)
		}
	}
	if item.VoteCount > 0 {
		fields = append(fields, item.FormattedRating())
	}
	return strings.Join(fields, " · ")
}

// highlightParts splits title into runs, emphasizing matched rune positions
func highlightParts(title string, matched []int) []styles.RowPart {
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var parts []styles.RowPart
	var run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runHit {
			part.Style = styles.MatchHighlightStyle
		}
		parts = append(parts, part)
		run.Reset()
	}

	// MatchedIndexes are byte offsets into the lowercased title
	for i, r := range title {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run.WriteRune(r)
	}
	flush()
	return parts
}

func (l *MovieList) renderFilterBar(width int) string {
	l.filterInput.Width = max(width-4, 1)
	return l.filterInput.View()
}

func (l *MovieList) applyFilter() {
	query := l.filterInput.Value()
	l.filterQuery = query
	l.cursor = 0
	l.offset = 0

	if query == "" {
		l.matches = nil
		return
	}

	lowerTitles := make([]string, len(l.items))
	for i, item := range l.items {
		lowerTitles[i] = strings.ToLower(item.Title)
	}
	l.matches = fuzzy.Find(strings.ToLower(query), lowerTitles)
	if l.matches == nil {
		l.matches = fuzzy.Matches{}
	}
}

func (l *MovieList) mapIndex(row int) int {
	if l.matches != nil {
		return l.matches[row].Index
	}
	return row
}

func (l *MovieList) clampCursor() {
	count := l.ItemCount()
	if l.cursor >= count {
		l.cursor = max(count-1, 0)
	}
}

func (l *MovieList) recalcMaxVisible() {
	visible := l.height - BorderHeight - chromeLines
	if l.filterActive {
		visible--
	}
	l.maxVisible = max(visible, 1)
}

func (l *MovieList) ensureVisible() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}
