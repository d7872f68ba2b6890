package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: 1, Title: "Heat", ReleaseDate: "1995-12-15"},
		{ID: 2, Title: "The Matrix", ReleaseDate: "1999-03-31"},
		{ID: 3, Title: "Alien", ReleaseDate: "1979-05-25"},
	}
}

func TestMovieList_Navigation(t *testing.T) {
	l := NewMovieList("Popular")
	l.SetSize(80, 20)
	l.SetItems(sampleItems(), false)

	item, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, item.ID)

	l.Update(runes("j"))
	l.Update(runes("j"))
	l.Update(runes("j"))
	item, _ = l.Selected()
	assert.Equal(t, 3, item.ID, "cursor stops at the last row")

	l.Update(runes("g"))
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestMovieList_SetItemsKeepsCursorOnAppend(t *testing.T) {
	l := NewMovieList("Popular")
	l.SetSize(80, 20)
	l.SetItems(sampleItems(), false)
	l.Update(runes("G"))

	more := append(sampleItems(), domain.CatalogItem{ID: 4, Title: "Aliens"})
	l.SetItems(more, true)
	assert.Equal(t, 2, l.SelectedIndex())

	l.SetItems(more, false)
	assert.Equal(t, 0, l.SelectedIndex())
}

func TestMovieList_NearEnd(t *testing.T) {
	items := make([]domain.CatalogItem, 20)
	for i := range items {
		items[i] = domain.CatalogItem{ID: i + 1, Title: "Movie"}
	}
	l := NewMovieList("Popular")
	l.SetSize(80, 10)
	l.SetItems(items, false)
	assert.False(t, l.NearEnd())

	l.Update(runes("G"))
	assert.True(t, l.NearEnd())

	l.SetItems(nil, false)
	assert.False(t, l.NearEnd())
}

func TestMovieList_QuickFilter(t *testing.T) {
	l := NewMovieList("Popular")
	l.SetSize(80, 20)
	l.SetItems(sampleItems(), false)

	l.StartFilter()
	require.True(t, l.IsFiltering())
	l.Update(runes("mtx"))

	assert.Equal(t, "mtx", l.FilterQuery())
	require.Equal(t, 1, l.ItemCount())
	item, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, item.ID)
	assert.False(t, l.NearEnd(), "no paging while filtering")

	l.ClearFilter()
	assert.Equal(t, 3, l.ItemCount())
	item, _ = l.Selected()
	assert.Equal(t, 2, item.ID, "selection survives clearing the filter")
}

func TestMovieList_FilterNoMatches(t *testing.T) {
	l := NewMovieList("Popular")
	l.SetSize(80, 20)
	l.SetItems(sampleItems(), false)
	l.StartFilter()
	l.Update(runes("zzz"))

	assert.Equal(t, 0, l.ItemCount())
	_, ok := l.Selected()
	assert.False(t, ok)
	assert.Contains(t, l.View(), "No matches")
}

func TestHighlightParts(t *testing.T) {
	parts := highlightParts("Heat", []int{0, 1})
	require.Len(t, parts, 2)
	assert.Equal(t, "He", parts[0].Text)
	assert.Equal(t, "at", parts[1].Text)
}

func TestFormatMeta(t *testing.T) {
	item := domain.CatalogItem{ReleaseDate: "1999-03-31", GenreIDs: []int{28}, VoteAverage: 8.2, VoteCount: 100}
	genres := func(id int) string {
		if id == 28 {
			return "Action"
		}
		return ""
	}
	assert.Equal(t, "1999 · Action · 8.2", formatMeta(item, genres))
	assert.Equal(t, "", formatMeta(domain.CatalogItem{}, nil))
}
