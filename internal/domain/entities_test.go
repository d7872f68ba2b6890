package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogItem_Year(t *testing.T) {
	assert.Equal(t, 1999, CatalogItem{ReleaseDate: "1999-03-31"}.Year())
	assert.Equal(t, 0, CatalogItem{ReleaseDate: ""}.Year())
	assert.Equal(t, 0, CatalogItem{ReleaseDate: "TBA"}.Year())
}

func TestCatalogItem_Display(t *testing.T) {
	item := CatalogItem{VoteAverage: 8.216, PosterPath: "/p.jpg"}
	assert.Equal(t, "8.2", item.FormattedRating())
	assert.True(t, item.HasPoster())
	assert.False(t, item.HasBackdrop())
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{63000000, "$63,000,000"},
		{463517383, "$463,517,383"},
		{1000, "$1,000"},
		{999, "$999"},
		{5, "$5"},
		{0, ""},
		{-12, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDollars(tt.amount), "amount %d", tt.amount)
	}
}

func TestCatalogItemDetails_Formatting(t *testing.T) {
	d := CatalogItemDetails{
		Runtime: 136,
		Budget:  63000000,
		Genres:  []Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
	}
	assert.Equal(t, "2h 16m", d.FormattedRuntime())
	assert.Equal(t, "$63,000,000", d.FormattedBudget())
	assert.Equal(t, "", d.FormattedRevenue())
	assert.Equal(t, []string{"Action", "Science Fiction"}, d.GenreNames())

	assert.Equal(t, "", CatalogItemDetails{}.FormattedRuntime())
	assert.Equal(t, "0h 45m", CatalogItemDetails{Runtime: 45}.FormattedRuntime())
}

func TestParseFeedKind(t *testing.T) {
	for _, in := range []string{"top_rated", "top-rated", " TOP_RATED "} {
		k, err := ParseFeedKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, FeedTopRated, k)
	}

	_, err := ParseFeedKind("latest")
	assert.Error(t, err)
}

func TestFeedKinds(t *testing.T) {
	for _, k := range AllFeeds() {
		assert.True(t, k.Valid())
		assert.NotEqual(t, string(k), k.Label())
	}
	assert.False(t, FeedKind("").Valid())
}
