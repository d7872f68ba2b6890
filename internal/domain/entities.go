package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CatalogItem is one movie as returned by a catalog listing.
// Items are never mutated after decoding; favorites key on ID.
type CatalogItem struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`   // Empty when the catalog has no poster
	BackdropPath     string  `json:"backdrop_path"` // Empty when the catalog has no backdrop
	ReleaseDate      string  `json:"release_date"`  // ISO date, may be partial or empty
	VoteAverage      float64 `json:"vote_average"`  // 0-10
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
}

// Year returns the release year, or 0 when the release date is unknown
func (c CatalogItem) Year() int {
	if len(c.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(c.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// FormattedRating returns the vote average with one decimal place
func (c CatalogItem) FormattedRating() string {
	return fmt.Sprintf("%.1f", c.VoteAverage)
}

// HasPoster reports whether the item carries a poster image reference
func (c CatalogItem) HasPoster() bool {
	return c.PosterPath != ""
}

// HasBackdrop reports whether the item carries a backdrop image reference
func (c CatalogItem) HasBackdrop() bool {
	return c.BackdropPath != ""
}

// Genre is a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompany is a studio credited on a movie
type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// ProductionCountry is identified by its ISO 3166-1 code
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// SpokenLanguage is identified by its ISO 639-1 code
type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// CatalogItemDetails extends CatalogItem with the fields only the
// per-item endpoint returns
type CatalogItemDetails struct {
	CatalogItem

	Runtime             int                 `json:"runtime"` // Minutes
	Budget              int64               `json:"budget"`  // Smallest currency unit
	Revenue             int64               `json:"revenue"`
	Status              string              `json:"status"`
	Tagline             string              `json:"tagline"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
}

// FormattedRuntime returns the runtime as "2h 16m", or "" when unknown
func (d CatalogItemDetails) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh %dm", d.Runtime/60, d.Runtime%60)
}

// FormattedBudget returns the budget in whole dollars, or "" when unknown
func (d CatalogItemDetails) FormattedBudget() string {
	return FormatDollars(d.Budget)
}

// FormattedRevenue returns the revenue in whole dollars, or "" when unknown
func (d CatalogItemDetails) FormattedRevenue() string {
	return FormatDollars(d.Revenue)
}

// GenreNames returns the resolved genre names in catalog order
func (d CatalogItemDetails) GenreNames() []string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return names
}

// FormatDollars renders an amount as "$63,000,000". Non-positive amounts
// mean the catalog doesn't know the figure and render as "".
func FormatDollars(amount int64) string {
	if amount <= 0 {
		return ""
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 1 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Page is one page of a ranked feed or search result
type Page struct {
	Items        []CatalogItem
	Number       int // 1-indexed
	TotalPages   int
	TotalResults int
}

// FeedKind identifies one of the fixed catalog rankings
type FeedKind string

const (
	FeedPopular    FeedKind = "popular"
	FeedTopRated   FeedKind = "top_rated"
	FeedNowPlaying FeedKind = "now_playing"
	FeedUpcoming   FeedKind = "upcoming"
	FeedTrending   FeedKind = "trending"
)

// AllFeeds returns every feed kind in display order
func AllFeeds() []FeedKind {
	return []FeedKind{FeedPopular, FeedTopRated, FeedNowPlaying, FeedUpcoming, FeedTrending}
}

// Label returns the display name for the feed
func (k FeedKind) Label() string {
	switch k {
	case FeedPopular:
		return "Popular"
	case FeedTopRated:
		return "Top Rated"
	case FeedNowPlaying:
		return "Now Playing"
	case FeedUpcoming:
		return "Upcoming"
	case FeedTrending:
		return "Trending"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the known feeds
func (k FeedKind) Valid() bool {
	for _, f := range AllFeeds() {
		if f == k {
			return true
		}
	}
	return false
}

// ParseFeedKind accepts both "top_rated" and "top-rated" spellings
func ParseFeedKind(s string) (FeedKind, error) {
	k := FeedKind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !k.Valid() {
		return "", fmt.Errorf("unknown feed kind: %q", s)
	}
	return k, nil
}
