package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Linker resolves a movie's web page and image paths to full URLs
type Linker interface {
	MovieURL(item domain.CatalogItem) string
	PosterURL(item domain.CatalogItem) string
	BackdropURL(item domain.CatalogItem) string
}

// Details renders the full record for one movie. It shows the list snapshot
// immediately and fills in runtime, genres and money once details arrive.
type Details struct {
	item     domain.CatalogItem
	details  *domain.CatalogItemDetails
	loading  bool
	favorite bool
	links    Linker

	width  int
	height int
}

// NewDetails creates a details pane
func NewDetails(links Linker) Details {
	return Details{links: links}
}

// Show starts displaying item while its details load
func (d *Details) Show(item domain.CatalogItem) {
	d.item = item
	d.details = nil
	d.loading = true
}

// SetDetails fills in the extended record
func (d *Details) SetDetails(details *domain.CatalogItemDetails) {
	if details == nil || details.ID != d.item.ID {
		return
	}
	d.details = details
	d.item = details.CatalogItem
	d.loading = false
}

// SetFailed stops the loading indicator, keeping the list snapshot
func (d *Details) SetFailed() {
	d.loading = false
}

// SetFavorite updates the favorite badge
func (d *Details) SetFavorite(favorite bool) {
	d.favorite = favorite
}

// Item returns the displayed item, preferring the detailed snapshot
func (d Details) Item() domain.CatalogItem {
	return d.item
}

// MovieURL returns the web page for the shown movie, or "" without a linker
func (d Details) MovieURL() string {
	if d.links == nil {
		return ""
	}
	return d.links.MovieURL(d.item)
}

// PosterURL returns the poster image for the shown movie
func (d Details) PosterURL() string {
	if d.links == nil {
		return ""
	}
	return d.links.PosterURL(d.item)
}

// SetSize sets the rendering area
func (d *Details) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the pane
func (d Details) View() string {
	contentWidth := max(d.width-4, 20)
	wrap := lipgloss.NewStyle().Width(contentWidth)

	var b strings.Builder

	title := d.item.Title
	if year := d.item.Year(); year > 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	b.WriteString(styles.TitleStyle.Render(title))
	if d.favorite {
		b.WriteString("  " + styles.BadgeStyle.Render(styles.FavoriteChar+" Favorite"))
	}
	b.WriteString("\n")

	if d.item.OriginalTitle != "" && d.item.OriginalTitle != d.item.Title {
		b.WriteString(styles.SubtitleStyle.Render(d.item.OriginalTitle) + "\n")
	}
	if d.details != nil && d.details.Tagline != "" {
		b.WriteString(styles.DimStyle.Italic(true).Render(d.details.Tagline) + "\n")
	}
	b.WriteString("\n")

	// Facts line: rating, runtime, status, language
	var facts []string
	if d.item.VoteCount > 0 {
		facts = append(facts, fmt.Sprintf("%s %s (%d votes)", styles.FavoriteChar, d.item.FormattedRating(), d.item.VoteCount))
	}
	if d.details != nil {
		if rt := d.details.FormattedRuntime(); rt != "" {
			facts = append(facts, rt)
		}
		if d.details.Status != "" {
			facts = append(facts, d.details.Status)
		}
	}
	if d.item.ReleaseDate != "" {
		facts = append(facts, d.item.ReleaseDate)
	}
	if d.item.OriginalLanguage != "" {
		facts = append(facts, strings.ToUpper(d.item.OriginalLanguage))
	}
	if len(facts) > 0 {
		b.WriteString(styles.SubtitleStyle.Render(strings.Join(facts, "  ·  ")) + "\n")
	}

	if d.details != nil {
		if genres := d.details.GenreNames(); len(genres) > 0 {
			badges := make([]string, len(genres))
			for i, g := range genres {
				badges[i] = styles.DimBadgeStyle.Render(g)
			}
			b.WriteString(strings.Join(badges, " ") + "\n")
		}
	}
	b.WriteString("\n")

	overview := d.item.Overview
	if overview == "" {
		overview = "No overview available."
	}
	b.WriteString(wrap.Render(overview) + "\n\n")

	if d.details != nil {
		d.writeField(&b, "Budget", d.details.FormattedBudget())
		d.writeField(&b, "Revenue", d.details.FormattedRevenue())

		companies := make([]string, len(d.details.ProductionCompanies))
		for i, c := range d.details.ProductionCompanies {
			companies[i] = c.Name
		}
		d.writeField(&b, "Studios", strings.Join(companies, ", "))

		languages := make([]string, len(d.details.SpokenLanguages))
		for i, l := range d.details.SpokenLanguages {
			languages[i] = l.EnglishName
		}
		d.writeField(&b, "Languages", strings.Join(languages, ", "))
	}

	if d.links != nil {
		d.writeField(&b, "TMDB", d.links.MovieURL(d.item))
		d.writeField(&b, "Poster", d.links.PosterURL(d.item))
		d.writeField(&b, "Backdrop", d.links.BackdropURL(d.item))
	}

	if d.loading {
		b.WriteString("\n" + styles.DimStyle.Render("Loading details..."))
	}

	return styles.DetailsStyle.
		Width(max(d.width, 0)).
		Height(max(d.height, 0)).
		Render(b.String())
}

func (d Details) writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	if strings.HasPrefix(value, "http") {
		value = styles.LinkStyle.Render(value)
	}
	fmt.Fprintf(b, "%s %s\n", styles.HelpKeyStyle.Render(fmt.Sprintf("%-10s", label)), value)
}
