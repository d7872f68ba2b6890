package tmdb

import "github.com/mmcdole/reel/internal/domain"

// MapMovie converts a TMDB list entry to a domain.CatalogItem
func MapMovie(m MovieDTO) domain.CatalogItem {
	genreIDs := m.GenreIDs
	if genreIDs == nil {
		genreIDs = []int{}
	}
	return domain.CatalogItem{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		PosterPath:       deref(m.PosterPath),
		BackdropPath:     deref(m.BackdropPath),
		ReleaseDate:      m.ReleaseDate,
		VoteAverage:      clamp(m.VoteAverage, 0, 10),
		VoteCount:        max(m.VoteCount, 0),
		Popularity:       max(m.Popularity, 0),
		GenreIDs:         genreIDs,
		OriginalLanguage: m.OriginalLanguage,
		Adult:            m.Adult,
		Video:            m.Video,
	}
}

// MapMovies converts a page of results, preserving catalog order
func MapMovies(dtos []MovieDTO) []domain.CatalogItem {
	items := make([]domain.CatalogItem, len(dtos))
	for i, m := range dtos {
		items[i] = MapMovie(m)
	}
	return items
}

// MapPage converts a paginated response envelope
func MapPage(resp PageResponse) domain.Page {
	return domain.Page{
		Items:        MapMovies(resp.Results),
		Number:       resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
}

// MapGenres converts genre DTOs
func MapGenres(dtos []GenreDTO) []domain.Genre {
	genres := make([]domain.Genre, len(dtos))
	for i, g := range dtos {
		genres[i] = domain.Genre{ID: g.ID, Name: g.Name}
	}
	return genres
}

// MapDetails converts a /movie/{id} response
func MapDetails(d MovieDetailsDTO) *domain.CatalogItemDetails {
	item := MapMovie(d.MovieDTO)
	// The details endpoint only returns resolved genres; keep the IDs too so
	// a favorited details snapshot looks like a list snapshot
	if len(item.GenreIDs) == 0 {
		item.GenreIDs = make([]int, len(d.Genres))
		for i, g := range d.Genres {
			item.GenreIDs[i] = g.ID
		}
	}

	companies := make([]domain.ProductionCompany, len(d.ProductionCompanies))
	for i, c := range d.ProductionCompanies {
		companies[i] = domain.ProductionCompany{
			ID:            c.ID,
			Name:          c.Name,
			LogoPath:      deref(c.LogoPath),
			OriginCountry: c.OriginCountry,
		}
	}

	countries := make([]domain.ProductionCountry, len(d.ProductionCountries))
	for i, c := range d.ProductionCountries {
		countries[i] = domain.ProductionCountry{ISO31661: c.ISO31661, Name: c.Name}
	}

	languages := make([]domain.SpokenLanguage, len(d.SpokenLanguages))
	for i, l := range d.SpokenLanguages {
		languages[i] = domain.SpokenLanguage{ISO6391: l.ISO6391, Name: l.Name, EnglishName: l.EnglishName}
	}

	runtime := 0
	if d.Runtime != nil {
		runtime = *d.Runtime
	}

	return &domain.CatalogItemDetails{
		CatalogItem:         item,
		Runtime:             runtime,
		Budget:              d.Budget,
		Revenue:             d.Revenue,
		Status:              d.Status,
		Tagline:             d.Tagline,
		Genres:              MapGenres(d.Genres),
		ProductionCompanies: companies,
		ProductionCountries: countries,
		SpokenLanguages:     languages,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
