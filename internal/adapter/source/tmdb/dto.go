package tmdb

// TMDB JSON response structures

// MovieDTO is a movie as it appears in list and search results
type MovieDTO struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
}

// PageResponse is the envelope of every paginated endpoint
type PageResponse struct {
	Page         int        `json:"page"`
	Results      []MovieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// GenreDTO is a genre id/name pair
type GenreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is returned by /genre/movie/list
type GenreListResponse struct {
	Genres []GenreDTO `json:"genres"`
}

// CompanyDTO is a production company
type CompanyDTO struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// CountryDTO is a production country
type CountryDTO struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// LanguageDTO is a spoken language
type LanguageDTO struct {
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
	EnglishName string `json:"english_name"`
}

// MovieDetailsDTO is returned by /movie/{id}. Genres come resolved, so
// genre_ids is absent.
type MovieDetailsDTO struct {
	MovieDTO

	Runtime             *int          `json:"runtime"`
	Budget              int64         `json:"budget"`
	Revenue             int64         `json:"revenue"`
	Status              string        `json:"status"`
	Tagline             string        `json:"tagline"`
	Genres              []GenreDTO    `json:"genres"`
	ProductionCompanies []CompanyDTO  `json:"production_companies"`
	ProductionCountries []CountryDTO  `json:"production_countries"`
	SpokenLanguages     []LanguageDTO `json:"spoken_languages"`
}

// ErrorResponse is the body TMDB sends with non-2xx statuses
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
