package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	WebBaseURL          = "https://www.themoviedb.org"

	PosterSize   = "w500"
	BackdropSize = "w1280"

	defaultTimeout  = 10 * time.Second
	defaultRate     = 20
	defaultBurst    = 5
	defaultLanguage = "en-US"
	userAgent       = "Reel/1.0"
)

// feedPaths maps each feed to its TMDB endpoint
var feedPaths = map[domain.FeedKind]string{
	domain.FeedPopular:    "/movie/popular",
	domain.FeedTopRated:   "/movie/top_rated",
	domain.FeedNowPlaying: "/movie/now_playing",
	domain.FeedUpcoming:   "/movie/upcoming",
	domain.FeedTrending:   "/trending/movie/week",
}

// Options configures a Client. Zero values fall back to TMDB defaults.
type Options struct {
	APIKey            string
	BaseURL           string
	ImageBaseURL      string
	Language          string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client implements domain.CatalogClient and domain.GenreLister for TMDB
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *slog.Logger
}

var (
	_ domain.CatalogClient = (*Client)(nil)
	_ domain.GenreLister   = (*Client)(nil)
)

// NewClient creates a new TMDB API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = DefaultImageBaseURL
	}
	if opts.Language == "" {
		opts.Language = defaultLanguage
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Client{
		apiKey:       opts.APIKey,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		language:     opts.Language,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:  logger,
	}
}

// FetchFeed returns one page of a ranked feed
func (c *Client) FetchFeed(ctx context.Context, kind domain.FeedKind, page int) (domain.Page, error) {
	path, ok := feedPaths[kind]
	if !ok {
		return domain.Page{}, fmt.Errorf("unknown feed kind: %s", kind)
	}
	return c.fetchPage(ctx, path, nil, page)
}

// Search returns one page of free-text search results
func (c *Client) Search(ctx context.Context, query string, page int) (domain.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Page{}, fmt.Errorf("search query is empty")
	}
	params := url.Values{}
	params.Set("query", query)
	return c.fetchPage(ctx, "/search/movie", params, page)
}

// FetchDetails returns the extended record for one movie
func (c *Client) FetchDetails(ctx context.Context, id int) (*domain.CatalogItemDetails, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var resp MovieDetailsDTO
	if err := c.decode(body, &resp); err != nil {
		return nil, err
	}
	return MapDetails(resp), nil
}

// FetchGenres returns the movie genre list
func (c *Client) FetchGenres(ctx context.Context) ([]domain.Genre, error) {
	body, err := c.doRequest(ctx, "/genre/movie/list", nil)
	if err != nil {
		return nil, err
	}

	var resp GenreListResponse
	if err := c.decode(body, &resp); err != nil {
		return nil, err
	}
	return MapGenres(resp.Genres), nil
}

// ImageURL builds the CDN URL for an image path, or "" when the item has no image
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

// PosterURL returns the w500 poster URL for item
func (c *Client) PosterURL(item domain.CatalogItem) string {
	return c.ImageURL(item.PosterPath, PosterSize)
}

// BackdropURL returns the w1280 backdrop URL for item
func (c *Client) BackdropURL(item domain.CatalogItem) string {
	return c.ImageURL(item.BackdropPath, BackdropSize)
}

// MovieURL returns the public TMDB page for item
func (c *Client) MovieURL(item domain.CatalogItem) string {
	if item.ID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/movie/%d", WebBaseURL, item.ID)
}

func (c *Client) fetchPage(ctx context.Context, path string, params url.Values, page int) (domain.Page, error) {
	if page < 1 {
		return domain.Page{}, domain.ErrInvalidPage
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("page", strconv.Itoa(page))

	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return domain.Page{}, err
	}

	var resp PageResponse
	if err := c.decode(body, &resp); err != nil {
		return domain.Page{}, err
	}

	// An empty search reports total_pages=0 for page 1; that is a valid empty page
	if page > max(resp.TotalPages, 1) {
		c.logger.Debug("page beyond catalog range", "path", path, "page", page, "totalPages", resp.TotalPages)
		return domain.Page{}, domain.ErrInvalidPage
	}

	result := MapPage(resp)
	if result.Number == 0 {
		result.Number = page
	}
	c.logger.Debug("fetched page", "path", path, "page", page, "count", len(result.Items), "totalPages", result.TotalPages)
	return result, nil
}

// doRequest performs an authenticated GET and maps failures onto domain errors
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	// Never log the API key
	c.logger.Debug("tmdb request", "path", path, "page", params.Get("page"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrCatalogUnavailable, err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var apiErr ErrorResponse
	_ = json.Unmarshal(body, &apiErr)
	c.logger.Error("tmdb request error", "path", path, "status", resp.StatusCode, "message", apiErr.StatusMessage)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, domain.ErrAuthFailed)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, domain.ErrItemNotFound)
	case isPageRejection(resp.StatusCode, params):
		// TMDB rejects pages past its hard cap with 400/422 rather than an empty page
		return nil, domain.ErrInvalidPage
	default:
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}
}

func isPageRejection(status int, params url.Values) bool {
	if status != http.StatusBadRequest && status != http.StatusUnprocessableEntity {
		return false
	}
	page, err := strconv.Atoi(params.Get("page"))
	return err == nil && page > 1
}

func (c *Client) decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return fmt.Errorf("%w: failed to parse response: %v", domain.ErrCatalogUnavailable, err)
	}
	return nil
}
