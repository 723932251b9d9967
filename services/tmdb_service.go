package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coupleswipe_server/models"
)

// TMDBService fetches movies from the TMDB discover endpoint. It implements
// MovieProvider.
type TMDBService struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	HTTPClient   *http.Client
}

func NewTMDBService(baseURL, imageBaseURL, apiKey string) *TMDBService {
	return &TMDBService{
		BaseURL:      baseURL,
		ImageBaseURL: imageBaseURL,
		APIKey:       apiKey,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Rating      float64 `json:"vote_average"`
	Description string  `json:"overview"`
}

type tmdbResponse struct {
	Results []tmdbMovie `json:"results"`
}

// DiscoverMovies queries discover/movie with the given parameters
// (with_genres, primary_release_date.gte/.lte, vote_average.gte) and maps
// the page of results onto the session movie shape.
func (s *TMDBService) DiscoverMovies(ctx context.Context, params map[string]string) ([]models.Movie, error) {
	query := url.Values{}
	query.Set("api_key", s.APIKey)
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint := s.BaseURL + "/discover/movie?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &models.ProviderError{Message: err.Error()}
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.ProviderError{StatusCode: resp.StatusCode, Message: "discover request rejected"}
	}

	var payload tmdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &models.ProviderError{Message: fmt.Sprintf("bad response body: %v", err)}
	}

	movies := make([]models.Movie, 0, len(payload.Results))
	for _, m := range payload.Results {
		imageURL := ""
		if m.PosterPath != "" {
			imageURL = s.ImageBaseURL + m.PosterPath
		}
		movies = append(movies, models.Movie{
			ID:          strconv.Itoa(m.ID),
			Title:       m.Title,
			ImageURL:    imageURL,
			ReleaseDate: m.ReleaseDate,
			Rating:      m.Rating,
			Description: m.Description,
		})
	}
	return movies, nil
}
