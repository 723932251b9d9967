package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"coupleswipe_server/models"

	"github.com/go-playground/assert/v2"
)

func TestDiscoverMoviesMapsResults(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/discover/movie")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[
			{"id":603,"title":"The Matrix","poster_path":"/matrix.jpg","release_date":"1999-03-31","vote_average":8.2,"overview":"A hacker learns the truth."},
			{"id":604,"title":"The Matrix Reloaded","poster_path":"","release_date":"2003-05-15","vote_average":7.0,"overview":""}
		]}`))
	}))
	defer server.Close()

	svc := NewTMDBService(server.URL, "https://image.example/t/p/w500", "test-key")
	movies, err := svc.DiscoverMovies(context.Background(), map[string]string{
		"with_genres":      "28",
		"vote_average.gte": "7.5",
	})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(movies), 2)

	assert.Equal(t, gotQuery["api_key"], []string{"test-key"})
	assert.Equal(t, gotQuery["with_genres"], []string{"28"})
	assert.Equal(t, gotQuery["vote_average.gte"], []string{"7.5"})

	assert.Equal(t, movies[0].ID, "603")
	assert.Equal(t, movies[0].Title, "The Matrix")
	assert.Equal(t, movies[0].ImageURL, "https://image.example/t/p/w500/matrix.jpg")
	assert.Equal(t, movies[0].Rating, 8.2)

	// missing poster path yields no image url rather than a bare base url
	assert.Equal(t, movies[1].ImageURL, "")
}

func TestDiscoverMoviesRejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewTMDBService(server.URL, "", "bad-key")
	_, err := svc.DiscoverMovies(context.Background(), nil)

	var provErr *models.ProviderError
	assert.Equal(t, errors.As(err, &provErr), true)
	assert.Equal(t, provErr.StatusCode, http.StatusUnauthorized)
}

func TestDiscoverMoviesBadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	svc := NewTMDBService(server.URL, "", "key")
	_, err := svc.DiscoverMovies(context.Background(), nil)

	var provErr *models.ProviderError
	assert.Equal(t, errors.As(err, &provErr), true)
}
