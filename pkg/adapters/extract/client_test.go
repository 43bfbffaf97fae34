package extract_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ladle/pkg/adapters/extract"
	"github.com/aretw0/ladle/pkg/domain"
)

var validRecipe = domain.Recipe{
	ID:    "cookies",
	Title: "Cookies",
	Steps: []domain.Step{
		{Index: 1, Text: "Preheat the oven to 350°F"},
		{Index: 2, Text: "Bake for 12 minutes"},
	},
}

func TestClient_Extract(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/extract", r.URL.Path)

		var req struct {
			URL string `json:"url"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotURL = req.URL

		json.NewEncoder(w).Encode(validRecipe)
	}))
	defer srv.Close()

	client := extract.New(srv.URL)
	recipe, err := client.Extract(context.Background(), "https://example.com/cookies")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/cookies", gotURL)
	assert.Equal(t, "Cookies", recipe.Title)
	assert.Len(t, recipe.Steps, 2)
}

func TestClient_Extract_UnsupportedSite(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := extract.New(srv.URL)
	_, err := client.Extract(context.Background(), "https://example.com/blog")

	assert.ErrorIs(t, err, domain.ErrUnsupportedSite)
	assert.Equal(t, 1, calls, "422 must not be retried")
}

func TestClient_Extract_RetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(validRecipe)
	}))
	defer srv.Close()

	client := extract.New(srv.URL, extract.WithMaxTries(5))
	recipe, err := client.Extract(context.Background(), "https://example.com/cookies")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "cookies", recipe.ID)
}

func TestClient_Extract_ExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := extract.New(srv.URL, extract.WithMaxTries(2))
	_, err := client.Extract(context.Background(), "https://example.com/cookies")

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestClient_Extract_InvalidShapeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Steps out of order: index 2 before 1.
		json.NewEncoder(w).Encode(domain.Recipe{
			ID:    "broken",
			Steps: []domain.Step{{Index: 2, Text: "Bake"}, {Index: 1, Text: "Mix"}},
		})
	}))
	defer srv.Close()

	client := extract.New(srv.URL)
	_, err := client.Extract(context.Background(), "https://example.com/broken")

	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)
}
