//go:build integration

package tmdb_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adamwoolhether/tmdb"
)

const fightClubID = 550

func integrationClient(t *testing.T, opts ...tmdb.Option) *tmdb.Client {
	t.Helper()

	key := os.Getenv("TMDB_API_KEY")
	if key == "" {
		t.Skip("TMDB_API_KEY not set")
	}

	c, err := tmdb.New(append([]tmdb.Option{
		tmdb.WithAPIToken(key),
		tmdb.WithLogger(discardLogger()),
		tmdb.WithThrottle(20, 5),
		tmdb.WithTimeout(15 * time.Second),
	}, opts...)...)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestIntegration_Movie(t *testing.T) {
	c := integrationClient(t, tmdb.WithLanguage("en-US"))

	movie, err := c.Movies.Load(t.Context(), fightClubID, tmdb.Append("credits", "keywords"))
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	if movie.Title != "Fight Club" || movie.IMDbID != "tt0137523" {
		t.Errorf("unexpected movie: %d %q %q", movie.ID, movie.Title, movie.IMDbID)
	}
	if movie.Credits == nil || len(movie.Credits.Cast) == 0 {
		t.Error("exp appended credits")
	}
}

func TestIntegration_Find(t *testing.T) {
	c := integrationClient(t)

	res, err := c.Find.ByExternalID(t.Context(), "tt0137523", tmdb.SourceIMDb)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	if len(res.MovieResults) != 1 || res.MovieResults[0].ID != fightClubID {
		t.Errorf("unexpected results: %+v", res.MovieResults)
	}
}

func TestIntegration_NotFound(t *testing.T) {
	c := integrationClient(t)

	if _, err := c.Movies.Load(t.Context(), 0); !tmdb.IsNotFound(err) {
		t.Errorf("exp not found, got: %v", err)
	}
}

func TestIntegration_SearchAndCache(t *testing.T) {
	c := integrationClient(t, tmdb.WithCache(t.TempDir(), time.Minute))

	for range 2 {
		page, err := c.Search.Movies(t.Context(), "fight club")
		if err != nil {
			t.Fatalf("exp nil err, got: %v", err)
		}
		if len(page.Results) == 0 {
			t.Fatal("exp search results")
		}
	}
}

func TestIntegration_ImageDownload(t *testing.T) {
	c := integrationClient(t)

	movie, err := c.Movies.Load(t.Context(), fightClubID)
	if err != nil {
		t.Fatalf("loading movie: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "poster.jpg")
	if err := c.Images.Download(t.Context(), movie.PosterPath, "w92", dest); err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("exp non-empty poster")
	}
}
