package tmdb

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/adamwoolhether/tmdb/internal/validate"
)

// MoviesService reaches the /movie endpoints.
type MoviesService service

// MovieSummary is a movie as it appears in lists and search results.
type MovieSummary struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      Date    `json:"release_date"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
}

// Movie is the full record of a movie. Fields populated through
// append_to_response are nil unless requested with Append.
type Movie struct {
	ID                  int                `json:"id"`
	IMDbID              string             `json:"imdb_id"`
	Title               string             `json:"title"`
	OriginalTitle       string             `json:"original_title"`
	OriginalLanguage    string             `json:"original_language"`
	Tagline             string             `json:"tagline"`
	Overview            string             `json:"overview"`
	Status              string             `json:"status"`
	ReleaseDate         Date               `json:"release_date"`
	Runtime             int                `json:"runtime"`
	Budget              int64              `json:"budget"`
	Revenue             int64              `json:"revenue"`
	Homepage            string             `json:"homepage"`
	Adult               bool               `json:"adult"`
	Video               bool               `json:"video"`
	Popularity          float64            `json:"popularity"`
	VoteAverage         float64            `json:"vote_average"`
	VoteCount           int                `json:"vote_count"`
	PosterPath          string             `json:"poster_path"`
	BackdropPath        string             `json:"backdrop_path"`
	Genres              []Genre            `json:"genres"`
	ProductionCompanies []Company          `json:"production_companies"`
	ProductionCountries []Country          `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage   `json:"spoken_languages"`
	BelongsToCollection *CollectionSummary `json:"belongs_to_collection"`

	Credits         *Credits            `json:"credits,omitempty"`
	Images          *Images             `json:"images,omitempty"`
	Videos          *Videos             `json:"videos,omitempty"`
	Keywords        *MovieKeywords      `json:"keywords,omitempty"`
	ReleaseDates    *ReleaseDates       `json:"release_dates,omitempty"`
	ExternalIDs     *ExternalIDs        `json:"external_ids,omitempty"`
	Recommendations *Page[MovieSummary] `json:"recommendations,omitempty"`
	Similar         *Page[MovieSummary] `json:"similar,omitempty"`
	Reviews         *Page[Review]       `json:"reviews,omitempty"`
}

// MovieKeywords lists the keywords of a movie.
type MovieKeywords struct {
	ID       int       `json:"id"`
	Keywords []Keyword `json:"keywords"`
}

// ReleaseDates lists release dates per country.
type ReleaseDates struct {
	ID      int                  `json:"id"`
	Results []CountryReleaseDate `json:"results"`
}

// CountryReleaseDate holds the releases of a movie in one country.
type CountryReleaseDate struct {
	ISO3166_1    string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

// ReleaseDate is one theatrical, digital or physical release.
type ReleaseDate struct {
	Certification string `json:"certification"`
	ISO639_1      string `json:"iso_639_1"`
	Note          string `json:"note"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

// DatedPage is a page of movies within a release window, as returned by
// the now playing and upcoming lists.
type DatedPage struct {
	Page[MovieSummary]
	Dates struct {
		Maximum Date `json:"maximum"`
		Minimum Date `json:"minimum"`
	} `json:"dates"`
}

// AccountStates is the rating, favorite and watchlist state of a movie
// or show for the current session.
type AccountStates struct {
	ID        int  `json:"id"`
	Favorite  bool `json:"favorite"`
	Watchlist bool `json:"watchlist"`
	// Rated is false when unrated, or an object holding the value.
	Rated RatedState `json:"rated"`
}

// RatedState decodes the rated field of AccountStates.
type RatedState struct {
	Rated bool
	Value float64
}

func (r *RatedState) UnmarshalJSON(b []byte) error {
	if string(b) == "false" || string(b) == "null" {
		*r = RatedState{}
		return nil
	}

	var v struct {
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("rated: %w", err)
	}
	*r = RatedState{Rated: true, Value: v.Value}

	return nil
}

type rating struct {
	Value float64 `json:"value" validate:"gte=0.5,lte=10"`
}

// Load fetches one movie.
func (s *MoviesService) Load(ctx context.Context, id int, opts ...QueryOption) (Movie, error) {
	return loadByID[Movie](ctx, s.client, "/movie/%d", id, opts)
}

// Credits fetches the cast and crew of a movie.
func (s *MoviesService) Credits(ctx context.Context, id int, opts ...QueryOption) (Credits, error) {
	return loadByID[Credits](ctx, s.client, "/movie/%d/credits", id, opts)
}

// Images fetches the posters, backdrops and logos of a movie.
func (s *MoviesService) Images(ctx context.Context, id int, opts ...QueryOption) (Images, error) {
	return loadByID[Images](ctx, s.client, "/movie/%d/images", id, opts)
}

// Videos fetches the trailers and clips of a movie.
func (s *MoviesService) Videos(ctx context.Context, id int, opts ...QueryOption) (Videos, error) {
	return loadByID[Videos](ctx, s.client, "/movie/%d/videos", id, opts)
}

// Keywords fetches the keywords of a movie.
func (s *MoviesService) Keywords(ctx context.Context, id int) (MovieKeywords, error) {
	return loadByID[MovieKeywords](ctx, s.client, "/movie/%d/keywords", id, nil)
}

// Recommendations lists movies recommended for a movie.
func (s *MoviesService) Recommendations(ctx context.Context, id int, opts ...QueryOption) (Page[MovieSummary], error) {
	return loadByID[Page[MovieSummary]](ctx, s.client, "/movie/%d/recommendations", id, opts)
}

// Similar lists movies similar to a movie.
func (s *MoviesService) Similar(ctx context.Context, id int, opts ...QueryOption) (Page[MovieSummary], error) {
	return loadByID[Page[MovieSummary]](ctx, s.client, "/movie/%d/similar", id, opts)
}

// ReleaseDates fetches release dates and certifications per country.
func (s *MoviesService) ReleaseDates(ctx context.Context, id int) (ReleaseDates, error) {
	return loadByID[ReleaseDates](ctx, s.client, "/movie/%d/release_dates", id, nil)
}

// ExternalIDs fetches the ids of a movie in other databases.
func (s *MoviesService) ExternalIDs(ctx context.Context, id int) (ExternalIDs, error) {
	return loadByID[ExternalIDs](ctx, s.client, "/movie/%d/external_ids", id, nil)
}

// Reviews lists user reviews of a movie.
func (s *MoviesService) Reviews(ctx context.Context, id int, opts ...QueryOption) (Page[Review], error) {
	return loadByID[Page[Review]](ctx, s.client, "/movie/%d/reviews", id, opts)
}

// Latest fetches the most recently added movie.
func (s *MoviesService) Latest(ctx context.Context, opts ...QueryOption) (Movie, error) {
	return load[Movie](ctx, s.client, "/movie/latest", opts)
}

// NowPlaying lists movies in theatres.
func (s *MoviesService) NowPlaying(ctx context.Context, opts ...QueryOption) (DatedPage, error) {
	return load[DatedPage](ctx, s.client, "/movie/now_playing", opts)
}

// Popular lists movies by popularity.
func (s *MoviesService) Popular(ctx context.Context, opts ...QueryOption) (Page[MovieSummary], error) {
	return load[Page[MovieSummary]](ctx, s.client, "/movie/popular", opts)
}

// TopRated lists movies by rating.
func (s *MoviesService) TopRated(ctx context.Context, opts ...QueryOption) (Page[MovieSummary], error) {
	return load[Page[MovieSummary]](ctx, s.client, "/movie/top_rated", opts)
}

// Upcoming lists movies about to be released.
func (s *MoviesService) Upcoming(ctx context.Context, opts ...QueryOption) (DatedPage, error) {
	return load[DatedPage](ctx, s.client, "/movie/upcoming", opts)
}

// AccountStates fetches the rating, favorite and watchlist state of a
// movie for the current user or guest session.
func (s *MoviesService) AccountStates(ctx context.Context, id int) (AccountStates, error) {
	if err := s.client.requireAnySession(); err != nil {
		return AccountStates{}, err
	}
	return loadByID[AccountStates](ctx, s.client, "/movie/%d/account_states", id, nil)
}

// Rate rates a movie from 0.5 to 10 in steps of 0.5, as the current
// user or guest session.
func (s *MoviesService) Rate(ctx context.Context, id int, value float64) (StatusResponse, error) {
	if err := s.client.requireAnySession(); err != nil {
		return StatusResponse{}, err
	}
	r := rating{Value: value}
	if err := validate.Struct(r); err != nil {
		return StatusResponse{}, err
	}
	if value*2 != float64(int(value*2)) {
		return StatusResponse{}, fmt.Errorf("rating %v must be a multiple of 0.5", value)
	}

	return post[StatusResponse](ctx, s.client, fmt.Sprintf("/movie/%d/rating", id), nil, r)
}

// DeleteRating removes a rating set with Rate.
func (s *MoviesService) DeleteRating(ctx context.Context, id int) (StatusResponse, error) {
	if err := s.client.requireAnySession(); err != nil {
		return StatusResponse{}, err
	}
	return del[StatusResponse](ctx, s.client, fmt.Sprintf("/movie/%d/rating", id), nil, nil)
}

// DefaultLoadManyLimit bounds the concurrent calls of LoadMany.
const DefaultLoadManyLimit = 4

// LoadMany fetches several movies with at most limit calls in flight,
// or DefaultLoadManyLimit when limit < 1. Results keep the order of ids.
// The first failure cancels the remaining calls.
func (s *MoviesService) LoadMany(ctx context.Context, ids []int, limit int, opts ...QueryOption) ([]Movie, error) {
	if limit < 1 {
		limit = DefaultLoadManyLimit
	}

	movies := make([]Movie, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			m, err := s.Load(ctx, id, opts...)
			if err != nil {
				return fmt.Errorf("movie %d: %w", id, err)
			}
			movies[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return movies, nil
}
