package tmdb

import (
	"context"
	"fmt"
)

// TVService reaches the /tv endpoints.
type TVService service

// TVSeasonsService reaches /tv/{id}/season/{n}.
type TVSeasonsService service

// TVEpisodesService reaches /tv/{id}/season/{n}/episode/{m}.
type TVEpisodesService service

// TVSummary is a show as it appears in lists and search results.
type TVSummary struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	OriginalLanguage string   `json:"original_language"`
	Overview         string   `json:"overview"`
	FirstAirDate     Date     `json:"first_air_date"`
	OriginCountry    []string `json:"origin_country"`
	GenreIDs         []int    `json:"genre_ids"`
	Popularity       float64  `json:"popularity"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
}

// TVShow is the full record of a show.
type TVShow struct {
	ID                  int       `json:"id"`
	Name                string    `json:"name"`
	OriginalName        string    `json:"original_name"`
	OriginalLanguage    string    `json:"original_language"`
	Tagline             string    `json:"tagline"`
	Overview            string    `json:"overview"`
	Status              string    `json:"status"`
	Type                string    `json:"type"`
	FirstAirDate        Date      `json:"first_air_date"`
	LastAirDate         Date      `json:"last_air_date"`
	InProduction        bool      `json:"in_production"`
	NumberOfSeasons     int       `json:"number_of_seasons"`
	NumberOfEpisodes    int       `json:"number_of_episodes"`
	EpisodeRunTime      []int     `json:"episode_run_time"`
	Languages           []string  `json:"languages"`
	OriginCountry       []string  `json:"origin_country"`
	Homepage            string    `json:"homepage"`
	Popularity          float64   `json:"popularity"`
	VoteAverage         float64   `json:"vote_average"`
	VoteCount           int       `json:"vote_count"`
	PosterPath          string    `json:"poster_path"`
	BackdropPath        string    `json:"backdrop_path"`
	Genres              []Genre   `json:"genres"`
	Networks            []Network `json:"networks"`
	ProductionCompanies []Company `json:"production_companies"`
	Seasons             []Season  `json:"seasons"`

	Credits         *Credits         `json:"credits,omitempty"`
	Images          *Images          `json:"images,omitempty"`
	Videos          *Videos          `json:"videos,omitempty"`
	ExternalIDs     *ExternalIDs     `json:"external_ids,omitempty"`
	Recommendations *Page[TVSummary] `json:"recommendations,omitempty"`
	Similar         *Page[TVSummary] `json:"similar,omitempty"`
}

// Season is one season of a show. Episodes is only set by
// TVSeasonsService.Load.
type Season struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	SeasonNumber int       `json:"season_number"`
	EpisodeCount int       `json:"episode_count,omitempty"`
	AirDate      Date      `json:"air_date"`
	PosterPath   string    `json:"poster_path"`
	VoteAverage  float64   `json:"vote_average"`
	Episodes     []Episode `json:"episodes,omitempty"`

	Credits     *Credits     `json:"credits,omitempty"`
	Images      *Images      `json:"images,omitempty"`
	ExternalIDs *ExternalIDs `json:"external_ids,omitempty"`
}

// Episode is one episode of a show.
type Episode struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Overview       string  `json:"overview"`
	SeasonNumber   int     `json:"season_number"`
	EpisodeNumber  int     `json:"episode_number"`
	AirDate        Date    `json:"air_date"`
	Runtime        int     `json:"runtime"`
	ProductionCode string  `json:"production_code"`
	StillPath      string  `json:"still_path"`
	VoteAverage    float64 `json:"vote_average"`
	VoteCount      int     `json:"vote_count"`
	Crew           []Crew  `json:"crew,omitempty"`
	GuestStars     []Cast  `json:"guest_stars,omitempty"`

	Credits     *Credits     `json:"credits,omitempty"`
	Images      *Images      `json:"images,omitempty"`
	ExternalIDs *ExternalIDs `json:"external_ids,omitempty"`
}

// Load fetches one show.
func (s *TVService) Load(ctx context.Context, id int, opts ...QueryOption) (TVShow, error) {
	return loadByID[TVShow](ctx, s.client, "/tv/%d", id, opts)
}

// Credits fetches the cast and crew of the latest season of a show.
func (s *TVService) Credits(ctx context.Context, id int, opts ...QueryOption) (Credits, error) {
	return loadByID[Credits](ctx, s.client, "/tv/%d/credits", id, opts)
}

// Images fetches the posters, backdrops and logos of a show.
func (s *TVService) Images(ctx context.Context, id int, opts ...QueryOption) (Images, error) {
	return loadByID[Images](ctx, s.client, "/tv/%d/images", id, opts)
}

// Videos fetches the trailers and clips of a show.
func (s *TVService) Videos(ctx context.Context, id int, opts ...QueryOption) (Videos, error) {
	return loadByID[Videos](ctx, s.client, "/tv/%d/videos", id, opts)
}

// ExternalIDs fetches the ids of a show in other databases.
func (s *TVService) ExternalIDs(ctx context.Context, id int) (ExternalIDs, error) {
	return loadByID[ExternalIDs](ctx, s.client, "/tv/%d/external_ids", id, nil)
}

// Similar lists shows similar to a show.
func (s *TVService) Similar(ctx context.Context, id int, opts ...QueryOption) (Page[TVSummary], error) {
	return loadByID[Page[TVSummary]](ctx, s.client, "/tv/%d/similar", id, opts)
}

// Recommendations lists shows recommended for a show.
func (s *TVService) Recommendations(ctx context.Context, id int, opts ...QueryOption) (Page[TVSummary], error) {
	return loadByID[Page[TVSummary]](ctx, s.client, "/tv/%d/recommendations", id, opts)
}

// Popular lists shows by popularity.
func (s *TVService) Popular(ctx context.Context, opts ...QueryOption) (Page[TVSummary], error) {
	return load[Page[TVSummary]](ctx, s.client, "/tv/popular", opts)
}

// TopRated lists shows by rating.
func (s *TVService) TopRated(ctx context.Context, opts ...QueryOption) (Page[TVSummary], error) {
	return load[Page[TVSummary]](ctx, s.client, "/tv/top_rated", opts)
}

// OnTheAir lists shows airing within the next seven days.
func (s *TVService) OnTheAir(ctx context.Context, opts ...QueryOption) (Page[TVSummary], error) {
	return load[Page[TVSummary]](ctx, s.client, "/tv/on_the_air", opts)
}

// AiringToday lists shows airing today.
func (s *TVService) AiringToday(ctx context.Context, opts ...QueryOption) (Page[TVSummary], error) {
	return load[Page[TVSummary]](ctx, s.client, "/tv/airing_today", opts)
}

// Load fetches one season of a show, episodes included.
func (s *TVSeasonsService) Load(ctx context.Context, showID, season int, opts ...QueryOption) (Season, error) {
	if showID < 0 || season < 0 {
		return Season{}, fmt.Errorf("invalid show %d season %d", showID, season)
	}
	return load[Season](ctx, s.client, fmt.Sprintf("/tv/%d/season/%d", showID, season), opts)
}

// Load fetches one episode of a show.
func (s *TVEpisodesService) Load(ctx context.Context, showID, season, episode int, opts ...QueryOption) (Episode, error) {
	if showID < 0 || season < 0 || episode < 0 {
		return Episode{}, fmt.Errorf("invalid show %d season %d episode %d", showID, season, episode)
	}
	return load[Episode](ctx, s.client, fmt.Sprintf("/tv/%d/season/%d/episode/%d", showID, season, episode), opts)
}
