package tmdb

import (
	"context"
	"errors"
	"strings"
)

// SearchService reaches the /search endpoints.
type SearchService service

// CollectionSummary is a collection as it appears in search results and
// on the movies belonging to it.
type CollectionSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// ErrEmptyQuery is returned for a search without search terms.
var ErrEmptyQuery = errors.New("search query must not be empty")

func search[T any](ctx context.Context, c *Client, kind, query string, opts []QueryOption) (Page[T], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page[T]{}, ErrEmptyQuery
	}

	return load[Page[T]](ctx, c, "/search/"+kind, append(opts[:len(opts):len(opts)], Param("query", query)))
}

// Movies searches movie titles. Narrow with Param("year", "1999") or
// Param("primary_release_year", ...).
func (s *SearchService) Movies(ctx context.Context, query string, opts ...QueryOption) (Page[MovieSummary], error) {
	return search[MovieSummary](ctx, s.client, "movie", query, opts)
}

// TV searches show names.
func (s *SearchService) TV(ctx context.Context, query string, opts ...QueryOption) (Page[TVSummary], error) {
	return search[TVSummary](ctx, s.client, "tv", query, opts)
}

// People searches person names.
func (s *SearchService) People(ctx context.Context, query string, opts ...QueryOption) (Page[PersonSummary], error) {
	return search[PersonSummary](ctx, s.client, "person", query, opts)
}

// Collections searches collection names.
func (s *SearchService) Collections(ctx context.Context, query string, opts ...QueryOption) (Page[CollectionSummary], error) {
	return search[CollectionSummary](ctx, s.client, "collection", query, opts)
}

// Companies searches company names.
func (s *SearchService) Companies(ctx context.Context, query string, opts ...QueryOption) (Page[Company], error) {
	return search[Company](ctx, s.client, "company", query, opts)
}

// Keywords searches keywords.
func (s *SearchService) Keywords(ctx context.Context, query string, opts ...QueryOption) (Page[Keyword], error) {
	return search[Keyword](ctx, s.client, "keyword", query, opts)
}

// Multi searches movies, shows and people at once.
func (s *SearchService) Multi(ctx context.Context, query string, opts ...QueryOption) (Page[MultiResult], error) {
	return search[MultiResult](ctx, s.client, "multi", query, opts)
}
