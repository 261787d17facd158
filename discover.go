package tmdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"

	"github.com/adamwoolhether/tmdb/internal/validate"
)

// DiscoverService reaches the /discover endpoints.
type DiscoverService service

// DiscoverQuery filters and sorts a discover listing. Zero fields are
// left out of the request. Slice fields are combined with AND.
type DiscoverQuery struct {
	Page         int    `url:"page,omitempty" validate:"omitempty,min=1,max=500"`
	Language     string `url:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
	Region       string `url:"region,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	SortBy       string `url:"sort_by,omitempty" validate:"omitempty,oneof=popularity.asc popularity.desc vote_average.asc vote_average.desc vote_count.asc vote_count.desc primary_release_date.asc primary_release_date.desc first_air_date.asc first_air_date.desc revenue.asc revenue.desc title.asc title.desc name.asc name.desc"`
	IncludeAdult bool   `url:"include_adult,omitempty"`
	IncludeVideo bool   `url:"include_video,omitempty"`

	Year                 int    `url:"year,omitempty" validate:"omitempty,min=1870,max=2200"`
	PrimaryReleaseYear   int    `url:"primary_release_year,omitempty" validate:"omitempty,min=1870,max=2200"`
	PrimaryReleaseAfter  string `url:"primary_release_date.gte,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PrimaryReleaseBefore string `url:"primary_release_date.lte,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FirstAirDateYear     int    `url:"first_air_date_year,omitempty" validate:"omitempty,min=1870,max=2200"`
	FirstAirAfter        string `url:"first_air_date.gte,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FirstAirBefore       string `url:"first_air_date.lte,omitempty" validate:"omitempty,datetime=2006-01-02"`

	VoteAverageMin float64 `url:"vote_average.gte,omitempty" validate:"omitempty,min=0,max=10"`
	VoteAverageMax float64 `url:"vote_average.lte,omitempty" validate:"omitempty,min=0,max=10,gtefield=VoteAverageMin"`
	VoteCountMin   int     `url:"vote_count.gte,omitempty" validate:"omitempty,min=0"`

	WithGenres           []int    `url:"with_genres,comma,omitempty"`
	WithoutGenres        []int    `url:"without_genres,comma,omitempty"`
	WithKeywords         []int    `url:"with_keywords,comma,omitempty"`
	WithCast             []int    `url:"with_cast,comma,omitempty"`
	WithCrew             []int    `url:"with_crew,comma,omitempty"`
	WithPeople           []int    `url:"with_people,comma,omitempty"`
	WithCompanies        []int    `url:"with_companies,comma,omitempty"`
	WithNetworks         []int    `url:"with_networks,comma,omitempty"`
	WithOriginCountry    string   `url:"with_origin_country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	WithLanguage         string   `url:"with_original_language,omitempty" validate:"omitempty,len=2,lowercase"`
	WatchRegion          string   `url:"watch_region,omitempty" validate:"omitempty,iso3166_1_alpha2"`
	WithProviders        []int    `url:"with_watch_providers,comma,omitempty"`
	Certification        []string `url:"certification,comma,omitempty"`
	CertificationLTE     string   `url:"certification.lte,omitempty"`
	CertificationCountry string   `url:"certification_country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
}

// Values validates q and encodes it as query parameters.
func (q DiscoverQuery) Values() (url.Values, error) {
	if err := validate.Struct(q); err != nil {
		return nil, err
	}

	v, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("encoding discover query: %w", err)
	}

	return v, nil
}

func discover[T any](ctx context.Context, c *Client, kind string, q DiscoverQuery, opts []QueryOption) (Page[T], error) {
	v, err := q.Values()
	if err != nil {
		return Page[T]{}, err
	}

	extra, err := buildQuery(opts)
	if err != nil {
		return Page[T]{}, err
	}
	for k, vals := range extra {
		v[k] = vals
	}

	return get[Page[T]](ctx, c, "/discover/"+kind, v)
}

// Movies lists movies matching q.
func (s *DiscoverService) Movies(ctx context.Context, q DiscoverQuery, opts ...QueryOption) (Page[MovieSummary], error) {
	return discover[MovieSummary](ctx, s.client, "movie", q, opts)
}

// TV lists shows matching q.
func (s *DiscoverService) TV(ctx context.Context, q DiscoverQuery, opts ...QueryOption) (Page[TVSummary], error) {
	return discover[TVSummary](ctx, s.client, "tv", q, opts)
}
