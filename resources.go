package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"
)

type (
	// GenresService reaches the /genre endpoints.
	GenresService service
	// CertificationsService reaches the /certification endpoints.
	CertificationsService service
	// ChangesService reaches the change lists.
	ChangesService service
	// CollectionsService reaches the /collection endpoints.
	CollectionsService service
	// CompaniesService reaches the /company endpoints.
	CompaniesService service
	// NetworksService reaches the /network endpoints.
	NetworksService service
	// KeywordsService reaches the /keyword endpoints.
	KeywordsService service
	// CreditsService reaches the /credit endpoint.
	CreditsService service
	// ReviewsService reaches the /review endpoint.
	ReviewsService service
	// ListsService reaches the /list endpoint.
	ListsService service
)

type genreList struct {
	Genres []Genre `json:"genres"`
}

// Movies lists movie genres.
func (s *GenresService) Movies(ctx context.Context, opts ...QueryOption) ([]Genre, error) {
	l, err := load[genreList](ctx, s.client, "/genre/movie/list", opts)
	return l.Genres, err
}

// TV lists show genres.
func (s *GenresService) TV(ctx context.Context, opts ...QueryOption) ([]Genre, error) {
	l, err := load[genreList](ctx, s.client, "/genre/tv/list", opts)
	return l.Genres, err
}

// Certification is one age rating of a country.
type Certification struct {
	Certification string `json:"certification"`
	Meaning       string `json:"meaning"`
	Order         int    `json:"order"`
}

type certificationList struct {
	Certifications map[string][]Certification `json:"certifications"`
}

// Movies lists movie certifications keyed by country.
func (s *CertificationsService) Movies(ctx context.Context) (map[string][]Certification, error) {
	l, err := get[certificationList](ctx, s.client, "/certification/movie/list", nil)
	return l.Certifications, err
}

// TV lists show certifications keyed by country.
func (s *CertificationsService) TV(ctx context.Context) (map[string][]Certification, error) {
	l, err := get[certificationList](ctx, s.client, "/certification/tv/list", nil)
	return l.Certifications, err
}

// ChangeWindow bounds a change list. The API allows at most 14 days; a
// zero bound is left to the API default of the last 24 hours.
type ChangeWindow struct {
	Start time.Time
	End   time.Time
}

const maxChangeWindow = 14 * 24 * time.Hour

func (w ChangeWindow) values() (url.Values, error) {
	v := url.Values{}
	if !w.Start.IsZero() && !w.End.IsZero() {
		if w.End.Before(w.Start) {
			return nil, errors.New("change window ends before it starts")
		}
		if w.End.Sub(w.Start) > maxChangeWindow {
			return nil, errors.New("change window exceeds 14 days")
		}
	}
	if !w.Start.IsZero() {
		v.Set("start_date", w.Start.Format(DateLayout))
	}
	if !w.End.IsZero() {
		v.Set("end_date", w.End.Format(DateLayout))
	}
	return v, nil
}

func (s *ChangesService) list(ctx context.Context, kind string, w ChangeWindow, opts []QueryOption) (Page[Change], error) {
	v, err := w.values()
	if err != nil {
		return Page[Change]{}, err
	}
	extra, err := buildQuery(opts)
	if err != nil {
		return Page[Change]{}, err
	}
	for k, vals := range extra {
		v[k] = vals
	}
	return get[Page[Change]](ctx, s.client, "/"+kind+"/changes", v)
}

// Movies lists movies changed within w.
func (s *ChangesService) Movies(ctx context.Context, w ChangeWindow, opts ...QueryOption) (Page[Change], error) {
	return s.list(ctx, "movie", w, opts)
}

// TV lists shows changed within w.
func (s *ChangesService) TV(ctx context.Context, w ChangeWindow, opts ...QueryOption) (Page[Change], error) {
	return s.list(ctx, "tv", w, opts)
}

// People lists people changed within w.
func (s *ChangesService) People(ctx context.Context, w ChangeWindow, opts ...QueryOption) (Page[Change], error) {
	return s.list(ctx, "person", w, opts)
}

// Collection groups the movies of a franchise.
type Collection struct {
	CollectionSummary
	Overview string         `json:"overview"`
	Parts    []MovieSummary `json:"parts"`
}

// Load fetches one collection.
func (s *CollectionsService) Load(ctx context.Context, id int, opts ...QueryOption) (Collection, error) {
	return loadByID[Collection](ctx, s.client, "/collection/%d", id, opts)
}

// Images fetches the posters and backdrops of a collection.
func (s *CollectionsService) Images(ctx context.Context, id int, opts ...QueryOption) (Images, error) {
	return loadByID[Images](ctx, s.client, "/collection/%d/images", id, opts)
}

// Load fetches one company.
func (s *CompaniesService) Load(ctx context.Context, id int) (Company, error) {
	return loadByID[Company](ctx, s.client, "/company/%d", id, nil)
}

// Load fetches one network.
func (s *NetworksService) Load(ctx context.Context, id int) (Network, error) {
	return loadByID[Network](ctx, s.client, "/network/%d", id, nil)
}

// Load fetches one keyword.
func (s *KeywordsService) Load(ctx context.Context, id int) (Keyword, error) {
	return loadByID[Keyword](ctx, s.client, "/keyword/%d", id, nil)
}

// Movies lists the movies tagged with a keyword.
func (s *KeywordsService) Movies(ctx context.Context, id int, opts ...QueryOption) (Page[MovieSummary], error) {
	return loadByID[Page[MovieSummary]](ctx, s.client, "/keyword/%d/movies", id, opts)
}

// Credit is a single credit with its person and media.
type Credit struct {
	ID         string        `json:"id"`
	CreditType string        `json:"credit_type"`
	Department string        `json:"department"`
	Job        string        `json:"job"`
	MediaType  string        `json:"media_type"`
	Media      MultiResult   `json:"media"`
	Person     PersonSummary `json:"person"`
}

// Load fetches one credit by its id, e.g. "52fe4250c3a36847f80149f3".
func (s *CreditsService) Load(ctx context.Context, id string) (Credit, error) {
	if id == "" {
		return Credit{}, errors.New("credit id must not be empty")
	}
	return get[Credit](ctx, s.client, "/credit/"+id, nil)
}

// Load fetches one review by its id.
func (s *ReviewsService) Load(ctx context.Context, id string) (Review, error) {
	if id == "" {
		return Review{}, errors.New("review id must not be empty")
	}
	return get[Review](ctx, s.client, "/review/"+id, nil)
}

// ListID identifies a list. Older lists carry hex string ids, newer
// ones numbers; both decode to their text form.
type ListID string

func (id *ListID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ListID(n.String())
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("list id: neither number nor string")
	}
	*id = ListID(strings.TrimSpace(s))

	return nil
}

// List is a user curated list of movies.
type List struct {
	ID          ListID         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	CreatedBy   string         `json:"created_by"`
	ItemCount   int            `json:"item_count"`
	ISO639_1    string         `json:"iso_639_1"`
	PosterPath  string         `json:"poster_path"`
	Items       []MovieSummary `json:"items"`
}

// Load fetches one list.
func (s *ListsService) Load(ctx context.Context, id string, opts ...QueryOption) (List, error) {
	if id == "" {
		return List{}, errors.New("list id must not be empty")
	}
	return load[List](ctx, s.client, "/list/"+id, opts)
}
