package tmdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Page is one page of a paginated list.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages && p.Page < MaxPage
}

// DateLayout is the date format used by the API.
const DateLayout = "2006-01-02"

// Date is a calendar date. Empty strings and null decode to the zero Date.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	d.Time = t

	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Genre classifies movies and shows.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keyword tags a movie or show.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Company produces movies and shows.
type Company struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Headquarters  string   `json:"headquarters,omitempty"`
	Homepage      string   `json:"homepage,omitempty"`
	LogoPath      string   `json:"logo_path"`
	OriginCountry string   `json:"origin_country"`
	ParentCompany *Company `json:"parent_company,omitempty"`
}

// Network broadcasts shows.
type Network struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Headquarters  string `json:"headquarters,omitempty"`
	Homepage      string `json:"homepage,omitempty"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// Country is an ISO 3166-1 country.
type Country struct {
	ISO3166_1   string `json:"iso_3166_1"`
	EnglishName string `json:"english_name"`
	NativeName  string `json:"native_name,omitempty"`
	Name        string `json:"name,omitempty"`
}

// SpokenLanguage is an ISO 639-1 language.
type SpokenLanguage struct {
	ISO639_1    string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// Cast is an acting credit.
type Cast struct {
	ID                 int     `json:"id"`
	CreditID           string  `json:"credit_id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Character          string  `json:"character"`
	Order              int     `json:"order"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        string  `json:"profile_path"`
}

// Crew is a non-acting credit.
type Crew struct {
	ID                 int     `json:"id"`
	CreditID           string  `json:"credit_id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Department         string  `json:"department"`
	Job                string  `json:"job"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        string  `json:"profile_path"`
}

// Credits lists the cast and crew of a movie, show, season or episode.
type Credits struct {
	ID   int    `json:"id"`
	Cast []Cast `json:"cast"`
	Crew []Crew `json:"crew"`
}

// Image is a poster, backdrop, logo, still or profile picture.
type Image struct {
	FilePath    string  `json:"file_path"`
	AspectRatio float64 `json:"aspect_ratio"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ISO639_1    string  `json:"iso_639_1"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// Images groups the pictures attached to a resource.
type Images struct {
	ID        int     `json:"id"`
	Backdrops []Image `json:"backdrops,omitempty"`
	Posters   []Image `json:"posters,omitempty"`
	Logos     []Image `json:"logos,omitempty"`
	Stills    []Image `json:"stills,omitempty"`
	Profiles  []Image `json:"profiles,omitempty"`
}

// Video is a trailer, teaser or clip hosted on a third-party site.
type Video struct {
	ID          string `json:"id"`
	ISO639_1    string `json:"iso_639_1"`
	ISO3166_1   string `json:"iso_3166_1"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// Videos lists the videos of a movie or show.
type Videos struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// ExternalIDs links a resource to other databases.
type ExternalIDs struct {
	ID          int    `json:"id"`
	IMDbID      string `json:"imdb_id,omitempty"`
	TVDbID      int    `json:"tvdb_id,omitempty"`
	WikidataID  string `json:"wikidata_id,omitempty"`
	FacebookID  string `json:"facebook_id,omitempty"`
	InstagramID string `json:"instagram_id,omitempty"`
	TwitterID   string `json:"twitter_id,omitempty"`
}

// Review is a user review of a movie or show.
type Review struct {
	ID            string        `json:"id"`
	Author        string        `json:"author"`
	AuthorDetails AuthorDetails `json:"author_details"`
	Content       string        `json:"content"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	URL           string        `json:"url"`
	MediaID       int           `json:"media_id,omitempty"`
	MediaTitle    string        `json:"media_title,omitempty"`
	MediaType     string        `json:"media_type,omitempty"`
}

// AuthorDetails describes a review author.
type AuthorDetails struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath string   `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

// StatusResponse acknowledges a write.
type StatusResponse struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// Change is a resource changed within a window.
type Change struct {
	ID    int  `json:"id"`
	Adult bool `json:"adult"`
}

// MultiResult is a search hit of any media type. MediaType is movie,
// tv or person; only the fields of that type are set.
type MultiResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Popularity   float64 `json:"popularity"`
	Title        string  `json:"title,omitempty"`
	ReleaseDate  Date    `json:"release_date"`
	Name         string  `json:"name,omitempty"`
	FirstAirDate Date    `json:"first_air_date"`
	PosterPath   string  `json:"poster_path,omitempty"`
	ProfilePath  string  `json:"profile_path,omitempty"`
	Overview     string  `json:"overview,omitempty"`
}
