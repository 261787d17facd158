package tmdb

import "context"

// PeopleService reaches the /person endpoints.
type PeopleService service

// PersonSummary is a person as it appears in lists and search results.
type PersonSummary struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	Adult              bool          `json:"adult"`
	Gender             int           `json:"gender"`
	KnownForDepartment string        `json:"known_for_department"`
	Popularity         float64       `json:"popularity"`
	ProfilePath        string        `json:"profile_path"`
	KnownFor           []MultiResult `json:"known_for,omitempty"`
}

// Person is the full record of a person.
type Person struct {
	ID                 int      `json:"id"`
	IMDbID             string   `json:"imdb_id"`
	Name               string   `json:"name"`
	AlsoKnownAs        []string `json:"also_known_as"`
	Biography          string   `json:"biography"`
	Birthday           Date     `json:"birthday"`
	Deathday           Date     `json:"deathday"`
	PlaceOfBirth       string   `json:"place_of_birth"`
	Gender             int      `json:"gender"`
	KnownForDepartment string   `json:"known_for_department"`
	Homepage           string   `json:"homepage"`
	Adult              bool     `json:"adult"`
	Popularity         float64  `json:"popularity"`
	ProfilePath        string   `json:"profile_path"`

	MovieCredits    *PersonCredits `json:"movie_credits,omitempty"`
	TVCredits       *PersonCredits `json:"tv_credits,omitempty"`
	CombinedCredits *PersonCredits `json:"combined_credits,omitempty"`
	Images          *Images        `json:"images,omitempty"`
	ExternalIDs     *ExternalIDs   `json:"external_ids,omitempty"`
}

// PersonCredits lists the roles of a person. Entries carry the fields
// of a MultiResult plus the credited role.
type PersonCredits struct {
	ID   int            `json:"id"`
	Cast []PersonCredit `json:"cast"`
	Crew []PersonCredit `json:"crew"`
}

// PersonCredit is one role of a person.
type PersonCredit struct {
	MultiResult
	CreditID   string `json:"credit_id"`
	Character  string `json:"character,omitempty"`
	Department string `json:"department,omitempty"`
	Job        string `json:"job,omitempty"`
}

// Load fetches one person.
func (s *PeopleService) Load(ctx context.Context, id int, opts ...QueryOption) (Person, error) {
	return loadByID[Person](ctx, s.client, "/person/%d", id, opts)
}

// MovieCredits lists the movie roles of a person.
func (s *PeopleService) MovieCredits(ctx context.Context, id int, opts ...QueryOption) (PersonCredits, error) {
	return loadByID[PersonCredits](ctx, s.client, "/person/%d/movie_credits", id, opts)
}

// TVCredits lists the TV roles of a person.
func (s *PeopleService) TVCredits(ctx context.Context, id int, opts ...QueryOption) (PersonCredits, error) {
	return loadByID[PersonCredits](ctx, s.client, "/person/%d/tv_credits", id, opts)
}

// CombinedCredits lists movie and TV roles together.
func (s *PeopleService) CombinedCredits(ctx context.Context, id int, opts ...QueryOption) (PersonCredits, error) {
	return loadByID[PersonCredits](ctx, s.client, "/person/%d/combined_credits", id, opts)
}

// Images fetches the profile pictures of a person.
func (s *PeopleService) Images(ctx context.Context, id int) (Images, error) {
	return loadByID[Images](ctx, s.client, "/person/%d/images", id, nil)
}

// ExternalIDs fetches the ids of a person in other databases.
func (s *PeopleService) ExternalIDs(ctx context.Context, id int) (ExternalIDs, error) {
	return loadByID[ExternalIDs](ctx, s.client, "/person/%d/external_ids", id, nil)
}

// Popular lists people by popularity.
func (s *PeopleService) Popular(ctx context.Context, opts ...QueryOption) (Page[PersonSummary], error) {
	return load[Page[PersonSummary]](ctx, s.client, "/person/popular", opts)
}

// Latest fetches the most recently added person.
func (s *PeopleService) Latest(ctx context.Context, opts ...QueryOption) (Person, error) {
	return load[Person](ctx, s.client, "/person/latest", opts)
}
