package tmdbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Movie 19995 is served with fixed details.
const (
	AvatarID    = 19995
	AvatarTitle = "Avatar"
)

type object = map[string]any

func (s *Server) routes(rt *router) {
	rt.get("/t/p/{size}/{file}", s.image)

	api := func(method, path string, h Handler, mw ...Middleware) {
		rt.handle(method, "/3"+path, h, append([]Middleware{authenticate, cacheable}, mw...)...)
	}

	api(http.MethodGet, "/configuration", s.configuration)
	api(http.MethodGet, "/configuration/{kind}", configurationList)

	api(http.MethodGet, "/movie/{id}", movie)
	api(http.MethodGet, "/movie/{id}/account_states", accountStates, requireAnySession)
	api(http.MethodGet, "/movie/{id}/{sub}", movieSub)
	api(http.MethodPost, "/movie/{id}/rating", rate, requireAnySession)
	api(http.MethodDelete, "/movie/{id}/rating", deleteRating, requireAnySession)
	for _, list := range []string{"popular", "top_rated", "now_playing", "upcoming"} {
		api(http.MethodGet, "/movie/"+list, movieList)
	}
	api(http.MethodGet, "/movie/latest", movie)

	api(http.MethodGet, "/person/{id}", person)
	api(http.MethodGet, "/person/{id}/{sub}", personSub)
	api(http.MethodGet, "/person/popular", personList)
	api(http.MethodGet, "/person/latest", person)

	api(http.MethodGet, "/tv/{id}", tvShow)
	api(http.MethodGet, "/tv/{id}/{sub}", tvSub)
	api(http.MethodGet, "/tv/{id}/season/{season}", season)
	api(http.MethodGet, "/tv/{id}/season/{season}/episode/{episode}", episode)
	for _, list := range []string{"popular", "top_rated", "on_the_air", "airing_today"} {
		api(http.MethodGet, "/tv/"+list, tvList)
	}

	api(http.MethodGet, "/search/{kind}", search)
	api(http.MethodGet, "/discover/{kind}", discover)
	api(http.MethodGet, "/find/{id}", find)

	api(http.MethodGet, "/genre/{kind}/list", genres)
	api(http.MethodGet, "/certification/{kind}/list", certifications)
	for _, kind := range []string{"movie", "tv", "person"} {
		api(http.MethodGet, "/"+kind+"/changes", changes)
	}
	api(http.MethodGet, "/collection/{id}", collection)
	api(http.MethodGet, "/collection/{id}/images", images)
	api(http.MethodGet, "/company/{id}", named("Company"))
	api(http.MethodGet, "/network/{id}", named("Network"))
	api(http.MethodGet, "/keyword/{id}", named("Keyword"))
	api(http.MethodGet, "/keyword/{id}/movies", movieList)
	api(http.MethodGet, "/credit/{id}", credit)
	api(http.MethodGet, "/review/{id}", review)
	api(http.MethodGet, "/list/{id}", list)

	api(http.MethodGet, "/authentication/token/new", requestToken)
	api(http.MethodPost, "/authentication/token/validate_with_login", validateLogin)
	api(http.MethodPost, "/authentication/session/new", newSession)
	api(http.MethodGet, "/authentication/guest_session/new", newGuestSession)
	api(http.MethodDelete, "/authentication/session", deleteSession)

	api(http.MethodGet, "/account", account, requireSession)
	api(http.MethodGet, "/account/{id}/{list}/movies", accountMovies, requireSession)
	api(http.MethodPost, "/account/{id}/favorite", toggle, requireSession)
	api(http.MethodPost, "/account/{id}/watchlist", toggle, requireSession)
	api(http.MethodGet, "/guest_session/{id}/rated/{kind}", guestRated)
}

func ok(ctx context.Context, w http.ResponseWriter, data any) error {
	return respondJSON(ctx, w, http.StatusOK, data)
}

func decode(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errBadRequest
	}
	return nil
}

// /////////////////////////////////////////////////////////////////

func (s *Server) image(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	body := ImageBody(r.PathValue("size"), r.PathValue("file"))
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, err := w.Write(body)
	return err
}

// ImageBody is the content served for an image at size.
func ImageBody(size, file string) []byte {
	return []byte(fmt.Sprintf("jpeg:%s/%s", size, file))
}

func (s *Server) configuration(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{
		"images": object{
			"base_url":        s.ImageBaseURL(),
			"secure_base_url": s.ImageBaseURL(),
			"backdrop_sizes":  []string{"w300", "w780", "w1280", "original"},
			"logo_sizes":      []string{"w45", "w92", "w154", "original"},
			"poster_sizes":    []string{"w92", "w154", "w342", "w500", "original"},
			"profile_sizes":   []string{"w45", "w185", "h632", "original"},
			"still_sizes":     []string{"w92", "w185", "w300", "original"},
		},
		"change_keys": []string{"adult", "title", "overview"},
	})
}

func configurationList(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	switch r.PathValue("kind") {
	case "countries":
		return ok(ctx, w, []object{
			{"iso_3166_1": "NL", "english_name": "Netherlands", "native_name": "Nederland"},
			{"iso_3166_1": "US", "english_name": "United States of America", "native_name": "United States"},
		})
	case "languages":
		return ok(ctx, w, []object{
			{"iso_639_1": "nl", "english_name": "Dutch", "name": "Nederlands"},
			{"iso_639_1": "en", "english_name": "English", "name": "English"},
		})
	case "jobs":
		return ok(ctx, w, []object{
			{"department": "Directing", "jobs": []string{"Director", "Script Supervisor"}},
		})
	case "timezones":
		return ok(ctx, w, []object{
			{"iso_3166_1": "NL", "zones": []string{"Europe/Amsterdam"}},
		})
	case "primary_translations":
		return ok(ctx, w, []string{"en-US", "nl-NL"})
	}
	return errNotFound
}

// /////////////////////////////////////////////////////////////////

func movieSummary(id int) object {
	title := fmt.Sprintf("Movie %d", id)
	if id == AvatarID {
		title = AvatarTitle
	}
	return object{
		"id":           id,
		"title":        title,
		"release_date": "2009-12-15",
		"genre_ids":    []int{28, 12},
		"vote_average": 7.6,
		"poster_path":  fmt.Sprintf("/poster-%d.jpg", id),
	}
}

func credits(id int) object {
	return object{
		"id": id,
		"cast": []object{
			{"id": 65731, "name": "Sam Worthington", "character": "Jake Sully", "order": 0, "credit_id": "52fe48009251416c750aca23"},
		},
		"crew": []object{
			{"id": 2710, "name": "James Cameron", "department": "Directing", "job": "Director", "credit_id": "52fe48009251416c750ac9c3"},
		},
	}
}

func imageSet(id int) object {
	return object{
		"id":        id,
		"backdrops": []object{{"file_path": "/backdrop.jpg", "width": 1920, "height": 1080, "aspect_ratio": 1.778}},
		"posters":   []object{{"file_path": "/poster.jpg", "width": 1000, "height": 1500, "aspect_ratio": 0.667}},
	}
}

func pageOf(r *http.Request, results ...object) object {
	if results == nil {
		results = []object{}
	}
	return object{
		"page":          page(r),
		"results":       results,
		"total_pages":   3,
		"total_results": 3 * len(results),
	}
}

func movie(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := 1_000_000
	if r.PathValue("id") != "" {
		var err error
		if id, err = pathID(r, "id"); err != nil {
			return err
		}
	}

	m := movieSummary(id)
	m["imdb_id"] = "tt0499549"
	m["runtime"] = 162
	m["budget"] = 237000000
	m["genres"] = []object{{"id": 28, "name": "Action"}}
	m["belongs_to_collection"] = object{"id": 87096, "name": "Avatar Collection"}

	for _, sub := range appended(r) {
		switch sub {
		case "credits":
			m["credits"] = credits(id)
		case "images":
			m["images"] = imageSet(id)
		case "keywords":
			m["keywords"] = object{"id": id, "keywords": []object{{"id": 4344, "name": "alien"}}}
		case "similar", "recommendations":
			m[sub] = pageOf(r, movieSummary(id+1))
		}
	}

	return ok(ctx, w, m)
}

func movieSub(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	switch r.PathValue("sub") {
	case "credits":
		return ok(ctx, w, credits(id))
	case "images":
		return ok(ctx, w, imageSet(id))
	case "videos":
		return ok(ctx, w, object{"id": id, "results": []object{{"id": "v1", "key": "5PSNL1qE6VY", "site": "YouTube", "type": "Trailer", "name": "Official Trailer"}}})
	case "keywords":
		return ok(ctx, w, object{"id": id, "keywords": []object{{"id": 4344, "name": "alien"}}})
	case "recommendations", "similar":
		return ok(ctx, w, pageOf(r, movieSummary(id+1), movieSummary(id+2)))
	case "release_dates":
		return ok(ctx, w, object{"id": id, "results": []object{
			{"iso_3166_1": "NL", "release_dates": []object{{"certification": "12", "release_date": "2009-12-16T00:00:00.000Z", "type": 3}}},
		}})
	case "external_ids":
		return ok(ctx, w, object{"id": id, "imdb_id": "tt0499549", "wikidata_id": "Q24871"})
	case "reviews":
		return ok(ctx, w, pageOf(r, object{"id": "5d1f1d5d", "author": "critic", "content": "Great.", "author_details": object{"rating": 8.0}}))
	}

	return errNotFound
}

func movieList(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	p := pageOf(r, movieSummary(100), movieSummary(101))
	p["dates"] = object{"minimum": "2024-01-01", "maximum": "2024-01-28"}
	return ok(ctx, w, p)
}

func accountStates(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var rated any = false
	if id == AvatarID {
		rated = object{"value": 8.5}
	}
	return ok(ctx, w, object{"id": id, "favorite": true, "watchlist": false, "rated": rated})
}

func rate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if _, err := pathID(r, "id"); err != nil {
		return err
	}

	var body struct {
		Value float64 `json:"value"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	if body.Value < 0.5 || body.Value > 10 {
		return &apiError{HTTPStatus: http.StatusBadRequest, StatusCode: 18, StatusMessage: "Value too low: Value must be greater than 0."}
	}

	return respondJSON(ctx, w, http.StatusCreated, object{"success": true, "status_code": 1, "status_message": "Success."})
}

func deleteRating(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if _, err := pathID(r, "id"); err != nil {
		return err
	}
	return ok(ctx, w, object{"success": true, "status_code": 13, "status_message": "The item/record was deleted successfully."})
}

// /////////////////////////////////////////////////////////////////

func personSummary(id int) object {
	return object{
		"id":                   id,
		"name":                 fmt.Sprintf("Person %d", id),
		"known_for_department": "Acting",
		"known_for":            []object{{"id": AvatarID, "media_type": "movie", "title": AvatarTitle}},
	}
}

func person(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := 2_000_000
	if r.PathValue("id") != "" {
		var err error
		if id, err = pathID(r, "id"); err != nil {
			return err
		}
	}

	p := personSummary(id)
	delete(p, "known_for")
	p["birthday"] = "1976-08-02"
	p["deathday"] = nil
	p["place_of_birth"] = "Godalming, Surrey, England, UK"
	p["also_known_as"] = []string{"Samuel Worthington"}

	for _, sub := range appended(r) {
		switch sub {
		case "movie_credits":
			p["movie_credits"] = personCredits(id)
		case "images":
			p["images"] = object{"id": id, "profiles": []object{{"file_path": "/profile.jpg"}}}
		}
	}

	return ok(ctx, w, p)
}

func personCredits(id int) object {
	return object{
		"id":   id,
		"cast": []object{{"id": AvatarID, "media_type": "movie", "title": AvatarTitle, "character": "Jake Sully", "credit_id": "52fe48009251416c750aca23"}},
		"crew": []object{},
	}
}

func personSub(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	switch r.PathValue("sub") {
	case "movie_credits", "tv_credits", "combined_credits":
		return ok(ctx, w, personCredits(id))
	case "images":
		return ok(ctx, w, object{"id": id, "profiles": []object{{"file_path": "/profile.jpg"}}})
	case "external_ids":
		return ok(ctx, w, object{"id": id, "imdb_id": "nm0941777"})
	}

	return errNotFound
}

func personList(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, pageOf(r, personSummary(65731)))
}

// /////////////////////////////////////////////////////////////////

func tvSummary(id int) object {
	return object{
		"id":             id,
		"name":           fmt.Sprintf("Show %d", id),
		"first_air_date": "2008-01-20",
		"origin_country": []string{"US"},
	}
}

func tvShow(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	show := tvSummary(id)
	show["number_of_seasons"] = 5
	show["last_air_date"] = ""
	show["networks"] = []object{{"id": 174, "name": "AMC"}}
	show["seasons"] = []object{{"id": 3572, "season_number": 1, "episode_count": 7, "air_date": "2008-01-20"}}
	for _, sub := range appended(r) {
		if sub == "credits" {
			show["credits"] = credits(id)
		}
	}

	return ok(ctx, w, show)
}

func tvSub(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}

	switch r.PathValue("sub") {
	case "credits":
		return ok(ctx, w, credits(id))
	case "images":
		return ok(ctx, w, imageSet(id))
	case "videos":
		return ok(ctx, w, object{"id": id, "results": []object{}})
	case "external_ids":
		return ok(ctx, w, object{"id": id, "imdb_id": "tt0903747", "tvdb_id": 81189})
	case "similar", "recommendations":
		return ok(ctx, w, pageOf(r, tvSummary(id+1)))
	}

	return errNotFound
}

func tvList(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, pageOf(r, tvSummary(1396)))
}

func episodeOf(season, number int) object {
	return object{
		"id":             62085 + number,
		"name":           fmt.Sprintf("Episode %d", number),
		"season_number":  season,
		"episode_number": number,
		"air_date":       "2008-01-20",
	}
}

func season(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if _, err := pathID(r, "id"); err != nil {
		return err
	}
	n, err := pathID(r, "season")
	if err != nil {
		return err
	}

	return ok(ctx, w, object{
		"id":            3572,
		"name":          fmt.Sprintf("Season %d", n),
		"season_number": n,
		"air_date":      "2008-01-20",
		"episodes":      []object{episodeOf(n, 1), episodeOf(n, 2)},
	})
}

func episode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if _, err := pathID(r, "id"); err != nil {
		return err
	}
	s, err := pathID(r, "season")
	if err != nil {
		return err
	}
	e, err := pathID(r, "episode")
	if err != nil {
		return err
	}

	ep := episodeOf(s, e)
	ep["guest_stars"] = []object{{"id": 1, "name": "Guest", "character": "Self"}}
	return ok(ctx, w, ep)
}

// /////////////////////////////////////////////////////////////////

func search(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query().Get("query")
	if q == "" {
		return errBadRequest
	}

	switch r.PathValue("kind") {
	case "movie":
		m := movieSummary(AvatarID)
		m["title"] = q
		return ok(ctx, w, pageOf(r, m))
	case "tv":
		t := tvSummary(1396)
		t["name"] = q
		return ok(ctx, w, pageOf(r, t))
	case "person":
		p := personSummary(65731)
		p["name"] = q
		return ok(ctx, w, pageOf(r, p))
	case "collection", "company", "keyword":
		return ok(ctx, w, pageOf(r, object{"id": 1, "name": q}))
	case "multi":
		return ok(ctx, w, pageOf(r,
			object{"id": AvatarID, "media_type": "movie", "title": q},
			object{"id": 65731, "media_type": "person", "name": q},
		))
	}

	return errNotFound
}

func discover(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	switch r.PathValue("kind") {
	case "movie":
		return ok(ctx, w, pageOf(r, movieSummary(AvatarID)))
	case "tv":
		return ok(ctx, w, pageOf(r, tvSummary(1396)))
	}
	return errNotFound
}

func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if r.URL.Query().Get("external_source") == "" {
		return errBadRequest
	}

	res := object{
		"movie_results":      []object{},
		"person_results":     []object{},
		"tv_results":         []object{},
		"tv_season_results":  []object{},
		"tv_episode_results": []object{},
	}
	if r.PathValue("id") == "tt0499549" {
		res["movie_results"] = []object{movieSummary(AvatarID)}
	}

	return ok(ctx, w, res)
}

// /////////////////////////////////////////////////////////////////

func genres(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{"genres": []object{{"id": 28, "name": "Action"}, {"id": 12, "name": "Adventure"}}})
}

func certifications(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{"certifications": object{
		"NL": []object{{"certification": "AL", "meaning": "All ages.", "order": 1}},
	}})
}

func changes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, pageOf(r, object{"id": 1, "adult": false}, object{"id": 2, "adult": false}))
}

func collection(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	return ok(ctx, w, object{"id": id, "name": "Avatar Collection", "overview": "Films.", "parts": []object{movieSummary(AvatarID)}})
}

func images(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	return ok(ctx, w, imageSet(id))
}

func named(kind string) Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r, "id")
		if err != nil {
			return err
		}
		return ok(ctx, w, object{"id": id, "name": fmt.Sprintf("%s %d", kind, id)})
	}
}

func credit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{
		"id":          r.PathValue("id"),
		"credit_type": "cast",
		"department":  "Actors",
		"job":         "Actor",
		"media_type":  "movie",
		"media":       object{"id": AvatarID, "title": AvatarTitle},
		"person":      object{"id": 65731, "name": "Sam Worthington"},
	})
}

func review(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{"id": r.PathValue("id"), "author": "critic", "content": "Great.", "media_id": AvatarID, "media_type": "Movie"})
}

func list(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return ok(ctx, w, object{"id": r.PathValue("id"), "name": "Legacy list", "items": []object{movieSummary(AvatarID)}})
	}
	return ok(ctx, w, object{"id": id, "name": "List", "item_count": 1, "items": []object{movieSummary(AvatarID)}})
}

// /////////////////////////////////////////////////////////////////

func requestToken(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{"success": true, "expires_at": "2026-10-15 13:00:00 UTC", "request_token": RequestToken})
}

func validateLogin(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Username     string `json:"username"`
		Password     string `json:"password"`
		RequestToken string `json:"request_token"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	if body.Username != Username || body.Password != Password || body.RequestToken != RequestToken {
		return errBadLogin
	}

	return ok(ctx, w, object{"success": true, "expires_at": "2026-10-15 13:00:00 UTC", "request_token": RequestToken})
}

func newSession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var body struct {
		RequestToken string `json:"request_token"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	if body.RequestToken != RequestToken {
		return &apiError{HTTPStatus: http.StatusUnauthorized, StatusCode: 17, StatusMessage: "Session denied."}
	}

	return ok(ctx, w, object{"success": true, "session_id": SessionID})
}

func newGuestSession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{"success": true, "guest_session_id": GuestSessionID, "expires_at": "2026-10-16 12:00:00 UTC"})
}

func deleteSession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	if body.SessionID != SessionID {
		return errNotFound
	}

	return ok(ctx, w, object{"success": true})
}

func account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return ok(ctx, w, object{"id": 548, "name": "", "username": Username, "iso_639_1": "en", "iso_3166_1": "NL"})
}

func accountMovies(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	switch r.PathValue("list") {
	case "favorite", "watchlist":
		return ok(ctx, w, pageOf(r, movieSummary(AvatarID)))
	case "rated":
		m := movieSummary(AvatarID)
		m["rating"] = 8.5
		return ok(ctx, w, pageOf(r, m))
	}
	return errNotFound
}

func toggle(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var body struct {
		MediaType string `json:"media_type"`
		MediaID   int    `json:"media_id"`
	}
	if err := decode(r, &body); err != nil {
		return err
	}
	if body.MediaID == 0 || body.MediaType == "" {
		return errBadRequest
	}

	return respondJSON(ctx, w, http.StatusCreated, object{"success": true, "status_code": 1, "status_message": "Success."})
}

func guestRated(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if r.PathValue("id") != GuestSessionID {
		return errNotFound
	}

	switch r.PathValue("kind") {
	case "movies":
		m := movieSummary(AvatarID)
		m["rating"] = 7.0
		return ok(ctx, w, pageOf(r, m))
	case "tv":
		t := tvSummary(1396)
		t["rating"] = 9.0
		return ok(ctx, w, pageOf(r, t))
	}
	return errNotFound
}
