package tmdb

import (
	"context"
	"strings"

	"github.com/adamwoolhether/tmdb/internal/validate"
)

// FindService reaches the /find endpoint.
type FindService service

// External id sources accepted by FindService.ByExternalID.
const (
	SourceIMDb      = "imdb_id"
	SourceTVDb      = "tvdb_id"
	SourceWikidata  = "wikidata_id"
	SourceFacebook  = "facebook_id"
	SourceInstagram = "instagram_id"
	SourceTwitter   = "twitter_id"
	SourceTikTok    = "tiktok_id"
	SourceYouTube   = "youtube_id"
)

// FindResult groups the resources matching an external id.
type FindResult struct {
	MovieResults     []MovieSummary  `json:"movie_results"`
	PersonResults    []PersonSummary `json:"person_results"`
	TVResults        []TVSummary     `json:"tv_results"`
	TVSeasonResults  []Season        `json:"tv_season_results"`
	TVEpisodeResults []Episode       `json:"tv_episode_results"`
}

type findRequest struct {
	ID     string `url:"external_id" validate:"required"`
	Source string `url:"external_source" validate:"required,oneof=imdb_id tvdb_id wikidata_id facebook_id instagram_id twitter_id tiktok_id youtube_id"`
}

// ByExternalID looks up resources by their id in another database,
// e.g. ByExternalID(ctx, "tt0137523", SourceIMDb).
func (s *FindService) ByExternalID(ctx context.Context, id, source string, opts ...QueryOption) (FindResult, error) {
	req := findRequest{ID: strings.TrimSpace(id), Source: source}
	if err := validate.Struct(req); err != nil {
		return FindResult{}, err
	}

	q, err := buildQuery(opts)
	if err != nil {
		return FindResult{}, err
	}
	q.Set("external_source", req.Source)

	return get[FindResult](ctx, s.client, "/find/"+req.ID, q)
}
