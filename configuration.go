package tmdb

import (
	"context"

	"github.com/samber/lo"
)

// ConfigurationService reaches the /configuration endpoints.
type ConfigurationService service

// JobsService lists the departments and jobs used in crew credits.
type JobsService service

// TimezonesService lists the timezones used per country.
type TimezonesService service

// Configuration holds the image base URLs and sizes every image path
// is resolved against.
type Configuration struct {
	Images     ImagesConfiguration `json:"images"`
	ChangeKeys []string            `json:"change_keys"`
}

// ImagesConfiguration lists the image host and the sizes each image
// kind is rendered in, e.g. "w500" or "original".
type ImagesConfiguration struct {
	BaseURL       string   `json:"base_url"`
	SecureBaseURL string   `json:"secure_base_url"`
	BackdropSizes []string `json:"backdrop_sizes"`
	LogoSizes     []string `json:"logo_sizes"`
	PosterSizes   []string `json:"poster_sizes"`
	ProfileSizes  []string `json:"profile_sizes"`
	StillSizes    []string `json:"still_sizes"`
}

// Sizes returns every size the configuration knows of, without
// duplicates.
func (ic ImagesConfiguration) Sizes() []string {
	return lo.Uniq(lo.Flatten([][]string{ic.BackdropSizes, ic.LogoSizes, ic.PosterSizes, ic.ProfileSizes, ic.StillSizes}))
}

// Job lists the jobs of one department.
type Job struct {
	Department string   `json:"department"`
	Jobs       []string `json:"jobs"`
}

// Timezone lists the zones of one country.
type Timezone struct {
	ISO3166_1 string   `json:"iso_3166_1"`
	Zones     []string `json:"zones"`
}

// Load fetches the API configuration.
func (s *ConfigurationService) Load(ctx context.Context) (Configuration, error) {
	return get[Configuration](ctx, s.client, "/configuration", nil)
}

// Countries lists the countries used throughout the API.
func (s *ConfigurationService) Countries(ctx context.Context, opts ...QueryOption) ([]Country, error) {
	return load[[]Country](ctx, s.client, "/configuration/countries", opts)
}

// Languages lists the languages used throughout the API.
func (s *ConfigurationService) Languages(ctx context.Context) ([]SpokenLanguage, error) {
	return get[[]SpokenLanguage](ctx, s.client, "/configuration/languages", nil)
}

// Jobs lists departments and their jobs.
func (s *ConfigurationService) Jobs(ctx context.Context) ([]Job, error) {
	return get[[]Job](ctx, s.client, "/configuration/jobs", nil)
}

// Timezones lists timezones per country.
func (s *ConfigurationService) Timezones(ctx context.Context) ([]Timezone, error) {
	return get[[]Timezone](ctx, s.client, "/configuration/timezones", nil)
}

// PrimaryTranslations lists the translations, e.g. "en-US", with full
// coverage.
func (s *ConfigurationService) PrimaryTranslations(ctx context.Context) ([]string, error) {
	return get[[]string](ctx, s.client, "/configuration/primary_translations", nil)
}

// Load lists departments and their jobs.
func (s *JobsService) Load(ctx context.Context) ([]Job, error) {
	return (*ConfigurationService)(s).Jobs(ctx)
}

// Load lists timezones per country.
func (s *TimezonesService) Load(ctx context.Context) ([]Timezone, error) {
	return (*ConfigurationService)(s).Timezones(ctx)
}
