package listener

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pariz/gountries"

	"github.com/adamwoolhether/tmdb/event"
	"github.com/adamwoolhether/tmdb/internal/validate"
)

var countries = gountries.New()

// ErrUnknownRegion is returned for a region that is neither an
// ISO 3166-1 code nor a known country name.
var ErrUnknownRegion = errors.New("unknown region")

// QueryParam sets a fixed query parameter on every request that does
// not already carry it.
type QueryParam struct {
	Key   string
	Value string
}

func (p QueryParam) Handle(_ context.Context, ev event.Event) error {
	br, ok := ev.(*event.BeforeRequest)
	if !ok {
		return nil
	}

	query := br.Request.URL.Query()
	if query.Has(p.Key) {
		return nil
	}
	query.Set(p.Key, p.Value)
	br.Request.URL.RawQuery = query.Encode()

	return nil
}

// RegionFilter narrows release dates and listings to one country.
// region is an ISO 3166-1 alpha-2 or alpha-3 code, or an English
// country name, and is normalised to its upper-case alpha-2 form.
func RegionFilter(region string) (QueryParam, error) {
	code, err := NormalizeRegion(region)
	if err != nil {
		return QueryParam{}, err
	}

	return QueryParam{Key: "region", Value: code}, nil
}

// NormalizeRegion resolves region to an upper-case ISO 3166-1 alpha-2 code.
func NormalizeRegion(region string) (string, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownRegion)
	}

	if c, err := countries.FindCountryByAlpha(strings.ToUpper(region)); err == nil {
		return c.Codes.Alpha2, nil
	}

	if c, err := countries.FindCountryByName(region); err == nil {
		return c.Codes.Alpha2, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, region)
}

// LanguageFilter localises translatable fields. lang must be a BCP 47
// tag such as "en-US" or "nl".
func LanguageFilter(lang string) (QueryParam, error) {
	if err := validate.Var("language", lang, "required,bcp47_language_tag"); err != nil {
		return QueryParam{}, err
	}

	return QueryParam{Key: "language", Value: lang}, nil
}

// AdultFilter toggles adult titles in search and discover results.
func AdultFilter(include bool) QueryParam {
	return QueryParam{Key: "include_adult", Value: strconv.FormatBool(include)}
}
