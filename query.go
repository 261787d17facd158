package tmdb

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/adamwoolhether/tmdb/event/listener"
	"github.com/adamwoolhether/tmdb/internal/validate"
)

// MaxPage is the highest page the API serves for paginated lists.
const MaxPage = 500

// QueryOption adds query parameters to a single call.
type QueryOption func(url.Values) error

// Language localises this call, overriding a client-wide language.
func Language(lang string) QueryOption {
	return func(v url.Values) error {
		if err := validate.Var("language", lang, "required,bcp47_language_tag"); err != nil {
			return err
		}
		v.Set("language", lang)
		return nil
	}
}

// Region filters this call to one country.
func Region(region string) QueryOption {
	return func(v url.Values) error {
		code, err := listener.NormalizeRegion(region)
		if err != nil {
			return err
		}
		v.Set("region", code)
		return nil
	}
}

// Append embeds sub-resources in the response through
// append_to_response, e.g. Append("credits", "images").
func Append(subs ...string) QueryOption {
	return func(v url.Values) error {
		existing := strings.Split(v.Get("append_to_response"), ",")
		all := lo.Uniq(lo.Filter(lo.Map(append(existing, subs...), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}), func(s string, _ int) bool {
			return s != ""
		}))
		if len(all) == 0 {
			return errors.New("append_to_response: no sub-resource given")
		}
		v.Set("append_to_response", strings.Join(all, ","))
		return nil
	}
}

// OnPage selects a page of a paginated list, starting at 1.
func OnPage(page int) QueryOption {
	return func(v url.Values) error {
		if page < 1 || page > MaxPage {
			return fmt.Errorf("page %d out of range [1,%d]", page, MaxPage)
		}
		v.Set("page", strconv.Itoa(page))
		return nil
	}
}

// Param sets an arbitrary query parameter.
func Param(key, value string) QueryOption {
	return func(v url.Values) error {
		if key == "" {
			return errors.New("query key must not be empty")
		}
		v.Set(key, value)
		return nil
	}
}

func buildQuery(opts []QueryOption) (url.Values, error) {
	v := url.Values{}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("building query: %w", err)
		}
	}
	return v, nil
}
