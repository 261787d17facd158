package tmdb

import (
	"context"
	"fmt"

	"github.com/adamwoolhether/tmdb/internal/validate"
)

// AccountService reaches the /account endpoints. Every call needs a
// user session.
type AccountService service

// GuestSessionService reaches the /guest_session endpoints. Every call
// needs a guest session.
type GuestSessionService service

// Account is the user owning the current session.
type Account struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	IncludeAdult bool   `json:"include_adult"`
	ISO639_1     string `json:"iso_639_1"`
	ISO3166_1    string `json:"iso_3166_1"`
}

// RatedMovie is a movie with the rating given by the account.
type RatedMovie struct {
	MovieSummary
	Rating float64 `json:"rating"`
}

// RatedTV is a show with the rating given by the account.
type RatedTV struct {
	TVSummary
	Rating float64 `json:"rating"`
}

type mediaToggle struct {
	MediaType string `json:"media_type" validate:"required,oneof=movie tv"`
	MediaID   int    `json:"media_id" validate:"required,gt=0"`
	Favorite  *bool  `json:"favorite,omitempty"`
	Watchlist *bool  `json:"watchlist,omitempty"`
}

// Details fetches the account of the current session.
func (s *AccountService) Details(ctx context.Context) (Account, error) {
	if err := s.client.requireSession(); err != nil {
		return Account{}, err
	}
	return get[Account](ctx, s.client, "/account", nil)
}

func accountList[T any](ctx context.Context, c *Client, accountID int, list string, opts []QueryOption) (Page[T], error) {
	if err := c.requireSession(); err != nil {
		return Page[T]{}, err
	}
	return load[Page[T]](ctx, c, fmt.Sprintf("/account/%d/%s", accountID, list), opts)
}

// FavoriteMovies lists the movies the account marked as favorite.
func (s *AccountService) FavoriteMovies(ctx context.Context, accountID int, opts ...QueryOption) (Page[MovieSummary], error) {
	return accountList[MovieSummary](ctx, s.client, accountID, "favorite/movies", opts)
}

// RatedMovies lists the movies the account rated.
func (s *AccountService) RatedMovies(ctx context.Context, accountID int, opts ...QueryOption) (Page[RatedMovie], error) {
	return accountList[RatedMovie](ctx, s.client, accountID, "rated/movies", opts)
}

// Watchlist lists the movies on the account watchlist.
func (s *AccountService) Watchlist(ctx context.Context, accountID int, opts ...QueryOption) (Page[MovieSummary], error) {
	return accountList[MovieSummary](ctx, s.client, accountID, "watchlist/movies", opts)
}

func (s *AccountService) toggle(ctx context.Context, accountID int, list string, body mediaToggle) (StatusResponse, error) {
	if err := s.client.requireSession(); err != nil {
		return StatusResponse{}, err
	}
	if err := validate.Struct(body); err != nil {
		return StatusResponse{}, err
	}
	return post[StatusResponse](ctx, s.client, fmt.Sprintf("/account/%d/%s", accountID, list), nil, body)
}

// MarkFavorite adds or removes a movie or show ("movie" or "tv") from
// the account favorites.
func (s *AccountService) MarkFavorite(ctx context.Context, accountID int, mediaType string, mediaID int, favorite bool) (StatusResponse, error) {
	return s.toggle(ctx, accountID, "favorite", mediaToggle{MediaType: mediaType, MediaID: mediaID, Favorite: &favorite})
}

// AddToWatchlist adds or removes a movie or show from the account
// watchlist.
func (s *AccountService) AddToWatchlist(ctx context.Context, accountID int, mediaType string, mediaID int, add bool) (StatusResponse, error) {
	return s.toggle(ctx, accountID, "watchlist", mediaToggle{MediaType: mediaType, MediaID: mediaID, Watchlist: &add})
}

func guestList[T any](ctx context.Context, c *Client, list string, opts []QueryOption) (Page[T], error) {
	if err := c.requireGuestSession(); err != nil {
		return Page[T]{}, err
	}
	path := fmt.Sprintf("/guest_session/%s/rated/%s", c.GuestSessionToken(), list)
	return load[Page[T]](ctx, c, path, opts)
}

// RatedMovies lists the movies rated by the guest session.
func (s *GuestSessionService) RatedMovies(ctx context.Context, opts ...QueryOption) (Page[RatedMovie], error) {
	return guestList[RatedMovie](ctx, s.client, "movies", opts)
}

// RatedTV lists the shows rated by the guest session.
func (s *GuestSessionService) RatedTV(ctx context.Context, opts ...QueryOption) (Page[RatedTV], error) {
	return guestList[RatedTV](ctx, s.client, "tv", opts)
}
