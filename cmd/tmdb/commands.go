package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/tmdb"
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func appendOpts(subs []string) []tmdb.QueryOption {
	if len(subs) == 0 {
		return nil
	}
	return []tmdb.QueryOption{tmdb.Append(subs...)}
}

func newMovieCmd(a *app) *cobra.Command {
	var subs []string

	cmd := &cobra.Command{
		Use:     "movie <id>",
		Short:   "Show a movie",
		Example: "  tmdb movie 550 --append credits,images",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			movie, err := a.client.Movies.Load(cmd.Context(), id, appendOpts(subs)...)
			if err != nil {
				return err
			}

			return printJSON(cmd, movie)
		},
	}
	cmd.Flags().StringSliceVar(&subs, "append", nil, "sub-resources to embed, e.g. credits,images")

	return cmd
}

func newPersonCmd(a *app) *cobra.Command {
	var subs []string

	cmd := &cobra.Command{
		Use:   "person <id>",
		Short: "Show a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			person, err := a.client.People.Load(cmd.Context(), id, appendOpts(subs)...)
			if err != nil {
				return err
			}

			return printJSON(cmd, person)
		},
	}
	cmd.Flags().StringSliceVar(&subs, "append", nil, "sub-resources to embed, e.g. movie_credits")

	return cmd
}

func newTVCmd(a *app) *cobra.Command {
	var subs []string

	cmd := &cobra.Command{
		Use:   "tv <id> [season] [episode]",
		Short: "Show a TV show, season or episode",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids[i] = id
			}

			var (
				v   any
				err error
			)
			switch len(ids) {
			case 1:
				v, err = a.client.TV.Load(cmd.Context(), ids[0], appendOpts(subs)...)
			case 2:
				v, err = a.client.TVSeasons.Load(cmd.Context(), ids[0], ids[1], appendOpts(subs)...)
			default:
				v, err = a.client.TVEpisodes.Load(cmd.Context(), ids[0], ids[1], ids[2], appendOpts(subs)...)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd, v)
		},
	}
	cmd.Flags().StringSliceVar(&subs, "append", nil, "sub-resources to embed, e.g. credits")

	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		kind string
		page int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies, shows, people or everything at once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := []tmdb.QueryOption{tmdb.OnPage(page)}

			var (
				v   any
				err error
			)
			switch kind {
			case "movie":
				v, err = a.client.Search.Movies(ctx, args[0], opts...)
			case "tv":
				v, err = a.client.Search.TV(ctx, args[0], opts...)
			case "person":
				v, err = a.client.Search.People(ctx, args[0], opts...)
			case "multi":
				v, err = a.client.Search.Multi(ctx, args[0], opts...)
			default:
				return fmt.Errorf("unknown search kind %q (must be movie, tv, person or multi)", kind)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd, v)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "multi", "what to search: movie, tv, person or multi")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "result page")

	return cmd
}

func newConfigurationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "configuration",
		Short: "Show the API configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.client.Configuration.Load(cmd.Context())
			if err != nil {
				return err
			}

			return printJSON(cmd, cfg)
		},
	}
}

func newImageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "image <path> <size> <dest>",
		Short:   "Download an image",
		Example: "  tmdb image /pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg w500 poster.jpg",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, size, dest := args[0], args[1], args[2]

			if err := a.client.Images.Download(cmd.Context(), path, size, dest); err != nil {
				return err
			}

			a.logger.Info("image saved", "path", path, "size", size, "dest", dest)

			return printJSON(cmd, map[string]string{
				"url":  a.client.Images.URL(path, size),
				"dest": dest,
			})
		},
	}
}
