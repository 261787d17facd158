package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/tmdb"
	"github.com/adamwoolhether/tmdb/internal/config"
)

type app struct {
	cfgFile  string
	language string
	region   string
	insecure bool

	cfg    *config.Config
	logger *slog.Logger
	client *tmdb.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tmdb",
		Short: "Query The Movie Database",
		Long: `tmdb reads movies, people and shows from The Movie Database v3 API
and prints them as JSON. Credentials come from the config file, the
TMDB_API_KEY or TMDB_READ_ACCESS_TOKEN environment variables or a .env file.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.initialize,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.client == nil {
				return nil
			}
			return a.client.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./tmdb.yaml or $HOME/.tmdb/tmdb.yaml)")
	flags.StringVarP(&a.language, "language", "l", "", "response language, e.g. nl-NL")
	flags.StringVarP(&a.region, "region", "r", "", "region filter, e.g. NL")
	flags.BoolVar(&a.insecure, "insecure", false, "use http instead of https")

	root.AddCommand(
		newMovieCmd(a),
		newPersonCmd(a),
		newTVCmd(a),
		newSearchCmd(a),
		newConfigurationCmd(a),
		newImageCmd(a),
	)

	return root
}

func (a *app) initialize(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "help", "completion":
		return nil
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("language") {
		cfg.API.Language = a.language
	}
	if cmd.Flags().Changed("region") {
		cfg.API.Region = a.region
	}
	if cmd.Flags().Changed("insecure") {
		cfg.API.Insecure = a.insecure
	}

	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())

	a.client, err = tmdb.New(cfg.ClientOptions(a.logger)...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	a.logger.Debug("client ready", "base_uri", a.client.BaseURI(), "cache", a.client.CacheEnabled())

	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	return nil
}
