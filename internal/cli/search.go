package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artpar/marquee/internal/app"
	"github.com/artpar/marquee/internal/movie"
)

// SearchOptions holds options for the search command.
type SearchOptions struct {
	Genre int64
	JSON  bool
}

// NewSearchCommand creates the search command.
func NewSearchCommand(global *GlobalOptions) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search [QUERY...]",
		Short: "Search the catalog by keyword or genre",
		Long:  "Search the catalog by keyword, or list movies of a genre with --genre. Favorites are marked with ♥.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" && opts.Genre == 0 {
				return fmt.Errorf("give a query or --genre")
			}
			return withCatalog(cmd, global, func(a *app.App) error {
				return runSearch(cmd, a, query, opts)
			})
		},
	}

	cmd.Flags().Int64VarP(&opts.Genre, "genre", "g", 0, "List movies of this genre id instead of searching")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, a *app.App, query string, opts *SearchOptions) error {
	var (
		results []movie.Snapshot
		err     error
	)
	if opts.Genre != 0 {
		results, err = a.Catalog().DiscoverByGenre(cmd.Context(), opts.Genre)
	} else {
		results, err = a.Catalog().SearchMovies(cmd.Context(), query)
	}
	if err != nil {
		return err
	}

	if opts.JSON {
		return writeJSON(cmd.OutOrStdout(), results)
	}

	ctx, cancel := a.StorageContext(cmd.Context())
	defer cancel()
	favs, err := a.Favorites().Load(ctx)
	if err != nil {
		return err
	}

	printMovies(cmd.OutOrStdout(), results, favs, "No results")
	return nil
}

// NewGenresCommand creates the genres command.
func NewGenresCommand(global *GlobalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List catalog genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, global, func(a *app.App) error {
				genres, err := a.Catalog().Genres(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), genres)
				}
				for _, g := range genres {
					fmt.Fprintf(cmd.OutOrStdout(), "%-8d %s\n", g.ID, g.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

// withCatalog opens the app and checks that the catalog can be reached with a token.
func withCatalog(cmd *cobra.Command, global *GlobalOptions, fn func(a *app.App) error) error {
	a, err := openApp(global, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Config().RequireToken(); err != nil {
		return err
	}
	return fn(a)
}
