package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/artpar/marquee/internal/app"
	"github.com/artpar/marquee/internal/favorites"
	"github.com/artpar/marquee/internal/movie"
)

// FavoritesOptions holds options for the favorites commands.
type FavoritesOptions struct {
	JSON   bool
	Repair bool
}

// NewFavoritesCommand creates the favorites command and its subcommands.
func NewFavoritesCommand(global *GlobalOptions) *cobra.Command {
	opts := &FavoritesOptions{}

	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage the local favorites list",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List favorite movies in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, global, func(ctx context.Context, a *app.App) error {
				c, err := a.Favorites().Load(ctx)
				if err != nil {
					return err
				}
				if opts.JSON {
					return writeJSON(cmd.OutOrStdout(), c)
				}
				printMovies(cmd.OutOrStdout(), c, nil, "No favorite movies found.")
				return nil
			})
		},
	}
	listCmd.Flags().BoolVar(&opts.JSON, "json", false, "Output as JSON")

	addCmd := &cobra.Command{
		Use:   "add ID...",
		Short: "Fetch movies from the catalog and add them to favorites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withCatalog(cmd, global, func(a *app.App) error {
				snaps, err := fetchSnapshots(cmd.Context(), a, ids)
				if err != nil {
					return err
				}
				for _, snap := range snaps {
					ctx, cancel := a.StorageContext(cmd.Context())
					err := a.Favorites().Add(ctx, snap)
					cancel()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d)\n", snap.Title, snap.ID)
				}
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove ID...",
		Aliases: []string{"rm"},
		Short:   "Remove movies from favorites",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withApp(cmd, global, func(ctx context.Context, a *app.App) error {
				for _, id := range ids {
					removed, err := a.Favorites().Remove(ctx, id)
					if err != nil {
						return err
					}
					if removed {
						fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", id)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%d was not a favorite\n", id)
					}
				}
				return nil
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle ID",
		Short: "Add a movie to favorites, or remove it if it is already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withCatalog(cmd, global, func(a *app.App) error {
				snaps, err := fetchSnapshots(cmd.Context(), a, ids)
				if err != nil {
					return err
				}
				snap := snaps[0]

				ctx, cancel := a.StorageContext(cmd.Context())
				defer cancel()
				on, err := a.Favorites().Toggle(ctx, snap)
				if err != nil {
					return err
				}
				if on {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d)\n", snap.Title, snap.ID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d)\n", snap.Title, snap.ID)
				}
				return nil
			})
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check ID",
		Short: "Report whether a movie is a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withApp(cmd, global, func(ctx context.Context, a *app.App) error {
				ok, err := a.Favorites().Contains(ctx, ids[0])
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%d is a favorite\n", ids[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%d is not a favorite\n", ids[0])
				}
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, global, func(ctx context.Context, a *app.App) error {
				if err := a.Favorites().Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared favorites")
				return nil
			})
		},
	}

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the stored favorites for corruption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, global, func(ctx context.Context, a *app.App) error {
				return runDoctor(ctx, cmd.OutOrStdout(), a.Favorites(), opts.Repair)
			})
		},
	}
	doctorCmd.Flags().BoolVar(&opts.Repair, "repair", false, "Rewrite the stored list, moving unreadable data aside")

	cmd.AddCommand(listCmd, addCmd, removeCmd, toggleCmd, checkCmd, clearCmd, doctorCmd)
	return cmd
}

func runDoctor(ctx context.Context, out io.Writer, svc *favorites.Service, repair bool) error {
	err := svc.Validate(ctx)
	switch {
	case err == nil:
		n, err := svc.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Favorites OK (%d movies)\n", n)
		return printQuarantined(ctx, out, svc)
	case !errors.Is(err, favorites.ErrCorruptState):
		return err
	case !repair:
		return fmt.Errorf("%w (run with --repair to fix)", err)
	}

	fmt.Fprintf(out, "Found problem: %v\n", err)
	c, err := svc.Repair(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Repaired favorites (%d movies kept)\n", len(c))
	return printQuarantined(ctx, out, svc)
}

func printQuarantined(ctx context.Context, out io.Writer, svc *favorites.Service) error {
	keys, err := svc.Quarantined(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintf(out, "Unreadable data kept under %s\n", k)
	}
	return nil
}

// fetchSnapshots looks every id up in the catalog. It runs before any
// storage call so catalog latency never counts against the storage timeout.
func fetchSnapshots(ctx context.Context, a *app.App, ids []int64) ([]movie.Snapshot, error) {
	snaps := make([]movie.Snapshot, 0, len(ids))
	for _, id := range ids {
		snap, err := a.Catalog().Movie(ctx, id)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// withApp opens the app for one command and closes it afterwards.
// ctx is bounded by the storage timeout.
func withApp(cmd *cobra.Command, global *GlobalOptions, fn func(ctx context.Context, a *app.App) error) error {
	a, err := openApp(global, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := a.StorageContext(cmd.Context())
	defer cancel()

	return fn(ctx, a)
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid movie id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printMovies writes one line per movie. Ids in marked get a heart.
func printMovies(w io.Writer, movies movie.Collection, marked movie.Collection, empty string) {
	if len(movies) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, m := range movies {
		heart := " "
		if marked.Contains(m.ID) {
			heart = "♥"
		}
		fmt.Fprintf(w, "%s %-8d ★ %-4s %s\n", heart, m.ID, m.Rating(), m.Title)
	}
}
