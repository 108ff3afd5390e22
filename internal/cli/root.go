package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/artpar/marquee/internal/app"
	"github.com/artpar/marquee/internal/config"
	"github.com/artpar/marquee/internal/logging"
	"github.com/artpar/marquee/internal/tui/views"
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	DataDir    string
	Storage    string
	Verbose    bool
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "marquee",
		Short:         "Marquee - browse movies and keep favorites",
		Long:          "Marquee is a terminal client for the TMDB movie catalog with a local favorites list.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.DataDir, "data-dir", "", "Directory holding favorites and logs")
	flags.StringVar(&opts.Storage, "storage", "", "Storage backend: sqlite or file")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewGenresCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// loadConfig reads the config file with flag overrides applied.
func loadConfig(opts *GlobalOptions) (config.Config, error) {
	return config.LoadWith(opts.ConfigPath, config.Overrides{
		DataDir: opts.DataDir,
		Storage: opts.Storage,
	})
}

// openApp loads configuration, sets up logging to w and opens the app.
func openApp(opts *GlobalOptions, w io.Writer) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, cfg.LogFormat, w)

	return app.New(cfg)
}

// tuiModel wraps the RootView for bubbletea
type tuiModel struct {
	view *views.RootView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.RootView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application. Logs go to a file since the TUI owns the terminal.
func runTUI(cmd *cobra.Command, opts *GlobalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	level := logging.ParseLevel(cfg.LogLevel)
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logging.Init(level, cfg.LogFormat, logFile)

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	model := tuiModel{
		view: views.NewRootView(views.Deps{
			Favorites:      application.Favorites(),
			Catalog:        application.Catalog(),
			StorageTimeout: cfg.StorageTimeout,
			RequestTimeout: cfg.Timeout,
		}),
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
