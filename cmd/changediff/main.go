// Command changediff browses proposed repository changes in the terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/bubbletea"
	"github.com/fwojciec/changediff/chroma"
	"github.com/fwojciec/changediff/fs"
	"github.com/fwojciec/changediff/gitdiff"
	"github.com/fwojciec/changediff/gitrepo"
	"github.com/fwojciec/changediff/graphql"
	dv "github.com/fwojciec/changediff/lipgloss"
	"github.com/fwojciec/changediff/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// NewRootCommand builds the changediff command tree.
func NewRootCommand() *cobra.Command {
	cfg := DefaultConfig()

	root := &cobra.Command{
		Use:           "changediff",
		Short:         "Browse changeset specs and revision comparisons in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "GraphQL API endpoint (env "+EnvEndpoint+")")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "access token (env "+EnvToken+")")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn, error or disabled (env "+EnvLogLevel+")")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console or json")
	flags.StringVar(&cfg.LogFile, "log-file", fs.DefaultLogPath(), "log file path")
	flags.BoolVar(&cfg.Light, "light", false, "use the light theme")
	flags.BoolVar(&cfg.LineNumbers, "line-numbers", cfg.LineNumbers, "show line numbers in diffs")

	root.AddCommand(newCompareCommand(&cfg), newSpecsCommand(&cfg))
	return root
}

func newCompareCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <repository> [base...head]",
		Short: "Show the diff between two revisions of a repository",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !cfg.Local {
				if err := cfg.RequireEndpoint(); err != nil {
					return err
				}
			}
			env, err := newEnvironment(*cfg)
			if err != nil {
				return err
			}
			defer env.Close()

			var rng string
			if len(args) == 2 {
				rng = args[1]
			}

			var (
				resolver changediff.RepositoryResolver
				svc      changediff.ComparisonDiffService
			)
			if cfg.Local {
				repo, err := gitrepo.Open(args[0],
					gitrepo.WithLogger(zerolog.Named(env.log, "gitrepo")),
					gitrepo.WithParser(gitdiff.NewParser()),
				)
				if err != nil {
					return err
				}
				resolver, svc = repo, repo
			} else {
				client := env.client()
				resolver, svc = client, client
			}

			app := &CompareApp{
				Resolver: resolver,
				Viewer:   env.viewer(bubbletea.WithComparisonDiffService(svc)),
				Repo:     args[0],
				Range:    rng,
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&cfg.Local, "local", false, "treat <repository> as a local git repository path")
	return cmd
}

func newSpecsCommand(cfg *Config) *cobra.Command {
	var file, save string
	cmd := &cobra.Command{
		Use:   "specs [campaign-spec-id]",
		Short: "Show the changeset specs of a campaign spec",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && file == "" {
				return fmt.Errorf("a campaign spec ID or --file is required")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			// A file can be viewed offline; rows then show no diffs.
			if file == "" {
				if err := cfg.RequireEndpoint(); err != nil {
					return err
				}
			}
			env, err := newEnvironment(*cfg)
			if err != nil {
				return err
			}
			defer env.Close()

			var opts []bubbletea.Option
			app := &SpecsApp{File: file, Save: save, PageSize: cfg.PageSize}
			if len(args) == 1 {
				app.CampaignSpec = args[0]
			}
			if cfg.Endpoint != "" {
				client := env.client()
				app.Source = client
				opts = append(opts, bubbletea.WithChangesetSpecDiffService(client))
			}
			app.Viewer = env.viewer(opts...)
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read changeset specs from a JSONL file")
	cmd.Flags().StringVar(&save, "save", "", "write the fetched changeset specs to a JSONL file")
	cmd.Flags().IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "changeset specs requested per page")
	cmd.Flags().BoolVar(&cfg.Expanded, "expanded", false, "start with every changeset spec expanded")
	return cmd
}

// environment holds what every subcommand builds from the configuration.
type environment struct {
	cfg     Config
	log     zerolog.Logger
	logFile io.Closer
	theme   dv.Theme
}

func newEnvironment(cfg Config) (*environment, error) {
	env := &environment{cfg: cfg, log: zerolog.Nop(), theme: dv.ThemeFor(cfg.Light)}
	if cfg.LogFile != "" {
		f, err := fs.OpenLogFile(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		env.logFile = f
		env.log = zerolog.NewLogger(zerolog.Options{
			Level:     cfg.LogLevel,
			Format:    cfg.LogFormat,
			Component: "changediff",
			Writer:    f,
		})
	}
	return env, nil
}

func (e *environment) client() *graphql.Client {
	return graphql.NewClient(e.cfg.Endpoint,
		graphql.WithToken(e.cfg.Token),
		graphql.WithLogger(zerolog.Named(e.log, "graphql")),
		graphql.WithHunkParser(gitdiff.NewParser()),
	)
}

func (e *environment) viewer(extra ...bubbletea.Option) *bubbletea.Viewer {
	opts := []bubbletea.Option{
		bubbletea.WithTheme(e.theme),
		bubbletea.WithLanguageDetector(chroma.NewLanguageDetector()),
		bubbletea.WithLineNumbers(e.cfg.LineNumbers),
		bubbletea.WithExpanded(e.cfg.Expanded),
	}
	if tokenizer, err := chroma.NewTokenizer(chroma.StyleFromPalette(e.theme.Palette())); err == nil {
		opts = append(opts, bubbletea.WithTokenizer(tokenizer))
	} else {
		e.log.Warn().Err(err).Msg("syntax highlighting disabled")
	}
	return bubbletea.NewViewer(append(opts, extra...)...)
}

func (e *environment) Close() {
	if e.logFile != nil {
		e.logFile.Close()
	}
}
