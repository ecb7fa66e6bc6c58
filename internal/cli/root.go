// Package cli wires the bump_version command line: flag parsing, logging,
// configuration and the release pipeline, plus the mapping of failures to
// exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/bumpversion/internal/build"
	"github.com/ariel-frischer/bumpversion/internal/config"
	cerrors "github.com/ariel-frischer/bumpversion/internal/errors"
	"github.com/ariel-frischer/bumpversion/internal/git"
	"github.com/ariel-frischer/bumpversion/internal/logger"
	"github.com/ariel-frischer/bumpversion/internal/progress"
	"github.com/ariel-frischer/bumpversion/internal/release"
	"github.com/ariel-frischer/bumpversion/internal/review"
	"github.com/ariel-frischer/bumpversion/internal/version"
)

type rootOptions struct {
	webBranch     string
	configPath    string
	dryRun        bool
	yes           bool
	skipSubmodule bool
	debug         bool
}

// NewRootCmd builds the bump_version command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "bump_version [-b|--web-branch <branch>] <new_version>",
		Short: "Bump the product version and generate release changelogs",
		Long: `Prepare a release: sync the web submodule, rewrite the version file and
generate changelog entries from the pull requests merged since the previous
release.

Steps:
  1. Check out the web branch in the submodule (official branches such as
     master, dev, release-* and hotfix-* come from the remote)
  2. Replace the old version in the version file
  3. Collect "Merge pull request" commits since the release-<old_version>
     merge in both repositories
  4. Open the new Debian changelog and RPM spec entries in $EDITOR for review
  5. Install and stage the three files, then print the GitHub changelog

Nothing is written until both reviews are confirmed by deleting the
instruction line at the top of the entry.`,
		Example: `  # Release 10.8.0 using the current branch for the submodule
  bump_version 10.8.0

  # Use a specific web branch
  bump_version -b release-10.8 10.8.0

  # Preview the changes without writing anything
  bump_version --dry-run 10.8.0`,
		Version:       build.Info(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBump(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.webBranch, "web-branch", "b", "", "Branch to check out in the web submodule (default: current branch)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file (YAML or JSON)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the diffs instead of writing files")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Approve generated changelog entries without opening an editor")
	cmd.Flags().BoolVar(&opts.skipSubmodule, "skip-submodule", false, "Do not init, fetch or check out the web submodule")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return cerrors.NewArgumentErrorWithUsage(err.Error(), cerrors.Usage)
	})

	cmd.AddCommand(newInitCmd())
	return cmd
}

// Execute runs the command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	return run(ctx, cmd, os.Args[1:], os.Stderr)
}

func run(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	cerrors.Fprint(stderr, err)
	if cliErr := cerrors.AsCLIError(err); cliErr != nil {
		return ExitCodeFor(cliErr.Category)
	}
	return ExitUsage
}

func runBump(cmd *cobra.Command, opts *rootOptions, args []string) error {
	switch {
	case len(args) == 0:
		return cerrors.MissingVersion()
	case len(args) > 1:
		return cerrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("expected one version argument, got %d", len(args)), cerrors.Usage)
	}
	newVersion := args[0]
	if !version.IsValid(newVersion) {
		return cerrors.InvalidVersion(newVersion)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cerrors.ConfigParseError(err)
	}
	setupLogging(opts.debug || cfg.Debug)

	reviewer, err := newReviewer(cfg, opts)
	if err != nil {
		return err
	}

	root, err := os.Getwd()
	if err != nil {
		return cerrors.Wrap(err, cerrors.Runtime)
	}

	b := release.New(cfg, root, reviewer)
	b.Stdout = cmd.OutOrStdout()
	b.ColorDiff = progress.DetectTerminalCapabilities(os.Stdout).SupportsColor

	res, err := b.Run(cmd.Context(), release.Options{
		NewVersion:    newVersion,
		WebBranch:     opts.webBranch,
		DryRun:        opts.dryRun,
		SkipSubmodule: opts.skipSubmodule,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("from", res.OldVersion).
		Str("to", res.NewVersion).
		Int("sections", len(res.Sections)).
		Bool("dry_run", opts.dryRun).
		Msg("release prepared")
	return nil
}

// newReviewer picks the review strategy: automatic for --yes and --dry-run,
// the user's editor otherwise.
func newReviewer(cfg *config.Configuration, opts *rootOptions) (review.Reviewer, error) {
	if opts.yes || opts.dryRun {
		return review.AutoApprove{}, nil
	}
	r, err := review.NewEditorReviewer(cfg.Editor)
	if errors.Is(err, review.ErrEditorNotSet) {
		return nil, cerrors.EditorNotSet()
	}
	if err != nil {
		return nil, cerrors.WrapWithMessage(err, cerrors.Configuration, "invalid editor command")
	}
	return r, nil
}

func setupLogging(debug bool) {
	logger.SetDebug(debug)
	if debug {
		git.SetDebugLogger(logger.Debugf)
	} else {
		git.SetDebugLogger(nil)
	}
}
