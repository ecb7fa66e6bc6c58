package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/bumpversion/internal/config"
	cerrors "github.com/ariel-frischer/bumpversion/internal/errors"
	"github.com/ariel-frischer/bumpversion/internal/fsutil"
)

var cGreen = color.New(color.FgGreen).SprintFunc()

func newInitCmd() *cobra.Command {
	var user, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Long: `Write the default configuration with every option documented.

By default the project config .bumpversion.yml is created in the current
directory. Use --user for ~/.config/bumpversion/config.yml instead.
An existing file is left unchanged unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ProjectConfigFile
			if user {
				p, err := config.UserConfigPath()
				if err != nil {
					return cerrors.Wrap(err, cerrors.Configuration)
				}
				path = p
			}
			return writeConfigTemplate(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Create the user-level config instead of the project config")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func writeConfigTemplate(cmd *cobra.Command, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", path)
		return nil
	}

	if err := fsutil.WriteAtomic(path, []byte(config.GetDefaultConfigTemplate())); err != nil {
		return cerrors.WrapWithMessage(err, cerrors.Runtime, "writing "+path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", cGreen("✓"), path)
	return nil
}
