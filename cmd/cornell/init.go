package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "cornell.yaml"

func newInitCmd(o *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the resolved configuration to a YAML file",
		Long: `init writes the defaults, merged with --config and any flags, to a YAML
file that can be edited and passed back with --config.`,
		Example: `  cornell init
  cornell init --point-light --samples 1 fast.yaml`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			return runInit(cmd, o, path, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func runInit(cmd *cobra.Command, o *rootOptions, path string, force bool) error {
	logger, closeLog, err := o.newLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer warnClose(logger, "log file", closeLog)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w (use --force to overwrite)", path, os.ErrExist)
		}
	}
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	logger.Info("wrote config", "path", path)
	return nil
}
