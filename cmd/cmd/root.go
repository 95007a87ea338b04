package cmd

import (
	"github.com/ostafen/extractinator/internal/env"
	"github.com/spf13/cobra"
)

func Execute() error {
	return NewRootCommand().Execute()
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     env.AppName,
		Short:   env.AppName + " - carve files out of binary blobs by their start and end markers",
		Version: env.Version,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a YAML or TOML config file")
	rootCmd.PersistentFlags().String("log-level", "INFO", "minimum log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(
		DefineExtractCommand(),
		DefineFormatsCommand(),
		DefineRecoverCommand(),
		DefineMountCommand(),
		DefineMergeCommand(),
	)

	return rootCmd
}
