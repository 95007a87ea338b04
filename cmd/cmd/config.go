package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ostafen/extractinator/internal/config"
	"github.com/ostafen/extractinator/internal/logger"
	"github.com/ostafen/extractinator/internal/signature"
	"github.com/spf13/cobra"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	return config.Load(cmd.Flags(), configFile)
}

// loadRegistry returns the built-in formats extended with the given signature files.
func loadRegistry(files []string) (*signature.Registry, error) {
	reg := signature.Default()
	for _, path := range files {
		sigs, err := signature.LoadFile(path)
		if err != nil {
			return nil, err
		}

		reg, err = reg.With(sigs...)
		if err != nil {
			return nil, fmt.Errorf("failed to register signatures from %q: %w", path, err)
		}
	}
	return reg, nil
}

func consoleLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return logger.New(w, logger.ParseLevel(cfg.LogLevel))
}
