package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/presenter"
	"github.com/skillcase/skillcase/pkg/server"
)

type ServeConfig struct {
	Host string
	Port int
}

func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 8315,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus over HTTP",
	Long: `Serve the corpus over an HTTP API: document listing and retrieval,
rendered HTML bodies, the skill registry, and on-demand validation.
Documents are reloaded per request, so edits show up immediately.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getServeConfigFromFlags(cmd)
		runServe(cmd, config)
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()
	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}
	return config
}

func runServe(cmd *cobra.Command, config *ServeConfig) {
	ctx := cmd.Context()

	loader, err := newLoaderFromConfig()
	if err != nil {
		presenter.Error(err, "Failed to configure corpus loader")
		os.Exit(1)
	}

	reg, err := newRegistryFromConfig()
	if err != nil {
		presenter.Error(err, "Failed to load skill registry")
		os.Exit(1)
	}

	srv, err := server.NewServer(&server.Config{
		Host: config.Host,
		Port: config.Port,
	}, loader, reg, newValidatorFromConfig(reg))
	if err != nil {
		presenter.Error(err, "Failed to create server")
		os.Exit(1)
	}

	presenter.Info("Serving corpus... Press Ctrl+C to stop")
	if err := srv.Start(ctx); err != nil {
		presenter.Error(err, "Server exited with error")
		os.Exit(1)
	}
}
