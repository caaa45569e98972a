package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skillcase/skillcase/pkg/logger"
	"github.com/skillcase/skillcase/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLCASE")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillcase")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	viper.SetDefault("categories", []string{
		"document-automation",
		"data-engineering",
		"devops",
		"observability",
		"security",
		"integration",
		"productivity",
	})
}

var rootCmd = &cobra.Command{
	Use:   "skillcase",
	Short: "Manage a corpus of agent skill use-case documents",
	Long: `skillcase authors, validates, indexes, and serves a corpus of use-case
documents: Markdown files with YAML front matter describing how AI agent
skills solve real business problems.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning("Invalid log level '" + level + "', using default")
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil && quiet {
			presenter.SetQuiet(true)
		}

		log := logger.G(cmd.Context())
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			log.WithField("flag", flag.Name).WithField("value", flag.Value.String()).Debug("flag set")
		})
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringSlice("roots", nil, "Corpus root directories (overrides config)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("roots", rootCmd.PersistentFlags().Lookup("roots"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
