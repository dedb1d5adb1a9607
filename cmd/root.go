package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	config "github.com/inference-gateway/triage/config"
	container "github.com/inference-gateway/triage/internal/container"
	logger "github.com/inference-gateway/triage/internal/logger"
	tracing "github.com/inference-gateway/triage/internal/tracing"
	cobra "github.com/spf13/cobra"
	viper "github.com/spf13/viper"
)

// V is the viper instance backing the loaded configuration
var V = viper.New()

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "GitHub issue triage tools for LLM agents",
	Long: `A tool server that lets an LLM agent read GitHub issues, comments and
labels, create and attach labels, and ask a model to summarize an issue or
recommend labels for it. Tools are served over MCP (stdio or HTTP) and can
also be run one at a time from the command line.`,
	SilenceUsage: true,
}

func Execute() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	configPath, _ := rootCmd.PersistentFlags().GetString("config")

	loaded, err := config.Load(V, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	logger.Init(verbose, cfg)
}

// newContainer builds the service container from the loaded configuration
func newContainer() (*container.ServiceContainer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewServiceContainer(cfg)
}

// startTracing installs the tracer provider and returns its shutdown hook
func startTracing() (func(), error) {
	shutdown, err := tracing.Init(cfg)
	if err != nil {
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("Failed to shut down tracer provider", "error", err)
		}
	}, nil
}
