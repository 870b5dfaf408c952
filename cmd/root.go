// Package cmd provides the command-line interface of the upstream proxy.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"upstreamproxy/internal/application/common/logging"
	"upstreamproxy/internal/application/common/slogger"
	"upstreamproxy/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read into the configuration.
const EnvPrefix = "UPSTREAM"

//nolint:gochecknoglobals // Standard Cobra CLI state
var (
	cfgFile string
	cfg     *config.Config
)

//nolint:gochecknoglobals // bound to the root command's flags
var vp = viper.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "upstreamproxy",
	Short: "HTTP proxy in front of the peer-to-peer code collaboration node",
	Long: `upstreamproxy serves the HTTP API of the local peer-to-peer node.

Every failed request is answered with a JSON envelope carrying a message and a
stable variant code, and reported to the configured diagnostic sinks:
- structured logs
- OpenTelemetry failure counters
- NATS (optional)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() { //nolint:gochecknoinits // Standard Cobra CLI pattern
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json, text)")

	if err := vp.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
	}
	if err := vp.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-format flag: %v\n", err)
	}
}

func initConfig() {
	envErr := godotenv.Load()

	loaded, err := loadConfig(vp, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if err := setupLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	if envErr != nil {
		slogger.Debug(context.Background(), "No .env file found", slogger.Fields{"error": envErr.Error()})
	}
}

// loadConfig reads defaults, the config file and the environment into v and decodes the result.
func loadConfig(v *viper.Viper, file string) (*config.Config, error) {
	config.SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return config.Load(v)
}

func setupLogger(lc config.LogConfig) error {
	logger, err := logging.NewApplicationLogger(logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: "stdout",
	})
	if err != nil {
		return err
	}
	slogger.SetGlobalLogger(logger)
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
