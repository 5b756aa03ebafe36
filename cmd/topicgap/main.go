// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the topicgap CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hypogenic-AI/llms-expose-science-gemini/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// envKeyReplacer maps viper keys to TOPICGAP_ environment variable names.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the topicgap CLI.
var rootCmd = &cobra.Command{
	Use:   "topicgap",
	Short: "Find clinical topics overrepresented in real-world text relative to science",
	Long: `topicgap compares the clinical topics discussed in real-world medical text
with those covered by the scientific literature.

The pipeline has two stages. extract samples a corpus, asks a language model
for the clinical topics in each document, and writes topic counts. analyze
combines the counts of a scientific and a real-world corpus and ranks topics
by how much more often they appear in real-world text.

fetch-arxiv builds a scientific corpus from arXiv abstracts, and inspect lists
the fields of a corpus file so you can choose --text-column.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(viper.GetBool(keyVerbose))

		s, err := secrets.Load(viper.GetString(keySecretsDir))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./topicgap.yaml or ~/.config/topicgap/topicgap.yaml)")
	pf.String("secrets-dir", secrets.DefaultDir, "directory holding API key files")
	pf.String("user-agent", "topicgap/"+version, "User-Agent header for HTTP requests")
	pf.Duration("http-timeout", defaultHTTPTimeout, "HTTP request timeout")
	pf.BoolP("verbose", "v", false, "log debug output")

	bindFlags(pf, map[string]string{
		keySecretsDir:  "secrets-dir",
		keyUserAgent:   "user-agent",
		keyHTTPTimeout: "http-timeout",
		keyVerbose:     "verbose",
	})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("topicgap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "topicgap"))
		}
	}

	viper.SetEnvPrefix("TOPICGAP")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging routes slog output to stderr.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
