// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litreview CLI.
// Implements: prd001-query .. prd007-pipeline (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/internal/secrets"
	"github.com/pdiddy/litreview/internal/terms"
	"github.com/pdiddy/litreview/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the litreview CLI.
var rootCmd = &cobra.Command{
	Use:   "litreview",
	Short: "Automated biomedical literature review",
	Long: `litreview turns a plain-language research goal into a structured PubMed
query, retrieves candidate articles, screens them for relevance, mines
structured fields from each abstract, aggregates the findings, and
synthesizes a narrative report.

Each step is also exposed as its own subcommand: query builds and prints
the boolean query, expand shows abbreviation expansion, run executes the
full pipeline, and history lists past runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litreview.yaml or ~/.config/litreview/config.yaml)")
}

func initConfig() {
	// A local .env may carry LITREVIEW_* variables; absence is fine.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litreview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litreview"))
		}
	}

	viper.SetEnvPrefix("LITREVIEW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configuration from viper, secrets,
// and built-in defaults.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Retrieval: types.RetrievalConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("retrieval.timeout"),
				UserAgent: viper.GetString("retrieval.user_agent"),
			},
			MaxResults:        viper.GetInt("retrieval.max_results"),
			PageSize:          viper.GetInt("retrieval.page_size"),
			FetchBatchSize:    viper.GetInt("retrieval.fetch_batch_size"),
			RequestsPerSecond: viper.GetInt("retrieval.requests_per_second"),
			Tool:              viper.GetString("retrieval.tool"),
			Email:             secretDefault("ncbi-email", viper.GetString("retrieval.email")),
			APIKey:            secretDefault("ncbi-api-key", viper.GetString("retrieval.api_key")),
		},
		LLM: types.LLMConfig{
			Backend:   types.LLMBackend(viper.GetString("llm.backend")),
			Model:     viper.GetString("llm.model"),
			MaxTokens: viper.GetInt("llm.max_tokens"),
		},
		Output: types.OutputConfig{
			ProcessedDir: viper.GetString("output.processed_dir"),
			ReportDir:    viper.GetString("output.report_dir"),
			IndexDir:     viper.GetString("output.index_dir"),
		},
		DictionaryPath: viper.GetString("dictionary_path"),
		MeSHTerms:      viper.GetStringMapString("query.mesh_terms"),
	}

	if cfg.Retrieval.Timeout == 0 {
		cfg.Retrieval.Timeout = 30 * time.Second
	}
	if cfg.Retrieval.UserAgent == "" {
		cfg.Retrieval.UserAgent = "litreview/" + version
	}
	if cfg.Retrieval.Tool == "" {
		cfg.Retrieval.Tool = "litreview"
	}
	if cfg.LLM.Backend == "" {
		cfg.LLM.Backend = types.BackendClaude
	}
	switch cfg.LLM.Backend {
	case types.BackendGemini:
		cfg.LLM.APIKey = secretDefault("gemini-api-key", viper.GetString("llm.api_key"))
	default:
		cfg.LLM.APIKey = secretDefault("anthropic-api-key", viper.GetString("llm.api_key"))
	}
	if cfg.Output.ProcessedDir == "" {
		cfg.Output.ProcessedDir = "output/processed"
	}
	if cfg.Output.ReportDir == "" {
		cfg.Output.ReportDir = "output/reports"
	}
	if cfg.Output.IndexDir == "" {
		cfg.Output.IndexDir = "output/index"
	}
	if cfg.DictionaryPath == "" {
		cfg.DictionaryPath = terms.DefaultDictionaryPath
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
