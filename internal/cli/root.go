// Package cli implements the politikcred command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store/sqlite"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "politikcred",
	Short: "PolitikCred - promise-to-action matching and credibility ledger",
	Long: `PolitikCred tracks what politicians promised and what they did.

It extracts commitments from speeches and programmes, matches them against
recorded votes and legislative acts, and keeps an append-only credibility
ledger for each politician.

It records facts and their provenance. It does not judge character.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("politikcred %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.politikcred/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path (overrides store.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env, the config file and POLITIKCRED_* variables
func initConfig() {
	_ = godotenv.Load()

	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".politikcred"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("POLITIKCRED")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal only sees keys viper knows about
	for _, key := range []string{
		"embedding.provider", "embedding.model", "embedding.base_url", "embedding.monthly_quota",
		"store.path", "cache.dir", "routing.min_confidence", "routing.auto_verify",
	} {
		_ = viper.BindEnv(key)
	}
	_ = viper.BindEnv("embedding.api_key", "POLITIKCRED_EMBEDDING_API_KEY", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("Using config file")
	}
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if cfg.Embedding.Provider == "" && cfg.Embedding.APIKey != "" {
		cfg.Embedding.Provider = "openai"
	}
	return cfg, nil
}

// openStore opens the configured sqlite database
func openStore(cfg *model.Config) (*sqlite.Store, error) {
	st, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.WithField("path", st.Path()).Debug("Opened store")
	return st, nil
}
