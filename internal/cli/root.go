package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/slangwatch/internal/model"
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
	Use:   "slangwatch",
	Short: "Slangwatch - slang term collection and moderation",
	Long: `Slangwatch collects slang terms from Reddit and Urban Dictionary,
stores every mention, and gives moderators an approval workflow and a
public dictionary API.

Terms start out pending. Moderators approve or reject them; only approved
terms are published.`,
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
		fmt.Printf("slangwatch %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.slangwatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides database.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig layers defaults, the config file and environment variables
func initConfig() {
	viper.SetConfigType("yaml")

	// Defaults first so every key is known to AutomaticEnv
	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err == nil {
		_ = viper.ReadConfig(bytes.NewReader(defaults))
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".slangwatch"))
		viper.SetConfigName("config")
	}

	// SLANGWATCH_SERVER_ADDR overrides server.addr, and so on
	viper.SetEnvPrefix("SLANGWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Conventional names for secrets
	_ = viper.BindEnv("admin.password", "SLANGWATCH_ADMIN_PASSWORD", "ADMIN_PASSWORD")
	_ = viper.BindEnv("admin.session_secret", "SLANGWATCH_ADMIN_SESSION_SECRET", "SESSION_SECRET")
	_ = viper.BindEnv("openai.api_key", "SLANGWATCH_OPENAI_API_KEY", "OPENAI_API_KEY")

	if err := viper.MergeInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig returns the effective configuration
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}
