package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
)

// EnvPrefix namespaces the environment variables viper reads
// (EXSEQ_SAMPLES_FILE, EXSEQ_OUTPUT_DIR, ...).
const EnvPrefix = "EXSEQ"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Sample layout. Empty directories leave the samples file untouched.
	SamplesFile     string
	CellTypingDir   string
	RegionsGenesDir string
	OutputDir       string

	// Site generation and preview
	CSVDir        string
	SiteDir       string
	ServeAddr     string
	PlotlyVersion string
	Seed          uint64

	// Logging configuration. LogLevel comes from --log-level; EnvLogLevel
	// from LOG_LEVEL and only applies when no flag decides.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.exseq.yaml or ./.exseq.yaml, or configFile when set)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("csv_dir", constants.DefaultCSVDir)
	v.SetDefault("site_dir", ".")
	v.SetDefault("serve_addr", constants.DefaultServeAddr)
	v.SetDefault("seed", constants.DefaultSeed)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".exseq")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot parse "+v.ConfigFileUsed(), err)
			}
		}
	}

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		SamplesFile:     v.GetString("samples_file"),
		CellTypingDir:   v.GetString("cell_typing_dir"),
		RegionsGenesDir: v.GetString("regions_genes_dir"),
		OutputDir:       v.GetString("output_dir"),

		CSVDir:        v.GetString("csv_dir"),
		SiteDir:       v.GetString("site_dir"),
		ServeAddr:     v.GetString("serve_addr"),
		PlotlyVersion: v.GetString("plotly_version"),
		Seed:          v.GetUint64("seed"),

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are never overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
