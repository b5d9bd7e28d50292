package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-scorer/internal/filtering"
	"github.com/spigell/resume-scorer/internal/scoring"
)

const (
	app       = "resume-scorer"
	envPrefix = "RESUME_SCORER"
)

type Config struct {
	Job            *JobConfig        `mapstructure:"job"`
	Similarity     *SimilarityConfig `mapstructure:"similarity"`
	Gemini         *GeminiConfig     `mapstructure:"gemini"`
	Scoring        *ScoringConfig    `mapstructure:"scoring"`
	Filters        *filtering.Config `mapstructure:"filters"`
	VocabularyFile string            `mapstructure:"vocabulary-file"`
}

type JobConfig struct {
	Description     string `mapstructure:"description"`
	DescriptionFile string `mapstructure:"description-file"`
	Domain          string `mapstructure:"domain"`
}

type SimilarityConfig struct {
	Strategy    string `mapstructure:"strategy"`
	MaxFeatures int    `mapstructure:"max-features"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
	BatchSize  int    `mapstructure:"batch-size"`
}

type ScoringConfig struct {
	RankBy     string             `mapstructure:"rank-by"`
	Workers    int                `mapstructure:"workers"`
	Weights    scoring.Weights    `mapstructure:"weights"`
	Thresholds scoring.Thresholds `mapstructure:"thresholds"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-scorer ranks resumes against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("vocabulary-file", "", "yaml file overriding the built-in keyword vocabulary")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("vocabulary-file", rootCmd.PersistentFlags().Lookup("vocabulary-file"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every key so environment variables are honoured by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("job.description", "")
	v.SetDefault("job.description-file", "")
	v.SetDefault("job.domain", "")
	v.SetDefault("similarity.strategy", "auto")
	v.SetDefault("similarity.max-features", 5000)
	v.SetDefault("gemini.api-key", "")
	v.SetDefault("gemini.api-key-file", "")
	v.SetDefault("gemini.model", "text-embedding-004")
	v.SetDefault("gemini.max-retries", 3)
	v.SetDefault("gemini.batch-size", 100)
	v.SetDefault("scoring.rank-by", "match")
	v.SetDefault("scoring.workers", 0)
	v.SetDefault("scoring.weights.similarity", 0.40)
	v.SetDefault("scoring.weights.skills", 0.25)
	v.SetDefault("scoring.weights.experience", 0.15)
	v.SetDefault("scoring.weights.education", 0.10)
	v.SetDefault("scoring.weights.soft-skills", 0.05)
	v.SetDefault("scoring.weights.red-flags", 0.10)
	v.SetDefault("scoring.thresholds.shortlist", 75)
	v.SetDefault("scoring.thresholds.review", 50)
	v.SetDefault("filters.minimum-final-score", 0)
	v.SetDefault("filters.recommendations", []string{})
	v.SetDefault("filters.exclude-file", "")
	v.SetDefault("vocabulary-file", "")
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly; flags and env cover every key.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
