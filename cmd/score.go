package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/ai/gemini"
	"github.com/spigell/resume-scorer/internal/features"
	"github.com/spigell/resume-scorer/internal/filtering"
	"github.com/spigell/resume-scorer/internal/intake"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/scoring"
	"github.com/spigell/resume-scorer/internal/secrets"
	"github.com/spigell/resume-scorer/internal/similarity"
	"github.com/spigell/resume-scorer/internal/vocabulary"
)

const (
	PromptTable                = "Print results table"
	PromptReportByRecommended  = "Report by recommendation"
	PromptResultsToFile        = "Dump results to file"
	PromptAppendToExcludeFile  = "Append shown candidates to exclude file"
	PromptExit                 = "Exit"
	outputTable                = "table"
	outputJSON                 = "json"
	geminiAPIKeyEnv            = "GEMINI_API_KEY"
	embeddingCheckTimeoutInSec = 30
)

var errExit = errors.New("exit requested")

var scoreCmd = &cobra.Command{
	Use:   "score [files or directories...]",
	Short: "Score resumes against a job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("job", "", "job description text")
	scoreCmd.Flags().String("job-file", "", "file with the job description")
	scoreCmd.Flags().String("domain", "", "job domain hint, e.g. ai or fintech")
	scoreCmd.Flags().String("strategy", "", "similarity strategy: auto, embedding or lexical")
	scoreCmd.Flags().String("rank-by", "", "ranking key: match (raw similarity) or final (weighted score)")
	scoreCmd.Flags().Float64("min-score", 0, "hide candidates below this final score")
	scoreCmd.Flags().StringSlice("recommendation", nil, "show only these recommendations")
	scoreCmd.Flags().StringP("exclude-file", "e", "", "file with already reviewed candidates to hide")
	scoreCmd.Flags().StringP("output", "o", outputTable, "output format: table or json")
	scoreCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu")
	scoreCmd.Flags().StringSlice("skip-filter", nil, "filters to skip: exclude_file, recommendation, minimum_final_score")

	viper.BindPFlag("job.description", scoreCmd.Flags().Lookup("job"))
	viper.BindPFlag("job.description-file", scoreCmd.Flags().Lookup("job-file"))
	viper.BindPFlag("job.domain", scoreCmd.Flags().Lookup("domain"))
	viper.BindPFlag("similarity.strategy", scoreCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("scoring.rank-by", scoreCmd.Flags().Lookup("rank-by"))
	viper.BindPFlag("filters.minimum-final-score", scoreCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("filters.recommendations", scoreCmd.Flags().Lookup("recommendation"))
	viper.BindPFlag("filters.exclude-file", scoreCmd.Flags().Lookup("exclude-file"))
}

// score is the main command for the cli.
func score(cmd *cobra.Command, paths []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.Job == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the resume-scorer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	job, err := resolveJob(config.Job)
	if err != nil {
		logger.Fatal("resolving job description", zap.Error(err),
			zap.String("hint", "pass --job, --job-file or set job.description in the config"),
		)
	}

	vocab, err := vocabulary.Load(config.VocabularyFile)
	if err != nil {
		logger.Fatal("loading vocabulary", zap.Error(err))
	}
	logger.Info("vocabulary loaded",
		zap.String("version", vocab.Version),
		zap.Strings("domains", vocab.DomainNames()),
	)

	engine, err := selectEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("selecting similarity strategy", zap.Error(err))
	}

	scorer, err := scoring.New(engine, features.New(vocab),
		scoring.WithWeights(config.Scoring.Weights),
		scoring.WithThresholds(config.Scoring.Thresholds),
		scoring.WithRankBy(config.Scoring.RankBy),
		scoring.WithWorkers(config.Scoring.Workers),
		scoring.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("building scorer", zap.Error(err))
	}

	resumes, err := intake.New(config.Scoring.Workers, logger).Load(ctx, paths)
	if err != nil {
		logger.Fatal("loading resumes", zap.Error(err))
	}

	if len(resumes) == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes found"))
		return
	}

	records, err := scorer.Score(ctx, job, resumes)
	if err != nil {
		logger.Fatal("scoring resumes", zap.Error(err))
	}

	filters := filtering.New(config.Filters, []filtering.Filter{
		filtering.NewExcludeFile(),
		filtering.NewRecommendation(),
		filtering.NewMinimumScore(),
	}, logger)

	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	for _, name := range skipped {
		if !filters.DisableByName(name, "skipped by --skip-filter") {
			logger.Fatal("unknown filter", zap.String("name", name))
		}
	}
	logger.Debug("filters", zap.Any("steps", filters.Describe()))

	records, err = filters.RunFilters(ctx, records)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if records.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	output := strings.ToLower(cmd.Flag("output").Value.String())
	switch output {
	case outputJSON:
		if err := writeJSON(os.Stdout, records); err != nil {
			logger.Fatal("writing results", zap.Error(err))
		}
		return
	case outputTable:
		if err := writeTable(os.Stdout, records); err != nil {
			logger.Fatal("writing results", zap.Error(err))
		}
	default:
		logger.Fatal("unknown output format", zap.String("output", output))
	}

	if cmd.Flag("yes").Value.String() == "true" {
		return
	}

	items := []string{PromptTable, PromptReportByRecommended, PromptResultsToFile}
	if config.Filters != nil && strings.TrimSpace(config.Filters.ExcludeFile) != "" {
		items = append(items, PromptAppendToExcludeFile)
	}

	prompt := promptui.Select{
		Label: "What next?",
		Items: append(items, PromptExit),
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, records); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, records *scoring.Records) error {
	switch action {
	case PromptTable:
		return writeTable(os.Stdout, records)
	case PromptReportByRecommended:
		pretty, _ := json.MarshalIndent(records.ReportByRecommendation(), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", records.Len()))
		return nil
	case PromptResultsToFile:
		filename, err := records.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(config.Filters.ExcludeFile, records, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func appendToExcludeFile(path string, records *scoring.Records, logger *zap.Logger) error {
	excluded, err := scoring.GetExcludedCandidatesFromFile(path)
	if errors.Is(err, os.ErrNotExist) {
		excluded, err = &scoring.ExcludedCandidates{}, nil
	}
	if err != nil {
		return err
	}

	excluded.Append(records.ToExcluded())

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("count", records.Len()))
	return nil
}

func resolveJob(cfg *JobConfig) (scoring.JobContext, error) {
	description := strings.TrimSpace(cfg.Description)
	if file := strings.TrimSpace(cfg.DescriptionFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return scoring.JobContext{}, fmt.Errorf("reading job description file %q: %w", file, err)
		}
		description = strings.TrimSpace(string(data))
	}

	if description == "" {
		return scoring.JobContext{}, scoring.ErrEmptyJobDescription
	}

	return scoring.JobContext{Description: description, DomainHint: strings.TrimSpace(cfg.Domain)}, nil
}

// selectEngine resolves the similarity strategy once. Failing to build the
// Gemini embedder is only fatal when the embedding strategy is required.
func selectEngine(ctx context.Context, config *Config, logger *zap.Logger) (similarity.Engine, error) {
	strategy := strings.ToLower(strings.TrimSpace(config.Similarity.Strategy))

	var embedder ai.Embedder
	if strategy != similarity.StrategyLexical {
		e, err := newEmbedder(ctx, config.Gemini, logger)
		switch {
		case err == nil:
			embedder = e
		case strategy == similarity.StrategyEmbedding:
			return nil, err
		default:
			logger.Debug("gemini embedder is not available", zap.Error(err))
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, embeddingCheckTimeoutInSec*time.Second)
	defer cancel()

	return similarity.Select(checkCtx, similarity.SelectConfig{
		Strategy:    strategy,
		MaxFeatures: config.Similarity.MaxFeatures,
	}, embedder, logger)
}

func newEmbedder(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (*gemini.Embedder, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Env:   geminiAPIKeyEnv,
		Value: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	embedLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Model),
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	return gemini.NewEmbedder(ctx, gemini.Config{
		APIKey:     apiKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		BatchSize:  cfg.BatchSize,
	}, embedLogger)
}

// redacted returns a copy of config safe for logging.
func redacted(config *Config) *Config {
	out := *config
	if config.Gemini != nil {
		g := *config.Gemini
		if g.APIKey != "" {
			g.APIKey = "***"
		}
		out.Gemini = &g
	}
	return &out
}
