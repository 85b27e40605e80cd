package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/wavelength/matchgen/internal/ai/gemini"
	"github.com/wavelength/matchgen/internal/interests"
	"github.com/wavelength/matchgen/internal/logger"
	"github.com/wavelength/matchgen/internal/matching"
	"github.com/wavelength/matchgen/internal/pipeline"
	"github.com/wavelength/matchgen/internal/secrets"
	"github.com/wavelength/matchgen/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes           = "Yes"
	PromptNo            = "No"
	PromptMatchesToFile = "Dump matches to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Save matches?",
	Items: []string{PromptYes, PromptNo, PromptMatchesToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the matchgen main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before saving matches")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the matchgen", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	databaseURL, err := resolveDatabaseURL(config)
	if err != nil {
		logger.Fatal(
			"loading database url",
			zap.Error(err),
			zap.String("hint", "set DATABASE_URL_FILE environment variable or the 'database.url-file' key in the configuration file"),
		)
	}

	apiKey, err := resolveGeminiKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	db, err := store.Connect(ctx, databaseURL, logger)
	if err != nil {
		logger.Fatal("connecting to postgres", zap.Error(err))
	}
	defer db.Close()

	pipe, err := buildPipeline(ctx, config, db, apiKey, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	records, stats, err := pipe.Run(ctx)
	if err != nil {
		logger.Fatal("running the pipeline", zap.Error(err))
	}

	if len(records) == 0 {
		logger.Info("exiting",
			zap.String("reason", "no matches found"),
			zap.Int("total_users", stats.TotalUsers),
			zap.Int("total_pairs", stats.TotalPairs),
		)
		return
	}

	saved := 0
	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matches", zap.Int("count", len(records)))

		done, err := handleAction(ctx, action, pipe, logger, records, &saved)
		if err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
		if done {
			break
		}
	}

	logger.Info("match matrix generation complete",
		zap.Int("total_users", stats.TotalUsers),
		zap.Int("total_pairs", stats.TotalPairs),
		zap.Int("matches_found", stats.MatchesFound),
		zap.Int("matches_saved", saved),
	)
}

func handleAction(ctx context.Context, action string, pipe *pipeline.Pipeline, logger *zap.Logger, records []*matching.Record, saved *int) (bool, error) {
	switch action {
	case PromptYes:
		*saved = pipe.Persist(ctx, records)
		return true, nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return false, errExit
	case PromptMatchesToFile:
		filename, err := dumpRecordsToTmpFile(records)
		if err != nil {
			return false, fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return false, nil
	default:
		return false, fmt.Errorf("invalid action: %s", action)
	}
}

func buildPipeline(ctx context.Context, config *Config, db *store.Postgres, apiKey string, log *zap.Logger) (*pipeline.Pipeline, error) {
	if config.AI == nil || config.AI.Gemini == nil {
		return nil, errors.New("ai.gemini configuration section is required")
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, err
	}

	aiLogger := logger.WithCommonFields(log, "gemini", generator.Model())
	maxLogLen := config.AI.Gemini.MaxLogLength

	extractor := interests.NewExtractor(generator, aiLogger, maxLogLen)
	matcher := matching.NewMatcher(generator, aiLogger, maxLogLen)
	starters := matching.NewStarterGenerator(generator, aiLogger, maxLogLen)
	matrix := matching.NewMatrix(matcher, starters, log)

	maxInterests := interests.DefaultMaxInterests
	if config.Pipeline != nil && config.Pipeline.MaxInterests > 0 {
		maxInterests = config.Pipeline.MaxInterests
	}

	return pipeline.New(db, extractor, matrix, maxInterests, log), nil
}

func resolveDatabaseURL(config *Config) (string, error) {
	urlFile := ""
	if config.Database != nil {
		urlFile = strings.TrimSpace(config.Database.URLFile)
	}
	if urlFile == "" {
		urlFile = strings.TrimSpace(viper.GetString("database.url-file"))
	}

	if urlFile == "" {
		return "", errors.New("database url file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "database url",
		File: urlFile,
	})
}

func resolveGeminiKey(config *Config) (string, error) {
	keyFile := ""
	if config.AI != nil && config.AI.Gemini != nil {
		keyFile = strings.TrimSpace(config.AI.Gemini.APIKeyFile)
	}
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	if keyFile == "" {
		return "", errors.New("gemini api key file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
}

func dumpRecordsToTmpFile(records []*matching.Record) (string, error) {
	type dumpedRecord struct {
		User1ID         string                   `json:"user1_id"`
		User2ID         string                   `json:"user2_id"`
		SharedInterests matching.SharedInterests `json:"shared_interests"`
		MatchScore      float64                  `json:"match_score"`
		Starter         string                   `json:"conversation_starter"`
	}

	dump := make([]dumpedRecord, 0, len(records))
	for _, record := range records {
		dump = append(dump, dumpedRecord{
			User1ID:         record.User1ID,
			User2ID:         record.User2ID,
			SharedInterests: record.Shared,
			MatchScore:      record.Score,
			Starter:         record.Starter,
		})
	}

	file, err := os.CreateTemp("", app+"-matches-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dump); err != nil {
		return "", err
	}

	return file.Name(), nil
}
