// Package main provides a CLI for running the poisoning pipeline locally
// without the server, queue or database. Stage outputs land in a plain
// directory so individual stages can be rerun against earlier results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/OFFIS-RIT/gift/backend/internal/pipeline"
	"github.com/OFFIS-RIT/gift/backend/internal/util"
	"github.com/OFFIS-RIT/gift/backend/pkg/ai"
	oai "github.com/OFFIS-RIT/gift/backend/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/gift/backend/pkg/ai/openai"
	"github.com/OFFIS-RIT/gift/backend/pkg/loader"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger/console"
	"github.com/OFFIS-RIT/gift/backend/pkg/store/base"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "gift",
		Short: "Generate adversarial poison texts from query/answer datasets",
		Long: `gift runs the poisoning pipeline against a local dataset.

The pipeline extracts a knowledge graph from query/answer pairs, generates
poison texts along the graph paths, enhances entity pairs with synthetic
context and merges everything into the final documents. Each stage persists
its outputs to the working directory, so later stages can be rerun without
repeating earlier ones.`,
	}

	rootCmd.PersistentFlags().String("output", "./output", "Directory for stage outputs")
	rootCmd.PersistentFlags().Int("retries", 3, "Retries per model request")
	rootCmd.PersistentFlags().String("adapter", util.GetEnv("AI_ADAPTER"), "Model backend (openai or ollama)")
	rootCmd.PersistentFlags().String("describe-model", util.GetEnv("AI_CHAT_DESCRIBE_MODEL"), "Model for text generation")
	rootCmd.PersistentFlags().String("extract-model", util.GetEnv("AI_CHAT_EXTRACT_MODEL"), "Model for structured extraction")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run all pipeline stages",
		RunE:  runAllStages,
	}
	addGraphFlags(runCmd)
	addGenerateFlags(runCmd)
	addEnhanceFlags(runCmd)
	rootCmd.AddCommand(runCmd)

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Extract the knowledge graph from a dataset",
		RunE:  runStage(pipeline.StageGraph),
	}
	addGraphFlags(graphCmd)
	rootCmd.AddCommand(graphCmd)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate poison texts from the extracted graph",
		RunE:  runStage(pipeline.StageGenerate),
	}
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)

	enhanceCmd := &cobra.Command{
		Use:   "enhance",
		Short: "Enhance core entity pairs with synthetic context",
		RunE:  runStage(pipeline.StageEnhance),
	}
	addEnhanceFlags(enhanceCmd)
	rootCmd.AddCommand(enhanceCmd)

	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge generated and enhanced texts into final documents",
		RunE:  runStage(pipeline.StageMerge),
	}
	rootCmd.AddCommand(mergeCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().String("dataset", "", "Dataset file (.json or .csv)")
	cmd.Flags().Int("batch-size", 10, "Query units per extraction batch")
	cmd.Flags().Int("max-batch-tokens", 8192, "Token cap per extraction batch")
	cmd.Flags().Int("parallel", 4, "Concurrent extraction workers")
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-words", 300, "Word cap per generated poison text")
}

func addEnhanceFlags(cmd *cobra.Command) {
	cmd.Flags().Int("enhance-batch-size", 1, "Entity pairs per enhancement request")
	cmd.Flags().Int("min-entities", 6, "Entity count each core entity is padded up to")
}

func runAllStages(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cmd)
	if err != nil {
		return err
	}

	datasetPath, _ := cmd.Flags().GetString("dataset")
	if datasetPath == "" {
		return fmt.Errorf("--dataset is required")
	}
	units, err := loader.LoadDataset(datasetPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	return p.RunAll(cmd.Context(), units, func(stage string) error {
		logger.Info("[CLI] Starting stage", "stage", stage)
		return nil
	})
}

func runStage(stage string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		switch stage {
		case pipeline.StageGraph:
			datasetPath, _ := cmd.Flags().GetString("dataset")
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}
			units, err := loader.LoadDataset(datasetPath)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			builder, err := p.RunGraphStage(ctx, units)
			if err != nil {
				return err
			}
			logger.Info(
				"[CLI] Graph stage complete",
				"core_entities", len(builder.CoreEntities()),
				"failed_queries", len(builder.FailedQueries()),
			)
			return nil
		case pipeline.StageGenerate:
			return p.RunGenerateStage(ctx)
		case pipeline.StageEnhance:
			return p.RunEnhanceStage(ctx)
		case pipeline.StageMerge:
			return p.RunMergeStage(ctx)
		default:
			return fmt.Errorf("unknown stage: %s", stage)
		}
	}
}

func buildPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	outputDir, _ := cmd.Flags().GetString("output")
	retries, _ := cmd.Flags().GetInt("retries")

	storage, err := base.NewRunStorage(base.NewRunStorageParams{Dir: outputDir})
	if err != nil {
		return nil, fmt.Errorf("failed to open output directory: %w", err)
	}

	aiClient, err := newAIClient(cmd)
	if err != nil {
		return nil, err
	}

	gateway := ai.NewGateway(ai.GatewayParams{
		Client:     aiClient,
		MaxRetries: retries,
	})

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	maxBatchTokens, _ := cmd.Flags().GetInt("max-batch-tokens")
	parallel, _ := cmd.Flags().GetInt("parallel")
	maxWords, _ := cmd.Flags().GetInt("max-words")
	enhanceBatchSize, _ := cmd.Flags().GetInt("enhance-batch-size")
	minEntities, _ := cmd.Flags().GetInt("min-entities")

	return pipeline.NewPipeline(pipeline.NewPipelineParams{
		Gateway: gateway,
		Storage: storage,

		BatchSize:      batchSize,
		MaxBatchTokens: maxBatchTokens,

		MaxPoisonWords:      maxWords,
		EnhanceBatchSize:    enhanceBatchSize,
		MinEntitiesRequired: minEntities,
		ParallelCores:       parallel,
	})
}

func newAIClient(cmd *cobra.Command) (ai.GraphAIClient, error) {
	adapter, _ := cmd.Flags().GetString("adapter")
	describeModel, _ := cmd.Flags().GetString("describe-model")
	extractModel, _ := cmd.Flags().GetString("extract-model")

	switch adapter {
	case "ollama":
		return oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			DescriptionModel: describeModel,
			ExtractionModel:  extractModel,

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_MAX_CONCURRENT", 4)),
		})
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			DescriptionModel: describeModel,
			ExtractionModel:  extractModel,

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		}), nil
	}
}
