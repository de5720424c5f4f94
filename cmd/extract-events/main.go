package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/broucz/machine-learning-suite/internal/extract"
	"github.com/broucz/machine-learning-suite/internal/pipeline"
	"github.com/broucz/machine-learning-suite/internal/storage"
	"github.com/broucz/machine-learning-suite/internal/transform"
	"github.com/broucz/machine-learning-suite/internal/utils/config"
	"github.com/broucz/machine-learning-suite/internal/utils/dates"
	"github.com/broucz/machine-learning-suite/pkg/env"
)

//go:embed sql/extract_events.sql
var defaultQuery string

const (
	defaultDateRangeDays = 7
	defaultDownSampling  = 0.01
	defaultMaxWorkers    = 8
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "extract-events",
		Short:        "Extract hourly event partitions for model training",
		Long:         "Extracts hourly event data from ClickHouse, derives model features and writes one parquet partition per hour window.",
		RunE:         runExtract,
		SilenceUsage: true,
	}

	cmd.Flags().String("start_date", "",
		fmt.Sprintf("Start date for fetching dataset. Defaults to %d days ago at 00:00:00. Format: 'YYYY-MM-DD HH:MM:SS'", defaultDateRangeDays))
	cmd.Flags().String("end_date", "",
		"End date for fetching dataset. Defaults to yesterday at 23:59:59. Format: 'YYYY-MM-DD HH:MM:SS'")
	cmd.Flags().Float64("down_sampling_percentage", defaultDownSampling,
		fmt.Sprintf("Data sampling percentage (0-1). Defaults to %v.", defaultDownSampling))
	cmd.Flags().Int("max_workers", defaultMaxWorkers,
		fmt.Sprintf("Max number of concurrent query workers. Defaults to %d.", defaultMaxWorkers))
	cmd.Flags().String("storage_type", "remote",
		"Type of storage to use. Options are 'local' and 'remote'. Default is 'remote'.")
	cmd.Flags().String("config", "configs/extract_events.yaml",
		"Path to the job configuration file.")
	cmd.Flags().String("query_file", "",
		"Path to a SQL file overriding the embedded extraction query.")
	cmd.Flags().Bool("raw", false,
		"Extract raw events without feature derivation, skipping partitions that already exist.")

	return cmd
}

func runExtract(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	startArg, _ := flags.GetString("start_date")
	endArg, _ := flags.GetString("end_date")
	downSampling, _ := flags.GetFloat64("down_sampling_percentage")
	maxWorkers, _ := flags.GetInt("max_workers")
	storageType, _ := flags.GetString("storage_type")
	configPath, _ := flags.GetString("config")
	queryFile, _ := flags.GetString("query_file")
	raw, _ := flags.GetBool("raw")

	if err := validatePercentageArg(downSampling); err != nil {
		return err
	}
	if err := validatePositiveIntegerArg(maxWorkers); err != nil {
		return err
	}
	if err := validateStorageType(storageType); err != nil {
		return err
	}

	// Defaults are computed when the command runs, not at process start.
	startDate, endDate := dates.DateRangeForPastDays(defaultDateRangeDays, time.Now())
	if startArg != "" {
		var err error
		if startDate, err = validateDatetimeArg(startArg); err != nil {
			return err
		}
	}
	if endArg != "" {
		var err error
		if endDate, err = validateDatetimeArg(endArg); err != nil {
			return err
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	jobCfg, err := config.NewParser().Parse(configPath)
	if err != nil {
		return err
	}
	envCfg, err := env.Load(".")
	if err != nil {
		return err
	}

	query := defaultQuery
	if queryFile != "" {
		if query, err = extract.ReadQueryFromFile(queryFile); err != nil {
			return err
		}
	}

	client, err := extract.NewClickHouseClient(envCfg.CHHost, envCfg.CHPort, envCfg.CHUser, envCfg.CHPassword)
	if err != nil {
		return err
	}
	defer client.Close()

	var transformer pipeline.Transformer = pipeline.PassthroughTransformer{}
	if !raw {
		dictionary, err := transform.NewStaticDictionary(jobCfg.Dictionary.Dir)
		if err != nil {
			return err
		}
		transformer = transform.New(dictionary, logger)
	}

	store, err := newStorage(storageType, jobCfg, envCfg)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessor(
		pipeline.Config{
			StartDate:              startDate,
			EndDate:                endDate,
			DownSamplingPercentage: downSampling,
			MaxWorkers:             maxWorkers,
			SkipExisting:           raw,
		},
		logger,
		extract.NewExecutor(client),
		transformer,
		store,
		query,
	)

	return processor.Run(cmd.Context())
}

func newStorage(storageType string, jobCfg *config.JobConfig, envCfg *env.Config) (pipeline.Storage, error) {
	if storageType == "local" {
		rootDir := filepath.Join(jobCfg.Dataset.RootDir, jobCfg.Job.Namespace, jobCfg.Dataset.Name)
		return storage.NewLocalStorage(rootDir)
	}

	bucket := jobCfg.Storage.Bucket
	if envCfg.S3Bucket != "" {
		bucket = envCfg.S3Bucket
	}
	region := jobCfg.Storage.Region
	if region == "" {
		region = envCfg.AWSRegion
	}
	if bucket == "" {
		return nil, fmt.Errorf("remote storage requires a bucket (set storage.bucket in the job config or S3_BUCKET)")
	}
	return storage.NewS3Storage(region, bucket)
}
