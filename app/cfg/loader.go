package cfg

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	if Version != "" {
		return Version
	}
	return "unknown"
}

const DefaultBatchSize = 1000

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/listings.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesFile       string `long:"sources-file" env:"SOURCES_FILE" default:"./config/sources.yml" description:"Path to the source configuration file"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BatchSize         int    `long:"batch-size" env:"BATCH_SIZE" default:"1000" description:"Number of records processed per batch"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"0" description:"Interval between ingestion sweeps in seconds (0 disables periodic sweeps)"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// S3 configuration
	AWSRegion          string `long:"aws-region" env:"AWS_REGION" default:"us-east-1" description:"AWS region for S3 sources"`
	AWSAccessKeyID     string `long:"aws-access-key-id" env:"AWS_ACCESS_KEY_ID" description:"AWS access key ID for S3 sources"`
	AWSSecretAccessKey string `long:"aws-secret-access-key" env:"AWS_SECRET_ACCESS_KEY" description:"AWS secret access key for S3 sources"`
	S3Endpoint         string `long:"s3-endpoint" env:"S3_ENDPOINT" description:"Custom S3 endpoint (optional, e.g. for MinIO)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Listing Comb/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:             raw.DBPath,
		SourcesFile:        raw.SourcesFile,
		Port:               raw.Port,
		BatchSize:          raw.BatchSize,
		SchedulerInterval:  raw.SchedulerInterval,
		APIAccessKey:       raw.APIAccessKey,
		AWSRegion:          raw.AWSRegion,
		AWSAccessKeyID:     raw.AWSAccessKeyID,
		AWSSecretAccessKey: raw.AWSSecretAccessKey,
		S3Endpoint:         raw.S3Endpoint,
		UserAgent:          raw.UserAgent,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	if cfg.DBPath == "" {
		return fmt.Errorf("db-path is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.SchedulerInterval < 0 {
		return fmt.Errorf("scheduler-interval must be non-negative")
	}
	return nil
}
