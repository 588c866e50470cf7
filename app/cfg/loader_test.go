package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestValidateDefaultsBatchSize(t *testing.T) {
	cfg := &Cfg{
		DBPath:    "./data/listings.db",
		BatchSize: 0,
	}

	if err := validate(cfg); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("Expected batch size %d, got %d", DefaultBatchSize, cfg.BatchSize)
	}
}

func TestValidateRejectsMissingDBPath(t *testing.T) {
	cfg := &Cfg{
		DBPath:    "",
		BatchSize: 100,
	}

	if err := validate(cfg); err == nil {
		t.Error("Expected error for empty db-path")
	}
}

func TestValidateRejectsNegativeSchedulerInterval(t *testing.T) {
	cfg := &Cfg{
		DBPath:            "./data/listings.db",
		BatchSize:         100,
		SchedulerInterval: -1,
	}

	if err := validate(cfg); err == nil {
		t.Error("Expected error for negative scheduler-interval")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:             "./data/test.db",
		SourcesFile:        "./config/sources.yml",
		Port:               "8080",
		BatchSize:          500,
		SchedulerInterval:  3600,
		APIAccessKey:       "test-key",
		AWSRegion:          "eu-west-1",
		AWSAccessKeyID:     "test-access-key",
		AWSSecretAccessKey: "test-secret-key",
		S3Endpoint:         "http://localhost:9000",
		UserAgent:          "Test Agent",
		Debug:              true,
		Version:            "test-version",
	}

	if cfg.DBPath != "./data/test.db" {
		t.Errorf("Expected db path './data/test.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesFile != "./config/sources.yml" {
		t.Errorf("Expected sources file './config/sources.yml', got '%s'", cfg.SourcesFile)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.BatchSize != 500 {
		t.Errorf("Expected batch size 500, got %d", cfg.BatchSize)
	}
	if cfg.SchedulerInterval != 3600 {
		t.Errorf("Expected scheduler interval 3600, got %d", cfg.SchedulerInterval)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.AWSRegion != "eu-west-1" {
		t.Errorf("Expected AWS region 'eu-west-1', got '%s'", cfg.AWSRegion)
	}
	if cfg.S3Endpoint != "http://localhost:9000" {
		t.Errorf("Expected S3 endpoint 'http://localhost:9000', got '%s'", cfg.S3Endpoint)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
