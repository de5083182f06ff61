// Package config loads daemon settings from RWA_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr  string // RWA_HTTP_ADDR (default ":8080")
	GRPCAddr  string // RWA_GRPC_ADDR (default ":9090"; "off" = disabled)
	AuthToken string // RWA_AUTH_TOKEN (optional, empty = auth disabled)

	// Collaborators
	ProviderURL       string        // RWA_PROVIDER_URL (required)
	ComplianceURL     string        // RWA_COMPLIANCE_URL (required)
	LedgerURL         string        // RWA_LEDGER_URL (required)
	PollInterval      time.Duration // RWA_POLL_INTERVAL (default 3s)
	ProviderTimeout   time.Duration // RWA_PROVIDER_TIMEOUT (default 10s)
	ComplianceRetries int           // RWA_COMPLIANCE_RETRIES (default 2)

	DatabaseURL string // RWA_DATABASE_URL (optional, empty = no audit journal)
	NATSURL     string // RWA_NATS_URL (optional, empty = no events)

	// Journal export
	SyncInterval   time.Duration // RWA_SYNC_INTERVAL (default 0 = disabled)
	SyncS3Bucket   string        // RWA_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // RWA_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // RWA_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // RWA_SYNC_S3_KEY (default "rwa/journal.jsonl")
	SyncGitRepo    string        // RWA_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // RWA_SYNC_GIT_FILE (default "journal.jsonl")
	SyncGitBranch  string        // RWA_SYNC_GIT_BRANCH (default "main")
}

// GRPCDisabled is the RWA_GRPC_ADDR value that turns the gRPC listener off.
const GRPCDisabled = "off"

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:       envOrDefault("RWA_HTTP_ADDR", ":8080"),
		GRPCAddr:       envOrDefault("RWA_GRPC_ADDR", ":9090"),
		AuthToken:      os.Getenv("RWA_AUTH_TOKEN"),
		ProviderURL:    os.Getenv("RWA_PROVIDER_URL"),
		ComplianceURL:  os.Getenv("RWA_COMPLIANCE_URL"),
		LedgerURL:      os.Getenv("RWA_LEDGER_URL"),
		DatabaseURL:    os.Getenv("RWA_DATABASE_URL"),
		NATSURL:        os.Getenv("RWA_NATS_URL"),
		SyncS3Bucket:   os.Getenv("RWA_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("RWA_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("RWA_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("RWA_SYNC_S3_KEY", "rwa/journal.jsonl"),
		SyncGitRepo:    os.Getenv("RWA_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("RWA_SYNC_GIT_FILE", "journal.jsonl"),
		SyncGitBranch:  envOrDefault("RWA_SYNC_GIT_BRANCH", "main"),
	}
	if c.GRPCAddr == GRPCDisabled {
		c.GRPCAddr = ""
	}

	for _, req := range []struct{ key, val string }{
		{"RWA_PROVIDER_URL", c.ProviderURL},
		{"RWA_COMPLIANCE_URL", c.ComplianceURL},
		{"RWA_LEDGER_URL", c.LedgerURL},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("%s is required", req.key)
		}
	}

	var err error
	if c.PollInterval, err = durationEnv("RWA_POLL_INTERVAL", "3s"); err != nil {
		return nil, err
	}
	if c.PollInterval <= 0 {
		return nil, fmt.Errorf("RWA_POLL_INTERVAL must be positive")
	}
	if c.ProviderTimeout, err = durationEnv("RWA_PROVIDER_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if c.SyncInterval, err = durationEnv("RWA_SYNC_INTERVAL", "0"); err != nil {
		return nil, err
	}

	retries := envOrDefault("RWA_COMPLIANCE_RETRIES", "2")
	if c.ComplianceRetries, err = strconv.Atoi(retries); err != nil || c.ComplianceRetries < 0 {
		return nil, fmt.Errorf("RWA_COMPLIANCE_RETRIES: invalid value %q", retries)
	}

	return c, nil
}

func durationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
