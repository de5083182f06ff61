package config

import (
	"testing"
	"time"
)

// allEnvVars lists every variable Load reads; each test starts from a clean slate.
var allEnvVars = []string{
	"RWA_HTTP_ADDR", "RWA_GRPC_ADDR", "RWA_AUTH_TOKEN",
	"RWA_PROVIDER_URL", "RWA_COMPLIANCE_URL", "RWA_LEDGER_URL",
	"RWA_POLL_INTERVAL", "RWA_PROVIDER_TIMEOUT", "RWA_COMPLIANCE_RETRIES",
	"RWA_DATABASE_URL", "RWA_NATS_URL",
	"RWA_SYNC_INTERVAL", "RWA_SYNC_S3_BUCKET", "RWA_SYNC_S3_ENDPOINT",
	"RWA_SYNC_S3_REGION", "RWA_SYNC_S3_KEY", "RWA_SYNC_GIT_REPO",
	"RWA_SYNC_GIT_FILE", "RWA_SYNC_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

// setRequired sets the collaborator URLs Load insists on.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("RWA_PROVIDER_URL", "http://localhost:7001")
	t.Setenv("RWA_COMPLIANCE_URL", "http://localhost:7002")
	t.Setenv("RWA_LEDGER_URL", "http://localhost:7003")
}

func TestLoadRequired(t *testing.T) {
	for _, missing := range []string{"RWA_PROVIDER_URL", "RWA_COMPLIANCE_URL", "RWA_LEDGER_URL"} {
		t.Run(missing, func(t *testing.T) {
			clearAllEnv(t)
			setRequired(t)
			t.Setenv(missing, "")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error when %s is unset", missing)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAllEnv(t)
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tc := range []struct {
		name      string
		got, want any
	}{
		{"HTTPAddr", cfg.HTTPAddr, ":8080"},
		{"GRPCAddr", cfg.GRPCAddr, ":9090"},
		{"PollInterval", cfg.PollInterval, 3 * time.Second},
		{"ProviderTimeout", cfg.ProviderTimeout, 10 * time.Second},
		{"ComplianceRetries", cfg.ComplianceRetries, 2},
		{"SyncInterval", cfg.SyncInterval, time.Duration(0)},
		{"SyncS3Region", cfg.SyncS3Region, "us-east-1"},
		{"SyncS3Key", cfg.SyncS3Key, "rwa/journal.jsonl"},
		{"SyncGitFile", cfg.SyncGitFile, "journal.jsonl"},
		{"SyncGitBranch", cfg.SyncGitBranch, "main"},
		{"DatabaseURL", cfg.DatabaseURL, ""},
		{"NATSURL", cfg.NATSURL, ""},
	} {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestLoadCustom(t *testing.T) {
	clearAllEnv(t)
	setRequired(t)
	t.Setenv("RWA_HTTP_ADDR", ":3000")
	t.Setenv("RWA_GRPC_ADDR", "off")
	t.Setenv("RWA_POLL_INTERVAL", "500ms")
	t.Setenv("RWA_COMPLIANCE_RETRIES", "0")
	t.Setenv("RWA_DATABASE_URL", "postgres://db:5432/rwa")
	t.Setenv("RWA_NATS_URL", "nats://localhost:4222")
	t.Setenv("RWA_SYNC_INTERVAL", "5m")
	t.Setenv("RWA_SYNC_S3_BUCKET", "audit")
	t.Setenv("RWA_SYNC_GIT_REPO", "/var/lib/rwa/journal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != "" {
		t.Errorf("GRPCAddr = %q, want disabled", cfg.GRPCAddr)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.ComplianceRetries != 0 {
		t.Errorf("ComplianceRetries = %d", cfg.ComplianceRetries)
	}
	if cfg.DatabaseURL != "postgres://db:5432/rwa" || cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("DatabaseURL = %q, NATSURL = %q", cfg.DatabaseURL, cfg.NATSURL)
	}
	if cfg.SyncInterval != 5*time.Minute || cfg.SyncS3Bucket != "audit" || cfg.SyncGitRepo != "/var/lib/rwa/journal" {
		t.Errorf("sync = %v %q %q", cfg.SyncInterval, cfg.SyncS3Bucket, cfg.SyncGitRepo)
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, tc := range []struct {
		key, val string
	}{
		{"RWA_POLL_INTERVAL", "soon"},
		{"RWA_POLL_INTERVAL", "0s"},
		{"RWA_PROVIDER_TIMEOUT", "ten"},
		{"RWA_SYNC_INTERVAL", "not-a-duration"},
		{"RWA_COMPLIANCE_RETRIES", "-1"},
		{"RWA_COMPLIANCE_RETRIES", "many"},
	} {
		t.Run(tc.key+"="+tc.val, func(t *testing.T) {
			clearAllEnv(t)
			setRequired(t)
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.val)
			}
		})
	}
}

func TestEnvOrDefault(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_ENVDEFAULT_EMPTY", "", "default-val", "default-val"},
		{"SetUsesEnv", "TEST_ENVDEFAULT_SET", "custom", "default-val", "custom"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := envOrDefault(tc.key, tc.fallback)
			if got != tc.want {
				t.Errorf("envOrDefault(%q, %q) = %q, want %q", tc.key, tc.fallback, got, tc.want)
			}
		})
	}
}
