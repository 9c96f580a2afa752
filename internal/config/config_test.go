package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/images-ms-go/internal/validation"
)

var baseEnv = map[string]string{
	"MARIADB_DSN":               "user:pass@tcp(localhost:3306)/db",
	"MARIADB_MAX_OPEN_CONN":     "10",
	"MARIADB_MAX_IDLE_CONNS":    "5",
	"MARIADB_CONN_MAX_LIFETIME": "30",
	"SERVER_PORT":               "8080",
	"MINIO_ENDPOINT":            "localhost:9000",
	"MINIO_ACCESS_KEY":          "minio",
	"MINIO_SECRET_KEY":          "minio123",
	"TEMP_DIR":                  "/tmp/images-staging",
}

// isolate switches to a temp directory so no real .env gets loaded.
func isolate(t *testing.T) {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("could not chdir to temp dir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("could not chdir back to original dir: %v", err)
		}
	})
}

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	setEnv(t, baseEnv)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.MariaDBDSN != baseEnv["MARIADB_DSN"] {
		t.Errorf("MariaDBDSN: expected %q, got %q", baseEnv["MARIADB_DSN"], cfg.MariaDBDSN)
	}
	if cfg.ConnMaxLifetime != 30*time.Second {
		t.Errorf("ConnMaxLifetime: expected %v, got %v", 30*time.Second, cfg.ConnMaxLifetime)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort: expected %d, got %d", 8080, cfg.ServerPort)
	}
	if cfg.ImagesBucket != "images" {
		t.Errorf("ImagesBucket: expected %q, got %q", "images", cfg.ImagesBucket)
	}
	if cfg.ImageRules.SizeLimitMB != 10 {
		t.Errorf("SizeLimitMB: expected 10, got %d", cfg.ImageRules.SizeLimitMB)
	}
	if cfg.ImageRules.Tolerance != 0.05 {
		t.Errorf("Tolerance: expected 0.05, got %v", cfg.ImageRules.Tolerance)
	}
	if len(cfg.ImageRules.AspectRatios) != 0 {
		t.Errorf("AspectRatios: expected none, got %v", cfg.ImageRules.AspectRatios)
	}
	if cfg.Transcode.MaxWidth != 1920 || cfg.Transcode.Quality != 85 {
		t.Errorf("Transcode: expected 1920/85, got %d/%d", cfg.Transcode.MaxWidth, cfg.Transcode.Quality)
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout: expected 30s, got %v", cfg.FetchTimeout)
	}
	if cfg.EventBus != "" {
		t.Errorf("EventBus: expected empty, got %q", cfg.EventBus)
	}
	if cfg.EventsTopic != "images.processed" {
		t.Errorf("EventsTopic: expected images.processed, got %q", cfg.EventsTopic)
	}
}

func TestLoad_Overrides(t *testing.T) {
	isolate(t)
	setEnv(t, baseEnv)
	setEnv(t, map[string]string{
		"SIZE_LIMIT_MB":       "5",
		"MIN_WIDTH":           "100",
		"MAX_HEIGHT":          "4000",
		"ASPECT_RATIOS":       "1:1, 16:9",
		"ASPECT_TOLERANCE":    "0.1",
		"TRANSCODE_MAX_WIDTH": "1280",
		"TRANSCODE_QUALITY":   "70",
		"EVENT_BUS":           "Kafka",
		"KAFKA_BROKERS":       "k1:9092, k2:9092",
		"REDIS_ADDR":          "localhost:6379",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantRatios := []validation.Ratio{{Num: 1, Den: 1}, {Num: 16, Den: 9}}
	if !reflect.DeepEqual(cfg.ImageRules.AspectRatios, wantRatios) {
		t.Errorf("AspectRatios = %v; want %v", cfg.ImageRules.AspectRatios, wantRatios)
	}
	if cfg.ImageRules.SizeLimitMB != 5 || cfg.ImageRules.MinWidth != 100 || cfg.ImageRules.MaxHeight != 4000 {
		t.Errorf("unexpected rules: %+v", cfg.ImageRules)
	}
	if cfg.Transcode.MaxWidth != 1280 || cfg.Transcode.Quality != 70 {
		t.Errorf("Transcode = %+v", cfg.Transcode)
	}
	if cfg.EventBus != "kafka" {
		t.Errorf("EventBus = %q; want kafka", cfg.EventBus)
	}
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoad_MissingRequiredVars(t *testing.T) {
	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			isolate(t)

			for k, v := range baseEnv {
				if k == key {
					t.Setenv(k, "")
					if err := os.Unsetenv(k); err != nil {
						t.Fatalf("could not unset key %s in env: %v", k, err)
					}
				} else {
					t.Setenv(k, v)
				}
			}

			cfg, err := Load()
			if err == nil {
				t.Fatalf("expected error for missing %s, got nil", key)
			}
			if want := key + " is required"; err.Error() != want {
				t.Errorf("error = %q; want %q", err.Error(), want)
			}
			if cfg != nil {
				t.Errorf("expected cfg nil on error, got %#v", cfg)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad ratio", map[string]string{"ASPECT_RATIOS": "16-9"}, "ASPECT_RATIOS: invalid ratio"},
		{"zero denominator", map[string]string{"ASPECT_RATIOS": "1:0"}, "denominator must be a positive integer"},
		{"quality out of range", map[string]string{"TRANSCODE_QUALITY": "150"}, "invalid transcode settings"},
		{"negative tolerance", map[string]string{"ASPECT_TOLERANCE": "-1"}, "invalid image rules"},
		{"unknown bus", map[string]string{"EVENT_BUS": "sqs"}, "EVENT_BUS must be one of"},
		{"nats without url", map[string]string{"EVENT_BUS": "nats"}, "NATS_URL is required"},
		{"kafka without brokers", map[string]string{"EVENT_BUS": "kafka"}, "KAFKA_BROKERS is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			setEnv(t, baseEnv)
			setEnv(t, tc.env)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q; want it to contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}
