package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/images-ms-go/internal/optimiser"
	"github.com/fhuszti/images-ms-go/internal/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ImagesBucket   string

	RedisAddr      string
	RedisPassword  string
	StatusCacheTTL time.Duration

	TempDir    string
	ImageRules validation.ImageRules
	Transcode  optimiser.Settings

	FetchTimeout      time.Duration
	TaskTimeout       time.Duration
	WorkerConcurrency int

	EventBus     string
	NATSURL      string
	KafkaBrokers []string
	EventsTopic  string

	SentryDSN string

	StalePendingAfter    time.Duration
	StaleProcessingAfter time.Duration
}

var required = []string{
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
	"MINIO_ENDPOINT",
	"MINIO_ACCESS_KEY",
	"MINIO_SECRET_KEY",
	"TEMP_DIR",
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range required {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	setDefaults(v)

	ratios, err := parseRatios(v.GetString("ASPECT_RATIOS"))
	if err != nil {
		return nil, fmt.Errorf("ASPECT_RATIOS: %w", err)
	}

	eventBus := strings.ToLower(v.GetString("EVENT_BUS"))
	switch eventBus {
	case "", "nats", "kafka":
	default:
		return nil, fmt.Errorf("EVENT_BUS must be one of nats, kafka or empty, got %q", eventBus)
	}

	s := &Settings{
		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: seconds(v, "MARIADB_CONN_MAX_LIFETIME"),
		ServerPort:      v.GetInt("SERVER_PORT"),

		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		ImagesBucket:   v.GetString("IMAGES_BUCKET"),

		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		StatusCacheTTL: seconds(v, "STATUS_CACHE_TTL"),

		TempDir: v.GetString("TEMP_DIR"),
		ImageRules: validation.ImageRules{
			SizeLimitMB:  v.GetInt("SIZE_LIMIT_MB"),
			MinWidth:     v.GetInt("MIN_WIDTH"),
			MaxWidth:     v.GetInt("MAX_WIDTH"),
			MinHeight:    v.GetInt("MIN_HEIGHT"),
			MaxHeight:    v.GetInt("MAX_HEIGHT"),
			AspectRatios: ratios,
			Tolerance:    v.GetFloat64("ASPECT_TOLERANCE"),
		},
		Transcode: optimiser.Settings{
			MaxWidth: v.GetInt("TRANSCODE_MAX_WIDTH"),
			Quality:  v.GetInt("TRANSCODE_QUALITY"),
		},

		FetchTimeout:      seconds(v, "FETCH_TIMEOUT"),
		TaskTimeout:       seconds(v, "TASK_TIMEOUT"),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),

		EventBus:     eventBus,
		NATSURL:      v.GetString("NATS_URL"),
		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		EventsTopic:  v.GetString("EVENTS_TOPIC"),

		SentryDSN: v.GetString("SENTRY_DSN"),

		StalePendingAfter:    seconds(v, "STALE_PENDING_AFTER"),
		StaleProcessingAfter: seconds(v, "STALE_PROCESSING_AFTER"),
	}

	if err := validation.ValidateStruct(s.ImageRules); err != nil {
		return nil, fmt.Errorf("invalid image rules: %w", err)
	}
	if err := validation.ValidateStruct(s.Transcode); err != nil {
		return nil, fmt.Errorf("invalid transcode settings: %w", err)
	}
	if s.EventBus == "nats" && s.NATSURL == "" {
		return nil, fmt.Errorf("NATS_URL is required when EVENT_BUS=nats")
	}
	if s.EventBus == "kafka" && len(s.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required when EVENT_BUS=kafka")
	}

	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("IMAGES_BUCKET", "images")
	v.SetDefault("STATUS_CACHE_TTL", 300)
	v.SetDefault("SIZE_LIMIT_MB", 10)
	v.SetDefault("ASPECT_TOLERANCE", 0.05)
	v.SetDefault("TRANSCODE_MAX_WIDTH", optimiser.DefaultMaxWidth)
	v.SetDefault("TRANSCODE_QUALITY", optimiser.DefaultQuality)
	v.SetDefault("FETCH_TIMEOUT", 30)
	v.SetDefault("TASK_TIMEOUT", 120)
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("EVENTS_TOPIC", "images.processed")
	v.SetDefault("STALE_PENDING_AFTER", 900)
	v.SetDefault("STALE_PROCESSING_AFTER", 3600)
}

func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseRatios reads "1:1,16:9" into ratios. An empty string means no
// aspect-ratio restriction.
func parseRatios(s string) ([]validation.Ratio, error) {
	var ratios []validation.Ratio
	for _, p := range splitList(s) {
		num, den, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("invalid ratio %q, expected N:D", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid ratio %q, numerator must be a positive integer", p)
		}
		d, err := strconv.Atoi(strings.TrimSpace(den))
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid ratio %q, denominator must be a positive integer", p)
		}
		ratios = append(ratios, validation.Ratio{Num: n, Den: d})
	}
	return ratios, nil
}
