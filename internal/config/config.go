package config

import (
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	ServiceName            string        `mapstructure:"SERVICE_NAME"`
	HTTPPort               string        `mapstructure:"HTTP_PORT"`
	GRPCPort               string        `mapstructure:"GRPC_PORT"`
	MongoURI               string        `mapstructure:"MONGO_URI"`
	MongoDatabase          string        `mapstructure:"MONGO_DATABASE"`
	MongoConnectTimeout    time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT"`
	RedisAddress           string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword          string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int           `mapstructure:"REDIS_DB"`
	CategoryCacheTTL       time.Duration `mapstructure:"CATEGORY_CACHE_TTL"`
	NATSURL                string        `mapstructure:"NATS_URL"`
	CategoryEventsSubject  string        `mapstructure:"CATEGORY_EVENTS_SUBJECT"`
	PrometheusMetricsPort  string        `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string        `mapstructure:"LOG_LEVEL"`
	LogFormat              string        `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SearchTimeout          time.Duration `mapstructure:"SEARCH_TIMEOUT"`
	CategoryMaxDepth       int           `mapstructure:"CATEGORY_MAX_DEPTH"`
	ReportHideThreshold    int64         `mapstructure:"REPORT_HIDE_THRESHOLD"`
}

var (
	ErrMissingMongoURI      = errors.New("MONGO_URI is not set")
	ErrMissingMongoDatabase = errors.New("MONGO_DATABASE is not set")
)

// LoadConfig reads the environment. godotenv has already been applied by main.
func LoadConfig(log *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.MongoURI == "" {
		return nil, ErrMissingMongoURI
	}
	if cfg.MongoDatabase == "" {
		return nil, ErrMissingMongoDatabase
	}
	if cfg.CategoryMaxDepth <= 0 {
		log.Warn("CATEGORY_MAX_DEPTH must be positive, using default", zap.Int("value", cfg.CategoryMaxDepth))
		cfg.CategoryMaxDepth = 32
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 5 * time.Second
	}

	log.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("category_events_subject", cfg.CategoryEventsSubject),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
		zap.Duration("search_timeout", cfg.SearchTimeout),
		zap.Int("category_max_depth", cfg.CategoryMaxDepth),
		zap.Int64("report_hide_threshold", cfg.ReportHideThreshold),
	)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "advert-service")
	v.SetDefault("HTTP_PORT", "8085")
	v.SetDefault("GRPC_PORT", "50056")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "marketplace")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATEGORY_CACHE_TTL", "10m")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("CATEGORY_EVENTS_SUBJECT", "category.>")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9096")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SEARCH_TIMEOUT", "5s")
	v.SetDefault("CATEGORY_MAX_DEPTH", 32)
	v.SetDefault("REPORT_HIDE_THRESHOLD", 0)
}
