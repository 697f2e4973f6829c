package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr            string
	PostgresDSN         string
	RedisURL            string
	RedisNamespace      string
	MySQLDSN            string
	RabbitMQURL         string
	RabbitExchange      string
	RabbitQueue         string
	RabbitRoutingKey    string
	RabbitConsumerTag   string
	RabbitPublishPrefix string
	JWTSecret           string
	JWTAudience         string
	SSEHeartbeat        time.Duration
	AggregateLimit      int
	MutationTimeout     time.Duration
	OTELServiceName     string
	OTLPEndpoint        string
	OTLPInsecure        bool
	OTELSampleRatio     float64
	LogLevel            string
	LogFile             string
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:            ":8080",
		RedisNamespace:      "livefeed",
		SSEHeartbeat:        15 * time.Second,
		AggregateLimit:      100,
		MutationTimeout:     10 * time.Second,
		RabbitExchange:      "notifications",
		RabbitQueue:         "notifications.refresh",
		RabbitRoutingKey:    "refresh.*",
		RabbitConsumerTag:   "livefeed-consumer",
		RabbitPublishPrefix: "refresh",
		JWTAudience:         "authenticated",
		OTELServiceName:     "livefeed",
		OTLPInsecure:        true,
		LogFile:             "logs/livefeed.log",
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	if v, ok := os.LookupEnv("REDIS_NAMESPACE"); ok {
		cfg.RedisNamespace = v
	}
	if v := os.Getenv("JWT_AUDIENCE"); v != "" {
		cfg.JWTAudience = v
	}

	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	// Empty selects a per-instance exclusive queue.
	if v, ok := os.LookupEnv("RABBITMQ_QUEUE"); ok {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_ROUTING_KEY"); v != "" {
		cfg.RabbitRoutingKey = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}
	if v := os.Getenv("RABBITMQ_PUBLISH_PREFIX"); v != "" {
		cfg.RabbitPublishPrefix = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = b
		}
	}

	if v := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.OTELSampleRatio = f
		}
	}

	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	if v := os.Getenv("SSE_HEARTBEAT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSEHeartbeat = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("AGGREGATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AggregateLimit = n
		}
	}
	if v := os.Getenv("MUTATION_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MutationTimeout = time.Duration(n) * time.Second
		}
	}

	return cfg
}
