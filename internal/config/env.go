package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// SDK backends that can serve the upload route before the direct gateway call.
const (
	SDKBackendNone  = "none"
	SDKBackendS3    = "s3"
	SDKBackendMinio = "minio"
)

// Search backends that can serve the search route before the direct gateway call.
const (
	SearchBackendNone    = "none"
	SearchBackendElastic = "elasticsearch"
)

type Config struct {
	// Gateway
	APIBase string `env:"API_BASE" validate:"required,url"`
	APIKey  string `env:"API_KEY"`

	// Buckets
	UploadBucket   string `env:"UPLOAD_BUCKET" envDefault:"skumuda-photo-album-bucket" validate:"required"`
	FrontendBucket string `env:"FRONTEND_BUCKET" envDefault:"photo-frontend-112925"`
	FrontendURL    string `env:"FRONTEND_URL" envDefault:"http://photo-frontend-112925.s3-website-us-east-1.amazonaws.com/"`

	// SDK route
	SDKBackend   string `env:"SDK_BACKEND" envDefault:"none" validate:"oneof=none s3 minio"`
	AwsRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey string `env:"AWS_SECRET_KEY"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	SearchBackend      string `env:"SEARCH_BACKEND" envDefault:"none" validate:"oneof=none elasticsearch"`
	ElasticsearchURL   string `env:"ELASTICSEARCH_URL" envDefault:"http://localhost:9200"`
	ElasticsearchIndex string `env:"ELASTICSEARCH_INDEX" envDefault:"photos"`

	// Transport
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`
	CircuitBreaker bool          `env:"CIRCUIT_BREAKER" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Port     string `env:"PORT" envDefault:"8080"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads the environment variables and returns the config.
// A .env file in the working directory is read first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}
	return Parse()
}

// Parse builds a Config from the current environment without touching .env.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints plus the credentials each SDK backend needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.SDKBackend {
	case SDKBackendS3:
		if c.AwsRegion == "" {
			return fmt.Errorf("AWS_REGION not set")
		}
	case SDKBackendMinio:
		if c.MinioEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT not set")
		}
		if c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("MinIO credentials not set")
		}
	}
	if c.SearchBackend == SearchBackendElastic && c.ElasticsearchURL == "" {
		return fmt.Errorf("ELASTICSEARCH_URL not set")
	}
	return nil
}

// HasSDK reports whether any SDK route was configured.
func (c *Config) HasSDK() bool {
	return c.SDKBackend != SDKBackendNone || c.SearchBackend != SearchBackendNone
}
